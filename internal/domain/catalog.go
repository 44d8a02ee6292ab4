package domain

import "github.com/google/uuid"

type Product struct {
	ID        uuid.UUID
	Name      string
	BasePrice Money
	Active    bool
}

type Material struct {
	ID     uuid.UUID
	Name   string
	Price  Money
	Active bool
}
