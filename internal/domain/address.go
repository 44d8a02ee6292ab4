package domain

import (
	"time"

	"github.com/google/uuid"
)

// AddressSnapshot is a frozen copy of a shipping address taken at checkout.
// It is embedded in the order, never a foreign key into the mutable
// addresses table, so later edits cannot corrupt historical orders.
type AddressSnapshot struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Address struct {
	ID        uuid.UUID
	UserID    string
	Snapshot  AddressSnapshot
	IsDefault bool

	CreatedAt time.Time
}
