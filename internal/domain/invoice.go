package domain

import (
	"time"

	"github.com/google/uuid"
)

type Invoice struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	Number   string
	IssuedAt time.Time
}
