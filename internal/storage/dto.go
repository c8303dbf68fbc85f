package storage

import (
	"time"

	"github.com/google/uuid"
)

// BookInput captures a cooperative manager's storage reservation request.
type BookInput struct {
	ActorUserID uuid.UUID
	FacilityID  uuid.UUID `validate:"required"`
	ContractID  uuid.UUID `validate:"required"`
	LotID       *uuid.UUID
	QuantityKg  float64   `validate:"required,gt=0"`
	StartDate   time.Time `validate:"required"`
	EndDate     time.Time `validate:"required"`
}
