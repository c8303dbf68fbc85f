package inventory

import (
	"time"

	"github.com/google/uuid"
)

// AddLotInput captures a cooperative manager's request to register a lot.
type AddLotInput struct {
	ActorUserID         uuid.UUID
	FarmerID            *uuid.UUID
	Crop                string  `validate:"required"`
	QuantityKg          float64 `validate:"required,gt=0"`
	QualityGrade        string
	HarvestedAt         *time.Time
	ExpectedHarvestDate time.Time `validate:"required"`
}
