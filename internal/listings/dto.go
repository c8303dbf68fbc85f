package listings

import (
	"time"

	"github.com/google/uuid"
)

// CreateListingInput captures a cooperative manager's request to publish a listing.
type CreateListingInput struct {
	ActorUserID             uuid.UUID
	Crop                    string  `validate:"required"`
	QuantityKg              float64 `validate:"required,gt=0"`
	MinimumPrice            float64 `validate:"required,gt=0"`
	AvailabilityWindowStart time.Time
	AvailabilityWindowEnd   time.Time
	QualityGrade            string
	Description             string
}
