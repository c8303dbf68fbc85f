package transport

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// Repository defines persistence operations for transport requests and the
// transporter/contract lookups the dispatch flows need.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateRequest(ctx context.Context, req *models.TransportRequest) (*models.TransportRequest, error)
	FindRequest(ctx context.Context, id uuid.UUID) (*models.TransportRequest, error)
	UpdateRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error
	// ListPendingUnassigned returns open jobs whose load does not exceed
	// maxLoadKg, soonest pickup first.
	ListPendingUnassigned(ctx context.Context, maxLoadKg float64) ([]models.TransportRequest, error)
	ListByTransporter(ctx context.Context, transporterID uuid.UUID) ([]models.TransportRequest, error)
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]models.TransportRequest, error)

	// HasScheduleConflict reports whether the transporter already carries a
	// job whose pickup window overlaps [start, end], or delivered one less
	// than gap before start.
	HasScheduleConflict(ctx context.Context, transporterID uuid.UUID, start, end time.Time, gap time.Duration) (bool, error)

	FindTransporter(ctx context.Context, id uuid.UUID) (*models.TransporterProfile, error)
	FindTransporterByUser(ctx context.Context, userID uuid.UUID) (*models.TransporterProfile, error)

	UpdateContractStatus(ctx context.Context, contractID uuid.UUID, status enums.ContractStatus) error
	CooperativeIDForContract(ctx context.Context, contractID uuid.UUID) (uuid.UUID, error)
	FindCooperativeByManager(ctx context.Context, managerUserID uuid.UUID) (*models.Cooperative, error)
}
