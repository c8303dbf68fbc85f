package transport

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a transport repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRequest(ctx context.Context, req *models.TransportRequest) (*models.TransportRequest, error) {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (r *repository) FindRequest(ctx context.Context, id uuid.UUID) (*models.TransportRequest, error) {
	var req models.TransportRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) UpdateRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.TransportRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ListPendingUnassigned(ctx context.Context, maxLoadKg float64) ([]models.TransportRequest, error) {
	var reqs []models.TransportRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND transporter_id IS NULL AND load_kg <= ?", enums.TransportStatusPending, maxLoadKg).
		Order("pickup_start ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) ListByTransporter(ctx context.Context, transporterID uuid.UUID) ([]models.TransportRequest, error) {
	var reqs []models.TransportRequest
	err := r.db.WithContext(ctx).
		Where("transporter_id = ?", transporterID).
		Order("pickup_start ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]models.TransportRequest, error) {
	var reqs []models.TransportRequest
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) HasScheduleConflict(ctx context.Context, transporterID uuid.UUID, start, end time.Time, gap time.Duration) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TransportRequest{}).
		Where("transporter_id = ?", transporterID).
		Where(
			r.db.Where("status IN (?) AND pickup_start <= ? AND pickup_end >= ?",
				[]enums.TransportStatus{enums.TransportStatusAssigned, enums.TransportStatusPickedUp, enums.TransportStatusDelivered}, end, start).
				Or("status = ? AND delivered_at > ?", enums.TransportStatusDelivered, start.Add(-gap)),
		).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindTransporter(ctx context.Context, id uuid.UUID) (*models.TransporterProfile, error) {
	var profile models.TransporterProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindTransporterByUser(ctx context.Context, userID uuid.UUID) (*models.TransporterProfile, error) {
	var profile models.TransporterProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) UpdateContractStatus(ctx context.Context, contractID uuid.UUID, status enums.ContractStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Contract{}).
		Where("id = ?", contractID).
		Update("status", status).Error
}

// CooperativeIDForContract resolves the cooperative through the contract's
// reserved lots.
func (r *repository) CooperativeIDForContract(ctx context.Context, contractID uuid.UUID) (uuid.UUID, error) {
	var coopID uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.ContractLot{}).
		Select("lots.cooperative_id").
		Joins("JOIN lots ON lots.id = contract_lots.lot_id").
		Where("contract_lots.contract_id = ?", contractID).
		Limit(1).
		Scan(&coopID).Error
	if err != nil {
		return uuid.Nil, err
	}
	if coopID == uuid.Nil {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return coopID, nil
}

func (r *repository) FindCooperativeByManager(ctx context.Context, managerUserID uuid.UUID) (*models.Cooperative, error) {
	var coop models.Cooperative
	if err := r.db.WithContext(ctx).Where("manager_user_id = ?", managerUserID).First(&coop).Error; err != nil {
		return nil, err
	}
	return &coop, nil
}
