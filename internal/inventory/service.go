package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
)

// Service exposes cooperative inventory operations.
type Service interface {
	AddLot(ctx context.Context, input AddLotInput) (*models.Lot, error)
	CooperativeInventory(ctx context.Context, actorUserID uuid.UUID) ([]models.Lot, error)
	CooperativeForManager(ctx context.Context, actorUserID uuid.UUID) (*models.Cooperative, error)
}

type service struct {
	repo Repository
}

// NewService builds an inventory service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) AddLot(ctx context.Context, input AddLotInput) (*models.Lot, error) {
	coop, err := s.managedCooperative(ctx, input.ActorUserID)
	if err != nil {
		return nil, err
	}

	if input.FarmerID != nil {
		farmer, err := s.repo.FindFarmer(ctx, *input.FarmerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farmer not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load farmer")
		}
		if farmer.CooperativeID != coop.ID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "farmer belongs to another cooperative")
		}
	}

	lot := &models.Lot{
		ID:                  uuid.New(),
		CooperativeID:       coop.ID,
		FarmerID:            input.FarmerID,
		Crop:                input.Crop,
		QuantityKg:          input.QuantityKg,
		QualityGrade:        input.QualityGrade,
		HarvestedAt:         input.HarvestedAt,
		ExpectedHarvestDate: input.ExpectedHarvestDate,
	}
	created, err := s.repo.CreateLot(ctx, lot)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create lot")
	}
	return created, nil
}

func (s *service) CooperativeInventory(ctx context.Context, actorUserID uuid.UUID) ([]models.Lot, error) {
	coop, err := s.managedCooperative(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	lots, err := s.repo.ListByCooperative(ctx, coop.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list lots")
	}
	return lots, nil
}

func (s *service) CooperativeForManager(ctx context.Context, actorUserID uuid.UUID) (*models.Cooperative, error) {
	return s.managedCooperative(ctx, actorUserID)
}

func (s *service) managedCooperative(ctx context.Context, actorUserID uuid.UUID) (*models.Cooperative, error) {
	if actorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}
	coop, err := s.repo.FindCooperativeByManager(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no cooperative managed by actor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cooperative")
	}
	if !coop.Active {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cooperative inactive")
	}
	return coop, nil
}
