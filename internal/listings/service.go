package listings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
)

// Service exposes market listing operations.
type Service interface {
	CreateListing(ctx context.Context, input CreateListingInput) (*models.MarketListing, error)
	CloseListing(ctx context.Context, actorUserID, listingID uuid.UUID) (*models.MarketListing, error)
	PublicListings(ctx context.Context, crop string) ([]models.MarketListing, error)
	CooperativeListings(ctx context.Context, actorUserID uuid.UUID) ([]models.MarketListing, error)
}

type service struct {
	repo Repository
}

// NewService builds a listings service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateListing(ctx context.Context, input CreateListingInput) (*models.MarketListing, error) {
	coop, err := s.managedCooperative(ctx, input.ActorUserID)
	if err != nil {
		return nil, err
	}

	available, err := s.repo.SumListedLotQuantity(ctx, coop.ID, input.Crop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum listed lots")
	}
	if available < input.QuantityKg {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientInventory, "listed lots do not cover listing quantity").
			WithDetails(map[string]any{"requested_kg": input.QuantityKg, "available_kg": available})
	}

	listing := &models.MarketListing{
		ID:                      uuid.New(),
		CooperativeID:           coop.ID,
		Crop:                    input.Crop,
		QuantityKg:              input.QuantityKg,
		MinimumPrice:            input.MinimumPrice,
		AvailabilityWindowStart: input.AvailabilityWindowStart,
		AvailabilityWindowEnd:   input.AvailabilityWindowEnd,
		QualityGrade:            input.QualityGrade,
		Description:             input.Description,
		Status:                  enums.ListingStatusActive,
	}
	created, err := s.repo.CreateListing(ctx, listing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create listing")
	}
	return created, nil
}

func (s *service) CloseListing(ctx context.Context, actorUserID, listingID uuid.UUID) (*models.MarketListing, error) {
	coop, err := s.managedCooperative(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	listing, err := s.repo.FindListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load listing")
	}
	if listing.CooperativeID != coop.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another cooperative")
	}
	if listing.Status == enums.ListingStatusClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "listing already closed")
	}

	if err := s.repo.UpdateListingStatus(ctx, listing.ID, enums.ListingStatusClosed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close listing")
	}
	listing.Status = enums.ListingStatusClosed
	return listing, nil
}

func (s *service) PublicListings(ctx context.Context, crop string) ([]models.MarketListing, error) {
	listings, err := s.repo.ListActive(ctx, crop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list active listings")
	}
	return listings, nil
}

func (s *service) CooperativeListings(ctx context.Context, actorUserID uuid.UUID) ([]models.MarketListing, error) {
	coop, err := s.managedCooperative(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	listings, err := s.repo.ListByCooperative(ctx, coop.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cooperative listings")
	}
	return listings, nil
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
