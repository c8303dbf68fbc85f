package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
	"github.com/gasana-dev/isoko-backend/pkg/outbox"
)

type stubCartRepo struct {
	items    map[uuid.UUID]*models.CartItem
	listings map[uuid.UUID]*models.MarketListing
	profiles map[uuid.UUID]*models.BuyerProfile
	orders   []*models.BuyerOrder
	cleared  []uuid.UUID
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{
		items:    map[uuid.UUID]*models.CartItem{},
		listings: map[uuid.UUID]*models.MarketListing{},
		profiles: map[uuid.UUID]*models.BuyerProfile{},
	}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range s.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubCartRepo) FindItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubCartRepo) FindItemByListing(ctx context.Context, userID, listingID uuid.UUID) (*models.CartItem, error) {
	for _, item := range s.items {
		if item.UserID == userID && item.MarketListingID == listingID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	s.items[item.ID] = item
	return item, nil
}

func (s *stubCartRepo) UpdateItemQuantity(ctx context.Context, id uuid.UUID, quantityKg float64) error {
	if item, ok := s.items[id]; ok {
		item.QuantityKg = quantityKg
	}
	return nil
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func (s *stubCartRepo) ClearUser(ctx context.Context, userID uuid.UUID) error {
	s.cleared = append(s.cleared, userID)
	for id, item := range s.items {
		if item.UserID == userID {
			delete(s.items, id)
		}
	}
	return nil
}

func (s *stubCartRepo) FindListing(ctx context.Context, id uuid.UUID) (*models.MarketListing, error) {
	listing, ok := s.listings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return listing, nil
}

func (s *stubCartRepo) FindBuyerProfileByUser(ctx context.Context, userID uuid.UUID) (*models.BuyerProfile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (s *stubCartRepo) CreateOrder(ctx context.Context, order *models.BuyerOrder) (*models.BuyerOrder, error) {
	s.orders = append(s.orders, order)
	return order, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newCartService(t *testing.T, repo *stubCartRepo) (Service, *stubOutboxPublisher) {
	t.Helper()
	events := &stubOutboxPublisher{}
	svc, err := NewService(repo, stubTxRunner{}, events)
	require.NoError(t, err)
	return svc, events
}

func activeListing(qty float64) *models.MarketListing {
	return &models.MarketListing{
		ID:            uuid.New(),
		CooperativeID: uuid.New(),
		Crop:          "maize",
		QuantityKg:    qty,
		MinimumPrice:  340,
		Status:        enums.ListingStatusActive,
	}
}

func TestAddItemClampsToListingStock(t *testing.T) {
	repo := newStubCartRepo()
	listing := activeListing(500)
	repo.listings[listing.ID] = listing
	svc, _ := newCartService(t, repo)

	buyer := uuid.New()
	item, err := svc.AddItem(context.Background(), AddItemInput{
		ActorUserID:     buyer,
		MarketListingID: listing.ID,
		QuantityKg:      800,
	})
	require.NoError(t, err)
	assert.InDelta(t, 500, item.QuantityKg, 0.001)
	assert.Len(t, repo.items, 1)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	repo := newStubCartRepo()
	listing := activeListing(500)
	repo.listings[listing.ID] = listing
	svc, _ := newCartService(t, repo)

	buyer := uuid.New()
	first, err := svc.AddItem(context.Background(), AddItemInput{
		ActorUserID:     buyer,
		MarketListingID: listing.ID,
		QuantityKg:      200,
	})
	require.NoError(t, err)

	merged, err := svc.AddItem(context.Background(), AddItemInput{
		ActorUserID:     buyer,
		MarketListingID: listing.ID,
		QuantityKg:      400,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, merged.ID)
	assert.InDelta(t, 500, merged.QuantityKg, 0.001)
	assert.Len(t, repo.items, 1)
}

func TestAddItemRejectsClosedListing(t *testing.T) {
	repo := newStubCartRepo()
	listing := activeListing(500)
	listing.Status = enums.ListingStatusClosed
	repo.listings[listing.ID] = listing
	svc, _ := newCartService(t, repo)

	_, err := svc.AddItem(context.Background(), AddItemInput{
		ActorUserID:     uuid.New(),
		MarketListingID: listing.ID,
		QuantityKg:      100,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestRemoveItemForbidsForeignItem(t *testing.T) {
	repo := newStubCartRepo()
	svc, _ := newCartService(t, repo)

	item := &models.CartItem{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		MarketListingID: uuid.New(),
		QuantityKg:      100,
	}
	repo.items[item.ID] = item

	err := svc.RemoveItem(context.Background(), uuid.New(), item.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
	assert.Len(t, repo.items, 1)
}

func TestCheckoutCreatesOrderPerLine(t *testing.T) {
	repo := newStubCartRepo()
	maize := activeListing(500)
	beans := activeListing(300)
	beans.Crop = "beans"
	beans.MinimumPrice = 520
	repo.listings[maize.ID] = maize
	repo.listings[beans.ID] = beans

	buyer := uuid.New()
	repo.profiles[buyer] = &models.BuyerProfile{ID: uuid.New(), UserID: buyer}
	for _, listing := range []*models.MarketListing{maize, beans} {
		item := &models.CartItem{
			ID:              uuid.New(),
			UserID:          buyer,
			MarketListingID: listing.ID,
			QuantityKg:      100,
		}
		repo.items[item.ID] = item
	}

	svc, events := newCartService(t, repo)
	start := time.Now().Add(48 * time.Hour)
	orders, err := svc.Checkout(context.Background(), CheckoutInput{
		ActorUserID:         buyer,
		DeliveryLocation:    "Kigali, Nyabugogo depot",
		DeliveryWindowStart: start,
		DeliveryWindowEnd:   start.Add(6 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	prices := map[string]float64{}
	for _, order := range orders {
		assert.Equal(t, enums.OrderStatusOpen, order.Status)
		require.NotNil(t, order.MarketListingID)
		prices[order.Crop] = order.PriceOffer
	}
	assert.InDelta(t, 340, prices["maize"], 0.001)
	assert.InDelta(t, 520, prices["beans"], 0.001)

	require.Len(t, events.events, 2)
	for _, event := range events.events {
		assert.Equal(t, enums.EventOrderPlaced, event.EventType)
	}
	assert.Empty(t, repo.items)
}

func TestCheckoutFailsOnClosedListing(t *testing.T) {
	repo := newStubCartRepo()
	listing := activeListing(500)
	repo.listings[listing.ID] = listing

	buyer := uuid.New()
	repo.profiles[buyer] = &models.BuyerProfile{ID: uuid.New(), UserID: buyer}
	item := &models.CartItem{
		ID:              uuid.New(),
		UserID:          buyer,
		MarketListingID: listing.ID,
		QuantityKg:      100,
	}
	repo.items[item.ID] = item

	// The listing closes between add-to-cart and checkout.
	listing.Status = enums.ListingStatusClosed

	svc, events := newCartService(t, repo)
	start := time.Now().Add(48 * time.Hour)
	_, err := svc.Checkout(context.Background(), CheckoutInput{
		ActorUserID:         buyer,
		DeliveryLocation:    "Kigali",
		DeliveryWindowStart: start,
		DeliveryWindowEnd:   start.Add(6 * time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.Empty(t, events.events)
	assert.Len(t, repo.items, 1)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	repo := newStubCartRepo()
	buyer := uuid.New()
	repo.profiles[buyer] = &models.BuyerProfile{ID: uuid.New(), UserID: buyer}
	svc, _ := newCartService(t, repo)

	start := time.Now().Add(48 * time.Hour)
	_, err := svc.Checkout(context.Background(), CheckoutInput{
		ActorUserID:         buyer,
		DeliveryLocation:    "Kigali",
		DeliveryWindowStart: start,
		DeliveryWindowEnd:   start.Add(6 * time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
