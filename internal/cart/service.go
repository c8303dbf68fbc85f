package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
	"github.com/gasana-dev/isoko-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// OrderPlacedEvent mirrors the event the direct order path emits, so
// downstream consumers see one shape regardless of how the order was born.
type OrderPlacedEvent struct {
	OrderID         uuid.UUID  `json:"order_id"`
	BuyerProfileID  uuid.UUID  `json:"buyer_profile_id"`
	MarketListingID *uuid.UUID `json:"market_listing_id,omitempty"`
	Crop            string     `json:"crop"`
	QuantityKg      float64    `json:"quantity_kg"`
	PriceOffer      float64    `json:"price_offer"`
}

// Service exposes buyer cart operations.
type Service interface {
	AddItem(ctx context.Context, input AddItemInput) (*models.CartItem, error)
	UpdateItem(ctx context.Context, input UpdateItemInput) (*models.CartItem, error)
	RemoveItem(ctx context.Context, actorUserID, itemID uuid.UUID) error
	Items(ctx context.Context, actorUserID uuid.UUID) ([]models.CartItem, error)
	Checkout(ctx context.Context, input CheckoutInput) ([]models.BuyerOrder, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc}, nil
}

// AddItem puts a listing in the cart, merging with an existing line for the
// same listing. Quantity is clamped to what the listing offers.
func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.CartItem, error) {
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}

	listing, err := s.activeListing(ctx, input.MarketListingID)
	if err != nil {
		return nil, err
	}

	qty := input.QuantityKg
	if qty > listing.QuantityKg {
		qty = listing.QuantityKg
	}

	if existing, err := s.repo.FindItemByListing(ctx, input.ActorUserID, listing.ID); err == nil {
		merged := existing.QuantityKg + qty
		if merged > listing.QuantityKg {
			merged = listing.QuantityKg
		}
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, merged); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "merge cart item")
		}
		existing.QuantityKg = merged
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}

	item := &models.CartItem{
		ID:              uuid.New(),
		UserID:          input.ActorUserID,
		MarketListingID: listing.ID,
		QuantityKg:      qty,
	}
	if _, err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart item")
	}
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, input UpdateItemInput) (*models.CartItem, error) {
	item, err := s.ownedItem(ctx, input.ActorUserID, input.ItemID)
	if err != nil {
		return nil, err
	}

	listing, err := s.activeListing(ctx, item.MarketListingID)
	if err != nil {
		return nil, err
	}

	qty := input.QuantityKg
	if qty > listing.QuantityKg {
		qty = listing.QuantityKg
	}
	if err := s.repo.UpdateItemQuantity(ctx, item.ID, qty); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	item.QuantityKg = qty
	return item, nil
}

func (s *service) RemoveItem(ctx context.Context, actorUserID, itemID uuid.UUID) error {
	item, err := s.ownedItem(ctx, actorUserID, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
	}
	return nil
}

func (s *service) Items(ctx context.Context, actorUserID uuid.UUID) ([]models.CartItem, error) {
	if actorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}
	items, err := s.repo.ListByUser(ctx, actorUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}
	return items, nil
}

// Checkout converts every cart line into an open order at the listing's
// minimum price and empties the cart, all in one transaction.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) ([]models.BuyerOrder, error) {
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}
	if !input.DeliveryWindowEnd.After(input.DeliveryWindowStart) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery window end must follow start")
	}

	profile, err := s.repo.FindBuyerProfileByUser(ctx, input.ActorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no buyer profile for actor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load buyer profile")
	}

	items, err := s.repo.ListByUser(ctx, input.ActorUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	var created []models.BuyerOrder
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		for _, item := range items {
			listing, err := repo.FindListing(ctx, item.MarketListingID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load listing")
			}
			if listing.Status != enums.ListingStatusActive {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "a cart listing is no longer active").
					WithDetails(map[string]any{"market_listing_id": listing.ID})
			}

			qty := item.QuantityKg
			if qty > listing.QuantityKg {
				qty = listing.QuantityKg
			}
			listingID := listing.ID
			order := models.BuyerOrder{
				ID:                  uuid.New(),
				BuyerProfileID:      profile.ID,
				MarketListingID:     &listingID,
				Crop:                listing.Crop,
				QuantityKg:          qty,
				PriceOffer:          listing.MinimumPrice,
				DeliveryLocation:    input.DeliveryLocation,
				DeliveryWindowStart: input.DeliveryWindowStart,
				DeliveryWindowEnd:   input.DeliveryWindowEnd,
				Notes:               input.Notes,
				Status:              enums.OrderStatusOpen,
			}
			if _, err := repo.CreateOrder(ctx, &order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
			}

			if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderPlaced,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				Actor:         &outbox.ActorRef{UserID: input.ActorUserID, Role: string(enums.ActorRoleBuyer)},
				Data: OrderPlacedEvent{
					OrderID:         order.ID,
					BuyerProfileID:  profile.ID,
					MarketListingID: &listingID,
					Crop:            listing.Crop,
					QuantityKg:      qty,
					PriceOffer:      listing.MinimumPrice,
				},
			}); err != nil {
				return err
			}
			created = append(created, order)
		}

		if err := repo.ClearUser(ctx, input.ActorUserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) activeListing(ctx context.Context, id uuid.UUID) (*models.MarketListing, error) {
	listing, err := s.repo.FindListing(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load listing")
	}
	if listing.Status != enums.ListingStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "listing is not active")
	}
	return listing, nil
}

func (s *service) ownedItem(ctx context.Context, actorUserID, itemID uuid.UUID) (*models.CartItem, error) {
	if actorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}
	if item.UserID != actorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart item belongs to another buyer")
	}
	return item, nil
}
