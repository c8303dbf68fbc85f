package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/config"
	dbpkg "github.com/gasana-dev/isoko-backend/pkg/db"
	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
	"github.com/gasana-dev/isoko-backend/pkg/idgen"
	"github.com/gasana-dev/isoko-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// TransportSynthesizer creates the haulage leg for a freshly accepted
// contract inside the accept transaction.
type TransportSynthesizer interface {
	SynthesizeForContract(ctx context.Context, tx *gorm.DB, contract *models.Contract, order *models.BuyerOrder, coop *models.Cooperative) (*models.TransportRequest, error)
}

// Service defines buyer order operations.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.BuyerOrder, error)
	RespondToOrder(ctx context.Context, input RespondInput) (*RespondResult, error)
	BuyerOrders(ctx context.Context, actorUserID uuid.UUID) ([]models.BuyerOrder, error)
	CooperativeOrders(ctx context.Context, actorUserID uuid.UUID) ([]models.BuyerOrder, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	outbox    outboxPublisher
	transport TransportSynthesizer
	ids       idgen.Generator
	cfg       config.FulfillmentConfig
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, transport TransportSynthesizer, ids idgen.Generator, cfg config.FulfillmentConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if transport == nil {
		return nil, fmt.Errorf("transport synthesizer required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id generator required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		outbox:    outboxSvc,
		transport: transport,
		ids:       ids,
		cfg:       cfg,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.BuyerOrder, error) {
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

	crop := input.Crop
	if input.MarketListingID != nil {
		listing, err := s.repo.FindListing(ctx, *input.MarketListingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load listing")
		}
		if listing.Status != enums.ListingStatusActive {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "listing is not active")
		}
		if input.QuantityKg > listing.QuantityKg {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientInventory, "quantity exceeds listing").
				WithDetails(map[string]any{"listing_kg": listing.QuantityKg})
		}
		if input.PriceOffer < listing.MinimumPrice {
			return nil, pkgerrors.New(pkgerrors.CodePriceBelowFloor, "offer below listing minimum price").
				WithDetails(map[string]any{"minimum_price": listing.MinimumPrice})
		}
		crop = listing.Crop
	}
	if crop == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "crop required")
	}

	order := &models.BuyerOrder{
		ID:                  uuid.New(),
		BuyerProfileID:      profile.ID,
		MarketListingID:     input.MarketListingID,
		Crop:                crop,
		QuantityKg:          input.QuantityKg,
		PriceOffer:          input.PriceOffer,
		DeliveryLocation:    input.DeliveryLocation,
		DeliveryWindowStart: input.DeliveryWindowStart,
		DeliveryWindowEnd:   input.DeliveryWindowEnd,
		Notes:               input.Notes,
		Status:              enums.OrderStatusOpen,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, Role: string(enums.ActorRoleBuyer)},
			Data: OrderPlacedEvent{
				OrderID:         order.ID,
				BuyerProfileID:  profile.ID,
				MarketListingID: input.MarketListingID,
				Crop:            crop,
				QuantityKg:      input.QuantityKg,
				PriceOffer:      input.PriceOffer,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) RespondToOrder(ctx context.Context, input RespondInput) (*RespondResult, error) {
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}
	if input.Decision != OrderDecisionAccept && input.Decision != OrderDecisionReject {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decision must be accept or reject")
	}

	coop, err := s.repo.FindCooperativeByManager(ctx, input.ActorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no cooperative managed by actor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cooperative")
	}

	var result RespondResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if order.Status != enums.OrderStatusOpen {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already decided").
				WithDetails(map[string]any{"status": order.Status})
		}

		// Listing-backed orders are only respondable by the listing's
		// cooperative; broadcast orders by whoever responds first.
		if order.MarketListingID != nil {
			listing, err := repo.FindListing(ctx, *order.MarketListingID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load listing")
			}
			if listing.CooperativeID != coop.ID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "order targets another cooperative")
			}
		}

		if input.Decision == OrderDecisionReject {
			decided, err := repo.DecideOrderIfOpen(ctx, order.ID, enums.OrderStatusRejected)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reject order")
			}
			if !decided {
				return pkgerrors.New(pkgerrors.CodeConflict, "order decided concurrently")
			}
			order.Status = enums.OrderStatusRejected
			result.Order = order
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderRejected,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				Actor:         &outbox.ActorRef{UserID: input.ActorUserID, Role: string(enums.ActorRoleCooperative)},
				Data:          OrderRejectedEvent{OrderID: order.ID, CooperativeID: coop.ID},
			})
		}

		allocated, allocatedKg, err := s.allocateLots(ctx, repo, coop.ID, order)
		if err != nil {
			return err
		}

		contract := &models.Contract{
			ID:           uuid.New(),
			BuyerOrderID: order.ID,
			AgreedPrice:  order.PriceOffer,
			Status:       enums.ContractStatusActive,
		}
		if err := s.createContractWithTracking(ctx, repo, contract); err != nil {
			return err
		}

		links := make([]models.ContractLot, 0, len(allocated))
		lotIDs := make([]uuid.UUID, 0, len(allocated))
		for _, lot := range allocated {
			links = append(links, models.ContractLot{ContractID: contract.ID, LotID: lot.ID})
			lotIDs = append(lotIDs, lot.ID)
		}
		if err := repo.CreateContractLots(ctx, links); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "link contract lots")
		}

		decided, err := repo.DecideOrderIfOpen(ctx, order.ID, enums.OrderStatusAccepted)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "accept order")
		}
		if !decided {
			return pkgerrors.New(pkgerrors.CodeConflict, "order decided concurrently")
		}
		order.Status = enums.OrderStatusAccepted

		transportReq, err := s.transport.SynthesizeForContract(ctx, tx, contract, order, coop)
		if err != nil {
			return err
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventContractCreated,
			AggregateType: enums.AggregateContract,
			AggregateID:   contract.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, Role: string(enums.ActorRoleCooperative)},
			Data: ContractCreatedEvent{
				ContractID:    contract.ID,
				OrderID:       order.ID,
				CooperativeID: coop.ID,
				TrackingID:    contract.TrackingID,
				AgreedPrice:   contract.AgreedPrice,
				LotIDs:        lotIDs,
				AllocatedKg:   allocatedKg,
			},
		}); err != nil {
			return err
		}

		shortfall := order.QuantityKg - allocatedKg
		if shortfall < 0 {
			shortfall = 0
		}
		result.Order = order
		result.Contract = &ContractView{
			ContractID:  contract.ID,
			TrackingID:  contract.TrackingID,
			AgreedPrice: contract.AgreedPrice,
			Status:      contract.Status,
			LotIDs:      lotIDs,
			AllocatedKg: allocatedKg,
			ShortfallKg: shortfall,
			TransportID: transportReq.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// trackingIDAttempts bounds how many codes one contract creation may draw
// when it collides with an existing tracking_id.
const trackingIDAttempts = 3

// createContractWithTracking persists the contract, drawing a fresh tracking
// code when the generated one is already taken.
func (s *service) createContractWithTracking(ctx context.Context, repo Repository, contract *models.Contract) error {
	var err error
	for attempt := 0; attempt < trackingIDAttempts; attempt++ {
		contract.TrackingID = s.ids.TrackingID()
		if _, err = repo.CreateContract(ctx, contract); err == nil {
			return nil
		}
		if !dbpkg.IsUniqueViolation(err, "tracking_id") {
			break
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create contract")
}

// allocateLots reserves listed lots oldest-harvest-first until the order
// quantity is covered or candidates run out.
func (s *service) allocateLots(ctx context.Context, repo Repository, coopID uuid.UUID, order *models.BuyerOrder) ([]models.Lot, float64, error) {
	candidates, err := repo.ListedLotsForCrop(ctx, coopID, order.Crop, s.cfg.LotCandidateCap)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list candidate lots")
	}

	var (
		allocated   []models.Lot
		allocatedKg float64
	)
	for _, lot := range candidates {
		if allocatedKg >= order.QuantityKg {
			break
		}
		reserved, err := repo.ReserveLotIfListed(ctx, lot.ID)
		if err != nil {
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserve lot")
		}
		if !reserved {
			continue
		}
		allocated = append(allocated, lot)
		allocatedKg += lot.QuantityKg
	}

	if allocatedKg < order.QuantityKg && s.cfg.Strict() {
		return nil, 0, pkgerrors.New(pkgerrors.CodeInsufficientInventory, "listed lots cannot cover order").
			WithDetails(map[string]any{"requested_kg": order.QuantityKg, "allocated_kg": allocatedKg})
	}
	if len(allocated) == 0 {
		return nil, 0, pkgerrors.New(pkgerrors.CodeInsufficientInventory, "no listed lots for crop")
	}
	return allocated, allocatedKg, nil
}

func (s *service) BuyerOrders(ctx context.Context, actorUserID uuid.UUID) ([]models.BuyerOrder, error) {
	if actorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}
	profile, err := s.repo.FindBuyerProfileByUser(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no buyer profile for actor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load buyer profile")
	}
	ordersList, err := s.repo.ListByBuyerProfile(ctx, profile.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list buyer orders")
	}
	return ordersList, nil
}

func (s *service) CooperativeOrders(ctx context.Context, actorUserID uuid.UUID) ([]models.BuyerOrder, error) {
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
	ordersList, err := s.repo.ListForCooperative(ctx, coop.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cooperative orders")
	}
	return ordersList, nil
}
