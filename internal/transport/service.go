package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/config"
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

// Service defines transport dispatch operations.
type Service interface {
	SynthesizeForContract(ctx context.Context, tx *gorm.DB, contract *models.Contract, order *models.BuyerOrder, coop *models.Cooperative) (*models.TransportRequest, error)
	Assign(ctx context.Context, input AssignInput) (*models.TransportRequest, error)
	Accept(ctx context.Context, actorUserID, transportID uuid.UUID) (*models.TransportRequest, error)
	Pickup(ctx context.Context, actorUserID, transportID uuid.UUID) (*models.TransportRequest, error)
	Deliver(ctx context.Context, input DeliverInput) (*models.TransportRequest, error)
	Cancel(ctx context.Context, actorUserID, transportID uuid.UUID) (*models.TransportRequest, error)
	AvailableJobs(ctx context.Context, actorUserID uuid.UUID) ([]models.TransportRequest, error)
	MyJobs(ctx context.Context, actorUserID uuid.UUID) ([]models.TransportRequest, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	cfg    config.TransportConfig
}

// NewService builds a transport service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, cfg config.TransportConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transport repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc, cfg: cfg}, nil
}

// price applies the flat-rate model: base fee plus a per-kilogram rate.
// Computed in decimal so the per-kg multiplication cannot drift.
func (s *service) price(loadKg float64) float64 {
	base := decimal.NewFromFloat(s.cfg.BasePrice)
	perKg := decimal.NewFromFloat(s.cfg.PricePerKg)
	total := base.Add(perKg.Mul(decimal.NewFromFloat(loadKg)))
	return total.InexactFloat64()
}

// SynthesizeForContract creates the pending haulage job inside the accept
// transaction. Pickup must complete before the delivery window opens.
func (s *service) SynthesizeForContract(ctx context.Context, tx *gorm.DB, contract *models.Contract, order *models.BuyerOrder, coop *models.Cooperative) (*models.TransportRequest, error) {
	if contract == nil || order == nil || coop == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "contract, order and cooperative required")
	}
	req := &models.TransportRequest{
		ID:          uuid.New(),
		ContractID:  contract.ID,
		Origin:      coop.Location,
		Destination: order.DeliveryLocation,
		LoadKg:      order.QuantityKg,
		PickupStart: order.DeliveryWindowStart.Add(-s.cfg.PickupLeadTime),
		PickupEnd:   order.DeliveryWindowStart,
		Price:       s.price(order.QuantityKg),
		Status:      enums.TransportStatusPending,
	}
	if _, err := s.repo.WithTx(tx).CreateRequest(ctx, req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create transport request")
	}
	return req, nil
}

func (s *service) Assign(ctx context.Context, input AssignInput) (*models.TransportRequest, error) {
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}

	coop, err := s.repo.FindCooperativeByManager(ctx, input.ActorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no cooperative managed by actor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cooperative")
	}

	var assigned *models.TransportRequest
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		req, err := s.loadRequest(ctx, repo, input.TransportID)
		if err != nil {
			return err
		}
		if req.Status != enums.TransportStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transport request is not pending").
				WithDetails(map[string]any{"status": req.Status})
		}

		coopID, err := repo.CooperativeIDForContract(ctx, req.ContractID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve contract cooperative")
		}
		if err == nil && coopID != coop.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "contract belongs to another cooperative")
		}

		transporter, err := repo.FindTransporter(ctx, input.TransporterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "transporter not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transporter")
		}
		if err := s.checkTransporterFit(transporter, req); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]any{
			"transporter_id": transporter.ID,
			"status":         enums.TransportStatusAssigned,
			"assigned_at":    now,
		}
		if input.DriverPhone != nil {
			updates["driver_phone"] = *input.DriverPhone
		}
		if input.AssignedTruck != nil {
			updates["assigned_truck"] = *input.AssignedTruck
		}
		if err := repo.UpdateRequest(ctx, req.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign transport request")
		}

		req.TransporterID = &transporter.ID
		req.Status = enums.TransportStatusAssigned
		req.AssignedAt = &now
		req.DriverPhone = input.DriverPhone
		req.AssignedTruck = input.AssignedTruck
		assigned = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assigned, nil
}

func (s *service) Accept(ctx context.Context, actorUserID, transportID uuid.UUID) (*models.TransportRequest, error) {
	transporter, err := s.actorTransporter(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	var accepted *models.TransportRequest
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		req, err := s.loadRequest(ctx, repo, transportID)
		if err != nil {
			return err
		}
		if req.Status != enums.TransportStatusPending || req.TransporterID != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "job is no longer open").
				WithDetails(map[string]any{"status": req.Status})
		}
		if err := s.checkTransporterFit(transporter, req); err != nil {
			return err
		}

		conflict, err := repo.HasScheduleConflict(ctx, transporter.ID, req.PickupStart, req.PickupEnd, s.cfg.TurnaroundGap)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check schedule")
		}
		if conflict {
			return pkgerrors.New(pkgerrors.CodeConflict, "pickup window conflicts with an existing job")
		}

		now := time.Now()
		if err := repo.UpdateRequest(ctx, req.ID, map[string]any{
			"transporter_id": transporter.ID,
			"status":         enums.TransportStatusAssigned,
			"assigned_at":    now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "accept transport request")
		}

		req.TransporterID = &transporter.ID
		req.Status = enums.TransportStatusAssigned
		req.AssignedAt = &now
		accepted = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

func (s *service) Pickup(ctx context.Context, actorUserID, transportID uuid.UUID) (*models.TransportRequest, error) {
	transporter, err := s.actorTransporter(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	req, err := s.loadRequest(ctx, s.repo, transportID)
	if err != nil {
		return nil, err
	}
	if req.TransporterID == nil || *req.TransporterID != transporter.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "job belongs to another transporter")
	}
	if req.Status != enums.TransportStatusAssigned {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "job is not assigned").
			WithDetails(map[string]any{"status": req.Status})
	}

	now := time.Now()
	if err := s.repo.UpdateRequest(ctx, req.ID, map[string]any{
		"status":       enums.TransportStatusPickedUp,
		"picked_up_at": now,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark picked up")
	}
	req.Status = enums.TransportStatusPickedUp
	req.PickedUpAt = &now
	return req, nil
}

// Deliver marks the load delivered and moves the contract to delivered in the
// same transaction.
func (s *service) Deliver(ctx context.Context, input DeliverInput) (*models.TransportRequest, error) {
	transporter, err := s.actorTransporter(ctx, input.ActorUserID)
	if err != nil {
		return nil, err
	}

	var delivered *models.TransportRequest
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		req, err := s.loadRequest(ctx, repo, input.TransportID)
		if err != nil {
			return err
		}
		if req.TransporterID == nil || *req.TransporterID != transporter.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "job belongs to another transporter")
		}
		if req.Status != enums.TransportStatusPickedUp {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "job is not picked up").
				WithDetails(map[string]any{"status": req.Status})
		}

		now := time.Now()
		updates := map[string]any{
			"status":       enums.TransportStatusDelivered,
			"delivered_at": now,
		}
		if input.ProofOfDeliveryURL != nil {
			updates["proof_of_delivery_url"] = *input.ProofOfDeliveryURL
		}
		if err := repo.UpdateRequest(ctx, req.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark delivered")
		}
		if err := repo.UpdateContractStatus(ctx, req.ContractID, enums.ContractStatusDelivered); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update contract")
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTransportDelivered,
			AggregateType: enums.AggregateTransport,
			AggregateID:   req.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, Role: string(enums.ActorRoleTransporter)},
			Data: TransportDeliveredEvent{
				TransportID:   req.ID,
				ContractID:    req.ContractID,
				TransporterID: transporter.ID,
			},
		}); err != nil {
			return err
		}

		req.Status = enums.TransportStatusDelivered
		req.DeliveredAt = &now
		req.ProofOfDeliveryURL = input.ProofOfDeliveryURL
		delivered = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return delivered, nil
}

func (s *service) Cancel(ctx context.Context, actorUserID, transportID uuid.UUID) (*models.TransportRequest, error) {
	if actorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}

	req, err := s.loadRequest(ctx, s.repo, transportID)
	if err != nil {
		return nil, err
	}
	if req.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "job already finished").
			WithDetails(map[string]any{"status": req.Status})
	}

	if err := s.repo.UpdateRequest(ctx, req.ID, map[string]any{
		"status": enums.TransportStatusCancelled,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel transport request")
	}
	req.Status = enums.TransportStatusCancelled
	return req, nil
}

func (s *service) AvailableJobs(ctx context.Context, actorUserID uuid.UUID) ([]models.TransportRequest, error) {
	transporter, err := s.actorTransporter(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.repo.ListPendingUnassigned(ctx, transporter.CapacityKg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list open jobs")
	}
	return jobs, nil
}

func (s *service) MyJobs(ctx context.Context, actorUserID uuid.UUID) ([]models.TransportRequest, error) {
	transporter, err := s.actorTransporter(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.repo.ListByTransporter(ctx, transporter.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list transporter jobs")
	}
	return jobs, nil
}

func (s *service) actorTransporter(ctx context.Context, actorUserID uuid.UUID) (*models.TransporterProfile, error) {
	if actorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}
	transporter, err := s.repo.FindTransporterByUser(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no transporter profile for actor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transporter")
	}
	return transporter, nil
}

func (s *service) checkTransporterFit(transporter *models.TransporterProfile, req *models.TransportRequest) error {
	if !transporter.Active || !transporter.Verified {
		return pkgerrors.New(pkgerrors.CodeForbidden, "transporter not active and verified")
	}
	if transporter.CapacityKg < req.LoadKg {
		return pkgerrors.New(pkgerrors.CodeInsufficientCapacity, "load exceeds vehicle capacity").
			WithDetails(map[string]any{"load_kg": req.LoadKg, "capacity_kg": transporter.CapacityKg})
	}
	return nil
}

func (s *service) loadRequest(ctx context.Context, repo Repository, id uuid.UUID) (*models.TransportRequest, error) {
	req, err := repo.FindRequest(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transport request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transport request")
	}
	return req, nil
}
