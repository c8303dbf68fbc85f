package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/config"
	dbpkg "github.com/gasana-dev/isoko-backend/pkg/db"
	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
	"github.com/gasana-dev/isoko-backend/pkg/idgen"
	"github.com/gasana-dev/isoko-backend/pkg/logger"
	"github.com/gasana-dev/isoko-backend/pkg/momo"
	"github.com/gasana-dev/isoko-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes escrow and settlement operations.
type Service interface {
	InitiatePayment(ctx context.Context, input InitiatePaymentInput) (*models.PaymentLedger, error)
	ConfirmDelivery(ctx context.Context, actorUserID, orderID uuid.UUID) (*models.PaymentLedger, error)
	SettleFarmerPayments(ctx context.Context, input SettleInput) (*SettlementReport, error)
	FarmerBalances(ctx context.Context, actorUserID uuid.UUID) ([]models.FarmerBalance, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	momo   momo.Client
	ids    idgen.Generator
	cfg    config.MomoConfig
	logg   *logger.Logger
}

// NewService builds a payments service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, momoClient momo.Client, ids idgen.Generator, cfg config.MomoConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if momoClient == nil {
		return nil, fmt.Errorf("momo client required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id generator required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: outboxSvc,
		momo:   momoClient,
		ids:    ids,
		cfg:    cfg,
		logg:   logg,
	}, nil
}

// InitiatePayment funds escrow for an accepted order. The held ledger row is
// written first; a capture failure leaves it held so the charge can be
// retried without double-charging.
func (s *service) InitiatePayment(ctx context.Context, input InitiatePaymentInput) (*models.PaymentLedger, error) {
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}

	profile, err := s.repo.FindBuyerProfileByUser(ctx, input.ActorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no buyer profile for actor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load buyer profile")
	}

	order, err := s.repo.FindOrder(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.BuyerProfileID != profile.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another buyer")
	}
	if order.Status != enums.OrderStatusAccepted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not accepted").
			WithDetails(map[string]any{"status": order.Status})
	}

	contract, err := s.repo.FindContractByOrder(ctx, order.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no contract for order")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load contract")
	}

	var ledger *models.PaymentLedger
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if existing, err := repo.FindLedgerByContract(ctx, contract.ID); err == nil {
			if existing.Status == enums.EscrowStatusHeld {
				// Retry path: the earlier capture never went through.
				ledger = existing
				return nil
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "escrow already funded")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ledger")
		}

		ledger = &models.PaymentLedger{
			ID:         uuid.New(),
			ContractID: contract.ID,
			Amount:     order.QuantityKg * order.PriceOffer,
			Type:       enums.PaymentTypeEscrow,
			Status:     enums.EscrowStatusHeld,
			Reference:  s.ids.Reference(EscrowReferencePrefix),
		}
		if _, err := repo.CreateLedger(ctx, ledger); err != nil {
			// A concurrent fund slipped in between the read and the insert;
			// the per-contract index rejects the second row.
			if dbpkg.IsUniqueViolation(err, "contract_id") {
				return pkgerrors.New(pkgerrors.CodeConflict, "escrow already funded")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create ledger")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.capture(ctx, ledger, profile)
}

func (s *service) capture(ctx context.Context, ledger *models.PaymentLedger, profile *models.BuyerProfile) (*models.PaymentLedger, error) {
	err := s.momo.Capture(ctx, momo.CaptureRequest{
		Reference: ledger.Reference,
		Phone:     profile.Phone,
		Amount:    ledger.Amount,
		Currency:  s.cfg.Currency,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "escrow capture failed").
			WithDetails(map[string]any{"reference": ledger.Reference})
	}

	if err := s.repo.UpdateLedgerStatus(ctx, ledger.ID, enums.EscrowStatusCompleted); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "complete ledger")
	}
	ledger.Status = enums.EscrowStatusCompleted
	return ledger, nil
}

// ConfirmDelivery is the buyer's receipt acknowledgement: it closes the
// transport leg, the contract, the order and the escrow row in one
// transaction.
func (s *service) ConfirmDelivery(ctx context.Context, actorUserID, orderID uuid.UUID) (*models.PaymentLedger, error) {
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

	var released *models.PaymentLedger
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if order.BuyerProfileID != profile.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another buyer")
		}
		if order.Status != enums.OrderStatusAccepted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting delivery").
				WithDetails(map[string]any{"status": order.Status})
		}

		contract, err := repo.FindContractByOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load contract")
		}

		transportReq, err := repo.LatestTransportByContract(ctx, contract.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "no transport leg for contract")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transport")
		}
		if transportReq.Status != enums.TransportStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "load not delivered yet").
				WithDetails(map[string]any{"transport_status": transportReq.Status})
		}

		ledger, err := repo.FindLedgerByContract(ctx, contract.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "escrow not funded")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ledger")
		}
		if ledger.Status != enums.EscrowStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "escrow is not captured").
				WithDetails(map[string]any{"escrow_status": ledger.Status})
		}

		if err := repo.UpdateTransportStatus(ctx, transportReq.ID, enums.TransportStatusCompleted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "complete transport")
		}
		if err := repo.UpdateContractStatus(ctx, contract.ID, enums.ContractStatusCompleted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "complete contract")
		}
		if err := repo.UpdateOrderStatus(ctx, order.ID, enums.OrderStatusCompleted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "complete order")
		}
		if err := repo.UpdateLedgerStatus(ctx, ledger.ID, enums.EscrowStatusReleased); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "release escrow")
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventEscrowReleased,
			AggregateType: enums.AggregateEscrow,
			AggregateID:   ledger.ID,
			Actor:         &outbox.ActorRef{UserID: actorUserID, Role: string(enums.ActorRoleBuyer)},
			Data: EscrowReleasedEvent{
				LedgerID:   ledger.ID,
				ContractID: contract.ID,
				OrderID:    order.ID,
				Amount:     ledger.Amount,
			},
		}); err != nil {
			return err
		}

		ledger.Status = enums.EscrowStatusReleased
		released = ledger
		return nil
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

// SettleFarmerPayments splits a contract's escrow across the farmers whose
// lots backed it, proportional to contributed quantity. The pending balances
// commit first; payouts then run one by one so a single failed transfer never
// blocks the rest.
func (s *service) SettleFarmerPayments(ctx context.Context, input SettleInput) (*SettlementReport, error) {
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}

	contract, err := s.repo.FindContract(ctx, input.ContractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contract not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load contract")
	}

	// Cooperative managers may only settle their own contracts; actors
	// without a cooperative profile passed the admin route guard.
	coop, err := s.repo.FindCooperativeByManager(ctx, input.ActorUserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cooperative")
	}
	if coop != nil {
		ownerID, err := s.repo.ContractCooperativeID(ctx, contract.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve contract cooperative")
		}
		if ownerID != coop.ID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "contract belongs to another cooperative")
		}
	}

	ledger, err := s.repo.FindLedgerByContract(ctx, contract.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "escrow not funded")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ledger")
	}
	if ledger.Status != enums.EscrowStatusCompleted && ledger.Status != enums.EscrowStatusReleased {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "escrow is not captured").
			WithDetails(map[string]any{"escrow_status": ledger.Status})
	}

	shares, err := s.repo.ContractLotShares(ctx, contract.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load contract lots")
	}

	var totalKg float64
	perFarmer := make(map[uuid.UUID]float64)
	for _, share := range shares {
		totalKg += share.QuantityKg
		if share.FarmerID != nil {
			perFarmer[*share.FarmerID] += share.QuantityKg
		}
	}
	if totalKg <= 0 || len(perFarmer) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no farmer-backed lots to settle")
	}

	balances := make([]models.FarmerBalance, 0, len(perFarmer))
	for farmerID, kg := range perFarmer {
		balances = append(balances, models.FarmerBalance{
			ID:                   uuid.New(),
			FarmerID:             farmerID,
			ContractID:           contract.ID,
			Amount:               ledger.Amount * kg / totalKg,
			Status:               enums.BalanceStatusPending,
			PaymentMethod:        enums.PaymentMethodMomo,
			TransactionReference: s.ids.Reference(SettlementReferencePrefix),
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if existing, err := repo.ListBalancesByContract(ctx, contract.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list balances")
		} else if len(existing) > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "contract already settled")
		}

		if err := repo.CreateBalances(ctx, balances); err != nil {
			// A concurrent settle won the insert race; the per-contract
			// index rejects this batch.
			if dbpkg.IsUniqueViolation(err, "contract_id") {
				return pkgerrors.New(pkgerrors.CodeConflict, "contract already settled")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create balances")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report := &SettlementReport{ContractID: contract.ID, EscrowKg: totalKg}
	var payoutErrs error
	for i := range balances {
		balance := &balances[i]
		if err := s.payout(ctx, balance); err != nil {
			payoutErrs = multierr.Append(payoutErrs, err)
			report.FailCount++
		} else {
			report.PaidCount++
		}
	}
	report.Balances = balances

	if payoutErrs != nil && s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"contract_id":  contract.ID.String(),
			"failed_count": report.FailCount,
		})
		s.logg.Error(logCtx, "settlement finished with failed payouts", payoutErrs)
	}
	return report, nil
}

func (s *service) payout(ctx context.Context, balance *models.FarmerBalance) error {
	farmer, err := s.repo.FindFarmer(ctx, balance.FarmerID)
	if err != nil {
		return s.markFailed(ctx, balance, fmt.Sprintf("farmer lookup failed: %v", err))
	}

	err = s.momo.Transfer(ctx, momo.TransferRequest{
		Reference: balance.TransactionReference,
		Phone:     farmer.Phone,
		Amount:    balance.Amount,
		Currency:  s.cfg.Currency,
	})
	if err != nil {
		return s.markFailed(ctx, balance, err.Error())
	}

	now := time.Now()
	if err := s.repo.UpdateBalance(ctx, balance.ID, map[string]any{
		"status":  enums.BalanceStatusPaid,
		"paid_at": now,
	}); err != nil {
		return err
	}
	balance.Status = enums.BalanceStatusPaid
	balance.PaidAt = &now
	return nil
}

// markFailed records the failure reason and reports the original problem.
func (s *service) markFailed(ctx context.Context, balance *models.FarmerBalance, reason string) error {
	if err := s.repo.UpdateBalance(ctx, balance.ID, map[string]any{
		"status":         enums.BalanceStatusFailed,
		"failure_reason": reason,
	}); err != nil {
		return multierr.Append(errors.New(reason), err)
	}
	balance.Status = enums.BalanceStatusFailed
	balance.FailureReason = &reason
	return errors.New(reason)
}

func (s *service) FarmerBalances(ctx context.Context, actorUserID uuid.UUID) ([]models.FarmerBalance, error) {
	if actorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}
	farmer, err := s.repo.FindFarmerByUser(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no farmer profile for actor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load farmer")
	}
	balances, err := s.repo.ListBalancesByFarmer(ctx, farmer.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list balances")
	}
	return balances, nil
}
