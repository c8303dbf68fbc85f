package transport

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/config"
	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
	"github.com/gasana-dev/isoko-backend/pkg/outbox"
)

type stubTransportRepo struct {
	request        *models.TransportRequest
	transporter    *models.TransporterProfile
	coop           *models.Cooperative
	contractCoopID uuid.UUID
	conflict       bool
	updates        map[string]any
	contractStatus enums.ContractStatus
	created        []*models.TransportRequest
	listedMaxLoad  float64
}

func (s *stubTransportRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubTransportRepo) CreateRequest(ctx context.Context, req *models.TransportRequest) (*models.TransportRequest, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	s.created = append(s.created, req)
	return req, nil
}

func (s *stubTransportRepo) FindRequest(ctx context.Context, id uuid.UUID) (*models.TransportRequest, error) {
	if s.request == nil || s.request.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.request, nil
}

func (s *stubTransportRepo) UpdateRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.updates == nil {
		s.updates = make(map[string]any)
	}
	for k, v := range updates {
		s.updates[k] = v
	}
	return nil
}

func (s *stubTransportRepo) ListPendingUnassigned(ctx context.Context, maxLoadKg float64) ([]models.TransportRequest, error) {
	s.listedMaxLoad = maxLoadKg
	if s.request != nil && s.request.Status == enums.TransportStatusPending && s.request.LoadKg <= maxLoadKg {
		return []models.TransportRequest{*s.request}, nil
	}
	return nil, nil
}

func (s *stubTransportRepo) ListByTransporter(ctx context.Context, transporterID uuid.UUID) ([]models.TransportRequest, error) {
	if s.request != nil {
		return []models.TransportRequest{*s.request}, nil
	}
	return nil, nil
}

func (s *stubTransportRepo) ListByContract(ctx context.Context, contractID uuid.UUID) ([]models.TransportRequest, error) {
	if s.request != nil {
		return []models.TransportRequest{*s.request}, nil
	}
	return nil, nil
}

func (s *stubTransportRepo) HasScheduleConflict(ctx context.Context, transporterID uuid.UUID, start, end time.Time, gap time.Duration) (bool, error) {
	return s.conflict, nil
}

func (s *stubTransportRepo) FindTransporter(ctx context.Context, id uuid.UUID) (*models.TransporterProfile, error) {
	if s.transporter == nil || s.transporter.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.transporter, nil
}

func (s *stubTransportRepo) FindTransporterByUser(ctx context.Context, userID uuid.UUID) (*models.TransporterProfile, error) {
	if s.transporter == nil || s.transporter.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.transporter, nil
}

func (s *stubTransportRepo) UpdateContractStatus(ctx context.Context, contractID uuid.UUID, status enums.ContractStatus) error {
	s.contractStatus = status
	return nil
}

func (s *stubTransportRepo) CooperativeIDForContract(ctx context.Context, contractID uuid.UUID) (uuid.UUID, error) {
	if s.contractCoopID == uuid.Nil {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return s.contractCoopID, nil
}

func (s *stubTransportRepo) FindCooperativeByManager(ctx context.Context, managerUserID uuid.UUID) (*models.Cooperative, error) {
	if s.coop == nil || s.coop.ManagerUserID != managerUserID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.coop, nil
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

func transportConfig() config.TransportConfig {
	return config.TransportConfig{
		BasePrice:      10000,
		PricePerKg:     50,
		TurnaroundGap:  2 * time.Hour,
		PickupLeadTime: 24 * time.Hour,
	}
}

func pendingJob(transporterID *uuid.UUID) *models.TransportRequest {
	start := time.Now().Add(48 * time.Hour)
	return &models.TransportRequest{
		ID:            uuid.New(),
		ContractID:    uuid.New(),
		TransporterID: transporterID,
		Origin:        "Musanze Town",
		Destination:   "Kigali",
		LoadKg:        400,
		PickupStart:   start,
		PickupEnd:     start.Add(24 * time.Hour),
		Price:         30000,
		Status:        enums.TransportStatusPending,
	}
}

func TestSynthesizeForContractPricesAndWindows(t *testing.T) {
	repo := &stubTransportRepo{}
	svc, err := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, transportConfig())
	require.NoError(t, err)

	deliveryStart := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	contract := &models.Contract{ID: uuid.New()}
	order := &models.BuyerOrder{
		QuantityKg:          400,
		DeliveryLocation:    "Kigali, Nyabugogo Market",
		DeliveryWindowStart: deliveryStart,
		DeliveryWindowEnd:   deliveryStart.Add(12 * time.Hour),
	}
	coop := &models.Cooperative{Location: "Musanze Town"}

	req, err := svc.SynthesizeForContract(context.Background(), nil, contract, order, coop)
	require.NoError(t, err)

	assert.Equal(t, contract.ID, req.ContractID)
	assert.Equal(t, "Musanze Town", req.Origin)
	assert.Equal(t, "Kigali, Nyabugogo Market", req.Destination)
	// 10000 + 50 * 400
	assert.InDelta(t, 30000, req.Price, 0.001)
	assert.Equal(t, deliveryStart.Add(-24*time.Hour), req.PickupStart)
	assert.Equal(t, deliveryStart, req.PickupEnd)
	assert.Equal(t, enums.TransportStatusPending, req.Status)
	require.Len(t, repo.created, 1)
}

func TestAcceptAssignsOpenJob(t *testing.T) {
	user := uuid.New()
	transporter := &models.TransporterProfile{ID: uuid.New(), UserID: user, CapacityKg: 1000, Active: true, Verified: true}
	repo := &stubTransportRepo{request: pendingJob(nil), transporter: transporter}

	svc, err := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, transportConfig())
	require.NoError(t, err)

	req, err := svc.Accept(context.Background(), user, repo.request.ID)
	require.NoError(t, err)

	assert.Equal(t, enums.TransportStatusAssigned, req.Status)
	require.NotNil(t, req.TransporterID)
	assert.Equal(t, transporter.ID, *req.TransporterID)
	assert.Equal(t, enums.TransportStatusAssigned, repo.updates["status"])
}

func TestAcceptRejectsScheduleConflict(t *testing.T) {
	user := uuid.New()
	transporter := &models.TransporterProfile{ID: uuid.New(), UserID: user, CapacityKg: 1000, Active: true, Verified: true}
	repo := &stubTransportRepo{request: pendingJob(nil), transporter: transporter, conflict: true}

	svc, err := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, transportConfig())
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), user, repo.request.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestAcceptRejectsOverCapacity(t *testing.T) {
	user := uuid.New()
	transporter := &models.TransporterProfile{ID: uuid.New(), UserID: user, CapacityKg: 100, Active: true, Verified: true}
	repo := &stubTransportRepo{request: pendingJob(nil), transporter: transporter}

	svc, err := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, transportConfig())
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), user, repo.request.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficientCapacity, pkgerrors.As(err).Code())
}

func TestAcceptRejectsUnverifiedTransporter(t *testing.T) {
	user := uuid.New()
	transporter := &models.TransporterProfile{ID: uuid.New(), UserID: user, CapacityKg: 1000, Active: true, Verified: false}
	repo := &stubTransportRepo{request: pendingJob(nil), transporter: transporter}

	svc, err := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, transportConfig())
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), user, repo.request.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestAcceptRejectsTakenJob(t *testing.T) {
	user := uuid.New()
	other := uuid.New()
	transporter := &models.TransporterProfile{ID: uuid.New(), UserID: user, CapacityKg: 1000, Active: true, Verified: true}
	job := pendingJob(&other)
	job.Status = enums.TransportStatusAssigned
	repo := &stubTransportRepo{request: job, transporter: transporter}

	svc, err := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, transportConfig())
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), user, job.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestAvailableJobsFiltersByCapacity(t *testing.T) {
	user := uuid.New()
	transporter := &models.TransporterProfile{ID: uuid.New(), UserID: user, CapacityKg: 300, Active: true, Verified: true}
	repo := &stubTransportRepo{request: pendingJob(nil), transporter: transporter}

	svc, err := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, transportConfig())
	require.NoError(t, err)

	// The pending job weighs 400kg; a 300kg transporter never sees it.
	jobs, err := svc.AvailableJobs(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.InDelta(t, 300, repo.listedMaxLoad, 0.001)

	transporter.CapacityKg = 500
	jobs, err = svc.AvailableJobs(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, repo.request.ID, jobs[0].ID)
}

func TestDeliverCompletesLegAndContract(t *testing.T) {
	user := uuid.New()
	transporter := &models.TransporterProfile{ID: uuid.New(), UserID: user, CapacityKg: 1000, Active: true, Verified: true}
	job := pendingJob(&transporter.ID)
	job.Status = enums.TransportStatusPickedUp
	repo := &stubTransportRepo{request: job, transporter: transporter}
	publisher := &stubOutboxPublisher{}

	svc, err := NewService(repo, stubTxRunner{}, publisher, transportConfig())
	require.NoError(t, err)

	proof := "https://cdn.isoko.rw/pod/123.jpg"
	req, err := svc.Deliver(context.Background(), DeliverInput{
		ActorUserID:        user,
		TransportID:        job.ID,
		ProofOfDeliveryURL: &proof,
	})
	require.NoError(t, err)

	assert.Equal(t, enums.TransportStatusDelivered, req.Status)
	require.NotNil(t, req.DeliveredAt)
	assert.Equal(t, enums.ContractStatusDelivered, repo.contractStatus)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, enums.EventTransportDelivered, publisher.events[0].EventType)
}

func TestDeliverRequiresPickup(t *testing.T) {
	user := uuid.New()
	transporter := &models.TransporterProfile{ID: uuid.New(), UserID: user, CapacityKg: 1000, Active: true, Verified: true}
	job := pendingJob(&transporter.ID)
	job.Status = enums.TransportStatusAssigned
	repo := &stubTransportRepo{request: job, transporter: transporter}

	svc, err := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, transportConfig())
	require.NoError(t, err)

	_, err = svc.Deliver(context.Background(), DeliverInput{ActorUserID: user, TransportID: job.ID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestCancelRejectsTerminalJob(t *testing.T) {
	user := uuid.New()
	transporter := &models.TransporterProfile{ID: uuid.New(), UserID: user, CapacityKg: 1000, Active: true, Verified: true}
	job := pendingJob(&transporter.ID)
	job.Status = enums.TransportStatusDelivered
	repo := &stubTransportRepo{request: job, transporter: transporter}

	svc, err := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, transportConfig())
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), user, job.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestAssignByCooperativeManager(t *testing.T) {
	manager := uuid.New()
	coop := &models.Cooperative{ID: uuid.New(), ManagerUserID: manager, Active: true}
	transporter := &models.TransporterProfile{ID: uuid.New(), UserID: uuid.New(), CapacityKg: 1000, Active: true, Verified: true}
	repo := &stubTransportRepo{
		request:        pendingJob(nil),
		transporter:    transporter,
		coop:           coop,
		contractCoopID: coop.ID,
	}

	svc, err := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, transportConfig())
	require.NoError(t, err)

	phone := "+250788123456"
	req, err := svc.Assign(context.Background(), AssignInput{
		ActorUserID:   manager,
		TransportID:   repo.request.ID,
		TransporterID: transporter.ID,
		DriverPhone:   &phone,
	})
	require.NoError(t, err)

	assert.Equal(t, enums.TransportStatusAssigned, req.Status)
	assert.Equal(t, &phone, req.DriverPhone)
}

func TestAssignForbidsForeignContract(t *testing.T) {
	manager := uuid.New()
	coop := &models.Cooperative{ID: uuid.New(), ManagerUserID: manager, Active: true}
	transporter := &models.TransporterProfile{ID: uuid.New(), UserID: uuid.New(), CapacityKg: 1000, Active: true, Verified: true}
	repo := &stubTransportRepo{
		request:        pendingJob(nil),
		transporter:    transporter,
		coop:           coop,
		contractCoopID: uuid.New(),
	}

	svc, err := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{}, transportConfig())
	require.NoError(t, err)

	_, err = svc.Assign(context.Background(), AssignInput{
		ActorUserID:   manager,
		TransportID:   repo.request.ID,
		TransporterID: transporter.ID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}
