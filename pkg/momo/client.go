// Package momo abstracts the mobile-money rail used for escrow capture and
// farmer payouts. The production integration is out of scope; the mock client
// preserves the rail's failure modes so callers handle them correctly.
package momo

import (
	"context"
	"fmt"
	"sync"

	"github.com/gasana-dev/isoko-backend/pkg/config"
)

// CaptureRequest pulls escrow funds from a buyer.
type CaptureRequest struct {
	Reference string
	Phone     string
	Amount    float64
	Currency  string
}

// TransferRequest pushes a settlement share to a farmer.
type TransferRequest struct {
	Reference string
	Phone     string
	Amount    float64
	Currency  string
}

// Client is the payment rail. Capture is treated as synchronous and reliable;
// Transfer can fail per recipient and callers must persist the failure.
type Client interface {
	Capture(ctx context.Context, req CaptureRequest) error
	Transfer(ctx context.Context, req TransferRequest) error
}

// NewClient selects the provider from config. Only the mock provider exists
// today.
func NewClient(cfg config.MomoConfig) (Client, error) {
	switch cfg.Provider {
	case "mock", "":
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown momo provider %q", cfg.Provider)
	}
}

// Mock is an in-memory Client. Transfers fail for phone numbers registered
// via FailTransfersTo, so payout error paths stay testable.
type Mock struct {
	mu        sync.Mutex
	captured  []CaptureRequest
	paid      []TransferRequest
	failPhone map[string]string
}

func NewMock() *Mock {
	return &Mock{failPhone: map[string]string{}}
}

// FailTransfersTo makes every transfer to phone fail with reason.
func (m *Mock) FailTransfersTo(phone, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPhone[phone] = reason
}

func (m *Mock) Capture(_ context.Context, req CaptureRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.captured = append(m.captured, req)
	return nil
}

func (m *Mock) Transfer(_ context.Context, req TransferRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if reason, ok := m.failPhone[req.Phone]; ok {
		return fmt.Errorf("momo transfer rejected: %s", reason)
	}
	m.paid = append(m.paid, req)
	return nil
}

// Captured returns a copy of all successful captures.
func (m *Mock) Captured() []CaptureRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CaptureRequest, len(m.captured))
	copy(out, m.captured)
	return out
}

// Transferred returns a copy of all successful transfers.
func (m *Mock) Transferred() []TransferRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TransferRequest, len(m.paid))
	copy(out, m.paid)
	return out
}
