package checkout

import (
	"context"
	"fmt"

	"github.com/Ashutosh2ingh/AshMart/internal/domain"
	"github.com/Ashutosh2ingh/AshMart/internal/orders"
	"github.com/Ashutosh2ingh/AshMart/internal/payment"
)

// callLog records backend calls across mocks so tests can assert the
// per-line ordering guarantee, not just per-mock counts.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...interface{}) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type mockCartAPI struct {
	log   *callLog
	lines []domain.CartLine

	fetchErr    error
	deleteErrAt map[int64]error
	deleteCalls []int64
}

func (m *mockCartAPI) FetchCart(ctx context.Context) ([]domain.CartLine, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]domain.CartLine, len(m.lines))
	copy(out, m.lines)
	return out, nil
}

func (m *mockCartAPI) DeleteLine(ctx context.Context, variationID int64) error {
	if err, ok := m.deleteErrAt[variationID]; ok {
		return err
	}
	m.deleteCalls = append(m.deleteCalls, variationID)
	if m.log != nil {
		m.log.add("delete %d", variationID)
	}
	return nil
}

type confirmCall struct {
	Amount    float64
	PaymentID string
}

type mockOrderAPI struct {
	log *callLog

	confirmErr   error
	confirmCalls []confirmCall

	createErrAt map[int64]error
	createCalls []orders.CreateOrderRequest
}

func (m *mockOrderAPI) ConfirmPayment(ctx context.Context, amount float64, paymentID string) error {
	if m.confirmErr != nil {
		return m.confirmErr
	}
	m.confirmCalls = append(m.confirmCalls, confirmCall{Amount: amount, PaymentID: paymentID})
	return nil
}

func (m *mockOrderAPI) Create(ctx context.Context, req orders.CreateOrderRequest) error {
	if err, ok := m.createErrAt[req.ProductVariationID]; ok {
		return err
	}
	m.createCalls = append(m.createCalls, req)
	if m.log != nil {
		m.log.add("order %d", req.ProductVariationID)
	}
	return nil
}

type mockGateway struct {
	paymentID string
	err       error

	calls   int
	gotOpts payment.Options
}

func (m *mockGateway) Open(ctx context.Context, opts payment.Options) (string, error) {
	m.calls++
	m.gotOpts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.paymentID, nil
}

// mockJournal keeps attempts in memory and applies the mark operations to
// its own copies, so tests can verify persisted progress independently of
// the orchestrator's in-memory attempt.
type mockJournal struct {
	attempts map[string]*domain.CheckoutAttempt

	createErr error
}

func newMockJournal() *mockJournal {
	return &mockJournal{attempts: make(map[string]*domain.CheckoutAttempt)}
}

func cloneAttempt(attempt *domain.CheckoutAttempt) *domain.CheckoutAttempt {
	out := *attempt
	out.Lines = make([]domain.AttemptLine, len(attempt.Lines))
	copy(out.Lines, attempt.Lines)
	out.Snapshot.Lines = make([]domain.SnapshotLine, len(attempt.Snapshot.Lines))
	copy(out.Snapshot.Lines, attempt.Snapshot.Lines)
	return &out
}

func (m *mockJournal) CreateAttempt(ctx context.Context, attempt *domain.CheckoutAttempt) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.attempts[attempt.ID] = cloneAttempt(attempt)
	return nil
}

func (m *mockJournal) GetAttempt(ctx context.Context, id string) (*domain.CheckoutAttempt, error) {
	attempt, ok := m.attempts[id]
	if !ok {
		return nil, fmt.Errorf("attempt %s not found", id)
	}
	return cloneAttempt(attempt), nil
}

func (m *mockJournal) SetAttemptStatus(ctx context.Context, id string, status domain.CheckoutStatus) error {
	if attempt, ok := m.attempts[id]; ok {
		attempt.Status = status
	}
	return nil
}

func (m *mockJournal) SetAttemptPayment(ctx context.Context, id, paymentID string) error {
	if attempt, ok := m.attempts[id]; ok {
		attempt.PaymentID = paymentID
	}
	return nil
}

func (m *mockJournal) MarkLineOrdered(ctx context.Context, attemptID string, variationID int64) error {
	if attempt, ok := m.attempts[attemptID]; ok {
		if line := attempt.Line(variationID); line != nil {
			line.Ordered = true
		}
	}
	return nil
}

func (m *mockJournal) MarkLineDeleted(ctx context.Context, attemptID string, variationID int64) error {
	if attempt, ok := m.attempts[attemptID]; ok {
		if line := attempt.Line(variationID); line != nil {
			line.Deleted = true
		}
	}
	return nil
}
