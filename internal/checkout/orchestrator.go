package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ashutosh2ingh/AshMart/internal/domain"
	"github.com/Ashutosh2ingh/AshMart/internal/orders"
	"github.com/Ashutosh2ingh/AshMart/internal/payment"
	"github.com/Ashutosh2ingh/AshMart/pkg/metrics"
)

// CartAPI is the slice of the cart contract the orchestrator needs.
type CartAPI interface {
	FetchCart(ctx context.Context) ([]domain.CartLine, error)
	DeleteLine(ctx context.Context, variationID int64) error
}

// OrderAPI creates order records and confirms payments server-side.
type OrderAPI interface {
	ConfirmPayment(ctx context.Context, amount float64, paymentID string) error
	Create(ctx context.Context, req orders.CreateOrderRequest) error
}

// Journal persists checkout attempts and per-line saga progress locally.
type Journal interface {
	CreateAttempt(ctx context.Context, attempt *domain.CheckoutAttempt) error
	GetAttempt(ctx context.Context, id string) (*domain.CheckoutAttempt, error)
	SetAttemptStatus(ctx context.Context, id string, status domain.CheckoutStatus) error
	SetAttemptPayment(ctx context.Context, id, paymentID string) error
	MarkLineOrdered(ctx context.Context, attemptID string, variationID int64) error
	MarkLineDeleted(ctx context.Context, attemptID string, variationID int64) error
}

// Config carries the payment provider parameters passed to the gateway.
type Config struct {
	GatewayKey  string
	StoreName   string
	Description string
	Prefill     payment.Prefill
}

// Session is one checkout attempt's client-side state. It lives only for
// the duration of the attempt and is never persisted as-is; durable
// progress goes through the Journal.
type Session struct {
	AttemptID string
	Status    domain.CheckoutStatus
	AddressID int64
	Snapshot  *domain.CartSnapshot
	PaymentID string

	lines []domain.CartLine
}

// Orchestrator drives the checkout saga: select address, invoke the payment
// gateway once, confirm the payment server-side, then per snapshot line
// create an order record and delete the cart line, strictly in order. There
// is no rollback; a mid-loop failure leaves the backend partially updated
// and is reported as a PartialCompletionError.
type Orchestrator struct {
	cart    CartAPI
	orders  OrderAPI
	gateway payment.Gateway
	journal Journal
	cfg     Config
	log     *zap.Logger
	metrics *metrics.ClientMetrics

	session *Session
}

func New(cart CartAPI, orderAPI OrderAPI, gateway payment.Gateway, journal Journal,
	cfg Config, log *zap.Logger, m *metrics.ClientMetrics) *Orchestrator {
	return &Orchestrator{
		cart:    cart,
		orders:  orderAPI,
		gateway: gateway,
		journal: journal,
		cfg:     cfg,
		log:     log,
		metrics: m,
	}
}

// Begin starts a fresh session in address selection, capturing the cart
// lines the later snapshot will be built from.
func (o *Orchestrator) Begin(ctx context.Context) (*Session, error) {
	lines, err := o.cart.FetchCart(ctx)
	if err != nil {
		return nil, err
	}
	o.session = &Session{
		Status: domain.CheckoutStatusAddressSelection,
		lines:  lines,
	}
	return o.session, nil
}

func (o *Orchestrator) Session() *Session {
	return o.session
}

// SelectAddress records the delivery address for the current session.
// Selection is pure client-side state.
func (o *Orchestrator) SelectAddress(id int64) error {
	if o.session == nil {
		return ErrNoActiveSession
	}
	if o.session.Status != domain.CheckoutStatusAddressSelection {
		return ErrIllegalTransition
	}
	o.session.AddressID = id
	return nil
}

// ProceedToPay runs the whole saga for the current session. The cart
// snapshot and its total are frozen before the gateway opens; nothing after
// that point recomputes the amount.
func (o *Orchestrator) ProceedToPay(ctx context.Context) error {
	s := o.session
	if s == nil {
		return ErrNoActiveSession
	}
	if s.AddressID == 0 {
		// Validation failure: state unchanged, no network call made.
		return ErrNoAddressSelected
	}
	if !domain.CanTransitionTo(s.Status, domain.CheckoutStatusPaymentInProgress) {
		return ErrIllegalTransition
	}

	snapshot := domain.NewCartSnapshot(s.lines)
	if snapshot.Empty() {
		return ErrEmptyCart
	}
	s.Snapshot = snapshot
	o.transition(ctx, s, domain.CheckoutStatusPaymentInProgress)

	attempt := &domain.CheckoutAttempt{
		ID:        uuid.NewString(),
		AddressID: s.AddressID,
		Status:    s.Status,
		Snapshot:  *snapshot,
		CreatedAt: time.Now(),
	}
	for _, line := range snapshot.Lines {
		attempt.Lines = append(attempt.Lines, domain.AttemptLine{
			VariationID:    line.VariationID,
			Quantity:       line.Quantity,
			IdempotencyKey: uuid.NewString(),
		})
	}
	if err := o.journal.CreateAttempt(ctx, attempt); err != nil {
		s.Status = domain.CheckoutStatusFailed
		return fmt.Errorf("failed to journal checkout attempt: %w", err)
	}
	s.AttemptID = attempt.ID

	paymentID, err := o.gateway.Open(ctx, payment.Options{
		Description: o.cfg.Description,
		Currency:    snapshot.Currency,
		Key:         o.cfg.GatewayKey,
		Amount:      snapshot.TotalMinorUnits(),
		Name:        o.cfg.StoreName,
		Prefill:     o.cfg.Prefill,
	})
	if err != nil {
		o.fail(ctx, s, "payment_failed")
		return fmt.Errorf("payment failed or cancelled: %w", err)
	}
	s.PaymentID = paymentID
	if e2 := o.journal.SetAttemptPayment(ctx, s.AttemptID, paymentID); e2 != nil {
		o.log.Warn("failed to journal payment id", zap.String("attempt_id", s.AttemptID), zap.Error(e2))
	}

	if !domain.CanTransitionTo(s.Status, domain.CheckoutStatusOrderCreation) {
		return ErrIllegalTransition
	}
	o.transition(ctx, s, domain.CheckoutStatusOrderCreation)

	// Confirm server-side with the snapshot total the gateway charged.
	if e2 := o.orders.ConfirmPayment(ctx, snapshot.Total, paymentID); e2 != nil {
		o.fail(ctx, s, "failed")
		return e2
	}

	return o.finish(ctx, s, attempt)
}

// Resume continues a previous attempt whose payment succeeded but whose
// order creation did not finish. Only lines not yet journaled as ordered
// are processed; their original idempotency keys are reused.
func (o *Orchestrator) Resume(ctx context.Context, attemptID string) error {
	attempt, err := o.journal.GetAttempt(ctx, attemptID)
	if err != nil {
		return err
	}
	if attempt.Status == domain.CheckoutStatusDone {
		return ErrNothingToResume
	}
	if attempt.PaymentID == "" {
		// Payment never completed; nothing committed, start over instead.
		return ErrNoPaymentID
	}

	s := &Session{
		AttemptID: attempt.ID,
		Status:    domain.CheckoutStatusOrderCreation,
		AddressID: attempt.AddressID,
		Snapshot:  &attempt.Snapshot,
		PaymentID: attempt.PaymentID,
	}
	o.session = s
	o.log.Info("resuming checkout attempt",
		zap.String("attempt_id", attempt.ID),
		zap.String("status", attempt.Status.String()))
	if e2 := o.journal.SetAttemptStatus(ctx, s.AttemptID, s.Status); e2 != nil {
		o.log.Warn("failed to journal attempt status", zap.String("attempt_id", s.AttemptID), zap.Error(e2))
	}

	return o.finish(ctx, s, attempt)
}

// finish runs the per-line order loop and settles the terminal status.
func (o *Orchestrator) finish(ctx context.Context, s *Session, attempt *domain.CheckoutAttempt) error {
	if err := o.processLines(ctx, s, attempt); err != nil {
		o.fail(ctx, s, "failed")
		return err
	}

	if !domain.CanTransitionTo(s.Status, domain.CheckoutStatusDone) {
		return ErrIllegalTransition
	}
	o.transition(ctx, s, domain.CheckoutStatusDone)
	o.metrics.ObserveCheckout("done")
	return nil
}

// processLines iterates the snapshot sequentially. For each line the order
// record is created first, then the cart line deleted; both complete before
// the next line begins.
func (o *Orchestrator) processLines(ctx context.Context, s *Session, attempt *domain.CheckoutAttempt) error {
	if s.PaymentID == "" {
		return ErrNoPaymentID
	}

	for _, snapLine := range s.Snapshot.Lines {
		line := attempt.Line(snapLine.VariationID)
		if line == nil {
			continue
		}

		if !line.Ordered {
			err := o.orders.Create(ctx, orders.CreateOrderRequest{
				PaymentID:          s.PaymentID,
				ProductVariationID: line.VariationID,
				Quantity:           line.Quantity,
				ShipmentAddressID:  s.AddressID,
				IdempotencyKey:     line.IdempotencyKey,
			})
			if err != nil {
				return o.partial(attempt, err)
			}
			line.Ordered = true
			if e2 := o.journal.MarkLineOrdered(ctx, attempt.ID, line.VariationID); e2 != nil {
				o.log.Warn("failed to journal ordered line",
					zap.String("attempt_id", attempt.ID),
					zap.Int64("variation_id", line.VariationID),
					zap.Error(e2))
			}
		}

		if !line.Deleted {
			if err := o.cart.DeleteLine(ctx, line.VariationID); err != nil {
				return o.partial(attempt, err)
			}
			line.Deleted = true
			if e2 := o.journal.MarkLineDeleted(ctx, attempt.ID, line.VariationID); e2 != nil {
				o.log.Warn("failed to journal deleted line",
					zap.String("attempt_id", attempt.ID),
					zap.Int64("variation_id", line.VariationID),
					zap.Error(e2))
			}
		}
	}
	return nil
}

func (o *Orchestrator) partial(attempt *domain.CheckoutAttempt, err error) error {
	ordered := 0
	for _, line := range attempt.Lines {
		if line.Ordered {
			ordered++
		}
	}
	return &PartialCompletionError{
		AttemptID: attempt.ID,
		Ordered:   ordered,
		Total:     len(attempt.Lines),
		Err:       err,
	}
}

func (o *Orchestrator) transition(ctx context.Context, s *Session, to domain.CheckoutStatus) {
	o.log.Info("checkout transition",
		zap.String("attempt_id", s.AttemptID),
		zap.String("from", s.Status.String()),
		zap.String("to", to.String()))
	s.Status = to
	if s.AttemptID != "" {
		if err := o.journal.SetAttemptStatus(ctx, s.AttemptID, to); err != nil {
			o.log.Warn("failed to journal attempt status",
				zap.String("attempt_id", s.AttemptID), zap.Error(err))
		}
	}
}

func (o *Orchestrator) fail(ctx context.Context, s *Session, outcome string) {
	o.transition(ctx, s, domain.CheckoutStatusFailed)
	o.metrics.ObserveCheckout(outcome)
}
