package domain

import "time"

// AttemptLine tracks saga progress for one snapshot line within a checkout
// attempt. The idempotency key is generated once per line per attempt and
// reused if the line is retried.
type AttemptLine struct {
	VariationID    int64
	Quantity       int
	IdempotencyKey string
	Ordered        bool
	Deleted        bool
}

// CheckoutAttempt is the persisted record of one checkout run. It survives
// the session so a retry after partial failure only processes the lines
// that have not been ordered yet.
type CheckoutAttempt struct {
	ID        string
	AddressID int64
	PaymentID string
	Status    CheckoutStatus
	Snapshot  CartSnapshot
	Lines     []AttemptLine
	CreatedAt time.Time
}

// Line returns the progress record for a variation, or nil.
func (a *CheckoutAttempt) Line(variationID int64) *AttemptLine {
	for i := range a.Lines {
		if a.Lines[i].VariationID == variationID {
			return &a.Lines[i]
		}
	}
	return nil
}
