package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrNoAddressSelected = errors.New("please select a delivery address")
	ErrIllegalTransition = errors.New("illegal transition of checkout status")
	ErrNoActiveSession   = errors.New("no active checkout session")
	ErrNoPaymentID       = errors.New("no payment id obtained in this session")
	ErrNothingToResume   = errors.New("checkout attempt already completed")
)

// PartialCompletionError reports a failure in the middle of order creation:
// some lines are already ordered and removed from the cart, so the cart
// state is indeterminate until refetched from the server.
type PartialCompletionError struct {
	AttemptID string
	Ordered   int
	Total     int
	Err       error
}

func (e *PartialCompletionError) Error() string {
	return fmt.Sprintf("checkout attempt %s failed after %d of %d lines were ordered, refresh the cart before retrying: %v",
		e.AttemptID, e.Ordered, e.Total, e.Err)
}

func (e *PartialCompletionError) Unwrap() error {
	return e.Err
}
