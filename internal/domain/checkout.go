package domain

type CheckoutStatus string

const (
	CheckoutStatusAddressSelection  CheckoutStatus = "ADDRESS_SELECTION"
	CheckoutStatusPaymentInProgress CheckoutStatus = "PAYMENT_IN_PROGRESS"
	CheckoutStatusOrderCreation     CheckoutStatus = "ORDER_CREATION"
	CheckoutStatusDone              CheckoutStatus = "DONE"
	CheckoutStatusFailed            CheckoutStatus = "FAILED"
)

// CanTransitionTo enumerates the legal checkout transitions. A FAILED
// session is terminal; the user starts over from address selection.
func CanTransitionTo(from, to CheckoutStatus) bool {
	switch to {
	case CheckoutStatusPaymentInProgress:
		return from == CheckoutStatusAddressSelection
	case CheckoutStatusOrderCreation:
		return from == CheckoutStatusPaymentInProgress
	case CheckoutStatusDone:
		return from == CheckoutStatusOrderCreation
	case CheckoutStatusFailed:
		return from == CheckoutStatusPaymentInProgress || from == CheckoutStatusOrderCreation
	default:
		return false
	}
}

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusDone || s == CheckoutStatusFailed
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}
