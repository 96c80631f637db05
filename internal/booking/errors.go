package booking

import (
	"errors"
	"fmt"
)

var (
	ErrTermsNotAccepted = errors.New("terms and conditions must be accepted")
	ErrNoSlotSelected   = errors.New("no slot selected for booking")
	ErrSlotTaken        = errors.New("slot is already booked for this date")
	ErrInvalidState     = errors.New("operation not allowed in current payment state")
	ErrGateway          = errors.New("payment gateway error")
	ErrVerification     = errors.New("payment verification failed")
)

// EscalationError is returned when money has been captured but the
// booking record could not be written. The payment id travels with the
// error so support can reconcile manually; the customer's draft is
// kept so nothing is lost.
type EscalationError struct {
	PaymentID string
	Err       error
}

func (e *EscalationError) Error() string {
	return fmt.Sprintf("payment %s captured but booking could not be saved, contact support with this payment id: %v", e.PaymentID, e.Err)
}

func (e *EscalationError) Unwrap() error {
	return e.Err
}

// VerificationError carries the payment id of a failed verification so
// the client can surface it.
type VerificationError struct {
	PaymentID string
	Reason    string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("payment verification failed for %s: %s", e.PaymentID, e.Reason)
}

func (e *VerificationError) Is(target error) bool {
	return target == ErrVerification
}
