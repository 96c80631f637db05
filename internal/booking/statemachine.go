package booking

import (
	"fmt"
)

// State is a payment coordinator state for one booking session
type State string

const (
	StateIdle             State = "IDLE"
	StateOrderCreating    State = "ORDER_CREATING"
	StateOrderCreated     State = "ORDER_CREATED"
	StatePaymentOpen      State = "PAYMENT_OPEN"
	StatePaymentVerifying State = "PAYMENT_VERIFYING"
	StateConfirmed        State = "CONFIRMED"
	StateOrderFailed      State = "ORDER_FAILED"
	StatePaymentFailed    State = "PAYMENT_FAILED"
)

// Event drives the payment coordinator between states
type Event string

const (
	EventBeginOrder    Event = "BEGIN_ORDER"
	EventOrderSuccess  Event = "ORDER_SUCCESS"
	EventOrderFailure  Event = "ORDER_FAILURE"
	EventOpenPayment   Event = "OPEN_PAYMENT"
	EventDismiss       Event = "DISMISS"
	EventBeginVerify   Event = "BEGIN_VERIFY"
	EventVerifySuccess Event = "VERIFY_SUCCESS"
	EventVerifyFailure Event = "VERIFY_FAILURE"
	EventReset         Event = "RESET"
)

// transitions is the complete legal-move table. Anything not listed is
// rejected, which is what keeps CONFIRMED unreachable without a
// successful verification.
var transitions = map[State]map[Event]State{
	StateIdle: {
		EventBeginOrder: StateOrderCreating,
	},
	StateOrderCreating: {
		EventOrderSuccess: StateOrderCreated,
		EventOrderFailure: StateOrderFailed,
	},
	StateOrderCreated: {
		EventOpenPayment: StatePaymentOpen,
		EventDismiss:     StateIdle,
	},
	StatePaymentOpen: {
		EventBeginVerify: StatePaymentVerifying,
		EventDismiss:     StateIdle,
	},
	StatePaymentVerifying: {
		EventVerifySuccess: StateConfirmed,
		EventVerifyFailure: StatePaymentFailed,
		// verification retry after a persistence escalation
		EventBeginVerify: StatePaymentVerifying,
	},
	StateConfirmed: {
		EventReset: StateIdle,
	},
	StateOrderFailed: {
		EventReset:      StateIdle,
		EventBeginOrder: StateOrderCreating,
	},
	StatePaymentFailed: {
		EventReset:      StateIdle,
		EventBeginOrder: StateOrderCreating,
	},
}

// Transition applies an event to a state. It is pure: no side effects,
// an error for any move outside the table.
func Transition(s State, ev Event) (State, error) {
	if next, ok := transitions[s][ev]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s does not accept %s", ErrInvalidState, s, ev)
}
