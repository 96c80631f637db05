package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionHappyPath(t *testing.T) {
	steps := []struct {
		ev   Event
		want State
	}{
		{EventBeginOrder, StateOrderCreating},
		{EventOrderSuccess, StateOrderCreated},
		{EventOpenPayment, StatePaymentOpen},
		{EventBeginVerify, StatePaymentVerifying},
		{EventVerifySuccess, StateConfirmed},
		{EventReset, StateIdle},
	}

	s := StateIdle
	for _, step := range steps {
		next, err := Transition(s, step.ev)
		assert.NoError(t, err, "event %s from %s", step.ev, s)
		assert.Equal(t, step.want, next)
		s = next
	}
}

func TestTransitionDismissReturnsToIdle(t *testing.T) {
	for _, from := range []State{StateOrderCreated, StatePaymentOpen} {
		next, err := Transition(from, EventDismiss)
		assert.NoError(t, err)
		assert.Equal(t, StateIdle, next)
	}
}

func TestTransitionFailurePaths(t *testing.T) {
	next, err := Transition(StateOrderCreating, EventOrderFailure)
	assert.NoError(t, err)
	assert.Equal(t, StateOrderFailed, next)

	next, err = Transition(StatePaymentVerifying, EventVerifyFailure)
	assert.NoError(t, err)
	assert.Equal(t, StatePaymentFailed, next)

	// both failed states allow an immediate retry
	for _, from := range []State{StateOrderFailed, StatePaymentFailed} {
		next, err = Transition(from, EventBeginOrder)
		assert.NoError(t, err)
		assert.Equal(t, StateOrderCreating, next)

		next, err = Transition(from, EventReset)
		assert.NoError(t, err)
		assert.Equal(t, StateIdle, next)
	}
}

func TestTransitionVerifyRetryAfterEscalation(t *testing.T) {
	next, err := Transition(StatePaymentVerifying, EventBeginVerify)
	assert.NoError(t, err)
	assert.Equal(t, StatePaymentVerifying, next)
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	cases := []struct {
		from State
		ev   Event
	}{
		{StateIdle, EventVerifySuccess},
		{StateIdle, EventOpenPayment},
		{StateIdle, EventDismiss},
		{StateOrderCreating, EventBeginVerify},
		{StateOrderCreated, EventVerifySuccess},
		{StatePaymentOpen, EventVerifySuccess},
		{StateConfirmed, EventBeginOrder},
		{StateOrderFailed, EventVerifySuccess},
	}

	for _, tc := range cases {
		got, err := Transition(tc.from, tc.ev)
		assert.ErrorIs(t, err, ErrInvalidState, "%s + %s", tc.from, tc.ev)
		assert.Equal(t, tc.from, got, "state must not move on a rejected event")
	}
}

func TestConfirmedOnlyReachableViaVerifySuccess(t *testing.T) {
	for from, events := range transitions {
		for ev, to := range events {
			if to == StateConfirmed {
				assert.Equal(t, StatePaymentVerifying, from)
				assert.Equal(t, EventVerifySuccess, ev)
			}
		}
	}
}
