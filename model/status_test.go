package model

import (
	"errors"
	"testing"
)

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusCancelled},
		{StatusProcessing, StatusCompleted},
		{StatusProcessing, StatusCancelled},
	}
	for _, tc := range allowed {
		got, err := tc.from.Transition(tc.to)
		if err != nil || got != tc.to {
			t.Errorf("%s -> %s: got (%s, %v)", tc.from, tc.to, got, err)
		}
	}

	denied := []struct{ from, to OrderStatus }{
		{StatusPending, StatusCompleted},
		{StatusProcessing, StatusPending},
		{StatusCompleted, StatusPending},
		{StatusCompleted, StatusProcessing},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusProcessing},
		{StatusCancelled, StatusCompleted},
		{StatusPending, OrderStatus("shipped")},
	}
	for _, tc := range denied {
		got, err := tc.from.Transition(tc.to)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s -> %s: expected ErrInvalidTransition, got %v", tc.from, tc.to, err)
		}
		if got != tc.from {
			t.Errorf("%s -> %s: failed transition changed status to %s", tc.from, tc.to, got)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() || StatusProcessing.Terminal() {
		t.Error("pending/processing must not be terminal")
	}
	if !StatusCompleted.Terminal() || !StatusCancelled.Terminal() {
		t.Error("completed/cancelled must be terminal")
	}
}
