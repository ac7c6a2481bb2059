package model

import "errors"

// ErrInvalidTransition is returned when an order status change is not
// allowed by the state machine.
var ErrInvalidTransition = errors.New("invalid status transition")

// OrderStatus is the lifecycle state of a committed order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether s -> to is an allowed transition.
// pending -> processing -> completed, with cancellation possible from
// pending or processing. completed and cancelled are terminal.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	switch s {
	case StatusPending:
		return to == StatusProcessing || to == StatusCancelled
	case StatusProcessing:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// Transition validates and returns the new status.
func (s OrderStatus) Transition(to OrderStatus) (OrderStatus, error) {
	if !to.Valid() || !s.CanTransition(to) {
		return s, ErrInvalidTransition
	}
	return to, nil
}
