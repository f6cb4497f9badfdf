// Package lifecycle defines the order status state machine: which
// statuses exist, which administrative actions are available in each, and
// what each action does. Availability is a pure function of the current
// status plus, for delivered orders, the receipt flag; the package never
// talks to the network.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/models"
)

// Status values as used on the wire by the upstream store.
type Status string

const (
	StatusPending    Status = "Pending Confirmation"
	StatusProcessing Status = "Processing"
	StatusInTransit  Status = "In Transit"
	StatusDelivered  Status = "Delivered"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
	StatusReturned   Status = "Returned"
)

// LabelReturnRequest is a display-only label for a pending order whose
// customer has asked for a return. It is never a transition target and
// never stored.
const LabelReturnRequest = "Return Request"

// Receipt is the delivery receipt sub-state of a delivered order,
// derived from the isGet flag (nil / 1 / 0).
type Receipt int

const (
	// ReceiptUnknown means the customer has not yet confirmed or denied
	// receiving the package (isGet = null).
	ReceiptUnknown Receipt = iota
	// ReceiptConfirmed means the customer confirmed receipt (isGet = 1).
	ReceiptConfirmed
	// ReceiptDenied means the customer reported non-receipt (isGet = 0).
	ReceiptDenied
)

// Action is an administrative operation on an order.
type Action string

const (
	ActionConfirm         Action = "confirm"
	ActionCancel          Action = "cancel"
	ActionInTransit       Action = "in-transit"
	ActionDeliver         Action = "deliver"
	ActionMarkReceived    Action = "mark-received"
	ActionMarkNotReceived Action = "mark-not-received"
	ActionComplete        Action = "complete"
	ActionReturn          Action = "return"
	ActionRedeliver       Action = "redeliver"
)

// ErrNotAllowed is returned by Apply for an action that is not in the
// current state's action set. The handlers never offer such actions, so
// hitting this from the UI indicates a caller bug, not a runtime fault.
var ErrNotAllowed = errors.New("lifecycle: action not allowed in current state")

// ErrUnknownStatus is returned when the upstream store reports a status
// outside the enumerated set.
var ErrUnknownStatus = errors.New("lifecycle: unknown order status")

// State is the full lifecycle position of an order. Receipt only carries
// meaning when Status is StatusDelivered; StateOf normalizes it to
// ReceiptUnknown everywhere else so two orders in the same position always
// compare equal.
type State struct {
	Status       Status
	Receipt      Receipt
	ReturnReason string
}

// StateOf derives the lifecycle state from an order snapshot.
func StateOf(o models.Order) State {
	s := State{
		Status:       Status(o.Status),
		ReturnReason: o.ReturnReason,
	}
	if s.Status == StatusDelivered && o.IsGet != nil {
		if *o.IsGet == 0 {
			s.Receipt = ReceiptDenied
		} else {
			s.Receipt = ReceiptConfirmed
		}
	}
	return s
}

// Valid reports whether the status is one of the enumerated values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusInTransit, StatusDelivered,
		StatusCompleted, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// Label is the status as shown to the administrator. A pending order with
// a return reason displays as a return request; everything else displays
// as its stored status.
func Label(s State) string {
	if s.Status == StatusPending && s.ReturnReason != "" {
		return LabelReturnRequest
	}
	return string(s.Status)
}

// Actions returns the action set available in the given state, in a fixed
// order. A closed return (Returned with the reason recorded) offers
// nothing at all, taking precedence over the per-status table.
func Actions(s State) []Action {
	if s.Status == StatusReturned && s.ReturnReason != "" {
		return nil
	}

	switch s.Status {
	case StatusPending:
		return []Action{ActionConfirm, ActionCancel}
	case StatusProcessing:
		return []Action{ActionInTransit, ActionCancel}
	case StatusInTransit:
		return []Action{ActionDeliver}
	case StatusDelivered:
		switch s.Receipt {
		case ReceiptConfirmed:
			return []Action{ActionComplete, ActionReturn}
		case ReceiptDenied:
			return []Action{ActionRedeliver, ActionReturn}
		default:
			return []Action{ActionMarkReceived, ActionMarkNotReceived}
		}
	case StatusCompleted:
		return []Action{ActionReturn}
	case StatusReturned:
		return []Action{ActionConfirm}
	case StatusCancelled:
		return nil
	}
	return nil
}

// Allowed reports whether the action is available in the given state.
func Allowed(s State, a Action) bool {
	for _, got := range Actions(s) {
		if got == a {
			return true
		}
	}
	return false
}

// EffectKind distinguishes the two upstream mutations an action can map
// to. Status changes and receipt changes go through different endpoints
// and must stay separate operations.
type EffectKind int

const (
	// EffectStatus changes the order status (PUT /orders/{id}).
	EffectStatus EffectKind = iota + 1
	// EffectReceipt changes only the isGet flag (PUT /orders/{id}/check).
	EffectReceipt
)

// Effect describes what applying an action asks the upstream store to do.
// Exactly one of Target / IsGet is meaningful, selected by Kind.
type Effect struct {
	Kind   EffectKind
	Target Status
	IsGet  *int
}

func statusEffect(target Status) Effect {
	return Effect{Kind: EffectStatus, Target: target}
}

func receiptEffect(isGet *int) Effect {
	return Effect{Kind: EffectReceipt, IsGet: isGet}
}

// Apply resolves an action against the current state. It returns the
// upstream effect to issue; it never mutates anything itself. The caller
// is expected to converge on the result via a fresh fetch, not by
// applying the effect locally.
func Apply(s State, a Action) (Effect, error) {
	if !s.Status.Valid() {
		return Effect{}, fmt.Errorf("%w: %q", ErrUnknownStatus, s.Status)
	}
	if !Allowed(s, a) {
		return Effect{}, fmt.Errorf("%w: %q in %q", ErrNotAllowed, a, s.Status)
	}

	one, zero := 1, 0
	switch a {
	case ActionConfirm:
		if s.Status == StatusReturned {
			// Closing a return cycle re-opens the order for confirmation.
			return statusEffect(StatusPending), nil
		}
		return statusEffect(StatusProcessing), nil
	case ActionCancel:
		return statusEffect(StatusCancelled), nil
	case ActionInTransit:
		return statusEffect(StatusInTransit), nil
	case ActionDeliver:
		return statusEffect(StatusDelivered), nil
	case ActionComplete:
		return statusEffect(StatusCompleted), nil
	case ActionReturn:
		return statusEffect(StatusReturned), nil
	case ActionMarkReceived:
		return receiptEffect(&one), nil
	case ActionMarkNotReceived:
		return receiptEffect(&zero), nil
	case ActionRedeliver:
		return receiptEffect(nil), nil
	}
	return Effect{}, fmt.Errorf("%w: %q", ErrNotAllowed, a)
}
