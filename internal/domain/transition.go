package domain

import "fmt"

type Action string

const (
	ActionApprove Action = "APPROVE"
	ActionDecline Action = "DECLINE"
	ActionCancel  Action = "CANCEL"
	ActionPickup  Action = "PICKUP"
	ActionReturn  Action = "RETURN"
)

type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleBorrower Role = "BORROWER"
	RoleNone     Role = "NONE"
)

// transitionRule is one row of the reservation state machine.
type transitionRule struct {
	from  ReservationStatus
	to    ReservationStatus
	roles []Role
}

// transitions is the closed transition table. Creation (nil -> PENDING) is
// handled by the service and does not appear here.
var transitions = map[Action]transitionRule{
	ActionApprove: {ReservationStatusPending, ReservationStatusConfirmed, []Role{RoleOwner}},
	ActionDecline: {ReservationStatusPending, ReservationStatusDeclined, []Role{RoleOwner}},
	ActionPickup:  {ReservationStatusConfirmed, ReservationStatusActive, []Role{RoleBorrower}},
	ActionReturn:  {ReservationStatusActive, ReservationStatusCompleted, []Role{RoleBorrower}},
	// Cancel is the only action legal from more than one state; see Transition.
	ActionCancel: {ReservationStatusPending, ReservationStatusCancelled, []Role{RoleBorrower, RoleOwner}},
}

// Transition resolves the target status for (current, action, role). Illegal
// (state, action) pairs fail with ErrInvalidTransition; a legal pair attempted
// by a role not listed for the action fails with ErrForbidden. Neither case is
// ever a silent no-op.
func Transition(current ReservationStatus, action Action, role Role) (ReservationStatus, error) {
	rule, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	legal := current == rule.from ||
		(action == ActionCancel && current == ReservationStatusConfirmed)
	if !legal {
		return "", fmt.Errorf("%w: cannot %s a %s reservation", ErrInvalidTransition, action, current)
	}

	for _, r := range rule.roles {
		if r == role {
			return rule.to, nil
		}
	}
	return "", fmt.Errorf("%w: role %s may not %s", ErrForbidden, role, action)
}
