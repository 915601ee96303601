package domain

// RoleFor derives the actor's relationship to a reservation. It is stateless
// and recomputed on every request, never cached across a transition.
func RoleFor(res *Reservation, actorID int32) Role {
	switch actorID {
	case res.OwnerID:
		return RoleOwner
	case res.BorrowerID:
		return RoleBorrower
	}
	return RoleNone
}

// PermittedActions computes the action set currently available to a role,
// given the reservation's status. Every surface consumes this one derivation
// instead of re-deriving role logic per screen; a role of NONE always yields
// an empty set.
func PermittedActions(status ReservationStatus, role Role) []Action {
	var out []Action
	for _, action := range []Action{ActionApprove, ActionDecline, ActionCancel, ActionPickup, ActionReturn} {
		if _, err := Transition(status, action, role); err == nil {
			out = append(out, action)
		}
	}
	return out
}
