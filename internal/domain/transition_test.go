package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusActive,
	ReservationStatusCompleted,
	ReservationStatusCancelled,
	ReservationStatusDeclined,
}

var allActions = []Action{ActionApprove, ActionDecline, ActionCancel, ActionPickup, ActionReturn}

func TestTransition_HappyPath(t *testing.T) {
	next, err := Transition(ReservationStatusPending, ActionApprove, RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, ReservationStatusConfirmed, next)

	next, err = Transition(ReservationStatusConfirmed, ActionPickup, RoleBorrower)
	require.NoError(t, err)
	assert.Equal(t, ReservationStatusActive, next)

	next, err = Transition(ReservationStatusActive, ActionReturn, RoleBorrower)
	require.NoError(t, err)
	assert.Equal(t, ReservationStatusCompleted, next)
}

func TestTransition_EscapePaths(t *testing.T) {
	next, err := Transition(ReservationStatusPending, ActionDecline, RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, ReservationStatusDeclined, next)

	for _, role := range []Role{RoleBorrower, RoleOwner} {
		next, err = Transition(ReservationStatusPending, ActionCancel, role)
		require.NoError(t, err)
		assert.Equal(t, ReservationStatusCancelled, next)

		next, err = Transition(ReservationStatusConfirmed, ActionCancel, role)
		require.NoError(t, err)
		assert.Equal(t, ReservationStatusCancelled, next)
	}
}

// legalPairs is the full legal (state, action) table written out
// independently of the implementation, so the closure test catches any
// drift in either direction.
var legalPairs = map[ReservationStatus][]Action{
	ReservationStatusPending:   {ActionApprove, ActionDecline, ActionCancel},
	ReservationStatusConfirmed: {ActionCancel, ActionPickup},
	ReservationStatusActive:    {ActionReturn},
}

// Every (state, action) pair outside the table must fail with an invalid
// transition for every role, never a silent no-op or a state change.
func TestTransition_Closure(t *testing.T) {
	for _, status := range allStatuses {
		for _, action := range allActions {
			legal := false
			for _, a := range legalPairs[status] {
				if a == action {
					legal = true
				}
			}
			if legal {
				continue
			}
			for _, role := range []Role{RoleOwner, RoleBorrower, RoleNone} {
				_, err := Transition(status, action, role)
				assert.ErrorIs(t, err, ErrInvalidTransition, "(%s, %s, %s)", status, action, role)
			}
		}
	}
}

func TestTransition_RoleEnforcement(t *testing.T) {
	t.Run("OwnerCannotPickup", func(t *testing.T) {
		_, err := Transition(ReservationStatusConfirmed, ActionPickup, RoleOwner)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("BorrowerCannotApprove", func(t *testing.T) {
		_, err := Transition(ReservationStatusPending, ActionApprove, RoleBorrower)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("BorrowerCannotDecline", func(t *testing.T) {
		_, err := Transition(ReservationStatusPending, ActionDecline, RoleBorrower)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("OwnerCannotReturn", func(t *testing.T) {
		_, err := Transition(ReservationStatusActive, ActionReturn, RoleOwner)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("StrangerGetsForbiddenOnLegalPairs", func(t *testing.T) {
		_, err := Transition(ReservationStatusPending, ActionApprove, RoleNone)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("UnknownAction", func(t *testing.T) {
		_, err := Transition(ReservationStatusPending, Action("SHRED"), RoleOwner)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, ReservationStatusPending.IsTerminal())
	assert.False(t, ReservationStatusConfirmed.IsTerminal())
	assert.False(t, ReservationStatusActive.IsTerminal())
	assert.True(t, ReservationStatusCompleted.IsTerminal())
	assert.True(t, ReservationStatusCancelled.IsTerminal())
	assert.True(t, ReservationStatusDeclined.IsTerminal())
}
