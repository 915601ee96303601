package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleFor(t *testing.T) {
	res := &Reservation{ID: 1, ToolID: 2, BorrowerID: 20, OwnerID: 10}

	assert.Equal(t, RoleOwner, RoleFor(res, 10))
	assert.Equal(t, RoleBorrower, RoleFor(res, 20))
	assert.Equal(t, RoleNone, RoleFor(res, 30))
}

func TestPermittedActions(t *testing.T) {
	t.Run("PendingOwner", func(t *testing.T) {
		assert.ElementsMatch(t,
			[]Action{ActionApprove, ActionDecline, ActionCancel},
			PermittedActions(ReservationStatusPending, RoleOwner))
	})

	t.Run("PendingBorrower", func(t *testing.T) {
		assert.ElementsMatch(t,
			[]Action{ActionCancel},
			PermittedActions(ReservationStatusPending, RoleBorrower))
	})

	t.Run("ConfirmedBorrower", func(t *testing.T) {
		assert.ElementsMatch(t,
			[]Action{ActionCancel, ActionPickup},
			PermittedActions(ReservationStatusConfirmed, RoleBorrower))
	})

	t.Run("ConfirmedOwner", func(t *testing.T) {
		assert.ElementsMatch(t,
			[]Action{ActionCancel},
			PermittedActions(ReservationStatusConfirmed, RoleOwner))
	})

	t.Run("ActiveBorrower", func(t *testing.T) {
		assert.ElementsMatch(t,
			[]Action{ActionReturn},
			PermittedActions(ReservationStatusActive, RoleBorrower))
	})

	t.Run("TerminalStatesOfferNothing", func(t *testing.T) {
		for _, status := range []ReservationStatus{ReservationStatusCompleted, ReservationStatusCancelled, ReservationStatusDeclined} {
			for _, role := range []Role{RoleOwner, RoleBorrower} {
				assert.Empty(t, PermittedActions(status, role), "%s/%s", status, role)
			}
		}
	})

	t.Run("StrangerAlwaysEmpty", func(t *testing.T) {
		for _, status := range allStatuses {
			assert.Empty(t, PermittedActions(status, RoleNone), string(status))
		}
	})
}
