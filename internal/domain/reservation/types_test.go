//go:build unit

package reservation_test

import (
	"strings"
	"testing"

	"tablebook/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	t.Run("transition table", func(t *testing.T) {
		cases := []struct {
			from    reservation.Status
			to      reservation.Status
			allowed bool
		}{
			{reservation.StatusRequested, reservation.StatusApproved, true},
			{reservation.StatusRequested, reservation.StatusCancelled, true},
			{reservation.StatusRequested, reservation.StatusCompleted, false},
			{reservation.StatusRequested, reservation.StatusRequested, false},
			{reservation.StatusApproved, reservation.StatusCompleted, true},
			{reservation.StatusApproved, reservation.StatusCancelled, true},
			{reservation.StatusApproved, reservation.StatusRequested, false},
			{reservation.StatusCancelled, reservation.StatusRequested, false},
			{reservation.StatusCancelled, reservation.StatusApproved, false},
			{reservation.StatusCompleted, reservation.StatusCancelled, false},
			{reservation.StatusCompleted, reservation.StatusApproved, false},
		}
		for _, c := range cases {
			assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
		}
	})

	t.Run("active and terminal are disjoint", func(t *testing.T) {
		for _, s := range []reservation.Status{
			reservation.StatusRequested,
			reservation.StatusApproved,
			reservation.StatusCancelled,
			reservation.StatusCompleted,
		} {
			assert.NotEqual(t, s.IsActive(), s.IsTerminal(), "status %s", s)
		}
	})

	t.Run("parsing", func(t *testing.T) {
		s, err := reservation.NewStatus("Approved")
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusApproved, s)

		_, err = reservation.NewStatus("approved")
		require.ErrorIs(t, err, reservation.ErrInvalidStatus)

		_, err = reservation.NewStatus("")
		require.ErrorIs(t, err, reservation.ErrInvalidStatus)
	})

	t.Run("active statuses", func(t *testing.T) {
		assert.ElementsMatch(t,
			[]reservation.Status{reservation.StatusRequested, reservation.StatusApproved},
			reservation.ActiveStatuses())
	})
}

func TestReason(t *testing.T) {
	t.Run("valid reason is trimmed", func(t *testing.T) {
		r, err := reservation.NewReason("  schedule conflict  ")
		require.NoError(t, err)
		assert.Equal(t, "schedule conflict", r.Value())
	})

	t.Run("empty reason", func(t *testing.T) {
		_, err := reservation.NewReason("   ")
		require.ErrorIs(t, err, reservation.ErrEmptyReason)
	})

	t.Run("reason exceeds maximum length", func(t *testing.T) {
		_, err := reservation.NewReason(strings.Repeat("a", reservation.MaxReasonLength+1))
		require.ErrorIs(t, err, reservation.ErrReasonTooLong)
	})
}
