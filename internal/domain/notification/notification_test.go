package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotification(t *testing.T) *Notification {
	t.Helper()
	n, err := NewNotification(uuid.New(), "SAT-2026-0001", []byte(`{"document":"SAT-2026-0001"}`), 0)
	require.NoError(t, err)
	return n
}

func TestNotificationStateMachine(t *testing.T) {
	t.Run("happy path pending to delivered", func(t *testing.T) {
		n := newTestNotification(t)
		assert.True(t, n.Due(time.Now()))

		require.NoError(t, n.MarkSending())
		assert.Equal(t, StatusSending, n.Status)
		assert.Equal(t, 1, n.Attempts)

		require.NoError(t, n.MarkDelivered())
		assert.Equal(t, StatusDelivered, n.Status)
		require.NotNil(t, n.DeliveredAt)
		assert.False(t, n.Due(time.Now()))
	})

	t.Run("failure below ceiling goes back to pending with backoff", func(t *testing.T) {
		n := newTestNotification(t)
		require.NoError(t, n.MarkSending())
		require.NoError(t, n.MarkFailed("connection refused"))

		assert.Equal(t, StatusPending, n.Status)
		assert.Equal(t, "connection refused", n.LastError)
		require.NotNil(t, n.NextAttemptAt)
		assert.False(t, n.Due(time.Now()))
		assert.True(t, n.Due(time.Now().Add(2*time.Second)))
	})

	t.Run("backoff grows with attempts", func(t *testing.T) {
		n := newTestNotification(t)
		require.NoError(t, n.MarkSending())
		require.NoError(t, n.MarkFailed("timeout"))
		first := time.Until(*n.NextAttemptAt)

		require.NoError(t, n.MarkSending())
		require.NoError(t, n.MarkFailed("timeout"))
		second := time.Until(*n.NextAttemptAt)

		assert.Greater(t, second, first)
	})

	t.Run("attempt ceiling makes failure terminal", func(t *testing.T) {
		n := newTestNotification(t)
		for i := 0; i < DefaultMaxAttempts; i++ {
			require.NoError(t, n.MarkSending())
			require.NoError(t, n.MarkFailed("timeout"))
		}

		assert.Equal(t, StatusFailed, n.Status)
		assert.True(t, n.Exhausted())
		assert.Nil(t, n.NextAttemptAt)
		assert.ErrorIs(t, n.MarkSending(), shared.ErrInvalidState)
	})

	t.Run("non-positive ceiling falls back to default", func(t *testing.T) {
		n := newTestNotification(t)
		assert.Equal(t, DefaultMaxAttempts, n.MaxAttempts)
	})

	t.Run("configured ceiling bounds the attempts", func(t *testing.T) {
		n, err := NewNotification(uuid.New(), "SAT-2026-0002", []byte(`{}`), 2)
		require.NoError(t, err)
		assert.Equal(t, 2, n.MaxAttempts)

		for i := 0; i < 2; i++ {
			require.NoError(t, n.MarkSending())
			require.NoError(t, n.MarkFailed("timeout"))
		}
		assert.True(t, n.Exhausted())
	})

	t.Run("manual reset requeues a terminal failure", func(t *testing.T) {
		n := newTestNotification(t)
		for i := 0; i < DefaultMaxAttempts; i++ {
			require.NoError(t, n.MarkSending())
			require.NoError(t, n.MarkFailed("timeout"))
		}
		require.True(t, n.Exhausted())

		require.NoError(t, n.ResetForRetry())
		assert.Equal(t, StatusPending, n.Status)
		assert.Equal(t, 0, n.Attempts)
		assert.True(t, n.Due(time.Now()))
	})

	t.Run("reset of a non-terminal notification fails", func(t *testing.T) {
		n := newTestNotification(t)
		assert.ErrorIs(t, n.ResetForRetry(), shared.ErrInvalidState)
	})

	t.Run("requeue releases an in-flight claim without an attempt", func(t *testing.T) {
		n := newTestNotification(t)
		require.NoError(t, n.MarkSending())
		n.Requeue()

		assert.Equal(t, StatusPending, n.Status)
		assert.Equal(t, 0, n.Attempts)
		assert.True(t, n.Due(time.Now()))
	})

	t.Run("cannot deliver without claiming", func(t *testing.T) {
		n := newTestNotification(t)
		assert.ErrorIs(t, n.MarkDelivered(), shared.ErrInvalidState)
	})
}
