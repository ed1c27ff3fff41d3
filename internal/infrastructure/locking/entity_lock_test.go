package locking

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAll(t *testing.T) {
	t.Run("serializes overlapping sets", func(t *testing.T) {
		m := NewEntityLockManager()
		shared := uuid.New()
		a := []uuid.UUID{uuid.New(), shared}
		b := []uuid.UUID{shared, uuid.New()}

		var mu sync.Mutex
		var active, maxActive int

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			ids := a
			if i%2 == 1 {
				ids = b
			}
			wg.Add(1)
			go func(ids []uuid.UUID) {
				defer wg.Done()
				release := m.AcquireAll(ids)
				defer release()

				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
			}(ids)
		}
		wg.Wait()

		assert.Equal(t, 1, maxActive, "holders of the shared entity must never overlap")
	})

	t.Run("disjoint sets run in parallel", func(t *testing.T) {
		m := NewEntityLockManager()

		first := m.AcquireAll([]uuid.UUID{uuid.New()})
		defer first()

		done := make(chan struct{})
		go func() {
			release := m.AcquireAll([]uuid.UUID{uuid.New()})
			release()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("disjoint acquisition blocked")
		}
	})

	t.Run("opposite orderings do not deadlock", func(t *testing.T) {
		m := NewEntityLockManager()
		x, y := uuid.New(), uuid.New()

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			ids := []uuid.UUID{x, y}
			if i%2 == 1 {
				ids = []uuid.UUID{y, x}
			}
			wg.Add(1)
			go func(ids []uuid.UUID) {
				defer wg.Done()
				release := m.AcquireAll(ids)
				time.Sleep(100 * time.Microsecond)
				release()
			}(ids)
		}

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("deadlock between opposite acquisition orders")
		}
	})

	t.Run("duplicate ids lock once", func(t *testing.T) {
		m := NewEntityLockManager()
		id := uuid.New()
		release := m.AcquireAll([]uuid.UUID{id, id, id})
		release()

		// lock map must be empty again
		m.mu.Lock()
		defer m.mu.Unlock()
		require.Empty(t, m.locks)
	})

	t.Run("release is idempotent", func(t *testing.T) {
		m := NewEntityLockManager()
		id := uuid.New()
		release := m.AcquireAll([]uuid.UUID{id})
		release()
		release()

		second := m.AcquireAll([]uuid.UUID{id})
		second()
	})
}
