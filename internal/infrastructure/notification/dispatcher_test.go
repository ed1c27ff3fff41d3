package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	domain "github.com/halmarket/backend/internal/domain/notification"
	"github.com/halmarket/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.Notification
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[uuid.UUID]*domain.Notification)}
}

func (r *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *memoryRepo) FindByDocument(_ context.Context, documentID uuid.UUID) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.DocumentID == documentID {
			copied := *n
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) FindDue(_ context.Context, now time.Time, limit int) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*domain.Notification
	for _, n := range r.items {
		if n.Due(now) && len(due) < limit {
			copied := *n
			due = append(due, &copied)
		}
	}
	return due, nil
}

func (r *memoryRepo) FindExhausted(_ context.Context) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var dead []*domain.Notification
	for _, n := range r.items {
		if n.Exhausted() {
			copied := *n
			dead = append(dead, &copied)
		}
	}
	return dead, nil
}

func (r *memoryRepo) Save(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *n
	r.items[n.ID] = &copied
	return nil
}

type fakeTransport struct {
	mu       sync.Mutex
	failures int
	calls    int
	block    chan struct{} // when set, Deliver waits for ctx cancellation
}

func (t *fakeTransport) Deliver(ctx context.Context, _ *domain.Notification) error {
	t.mu.Lock()
	t.calls++
	fail := t.failures > 0
	if fail {
		t.failures--
	}
	block := t.block
	t.mu.Unlock()

	if block != nil {
		<-ctx.Done()
		return ctx.Err()
	}
	if fail {
		return errors.New("endpoint unavailable")
	}
	return nil
}

func (t *fakeTransport) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

func enqueue(t *testing.T, repo *memoryRepo) *domain.Notification {
	t.Helper()
	n, err := domain.NewNotification(uuid.New(), "SAT-2026-0001", []byte(`{}`), 0)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), n))
	return n
}

func testDispatcher(repo *memoryRepo, transport Transport) *Dispatcher {
	cfg := DispatcherConfig{BatchSize: 10, PollInterval: 10 * time.Millisecond}
	return NewDispatcher(repo, transport, cfg, zap.NewNop())
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestDispatcherDelivers(t *testing.T) {
	repo := newMemoryRepo()
	transport := &fakeTransport{}
	d := testDispatcher(repo, transport)

	n := enqueue(t, repo)

	ctx := context.Background()
	require.NoError(t, d.Start(ctx))
	defer func() { _ = d.Stop(ctx) }()
	d.Notify()

	waitFor(t, func() bool {
		saved, err := repo.FindByID(ctx, n.ID)
		return err == nil && saved.Status == domain.StatusDelivered
	})

	saved, err := repo.FindByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Attempts)
	require.NotNil(t, saved.DeliveredAt)
}

func TestDispatcherRetriesFailures(t *testing.T) {
	repo := newMemoryRepo()
	transport := &fakeTransport{failures: 1}
	d := testDispatcher(repo, transport)

	n := enqueue(t, repo)

	ctx := context.Background()
	require.NoError(t, d.Start(ctx))
	defer func() { _ = d.Stop(ctx) }()
	d.Notify()

	// first attempt fails and schedules a backoff
	waitFor(t, func() bool {
		saved, err := repo.FindByID(ctx, n.ID)
		return err == nil && saved.Status == domain.StatusPending && saved.Attempts == 1
	})
	saved, err := repo.FindByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "endpoint unavailable", saved.LastError)
	require.NotNil(t, saved.NextAttemptAt)
}

func TestDispatcherShutdownLeavesResumableState(t *testing.T) {
	repo := newMemoryRepo()
	transport := &fakeTransport{block: make(chan struct{})}
	d := testDispatcher(repo, transport)

	n := enqueue(t, repo)

	require.NoError(t, d.Start(context.Background()))
	d.Notify()

	waitFor(t, func() bool { return transport.callCount() > 0 })

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(stopCtx))

	saved, err := repo.FindByID(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, saved.Status, "in-flight delivery must requeue on shutdown")
	assert.Equal(t, 0, saved.Attempts, "an interrupted attempt does not count")
}
