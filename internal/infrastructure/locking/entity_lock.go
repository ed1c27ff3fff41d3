package locking

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// EntityLockManager provides per-entity mutual exclusion for document
// finalization. Operations touching disjoint entities run fully in
// parallel; operations sharing an entity serialize on it. Locks are
// always acquired in sorted identifier order so two finalizations that
// share some but not all entities cannot deadlock.
//
// This is an in-process manager: the back office runs as a single
// instance with single-writer-per-store semantics, so no distributed
// coordination is involved.
type EntityLockManager struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*entityLock
}

type entityLock struct {
	mu   sync.Mutex
	refs int
}

// NewEntityLockManager creates a new lock manager
func NewEntityLockManager() *EntityLockManager {
	return &EntityLockManager{
		locks: make(map[uuid.UUID]*entityLock),
	}
}

// AcquireAll locks every given entity in stable sorted order and returns
// a release function. Duplicate IDs are locked once. The release function
// must be called exactly once, typically deferred.
func (m *EntityLockManager) AcquireAll(ids []uuid.UUID) func() {
	ordered := dedupeSorted(ids)

	acquired := make([]*entityLock, 0, len(ordered))
	for _, id := range ordered {
		l := m.retain(id)
		l.mu.Lock()
		acquired = append(acquired, l)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// release in reverse acquisition order
			for i := len(acquired) - 1; i >= 0; i-- {
				acquired[i].mu.Unlock()
				m.release(ordered[i])
			}
		})
	}
}

func (m *EntityLockManager) retain(id uuid.UUID) *entityLock {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &entityLock{}
		m.locks[id] = l
	}
	l.refs++
	return l
}

func (m *EntityLockManager) release(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		return
	}
	l.refs--
	if l.refs == 0 {
		delete(m.locks, id)
	}
}

// dedupeSorted returns the unique IDs in ascending string order
func dedupeSorted(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
