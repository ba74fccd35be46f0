package sessionstore

import (
	"context"
	"sync"
	"time"

	"glycorisk/domain/core"
	"glycorisk/domain/session"
	"glycorisk/internal/errors"
)

type memoryEntry struct {
	state     session.State
	expiresAt time.Time
}

// MemoryRepository keeps sessions in process memory. Entries expire after ttl.
type MemoryRepository struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[core.ID]memoryEntry
	now     func() time.Time
}

// NewMemoryRepository creates an in-memory session store
func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{
		ttl:     ttl,
		entries: make(map[core.ID]memoryEntry),
		now:     time.Now,
	}
}

// Load returns a copy of the stored state
func (r *MemoryRepository) Load(ctx context.Context, id core.ID) (*session.State, error) {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok || r.now().After(entry.expiresAt) {
		return nil, errors.NotFound("session " + id.String())
	}
	return cloneState(entry.state), nil
}

// Save stores a copy of state and refreshes its expiry
func (r *MemoryRepository) Save(ctx context.Context, state *session.State) error {
	if state == nil || state.ID.IsEmpty() {
		return errors.SessionError("cannot save a session without an ID", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[state.ID] = memoryEntry{state: *cloneState(*state), expiresAt: r.now().Add(r.ttl)}
	return nil
}

// Delete removes a session
func (r *MemoryRepository) Delete(ctx context.Context, id core.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

// CleanupExpired drops expired entries and returns how many were removed
func (r *MemoryRepository) CleanupExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, entry := range r.entries {
		if now.After(entry.expiresAt) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// RunCleanup calls CleanupExpired every interval until ctx is done
func (r *MemoryRepository) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.CleanupExpired()
		case <-ctx.Done():
			return
		}
	}
}

func cloneState(s session.State) *session.State {
	clone := s
	if s.Features != nil {
		fv := *s.Features
		clone.Features = &fv
	}
	return &clone
}
