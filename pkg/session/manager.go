package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/opencourtlab/guideway/internal/logging"
	"github.com/opencourtlab/guideway/pkg/domain"
	"github.com/opencourtlab/guideway/pkg/ports"
)

// CheckFunc validates a restored state against the currently loaded graph.
// It returns a *domain.RestoreMismatchError when the state no longer fits.
type CheckFunc func(*domain.State) error

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access: it serializes operations per session
// key, snapshots state to the store, and guards restoration against graph
// redeployments. Locks are reference counted so idle sessions cost nothing.
type Manager struct {
	store ports.StateStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking for kiosk replicas sharing a store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides the distributed lock TTL (default 30s).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for deferred errors and restore fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager over the given persistence store.
func NewManager(store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and drops the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Restore loads a persisted session and validates it against the current
// graph via check. Three outcomes:
//
//   - a valid saved state is returned as-is;
//   - no saved state exists: (nil, domain.ErrSessionNotFound);
//   - the saved state no longer fits the graph: the stale snapshot is
//     deleted and a *domain.RestoreMismatchError returned. The caller falls
//     back to a fresh state; a mismatch is never surfaced to the end user.
func (m *Manager) Restore(ctx context.Context, sessionID string, check CheckFunc) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		loaded, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}

		if err := check(loaded); err != nil {
			var mismatch *domain.RestoreMismatchError
			if errors.As(err, &mismatch) {
				m.logger.Warn("discarding stale session snapshot",
					"session_id", sessionID,
					"err", err,
				)
				if delErr := m.store.Delete(ctx, sessionID); delErr != nil {
					m.logger.Warn("failed to delete stale session", "session_id", sessionID, "err", delErr)
				}
			}
			return err
		}

		state = loaded
		return nil
	})
	return state, err
}

// Save snapshots the session state. Called after every transition so a page
// reload resumes mid-flow.
func (m *Manager) Save(ctx context.Context, sessionID string, state *domain.State) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, state)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List enumerates persisted sessions, when the store supports it.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	listable, ok := m.store.(ports.ListableStore)
	if !ok {
		return nil, fmt.Errorf("store %T does not support listing sessions", m.store)
	}
	return listable.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

// WithLock executes fn while holding the local (and, if configured,
// distributed) lock for the session key.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
