package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourtlab/guideway/pkg/adapters/memory"
	"github.com/opencourtlab/guideway/pkg/domain"
	"github.com/opencourtlab/guideway/pkg/session"
)

func startState() *domain.State {
	return domain.NewState(domain.Node{ID: "welcome", Kind: domain.KindStart})
}

func acceptAll(*domain.State) error { return nil }

func TestManagerSaveAndRestore(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	state := startState()
	state.CurrentID = "eligibility"
	require.NoError(t, mgr.Save(ctx, "kiosk-1", state))

	restored, err := mgr.Restore(ctx, "kiosk-1", acceptAll)
	require.NoError(t, err)
	assert.Equal(t, "eligibility", restored.CurrentID)
}

func TestManagerRestoreMissingSession(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())

	_, err := mgr.Restore(context.Background(), "never-saved", acceptAll)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManagerRestoreMismatchDeletesSnapshot(t *testing.T) {
	store := memory.NewStore()
	mgr := session.NewManager(store)
	ctx := context.Background()

	require.NoError(t, mgr.Save(ctx, "kiosk-1", startState()))

	reject := func(*domain.State) error {
		return &domain.RestoreMismatchError{NodeID: "welcome"}
	}

	_, err := mgr.Restore(ctx, "kiosk-1", reject)
	var mismatch *domain.RestoreMismatchError
	require.ErrorAs(t, err, &mismatch)

	// The stale snapshot must be gone so the next restore starts clean.
	_, err = store.Load(ctx, "kiosk-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManagerRestoreNonMismatchErrorKeepsSnapshot(t *testing.T) {
	store := memory.NewStore()
	mgr := session.NewManager(store)
	ctx := context.Background()

	require.NoError(t, mgr.Save(ctx, "kiosk-1", startState()))

	boom := func(*domain.State) error { return assert.AnError }
	_, err := mgr.Restore(ctx, "kiosk-1", boom)
	require.ErrorIs(t, err, assert.AnError)

	_, err = store.Load(ctx, "kiosk-1")
	assert.NoError(t, err, "only restore mismatches discard the snapshot")
}

func TestManagerDelete(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, mgr.Save(ctx, "kiosk-1", startState()))
	require.NoError(t, mgr.Delete(ctx, "kiosk-1"))

	_, err := mgr.Restore(ctx, "kiosk-1", acceptAll)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManagerList(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, mgr.Save(ctx, "b", startState()))
	require.NoError(t, mgr.Save(ctx, "a", startState()))

	sessions, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, sessions)
}

// unlistableStore implements only the base StateStore surface.
type unlistableStore struct {
	inner *memory.Store
}

func (s unlistableStore) Save(ctx context.Context, id string, state *domain.State) error {
	return s.inner.Save(ctx, id, state)
}

func (s unlistableStore) Load(ctx context.Context, id string) (*domain.State, error) {
	return s.inner.Load(ctx, id)
}

func (s unlistableStore) Delete(ctx context.Context, id string) error {
	return s.inner.Delete(ctx, id)
}

func TestManagerListUnsupported(t *testing.T) {
	mgr := session.NewManager(unlistableStore{memory.NewStore()})
	_, err := mgr.List(context.Background())
	assert.Error(t, err)
}

func TestManagerWithLockSerializes(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		counter int
		max     int
	)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mgr.WithLock(ctx, "same-session", func(context.Context) error {
				mu.Lock()
				counter++
				if counter > max {
					max = counter
				}
				mu.Unlock()

				mu.Lock()
				counter--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, max, "at most one holder of a session lock at a time")
}
