package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourtlab/guideway/pkg/domain"
)

// RunStateStoreContract runs a suite of tests verifying that a StateStore
// implementation adheres to the interface contract. Store adapters call it
// from their own test files.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	start := domain.Node{ID: "start", Kind: domain.KindStart, Text: "Welcome"}

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(start)
		state.Path = append(state.Path, domain.PathEntry{
			NodeID: "fee-waiver",
			Node:   domain.Node{ID: "fee-waiver", Kind: domain.KindProcess, Forms: []string{"FW-001"}},
		})
		state.Decisions = append(state.Decisions, domain.Decision{From: "start", When: "Yes", To: "fee-waiver"})
		state.CurrentID = "fee-waiver"

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.CurrentID, loaded.CurrentID)
		require.Len(t, loaded.Path, 2)
		assert.Equal(t, []string{"FW-001"}, loaded.Path[1].Node.Forms)
		require.Len(t, loaded.Decisions, 1)
		assert.Equal(t, "Yes", loaded.Decisions[0].When)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Saved state is isolated from caller mutation", func(t *testing.T) {
		state := domain.NewState(start)
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.CurrentID = "mutated"
		state.Path[0].NodeID = "mutated"

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "start", loaded.CurrentID)
		assert.Equal(t, "start", loaded.Path[0].NodeID)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(start))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	if listable, ok := store.(ListableStore); ok {
		t.Run("List", func(t *testing.T) {
			id1 := sessionID + "-1"
			id2 := sessionID + "-2"
			_ = store.Save(ctx, id1, domain.NewState(start))
			_ = store.Save(ctx, id2, domain.NewState(start))

			defer func() {
				_ = store.Delete(ctx, id1)
				_ = store.Delete(ctx, id2)
			}()

			sessions, err := listable.List(ctx)
			require.NoError(t, err)
			assert.Contains(t, sessions, id1)
			assert.Contains(t, sessions, id2)
		})
	}
}
