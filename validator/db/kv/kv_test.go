package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethvigil/vigil/validator/client/types"
)

func setupDB(t *testing.T) *Store {
	t.Helper()
	pubKey := [48]byte{1, 2, 3}
	store, err := NewKVStore(context.Background(), t.TempDir(), [][48]byte{pubKey})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestCheckSlashableAttestation_AllowsFirstVote(t *testing.T) {
	store := setupDB(t)
	pubKey := [48]byte{1, 2, 3}
	data := types.AttestationData{Target: types.Checkpoint{Epoch: 5}, Source: types.Checkpoint{Epoch: 4}}
	kind, err := store.CheckSlashableAttestation(context.Background(), pubKey, [32]byte{9}, data)
	require.NoError(t, err)
	require.Equal(t, NotSlashable, kind)
}

func TestCheckSlashableAttestation_DetectsDoubleVote(t *testing.T) {
	store := setupDB(t)
	pubKey := [48]byte{1, 2, 3}
	data := types.AttestationData{Target: types.Checkpoint{Epoch: 5}, Source: types.Checkpoint{Epoch: 4}}
	require.NoError(t, store.ApplyAttestationForPubKey(context.Background(), pubKey, [32]byte{1}, data))

	conflicting := data
	kind, err := store.CheckSlashableAttestation(context.Background(), pubKey, [32]byte{2}, conflicting)
	require.Error(t, err)
	require.Equal(t, DoubleVote, kind)

	// The identical signing root for the same target epoch is not a
	// double vote: it is the same attestation republished.
	kind, err = store.CheckSlashableAttestation(context.Background(), pubKey, [32]byte{1}, conflicting)
	require.NoError(t, err)
	require.Equal(t, NotSlashable, kind)
}

func TestCheckSlashableAttestation_DetectsSurroundingAndSurroundedVotes(t *testing.T) {
	store := setupDB(t)
	pubKey := [48]byte{1, 2, 3}
	inner := types.AttestationData{Source: types.Checkpoint{Epoch: 2}, Target: types.Checkpoint{Epoch: 3}}
	require.NoError(t, store.ApplyAttestationForPubKey(context.Background(), pubKey, [32]byte{1}, inner))

	surrounding := types.AttestationData{Source: types.Checkpoint{Epoch: 1}, Target: types.Checkpoint{Epoch: 4}}
	kind, err := store.CheckSlashableAttestation(context.Background(), pubKey, [32]byte{2}, surrounding)
	require.Error(t, err)
	require.Equal(t, SurroundingVote, kind)

	store2 := setupDB(t)
	outer := types.AttestationData{Source: types.Checkpoint{Epoch: 1}, Target: types.Checkpoint{Epoch: 4}}
	require.NoError(t, store2.ApplyAttestationForPubKey(context.Background(), [48]byte{1, 2, 3}, [32]byte{1}, outer))
	surrounded := types.AttestationData{Source: types.Checkpoint{Epoch: 2}, Target: types.Checkpoint{Epoch: 3}}
	kind, err = store2.CheckSlashableAttestation(context.Background(), [48]byte{1, 2, 3}, [32]byte{2}, surrounded)
	require.Error(t, err)
	require.Equal(t, SurroundedVote, kind)
}

func TestProposalHistory_LowestAndHighestSignedProposal(t *testing.T) {
	store := setupDB(t)
	pubKey := [48]byte{1, 2, 3}

	_, exists, err := store.LowestSignedProposal(context.Background(), pubKey)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, store.SaveProposalHistoryForSlot(context.Background(), pubKey, 10, []byte("root-10")))
	require.NoError(t, store.SaveProposalHistoryForSlot(context.Background(), pubKey, 5, []byte("root-5")))
	require.NoError(t, store.SaveProposalHistoryForSlot(context.Background(), pubKey, 20, []byte("root-20")))

	lowest, exists, err := store.LowestSignedProposal(context.Background(), pubKey)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, uint64(5), lowest)

	highest, exists, err := store.HighestSignedProposal(context.Background(), pubKey)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, uint64(20), highest)
}

func TestPruneSlashingProtection_RateLimited(t *testing.T) {
	store := setupDB(t)
	require.NoError(t, store.PruneSlashingProtection(context.Background(), true))
	firstPrune := store.lastPrune
	require.False(t, firstPrune.IsZero())

	require.NoError(t, store.PruneSlashingProtection(context.Background(), false))
	require.Equal(t, firstPrune, store.lastPrune, "expected the rate limit window to suppress a second prune")

	store.lastPrune = time.Now().Add(-2 * pruneInterval)
	require.NoError(t, store.PruneSlashingProtection(context.Background(), false))
	require.True(t, store.lastPrune.After(firstPrune), "expected pruning to run again once the rate limit window elapsed")
}
