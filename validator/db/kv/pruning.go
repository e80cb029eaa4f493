package kv

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "validator-db")

// pruneInterval bounds how often PruneSlashingProtection actually touches
// the database; the scheduling core calls it once per slot but pruning
// every slot is wasted work since the underlying buckets only change on
// epoch boundaries.
const pruneInterval = 1 * time.Minute

// PruneSlashingProtection prunes attestation history older than the
// current weak subjectivity period; proposal history is pruned as each
// proposal is saved, by SaveProposalHistoryForSlot. It is safe, and expected, to
// call this once per slot: outside of firstRun or the rate-limit window it
// is a no-op, so repeated calls across a run are idempotent.
func (store *Store) PruneSlashingProtection(ctx context.Context, firstRun bool) error {
	store.lock.Lock()
	due := firstRun || time.Since(store.lastPrune) >= pruneInterval
	if due {
		store.lastPrune = time.Now()
	}
	store.lock.Unlock()
	if !due {
		return nil
	}

	if err := store.PruneAttestationsOlderThanCurrentWeakSubjectivity(ctx); err != nil {
		return err
	}
	log.Debug("Pruned slashing protection history")
	return nil
}
