// Package kv is the slashing-protection backend for the validator
// scheduling core: a single boltdb file recording, per public key, the
// attestation source/target epochs and proposal slots already signed, so a
// restart can never be tricked into double-signing.
package kv

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	prombolt "github.com/prysmaticlabs/prombbolt"
	"github.com/ethvigil/vigil/shared/params"
	bolt "go.etcd.io/bbolt"
)

// ProtectionDbFileName is the slashing protection database file name.
var ProtectionDbFileName = "validator.db"

// Store is a boltdb backed implementation of the slashing-protection
// database used by the signing store.
type Store struct {
	db           *bolt.DB
	databasePath string
	lock         sync.Mutex
	lastPrune    time.Time
}

// Close closes the underlying boltdb database.
func (store *Store) Close() error {
	prometheus.Unregister(createBoltCollector(store.db))
	return store.db.Close()
}

func (store *Store) update(fn func(*bolt.Tx) error) error {
	return store.db.Update(fn)
}

func (store *Store) view(fn func(*bolt.Tx) error) error {
	return store.db.View(fn)
}

// ClearDB removes any previously stored data at the configured data directory.
func (store *Store) ClearDB() error {
	if _, err := os.Stat(store.databasePath); os.IsNotExist(err) {
		return nil
	}
	prometheus.Unregister(createBoltCollector(store.db))
	return os.Remove(filepath.Join(store.databasePath, ProtectionDbFileName))
}

// DatabasePath at which this database writes files.
func (store *Store) DatabasePath() string {
	return store.databasePath
}

func createBuckets(tx *bolt.Tx, buckets ...[]byte) error {
	for _, bucket := range buckets {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return err
		}
	}
	return nil
}

// NewKVStore initializes a new boltDB key-value store at the directory
// path specified, creating the kv-buckets the slashing-protection schema
// needs, and seeds a bucket per public key supplied.
func NewKVStore(ctx context.Context, dirPath string, pubKeys [][48]byte) (*Store, error) {
	if err := os.MkdirAll(dirPath, params.BeaconIoConfig().ReadWritePermissions); err != nil {
		return nil, err
	}
	datafile := filepath.Join(dirPath, ProtectionDbFileName)
	boltDB, err := bolt.Open(datafile, params.BeaconIoConfig().ReadWritePermissions, &bolt.Options{Timeout: params.BeaconIoConfig().BoltTimeout})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}

	kv := &Store{
		db:           boltDB,
		databasePath: dirPath,
	}

	if err := kv.db.Update(func(tx *bolt.Tx) error {
		return createBuckets(
			tx,
			genesisInfoBucket,
			pubKeysBucket,
			newHistoricProposalsBucket,
			lowestSignedProposalsBucket,
			highestSignedProposalsBucket,
		)
	}); err != nil {
		return nil, err
	}

	if len(pubKeys) > 0 {
		if err := kv.UpdatePublicKeysBuckets(pubKeys); err != nil {
			return nil, err
		}
	}
	return kv, prometheus.Register(createBoltCollector(kv.db))
}

// UpdatePublicKeysBuckets seeds per-key sub-buckets for a specified list
// of keys so a freshly imported validator has an empty but present
// history rather than a missing one.
func (store *Store) UpdatePublicKeysBuckets(pubKeys [][48]byte) error {
	return store.update(func(tx *bolt.Tx) error {
		proposals := tx.Bucket(newHistoricProposalsBucket)
		keys := tx.Bucket(pubKeysBucket)
		for _, pubKey := range pubKeys {
			if _, err := proposals.CreateBucketIfNotExists(pubKey[:]); err != nil {
				return errors.Wrap(err, "failed to create proposal history bucket")
			}
			if _, err := keys.CreateBucketIfNotExists(pubKey[:]); err != nil {
				return errors.Wrap(err, "failed to create attestation history bucket")
			}
		}
		return nil
	})
}

// Size returns the db size in bytes.
func (store *Store) Size() (int64, error) {
	var size int64
	err := store.db.View(func(tx *bolt.Tx) error {
		size = tx.Size()
		return nil
	})
	return size, err
}

// createBoltCollector returns a prometheus collector specifically configured for boltdb.
func createBoltCollector(db *bolt.DB) prometheus.Collector {
	return prombolt.New("boltDB", db)
}
