// Package db re-exports the slashing-protection store so callers outside
// validator/db/kv can depend on a stable import path; the concrete
// implementation lives in the kv subpackage.
package db

import "github.com/ethvigil/vigil/validator/db/kv"

// Store is the slashing-protection database used by the signing store.
type Store = kv.Store

// NewKVStore opens (creating if absent) the slashing-protection database
// at dirPath, seeding per-key buckets for pubKeys.
var NewKVStore = kv.NewKVStore

// ProtectionDbFileName is the slashing protection database file name.
var ProtectionDbFileName = kv.ProtectionDbFileName
