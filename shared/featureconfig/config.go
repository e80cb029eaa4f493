// Package featureconfig defines runtime feature flags for the validator
// scheduling core, following the global-with-reset pattern so tests can
// flip a flag for the duration of a single test via InitWithReset.
package featureconfig

import "sync"

// Flags is the set of runtime feature toggles the scheduling core reads.
type Flags struct {
	// AttestTimely selects re-checking the attestation deadline against
	// the highest valid block seen so far rather than always waiting the
	// full delay. No code in this module reads it; the attestation service
	// always waits the full delay.
	AttestTimely bool
	// EnableDomainDataCache caches DomainData responses across signing
	// requests within an epoch.
	EnableDomainDataCache bool
	// SlasherProtection selects routing attestations through an external
	// slashing-protection service before and after signing. No code in
	// this module reads it; only the local slashing-protection database is
	// consulted.
	SlasherProtection bool
}

var (
	flags     = &Flags{}
	flagsLock sync.RWMutex
)

// Get returns the current process-wide flags.
func Get() *Flags {
	flagsLock.RLock()
	defer flagsLock.RUnlock()
	return flags
}

// Init overwrites the process-wide flags.
func Init(c *Flags) {
	flagsLock.Lock()
	defer flagsLock.Unlock()
	flags = c
}

// InitWithReset sets flags for the duration of a test and returns a
// closure that restores the previous value.
func InitWithReset(c *Flags) func() {
	flagsLock.Lock()
	previous := flags
	flags = c
	flagsLock.Unlock()
	return func() {
		Init(previous)
	}
}
