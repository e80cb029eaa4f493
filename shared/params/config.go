// Package params defines chain configuration constants the validator
// scheduling core needs: slot/epoch arithmetic, signature domains, and the
// Electra fork boundary that gates the attestation wire-format switch.
package params

import (
	"os"
	"sync"
	"time"
)

// BeaconChainConfig holds the subset of consensus-layer constants the
// validator client's scheduling core depends on.
type BeaconChainConfig struct {
	SecondsPerSlot                uint64 // SecondsPerSlot is the number of seconds in a single slot.
	SlotsPerEpoch                 uint64 // SlotsPerEpoch is the number of slots in a single epoch.
	TargetAggregatorsPerCommittee uint64 // TargetAggregatorsPerCommittee is the number of aggregators per committee the selection-proof modulo targets.
	WeakSubjectivityPeriod        uint64 // WeakSubjectivityPeriod bounds how far back slashing-protection history is retained.
	FarFutureEpoch                uint64 // FarFutureEpoch is the sentinel epoch meaning "never".
	GenesisSlot                   uint64 // GenesisSlot is the first slot of the chain.
	ElectraForkEpoch               uint64 // ElectraForkEpoch is the epoch at which the Electra fork activates.

	DomainRandao           [4]byte
	DomainBeaconAttester   [4]byte
	DomainBeaconProposer   [4]byte
	DomainSelectionProof   [4]byte
	DomainAggregateAndProof [4]byte
	DomainSyncCommittee               [4]byte
	DomainSyncCommitteeSelectionProof [4]byte
	DomainContributionAndProof        [4]byte
}

var beaconConfig = MainnetConfig()
var beaconConfigLock sync.RWMutex

// MainnetConfig returns a copy of the mainnet configuration. Values mirror
// the public eth2 mainnet parameters relevant to validator scheduling.
func MainnetConfig() *BeaconChainConfig {
	return &BeaconChainConfig{
		SecondsPerSlot:                 12,
		SlotsPerEpoch:                  32,
		TargetAggregatorsPerCommittee:  16,
		WeakSubjectivityPeriod:         54000,
		FarFutureEpoch:                 1<<64 - 1,
		GenesisSlot:                    0,
		ElectraForkEpoch:               364032,
		DomainRandao:                   [4]byte{0x02, 0x00, 0x00, 0x00},
		DomainBeaconAttester:           [4]byte{0x01, 0x00, 0x00, 0x00},
		DomainBeaconProposer:           [4]byte{0x00, 0x00, 0x00, 0x00},
		DomainSelectionProof:           [4]byte{0x05, 0x00, 0x00, 0x00},
		DomainAggregateAndProof:        [4]byte{0x06, 0x00, 0x00, 0x00},
		DomainSyncCommittee:               [4]byte{0x07, 0x00, 0x00, 0x00},
		DomainSyncCommitteeSelectionProof: [4]byte{0x08, 0x00, 0x00, 0x00},
		DomainContributionAndProof:        [4]byte{0x09, 0x00, 0x00, 0x00},
	}
}

// Copy returns a deep (enough, for this flat struct) copy of the config.
func (b *BeaconChainConfig) Copy() *BeaconChainConfig {
	copied := *b
	return &copied
}

// BeaconConfig retrieves the process-wide beacon chain config.
func BeaconConfig() *BeaconChainConfig {
	beaconConfigLock.RLock()
	defer beaconConfigLock.RUnlock()
	return beaconConfig
}

// OverrideBeaconConfig overrides the process-wide beacon chain config,
// a global-with-override pattern so tests can swap in
// minimal configs without touching call sites.
func OverrideBeaconConfig(cfg *BeaconChainConfig) {
	beaconConfigLock.Lock()
	defer beaconConfigLock.Unlock()
	beaconConfig = cfg
}

// IoConfig holds filesystem parameters for on-disk stores, kept separate
// from BeaconChainConfig since it governs the local process rather than
// consensus rules.
type IoConfig struct {
	ReadWritePermissions os.FileMode
	BoltTimeout          time.Duration
}

var ioConfig = &IoConfig{
	ReadWritePermissions: 0600,
	BoltTimeout:          1 * time.Minute,
}
var ioConfigLock sync.RWMutex

// BeaconIoConfig retrieves the process-wide filesystem config.
func BeaconIoConfig() *IoConfig {
	ioConfigLock.RLock()
	defer ioConfigLock.RUnlock()
	return ioConfig
}

// OverrideBeaconIoConfig overrides the process-wide filesystem config.
func OverrideBeaconIoConfig(cfg *IoConfig) {
	ioConfigLock.Lock()
	defer ioConfigLock.Unlock()
	ioConfig = cfg
}
