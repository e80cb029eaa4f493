// Package iface defines the boundaries the scheduling core calls across:
// the capability interface the signing store exposes, and the thin duties
// and beacon-node client surfaces the pool and duties provider implement.
// These are plain interfaces rather than generic traits, so every
// concrete implementation lives behind one dependency edge without type
// parameters leaking into callers.
package iface

import (
	"context"

	"github.com/ethvigil/vigil/validator/client/types"
)

// DoppelgangerFilter selects which voting pubkeys a caller is interested
// in, by their doppelganger-protection status.
type DoppelgangerFilter int

const (
	// OnlySafe returns pubkeys whose doppelganger check has cleared.
	OnlySafe DoppelgangerFilter = iota
	// Ignored returns every pubkey regardless of doppelganger status.
	Ignored
	// OnlyUnsafe returns pubkeys still under doppelganger observation.
	OnlyUnsafe
)

// DoppelgangerStatus is the three-valued tag a pubkey carries while
// doppelganger protection is active.
type DoppelgangerStatus int

const (
	// SigningEnabled means the pubkey has cleared doppelganger detection.
	SigningEnabled DoppelgangerStatus = iota
	// SigningDisabled means detection is still in progress.
	SigningDisabled
	// UnknownToDoppelganger means the pubkey was never registered with
	// the doppelganger service and is permanently disabled.
	UnknownToDoppelganger
)

// ValidatorStore is the capability interface the scheduling core signs
// through. Every signing method consults doppelganger gating before
// touching a key. Only SignAttestation and SignBlock also consult the
// slashing-protection database; the other signing methods keep no
// slashing-protection record.
type ValidatorStore interface {
	ValidatorIndex(pubKey [48]byte) (uint64, bool)
	// RecordValidatorIndex records pubKey's validator index as observed
	// from a duty, the only source of real indices this module's scope
	// provides.
	RecordValidatorIndex(pubKey [48]byte, validatorIndex uint64)
	VotingPubKeys(filter DoppelgangerFilter) [][48]byte
	DoppelgangerAllowsSigning(pubKey [48]byte) bool

	SignAttestation(ctx context.Context, pubKey [48]byte, committeePos uint64, data types.AttestationData, currentEpoch uint64) (types.Attestation, error)
	SignBlock(ctx context.Context, pubKey [48]byte, block types.UnsignedBlock, currentSlot uint64) (types.SignedBlock, error)
	SignVoluntaryExit(ctx context.Context, pubKey [48]byte, epoch uint64) ([96]byte, error)
	SignValidatorRegistration(ctx context.Context, pubKey [48]byte, feeRecipient [20]byte, gasLimit uint64) ([96]byte, error)
	ProduceSignedAggregateAndProof(ctx context.Context, pubKey [48]byte, aggregate types.Attestation, selectionProof [96]byte) (types.SignedAggregateAndProof, error)
	ProduceSelectionProof(ctx context.Context, pubKey [48]byte, slot uint64) ([96]byte, error)

	// ProduceSyncSelectionProof, ProduceSyncCommitteeSignature, and
	// ProduceSignedContributionAndProof round out the Validator Store
	// contract's sync-committee surface; no scheduler in this module's
	// scope drives them, since sync committees have no in-scope service.
	ProduceSyncSelectionProof(ctx context.Context, pubKey [48]byte, slot uint64, subnetID uint64) (types.SyncSelectionProof, error)
	ProduceSyncCommitteeSignature(ctx context.Context, pubKey [48]byte, slot uint64, beaconBlockRoot [32]byte) (types.SyncCommitteeMessage, error)
	ProduceSignedContributionAndProof(ctx context.Context, pubKey [48]byte, contribution types.SyncCommitteeContribution, selectionProof types.SyncSelectionProof) (types.SignedContributionAndProof, error)

	RandaoReveal(ctx context.Context, pubKey [48]byte, epoch uint64) ([96]byte, error)
	PruneSlashingProtectionDB(ctx context.Context, epoch uint64, firstRun bool) error

	// GraffitiFor returns a per-validator graffiti override, if configured.
	GraffitiFor(pubKey [48]byte) (string, bool)
	// BuilderBoostFactorFor returns a per-validator builder boost factor
	// override, if configured.
	BuilderBoostFactorFor(pubKey [48]byte) (uint64, bool)
}

// DutiesProvider is the external duties source that supplies each
// validator's schedule for a slot.
type DutiesProvider interface {
	// AttesterDuties returns, for slot s, the attesting duties grouped
	// implicitly by committee (callers group by CommitteeIndex).
	AttesterDuties(ctx context.Context, slot uint64) ([]types.Duty, error)
}

// BeaconNodeClient is the subset of beacon-node operations the
// attestation and block services call through the endpoint pool. Each
// method corresponds to one of the named HTTP contracts; the pool
// supplies the concrete transport (gRPC in this implementation).
type BeaconNodeClient interface {
	AttestationData(ctx context.Context, slot uint64, committeeIndex uint64) (types.AttestationData, error)
	ProposeAttestations(ctx context.Context, atts []types.Attestation) error
	ProposeSingleAttestations(ctx context.Context, atts []types.SingleAttestation, forkName string) error
	AggregateAttestation(ctx context.Context, slot uint64, dataRoot [32]byte, committeeIndex uint64) (*types.Attestation, error)
	SubmitSignedAggregateAndProof(ctx context.Context, proofs []types.SignedAggregateAndProof, forkName string) error
	ValidatorBlock(ctx context.Context, slot uint64, randao [96]byte, graffiti string, builderBoostFactor *uint64) (types.UnsignedBlock, error)
	ProposeBeaconBlock(ctx context.Context, block types.SignedBlock) (PublishStatus, error)
	DomainData(ctx context.Context, epoch uint64, domainType [4]byte) (types.DomainResponse, error)
}

// Signer abstracts over key custody: given a public key and a 32-byte
// signing root, it returns a BLS signature. Key management itself
// (keystores, remote signers, HD derivation) is not this module's
// concern; Signer is the one narrow seam the scheduling core needs.
type Signer interface {
	Sign(pubKey [48]byte, signingRoot [32]byte) ([96]byte, error)
	PublicKeys() [][48]byte
}

// PublishStatus captures the block-publish response classification
// assigned to HTTP status codes: 202 is a soft success, any other 2xx
// a hard success, anything else a failure.
type PublishStatus int

const (
	// PublishSuccess is any non-202 2xx response.
	PublishSuccess PublishStatus = iota
	// PublishAccepted is a 202 response: the block is already known or
	// was rejected as invalid by this node, but may still be valid on
	// the network.
	PublishAccepted
	// PublishFailed is any other response.
	PublishFailed
)
