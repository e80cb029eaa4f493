// Package types holds the plain data shapes passed between the scheduling
// core, the endpoint pool, and the signing store. None of these carry wire
// encoding of their own; the pool's transport layer is responsible for
// translating to and from whatever the connected beacon node speaks.
package types

// Checkpoint references a beacon block at the boundary of an epoch.
type Checkpoint struct {
	Epoch uint64
	Root  [32]byte
}

// AttestationData is the payload a validator signs off on during the
// unaggregated phase of a slot.
type AttestationData struct {
	Slot            uint64
	CommitteeIndex  uint64
	BeaconBlockRoot [32]byte
	Source          Checkpoint
	Target          Checkpoint
}

// Attestation bundles signed AttestationData with its committee
// participation bitfield, the pre-Electra wire shape.
type Attestation struct {
	AggregationBits []byte
	Data            AttestationData
	Signature       [96]byte
}

// SingleAttestation is the post-Electra replacement for Attestation: it
// drops the aggregation bitfield in favor of a single committee index and
// the attester's validator index, letting the beacon node perform
// aggregation instead of the validator client.
type SingleAttestation struct {
	CommitteeID    uint64
	AttesterIndex  uint64
	Data           AttestationData
	Signature      [96]byte
}

// AggregateAndProof is the unsigned payload a validator selected as
// aggregator produces at two-thirds of a slot.
type AggregateAndProof struct {
	AggregatorIndex uint64
	Aggregate       Attestation
	SelectionProof  [96]byte
}

// SignedAggregateAndProof wraps AggregateAndProof with the aggregator's
// signature over it.
type SignedAggregateAndProof struct {
	Message   AggregateAndProof
	Signature [96]byte
}

// Duty describes a single validator's scheduled work for an epoch: which
// slot it attests in, which committee it belongs to, and whether it has
// been selected to propose a block at some slot in the epoch.
type Duty struct {
	PublicKey         [48]byte
	ValidatorIndex    uint64
	CommitteeIndex    uint64
	CommitteeID       uint64
	CommitteePosition uint64
	AttesterSlot      uint64
	ProposerSlots     []uint64
	IsAggregator      bool
}

// BlockKind distinguishes a full execution payload from a blinded one
// built by an external block builder.
type BlockKind int

const (
	// FullBlock carries its own execution payload.
	FullBlock BlockKind = iota
	// BlindedBlock carries only an execution payload header; the
	// corresponding full payload is revealed by the builder after the
	// validator's signature is broadcast.
	BlindedBlock
)

// UnsignedBlock is a beacon block body returned by a beacon node for a
// proposer to sign, tagged with which of the two wire shapes it is.
type UnsignedBlock struct {
	Kind          BlockKind
	Slot          uint64
	ProposerIndex uint64
	Graffiti      [32]byte
	Body          interface{}
}

// SignedBlock wraps an UnsignedBlock's body with the proposer's signature.
type SignedBlock struct {
	Kind      BlockKind
	Slot      uint64
	Body      interface{}
	Signature [96]byte
}

// DomainResponse is the fork-scoped signing domain a beacon node computes
// for a given domain type and epoch, used to derive signing roots.
type DomainResponse struct {
	SignatureDomain [32]byte
}

// SyncSelectionProof is the signed payload a validator produces to prove
// its eligibility to aggregate a sync subcommittee, analogous to
// AggregateAndProof's selection proof for attestations.
type SyncSelectionProof struct {
	Slot      uint64
	SubnetID  uint64
	Signature [96]byte
}

// SyncCommitteeMessage is a validator's signed vote for the head block
// root during its sync committee assignment.
type SyncCommitteeMessage struct {
	Slot            uint64
	BeaconBlockRoot [32]byte
	ValidatorIndex  uint64
	Signature       [96]byte
}

// SyncCommitteeContribution aggregates sync committee messages for one
// subcommittee during one slot, the sync-committee analogue of
// Attestation.
type SyncCommitteeContribution struct {
	Slot              uint64
	BeaconBlockRoot   [32]byte
	SubcommitteeIndex uint64
	AggregationBits   []byte
}

// ContributionAndProof pairs a SyncCommitteeContribution with the
// aggregator's selection proof.
type ContributionAndProof struct {
	AggregatorIndex uint64
	Contribution    SyncCommitteeContribution
	SelectionProof  SyncSelectionProof
}

// SignedContributionAndProof wraps ContributionAndProof with the
// aggregator's signature over it.
type SignedContributionAndProof struct {
	Message   ContributionAndProof
	Signature [96]byte
}
