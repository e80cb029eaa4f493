// Package store implements the validator store capability interface: the
// only component in the scheduling core allowed to touch a signing key,
// gated on doppelganger status before every signature and, for
// attestations and blocks, on slashing protection as well. It owns the domain-data cache, attestation protection, and
// proposal protection call sites behind the iface.ValidatorStore
// contract.
package store

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/dgraph-io/ristretto"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/ethvigil/vigil/shared/bytesutil"
	"github.com/ethvigil/vigil/shared/featureconfig"
	"github.com/ethvigil/vigil/shared/hashutil"
	"github.com/ethvigil/vigil/shared/params"
	"github.com/ethvigil/vigil/validator/client/errs"
	"github.com/ethvigil/vigil/validator/client/iface"
	"github.com/ethvigil/vigil/validator/client/types"
	validatordb "github.com/ethvigil/vigil/validator/db"
)

var log = logrus.WithField("prefix", "store")

// Doppelganger tracks the three-valued doppelganger status per pubkey.
// The real detection algorithm (querying a beacon node's duplicate
// validator index over a rolling window) lives outside this module's
// scope; Store only consults and gates on whatever status is recorded
// here.
type Doppelganger struct {
	mu       sync.RWMutex
	statuses map[[48]byte]iface.DoppelgangerStatus
}

// NewDoppelganger starts every tracked pubkey in SigningDisabled, the
// conservative default until detection clears them.
func NewDoppelganger(pubKeys [][48]byte) *Doppelganger {
	d := &Doppelganger{statuses: make(map[[48]byte]iface.DoppelgangerStatus, len(pubKeys))}
	for _, pk := range pubKeys {
		d.statuses[pk] = iface.SigningDisabled
	}
	return d
}

// SetStatus records a new doppelganger status for pubKey.
func (d *Doppelganger) SetStatus(pubKey [48]byte, status iface.DoppelgangerStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statuses[pubKey] = status
}

func (d *Doppelganger) status(pubKey [48]byte) iface.DoppelgangerStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	status, ok := d.statuses[pubKey]
	if !ok {
		return iface.UnknownToDoppelganger
	}
	return status
}

// Store is the concrete iface.ValidatorStore implementation.
type Store struct {
	db         *validatordb.Store
	signer     iface.Signer
	beaconNode iface.BeaconNodeClient
	doppel     *Doppelganger

	graffitiFile       map[[48]byte]string
	perValidatorGraffiti map[[48]byte]string
	defaultGraffiti    string

	perValidatorBoostFactor map[[48]byte]uint64
	defaultBoostFactor      *uint64

	domainDataCache                *ristretto.Cache
	aggregatedSlotCommitteeIDCache *lru.Cache

	indexLock sync.RWMutex
	index     map[[48]byte]uint64
}

// Config wires the collaborators Store needs; every field besides DB and
// Signer is optional and falls back to empty/default behaviour.
type Config struct {
	DB                *validatordb.Store
	Signer            iface.Signer
	BeaconNode        iface.BeaconNodeClient
	Doppelganger            *Doppelganger
	Index                   map[[48]byte]uint64
	DefaultGraffiti         string
	GraffitiFile            map[[48]byte]string
	PerValidatorGraffiti    map[[48]byte]string
	DefaultBoostFactor      *uint64
	PerValidatorBoostFactor map[[48]byte]uint64
}

// New builds a Store from cfg, initializing the domain-data and
// aggregator-selection caches sized for a single epoch's worth of
// validator traffic.
func New(cfg *Config) (*Store, error) {
	domainCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not initialize domain data cache")
	}
	committeeCache, err := lru.New(128)
	if err != nil {
		return nil, errors.Wrap(err, "could not initialize aggregator selection cache")
	}
	doppel := cfg.Doppelganger
	if doppel == nil {
		doppel = NewDoppelganger(nil)
	}
	return &Store{
		db:                      cfg.DB,
		signer:                  cfg.Signer,
		beaconNode:              cfg.BeaconNode,
		doppel:                  doppel,
		graffitiFile:            cfg.GraffitiFile,
		perValidatorGraffiti:    cfg.PerValidatorGraffiti,
		defaultGraffiti:         cfg.DefaultGraffiti,
		defaultBoostFactor:      cfg.DefaultBoostFactor,
		perValidatorBoostFactor: cfg.PerValidatorBoostFactor,
		domainDataCache:         domainCache,
		aggregatedSlotCommitteeIDCache: committeeCache,
		index:                   cfg.Index,
	}, nil
}

// ValidatorIndex resolves a validator's beacon-chain index, if known.
func (s *Store) ValidatorIndex(pubKey [48]byte) (uint64, bool) {
	s.indexLock.RLock()
	defer s.indexLock.RUnlock()
	idx, ok := s.index[pubKey]
	return idx, ok
}

// RecordValidatorIndex records pubKey's validator index, as observed
// from an attester or proposer duty.
func (s *Store) RecordValidatorIndex(pubKey [48]byte, validatorIndex uint64) {
	s.indexLock.Lock()
	defer s.indexLock.Unlock()
	if s.index == nil {
		s.index = make(map[[48]byte]uint64)
	}
	s.index[pubKey] = validatorIndex
}

// VotingPubKeys returns the pubkeys this store can sign for, filtered by
// doppelganger status.
func (s *Store) VotingPubKeys(filter iface.DoppelgangerFilter) [][48]byte {
	all := s.signer.PublicKeys()
	if filter == iface.Ignored {
		return all
	}
	out := make([][48]byte, 0, len(all))
	for _, pk := range all {
		status := s.doppel.status(pk)
		switch filter {
		case iface.OnlySafe:
			if status == iface.SigningEnabled {
				out = append(out, pk)
			}
		case iface.OnlyUnsafe:
			if status == iface.SigningDisabled {
				out = append(out, pk)
			}
		}
	}
	return out
}

// DoppelgangerAllowsSigning is consulted before any signing call.
func (s *Store) DoppelgangerAllowsSigning(pubKey [48]byte) bool {
	return s.doppel.status(pubKey) == iface.SigningEnabled
}

// GraffitiFor resolves graffiti by precedence: graffiti-file entry,
// then per-validator store graffiti, then the process-wide default,
// then empty.
func (s *Store) GraffitiFor(pubKey [48]byte) (string, bool) {
	if g, ok := s.graffitiFile[pubKey]; ok {
		return g, true
	}
	if g, ok := s.perValidatorGraffiti[pubKey]; ok {
		return g, true
	}
	if s.defaultGraffiti != "" {
		return s.defaultGraffiti, true
	}
	return "", false
}

// BuilderBoostFactorFor resolves the builder boost factor by per-validator
// config first, then the process-wide default. The literal value 100 is
// rewritten to "unset" (nil) since it is the no-op factor and forwarding
// it risks downstream rounding loss.
func (s *Store) BuilderBoostFactorFor(pubKey [48]byte) (uint64, bool) {
	if v, ok := s.perValidatorBoostFactor[pubKey]; ok {
		if v == 100 {
			return 0, false
		}
		return v, true
	}
	if s.defaultBoostFactor != nil {
		if *s.defaultBoostFactor == 100 {
			return 0, false
		}
		return *s.defaultBoostFactor, true
	}
	return 0, false
}

func domainCacheKey(epoch uint64, domainType [4]byte) uint64 {
	var buf [12]byte
	binary.BigEndian.PutUint64(buf[:8], epoch)
	copy(buf[8:], domainType[:])
	digest := hashutil.Hash(buf[:])
	return binary.BigEndian.Uint64(digest[:8])
}

// domainData fetches the signing domain for (epoch, domainType), caching
// the result since it is invariant within an epoch.
func (s *Store) domainData(ctx context.Context, epoch uint64, domainType [4]byte) (types.DomainResponse, error) {
	cacheEnabled := featureconfig.Get().EnableDomainDataCache
	if cacheEnabled {
		key := domainCacheKey(epoch, domainType)
		if cached, ok := s.domainDataCache.Get(key); ok {
			return cached.(types.DomainResponse), nil
		}
	}
	resp, err := s.beaconNode.DomainData(ctx, epoch, domainType)
	if err != nil {
		return types.DomainResponse{}, errs.Wrap(errs.Recoverable, err)
	}
	if cacheEnabled {
		s.domainDataCache.Set(domainCacheKey(epoch, domainType), resp, 1)
	}
	return resp, nil
}

func signingRootFor(domain types.DomainResponse, data interface{}) [32]byte {
	// Tree-hashing (SSZ signing roots) is out of scope for this module;
	// the production signer is expected to compute it from domain and
	// data itself. This placeholder keeps the call shape without
	// pulling in an SSZ implementation.
	_ = data
	return domain.SignatureDomain
}

// SignAttestation consults slashing protection and doppelganger gating
// before signing, mutating the returned attestation's signature.
func (s *Store) SignAttestation(ctx context.Context, pubKey [48]byte, committeePos uint64, data types.AttestationData, currentEpoch uint64) (types.Attestation, error) {
	ctx, span := trace.StartSpan(ctx, "store.SignAttestation")
	defer span.End()

	if data.Target.Epoch > currentEpoch {
		return types.Attestation{}, errs.Newf(errs.GreaterThanCurrentEpoch, "attestation target epoch %d is ahead of current epoch %d", data.Target.Epoch, currentEpoch)
	}
	if !s.DoppelgangerAllowsSigning(pubKey) {
		return types.Attestation{}, errs.Newf(errs.DoppelgangerProtected, "pubkey %#x is still under doppelganger observation", pubKey)
	}

	domain, err := s.domainData(ctx, data.Target.Epoch, params.BeaconConfig().DomainBeaconAttester)
	if err != nil {
		return types.Attestation{}, err
	}
	signingRoot := signingRootFor(domain, data)

	kind, err := s.db.CheckSlashableAttestation(ctx, pubKey, signingRoot, data)
	if err != nil {
		return types.Attestation{}, errs.Newf(errs.Slashable, "%v (%v)", err, kind)
	}

	sig, err := s.signer.Sign(pubKey, signingRoot)
	if err != nil {
		return types.Attestation{}, errs.Wrap(errs.UnknownPubkey, err)
	}

	if err := s.db.ApplyAttestationForPubKey(ctx, pubKey, signingRoot, data); err != nil {
		return types.Attestation{}, errs.Wrap(errs.Recoverable, err)
	}

	bits := bitfield.NewBitlist(committeePos + 1)
	bits.SetBitAt(committeePos, true)

	return types.Attestation{
		AggregationBits: bits,
		Data:            data,
		Signature:       sig,
	}, nil
}

// SignBlock consults slashing protection before signing a proposal,
// failing GreaterThanCurrentSlot for a block slot ahead of currentSlot.
func (s *Store) SignBlock(ctx context.Context, pubKey [48]byte, block types.UnsignedBlock, currentSlot uint64) (types.SignedBlock, error) {
	ctx, span := trace.StartSpan(ctx, "store.SignBlock")
	defer span.End()

	if block.Slot > currentSlot {
		return types.SignedBlock{}, errs.Newf(errs.GreaterThanCurrentSlot, "block slot %d is ahead of current slot %d", block.Slot, currentSlot)
	}
	if !s.DoppelgangerAllowsSigning(pubKey) {
		return types.SignedBlock{}, errs.Newf(errs.DoppelgangerProtected, "pubkey %#x is still under doppelganger observation", pubKey)
	}

	epoch := block.Slot / params.BeaconConfig().SlotsPerEpoch
	domain, err := s.domainData(ctx, epoch, params.BeaconConfig().DomainBeaconProposer)
	if err != nil {
		return types.SignedBlock{}, err
	}
	signingRoot := signingRootFor(domain, block)

	lowest, exists, err := s.db.LowestSignedProposal(ctx, pubKey)
	if err != nil {
		return types.SignedBlock{}, errs.Wrap(errs.Recoverable, err)
	}
	if exists && block.Slot < lowest {
		return types.SignedBlock{}, errs.Newf(errs.Slashable, "block slot %d is below lowest signed proposal slot %d", block.Slot, lowest)
	}
	prior, err := s.db.ProposalHistoryForPubKey(ctx, pubKey)
	if err != nil {
		return types.SignedBlock{}, errs.Wrap(errs.Recoverable, err)
	}
	for _, p := range prior {
		if p.Slot == block.Slot {
			return types.SignedBlock{}, errs.Newf(errs.Slashable, "already signed a block at slot %d", block.Slot)
		}
	}

	sig, err := s.signer.Sign(pubKey, signingRoot)
	if err != nil {
		return types.SignedBlock{}, errs.Wrap(errs.UnknownPubkey, err)
	}

	if err := s.db.SaveProposalHistoryForSlot(ctx, pubKey, block.Slot, signingRoot[:]); err != nil {
		return types.SignedBlock{}, errs.Wrap(errs.Irrecoverable, err)
	}

	return types.SignedBlock{Kind: block.Kind, Slot: block.Slot, Body: block.Body, Signature: sig}, nil
}

// RandaoReveal is unslashable: doppelganger-gated only.
func (s *Store) RandaoReveal(ctx context.Context, pubKey [48]byte, epoch uint64) ([96]byte, error) {
	if !s.DoppelgangerAllowsSigning(pubKey) {
		return [96]byte{}, errs.Newf(errs.DoppelgangerProtected, "pubkey %#x is still under doppelganger observation", pubKey)
	}
	domain, err := s.domainData(ctx, epoch, params.BeaconConfig().DomainRandao)
	if err != nil {
		return [96]byte{}, err
	}
	signingRoot := signingRootFor(domain, epoch)
	sig, err := s.signer.Sign(pubKey, signingRoot)
	if err != nil {
		return [96]byte{}, errs.Wrap(errs.UnknownPubkey, err)
	}
	return sig, nil
}

// ProduceSelectionProof signs the aggregator selection proof for slot.
func (s *Store) ProduceSelectionProof(ctx context.Context, pubKey [48]byte, slot uint64) ([96]byte, error) {
	if !s.DoppelgangerAllowsSigning(pubKey) {
		return [96]byte{}, errs.Newf(errs.DoppelgangerProtected, "pubkey %#x is still under doppelganger observation", pubKey)
	}
	epoch := slot / params.BeaconConfig().SlotsPerEpoch
	domain, err := s.domainData(ctx, epoch, params.BeaconConfig().DomainSelectionProof)
	if err != nil {
		return [96]byte{}, err
	}
	signingRoot := signingRootFor(domain, slot)
	sig, err := s.signer.Sign(pubKey, signingRoot)
	if err != nil {
		return [96]byte{}, errs.Wrap(errs.UnknownPubkey, err)
	}
	return sig, nil
}

// ProduceSyncSelectionProof signs the sync-subcommittee selection proof
// for slot/subnetID. No scheduler in this module drives sync committees;
// this rounds out the Validator Store contract for a caller that adds one.
func (s *Store) ProduceSyncSelectionProof(ctx context.Context, pubKey [48]byte, slot uint64, subnetID uint64) (types.SyncSelectionProof, error) {
	if !s.DoppelgangerAllowsSigning(pubKey) {
		return types.SyncSelectionProof{}, errs.Newf(errs.DoppelgangerProtected, "pubkey %#x is still under doppelganger observation", pubKey)
	}
	epoch := slot / params.BeaconConfig().SlotsPerEpoch
	domain, err := s.domainData(ctx, epoch, params.BeaconConfig().DomainSyncCommitteeSelectionProof)
	if err != nil {
		return types.SyncSelectionProof{}, err
	}
	signingRoot := signingRootFor(domain, slot)
	sig, err := s.signer.Sign(pubKey, signingRoot)
	if err != nil {
		return types.SyncSelectionProof{}, errs.Wrap(errs.UnknownPubkey, err)
	}
	return types.SyncSelectionProof{Slot: slot, SubnetID: subnetID, Signature: sig}, nil
}

// ProduceSyncCommitteeSignature signs a sync committee vote for
// beaconBlockRoot at slot.
func (s *Store) ProduceSyncCommitteeSignature(ctx context.Context, pubKey [48]byte, slot uint64, beaconBlockRoot [32]byte) (types.SyncCommitteeMessage, error) {
	if !s.DoppelgangerAllowsSigning(pubKey) {
		return types.SyncCommitteeMessage{}, errs.Newf(errs.DoppelgangerProtected, "pubkey %#x is still under doppelganger observation", pubKey)
	}
	epoch := slot / params.BeaconConfig().SlotsPerEpoch
	domain, err := s.domainData(ctx, epoch, params.BeaconConfig().DomainSyncCommittee)
	if err != nil {
		return types.SyncCommitteeMessage{}, err
	}
	signingRoot := signingRootFor(domain, beaconBlockRoot)
	sig, err := s.signer.Sign(pubKey, signingRoot)
	if err != nil {
		return types.SyncCommitteeMessage{}, errs.Wrap(errs.UnknownPubkey, err)
	}
	idx, _ := s.ValidatorIndex(pubKey)
	return types.SyncCommitteeMessage{Slot: slot, BeaconBlockRoot: beaconBlockRoot, ValidatorIndex: idx, Signature: sig}, nil
}

// ProduceSignedContributionAndProof signs a sync-committee
// contribution-and-proof, mirroring ProduceSignedAggregateAndProof's
// attestation-side shape.
func (s *Store) ProduceSignedContributionAndProof(ctx context.Context, pubKey [48]byte, contribution types.SyncCommitteeContribution, selectionProof types.SyncSelectionProof) (types.SignedContributionAndProof, error) {
	if !s.DoppelgangerAllowsSigning(pubKey) {
		return types.SignedContributionAndProof{}, errs.Newf(errs.DoppelgangerProtected, "pubkey %#x is still under doppelganger observation", pubKey)
	}
	idx, _ := s.ValidatorIndex(pubKey)
	epoch := contribution.Slot / params.BeaconConfig().SlotsPerEpoch
	domain, err := s.domainData(ctx, epoch, params.BeaconConfig().DomainContributionAndProof)
	if err != nil {
		return types.SignedContributionAndProof{}, err
	}
	msg := types.ContributionAndProof{AggregatorIndex: idx, Contribution: contribution, SelectionProof: selectionProof}
	signingRoot := signingRootFor(domain, msg)
	sig, err := s.signer.Sign(pubKey, signingRoot)
	if err != nil {
		return types.SignedContributionAndProof{}, errs.Wrap(errs.UnknownPubkey, err)
	}
	return types.SignedContributionAndProof{Message: msg, Signature: sig}, nil
}

// ProduceSignedAggregateAndProof signs an aggregate-and-proof, deduping
// on (slot, committee) via the aggregator-selection cache so a validator
// never signs the same aggregate twice.
func (s *Store) ProduceSignedAggregateAndProof(ctx context.Context, pubKey [48]byte, aggregate types.Attestation, selectionProof [96]byte) (types.SignedAggregateAndProof, error) {
	if !s.DoppelgangerAllowsSigning(pubKey) {
		return types.SignedAggregateAndProof{}, errs.Newf(errs.DoppelgangerProtected, "pubkey %#x is still under doppelganger observation", pubKey)
	}
	idx, _ := s.ValidatorIndex(pubKey)
	dedupeKey := subscribeKey(aggregate.Data.Slot, aggregate.Data.CommitteeIndex, pubKey)
	if _, ok := s.aggregatedSlotCommitteeIDCache.Get(dedupeKey); ok {
		return types.SignedAggregateAndProof{}, errs.Newf(errs.SameData, "already produced an aggregate for slot %d committee %d", aggregate.Data.Slot, aggregate.Data.CommitteeIndex)
	}

	epoch := aggregate.Data.Slot / params.BeaconConfig().SlotsPerEpoch
	domain, err := s.domainData(ctx, epoch, params.BeaconConfig().DomainAggregateAndProof)
	if err != nil {
		return types.SignedAggregateAndProof{}, err
	}
	msg := types.AggregateAndProof{AggregatorIndex: idx, Aggregate: aggregate, SelectionProof: selectionProof}
	signingRoot := signingRootFor(domain, msg)
	sig, err := s.signer.Sign(pubKey, signingRoot)
	if err != nil {
		return types.SignedAggregateAndProof{}, errs.Wrap(errs.UnknownPubkey, err)
	}
	s.aggregatedSlotCommitteeIDCache.Add(dedupeKey, true)
	return types.SignedAggregateAndProof{Message: msg, Signature: sig}, nil
}

// SignVoluntaryExit signs a voluntary exit for pubKey at epoch.
func (s *Store) SignVoluntaryExit(ctx context.Context, pubKey [48]byte, epoch uint64) ([96]byte, error) {
	if !s.DoppelgangerAllowsSigning(pubKey) {
		return [96]byte{}, errs.Newf(errs.DoppelgangerProtected, "pubkey %#x is still under doppelganger observation", pubKey)
	}
	domain, err := s.domainData(ctx, epoch, params.BeaconConfig().DomainBeaconProposer)
	if err != nil {
		return [96]byte{}, err
	}
	signingRoot := signingRootFor(domain, epoch)
	sig, err := s.signer.Sign(pubKey, signingRoot)
	if err != nil {
		return [96]byte{}, errs.Wrap(errs.UnknownPubkey, err)
	}
	return sig, nil
}

// SignValidatorRegistration signs a builder-API validator registration.
func (s *Store) SignValidatorRegistration(ctx context.Context, pubKey [48]byte, feeRecipient [20]byte, gasLimit uint64) ([96]byte, error) {
	if !s.DoppelgangerAllowsSigning(pubKey) {
		return [96]byte{}, errs.Newf(errs.DoppelgangerProtected, "pubkey %#x is still under doppelganger observation", pubKey)
	}
	signingRoot := signingRootFor(types.DomainResponse{}, struct {
		FeeRecipient [20]byte
		GasLimit     uint64
	}{feeRecipient, gasLimit})
	sig, err := s.signer.Sign(pubKey, signingRoot)
	if err != nil {
		return [96]byte{}, errs.Wrap(errs.UnknownPubkey, err)
	}
	return sig, nil
}

// PruneSlashingProtectionDB delegates to the slashing database's
// internally rate-limited pruning routine, so the attestation service
// can invoke it every slot for free.
func (s *Store) PruneSlashingProtectionDB(ctx context.Context, epoch uint64, firstRun bool) error {
	return s.db.PruneSlashingProtection(ctx, firstRun)
}

func subscribeKey(slot uint64, committeeIndex uint64, pubKey [48]byte) string {
	return string(bytesutil.Uint64ToBytesBigEndian(slot)) + string(bytesutil.Uint64ToBytesBigEndian(committeeIndex)) + string(pubKey[:])
}
