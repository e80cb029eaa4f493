// Package attestation implements the attestation service: on each slot it
// sleeps to one-third of the way through, fetches attestation data once
// per committee, fans out signing across every duty in that committee,
// and publishes; then, if any duty is an aggregator, it repeats the
// pattern at two-thirds of the slot for the aggregated phase. It also
// performs the post-Electra SingleAttestation conversion when the slot's
// epoch is at or past the configured Electra fork epoch.
package attestation

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/ethvigil/vigil/shared/params"
	"github.com/ethvigil/vigil/shared/slotutil"
	"github.com/ethvigil/vigil/validator/client/errs"
	"github.com/ethvigil/vigil/validator/client/iface"
	"github.com/ethvigil/vigil/validator/client/pool"
	"github.com/ethvigil/vigil/validator/client/types"
)

var log = logrus.WithField("prefix", "attestation")

var (
	attestationSuccessVec = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "validator",
			Name:      "successful_attestations",
		},
		[]string{
			// validator pubkey
			"pubkey",
		},
	)
	attestationFailVec = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "validator",
			Name:      "failed_attestations",
		},
		[]string{
			// validator pubkey
			"pubkey",
		},
	)
	aggregationSuccessVec = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "validator",
			Name:      "successful_aggregations",
		},
		[]string{
			// validator pubkey
			"pubkey",
		},
	)
	aggregationFailVec = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "validator",
			Name:      "failed_aggregations",
		},
		[]string{
			// validator pubkey
			"pubkey",
		},
	)
)

// Service drives the per-slot two-phase attestation protocol.
type Service struct {
	pool   *pool.Pool
	store  iface.ValidatorStore
	duties iface.DutiesProvider

	done chan struct{}
}

// Config wires the collaborators the service needs.
type Config struct {
	Pool   *pool.Pool
	Store  iface.ValidatorStore
	Duties iface.DutiesProvider
}

// New builds a Service ready to Start.
func New(cfg *Config) *Service {
	return &Service{
		pool:   cfg.Pool,
		store:  cfg.Store,
		duties: cfg.Duties,
		done:   make(chan struct{}),
	}
}

// Start launches the driver loop against slots emitted by ticker,
// returning once ctx is canceled.
func (s *Service) Start(ctx context.Context, genesisTime uint64) {
	ticker := slotutil.GetSlotTicker(time.Unix(int64(genesisTime), 0), params.BeaconConfig().SecondsPerSlot)
	defer ticker.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case slot := <-ticker.C():
			go s.processSlot(ctx, slot, genesisTime)
		}
	}
}

// Stop terminates the driver loop.
func (s *Service) Stop() error {
	close(s.done)
	return nil
}

// Status reports the service as healthy; it has no external failure
// state worth surfacing beyond per-slot logs.
func (s *Service) Status() error {
	return nil
}

func (s *Service) processSlot(ctx context.Context, slot uint64, genesisTime uint64) {
	ctx, span := trace.StartSpan(ctx, "attestation.processSlot")
	defer span.End()

	start := slotutil.StartTime(genesisTime, slot)
	oneThird := start.Add(slotutil.DivideSlotBy(3))
	slotutil.SleepUntil(ctx, oneThird)

	// Slashing-protection pruning is scheduled at two-thirds of the slot
	// so it never contends with signing.
	go func() {
		twoThirds := start.Add(slotutil.DivideSlotBy(3) * 2)
		slotutil.SleepUntil(ctx, twoThirds)
		if err := s.store.PruneSlashingProtectionDB(ctx, slot/params.BeaconConfig().SlotsPerEpoch, false); err != nil {
			log.WithError(err).Warn("Could not prune slashing protection database")
		}
	}()

	duties, err := s.duties.AttesterDuties(ctx, slot)
	if err != nil {
		log.WithError(err).WithField("slot", slot).Error("Could not fetch attester duties")
		return
	}
	if len(duties) == 0 {
		return
	}

	byCommittee := make(map[uint64][]types.Duty)
	for _, d := range duties {
		byCommittee[d.CommitteeIndex] = append(byCommittee[d.CommitteeIndex], d)
		s.store.RecordValidatorIndex(d.PublicKey, d.ValidatorIndex)
	}

	var wg sync.WaitGroup
	for committeeIndex, committeeDuties := range byCommittee {
		wg.Add(1)
		go func(committeeIndex uint64, duties []types.Duty) {
			defer wg.Done()
			s.runCommittee(ctx, slot, committeeIndex, duties, genesisTime)
		}(committeeIndex, committeeDuties)
	}
	wg.Wait()
}

func (s *Service) runCommittee(ctx context.Context, slot uint64, committeeIndex uint64, duties []types.Duty, genesisTime uint64) {
	currentEpoch := slot / params.BeaconConfig().SlotsPerEpoch

	var data types.AttestationData
	err := s.pool.FirstSuccess(ctx, pool.Attestations, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := endpointClient(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		d, err := bn.AttestationData(ctx, slot, committeeIndex)
		if err != nil {
			return err
		}
		data = d
		return nil
	})
	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{"slot": slot, "committeeIndex": committeeIndex}).Error("Could not fetch attestation data")
		return
	}

	signed := make([]signedAttestation, 0, len(duties))
	var mu sync.Mutex
	var wg sync.WaitGroup
	matchedAny := false
	for _, duty := range duties {
		if duty.AttesterSlot != slot {
			continue
		}
		wg.Add(1)
		go func(duty types.Duty) {
			defer wg.Done()
			if duty.CommitteeIndex != committeeIndex {
				log.WithFields(logrus.Fields{
					"pubkey":    duty.PublicKey,
					"committee": committeeIndex,
				}).Error("Duty committee does not match fetched attestation data, dropping")
				return
			}
			mu.Lock()
			matchedAny = true
			mu.Unlock()
			att, err := s.store.SignAttestation(ctx, duty.PublicKey, positionInCommittee(duty), data, currentEpoch)
			if err != nil {
				attestationFailVec.WithLabelValues(string(duty.PublicKey[:])).Inc()
				if errs.As(err) == errs.UnknownPubkey {
					log.WithField("pubkey", duty.PublicKey).Warn("Unknown pubkey while signing attestation, validator may have been removed")
					return
				}
				log.WithError(err).WithField("pubkey", duty.PublicKey).Error("Could not sign attestation")
				return
			}
			attestationSuccessVec.WithLabelValues(string(duty.PublicKey[:])).Inc()
			mu.Lock()
			signed = append(signed, signedAttestation{attestation: att, validatorIndex: duty.ValidatorIndex})
			mu.Unlock()
		}(duty)
	}
	wg.Wait()

	if !matchedAny {
		log.WithFields(logrus.Fields{"slot": slot, "committeeIndex": committeeIndex}).Error("Every duty failed the attestation data match check, publishing nothing")
		return
	}
	if len(signed) == 0 {
		return
	}

	s.publishUnaggregated(ctx, slot, signed)

	aggregators := aggregatingDuties(duties, slot)
	if len(aggregators) == 0 {
		return
	}
	s.runAggregatePhase(ctx, slot, committeeIndex, data, aggregators, genesisTime)
}

// signedAttestation pairs a signed attestation with the validator index
// of the duty it was signed for, needed for the post-Electra
// SingleAttestation conversion.
type signedAttestation struct {
	attestation    types.Attestation
	validatorIndex uint64
}

func (s *Service) publishUnaggregated(ctx context.Context, slot uint64, signed []signedAttestation) {
	postElectra := slot/params.BeaconConfig().SlotsPerEpoch >= params.BeaconConfig().ElectraForkEpoch
	err := s.pool.Broadcast(ctx, pool.Attestations, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := endpointClient(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		if postElectra {
			single := make([]types.SingleAttestation, len(signed))
			for i, sa := range signed {
				single[i] = toSingleAttestation(sa.attestation, sa.validatorIndex)
			}
			return bn.ProposeSingleAttestations(ctx, single, "electra")
		}
		atts := make([]types.Attestation, len(signed))
		for i, sa := range signed {
			atts[i] = sa.attestation
		}
		return bn.ProposeAttestations(ctx, atts)
	})
	if err != nil {
		log.WithError(err).WithField("slot", slot).Error("Could not publish attestations")
	}
}

func (s *Service) runAggregatePhase(ctx context.Context, slot uint64, committeeIndex uint64, data types.AttestationData, aggregators []types.Duty, genesisTime uint64) {
	start := slotutil.StartTime(genesisTime, slot)
	twoThirds := start.Add(slotutil.DivideSlotBy(3) * 2)
	slotutil.SleepUntil(ctx, twoThirds)

	var aggregate *types.Attestation
	err := s.pool.FirstSuccess(ctx, pool.Attestations, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := endpointClient(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		agg, err := bn.AggregateAttestation(ctx, slot, dataRoot(data), committeeIndex)
		if err != nil {
			return err
		}
		aggregate = agg
		return nil
	})
	if err != nil || aggregate == nil {
		// No aggregate available is a no-op, not an error.
		return
	}

	proofs := make([]types.SignedAggregateAndProof, 0, len(aggregators))
	for _, duty := range aggregators {
		selectionProof, err := s.store.ProduceSelectionProof(ctx, duty.PublicKey, slot)
		if err != nil {
			aggregationFailVec.WithLabelValues(string(duty.PublicKey[:])).Inc()
			log.WithError(err).WithField("pubkey", duty.PublicKey).Error("Could not produce selection proof")
			continue
		}
		proof, err := s.store.ProduceSignedAggregateAndProof(ctx, duty.PublicKey, *aggregate, selectionProof)
		if err != nil {
			aggregationFailVec.WithLabelValues(string(duty.PublicKey[:])).Inc()
			if errs.As(err) == errs.UnknownPubkey {
				log.WithField("pubkey", duty.PublicKey).Warn("Unknown pubkey while producing aggregate and proof")
				continue
			}
			log.WithError(err).WithField("pubkey", duty.PublicKey).Error("Could not produce signed aggregate and proof")
			continue
		}
		aggregationSuccessVec.WithLabelValues(string(duty.PublicKey[:])).Inc()
		proofs = append(proofs, proof)
	}
	if len(proofs) == 0 {
		return
	}

	postElectra := slot/params.BeaconConfig().SlotsPerEpoch >= params.BeaconConfig().ElectraForkEpoch
	forkName := ""
	if postElectra {
		forkName = "electra"
	}
	err = s.pool.FirstSuccess(ctx, pool.Attestations, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := endpointClient(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		return bn.SubmitSignedAggregateAndProof(ctx, proofs, forkName)
	})
	if err != nil {
		log.WithError(err).WithField("slot", slot).Error("Could not publish signed aggregate and proof")
	}
}

func aggregatingDuties(duties []types.Duty, slot uint64) []types.Duty {
	out := make([]types.Duty, 0, len(duties))
	for _, d := range duties {
		if d.AttesterSlot == slot && d.IsAggregator {
			out = append(out, d)
		}
	}
	return out
}

func positionInCommittee(d types.Duty) uint64 {
	return d.CommitteePosition
}

func toSingleAttestation(att types.Attestation, validatorIndex uint64) types.SingleAttestation {
	return types.SingleAttestation{
		CommitteeID:   att.Data.CommitteeIndex,
		AttesterIndex: validatorIndex,
		Data:          att.Data,
		Signature:     att.Signature,
	}
}

func dataRoot(data types.AttestationData) [32]byte {
	// Tree-hashing is out of scope; callers that need a real root
	// compute it via an external SSZ implementation before this point.
	return [32]byte{}
}

// endpointClient adapts a pool.Endpoint's gRPC connection into a
// BeaconNodeClient. Wiring the generated gRPC stub over ep.Conn is left
// to the concrete node construction, which stores the client alongside
// the connection; this hook point keeps the endpoint type itself free of
// a dependency on the generated client code.
func endpointClient(ep *pool.Endpoint) (iface.BeaconNodeClient, bool) {
	bn, ok := ep.Client.(iface.BeaconNodeClient)
	return bn, ok
}
