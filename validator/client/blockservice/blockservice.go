// Package blockservice implements the block service: a reactive consumer
// of proposer notifications from the duties service, producing and
// publishing one signed block per assigned proposer per slot over a
// bounded drop-oldest notification queue, honoring graffiti and builder
// boost-factor precedence.
package blockservice

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/ethvigil/vigil/shared/params"
	"github.com/ethvigil/vigil/validator/client/errs"
	"github.com/ethvigil/vigil/validator/client/iface"
	"github.com/ethvigil/vigil/validator/client/pool"
	"github.com/ethvigil/vigil/validator/client/types"
)

var log = logrus.WithField("prefix", "blockservice")

var (
	proposalSuccessVec = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "validator",
			Name:      "successful_proposals",
		},
		[]string{
			// validator pubkey
			"pubkey",
		},
	)
	proposalFailVec = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "validator",
			Name:      "failed_proposals",
		},
		[]string{
			// validator pubkey
			"pubkey",
		},
	)
)

// Notification is one duties-service message: the proposers assigned to
// slot.
type Notification struct {
	Slot      uint64
	Proposers []types.Duty
}

// queueCapacity bounds the notification channel; on overflow the oldest
// notification is dropped, since block production for a missed slot is
// intentionally skipped rather than delayed.
const queueCapacity = 4

// Service drives block production from duties-service notifications.
type Service struct {
	pool  *pool.Pool
	store iface.ValidatorStore
	clock func() uint64

	notifications chan Notification
	done          chan struct{}

	dropped uint64
}

// Config wires the collaborators the service needs. Clock returns the
// current slot, used to detect expired notifications.
type Config struct {
	Pool  *pool.Pool
	Store iface.ValidatorStore
	Clock func() uint64
}

// New builds a Service ready to Start.
func New(cfg *Config) *Service {
	return &Service{
		pool:          cfg.Pool,
		store:         cfg.Store,
		clock:         cfg.Clock,
		notifications: make(chan Notification, queueCapacity),
		done:          make(chan struct{}),
	}
}

// Notify enqueues a duties-service notification, dropping the oldest
// queued notification if the channel is full.
func (s *Service) Notify(n Notification) {
	select {
	case s.notifications <- n:
		return
	default:
	}
	select {
	case <-s.notifications:
		s.dropped++
		log.WithField("droppedTotal", s.dropped).Warn("Notification queue full, dropped oldest notification")
	default:
	}
	select {
	case s.notifications <- n:
	default:
	}
}

// Start runs the driver loop until ctx is canceled or Stop is called.
func (s *Service) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case n := <-s.notifications:
			go s.handleNotification(ctx, n)
		}
	}
}

// Stop terminates the driver loop.
func (s *Service) Stop() error {
	close(s.done)
	return nil
}

// Status reports the service as healthy.
func (s *Service) Status() error {
	return nil
}

func (s *Service) handleNotification(ctx context.Context, n Notification) {
	ctx, span := trace.StartSpan(ctx, "blockservice.handleNotification")
	defer span.End()

	current := s.clock()
	if n.Slot != current {
		log.WithFields(logrus.Fields{"notifiedSlot": n.Slot, "currentSlot": current}).Warn("Dropping expired block notification")
		return
	}
	if n.Slot == params.BeaconConfig().GenesisSlot {
		return
	}

	for _, proposer := range n.Proposers {
		proposer := proposer
		go s.proposeFor(ctx, n.Slot, proposer)
	}
}

func (s *Service) proposeFor(ctx context.Context, slot uint64, duty types.Duty) {
	boostFactor, hasBoostFactor := s.store.BuilderBoostFactorFor(duty.PublicKey)
	var boostFactorPtr *uint64
	if hasBoostFactor {
		boostFactorPtr = &boostFactor
	}

	randao, err := s.store.RandaoReveal(ctx, duty.PublicKey, slot/params.BeaconConfig().SlotsPerEpoch)
	if err != nil {
		proposalFailVec.WithLabelValues(string(duty.PublicKey[:])).Inc()
		log.WithError(err).WithField("pubkey", duty.PublicKey).Error("Could not produce randao reveal")
		return
	}

	graffiti, _ := s.store.GraffitiFor(duty.PublicKey)

	var unsigned types.UnsignedBlock
	err = s.pool.RequestProposersLast(ctx, pool.Blocks, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := endpointClient(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		b, err := bn.ValidatorBlock(ctx, slot, randao, graffiti, boostFactorPtr)
		if err != nil {
			return err
		}
		unsigned = b
		return nil
	})
	if err != nil {
		proposalFailVec.WithLabelValues(string(duty.PublicKey[:])).Inc()
		log.WithError(err).WithFields(logrus.Fields{"slot": slot, "pubkey": duty.PublicKey}).Warn("Could not fetch block template, skipping this slot")
		return
	}
	if unsigned.ProposerIndex != duty.ValidatorIndex {
		proposalFailVec.WithLabelValues(string(duty.PublicKey[:])).Inc()
		log.WithFields(logrus.Fields{"slot": slot, "pubkey": duty.PublicKey}).Warn("Block template proposer index does not match assigned duty, likely a re-org")
		return
	}

	signed, err := s.store.SignBlock(ctx, duty.PublicKey, unsigned, slot)
	if err != nil {
		proposalFailVec.WithLabelValues(string(duty.PublicKey[:])).Inc()
		if errs.As(err) == errs.UnknownPubkey {
			log.WithField("pubkey", duty.PublicKey).Warn("Unknown pubkey while signing block, validator may have been removed")
			return
		}
		log.WithError(err).WithFields(logrus.Fields{"slot": slot, "pubkey": duty.PublicKey}).Error("Could not sign block")
		return
	}

	err = s.pool.RequestProposersFirst(ctx, pool.Blocks, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := endpointClient(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		status, err := bn.ProposeBeaconBlock(ctx, signed)
		if err != nil {
			return err
		}
		switch status {
		case iface.PublishAccepted:
			log.WithFields(logrus.Fields{"slot": slot, "pubkey": duty.PublicKey}).Info("Block is already known or possibly invalid")
		case iface.PublishSuccess:
			log.WithFields(logrus.Fields{"slot": slot, "pubkey": duty.PublicKey}).Debug("Published block")
		default:
			return errs.Newf(errs.Irrecoverable, "beacon node rejected published block for slot %d", slot)
		}
		return nil
	})
	if err != nil {
		proposalFailVec.WithLabelValues(string(duty.PublicKey[:])).Inc()
		log.WithError(err).WithFields(logrus.Fields{"slot": slot, "pubkey": duty.PublicKey}).Error("Could not publish block")
		return
	}
	proposalSuccessVec.WithLabelValues(string(duty.PublicKey[:])).Inc()
}

func endpointClient(ep *pool.Endpoint) (iface.BeaconNodeClient, bool) {
	bn, ok := ep.Client.(iface.BeaconNodeClient)
	return bn, ok
}
