// Package node wires the endpoint pool, slashing-protection database,
// validator store, and the attestation and block services into a single
// long-lived process, managed by the shared service registry. A plain
// Config struct drives construction; there is no CLI flag parsing.
package node

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"google.golang.org/grpc"

	"github.com/ethvigil/vigil/shared"
	"github.com/ethvigil/vigil/shared/logutil"
	"github.com/ethvigil/vigil/shared/prometheus"
	"github.com/ethvigil/vigil/validator/client/attestation"
	"github.com/ethvigil/vigil/validator/client/blockservice"
	"github.com/ethvigil/vigil/validator/client/iface"
	"github.com/ethvigil/vigil/validator/client/pool"
	"github.com/ethvigil/vigil/validator/client/store"
	"github.com/ethvigil/vigil/validator/client/types"
	validatordb "github.com/ethvigil/vigil/validator/db"
)

var log = logrus.WithField("prefix", "node")

// Config assembles every endpoint and key-custody dependency the
// validator client needs. CLI flag parsing and key management are out
// of this module's scope; callers construct Config from whatever
// configuration surface they use.
type Config struct {
	DataDir                   string
	MonitoringPort            int64
	GenesisTime               uint64
	Endpoints                 []pool.Config
	NewBeaconClient           func(conn *grpc.ClientConn) interface{}
	Signer                    iface.Signer
	Duties                    iface.DutiesProvider
	CurrentSlot               func() uint64
	DefaultGraffiti           string
	GraffitiFile              map[[48]byte]string
	DefaultBuilderBoostFactor *uint64
	// Index seeds the validator store's pubkey-to-validator-index table
	// with indices already known at construction time; indices observed
	// later arrive through attester duties as they're served.
	Index map[[48]byte]uint64
	// Doppelganger, if non-nil, is consulted by the validator store
	// instead of a freshly constructed one. Leave nil to have every
	// signing key start under doppelganger observation.
	Doppelganger *store.Doppelganger
	// LogFileName, if non-empty, mirrors stdout logging to this file
	// in addition to the console.
	LogFileName string
}

// ValidatorClient owns the process lifecycle: every long-running service
// registered with it starts and stops together.
type ValidatorClient struct {
	services *shared.ServiceRegistry
	db       *validatordb.Store
	endpoints *pool.Pool
	lock     sync.RWMutex
	stop     chan struct{}
}

// New constructs a validator client from cfg, opening the slashing
// protection database, dialing the endpoint pool, and registering the
// prometheus, attestation, and block services.
func New(ctx context.Context, cfg *Config) (*ValidatorClient, error) {
	if cfg.LogFileName != "" {
		if err := logutil.ConfigurePersistentLogging(cfg.LogFileName); err != nil {
			return nil, errors.Wrap(err, "could not configure persistent logging")
		}
	}

	registry := shared.NewServiceRegistry()
	vc := &ValidatorClient{
		services: registry,
		stop:     make(chan struct{}),
	}

	pubKeys := cfg.Signer.PublicKeys()
	db, err := validatordb.NewKVStore(ctx, cfg.DataDir, pubKeys)
	if err != nil {
		return nil, errors.Wrap(err, "could not open slashing protection database")
	}
	vc.db = db

	if err := vc.registerPrometheusService(cfg.MonitoringPort); err != nil {
		return nil, err
	}

	endpoints, err := pool.Dial(ctx, cfg.Endpoints, cfg.NewBeaconClient)
	if err != nil {
		return nil, errors.Wrap(err, "could not dial endpoint pool")
	}
	vc.endpoints = endpoints

	doppel := cfg.Doppelganger
	if doppel == nil {
		doppel = store.NewDoppelganger(pubKeys)
	}

	signingStore, err := store.New(&store.Config{
		DB:                 db,
		Signer:             cfg.Signer,
		BeaconNode:         &poolBeaconNodeClient{pool: endpoints},
		Doppelganger:       doppel,
		Index:              cfg.Index,
		DefaultGraffiti:    cfg.DefaultGraffiti,
		GraffitiFile:       cfg.GraffitiFile,
		DefaultBoostFactor: cfg.DefaultBuilderBoostFactor,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not initialize validator store")
	}

	attSvc := attestation.New(&attestation.Config{
		Pool:   endpoints,
		Store:  signingStore,
		Duties: cfg.Duties,
	})
	if err := registry.RegisterService(&attestationServiceAdapter{attSvc, cfg, ctx}); err != nil {
		return nil, err
	}

	blockSvc := blockservice.New(&blockservice.Config{
		Pool:  endpoints,
		Store: signingStore,
		Clock: cfg.CurrentSlot,
	})
	if err := registry.RegisterService(&blockServiceAdapter{blockSvc, ctx}); err != nil {
		return nil, err
	}

	return vc, nil
}

// attestationServiceAdapter satisfies shared.Service for attestation.Service,
// whose Start signature takes (ctx, genesisTime) rather than the bare no-arg
// Start the registry calls.
type attestationServiceAdapter struct {
	*attestation.Service
	cfg *Config
	ctx context.Context
}

func (a *attestationServiceAdapter) Start() {
	go a.Service.Start(a.ctx, a.cfg.GenesisTime)
}

// poolBeaconNodeClient adapts the endpoint pool into a single
// iface.BeaconNodeClient, giving the validator store the same
// first-success/proposer-preference fallback behavior the attestation
// and block services get, rather than pinning it to one endpoint.
type poolBeaconNodeClient struct {
	pool *pool.Pool
}

func (c *poolBeaconNodeClient) client(ep *pool.Endpoint) (iface.BeaconNodeClient, bool) {
	bn, ok := ep.Client.(iface.BeaconNodeClient)
	return bn, ok
}

func (c *poolBeaconNodeClient) AttestationData(ctx context.Context, slot uint64, committeeIndex uint64) (types.AttestationData, error) {
	var out types.AttestationData
	err := c.pool.FirstSuccess(ctx, pool.Attestations, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := c.client(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		data, err := bn.AttestationData(ctx, slot, committeeIndex)
		if err != nil {
			return err
		}
		out = data
		return nil
	})
	return out, err
}

func (c *poolBeaconNodeClient) ProposeAttestations(ctx context.Context, atts []types.Attestation) error {
	return c.pool.Broadcast(ctx, pool.Attestations, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := c.client(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		return bn.ProposeAttestations(ctx, atts)
	})
}

func (c *poolBeaconNodeClient) ProposeSingleAttestations(ctx context.Context, atts []types.SingleAttestation, forkName string) error {
	return c.pool.Broadcast(ctx, pool.Attestations, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := c.client(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		return bn.ProposeSingleAttestations(ctx, atts, forkName)
	})
}

func (c *poolBeaconNodeClient) AggregateAttestation(ctx context.Context, slot uint64, dataRoot [32]byte, committeeIndex uint64) (*types.Attestation, error) {
	var out *types.Attestation
	err := c.pool.FirstSuccess(ctx, pool.Attestations, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := c.client(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		agg, err := bn.AggregateAttestation(ctx, slot, dataRoot, committeeIndex)
		if err != nil {
			return err
		}
		out = agg
		return nil
	})
	return out, err
}

func (c *poolBeaconNodeClient) SubmitSignedAggregateAndProof(ctx context.Context, proofs []types.SignedAggregateAndProof, forkName string) error {
	return c.pool.FirstSuccess(ctx, pool.Attestations, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := c.client(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		return bn.SubmitSignedAggregateAndProof(ctx, proofs, forkName)
	})
}

func (c *poolBeaconNodeClient) ValidatorBlock(ctx context.Context, slot uint64, randao [96]byte, graffiti string, builderBoostFactor *uint64) (types.UnsignedBlock, error) {
	var out types.UnsignedBlock
	err := c.pool.RequestProposersLast(ctx, pool.Blocks, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := c.client(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		b, err := bn.ValidatorBlock(ctx, slot, randao, graffiti, builderBoostFactor)
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}

func (c *poolBeaconNodeClient) ProposeBeaconBlock(ctx context.Context, block types.SignedBlock) (iface.PublishStatus, error) {
	var out iface.PublishStatus
	err := c.pool.RequestProposersFirst(ctx, pool.Blocks, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := c.client(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		status, err := bn.ProposeBeaconBlock(ctx, block)
		if err != nil {
			return err
		}
		out = status
		return nil
	})
	return out, err
}

func (c *poolBeaconNodeClient) DomainData(ctx context.Context, epoch uint64, domainType [4]byte) (types.DomainResponse, error) {
	var out types.DomainResponse
	err := c.pool.FirstSuccess(ctx, pool.Attestations, func(ctx context.Context, ep *pool.Endpoint) error {
		bn, ok := c.client(ep)
		if !ok {
			return errors.New("endpoint does not expose a beacon node client")
		}
		resp, err := bn.DomainData(ctx, epoch, domainType)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	return out, err
}

type blockServiceAdapter struct {
	*blockservice.Service
	ctx context.Context
}

func (b *blockServiceAdapter) Start() {
	go b.Service.Start(b.ctx)
}

// Start launches every registered service and blocks until the process
// receives an interrupt.
func (vc *ValidatorClient) Start() {
	vc.lock.Lock()
	log.Info("Starting validator node")
	vc.services.StartAll()
	stop := vc.stop
	vc.lock.Unlock()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		<-sigc
		log.Info("Got interrupt, shutting down...")
		go vc.Close()
		for i := 10; i > 0; i-- {
			<-sigc
			if i > 1 {
				log.WithField("times", i-1).Info("Already shutting down, interrupt more to panic")
			}
		}
		panic("panic closing the validator client")
	}()

	<-stop
}

// Close stops every registered service and closes the endpoint pool and
// slashing protection database.
func (vc *ValidatorClient) Close() {
	vc.lock.Lock()
	defer vc.lock.Unlock()

	vc.services.StopAll()
	if vc.endpoints != nil {
		if err := vc.endpoints.Close(); err != nil {
			log.WithError(err).Error("Could not close endpoint pool")
		}
	}
	if vc.db != nil {
		if err := vc.db.Close(); err != nil {
			log.WithError(err).Error("Could not close slashing protection database")
		}
	}
	log.Info("Stopping validator node")
	close(vc.stop)
}

func (vc *ValidatorClient) registerPrometheusService(port int64) error {
	service := prometheus.NewPrometheusService(
		fmt.Sprintf(":%d", port),
		vc.services,
	)
	return vc.services.RegisterService(service)
}
