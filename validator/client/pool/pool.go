// Package pool implements the endpoint fallback pool: two disjoint sets of
// beacon-node gRPC connections (general nodes and dedicated proposer
// nodes) with first-success and broadcast dispatch, bounded backoff on
// failing endpoints, and the two-tier proposer-preference routing the
// block service calls through. Attestation traffic goes to the general
// nodes only, through first-success and broadcast dispatch.
package pool

import (
	"context"
	"strings"
	"sync"
	"time"

	middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/plugin/ocgrpc"
	"go.opencensus.io/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/ethvigil/vigil/validator/client/errs"
)

var log = logrus.WithField("prefix", "pool")

// Topic names an endpoint subscription; endpoints are only dispatched to
// for topics they are configured to serve.
type Topic int

const (
	// Attestations covers attestation-data fetch and attestation/aggregate
	// publish calls.
	Attestations Topic = iota
	// Blocks covers block-template fetch and signed-block publish calls.
	Blocks
)

// status is an endpoint's liveness state.
type status int

const (
	online status = iota
	degraded
	offline
)

const (
	backoffInitial = 1 * time.Second
	backoffMax     = 30 * time.Second
)

// Endpoint wraps a single beacon-node gRPC connection with the liveness
// bookkeeping first_success/broadcast dispatch needs.
type Endpoint struct {
	Address string
	Conn    *grpc.ClientConn
	// Client holds the generated gRPC client stub constructed over Conn,
	// typed as interface{} so this package does not depend on the
	// beacon-node client interface it is built to satisfy; callers type
	// assert it to iface.BeaconNodeClient.
	Client interface{}
	topics map[Topic]bool

	mu         sync.Mutex
	state      status
	backoff    time.Duration
	retryAfter time.Time
	failStreak int
}

func newEndpoint(addr string, conn *grpc.ClientConn, topics []Topic) *Endpoint {
	set := make(map[Topic]bool, len(topics))
	for _, t := range topics {
		set[t] = true
	}
	return &Endpoint{Address: addr, Conn: conn, topics: set, state: online, backoff: backoffInitial}
}

func (e *Endpoint) subscribedTo(topic Topic) bool {
	return e.topics[topic]
}

func (e *Endpoint) available() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == online {
		return true
	}
	return time.Now().After(e.retryAfter)
}

func (e *Endpoint) markFailure() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = degraded
	e.failStreak++
	e.backoff *= 2
	if e.backoff > backoffMax {
		e.backoff = backoffMax
	}
	e.retryAfter = time.Now().Add(e.backoff)
}

func (e *Endpoint) markSuccess() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = online
	e.failStreak = 0
	e.backoff = backoffInitial
}

// Pool holds the general and dedicated proposer endpoint sets.
type Pool struct {
	general   []*Endpoint
	proposers []*Endpoint
}

// Config describes one endpoint to dial.
type Config struct {
	// Address is a gRPC target, e.g. "127.0.0.1:4000".
	Address string
	// Proposer marks the endpoint as a dedicated, DoS-hardened proposer
	// node rather than a general beacon node.
	Proposer bool
	// Topics this endpoint serves; defaults to both Attestations and
	// Blocks when empty.
	Topics []Topic
	// CertFile, if non-empty, dials with TLS using this certificate.
	CertFile string
}

// Dial establishes connections to every configured endpoint and returns
// the assembled pool. Failing to dial one endpoint does not fail the
// whole pool; that endpoint starts in the offline state instead.
// newClient builds the generated gRPC client stub over each connection;
// the pool package stays free of a dependency on that generated code by
// taking it as a constructor function.
func Dial(ctx context.Context, configs []Config, newClient func(*grpc.ClientConn) interface{}) (*Pool, error) {
	p := &Pool{}
	for _, cfg := range configs {
		topics := cfg.Topics
		if len(topics) == 0 {
			topics = []Topic{Attestations, Blocks}
		}
		conn, err := dialOne(ctx, cfg)
		ep := newEndpoint(cfg.Address, conn, topics)
		if err != nil {
			log.WithError(err).WithField("endpoint", cfg.Address).Error("Could not dial endpoint, marking offline")
			ep.state = offline
		} else if newClient != nil {
			ep.Client = newClient(conn)
		}
		if cfg.Proposer {
			p.proposers = append(p.proposers, ep)
		} else {
			p.general = append(p.general, ep)
		}
	}
	if len(p.general) == 0 {
		return nil, errors.New("endpoint pool requires at least one general beacon node")
	}
	return p, nil
}

func dialOne(ctx context.Context, cfg Config) (*grpc.ClientConn, error) {
	var dialOpt grpc.DialOption
	if cfg.CertFile != "" {
		creds, err := credentials.NewClientTLSFromFile(cfg.CertFile, "")
		if err != nil {
			return nil, errors.Wrap(err, "could not load TLS credentials")
		}
		dialOpt = grpc.WithTransportCredentials(creds)
	} else {
		dialOpt = grpc.WithInsecure()
	}
	opts := []grpc.DialOption{
		dialOpt,
		grpc.WithStatsHandler(&ocgrpc.ClientHandler{}),
		grpc.WithStreamInterceptor(middleware.ChainStreamClient(
			grpc_prometheus.StreamClientInterceptor,
		)),
		grpc.WithUnaryInterceptor(middleware.ChainUnaryClient(
			grpc_prometheus.UnaryClientInterceptor,
		)),
	}
	addr := strings.TrimSpace(cfg.Address)
	return grpc.DialContext(ctx, addr, opts...)
}

// Close tears down every endpoint connection.
func (p *Pool) Close() error {
	var firstErr error
	for _, ep := range append(append([]*Endpoint{}, p.general...), p.proposers...) {
		if ep.Conn == nil {
			continue
		}
		if err := ep.Conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// compositeError enumerates the failures observed across every endpoint
// tried for one dispatch, and reports the most severe classification
// among them.
type compositeError struct {
	failures []error
	kind     errs.Kind
}

func (c *compositeError) Error() string {
	msgs := make([]string, len(c.failures))
	for i, f := range c.failures {
		msgs[i] = f.Error()
	}
	return "every endpoint failed: " + strings.Join(msgs, "; ")
}

func (c *compositeError) add(err error) {
	c.failures = append(c.failures, err)
	if errs.As(err) == errs.Irrecoverable {
		c.kind = errs.Irrecoverable
	} else if c.kind != errs.Irrecoverable && c.kind != errs.Recoverable {
		c.kind = errs.Recoverable
	}
}

// FirstSuccess invokes f on endpoints subscribed to topic, in order,
// returning the first success. Every failing endpoint is marked
// degraded with bounded backoff before trying the next. Fails only when
// every endpoint fails, with a composite error enumerating them.
func FirstSuccess(ctx context.Context, endpoints []*Endpoint, topic Topic, f func(context.Context, *Endpoint) error) error {
	ctx, span := trace.StartSpan(ctx, "pool.FirstSuccess")
	defer span.End()

	composite := &compositeError{kind: errs.EndpointUnavailable}
	tried := 0
	for _, ep := range endpoints {
		if !ep.subscribedTo(topic) || !ep.available() {
			continue
		}
		tried++
		if err := f(ctx, ep); err != nil {
			ep.markFailure()
			composite.add(err)
			continue
		}
		ep.markSuccess()
		return nil
	}
	if tried == 0 {
		return errs.Wrap(errs.EndpointUnavailable, errors.New("no endpoint available for topic"))
	}
	return errs.Wrap(composite.kind, composite)
}

// Broadcast invokes f on every online endpoint subscribed to topic,
// concurrently. Succeeds if at least one endpoint succeeds.
func Broadcast(ctx context.Context, endpoints []*Endpoint, topic Topic, f func(context.Context, *Endpoint) error) error {
	ctx, span := trace.StartSpan(ctx, "pool.Broadcast")
	defer span.End()

	var wg sync.WaitGroup
	var mu sync.Mutex
	composite := &compositeError{kind: errs.EndpointUnavailable}
	succeeded := 0
	tried := 0
	for _, ep := range endpoints {
		if !ep.subscribedTo(topic) || !ep.available() {
			continue
		}
		tried++
		wg.Add(1)
		go func(ep *Endpoint) {
			defer wg.Done()
			if err := f(ctx, ep); err != nil {
				ep.markFailure()
				mu.Lock()
				composite.add(err)
				mu.Unlock()
				return
			}
			ep.markSuccess()
			mu.Lock()
			succeeded++
			mu.Unlock()
		}(ep)
	}
	wg.Wait()
	if tried == 0 {
		return errs.Wrap(errs.EndpointUnavailable, errors.New("no endpoint available for topic"))
	}
	if succeeded == 0 {
		return errs.Wrap(composite.kind, composite)
	}
	return nil
}

// Broadcast invokes f on every online general-pool endpoint subscribed
// to topic, concurrently. Attestation publishing uses this directly
// rather than the proposer-preference helpers, since proposer nodes are
// only privileged for block publishing.
func (p *Pool) Broadcast(ctx context.Context, topic Topic, f func(context.Context, *Endpoint) error) error {
	return Broadcast(ctx, p.general, topic, f)
}

// FirstSuccess invokes f against general-pool endpoints subscribed to
// topic until one succeeds. The attestation service uses this directly
// for attestation-data/aggregate fetches and aggregate-and-proof
// publishes, which never fall over onto dedicated proposer nodes.
func (p *Pool) FirstSuccess(ctx context.Context, topic Topic, f func(context.Context, *Endpoint) error) error {
	return FirstSuccess(ctx, p.general, topic, f)
}

// RequestProposersFirst tries broadcast on the proposer pool first; if
// that pool is empty or fails entirely, falls back to the general pool.
// Used for publishing, where proposer nodes are preferred.
func (p *Pool) RequestProposersFirst(ctx context.Context, topic Topic, f func(context.Context, *Endpoint) error) error {
	if len(p.proposers) > 0 {
		if err := Broadcast(ctx, p.proposers, topic, f); err == nil {
			return nil
		}
	}
	return Broadcast(ctx, p.general, topic, f)
}

// RequestProposersLast tries first-success on the general pool first; on
// failure falls back to the proposer pool. Used for fetching, where
// proposer nodes tend to have a poorer view of network attestations.
func (p *Pool) RequestProposersLast(ctx context.Context, topic Topic, f func(context.Context, *Endpoint) error) error {
	generalErr := FirstSuccess(ctx, p.general, topic, f)
	if generalErr == nil {
		return nil
	}
	if len(p.proposers) == 0 {
		return generalErr
	}
	return FirstSuccess(ctx, p.proposers, topic, f)
}
