package pool

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ethvigil/vigil/validator/client/errs"
)

func newTestEndpoint(addr string, topics ...Topic) *Endpoint {
	if len(topics) == 0 {
		topics = []Topic{Attestations, Blocks}
	}
	return newEndpoint(addr, nil, topics)
}

func TestFirstSuccess_ReturnsOnFirstWorkingEndpoint(t *testing.T) {
	a := newTestEndpoint("a")
	b := newTestEndpoint("b")
	var tried []string
	err := FirstSuccess(context.Background(), []*Endpoint{a, b}, Attestations, func(_ context.Context, ep *Endpoint) error {
		tried = append(tried, ep.Address)
		if ep.Address == "a" {
			return errors.New("a is down")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, tried)
	require.False(t, a.available())
}

func TestFirstSuccess_EveryEndpointFailsReturnsComposite(t *testing.T) {
	a := newTestEndpoint("a")
	b := newTestEndpoint("b")
	err := FirstSuccess(context.Background(), []*Endpoint{a, b}, Attestations, func(_ context.Context, ep *Endpoint) error {
		return errors.New("down: " + ep.Address)
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "down: a")
	require.Contains(t, err.Error(), "down: b")
}

func TestFirstSuccess_SkipsEndpointsNotSubscribedToTopic(t *testing.T) {
	a := newTestEndpoint("a", Blocks)
	called := false
	err := FirstSuccess(context.Background(), []*Endpoint{a}, Attestations, func(_ context.Context, ep *Endpoint) error {
		called = true
		return nil
	})
	require.False(t, called)
	require.Equal(t, errs.EndpointUnavailable, errs.As(err))
}

func TestBroadcast_SucceedsIfAnyEndpointSucceeds(t *testing.T) {
	a := newTestEndpoint("a")
	b := newTestEndpoint("b")
	err := Broadcast(context.Background(), []*Endpoint{a, b}, Blocks, func(_ context.Context, ep *Endpoint) error {
		if ep.Address == "a" {
			return errors.New("a is down")
		}
		return nil
	})
	require.NoError(t, err)
}

func TestBroadcast_FailsIfEveryEndpointFails(t *testing.T) {
	a := newTestEndpoint("a")
	err := Broadcast(context.Background(), []*Endpoint{a}, Blocks, func(_ context.Context, ep *Endpoint) error {
		return errors.New("down")
	})
	require.Error(t, err)
}

func TestEndpoint_MarkFailureBacksOffThenRecovers(t *testing.T) {
	e := newTestEndpoint("a")
	require.True(t, e.available())
	e.markFailure()
	require.False(t, e.available())
	e.markSuccess()
	require.True(t, e.available())
	require.Equal(t, backoffInitial, e.backoff)
}

func TestPool_RequestProposersFirst_FallsBackToGeneralWhenProposersFail(t *testing.T) {
	general := newTestEndpoint("general")
	proposer := newTestEndpoint("proposer")
	p := &Pool{general: []*Endpoint{general}, proposers: []*Endpoint{proposer}}
	var served []string
	err := p.RequestProposersFirst(context.Background(), Blocks, func(_ context.Context, ep *Endpoint) error {
		served = append(served, ep.Address)
		if ep.Address == "proposer" {
			return errors.New("proposer down")
		}
		return nil
	})
	require.NoError(t, err)
	require.Contains(t, served, "proposer")
	require.Contains(t, served, "general")
}

func TestPool_RequestProposersLast_PrefersGeneralFirstSuccess(t *testing.T) {
	general := newTestEndpoint("general")
	proposer := newTestEndpoint("proposer")
	p := &Pool{general: []*Endpoint{general}, proposers: []*Endpoint{proposer}}
	var served []string
	err := p.RequestProposersLast(context.Background(), Attestations, func(_ context.Context, ep *Endpoint) error {
		served = append(served, ep.Address)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"general"}, served)
}

func TestPool_RequestProposersLast_FallsBackToProposersWhenGeneralFails(t *testing.T) {
	general := newTestEndpoint("general")
	proposer := newTestEndpoint("proposer")
	p := &Pool{general: []*Endpoint{general}, proposers: []*Endpoint{proposer}}
	err := p.RequestProposersLast(context.Background(), Attestations, func(_ context.Context, ep *Endpoint) error {
		if ep.Address == "general" {
			return errors.New("general down")
		}
		return nil
	})
	require.NoError(t, err)
}

func TestDial_RequiresAtLeastOneGeneralEndpoint(t *testing.T) {
	_, err := Dial(context.Background(), []Config{{Address: "127.0.0.1:0", Proposer: true}}, nil)
	require.Error(t, err)
}
