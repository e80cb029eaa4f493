package blockservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/ethvigil/vigil/shared/params"
	"github.com/ethvigil/vigil/validator/client/iface"
	"github.com/ethvigil/vigil/validator/client/iface/mock"
	"github.com/ethvigil/vigil/validator/client/pool"
	"github.com/ethvigil/vigil/validator/client/types"
)

func TestNotify_DropsOldestWhenQueueFull(t *testing.T) {
	s := New(&Config{Clock: func() uint64 { return 0 }})
	for i := uint64(0); i < queueCapacity+2; i++ {
		s.Notify(Notification{Slot: i})
	}
	require.Equal(t, uint64(2), s.dropped)
}

func TestNotify_RetainsNewestUnderPressure(t *testing.T) {
	s := New(&Config{Clock: func() uint64 { return 0 }})
	for i := uint64(0); i < queueCapacity; i++ {
		s.Notify(Notification{Slot: i})
	}
	s.Notify(Notification{Slot: 100})
	found := false
	for i := 0; i < queueCapacity; i++ {
		n := <-s.notifications
		if n.Slot == 100 {
			found = true
		}
	}
	require.True(t, found, "expected the newest notification to survive the drop-oldest overflow")
}

func newMockPool(t *testing.T, client iface.BeaconNodeClient) *pool.Pool {
	p, err := pool.Dial(context.Background(), []pool.Config{{Address: "127.0.0.1:0"}}, func(*grpc.ClientConn) interface{} {
		return client
	})
	require.NoError(t, err)
	return p
}

func TestHandleNotification_DropsExpiredSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	bn := mock.NewMockBeaconNodeClient(ctrl)
	store := mock.NewMockValidatorStore(ctrl)
	// No calls expected: the notification is for slot 4 while current is 5.
	s := New(&Config{
		Pool:  newMockPool(t, bn),
		Store: store,
		Clock: func() uint64 { return 5 },
	})
	s.handleNotification(context.Background(), Notification{Slot: 4, Proposers: []types.Duty{{PublicKey: [48]byte{1}}}})
}

func TestHandleNotification_SkipsGenesisSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	bn := mock.NewMockBeaconNodeClient(ctrl)
	store := mock.NewMockValidatorStore(ctrl)
	s := New(&Config{
		Pool:  newMockPool(t, bn),
		Store: store,
		Clock: func() uint64 { return params.BeaconConfig().GenesisSlot },
	})
	s.handleNotification(context.Background(), Notification{Slot: params.BeaconConfig().GenesisSlot, Proposers: []types.Duty{{PublicKey: [48]byte{1}}}})
}

func TestProposeFor_SkipsPublishOnProposerIndexMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	bn := mock.NewMockBeaconNodeClient(ctrl)
	store := mock.NewMockValidatorStore(ctrl)

	duty := types.Duty{PublicKey: [48]byte{9}, ValidatorIndex: 7}
	store.EXPECT().BuilderBoostFactorFor(duty.PublicKey).Return(uint64(0), false)
	store.EXPECT().RandaoReveal(gomock.Any(), duty.PublicKey, gomock.Any()).Return([96]byte{}, nil)
	store.EXPECT().GraffitiFor(duty.PublicKey).Return("", false)
	bn.EXPECT().ValidatorBlock(gomock.Any(), uint64(10), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(types.UnsignedBlock{Slot: 10, ProposerIndex: 99}, nil)
	// SignBlock/ProposeBeaconBlock must never be called: the proposer index
	// on the returned template does not match the assigned duty.

	s := New(&Config{Pool: newMockPool(t, bn), Store: store, Clock: func() uint64 { return 10 }})
	s.proposeFor(context.Background(), 10, duty)
}

func TestProposeFor_PublishesSignedBlockOnMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	bn := mock.NewMockBeaconNodeClient(ctrl)
	store := mock.NewMockValidatorStore(ctrl)

	duty := types.Duty{PublicKey: [48]byte{9}, ValidatorIndex: 7}
	store.EXPECT().BuilderBoostFactorFor(duty.PublicKey).Return(uint64(0), false)
	store.EXPECT().RandaoReveal(gomock.Any(), duty.PublicKey, gomock.Any()).Return([96]byte{}, nil)
	store.EXPECT().GraffitiFor(duty.PublicKey).Return("validator says hi", true)
	bn.EXPECT().ValidatorBlock(gomock.Any(), uint64(10), gomock.Any(), "validator says hi", gomock.Any()).
		Return(types.UnsignedBlock{Slot: 10, ProposerIndex: duty.ValidatorIndex}, nil)
	store.EXPECT().SignBlock(gomock.Any(), duty.PublicKey, gomock.Any(), uint64(10)).
		Return(types.SignedBlock{Slot: 10}, nil)
	bn.EXPECT().ProposeBeaconBlock(gomock.Any(), gomock.Any()).Return(iface.PublishSuccess, nil)

	s := New(&Config{Pool: newMockPool(t, bn), Store: store, Clock: func() uint64 { return 10 }})
	s.proposeFor(context.Background(), 10, duty)
}

func TestStartStop_TerminatesOnStop(t *testing.T) {
	s := New(&Config{Clock: func() uint64 { return 0 }})
	go s.Start(context.Background())
	done := make(chan struct{})
	go func() {
		require.NoError(t, s.Stop())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not complete")
	}
	require.NoError(t, s.Status())
}
