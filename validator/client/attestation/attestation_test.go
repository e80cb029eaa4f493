package attestation

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/ethvigil/vigil/validator/client/errs"
	"github.com/ethvigil/vigil/validator/client/iface"
	"github.com/ethvigil/vigil/validator/client/iface/mock"
	"github.com/ethvigil/vigil/validator/client/pool"
	"github.com/ethvigil/vigil/validator/client/types"
)

func newMockPool(t *testing.T, client iface.BeaconNodeClient) *pool.Pool {
	p, err := pool.Dial(context.Background(), []pool.Config{{Address: "127.0.0.1:0"}}, func(*grpc.ClientConn) interface{} {
		return client
	})
	require.NoError(t, err)
	return p
}

func TestAggregatingDuties_FiltersBySlotAndAggregatorFlag(t *testing.T) {
	duties := []types.Duty{
		{PublicKey: [48]byte{1}, AttesterSlot: 10, IsAggregator: true},
		{PublicKey: [48]byte{2}, AttesterSlot: 10, IsAggregator: false},
		{PublicKey: [48]byte{3}, AttesterSlot: 11, IsAggregator: true},
	}
	got := aggregatingDuties(duties, 10)
	require.Len(t, got, 1)
	require.Equal(t, [48]byte{1}, got[0].PublicKey)
}

func TestRunCommittee_DropsDutyOnCommitteeMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	bn := mock.NewMockBeaconNodeClient(ctrl)
	store := mock.NewMockValidatorStore(ctrl)

	bn.EXPECT().AttestationData(gomock.Any(), uint64(5), uint64(2)).
		Return(types.AttestationData{Slot: 5, CommitteeIndex: 2}, nil)
	// SignAttestation must never be called: the sole duty's committee
	// index does not match the committee this call was fanned out for.

	s := New(&Config{Pool: newMockPool(t, bn), Store: store})
	duties := []types.Duty{{PublicKey: [48]byte{1}, AttesterSlot: 5, CommitteeIndex: 3}}
	s.runCommittee(context.Background(), 5, 2, duties, 0)
}

func TestRunCommittee_PublishesUnaggregatedOnMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	bn := mock.NewMockBeaconNodeClient(ctrl)
	store := mock.NewMockValidatorStore(ctrl)

	data := types.AttestationData{Slot: 5, CommitteeIndex: 2}
	bn.EXPECT().AttestationData(gomock.Any(), uint64(5), uint64(2)).Return(data, nil)
	store.EXPECT().SignAttestation(gomock.Any(), [48]byte{1}, gomock.Any(), data, uint64(0)).
		Return(types.Attestation{Data: data}, nil)
	bn.EXPECT().ProposeAttestations(gomock.Any(), gomock.Any()).Return(nil)

	s := New(&Config{Pool: newMockPool(t, bn), Store: store})
	duties := []types.Duty{{PublicKey: [48]byte{1}, AttesterSlot: 5, CommitteeIndex: 2}}
	s.runCommittee(context.Background(), 5, 2, duties, 0)
}

func TestRunCommittee_UnknownPubkeyDoesNotAbortOtherDuties(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	bn := mock.NewMockBeaconNodeClient(ctrl)
	store := mock.NewMockValidatorStore(ctrl)

	data := types.AttestationData{Slot: 5, CommitteeIndex: 0}
	bn.EXPECT().AttestationData(gomock.Any(), uint64(5), uint64(0)).Return(data, nil)
	store.EXPECT().SignAttestation(gomock.Any(), [48]byte{1}, gomock.Any(), data, uint64(0)).
		Return(types.Attestation{}, errs.Wrap(errs.UnknownPubkey, context.DeadlineExceeded))
	store.EXPECT().SignAttestation(gomock.Any(), [48]byte{2}, gomock.Any(), data, uint64(0)).
		Return(types.Attestation{Data: data}, nil)
	bn.EXPECT().ProposeAttestations(gomock.Any(), gomock.Any()).Return(nil)

	s := New(&Config{Pool: newMockPool(t, bn), Store: store})
	duties := []types.Duty{
		{PublicKey: [48]byte{1}, AttesterSlot: 5, CommitteeIndex: 0},
		{PublicKey: [48]byte{2}, AttesterSlot: 5, CommitteeIndex: 0},
	}
	s.runCommittee(context.Background(), 5, 0, duties, 0)
}

func TestPositionInCommittee(t *testing.T) {
	require.Equal(t, uint64(3), positionInCommittee(types.Duty{CommitteePosition: 3}))
}

func TestToSingleAttestation(t *testing.T) {
	att := types.Attestation{Data: types.AttestationData{CommitteeIndex: 4}, Signature: [96]byte{1}}
	single := toSingleAttestation(att, 7)
	require.Equal(t, uint64(4), single.CommitteeID)
	require.Equal(t, uint64(7), single.AttesterIndex)
	require.Equal(t, att.Signature, single.Signature)
}
