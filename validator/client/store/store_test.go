package store

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/ethvigil/vigil/validator/client/errs"
	"github.com/ethvigil/vigil/validator/client/iface"
	"github.com/ethvigil/vigil/validator/client/iface/mock"
	"github.com/ethvigil/vigil/validator/client/types"
	validatordb "github.com/ethvigil/vigil/validator/db"
)

var testPubKey = [48]byte{1, 2, 3}

func setupStore(t *testing.T, ctrl *gomock.Controller) (*Store, *mock.MockSigner, *mock.MockBeaconNodeClient) {
	t.Helper()
	db, err := validatordb.NewKVStore(context.Background(), t.TempDir(), [][48]byte{testPubKey})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	signer := mock.NewMockSigner(ctrl)
	bn := mock.NewMockBeaconNodeClient(ctrl)
	s, err := New(&Config{DB: db, Signer: signer, BeaconNode: bn})
	require.NoError(t, err)
	s.doppel.SetStatus(testPubKey, iface.SigningEnabled)
	return s, signer, bn
}

func TestSignAttestation_SurroundingVoteIsSlashable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s, signer, bn := setupStore(t, ctrl)

	bn.EXPECT().DomainData(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(types.DomainResponse{SignatureDomain: [32]byte{7}}, nil).AnyTimes()
	signer.EXPECT().Sign(testPubKey, gomock.Any()).Return([96]byte{1}, nil).Times(1)

	data := types.AttestationData{Target: types.Checkpoint{Epoch: 5}, Source: types.Checkpoint{Epoch: 4}}
	_, err := s.SignAttestation(context.Background(), testPubKey, 0, data, 5)
	require.NoError(t, err)

	surrounding := types.AttestationData{Target: types.Checkpoint{Epoch: 6}, Source: types.Checkpoint{Epoch: 3}}
	_, err = s.SignAttestation(context.Background(), testPubKey, 0, surrounding, 6)
	require.Equal(t, errs.Slashable, errs.As(err))
}

func TestSignAttestation_RejectsEpochAheadOfCurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s, _, _ := setupStore(t, ctrl)

	data := types.AttestationData{Target: types.Checkpoint{Epoch: 10}}
	_, err := s.SignAttestation(context.Background(), testPubKey, 0, data, 5)
	require.Equal(t, errs.GreaterThanCurrentEpoch, errs.As(err))
}

func TestSignAttestation_DoppelgangerBlocksSigning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s, _, _ := setupStore(t, ctrl)
	s.doppel.SetStatus(testPubKey, iface.SigningDisabled)

	data := types.AttestationData{Target: types.Checkpoint{Epoch: 1}}
	_, err := s.SignAttestation(context.Background(), testPubKey, 0, data, 5)
	require.Equal(t, errs.DoppelgangerProtected, errs.As(err))
}

func TestSignBlock_RejectsSlotBelowLowestSignedProposal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s, signer, bn := setupStore(t, ctrl)

	bn.EXPECT().DomainData(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(types.DomainResponse{SignatureDomain: [32]byte{7}}, nil).AnyTimes()
	signer.EXPECT().Sign(testPubKey, gomock.Any()).Return([96]byte{1}, nil).Times(1)

	_, err := s.SignBlock(context.Background(), testPubKey, types.UnsignedBlock{Slot: 100}, 100)
	require.NoError(t, err)

	_, err = s.SignBlock(context.Background(), testPubKey, types.UnsignedBlock{Slot: 50}, 100)
	require.Equal(t, errs.Slashable, errs.As(err))
}

func TestSignBlock_RejectsSlotAheadOfCurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s, _, _ := setupStore(t, ctrl)

	_, err := s.SignBlock(context.Background(), testPubKey, types.UnsignedBlock{Slot: 200}, 100)
	require.Equal(t, errs.GreaterThanCurrentSlot, errs.As(err))
}

func TestGraffitiFor_PrecedenceOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	db, err := validatordb.NewKVStore(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	defer db.Close()

	s, err := New(&Config{
		DB:                   db,
		Signer:               mock.NewMockSigner(ctrl),
		DefaultGraffiti:      "default",
		GraffitiFile:         map[[48]byte]string{testPubKey: "from-file"},
		PerValidatorGraffiti: map[[48]byte]string{testPubKey: "from-store"},
	})
	require.NoError(t, err)
	g, ok := s.GraffitiFor(testPubKey)
	require.True(t, ok)
	require.Equal(t, "from-file", g, "graffiti file entry must win over per-validator store graffiti")

	other := [48]byte{9, 9}
	g, ok = s.GraffitiFor(other)
	require.True(t, ok)
	require.Equal(t, "default", g, "falls through to the process default with no per-key override")
}

func TestBuilderBoostFactorFor_NoOpValueIsRewrittenToUnset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	db, err := validatordb.NewKVStore(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	defer db.Close()

	noop := uint64(100)
	s, err := New(&Config{
		DB:                 db,
		Signer:             mock.NewMockSigner(ctrl),
		PerValidatorBoostFactor: map[[48]byte]uint64{testPubKey: 100},
		DefaultBoostFactor: &noop,
	})
	require.NoError(t, err)
	_, ok := s.BuilderBoostFactorFor(testPubKey)
	require.False(t, ok)

	other := [48]byte{9, 9}
	_, ok = s.BuilderBoostFactorFor(other)
	require.False(t, ok)
}

func TestVotingPubKeys_FiltersByDoppelgangerStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	signer := mock.NewMockSigner(ctrl)
	safe := [48]byte{1}
	unsafe := [48]byte{2}
	signer.EXPECT().PublicKeys().Return([][48]byte{safe, unsafe}).AnyTimes()

	db, err := validatordb.NewKVStore(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	defer db.Close()
	doppel := NewDoppelganger([][48]byte{safe, unsafe})
	doppel.SetStatus(safe, iface.SigningEnabled)

	s, err := New(&Config{DB: db, Signer: signer, Doppelganger: doppel})
	require.NoError(t, err)

	require.Equal(t, [][48]byte{safe}, s.VotingPubKeys(iface.OnlySafe))
	require.Equal(t, [][48]byte{unsafe}, s.VotingPubKeys(iface.OnlyUnsafe))
	require.ElementsMatch(t, [][48]byte{safe, unsafe}, s.VotingPubKeys(iface.Ignored))
}

func TestProduceSignedAggregateAndProof_DedupesSameSlotAndCommittee(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s, signer, bn := setupStore(t, ctrl)

	bn.EXPECT().DomainData(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(types.DomainResponse{SignatureDomain: [32]byte{3}}, nil).AnyTimes()
	signer.EXPECT().Sign(testPubKey, gomock.Any()).Return([96]byte{1}, nil).Times(1)

	agg := types.Attestation{Data: types.AttestationData{Slot: 10, CommitteeIndex: 2}}
	_, err := s.ProduceSignedAggregateAndProof(context.Background(), testPubKey, agg, [96]byte{})
	require.NoError(t, err)

	_, err = s.ProduceSignedAggregateAndProof(context.Background(), testPubKey, agg, [96]byte{})
	require.Equal(t, errs.SameData, errs.As(err))
}
