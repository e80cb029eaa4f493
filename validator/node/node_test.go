package node

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/ethvigil/vigil/validator/client/pool"
)

type stubSigner struct {
	pubKeys [][48]byte
}

func (s *stubSigner) Sign(pubKey [48]byte, signingRoot [32]byte) ([96]byte, error) {
	return [96]byte{}, nil
}

func (s *stubSigner) PublicKeys() [][48]byte {
	return s.pubKeys
}

func TestNew_WiresEndpointPoolAndSlashingDB(t *testing.T) {
	cfg := &Config{
		DataDir:        t.TempDir(),
		MonitoringPort: 0,
		Endpoints:      []pool.Config{{Address: "127.0.0.1:0"}},
		NewBeaconClient: func(conn *grpc.ClientConn) interface{} {
			return nil
		},
		Signer:      &stubSigner{pubKeys: [][48]byte{{1, 2, 3}}},
		CurrentSlot: func() uint64 { return 0 },
	}
	vc, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, vc.db)
	require.NotNil(t, vc.endpoints)
	vc.Close()
}

func TestNew_FailsWithoutAnyEndpoint(t *testing.T) {
	cfg := &Config{
		DataDir: t.TempDir(),
		Signer:  &stubSigner{},
	}
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}
