package errs

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestAs_RecoversKindThroughWrapping(t *testing.T) {
	base := Newf(Slashable, "already attested target epoch %d", 5)
	wrapped := errors.Wrap(base, "could not sign attestation")
	require.Equal(t, Slashable, As(wrapped))
}

func TestAs_UnknownForPlainError(t *testing.T) {
	require.Equal(t, Unknown, As(errors.New("plain failure")))
}

func TestAs_UnknownForNil(t *testing.T) {
	require.Equal(t, Unknown, As(nil))
}

func TestIsIrrecoverable(t *testing.T) {
	require.True(t, IsIrrecoverable(Wrap(Irrecoverable, errors.New("already broadcast"))))
	require.False(t, IsIrrecoverable(Wrap(Recoverable, errors.New("endpoint timed out"))))
}

func TestError_MessageIncludesKindAndCause(t *testing.T) {
	err := Wrap(DoppelgangerProtected, fmt.Errorf("pubkey still observed"))
	require.Contains(t, err.Error(), "doppelganger_protected")
	require.Contains(t, err.Error(), "pubkey still observed")
}

func TestError_UnwrapReturnsCause(t *testing.T) {
	cause := errors.New("network reset")
	err := Wrap(Recoverable, cause)
	require.Equal(t, cause, err.Unwrap())
}

func TestKind_StringUnknownDefault(t *testing.T) {
	require.Equal(t, "unknown", Kind(999).String())
}
