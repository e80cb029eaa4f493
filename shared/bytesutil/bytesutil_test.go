package bytesutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrunc(t *testing.T) {
	require.Equal(t, []byte{1, 2, 3, 4}, Trunc([]byte{1, 2, 3, 4, 5, 6}))
	require.Equal(t, []byte{1, 2}, Trunc([]byte{1, 2}))
}

func TestToBytes48AndBack(t *testing.T) {
	in := make([]byte, 48)
	for i := range in {
		in[i] = byte(i)
	}
	out := ToBytes48(in)
	require.Equal(t, in, out[:])
}

func TestToBytes64(t *testing.T) {
	in := []byte("short")
	out := ToBytes64(in)
	require.Equal(t, in, out[:len(in)])
	require.Equal(t, byte(0), out[63])
}

func TestFromBytes48Array(t *testing.T) {
	keys := [][48]byte{{1}, {2}}
	got := FromBytes48Array(keys)
	require.Len(t, got, 2)
	require.Equal(t, keys[0][:], got[0])
	require.Equal(t, keys[1][:], got[1])
}

func TestPadTo(t *testing.T) {
	require.Len(t, PadTo([]byte("ab"), 4), 4)
	original := []byte("already-long-enough")
	require.Equal(t, original, PadTo(original, 4), "a slice already at or past size must be returned untouched")
}

func TestUint64BigEndianRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 255, 1 << 40} {
		require.Equal(t, v, BytesToUint64BigEndian(Uint64ToBytesBigEndian(v)))
	}
}

func TestUint64ToBytesBigEndian_PreservesOrdering(t *testing.T) {
	a := Uint64ToBytesBigEndian(1)
	b := Uint64ToBytesBigEndian(2)
	require.Less(t, string(a), string(b), "big-endian encoding must sort the same as the integers it encodes")
}
