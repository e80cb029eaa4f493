// Package bytesutil defines helper methods for converting integers to byte slices
// and truncating pubkeys/roots for logging, mirroring the conventions used
// throughout the validator client.
package bytesutil

import "encoding/binary"

// Trunc truncates the byte slice to 4 bytes if it is longer than 4 bytes, for
// use in logging where full 48-byte pubkeys and 32-byte roots are too noisy.
func Trunc(x []byte) []byte {
	if len(x) > 4 {
		return x[:4]
	}
	return x
}

// ToBytes48 is a convenience method for converting a byte slice to a fixed
// 48-byte array.
func ToBytes48(x []byte) [48]byte {
	var y [48]byte
	copy(y[:], x)
	return y
}

// ToBytes64 is a convenience method for converting a byte slice to a fixed
// 64-byte array.
func ToBytes64(x []byte) [64]byte {
	var y [64]byte
	copy(y[:], x)
	return y
}

// Bytes32 returns a 32-byte big-endian representation of the given value.
func Bytes32(x uint64) []byte {
	bytes := make([]byte, 32)
	binary.BigEndian.PutUint64(bytes[24:], x)
	return bytes
}

// FromBytes48Array converts an array of fixed-size 48-byte pubkeys to a
// slice-of-slices representation, the shape expected by RPC request types.
func FromBytes48Array(x [][48]byte) [][]byte {
	y := make([][]byte, len(x))
	for i, k := range x {
		k := k
		y[i] = k[:]
	}
	return y
}

// PadTo pads a byte slice to the given size, left untouched if already that
// length or longer. Used pervasively in tests to build fixed-size roots.
func PadTo(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	padded := make([]byte, size)
	copy(padded, b)
	return padded
}

// Uint64ToBytesBigEndian conserves ordering when used as a bbolt bucket key.
func Uint64ToBytesBigEndian(i uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, i)
	return buf
}

// BytesToUint64BigEndian is the inverse of Uint64ToBytesBigEndian.
func BytesToUint64BigEndian(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
