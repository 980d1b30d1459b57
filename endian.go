// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

import (
	"encoding/binary"

	"code.hybscloud.com/btcwire/internal/bo"
)

// Checked integer <-> byte-sequence conversion.
//
// Contract:
//   - Little-endian: index 0 holds the least-significant byte, so byte[i]
//     contributes byte[i] * 256^i to the decoded value.
//   - Any byte length >= 1 is supported; lengths beyond 8 zero-pad on encode.
//   - Encoding never truncates: a value that does not fit in the requested
//     length fails with ErrOutOfRange. Decoding mirrors that: a value that
//     does not fit in a uint64 fails with ErrOutOfRange.
//   - Decoding validates the declared length against the slice and fails with
//     ErrLengthMismatch on disagreement.
//
// For all n, length with 0 <= n < 256^length the conversions round-trip
// exactly, in both directions and both byte orders.

// LittleEndianToUint decodes b as an unsigned integer of the given byte
// length in little-endian order.
func LittleEndianToUint(b []byte, length int) (uint64, error) {
	if length < 1 {
		return 0, ErrInvalidArgument
	}
	if len(b) != length {
		return 0, ErrLengthMismatch
	}
	for i := 8; i < length; i++ {
		if b[i] != 0 {
			return 0, ErrOutOfRange
		}
	}
	if length >= 8 && bo.Little() {
		// Wire order matches host order; load directly.
		return binary.NativeEndian.Uint64(b), nil
	}
	var n uint64
	for i := min(length, 8) - 1; i >= 0; i-- {
		n = n<<8 | uint64(b[i])
	}
	return n, nil
}

// UintToLittleEndian encodes n as exactly length bytes in little-endian
// order.
func UintToLittleEndian(n uint64, length int) ([]byte, error) {
	if length < 1 {
		return nil, ErrInvalidArgument
	}
	if length < 8 && n >= 1<<(8*uint(length)) {
		return nil, ErrOutOfRange
	}
	b := make([]byte, length)
	if length == 8 && bo.Little() {
		binary.NativeEndian.PutUint64(b, n)
		return b, nil
	}
	for i := 0; i < length; i++ {
		b[i] = byte(n >> (8 * uint(i)))
	}
	return b, nil
}

// BigEndianToUint decodes b as an unsigned integer of the given byte length
// in big-endian order.
func BigEndianToUint(b []byte, length int) (uint64, error) {
	if length < 1 {
		return 0, ErrInvalidArgument
	}
	if len(b) != length {
		return 0, ErrLengthMismatch
	}
	for i := 0; i < length-8; i++ {
		if b[i] != 0 {
			return 0, ErrOutOfRange
		}
	}
	var n uint64
	for i := 0; i < length; i++ {
		n = n<<8 | uint64(b[i])
	}
	return n, nil
}

// UintToBigEndian encodes n as exactly length bytes in big-endian order.
func UintToBigEndian(n uint64, length int) ([]byte, error) {
	if length < 1 {
		return nil, ErrInvalidArgument
	}
	if length < 8 && n >= 1<<(8*uint(length)) {
		return nil, ErrOutOfRange
	}
	b := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b, nil
}

// Unchecked append helpers for wire serialization hot paths. The checked
// conversions above are the public contract; message codecs that already know
// their field widths use these.

func appendUint16LE(dst []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(dst, v)
}

func appendUint32LE(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

func appendUint64LE(dst []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, v)
}

func leUint16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

func leUint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func leUint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
