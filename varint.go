// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

import (
	"encoding/binary"
	"io"
)

// CompactSize varints: values below 0xfd are a single byte; larger values
// carry a one-byte marker followed by a 2-, 4-, or 8-byte little-endian
// integer.
const (
	varintMarker16 = 0xfd
	varintMarker32 = 0xfe
	varintMarker64 = 0xff
)

// VarintLen returns the encoded size of n in bytes.
func VarintLen(n uint64) int {
	switch {
	case n < varintMarker16:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// AppendVarint appends the CompactSize encoding of n to dst.
func AppendVarint(dst []byte, n uint64) []byte {
	switch {
	case n < varintMarker16:
		return append(dst, byte(n))
	case n <= 0xffff:
		dst = append(dst, varintMarker16)
		return binary.LittleEndian.AppendUint16(dst, uint16(n))
	case n <= 0xffffffff:
		dst = append(dst, varintMarker32)
		return binary.LittleEndian.AppendUint32(dst, uint32(n))
	default:
		dst = append(dst, varintMarker64)
		return binary.LittleEndian.AppendUint64(dst, n)
	}
}

// ReadVarint reads one CompactSize varint from r.
// A stream that ends mid-value fails with io.ErrUnexpectedEOF.
func ReadVarint(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:1]); err != nil {
		return 0, err
	}
	switch b[0] {
	case varintMarker16:
		if _, err := io.ReadFull(r, b[:2]); err != nil {
			return 0, eofToUnexpected(err)
		}
		return uint64(binary.LittleEndian.Uint16(b[:2])), nil
	case varintMarker32:
		if _, err := io.ReadFull(r, b[:4]); err != nil {
			return 0, eofToUnexpected(err)
		}
		return uint64(binary.LittleEndian.Uint32(b[:4])), nil
	case varintMarker64:
		if _, err := io.ReadFull(r, b[:8]); err != nil {
			return 0, eofToUnexpected(err)
		}
		return binary.LittleEndian.Uint64(b[:8]), nil
	default:
		return uint64(b[0]), nil
	}
}

// eofToUnexpected maps a clean EOF inside a multi-byte value to
// io.ErrUnexpectedEOF so callers see truncation, not end-of-stream.
func eofToUnexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// readFull fills b from r, reporting any shortfall as io.ErrUnexpectedEOF.
// Payload parsers use it so a truncated field never surfaces as a clean EOF.
func readFull(r io.Reader, b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		return eofToUnexpected(err)
	}
	return nil
}
