// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

import "errors"

var (
	// ErrInvalidArgument reports an invalid configuration, a nil reader/writer,
	// or an argument outside its documented range (e.g. a command longer than
	// 12 bytes, or a byte length outside 1..8).
	ErrInvalidArgument = errors.New("btcwire: invalid argument")

	// ErrOutOfRange reports an integer that cannot be represented in the
	// requested number of bytes. Conversion never silently truncates.
	ErrOutOfRange = errors.New("btcwire: integer out of range for byte length")

	// ErrLengthMismatch reports a byte sequence whose length differs from the
	// declared length parameter.
	ErrLengthMismatch = errors.New("btcwire: byte length mismatch")

	// ErrTooLong reports a payload length exceeding the protocol maximum or a
	// configured read limit.
	ErrTooLong = errors.New("btcwire: message too long")

	// ErrBadMagic reports an envelope whose network magic does not match the
	// expected network.
	ErrBadMagic = errors.New("btcwire: bad network magic")

	// ErrBadChecksum reports an envelope whose payload checksum does not match
	// the first four bytes of the double-SHA256 of the payload.
	ErrBadChecksum = errors.New("btcwire: bad payload checksum")
)
