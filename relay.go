// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

import (
	"io"
)

// Relay moves envelopes from a source to a destination while preserving
// command and payload bytes exactly.
//
// Semantics:
//   - One call to RelayOnce processes at most one envelope.
//   - Two-phase state machine per envelope:
//     1) Read a whole envelope payload from src into an internal buffer
//     (non-blocking; may return early with partial progress and ErrWouldBlock
//     or ErrMore).
//     2) Write that same payload as exactly one envelope to dst
//     (non-blocking; may return early with partial progress and ErrWouldBlock
//     or ErrMore).
//   - Returns (n, nil) when a whole envelope has been relayed to dst.
//   - The checksum is verified on the way in (unless WithoutChecksum) and
//     recomputed on the way out, so a relay never propagates a corrupt
//     payload.
//
// Limits and buffer sizing:
//   - The internal payload buffer is allocated during construction based on
//     read-side limit (WithReadLimit). If ReadLimit is zero, a conservative
//     default (64KiB) is used. There are no heap allocations in the
//     steady-state relaying path.
//   - If the current envelope exceeds the internal buffer capacity, RelayOnce
//     returns io.ErrShortBuffer. Callers can construct a new Relay with a
//     larger ReadLimit to accommodate larger messages.
//
// Retry rule:
//   - On ErrWouldBlock or ErrMore, the caller must retry RelayOnce on the SAME
//     Relay instance to complete the in-flight envelope. The read/write
//     progress is maintained internally.
type Relay struct {
	rr *codec // read-side state machine
	ww *codec // write-side state machine

	// Internal payload buffer reused across envelopes to ensure zero-alloc steady state.
	buf []byte

	// Per-envelope state.
	cmd   string
	need  int   // payload length for current envelope
	got   int   // payload bytes read into buf so far
	state uint8 // 0: read envelope, 1: write envelope
}

const (
	relayStateRead uint8 = iota
	relayStateWrite
)

// NewRelay constructs a Relay that moves envelopes from src to dst.
// Options apply to both directions following the same rules as Reader/Writer.
func NewRelay(dst io.Writer, src io.Reader, opts ...Option) *Relay {
	rr := newCodec(src, nil, opts...)
	ww := newCodec(nil, dst, opts...)
	// Allocate internal buffer once to avoid allocations in steady state.
	capHint := rr.readLimit
	if capHint <= 0 {
		capHint = 64 * 1024
	}
	return &Relay{rr: rr, ww: ww, buf: make([]byte, capHint)}
}

// RelayOnce relays at most one envelope. See Relay docs for semantics.
//
// Return value n reflects progress in the current phase:
//   - During the read phase, n is the number of payload bytes read into the
//     internal buffer in this call.
//   - During the write phase, n is the number of payload bytes written to dst
//     in this call.
func (f *Relay) RelayOnce() (n int, err error) {
	// Phase 0: read one whole envelope into the internal buffer.
	if f.state == relayStateRead {
		cmd, rn, re := f.rr.readMessage(f.buf)
		f.got += rn
		if re != nil {
			if re == io.ErrShortBuffer {
				// Envelope larger than the internal buffer; the caller needs a
				// Relay constructed with a larger ReadLimit.
				return rn, io.ErrShortBuffer
			}
			// ErrWouldBlock/ErrMore keep the in-flight state; everything else
			// (io.EOF at a boundary, io.ErrUnexpectedEOF, ErrBadMagic,
			// ErrBadChecksum, ErrTooLong, transport errors) propagates as-is.
			return rn, re
		}
		f.cmd = cmd
		f.need = f.got
		f.state = relayStateWrite
	}

	// Phase 1: write the payload as one envelope to the destination.
	wn, we := f.ww.writeMessage(f.cmd, f.buf[:f.need])
	if we != nil {
		return wn, we
	}
	// Envelope fully relayed; reset for the next call.
	f.state = relayStateRead
	f.cmd = ""
	f.need = 0
	f.got = 0
	return wn, nil
}
