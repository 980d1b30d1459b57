// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package btcwire implements the Bitcoin peer-to-peer wire format: envelope
// framing, message payload codecs, and the checked integer/byte-order
// conversions the format is built from.
//
// Semantics and design:
//   - Envelope framing: every message travels in an envelope of
//     magic(4) | command(12, NUL-padded ASCII) | payload length (4, little-endian) |
//     checksum (4, first four bytes of double-SHA256 of the payload) | payload.
//     The magic bytes bind an envelope to one network (mainnet/testnet/signet).
//   - Non-blocking first: iox.ErrWouldBlock and iox.ErrMore are surfaced as
//     control-flow signals (re-exposed as btcwire.ErrWouldBlock / btcwire.ErrMore).
//     Reader and Writer keep resumable per-message state, so partial progress
//     on a non-blocking transport is never lost.
//   - Two layers: Reader/Writer stream envelopes through caller-owned buffers
//     with zero steady-state allocations; Envelope and the Msg* types are the
//     allocating convenience layer used by clients such as package peer.
//
// Payloads are capped at MaxPayload (32 MiB); larger announcements produce
// ErrTooLong. A stricter per-reader limit can be set via WithReadLimit.
package btcwire

import (
	"io"

	"code.hybscloud.com/iox"
)

// NewReader returns a Reader that decodes envelopes from r.
func NewReader(r io.Reader, opts ...Option) *Reader {
	return &Reader{c: newCodec(r, nil, opts...)}
}

// NewWriter returns a Writer that encodes envelopes to w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	return &Writer{c: newCodec(nil, w, opts...)}
}

// NewReadWriter returns a ReadWriter that decodes envelopes from r and
// encodes envelopes to w. Read and write state are independent.
func NewReadWriter(r io.Reader, w io.Writer, opts ...Option) *ReadWriter {
	c := newCodec(r, w, opts...)
	return &ReadWriter{Reader: &Reader{c: c}, Writer: &Writer{c: c}}
}

// Reader reads envelopes from a stream transport.
type Reader struct{ c *codec }

// ReadMessage reads the next envelope, copying its payload into p, and
// returns the envelope command with the count of payload bytes copied during
// this call.
//
// Semantics:
//   - If p is smaller than the announced payload, ReadMessage returns
//     io.ErrShortBuffer without consuming the payload; Pending reports the
//     required size.
//   - On ErrWouldBlock or ErrMore, partial progress has been kept; retry with
//     the SAME buffer to complete the message.
//   - A stream that ends mid-envelope fails with io.ErrUnexpectedEOF; a clean
//     end at an envelope boundary returns io.EOF.
func (r *Reader) ReadMessage(p []byte) (cmd string, n int, err error) {
	return r.c.readMessage(p)
}

// Pending reports the announced payload length of the in-flight inbound
// envelope. It is valid after ReadMessage returned io.ErrShortBuffer and
// before the next successful ReadMessage.
func (r *Reader) Pending() (int, bool) { return r.c.pendingLen() }

// Writer writes envelopes to a stream transport.
type Writer struct{ c *codec }

// WriteMessage writes p as exactly one envelope carrying cmd and returns the
// count of payload bytes written during this call.
//
// On ErrWouldBlock or ErrMore, the envelope is incomplete; retry with the
// same command and buffer to finish it. The checksum is computed once per
// message, when the header is first filled.
func (w *Writer) WriteMessage(cmd string, p []byte) (n int, err error) {
	return w.c.writeMessage(cmd, p)
}

// ReadWriter groups Reader and Writer over one transport.
type ReadWriter struct {
	*Reader
	*Writer
}

// These are provided as package-level aliases so callers can reference the
// semantic control-flow errors without importing iox directly.
var (
	// ErrWouldBlock means “no further progress without waiting”.
	//
	// It is an expected, non-failure control-flow signal for non-blocking I/O.
	// Any returned byte count (n) still represents real progress.
	//
	// Caller action: stop the current attempt and retry later (after readiness/event),
	// or configure RetryDelay to emulate cooperative blocking on top of a non-blocking transport.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrMore means “this completion is usable and more completions will follow”.
	//
	// It is not io.EOF and not “try later”. The operation remains active and additional
	// data/results are expected from the same ongoing operation.
	//
	// Caller action: process the returned bytes/result, then call again to obtain the next chunk.
	ErrMore = iox.ErrMore
)
