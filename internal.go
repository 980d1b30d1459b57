// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

import (
	"encoding/binary"
	"io"
	"runtime"
	"time"
)

const (
	// Envelope header layout: magic(4) command(12) length(4, little-endian)
	// checksum(4).
	envMagicOff    = 0
	envCommandOff  = 4
	envCommandLen  = 12
	envLengthOff   = 16
	envChecksumOff = 20
	envHeaderLen   = 24

	// MaxPayload is the protocol's hard cap on envelope payload size (32 MiB).
	MaxPayload = 32 * 1024 * 1024
)

type codec struct {
	rd io.Reader
	wr io.Writer

	network        Network
	verifyChecksum bool
	readLimit      int64

	retryDelay time.Duration

	// inbound stream state
	rhdr [envHeaderLen]byte
	rlen int64 // payload length for current inbound message
	roff int64 // bytes processed in (header+payload)

	// outbound stream state
	whdr [envHeaderLen]byte
	wlen int64
	woff int64
}

func newCodec(r io.Reader, w io.Writer, opts ...Option) *codec {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}

	c := &codec{
		rd:             r,
		wr:             w,
		network:        o.Network,
		verifyChecksum: o.VerifyChecksum,
		readLimit:      int64(o.ReadLimit),

		retryDelay: o.RetryDelay,
	}
	return c
}

func (c *codec) resetRead() {
	c.roff = 0
	c.rlen = 0
}

func (c *codec) resetWrite() {
	c.woff = 0
	c.wlen = 0
}

func (c *codec) waitOnceOnWouldBlock() bool {
	// returns whether the caller should retry
	if c.retryDelay < 0 {
		return false
	}
	if c.retryDelay == 0 {
		runtime.Gosched()
		return true
	}
	time.Sleep(c.retryDelay)
	return true
}

func (c *codec) readOnce(p []byte) (n int, err error) {
	for {
		n, err = c.rd.Read(p)
		// Guard against broken Readers that violate the io.Reader contract by
		// returning (0, nil) on a non-empty buffer. Without this, the stream
		// state machine can spin indefinitely.
		if len(p) != 0 && n == 0 && err == nil {
			return 0, io.ErrNoProgress
		}
		if n > 0 {
			return n, err
		}
		if err != ErrWouldBlock {
			return n, err
		}
		if !c.waitOnceOnWouldBlock() {
			return n, err
		}
	}
}

func (c *codec) writeOnce(p []byte) (n int, err error) {
	for {
		n, err = c.wr.Write(p)
		// Guard against broken Writers that violate the io.Writer contract by
		// returning (0, nil) on a non-empty buffer. Without this, the stream
		// writer can spin indefinitely.
		if len(p) != 0 && n == 0 && err == nil {
			return 0, io.ErrShortWrite
		}
		if n > 0 {
			return n, err
		}
		if err != ErrWouldBlock {
			return n, err
		}
		if !c.waitOnceOnWouldBlock() {
			return n, err
		}
	}
}

// readMessage reads one envelope, copying its payload into p.
//
// Envelope stream contract:
// In Nonblock mode, partial progress may be returned with iox.ErrWouldBlock.
// The caller must retry with the same buffer to preserve already-copied bytes.
// n counts payload bytes copied during this call.
func (c *codec) readMessage(p []byte) (cmd string, n int, err error) {
	if c.rd == nil {
		return "", 0, ErrInvalidArgument
	}

	// 1) Read the fixed 24-byte header.
	for c.roff < envHeaderLen {
		rn, re := c.readOnce(c.rhdr[c.roff:envHeaderLen])
		c.roff += int64(rn)
		if re != nil {
			if re == io.EOF {
				if c.roff == 0 {
					// Clean EOF at message boundary.
					return "", 0, io.EOF
				}
				if c.roff < envHeaderLen {
					// Partial header read; stream truncated.
					return "", 0, io.ErrUnexpectedEOF
				}
				break
			}
			return "", 0, re
		}
	}

	// 2) Validate magic and parse payload length. Both are idempotent across
	// resumed calls.
	if [4]byte(c.rhdr[envMagicOff:envMagicOff+4]) != c.network.Magic() {
		return "", 0, ErrBadMagic
	}
	c.rlen = int64(binary.LittleEndian.Uint32(c.rhdr[envLengthOff : envLengthOff+4]))

	if c.rlen > MaxPayload {
		return "", 0, ErrTooLong
	}
	if c.readLimit > 0 && c.rlen > c.readLimit {
		return "", 0, ErrTooLong
	}
	if int64(len(p)) < c.rlen {
		return "", 0, io.ErrShortBuffer
	}

	// 3) Read payload directly into p.
	for c.roff < envHeaderLen+c.rlen {
		payloadOff := c.roff - envHeaderLen
		rn, re := c.readOnce(p[payloadOff:c.rlen])
		c.roff += int64(rn)
		n += rn
		if re != nil {
			if re == io.EOF {
				if c.roff < envHeaderLen+c.rlen {
					return "", n, io.ErrUnexpectedEOF
				}
				break
			}
			// Preserve semantic control-flow errors.
			return "", n, re
		}
	}

	// 4) Verify checksum over the complete payload.
	if c.verifyChecksum {
		if checksum4(p[:c.rlen]) != [4]byte(c.rhdr[envChecksumOff:envChecksumOff+4]) {
			return "", n, ErrBadChecksum
		}
	}

	cmd, cerr := commandString(c.rhdr[envCommandOff : envCommandOff+envCommandLen])
	if cerr != nil {
		return "", n, cerr
	}

	c.resetRead()
	return cmd, n, nil
}

// pendingLen reports the announced payload length of the in-flight inbound
// message, valid after readMessage returned io.ErrShortBuffer.
func (c *codec) pendingLen() (int, bool) {
	if c.roff < envHeaderLen {
		return 0, false
	}
	return int(c.rlen), true
}

// writeMessage writes p as exactly one envelope carrying cmd.
// Resumable under iox.ErrWouldBlock: retry with the same command and buffer.
func (c *codec) writeMessage(cmd string, p []byte) (n int, err error) {
	if c.wr == nil {
		return 0, ErrInvalidArgument
	}
	if int64(len(p)) > MaxPayload {
		return 0, ErrTooLong
	}

	// Fill header once per message.
	if c.woff == 0 {
		if err := putCommand(c.whdr[envCommandOff:envCommandOff+envCommandLen], cmd); err != nil {
			return 0, err
		}
		magic := c.network.Magic()
		copy(c.whdr[envMagicOff:envMagicOff+4], magic[:])
		binary.LittleEndian.PutUint32(c.whdr[envLengthOff:envLengthOff+4], uint32(len(p)))
		sum := checksum4(p)
		copy(c.whdr[envChecksumOff:envChecksumOff+4], sum[:])
		c.wlen = int64(len(p))
	}
	if c.wlen != int64(len(p)) {
		// The caller changed the message buffer mid-frame.
		return 0, io.ErrShortWrite
	}

	for c.woff < envHeaderLen {
		wn, we := c.writeOnce(c.whdr[c.woff:envHeaderLen])
		c.woff += int64(wn)
		if we != nil {
			return 0, we
		}
	}

	for c.woff < envHeaderLen+c.wlen {
		payloadOff := c.woff - envHeaderLen
		wn, we := c.writeOnce(p[payloadOff:])
		c.woff += int64(wn)
		n += wn
		if we != nil {
			return n, we
		}
	}

	c.resetWrite()
	return n, nil
}

// commandString decodes the 12-byte command field: ASCII bytes padded with
// trailing NULs. A NUL followed by a non-NUL, or a non-printable byte, is a
// malformed envelope.
func commandString(b []byte) (string, error) {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	for _, ch := range b[:end] {
		if ch < 0x20 || ch > 0x7e {
			return "", ErrInvalidArgument
		}
	}
	return string(b[:end]), nil
}

// putCommand encodes cmd into the 12-byte command field, NUL padded.
func putCommand(dst []byte, cmd string) error {
	if len(cmd) == 0 || len(cmd) > envCommandLen {
		return ErrInvalidArgument
	}
	for i := 0; i < len(cmd); i++ {
		if cmd[i] < 0x20 || cmd[i] > 0x7e {
			return ErrInvalidArgument
		}
	}
	n := copy(dst, cmd)
	for i := n; i < envCommandLen; i++ {
		dst[i] = 0
	}
	return nil
}
