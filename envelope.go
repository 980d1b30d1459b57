// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
)

// Envelope is one decoded wire message: a command naming the payload codec
// and the raw payload bytes. It is the allocating convenience layer over
// Reader/Writer, for callers that take one message at a time from a blocking
// transport.
type Envelope struct {
	Command string
	Payload []byte
}

// ReadEnvelope reads and validates one envelope from r, allocating the
// payload at its announced size.
func ReadEnvelope(r io.Reader, network Network) (*Envelope, error) {
	var hdr [envHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	if [4]byte(hdr[envMagicOff:envMagicOff+4]) != network.Magic() {
		return nil, fmt.Errorf("%w: got %x want %x", ErrBadMagic,
			hdr[envMagicOff:envMagicOff+4], network.Magic())
	}
	length := binary.LittleEndian.Uint32(hdr[envLengthOff : envLengthOff+4])
	if length > MaxPayload {
		return nil, ErrTooLong
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, eofToUnexpected(err)
	}
	if checksum4(payload) != [4]byte(hdr[envChecksumOff:envChecksumOff+4]) {
		return nil, ErrBadChecksum
	}
	cmd, err := commandString(hdr[envCommandOff : envCommandOff+envCommandLen])
	if err != nil {
		return nil, err
	}
	return &Envelope{Command: cmd, Payload: payload}, nil
}

// AppendTo appends the full wire encoding of the envelope for the given
// network to dst.
func (e *Envelope) AppendTo(dst []byte, network Network) ([]byte, error) {
	if len(e.Payload) > MaxPayload {
		return nil, ErrTooLong
	}
	var cmdField [envCommandLen]byte
	if err := putCommand(cmdField[:], e.Command); err != nil {
		return nil, err
	}
	magic := network.Magic()
	dst = append(dst, magic[:]...)
	dst = append(dst, cmdField[:]...)
	dst = appendUint32LE(dst, uint32(len(e.Payload)))
	sum := checksum4(e.Payload)
	dst = append(dst, sum[:]...)
	dst = append(dst, e.Payload...)
	return dst, nil
}

// Serialize returns the full wire encoding of the envelope for the given
// network.
func (e *Envelope) Serialize(network Network) ([]byte, error) {
	return e.AppendTo(make([]byte, 0, envHeaderLen+len(e.Payload)), network)
}

func (e *Envelope) String() string {
	return fmt.Sprintf("%s: %s", e.Command, hex.EncodeToString(e.Payload))
}
