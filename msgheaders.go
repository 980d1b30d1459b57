// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

import (
	"bytes"
	"fmt"
)

// maxHeadersPerMsg is the protocol cap on headers per headers message.
const maxHeadersPerMsg = 2000

// MsgGetHeaders requests block headers starting after Start, up to End (all
// zeros means "as many as the peer will give"). Hashes are in display order;
// the wire carries them reversed.
type MsgGetHeaders struct {
	Version uint32
	Start   [32]byte
	End     [32]byte
}

// NewMsgGetHeaders requests the headers following the start block.
func NewMsgGetHeaders(start [32]byte) *MsgGetHeaders {
	return &MsgGetHeaders{Version: ProtocolVersion, Start: start}
}

func (m *MsgGetHeaders) Command() string { return CmdGetHeaders }

func (m *MsgGetHeaders) MarshalPayload() ([]byte, error) {
	p := make([]byte, 0, 4+1+32+32)
	p = appendUint32LE(p, m.Version)
	p = AppendVarint(p, 1) // one locator hash
	start := reverse32(m.Start)
	p = append(p, start[:]...)
	end := reverse32(m.End)
	p = append(p, end[:]...)
	return p, nil
}

// MsgHeaders answers a getheaders request with a page of block headers.
type MsgHeaders struct {
	Headers []BlockHeader
}

func (m *MsgHeaders) Command() string { return CmdHeaders }

func (m *MsgHeaders) MarshalPayload() ([]byte, error) {
	if len(m.Headers) > maxHeadersPerMsg {
		return nil, ErrTooLong
	}
	p := make([]byte, 0, VarintLen(uint64(len(m.Headers)))+len(m.Headers)*(BlockHeaderLen+1))
	p = AppendVarint(p, uint64(len(m.Headers)))
	for i := range m.Headers {
		p = m.Headers[i].AppendTo(p)
		// Headers travel with an always-zero transaction count.
		p = AppendVarint(p, 0)
	}
	return p, nil
}

// ParseHeaders decodes a headers payload. Each header must be followed by a
// zero transaction count.
func ParseHeaders(payload []byte) (*MsgHeaders, error) {
	r := bytes.NewReader(payload)
	count, err := ReadVarint(r)
	if err != nil {
		return nil, eofToUnexpected(err)
	}
	if count > maxHeadersPerMsg {
		return nil, ErrTooLong
	}
	m := &MsgHeaders{Headers: make([]BlockHeader, 0, count)}
	for i := uint64(0); i < count; i++ {
		h, err := ParseBlockHeader(r)
		if err != nil {
			return nil, err
		}
		txCount, err := ReadVarint(r)
		if err != nil {
			return nil, eofToUnexpected(err)
		}
		if txCount != 0 {
			return nil, fmt.Errorf("headers[%d]: non-zero tx count %d: %w", i, txCount, ErrInvalidArgument)
		}
		m.Headers = append(m.Headers, *h)
	}
	return m, nil
}

// Verify reports whether every header satisfies proof-of-work and each
// header's previous-block hash chains to the one before it.
func (m *MsgHeaders) Verify() bool {
	var last [32]byte
	haveLast := false
	for i := range m.Headers {
		h := &m.Headers[i]
		if !h.CheckProofOfWork() {
			return false
		}
		if haveLast && h.PrevBlock != last {
			return false
		}
		last = h.Hash()
		haveLast = true
	}
	return true
}
