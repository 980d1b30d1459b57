// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

// MsgVerAck acknowledges a version message. It carries no payload.
type MsgVerAck struct{}

func (MsgVerAck) Command() string { return CmdVerAck }

func (MsgVerAck) MarshalPayload() ([]byte, error) { return nil, nil }

// MsgPing is a liveness probe; the nonce ties the pong reply to its ping.
type MsgPing struct {
	Nonce uint64
}

func (m *MsgPing) Command() string { return CmdPing }

func (m *MsgPing) MarshalPayload() ([]byte, error) {
	return appendUint64LE(make([]byte, 0, 8), m.Nonce), nil
}

// ParsePing decodes a ping payload.
func ParsePing(payload []byte) (*MsgPing, error) {
	if len(payload) != 8 {
		return nil, ErrLengthMismatch
	}
	return &MsgPing{Nonce: leUint64(payload)}, nil
}

// MsgPong answers a ping, echoing its nonce.
type MsgPong struct {
	Nonce uint64
}

func (m *MsgPong) Command() string { return CmdPong }

func (m *MsgPong) MarshalPayload() ([]byte, error) {
	return appendUint64LE(make([]byte, 0, 8), m.Nonce), nil
}

// ParsePong decodes a pong payload.
func ParsePong(payload []byte) (*MsgPong, error) {
	if len(payload) != 8 {
		return nil, ErrLengthMismatch
	}
	return &MsgPong{Nonce: leUint64(payload)}, nil
}

// PongFor returns the pong reply for a ping payload, preserving the nonce
// bytes as received.
func PongFor(ping *MsgPing) *MsgPong {
	return &MsgPong{Nonce: ping.Nonce}
}
