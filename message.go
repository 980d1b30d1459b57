// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

// Protocol commands carried in the envelope command field.
const (
	CmdVersion    = "version"
	CmdVerAck     = "verack"
	CmdPing       = "ping"
	CmdPong       = "pong"
	CmdGetHeaders = "getheaders"
	CmdHeaders    = "headers"
	CmdGetData    = "getdata"
	CmdBlock      = "block"
)

// ProtocolVersion is the protocol version this package speaks and announces.
const ProtocolVersion = 70015

// Message is a typed protocol message that can serialize its payload.
type Message interface {
	// Command names the payload codec on the wire.
	Command() string
	// MarshalPayload returns the message's wire payload.
	MarshalPayload() ([]byte, error)
}

// WriteMessage serializes m and writes it to w as one envelope.
func WriteMessage(w *Writer, m Message) error {
	p, err := m.MarshalPayload()
	if err != nil {
		return err
	}
	_, err = w.WriteMessage(m.Command(), p)
	return err
}

// MessageEnvelope wraps m in an Envelope.
func MessageEnvelope(m Message) (*Envelope, error) {
	p, err := m.MarshalPayload()
	if err != nil {
		return nil, err
	}
	return &Envelope{Command: m.Command(), Payload: p}, nil
}

// MsgGeneric carries an arbitrary command and pre-encoded payload. It is the
// escape hatch for commands this package has no typed codec for.
type MsgGeneric struct {
	Cmd     string
	Payload []byte
}

func (m *MsgGeneric) Command() string { return m.Cmd }

func (m *MsgGeneric) MarshalPayload() ([]byte, error) { return m.Payload, nil }
