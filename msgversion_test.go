// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"testing"

	"code.hybscloud.com/btcwire"
)

const versionPayloadHex = "7f11010000000000000000000000000000000000000000000000000000000000000000000000ffff000000008d20000000000000000000000000000000000000ffff000000008d2000000000000000001b2f70726f6772616d6d696e67626c6f636b636861696e3a302e312f0000000001"

func TestMsgVersionMarshal(t *testing.T) {
	m := &btcwire.MsgVersion{
		Version:      70015,
		ReceiverPort: 8333,
		SenderPort:   8333,
		UserAgent:    "/programmingblockchain:0.1/",
		Relay:        true,
	}
	p, err := m.MarshalPayload()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := hex.EncodeToString(p); got != versionPayloadHex {
		t.Fatalf("payload mismatch:\n got %s\nwant %s", got, versionPayloadHex)
	}
}

func TestParseVersionRoundTrip(t *testing.T) {
	m := &btcwire.MsgVersion{
		Version:          70015,
		Services:         9,
		Timestamp:        1414012889,
		ReceiverServices: 1,
		ReceiverIP:       [4]byte{198, 27, 100, 9},
		ReceiverPort:     8333,
		SenderServices:   1,
		SenderIP:         [4]byte{203, 0, 113, 192},
		SenderPort:       18333,
		Nonce:            0xf85379c9cb358012,
		UserAgent:        "/Satoshi:0.9.3/",
		LatestBlock:      329167,
		Relay:            false,
	}
	p, err := m.MarshalPayload()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := btcwire.ParseVersion(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *back != *m {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, m)
	}
}

func TestParseVersion_WireFixture(t *testing.T) {
	// The version payload carried in the captured envelope fixture.
	msg := mustHex(t, versionEnvelopeHex)
	m, err := btcwire.ParseVersion(msg[24:])
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Version != 70002 {
		t.Fatalf("version=%d", m.Version)
	}
	if m.UserAgent != "/Satoshi:0.9.3/" {
		t.Fatalf("user agent=%q", m.UserAgent)
	}
	if !m.Relay {
		t.Fatalf("relay should be set")
	}
}

func TestParseVersion_RelayFlagOptional(t *testing.T) {
	m := btcwire.NewMsgVersion()
	m.Relay = false
	p, err := m.MarshalPayload()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Strip the trailing relay byte: older peers omit it, readers default to true.
	back, err := btcwire.ParseVersion(p[:len(p)-1])
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !back.Relay {
		t.Fatalf("missing relay flag should default to true")
	}
}

func TestParseVersion_Truncated(t *testing.T) {
	m := btcwire.NewMsgVersion()
	p, err := m.MarshalPayload()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, cut := range []int{0, 3, 20, 45, 80, 85} {
		if _, err := btcwire.ParseVersion(p[:cut]); err != io.ErrUnexpectedEOF {
			t.Fatalf("cut=%d: err=%v want io.ErrUnexpectedEOF", cut, err)
		}
	}
}

func TestMsgVersionUserAgentTooLong(t *testing.T) {
	m := btcwire.NewMsgVersion()
	m.UserAgent = string(bytes.Repeat([]byte{'u'}, 300))
	if _, err := m.MarshalPayload(); !errors.Is(err, btcwire.ErrTooLong) {
		t.Fatalf("err=%v want ErrTooLong", err)
	}
}

func TestNewMsgVersionDefaults(t *testing.T) {
	m := btcwire.NewMsgVersion()
	if m.Version != btcwire.ProtocolVersion {
		t.Fatalf("version=%d", m.Version)
	}
	if m.UserAgent != btcwire.DefaultUserAgent {
		t.Fatalf("user agent=%q", m.UserAgent)
	}
	if m.Timestamp == 0 {
		t.Fatalf("timestamp not set")
	}
	if !m.Relay {
		t.Fatalf("relay should default to true")
	}
}
