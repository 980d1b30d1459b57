// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

import (
	"bytes"
	"io"
	"math/rand/v2"
	"time"
)

// DefaultUserAgent is announced in version messages when the caller sets none.
const DefaultUserAgent = "/btcwire:0.1/"

// maxUserAgentLen bounds the user agent accepted from remote peers.
const maxUserAgentLen = 256

// MsgVersion opens the protocol handshake and advertises what the sender
// speaks.
//
// Field widths on the wire (all integers little-endian):
// version(4) services(8) timestamp(8) receiver services(8)
// receiver address(16: ten zero bytes, 0xffff, IPv4) receiver port(2)
// sender services(8) sender address(16) sender port(2) nonce(8)
// user agent(varint-prefixed string) latest block(4) relay(1).
type MsgVersion struct {
	Version          int32
	Services         uint64
	Timestamp        int64
	ReceiverServices uint64
	ReceiverIP       [4]byte
	ReceiverPort     uint16
	SenderServices   uint64
	SenderIP         [4]byte
	SenderPort       uint16
	Nonce            uint64
	UserAgent        string
	LatestBlock      uint32
	Relay            bool
}

// NewMsgVersion returns a version message with the package defaults: current
// protocol version, current timestamp, random nonce, relay on.
func NewMsgVersion() *MsgVersion {
	return &MsgVersion{
		Version:      ProtocolVersion,
		Timestamp:    time.Now().Unix(),
		ReceiverPort: Mainnet.DefaultPort(),
		SenderPort:   Mainnet.DefaultPort(),
		Nonce:        rand.Uint64(),
		UserAgent:    DefaultUserAgent,
		Relay:        true,
	}
}

func (m *MsgVersion) Command() string { return CmdVersion }

func (m *MsgVersion) MarshalPayload() ([]byte, error) {
	if len(m.UserAgent) > maxUserAgentLen {
		return nil, ErrTooLong
	}
	p := make([]byte, 0, 86+VarintLen(uint64(len(m.UserAgent)))+len(m.UserAgent))
	p = appendUint32LE(p, uint32(m.Version))
	p = appendUint64LE(p, m.Services)
	p = appendUint64LE(p, uint64(m.Timestamp))
	p = appendUint64LE(p, m.ReceiverServices)
	p = appendNetAddr(p, m.ReceiverIP)
	p = appendUint16LE(p, m.ReceiverPort)
	p = appendUint64LE(p, m.SenderServices)
	p = appendNetAddr(p, m.SenderIP)
	p = appendUint16LE(p, m.SenderPort)
	p = appendUint64LE(p, m.Nonce)
	p = AppendVarint(p, uint64(len(m.UserAgent)))
	p = append(p, m.UserAgent...)
	p = appendUint32LE(p, m.LatestBlock)
	if m.Relay {
		p = append(p, 1)
	} else {
		p = append(p, 0)
	}
	return p, nil
}

// ParseVersion decodes a version payload. The trailing relay flag is optional
// on the wire; when absent it defaults to true, matching peers older than the
// filtering protocol extension.
func ParseVersion(payload []byte) (*MsgVersion, error) {
	r := bytes.NewReader(payload)
	m := &MsgVersion{Relay: true}

	var b8 [8]byte

	if err := readFull(r, b8[:4]); err != nil {
		return nil, err
	}
	m.Version = int32(leUint32(b8[:4]))

	if err := readFull(r, b8[:8]); err != nil {
		return nil, err
	}
	m.Services = leUint64(b8[:8])

	if err := readFull(r, b8[:8]); err != nil {
		return nil, err
	}
	m.Timestamp = int64(leUint64(b8[:8]))

	if err := readFull(r, b8[:8]); err != nil {
		return nil, err
	}
	m.ReceiverServices = leUint64(b8[:8])

	ip, err := readNetAddr(r)
	if err != nil {
		return nil, err
	}
	m.ReceiverIP = ip

	if err := readFull(r, b8[:2]); err != nil {
		return nil, err
	}
	m.ReceiverPort = leUint16(b8[:2])

	if err := readFull(r, b8[:8]); err != nil {
		return nil, err
	}
	m.SenderServices = leUint64(b8[:8])

	ip, err = readNetAddr(r)
	if err != nil {
		return nil, err
	}
	m.SenderIP = ip

	if err := readFull(r, b8[:2]); err != nil {
		return nil, err
	}
	m.SenderPort = leUint16(b8[:2])

	if err := readFull(r, b8[:8]); err != nil {
		return nil, err
	}
	m.Nonce = leUint64(b8[:8])

	uaLen, err := ReadVarint(r)
	if err != nil {
		return nil, eofToUnexpected(err)
	}
	if uaLen > maxUserAgentLen {
		return nil, ErrTooLong
	}
	ua := make([]byte, uaLen)
	if err := readFull(r, ua); err != nil {
		return nil, err
	}
	m.UserAgent = string(ua)

	if err := readFull(r, b8[:4]); err != nil {
		return nil, err
	}
	m.LatestBlock = leUint32(b8[:4])

	// Optional relay flag.
	var relay [1]byte
	if _, err := io.ReadFull(r, relay[:]); err == nil {
		m.Relay = relay[0] != 0
	}
	return m, nil
}

// appendNetAddr appends the 16-byte address field: ten zero bytes, two 0xff
// bytes, then the IPv4 address (the IPv4-mapped IPv6 form).
func appendNetAddr(dst []byte, ip [4]byte) []byte {
	var prefix [12]byte
	prefix[10], prefix[11] = 0xff, 0xff
	dst = append(dst, prefix[:]...)
	return append(dst, ip[:]...)
}

func readNetAddr(r io.Reader) ([4]byte, error) {
	var field [16]byte
	if err := readFull(r, field[:]); err != nil {
		return [4]byte{}, err
	}
	return [4]byte(field[12:16]), nil
}
