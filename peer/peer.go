// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package peer implements a minimal protocol client: dial a node, perform the
// version/verack handshake, and run request/response exchanges (headers,
// blocks, pings) over btcwire envelopes.
//
// A Peer owns its connection and is not safe for concurrent method calls; run
// one exchange at a time. Blocking calls honor context cancellation by
// punching the connection deadline.
package peer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"time"

	"github.com/rs/zerolog"

	"code.hybscloud.com/btcwire"
)

var (
	// ErrInvalidHeaders reports a headers page that failed proof-of-work or
	// previous-hash chain verification.
	ErrInvalidHeaders = errors.New("peer: headers failed verification")

	// ErrWrongBlock reports a block whose hash differs from the one requested.
	ErrWrongBlock = errors.New("peer: block hash mismatch")

	// ErrWrongNonce reports a pong whose nonce differs from the ping's.
	ErrWrongNonce = errors.New("peer: pong nonce mismatch")
)

// Peer is one connection to a remote node.
type Peer struct {
	conn net.Conn
	w    *btcwire.Writer

	network     btcwire.Network
	userAgent   string
	latestBlock uint32
	log         zerolog.Logger

	remote *btcwire.MsgVersion
}

// Dial connects to addr (host:port) over TCP and wraps the connection in a
// Peer. No protocol traffic happens until Handshake.
func Dial(ctx context.Context, addr string, opts ...Option) (*Peer, error) {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	d := net.Dialer{Timeout: o.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("peer: dial %s: %w", addr, err)
	}
	return New(conn, opts...), nil
}

// New wraps an established connection in a Peer. The caller keeps ownership
// of nothing: Close closes the connection.
func New(conn net.Conn, opts ...Option) *Peer {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return &Peer{
		conn:        conn,
		w:           btcwire.NewWriter(conn, btcwire.WithNetwork(o.Network), btcwire.WithBlock()),
		network:     o.Network,
		userAgent:   o.UserAgent,
		latestBlock: o.LatestBlock,
		log:         o.Logger.With().Str("peer", conn.RemoteAddr().String()).Logger(),
	}
}

// Network returns the chain the peer speaks on.
func (p *Peer) Network() btcwire.Network { return p.network }

// Remote returns the remote's version message, available once the remote has
// introduced itself (typically during Handshake).
func (p *Peer) Remote() *btcwire.MsgVersion { return p.remote }

// Close closes the underlying connection.
func (p *Peer) Close() error { return p.conn.Close() }

// Handshake sends our version message and waits for the remote's verack,
// acknowledging the remote's version along the way.
func (p *Peer) Handshake(ctx context.Context) error {
	v := btcwire.NewMsgVersion()
	v.UserAgent = p.userAgent
	v.LatestBlock = p.latestBlock
	if err := p.Send(v); err != nil {
		return fmt.Errorf("peer: handshake: %w", err)
	}
	if _, err := p.WaitFor(ctx, btcwire.CmdVerAck); err != nil {
		return fmt.Errorf("peer: handshake: %w", err)
	}
	ev := p.log.Info()
	if p.remote != nil {
		ev = ev.Str("user_agent", p.remote.UserAgent).Int32("version", p.remote.Version)
	}
	ev.Msg("handshake complete")
	return nil
}

// Send serializes m and writes it as one envelope.
func (p *Peer) Send(m btcwire.Message) error {
	env, err := btcwire.MessageEnvelope(m)
	if err != nil {
		return err
	}
	p.log.Debug().Str("command", env.Command).Int("payload_len", len(env.Payload)).Msg("send")
	_, err = p.w.WriteMessage(env.Command, env.Payload)
	return err
}

// ReadEnvelope reads the next envelope from the connection.
func (p *Peer) ReadEnvelope() (*btcwire.Envelope, error) {
	env, err := btcwire.ReadEnvelope(p.conn, p.network)
	if err != nil {
		return nil, err
	}
	p.log.Debug().Str("command", env.Command).Int("payload_len", len(env.Payload)).Msg("recv")
	return env, nil
}

// WaitFor reads envelopes until one carries any of the given commands, which
// it returns. While waiting it keeps the connection healthy: a remote version
// is acknowledged with verack (and recorded), a ping is answered with a pong
// echoing its nonce.
func (p *Peer) WaitFor(ctx context.Context, commands ...string) (*btcwire.Envelope, error) {
	release := p.deadlineFrom(ctx)
	defer release()

	want := make(map[string]struct{}, len(commands))
	for _, cmd := range commands {
		want[cmd] = struct{}{}
	}
	for {
		env, err := p.ReadEnvelope()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		switch env.Command {
		case btcwire.CmdVersion:
			v, err := btcwire.ParseVersion(env.Payload)
			if err != nil {
				return nil, err
			}
			p.remote = v
			if err := p.Send(btcwire.MsgVerAck{}); err != nil {
				return nil, err
			}
		case btcwire.CmdPing:
			ping, err := btcwire.ParsePing(env.Payload)
			if err != nil {
				return nil, err
			}
			if err := p.Send(btcwire.PongFor(ping)); err != nil {
				return nil, err
			}
		}
		if _, ok := want[env.Command]; ok {
			return env, nil
		}
	}
}

// Ping measures liveness: send a ping with a fresh nonce and wait for the
// matching pong.
func (p *Peer) Ping(ctx context.Context) error {
	nonce := rand.Uint64()
	if err := p.Send(&btcwire.MsgPing{Nonce: nonce}); err != nil {
		return err
	}
	env, err := p.WaitFor(ctx, btcwire.CmdPong)
	if err != nil {
		return err
	}
	pong, err := btcwire.ParsePong(env.Payload)
	if err != nil {
		return err
	}
	if pong.Nonce != nonce {
		return ErrWrongNonce
	}
	return nil
}

// GetHeaders requests the headers following the start block (display-order
// hash) and returns one verified page.
func (p *Peer) GetHeaders(ctx context.Context, start [32]byte) ([]btcwire.BlockHeader, error) {
	if err := p.Send(btcwire.NewMsgGetHeaders(start)); err != nil {
		return nil, err
	}
	env, err := p.WaitFor(ctx, btcwire.CmdHeaders)
	if err != nil {
		return nil, err
	}
	msg, err := btcwire.ParseHeaders(env.Payload)
	if err != nil {
		return nil, err
	}
	if !msg.Verify() {
		return nil, ErrInvalidHeaders
	}
	return msg.Headers, nil
}

// GetBlockHeader requests the block named by hash (display order) via getdata
// and returns its header after checking it is the block that was asked for.
func (p *Peer) GetBlockHeader(ctx context.Context, hash [32]byte) (*btcwire.BlockHeader, error) {
	var gd btcwire.MsgGetData
	gd.Add(btcwire.InvBlock, hash)
	if err := p.Send(&gd); err != nil {
		return nil, err
	}
	env, err := p.WaitFor(ctx, btcwire.CmdBlock)
	if err != nil {
		return nil, err
	}
	// A block payload opens with the 80-byte header.
	h, err := btcwire.ParseBlockHeader(bytes.NewReader(env.Payload))
	if err != nil {
		return nil, err
	}
	if h.Hash() != hash {
		return nil, ErrWrongBlock
	}
	return h, nil
}

// deadlineFrom arms the connection deadline against ctx cancellation and
// returns a release func that disarms it and clears the deadline.
func (p *Peer) deadlineFrom(ctx context.Context) func() {
	stop := context.AfterFunc(ctx, func() {
		_ = p.conn.SetDeadline(time.Now())
	})
	return func() {
		stop()
		_ = p.conn.SetDeadline(time.Time{})
	}
}
