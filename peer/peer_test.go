// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package peer_test

import (
	"context"
	"encoding/hex"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/btcwire"
	"code.hybscloud.com/btcwire/peer"
)

const (
	headersPayloadHex = "0200000020df3b053dc46f162a9b00c7f0d5124e2676d47bbe7c5d0793a500000000000000ef445fef2ed495c275892206ca533e7411907971013ab83e3b47bd0d692d14d4dc7c835b67d8001ac157e670000000002030eb2540c41025690160a1014c577061596e32e426b712c7ca00000000000000768b89f07044e6130ead292a3f51951adbd2202df447d98789339937fd006bd44880835b67d8001ade09204600"
	blockHeaderHex    = "00000020df3b053dc46f162a9b00c7f0d5124e2676d47bbe7c5d0793a500000000000000ef445fef2ed495c275892206ca533e7411907971013ab83e3b47bd0d692d14d4dc7c835b67d8001ac157e670"

	firstBlockHash  = "00000000000000cac712b726e4326e596170574c01a16001692510c44025eb30"
	secondBlockHash = "00000000000000beb88910c46f6b442312361c6693a7fb52065b583979844910"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func hash32(t *testing.T, s string) [32]byte {
	t.Helper()
	b := mustHex(t, s)
	require.Len(t, b, 32)
	return [32]byte(b)
}

// remote scripts the far side of a net.Pipe connection. net.Pipe is
// synchronous, so scripts must interleave reads and writes in the exact order
// the peer produces them.
type remote struct {
	conn net.Conn
	w    *btcwire.Writer
}

func (r *remote) read() (*btcwire.Envelope, error) {
	return btcwire.ReadEnvelope(r.conn, btcwire.Mainnet)
}

func (r *remote) expect(command string) (*btcwire.Envelope, error) {
	env, err := r.read()
	if err != nil {
		return nil, err
	}
	if env.Command != command {
		return nil, fmt.Errorf("remote: got %q, expected %q", env.Command, command)
	}
	return env, nil
}

func (r *remote) send(command string, payload []byte) error {
	_, err := r.w.WriteMessage(command, payload)
	return err
}

func (r *remote) sendMsg(m btcwire.Message) error {
	env, err := btcwire.MessageEnvelope(m)
	if err != nil {
		return err
	}
	return r.send(env.Command, env.Payload)
}

// startRemote wires a Peer to a scripted remote. The script's error is
// checked after the connections are torn down, so a failing test body cannot
// deadlock against a blocked script.
func startRemote(t *testing.T, opts []peer.Option, script func(r *remote) error) *peer.Peer {
	t.Helper()
	client, server := net.Pipe()
	rem := &remote{conn: server, w: btcwire.NewWriter(server, btcwire.WithBlock())}
	errc := make(chan error, 1)
	t.Cleanup(func() { require.NoError(t, <-errc) })
	go func() { errc <- script(rem) }()

	p := peer.New(client, opts...)
	t.Cleanup(func() {
		p.Close()
		server.Close()
	})
	return p
}

func TestHandshake(t *testing.T) {
	p := startRemote(t, []peer.Option{peer.WithUserAgent("/client:0.1/")}, func(r *remote) error {
		if _, err := r.expect(btcwire.CmdVersion); err != nil {
			return err
		}
		v := btcwire.NewMsgVersion()
		v.UserAgent = "/remote:0.1/"
		if err := r.sendMsg(v); err != nil {
			return err
		}
		if _, err := r.expect(btcwire.CmdVerAck); err != nil {
			return err
		}
		return r.sendMsg(btcwire.MsgVerAck{})
	})

	require.NoError(t, p.Handshake(context.Background()))
	require.NotNil(t, p.Remote())
	require.Equal(t, "/remote:0.1/", p.Remote().UserAgent)
}

func TestPing(t *testing.T) {
	p := startRemote(t, nil, func(r *remote) error {
		env, err := r.expect(btcwire.CmdPing)
		if err != nil {
			return err
		}
		ping, err := btcwire.ParsePing(env.Payload)
		if err != nil {
			return err
		}
		return r.sendMsg(btcwire.PongFor(ping))
	})

	require.NoError(t, p.Ping(context.Background()))
}

func TestPingWrongNonce(t *testing.T) {
	p := startRemote(t, nil, func(r *remote) error {
		env, err := r.expect(btcwire.CmdPing)
		if err != nil {
			return err
		}
		ping, err := btcwire.ParsePing(env.Payload)
		if err != nil {
			return err
		}
		return r.sendMsg(&btcwire.MsgPong{Nonce: ping.Nonce + 1})
	})

	require.ErrorIs(t, p.Ping(context.Background()), peer.ErrWrongNonce)
}

func TestWaitForAnswersPing(t *testing.T) {
	const nonce = 7
	p := startRemote(t, nil, func(r *remote) error {
		if err := r.sendMsg(&btcwire.MsgPing{Nonce: nonce}); err != nil {
			return err
		}
		env, err := r.expect(btcwire.CmdPong)
		if err != nil {
			return err
		}
		pong, err := btcwire.ParsePong(env.Payload)
		if err != nil {
			return err
		}
		if pong.Nonce != nonce {
			return fmt.Errorf("remote: pong nonce %d, expected %d", pong.Nonce, nonce)
		}
		return r.sendMsg(btcwire.MsgVerAck{})
	})

	env, err := p.WaitFor(context.Background(), btcwire.CmdVerAck)
	require.NoError(t, err)
	require.Equal(t, btcwire.CmdVerAck, env.Command)
}

func TestGetHeaders(t *testing.T) {
	payload := mustHex(t, headersPayloadHex)
	p := startRemote(t, nil, func(r *remote) error {
		if _, err := r.expect(btcwire.CmdGetHeaders); err != nil {
			return err
		}
		return r.send(btcwire.CmdHeaders, payload)
	})

	start := hash32(t, "00000000000000a593075d7cbe7bd476264e12d5f0c7009b2a166fc43d053bdf")
	headers, err := p.GetHeaders(context.Background(), start)
	require.NoError(t, err)
	require.Len(t, headers, 2)
	require.Equal(t, hash32(t, firstBlockHash), headers[0].Hash())
	require.Equal(t, hash32(t, secondBlockHash), headers[1].Hash())
}

func TestGetBlockHeader(t *testing.T) {
	block := mustHex(t, blockHeaderHex)
	p := startRemote(t, nil, func(r *remote) error {
		env, err := r.expect(btcwire.CmdGetData)
		if err != nil {
			return err
		}
		gd, err := btcwire.ParseGetData(env.Payload)
		if err != nil {
			return err
		}
		if len(gd.Items) != 1 || gd.Items[0].Type != btcwire.InvBlock {
			return fmt.Errorf("remote: unexpected getdata %+v", gd.Items)
		}
		return r.send(btcwire.CmdBlock, block)
	})

	h, err := p.GetBlockHeader(context.Background(), hash32(t, firstBlockHash))
	require.NoError(t, err)
	require.Equal(t, hash32(t, firstBlockHash), h.Hash())
}

func TestGetBlockHeaderWrongBlock(t *testing.T) {
	block := mustHex(t, blockHeaderHex)
	p := startRemote(t, nil, func(r *remote) error {
		if _, err := r.expect(btcwire.CmdGetData); err != nil {
			return err
		}
		return r.send(btcwire.CmdBlock, block)
	})

	_, err := p.GetBlockHeader(context.Background(), hash32(t, secondBlockHash))
	require.ErrorIs(t, err, peer.ErrWrongBlock)
}

func TestWaitForContextCancellation(t *testing.T) {
	p := startRemote(t, nil, func(r *remote) error {
		_, err := r.expect(btcwire.CmdPing)
		return err
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := p.Ping(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
