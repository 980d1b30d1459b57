// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/btcwire"
	"code.hybscloud.com/btcwire/peer"
)

// relayBufLimit sizes each relay direction's payload buffer. Covers full
// blocks at standard weight with headroom.
const relayBufLimit = 8 << 20

func dialPeer(ctx context.Context, v *viper.Viper) (*peer.Peer, error) {
	network, err := networkFrom(v)
	if err != nil {
		return nil, err
	}
	addr := v.GetString("addr")
	if addr == "" {
		return nil, errors.New("an --addr is required")
	}
	return peer.Dial(ctx, withDefaultPort(addr, network),
		peer.WithNetwork(network),
		peer.WithUserAgent(v.GetString("user_agent")),
		peer.WithLogger(newLogger(v)),
	)
}

func handshakeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handshake",
		Short: "Connect to a node and complete the version/verack handshake",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			p, err := dialPeer(ctx, v)
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.Handshake(ctx); err != nil {
				return err
			}
			if remote := p.Remote(); remote != nil {
				fmt.Printf("connected: version=%d user_agent=%s height=%d relay=%v\n",
					remote.Version, remote.UserAgent, remote.LatestBlock, remote.Relay)
			}
			return p.Ping(ctx)
		},
	}
	cmd.Flags().String("addr", "", "node address (host or host:port)")
	return cmd
}

func headersCommand(v *viper.Viper) *cobra.Command {
	var (
		startHex string
		pages    int
	)
	cmd := &cobra.Command{
		Use:   "headers",
		Short: "Download and verify block header pages starting after a block",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			start, err := parseHash(startHex)
			if err != nil {
				return fmt.Errorf("bad --start: %w", err)
			}

			p, err := dialPeer(ctx, v)
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.Handshake(ctx); err != nil {
				return err
			}

			log := newLogger(v)
			total := 0
			for page := 0; page < pages; page++ {
				headers, err := p.GetHeaders(ctx, start)
				if err != nil {
					return err
				}
				if len(headers) == 0 {
					break
				}
				total += len(headers)
				first := headers[0].Hash()
				last := headers[len(headers)-1].Hash()
				log.Info().
					Int("page", page).
					Int("count", len(headers)).
					Str("first", hex.EncodeToString(first[:])).
					Str("last", hex.EncodeToString(last[:])).
					Msg("verified header page")
				start = last
			}
			fmt.Printf("verified %d headers\n", total)
			return nil
		},
	}
	cmd.Flags().String("addr", "", "node address (host or host:port)")
	cmd.Flags().StringVar(&startHex, "start", "", "hex block hash (display order) to start after")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of header pages to download")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func relayCommand(v *viper.Viper) *cobra.Command {
	var (
		listenAddr   string
		upstreamAddr string
	)
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Accept one connection and relay envelopes to/from an upstream node",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			network, err := networkFrom(v)
			if err != nil {
				return err
			}
			log := newLogger(v)

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return err
			}
			defer ln.Close()
			// Unblock Accept on shutdown.
			stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
			defer stop()

			log.Info().Str("listen", ln.Addr().String()).Str("upstream", upstreamAddr).Msg("relay ready")
			client, err := ln.Accept()
			if err != nil {
				return relayExit(ctx, err)
			}
			defer client.Close()

			d := net.Dialer{Timeout: 30 * time.Second}
			upstream, err := d.DialContext(ctx, "tcp", withDefaultPort(upstreamAddr, network))
			if err != nil {
				return err
			}
			defer upstream.Close()

			g, gctx := errgroup.WithContext(ctx)
			closeBoth := context.AfterFunc(gctx, func() {
				_ = client.Close()
				_ = upstream.Close()
			})
			defer closeBoth()

			g.Go(func() error { return pump(upstream, client, network) })
			g.Go(func() error { return pump(client, upstream, network) })
			return relayExit(ctx, g.Wait())
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:0", "address to accept a connection on")
	cmd.Flags().StringVar(&upstreamAddr, "upstream", "", "upstream node address")
	_ = cmd.MarkFlagRequired("upstream")
	return cmd
}

// relayExit maps the errors a shutdown provokes to a clean exit. Cancelling
// the signal context closes the listener and both connections, so the
// resulting "use of closed network connection" failures are the normal way
// the relay stops, not defects to report.
func relayExit(ctx context.Context, err error) error {
	if err == nil || ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// pump relays envelopes from src to dst until the stream ends.
func pump(dst io.Writer, src io.Reader, network btcwire.Network) error {
	rl := btcwire.NewRelay(dst, src,
		btcwire.WithNetwork(network),
		btcwire.WithReadLimit(relayBufLimit),
		btcwire.WithBlock(),
	)
	for {
		if _, err := rl.RelayOnce(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// parseHash decodes a 64-hex-digit display-order block hash.
func parseHash(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, btcwire.ErrLengthMismatch
	}
	copy(out[:], b)
	return out, nil
}
