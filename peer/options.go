// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package peer

import (
	"time"

	"github.com/rs/zerolog"

	"code.hybscloud.com/btcwire"
)

// Options configures a Peer.
type Options struct {
	// Network selects the chain the peer speaks on. Default Mainnet.
	Network btcwire.Network

	// UserAgent is announced in the version message.
	UserAgent string

	// LatestBlock is the chain height announced in the version message.
	LatestBlock uint32

	// Logger receives per-envelope debug logging. Default: disabled.
	Logger zerolog.Logger

	// DialTimeout bounds connection establishment in Dial.
	DialTimeout time.Duration
}

var defaultOptions = Options{
	Network:     btcwire.Mainnet,
	UserAgent:   btcwire.DefaultUserAgent,
	Logger:      zerolog.Nop(),
	DialTimeout: 30 * time.Second,
}

type Option func(*Options)

// WithNetwork sets the chain the peer speaks on.
func WithNetwork(n btcwire.Network) Option {
	return func(o *Options) { o.Network = n }
}

// WithUserAgent sets the user agent announced during the handshake.
func WithUserAgent(ua string) Option {
	return func(o *Options) { o.UserAgent = ua }
}

// WithLatestBlock sets the height announced during the handshake.
func WithLatestBlock(height uint32) Option {
	return func(o *Options) { o.LatestBlock = height }
}

// WithLogger enables structured logging of envelope traffic.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Options) { o.Logger = log }
}

// WithDialTimeout bounds connection establishment in Dial.
func WithDialTimeout(d time.Duration) Option {
	return func(o *Options) { o.DialTimeout = d }
}
