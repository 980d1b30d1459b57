// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

import "time"

// Options configures envelope codec behavior.
type Options struct {
	// Network selects the expected envelope magic. Default Mainnet.
	Network Network

	// ReadLimit caps the maximum allowed payload size (bytes). Zero means the
	// protocol maximum (MaxPayload) applies on its own.
	ReadLimit int

	// VerifyChecksum controls whether the reader validates the payload
	// checksum. On by default; relays that re-verify elsewhere can disable it.
	VerifyChecksum bool

	// RetryDelay controls how the codec handles iox.ErrWouldBlock from the underlying transport:
	//   - negative: nonblock, return ErrWouldBlock immediately
	//   - zero: yield (runtime.Gosched) and retry
	//   - positive: sleep for the duration and retry
	RetryDelay time.Duration
}

var defaultOptions = Options{
	Network:        Mainnet,
	ReadLimit:      0,
	VerifyChecksum: true,
	RetryDelay:     -1, // default: nonblock
}

type Option func(*Options)

// WithNetwork sets the network whose magic envelopes must carry.
func WithNetwork(n Network) Option {
	return func(o *Options) { o.Network = n }
}

// WithMainnet configures mainnet magic (the default).
func WithMainnet() Option { return WithNetwork(Mainnet) }

// WithTestnet configures testnet magic.
func WithTestnet() Option { return WithNetwork(Testnet) }

// WithSignet configures signet magic.
func WithSignet() Option { return WithNetwork(Signet) }

// WithReadLimit caps accepted payload sizes below the protocol maximum.
func WithReadLimit(limit int) Option {
	return func(o *Options) { o.ReadLimit = limit }
}

// WithoutChecksum disables payload checksum verification on the read side.
func WithoutChecksum() Option {
	return func(o *Options) { o.VerifyChecksum = false }
}

// WithRetryDelay sets the retry/wait policy used when the underlying transport returns iox.ErrWouldBlock.
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) { o.RetryDelay = d }
}

// WithBlock enables cooperative blocking (yield-and-retry) on iox.ErrWouldBlock.
func WithBlock() Option {
	return func(o *Options) { o.RetryDelay = 0 }
}

// WithNonblock forces non-blocking behavior (return iox.ErrWouldBlock immediately).
func WithNonblock() Option {
	return func(o *Options) { o.RetryDelay = -1 }
}
