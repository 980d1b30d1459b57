// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

// Network selects the chain a connection speaks on.
//
// Single source of truth — network → (magic, default port):
//   - Mainnet → f9beb4d9, 8333
//   - Testnet → 0b110907, 18333
//   - Signet  → 0a03cf40, 38333
//
// The four magic bytes open every envelope and let a receiver resynchronize
// and reject peers from the wrong chain.
type Network uint8

const (
	Mainnet Network = iota
	Testnet
	Signet
)

var networkMagic = [...][4]byte{
	Mainnet: {0xf9, 0xbe, 0xb4, 0xd9},
	Testnet: {0x0b, 0x11, 0x09, 0x07},
	Signet:  {0x0a, 0x03, 0xcf, 0x40},
}

var networkPort = [...]uint16{
	Mainnet: 8333,
	Testnet: 18333,
	Signet:  38333,
}

var networkName = [...]string{
	Mainnet: "mainnet",
	Testnet: "testnet",
	Signet:  "signet",
}

func (n Network) valid() bool { return int(n) < len(networkMagic) }

// Magic returns the four-byte envelope prefix for the network.
func (n Network) Magic() [4]byte {
	if !n.valid() {
		return [4]byte{}
	}
	return networkMagic[n]
}

// DefaultPort returns the conventional TCP port for the network.
func (n Network) DefaultPort() uint16 {
	if !n.valid() {
		return 0
	}
	return networkPort[n]
}

func (n Network) String() string {
	if !n.valid() {
		return "unknown"
	}
	return networkName[n]
}

// ParseNetwork maps a network name to its Network value.
func ParseNetwork(name string) (Network, error) {
	for i, s := range networkName {
		if s == name {
			return Network(i), nil
		}
	}
	return 0, ErrInvalidArgument
}
