// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

import "crypto/sha256"

// Hash256 returns the double SHA-256 of b, the protocol's standard digest.
func Hash256(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// checksum4 returns the envelope checksum: the first four bytes of
// Hash256(payload).
func checksum4(b []byte) [4]byte {
	h := Hash256(b)
	return [4]byte{h[0], h[1], h[2], h[3]}
}
