// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bo reports the machine's native byte order.
//
// The wire format of the protocol is fixed little-endian; integer codecs use
// this package to pick a direct load/store path on little-endian hosts.
// Selection is architecture-specific via build tags where commonly known, and
// falls back to a portable runtime detection elsewhere.
package bo
