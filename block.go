// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

import (
	"io"
	"math/big"
)

// BlockHeaderLen is the wire size of a block header.
const BlockHeaderLen = 80

// BlockHeader is the 80-byte chain header.
//
// Hash-valued fields (PrevBlock, MerkleRoot, and the Hash result) are held in
// display order — the big-endian form block explorers print. The wire carries
// them reversed; the codec converts at the boundary.
type BlockHeader struct {
	Version    uint32
	PrevBlock  [32]byte
	MerkleRoot [32]byte
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

// ParseBlockHeader reads one 80-byte header from r.
func ParseBlockHeader(r io.Reader) (*BlockHeader, error) {
	var b [BlockHeaderLen]byte
	if err := readFull(r, b[:]); err != nil {
		return nil, err
	}
	h := &BlockHeader{
		Version:    leUint32(b[0:4]),
		PrevBlock:  reverse32([32]byte(b[4:36])),
		MerkleRoot: reverse32([32]byte(b[36:68])),
		Timestamp:  leUint32(b[68:72]),
		Bits:       leUint32(b[72:76]),
		Nonce:      leUint32(b[76:80]),
	}
	return h, nil
}

// AppendTo appends the 80-byte wire encoding of the header to dst.
func (h *BlockHeader) AppendTo(dst []byte) []byte {
	dst = appendUint32LE(dst, h.Version)
	prev := reverse32(h.PrevBlock)
	dst = append(dst, prev[:]...)
	merkle := reverse32(h.MerkleRoot)
	dst = append(dst, merkle[:]...)
	dst = appendUint32LE(dst, h.Timestamp)
	dst = appendUint32LE(dst, h.Bits)
	dst = appendUint32LE(dst, h.Nonce)
	return dst
}

// Serialize returns the 80-byte wire encoding of the header.
func (h *BlockHeader) Serialize() []byte {
	return h.AppendTo(make([]byte, 0, BlockHeaderLen))
}

// Hash returns the header's block hash in display order.
func (h *BlockHeader) Hash() [32]byte {
	return reverse32(Hash256(h.Serialize()))
}

// Target expands the compact Bits field: the low three bytes are the
// coefficient and the top byte is a base-256 exponent, giving
// coefficient * 256^(exponent-3).
func (h *BlockHeader) Target() *big.Int {
	exponent := uint(h.Bits >> 24)
	coefficient := big.NewInt(int64(h.Bits & 0x00ffffff))
	if exponent < 3 {
		return coefficient.Rsh(coefficient, 8*(3-exponent))
	}
	return coefficient.Lsh(coefficient, 8*(exponent-3))
}

// CheckProofOfWork reports whether the header's hash is below its target.
func (h *BlockHeader) CheckProofOfWork() bool {
	hash := h.Hash()
	return new(big.Int).SetBytes(hash[:]).Cmp(h.Target()) < 0
}

// Difficulty returns the header's difficulty relative to the genesis target.
func (h *BlockHeader) Difficulty() *big.Float {
	lowest := new(big.Int).Lsh(big.NewInt(0xffff), 8*(0x1d-3))
	return new(big.Float).Quo(new(big.Float).SetInt(lowest), new(big.Float).SetInt(h.Target()))
}

func reverse32(b [32]byte) [32]byte {
	for i, j := 0, 31; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}
