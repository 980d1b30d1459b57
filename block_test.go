// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire_test

import (
	"bytes"
	"io"
	"testing"

	"code.hybscloud.com/btcwire"
)

// The first header from the captured headers payload.
const blockHeaderHex = "00000020df3b053dc46f162a9b00c7f0d5124e2676d47bbe7c5d0793a500000000000000ef445fef2ed495c275892206ca533e7411907971013ab83e3b47bd0d692d14d4dc7c835b67d8001ac157e670"

func TestParseBlockHeader(t *testing.T) {
	raw := mustHex(t, blockHeaderHex)
	h, err := btcwire.ParseBlockHeader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if h.Version != 0x20000000 {
		t.Fatalf("version=%#x", h.Version)
	}
	if h.PrevBlock != hash32(t, "00000000000000a593075d7cbe7bd476264e12d5f0c7009b2a166fc43d053bdf") {
		t.Fatalf("prev block=%x", h.PrevBlock)
	}
	if h.Hash() != hash32(t, "00000000000000cac712b726e4326e596170574c01a16001692510c44025eb30") {
		t.Fatalf("hash=%x", h.Hash())
	}
	if got := h.Serialize(); !bytes.Equal(got, raw) {
		t.Fatalf("round trip mismatch:\n got %x\nwant %x", got, raw)
	}
}

func TestBlockHeaderTarget(t *testing.T) {
	raw := mustHex(t, blockHeaderHex)
	h, err := btcwire.ParseBlockHeader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// bits 0x1a00d867: coefficient 0x00d867, exponent 0x1a.
	if h.Bits != 0x1a00d867 {
		t.Fatalf("bits=%#x", h.Bits)
	}
	target := h.Target()
	if target.Sign() <= 0 {
		t.Fatalf("target not positive")
	}
	// target = 0xd867 * 256^(0x1a-3); its byte length is 2 + 23.
	if got := len(target.Bytes()); got != 25 {
		t.Fatalf("target byte length=%d", got)
	}
	if !h.CheckProofOfWork() {
		t.Fatalf("proof of work failed for a real header")
	}
	if d, _ := h.Difficulty().Float64(); d < 1 {
		t.Fatalf("difficulty=%v below minimum", d)
	}
}

func TestCheckProofOfWorkRejectsTampering(t *testing.T) {
	raw := mustHex(t, blockHeaderHex)
	h, err := btcwire.ParseBlockHeader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	h.Nonce++
	if h.CheckProofOfWork() {
		t.Fatalf("tampered header still passes proof of work")
	}
}

func TestParseBlockHeaderTruncated(t *testing.T) {
	raw := mustHex(t, blockHeaderHex)
	if _, err := btcwire.ParseBlockHeader(bytes.NewReader(raw[:79])); err != io.ErrUnexpectedEOF {
		t.Fatalf("err=%v want io.ErrUnexpectedEOF", err)
	}
}
