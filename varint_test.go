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

func TestVarintRoundTrip(t *testing.T) {
	cases := []struct {
		n    uint64
		size int
	}{
		{0, 1},
		{1, 1},
		{0xfc, 1},
		{0xfd, 3},
		{0xffff, 3},
		{0x10000, 5},
		{0xffffffff, 5},
		{0x100000000, 9},
		{1<<64 - 1, 9},
	}
	for _, tc := range cases {
		enc := btcwire.AppendVarint(nil, tc.n)
		if len(enc) != tc.size {
			t.Fatalf("n=%d: encoded %d bytes want %d", tc.n, len(enc), tc.size)
		}
		if got := btcwire.VarintLen(tc.n); got != tc.size {
			t.Fatalf("n=%d: VarintLen=%d want %d", tc.n, got, tc.size)
		}
		back, err := btcwire.ReadVarint(bytes.NewReader(enc))
		if err != nil {
			t.Fatalf("n=%d: decode: %v", tc.n, err)
		}
		if back != tc.n {
			t.Fatalf("n=%d: round trip gave %d", tc.n, back)
		}
	}
}

func TestVarintKnownEncodings(t *testing.T) {
	cases := []struct {
		n   uint64
		hex []byte
	}{
		{100, []byte{0x64}},
		{255, []byte{0xfd, 0xff, 0x00}},
		{555, []byte{0xfd, 0x2b, 0x02}},
		{70015, []byte{0xfe, 0x7f, 0x11, 0x01, 0x00}},
	}
	for _, tc := range cases {
		if got := btcwire.AppendVarint(nil, tc.n); !bytes.Equal(got, tc.hex) {
			t.Fatalf("n=%d: got %x want %x", tc.n, got, tc.hex)
		}
	}
}

func TestVarintTruncated(t *testing.T) {
	for _, enc := range [][]byte{
		{0xfd},
		{0xfd, 0x2b},
		{0xfe, 0x7f, 0x11},
		{0xff, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
	} {
		if _, err := btcwire.ReadVarint(bytes.NewReader(enc)); err != io.ErrUnexpectedEOF {
			t.Fatalf("enc=%x: err=%v want io.ErrUnexpectedEOF", enc, err)
		}
	}
	if _, err := btcwire.ReadVarint(bytes.NewReader(nil)); err != io.EOF {
		t.Fatalf("empty: err=%v want io.EOF", err)
	}
}
