// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire_test

import (
	"encoding/hex"
	"testing"

	"code.hybscloud.com/btcwire"
)

func TestMsgGetDataMarshal(t *testing.T) {
	want := "020300000030eb2540c41025690160a1014c577061596e32e426b712c7ca00000000000000030000001049847939585b0652fba793661c361223446b6fc41089b8be00000000000000"

	var m btcwire.MsgGetData
	m.Add(btcwire.InvFilteredBlock, hash32(t, "00000000000000cac712b726e4326e596170574c01a16001692510c44025eb30"))
	m.Add(btcwire.InvFilteredBlock, hash32(t, "00000000000000beb88910c46f6b442312361c6693a7fb52065b583979844910"))

	p, err := m.MarshalPayload()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := hex.EncodeToString(p); got != want {
		t.Fatalf("payload mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestParseGetDataRoundTrip(t *testing.T) {
	var m btcwire.MsgGetData
	m.Add(btcwire.InvTx, hash32(t, "00000000000000cac712b726e4326e596170574c01a16001692510c44025eb30"))
	m.Add(btcwire.InvBlock, hash32(t, "0000000000000000001237f46acddf58578a37e213d2a6edc4884a2fcad05ba3"))

	p, err := m.MarshalPayload()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := btcwire.ParseGetData(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(back.Items) != 2 {
		t.Fatalf("got %d items", len(back.Items))
	}
	for i := range m.Items {
		if back.Items[i] != m.Items[i] {
			t.Fatalf("items[%d]: got %+v want %+v", i, back.Items[i], m.Items[i])
		}
	}
}
