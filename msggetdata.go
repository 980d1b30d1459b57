// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package btcwire

import "bytes"

// InvType identifies what a getdata item asks for.
type InvType uint32

const (
	InvTx            InvType = 1
	InvBlock         InvType = 2
	InvFilteredBlock InvType = 3
	InvCompactBlock  InvType = 4
)

// InvItem is one inventory entry: a type tag and an identifying hash in
// display order.
type InvItem struct {
	Type InvType
	Hash [32]byte
}

// MsgGetData asks a peer for the objects named by its inventory items.
type MsgGetData struct {
	Items []InvItem
}

// Add appends one inventory item.
func (m *MsgGetData) Add(t InvType, hash [32]byte) {
	m.Items = append(m.Items, InvItem{Type: t, Hash: hash})
}

func (m *MsgGetData) Command() string { return CmdGetData }

func (m *MsgGetData) MarshalPayload() ([]byte, error) {
	p := make([]byte, 0, VarintLen(uint64(len(m.Items)))+len(m.Items)*36)
	p = AppendVarint(p, uint64(len(m.Items)))
	for _, item := range m.Items {
		p = appendUint32LE(p, uint32(item.Type))
		hash := reverse32(item.Hash)
		p = append(p, hash[:]...)
	}
	return p, nil
}

// ParseGetData decodes a getdata payload.
func ParseGetData(payload []byte) (*MsgGetData, error) {
	r := bytes.NewReader(payload)
	count, err := ReadVarint(r)
	if err != nil {
		return nil, eofToUnexpected(err)
	}
	m := &MsgGetData{}
	var b [36]byte
	for i := uint64(0); i < count; i++ {
		if err := readFull(r, b[:]); err != nil {
			return nil, err
		}
		m.Items = append(m.Items, InvItem{
			Type: InvType(leUint32(b[0:4])),
			Hash: reverse32([32]byte(b[4:36])),
		})
	}
	return m, nil
}
