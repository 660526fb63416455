package slp

import (
	"fmt"
	"strconv"
)

const (
	Magic1 byte = 0xBE
	Magic2 byte = 0xEF
	Magic3 byte = 0xED

	HeaderLen  = 10
	FooterLen  = 2
	MaxPayload = 0xFFFF
	// MaxFrameLen is the largest encoded packet.
	MaxFrameLen = HeaderLen + MaxPayload + FooterLen
)

// Header byte offsets.
const (
	offDest     = 3
	offSrc      = 4
	offType     = 5
	offDataLen  = 6
	offTxnID    = 8
	offChecksum = 9
)

// Packet types.
const (
	TypeSystem   byte = 0
	TypePAD      byte = 2
	TypeLoopback byte = 3
)

// Well-known socket ids.
const (
	SocketDebugger byte = 0
	SocketConsole  byte = 1
	SocketRemoteUI byte = 2
	SocketDLP      byte = 3
)

// Packet is one link-layer packet. When produced by a Parser, Payload is a
// view into the parse buffer.
type Packet struct {
	Dest    byte
	Src     byte
	Type    byte
	TxnID   byte
	Payload []byte
}

// EncodedLen is the number of bytes Encode writes for p.
func (p Packet) EncodedLen() int {
	return HeaderLen + len(p.Payload) + FooterLen
}

// Clone returns a copy of p that owns its payload.
func (p Packet) Clone() Packet {
	out := p
	if p.Payload != nil {
		out.Payload = append([]byte(nil), p.Payload...)
	}
	return out
}

func (p Packet) String() string {
	return fmt.Sprintf("slp{dest=%d src=%d type=%d txn=%d len=%d}", p.Dest, p.Src, p.Type, p.TxnID, len(p.Payload))
}

// TypeName names a packet type, falling back to its decimal value.
func TypeName(t byte) string {
	switch t {
	case TypeSystem:
		return "system"
	case TypePAD:
		return "pad"
	case TypeLoopback:
		return "loopback"
	default:
		return strconv.Itoa(int(t))
	}
}
