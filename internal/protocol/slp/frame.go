package slp

import (
	"encoding/binary"
	"fmt"
)

// Encode writes p into buf and returns the number of bytes written. buf must
// hold at least p.EncodedLen() bytes.
func Encode(buf []byte, p Packet) (int, error) {
	if len(p.Payload) > MaxPayload {
		return 0, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(p.Payload))
	}
	total := p.EncodedLen()
	if len(buf) < total {
		return 0, fmt.Errorf("%w: need %d have %d", ErrShortBuffer, total, len(buf))
	}

	buf[0] = Magic1
	buf[1] = Magic2
	buf[2] = Magic3
	buf[offDest] = p.Dest
	buf[offSrc] = p.Src
	buf[offType] = p.Type
	binary.BigEndian.PutUint16(buf[offDataLen:offDataLen+2], uint16(len(p.Payload)))
	buf[offTxnID] = p.TxnID
	buf[offChecksum] = HeaderChecksum(buf[:offChecksum])

	end := HeaderLen + copy(buf[HeaderLen:], p.Payload)
	binary.BigEndian.PutUint16(buf[end:end+FooterLen], CRC16(buf[:end]))
	return total, nil
}

// AppendPacket appends the encoding of p to dst.
func AppendPacket(dst []byte, p Packet) ([]byte, error) {
	start := len(dst)
	need := p.EncodedLen()
	if cap(dst)-start < need {
		grown := make([]byte, start, start+need)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:start+need]
	if _, err := Encode(dst[start:], p); err != nil {
		return dst[:start], err
	}
	return dst, nil
}
