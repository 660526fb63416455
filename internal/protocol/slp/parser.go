package slp

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Parser extracts packets from a growing byte buffer. Until the first header
// with a valid checksum is seen it scans for one; after that every framing
// error is fatal.
type Parser struct {
	synced bool
}

// Synced reports whether the parser has locked on to a valid header.
func (p *Parser) Synced() bool {
	return p.synced
}

// Reset drops lock-on so the next Parse resynchronizes.
func (p *Parser) Reset() {
	p.synced = false
}

// Parse delivers every complete packet in buf to emit, in order, and returns
// how many leading bytes of buf were consumed. Bytes of an incomplete packet
// are left unconsumed so they can be rescanned once more data arrives.
//
// Packets passed to emit borrow from buf. If emit fails, parsing stops and the
// consumed count includes the packet that was delivered.
func (p *Parser) Parse(buf []byte, emit func(Packet) error) (int, error) {
	pos := 0
	if !p.synced {
		start, found := resync(buf)
		if !found {
			return start, nil
		}
		log.Debug().Int("offset", start).Msg("slp.Parse locked on")
		p.synced = true
		pos = start
	}

	for len(buf)-pos >= HeaderLen+FooterLen {
		header := buf[pos : pos+HeaderLen]
		if header[0] != Magic1 || header[1] != Magic2 || header[2] != Magic3 {
			return pos, &FrameError{Err: ErrBadMagic, Offset: pos}
		}
		if sum := HeaderChecksum(header[:offChecksum]); sum != header[offChecksum] {
			return pos, &FrameError{
				Err:    ErrHeaderChecksum,
				Offset: pos,
				Want:   uint16(sum),
				Got:    uint16(header[offChecksum]),
			}
		}

		dataLen := int(binary.BigEndian.Uint16(header[offDataLen : offDataLen+2]))
		end := pos + HeaderLen + dataLen
		if len(buf)-end < FooterLen {
			break
		}
		got := binary.BigEndian.Uint16(buf[end : end+FooterLen])
		if want := CRC16(buf[pos:end]); want != got {
			return pos, &FrameError{Err: ErrFooterCRC, Offset: pos, Want: want, Got: got}
		}

		pkt := Packet{
			Dest:    header[offDest],
			Src:     header[offSrc],
			Type:    header[offType],
			TxnID:   header[offTxnID],
			Payload: buf[pos+HeaderLen : end : end],
		}
		pos = end + FooterLen
		if err := emit(pkt); err != nil {
			return pos, fmt.Errorf("slp: packet handler: %w", err)
		}
	}
	return pos, nil
}

// resync finds the first header whose magic and checksum are valid. When none
// is found it returns how many leading bytes can never begin one.
func resync(buf []byte) (int, bool) {
	i := 0
	for i < len(buf) {
		j := bytes.IndexByte(buf[i:], Magic1)
		if j < 0 {
			return len(buf), false
		}
		i += j
		if len(buf)-i < HeaderLen {
			return i, false
		}
		if buf[i+1] != Magic2 || buf[i+2] != Magic3 {
			i++
			continue
		}
		if HeaderChecksum(buf[i:i+offChecksum]) == buf[i+offChecksum] {
			return i, true
		}
		log.Trace().Int("offset", i).Msg("slp.resync rejected candidate header")
		i++
	}
	return len(buf), false
}
