package slp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/danmuck/hotsync/internal/testutil/testlog"
)

func collect(t *testing.T, p *Parser, buf []byte) ([]Packet, int, error) {
	t.Helper()
	var out []Packet
	n, err := p.Parse(buf, func(pkt Packet) error {
		out = append(out, pkt.Clone())
		return nil
	})
	return out, n, err
}

func mustEncode(t *testing.T, p Packet) []byte {
	t.Helper()
	b, err := AppendPacket(nil, p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return b
}

func TestEncodeLayout(t *testing.T) {
	testlog.Start(t)
	b := mustEncode(t, Packet{Dest: 1, Src: 2, Type: 3, TxnID: 4, Payload: []byte{0xAA, 0xBB}})
	if len(b) != HeaderLen+2+FooterLen {
		t.Fatalf("unexpected length %d", len(b))
	}
	wantHeader := []byte{0xBE, 0xEF, 0xED, 1, 2, 3, 0x00, 0x02, 4}
	if !bytes.Equal(b[:9], wantHeader) {
		t.Fatalf("header=% x want % x", b[:9], wantHeader)
	}
	if b[9] != HeaderChecksum(wantHeader) {
		t.Fatalf("header checksum=%#02x", b[9])
	}
	if !bytes.Equal(b[10:12], []byte{0xAA, 0xBB}) {
		t.Fatalf("payload=% x", b[10:12])
	}
	if got := binary.BigEndian.Uint16(b[12:]); got != CRC16(b[:12]) {
		t.Fatalf("crc=%#04x want %#04x", got, CRC16(b[:12]))
	}
}

func TestFrameRoundTrip(t *testing.T) {
	testlog.Start(t)
	in := Packet{Dest: 1, Src: 2, Type: 3, TxnID: 4, Payload: []byte{0xAA, 0xBB}}
	var p Parser
	got, n, err := collect(t, &p, mustEncode(t, in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n != in.EncodedLen() {
		t.Fatalf("consumed=%d want %d", n, in.EncodedLen())
	}
	if len(got) != 1 {
		t.Fatalf("packets=%d", len(got))
	}
	out := got[0]
	if out.Dest != 1 || out.Src != 2 || out.Type != 3 || out.TxnID != 4 || !bytes.Equal(out.Payload, in.Payload) {
		t.Fatalf("unexpected packet: %+v", out)
	}
}

func TestEncodeRejectsOversizedPayload(t *testing.T) {
	testlog.Start(t)
	_, err := AppendPacket(nil, Packet{Payload: make([]byte, MaxPayload+1)})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	if _, err := Encode(make([]byte, 4), Packet{}); !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestParseEmptyPayloadAndMultiplePackets(t *testing.T) {
	testlog.Start(t)
	var stream []byte
	stream = append(stream, mustEncode(t, Packet{Dest: 3, Src: 3, Type: TypePAD, TxnID: 1})...)
	stream = append(stream, mustEncode(t, Packet{Dest: 3, Src: 3, Type: TypePAD, TxnID: 2, Payload: []byte("hi")})...)
	var p Parser
	got, n, err := collect(t, &p, stream)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n != len(stream) || len(got) != 2 {
		t.Fatalf("consumed=%d packets=%d", n, len(got))
	}
	if got[0].TxnID != 1 || len(got[0].Payload) != 0 || got[1].TxnID != 2 || string(got[1].Payload) != "hi" {
		t.Fatalf("unexpected packets: %+v", got)
	}
}

func TestParseIncompletePacketIsRetainedUntilComplete(t *testing.T) {
	testlog.Start(t)
	first := mustEncode(t, Packet{Dest: 1, Src: 1, TxnID: 9, Payload: []byte("one")})
	second := mustEncode(t, Packet{Dest: 1, Src: 1, TxnID: 10, Payload: []byte("second packet")})
	stream := append(append([]byte(nil), first...), second...)

	var p Parser
	partial := stream[:len(first)+HeaderLen+3]
	got, n, err := collect(t, &p, partial)
	if err != nil {
		t.Fatalf("parse partial: %v", err)
	}
	if len(got) != 1 || n != len(first) {
		t.Fatalf("partial: packets=%d consumed=%d", len(got), n)
	}

	got, n, err = collect(t, &p, stream[n:])
	if err != nil {
		t.Fatalf("parse rest: %v", err)
	}
	if len(got) != 1 || n != len(second) || string(got[0].Payload) != "second packet" {
		t.Fatalf("rest: packets=%+v consumed=%d", got, n)
	}
}

func TestPayloadIsViewIntoBuffer(t *testing.T) {
	testlog.Start(t)
	buf := mustEncode(t, Packet{Payload: []byte{1, 2, 3}})
	var p Parser
	var view []byte
	if _, err := p.Parse(buf, func(pkt Packet) error {
		view = pkt.Payload
		return nil
	}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	buf[HeaderLen] = 0x7F
	if view[0] != 0x7F {
		t.Fatalf("payload should alias the parse buffer")
	}
	if cap(view) != len(view) {
		t.Fatalf("payload view must not expose trailing buffer capacity")
	}
}

func TestResyncSkipsGarbagePrefix(t *testing.T) {
	testlog.Start(t)
	garbage := []byte{0x00, 0xBE, 0x13, 0xEF, 0x55}
	pkt := mustEncode(t, Packet{Dest: 3, Src: 3, Type: TypePAD, TxnID: 7, Payload: []byte{0x10}})
	stream := append(append([]byte(nil), garbage...), pkt...)

	var p Parser
	got, n, err := collect(t, &p, stream[:len(garbage)])
	if err != nil {
		t.Fatalf("parse garbage: %v", err)
	}
	if len(got) != 0 || p.Synced() {
		t.Fatalf("garbage produced packets=%d synced=%v", len(got), p.Synced())
	}
	// Everything up to the last magic1 candidate is provably garbage.
	if n != 1 {
		t.Fatalf("consumed=%d want 1", n)
	}

	got, m, err := collect(t, &p, stream[n:])
	if err != nil {
		t.Fatalf("parse stream: %v", err)
	}
	if len(got) != 1 || got[0].TxnID != 7 {
		t.Fatalf("expected exactly one packet, got %+v", got)
	}
	if n+m != len(stream) {
		t.Fatalf("consumed=%d want %d", n+m, len(stream))
	}
	if !p.Synced() {
		t.Fatalf("parser should be synced")
	}
}

func TestResyncRejectsFalseHeaderAndRetriesOneByteLater(t *testing.T) {
	testlog.Start(t)
	pkt := mustEncode(t, Packet{Dest: 1, Src: 2, TxnID: 5, Payload: []byte("x")})
	// A magic sequence with a wrong checksum whose bytes overlap the real header.
	fake := []byte{Magic1, Magic2, Magic3, 0, 0, 0, 0, 0}
	stream := append(append([]byte(nil), fake...), pkt...)

	var p Parser
	got, n, err := collect(t, &p, stream)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || got[0].TxnID != 5 || n != len(stream) {
		t.Fatalf("packets=%+v consumed=%d", got, n)
	}
}

func TestResyncWithoutCandidateConsumesAll(t *testing.T) {
	testlog.Start(t)
	var p Parser
	got, n, err := collect(t, &p, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	if err != nil || len(got) != 0 {
		t.Fatalf("packets=%d err=%v", len(got), err)
	}
	if n != 12 {
		t.Fatalf("consumed=%d want 12", n)
	}
}

func TestHeaderCorruptionAfterLockOnIsFatal(t *testing.T) {
	testlog.Start(t)
	lock := mustEncode(t, Packet{TxnID: 1, Payload: []byte{1}})
	victim := mustEncode(t, Packet{Dest: 3, Src: 3, TxnID: 2, Payload: []byte{0xAA, 0xBB}})

	for i := 0; i < HeaderLen; i++ {
		var p Parser
		if _, n, err := collect(t, &p, lock); err != nil || n != len(lock) {
			t.Fatalf("lock-on: consumed=%d err=%v", n, err)
		}
		corrupt := append([]byte(nil), victim...)
		corrupt[i] ^= 0x01
		_, n, err := collect(t, &p, corrupt)
		want := ErrHeaderChecksum
		if i < 3 {
			want = ErrBadMagic
		}
		if !errors.Is(err, want) {
			t.Fatalf("byte %d: expected %v, got %v", i, want, err)
		}
		var fe *FrameError
		if !errors.As(err, &fe) || fe.Offset != 0 || n != 0 {
			t.Fatalf("byte %d: frame error=%v consumed=%d", i, err, n)
		}
	}
}

func TestPayloadCorruptionAfterLockOnFailsCRC(t *testing.T) {
	testlog.Start(t)
	stream := mustEncode(t, Packet{TxnID: 1, Payload: []byte{1}})
	victimAt := len(stream)
	stream = append(stream, mustEncode(t, Packet{TxnID: 2, Payload: []byte{0xAA, 0xBB, 0xCC}})...)

	for i := 0; i < 3; i++ {
		corrupt := append([]byte(nil), stream...)
		corrupt[victimAt+HeaderLen+i] ^= 0x80
		var p Parser
		got, n, err := collect(t, &p, corrupt)
		if !errors.Is(err, ErrFooterCRC) {
			t.Fatalf("payload byte %d: expected ErrFooterCRC, got %v", i, err)
		}
		if len(got) != 1 || n != victimAt {
			t.Fatalf("payload byte %d: packets=%d consumed=%d", i, len(got), n)
		}
	}
}

func TestEmitErrorStopsParsing(t *testing.T) {
	testlog.Start(t)
	a := mustEncode(t, Packet{TxnID: 1})
	stream := append(append([]byte(nil), a...), mustEncode(t, Packet{TxnID: 2})...)
	boom := errors.New("boom")
	var p Parser
	calls := 0
	n, err := p.Parse(stream, func(Packet) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 || n != len(a) {
		t.Fatalf("err=%v calls=%d consumed=%d", err, calls, n)
	}
}

func TestTypeName(t *testing.T) {
	testlog.Start(t)
	for typ, want := range map[byte]string{TypeSystem: "system", TypePAD: "pad", TypeLoopback: "loopback", 7: "7"} {
		if got := TypeName(typ); got != want {
			t.Fatalf("TypeName(%d) = %q want %q", typ, got, want)
		}
	}
}
