package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/danmuck/hotsync/internal/protocol/schema"
	"github.com/danmuck/hotsync/internal/protocol/wire"
	"github.com/danmuck/hotsync/internal/testutil/testlog"
)

type bigWord struct {
	V uint16
}

type littleWord struct {
	_ schema.Layout `binary:"little"`
	V uint16
}

type padded struct {
	_ schema.Layout `binary:"min=10"`
	A uint16
	B uint16
}

type padByField struct {
	_      schema.Layout `binary:"min=Length"`
	Length uint8
	Kind   uint8
}

type optional struct {
	Has   bool
	Value uint32 `binary:"if=Has"`
	After uint8
}

type point struct {
	X int16
	Y int16
}

type shape struct {
	_      schema.Layout `binary:"little"`
	ID     uint32
	Count  uint16
	Points []point `binary:"len=Count"`
	Origin point
	Grid   [3]uint8
	Name   string `binary:"cstring"`
	Label  string `binary:"size=6,pad=0x20"`
	Delta  int8
	Wide   int64 `binary:"big"`
	Tail   []byte `binary:"len=rest"`
}

type tag struct {
	code byte
}

func (t tag) SizeBinary() int { return 2 }

func (t tag) WriteBinary(w *wire.Writer) error {
	w.Uint8(0xAA)
	w.Uint8(t.code)
	return nil
}

func (t *tag) ReadBinary(r *wire.Reader) error {
	if _, err := r.Uint8(); err != nil {
		return err
	}
	b, err := r.Uint8()
	t.code = b
	return err
}

type withTag struct {
	Before uint8
	T      tag
	After  uint8
}

func TestRoundTripComposite(t *testing.T) {
	testlog.Start(t)

	in := shape{
		ID:     0xDEADBEEF,
		Points: []point{{1, -2}, {300, -400}},
		Origin: point{X: -1, Y: 7},
		Grid:   [3]uint8{9, 8, 7},
		Name:   "memo",
		Label:  "todo",
		Delta:  -5,
		Wide:   -2,
		Tail:   []byte{0x01, 0x02, 0x03},
	}
	data, err := Marshal(&in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	size, err := Size(in)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != len(data) {
		t.Fatalf("size mismatch: Size=%d encoded=%d", size, len(data))
	}

	var out shape
	n, err := Unmarshal(data, &out)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if n != len(data) {
		t.Fatalf("consumed %d of %d bytes", n, len(data))
	}
	in.Count = 2
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
	}
	if !bytes.Equal(data[:4], []byte{0xEF, 0xBE, 0xAD, 0xDE}) {
		t.Fatalf("expected little-endian ID, got % X", data[:4])
	}
}

func TestEndianness(t *testing.T) {
	testlog.Start(t)

	big, err := Marshal(bigWord{V: 0x1234})
	if err != nil {
		t.Fatalf("Marshal big: %v", err)
	}
	if !bytes.Equal(big, []byte{0x12, 0x34}) {
		t.Fatalf("big-endian: got % X", big)
	}
	little, err := Marshal(littleWord{V: 0x1234})
	if err != nil {
		t.Fatalf("Marshal little: %v", err)
	}
	if !bytes.Equal(little, []byte{0x34, 0x12}) {
		t.Fatalf("little-endian: got % X", little)
	}

	var back littleWord
	if _, err := Unmarshal(little, &back); err != nil || back.V != 0x1234 {
		t.Fatalf("little read back: %#x err=%v", back.V, err)
	}
}

func TestMinimumLengthPadsAndSkips(t *testing.T) {
	testlog.Start(t)

	data, err := Marshal(padded{A: 0x0102, B: 0x0304})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{0x01, 0x02, 0x03, 0x04, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(data, want) {
		t.Fatalf("padded encoding: got % X want % X", data, want)
	}

	stream := append(append([]byte{}, data...), 0x77)
	r := wire.NewReader(stream)
	var out padded
	if err := Read(r, &out); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if r.Offset() != 10 {
		t.Fatalf("reader advanced %d bytes, want 10", r.Offset())
	}
	if out.A != 0x0102 || out.B != 0x0304 {
		t.Fatalf("unexpected values: %+v", out)
	}
}

func TestMinimumLengthFromField(t *testing.T) {
	testlog.Start(t)

	data, err := Marshal(padByField{Length: 6, Kind: 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(data, []byte{6, 3, 0, 0, 0, 0}) {
		t.Fatalf("got % X", data)
	}
	var out padByField
	n, err := Unmarshal(append(data, 0xFF), &out)
	if err != nil || n != 6 {
		t.Fatalf("Unmarshal consumed=%d err=%v", n, err)
	}

	short, err := Marshal(padByField{Length: 1, Kind: 3})
	if err != nil || len(short) != 2 {
		t.Fatalf("minimum below natural size should not truncate: % X err=%v", short, err)
	}
}

func TestConditionalField(t *testing.T) {
	testlog.Start(t)

	off := optional{Has: false, Value: 0xFFFFFFFF, After: 9}
	data, err := Marshal(off)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(data, []byte{0, 9}) {
		t.Fatalf("gated-off field was written: % X", data)
	}
	if n, _ := Size(off); n != 2 {
		t.Fatalf("gated-off size = %d, want 2", n)
	}
	var out optional
	if _, err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Value != 0 || out.After != 9 {
		t.Fatalf("gated-off read: %+v", out)
	}

	on := optional{Has: true, Value: 0x01020304, After: 9}
	data, err = Marshal(on)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(data, []byte{1, 1, 2, 3, 4, 9}) {
		t.Fatalf("gated-on encoding: % X", data)
	}

	// Any nonzero byte reads as true.
	var odd optional
	if _, err := Unmarshal([]byte{0x7F, 0, 0, 0, 1, 2}, &odd); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !odd.Has || odd.Value != 1 || odd.After != 2 {
		t.Fatalf("nonzero bool: %+v", odd)
	}
}

func TestCustomCodecTakesPrecedence(t *testing.T) {
	testlog.Start(t)

	in := withTag{Before: 1, T: tag{code: 0x42}, After: 2}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(data, []byte{1, 0xAA, 0x42, 2}) {
		t.Fatalf("custom encoding: % X", data)
	}
	var out withTag
	if _, err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("custom round trip: %+v", out)
	}

	direct, err := Marshal(&tag{code: 7})
	if err != nil || !bytes.Equal(direct, []byte{0xAA, 7}) {
		t.Fatalf("top-level custom: % X err=%v", direct, err)
	}
}

func TestLengthFieldFollowsSlice(t *testing.T) {
	testlog.Start(t)

	in := shape{Count: 99, Points: []point{{1, 1}}}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got := binary.LittleEndian.Uint16(data[4:6]); got != 1 {
		t.Fatalf("count field = %d, want 1", got)
	}

	type tooMany struct {
		N     uint8
		Items []uint8 `binary:"len=N"`
	}
	_, err = Marshal(tooMany{Items: make([]uint8, 256)})
	if !errors.Is(err, wire.ErrValueOutOfRange) {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
}

func TestShortReads(t *testing.T) {
	testlog.Start(t)

	var w bigWord
	if _, err := Unmarshal([]byte{0x12}, &w); !errors.Is(err, wire.ErrShortBuffer) {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}

	type counted struct {
		N     uint32
		Items []uint32 `binary:"len=N"`
	}
	var c counted
	_, err := Unmarshal([]byte{0x00, 0x00, 0x10, 0x00, 1, 2, 3, 4}, &c)
	if !errors.Is(err, wire.ErrShortBuffer) {
		t.Fatalf("expected ErrShortBuffer before allocating, got %v", err)
	}
	if c.Items != nil {
		t.Fatalf("items should not be allocated on a short read")
	}

	var p padded
	if _, err := Unmarshal([]byte{1, 2, 3, 4, 0}, &p); !errors.Is(err, wire.ErrShortBuffer) {
		t.Fatalf("expected ErrShortBuffer skipping padding, got %v", err)
	}

	var s shape
	if _, err := Unmarshal([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 'x'}, &s); !errors.Is(err, wire.ErrUnterminated) {
		t.Fatalf("expected ErrUnterminated, got %v", err)
	}
}

func TestFixedCountMismatch(t *testing.T) {
	testlog.Start(t)

	type fixed struct {
		Items []uint16 `binary:"size=2"`
	}
	if _, err := Marshal(fixed{Items: []uint16{1}}); !errors.Is(err, wire.ErrFixedSizeMismatch) {
		t.Fatalf("expected ErrFixedSizeMismatch, got %v", err)
	}
	data, err := Marshal(fixed{Items: []uint16{1, 2}})
	if err != nil || !bytes.Equal(data, []byte{0, 1, 0, 2}) {
		t.Fatalf("fixed encoding: % X err=%v", data, err)
	}
}

func TestInvalidTargets(t *testing.T) {
	testlog.Start(t)

	if _, err := Size(nil); !errors.Is(err, ErrNilValue) {
		t.Fatalf("expected ErrNilValue, got %v", err)
	}
	var w bigWord
	if err := Read(wire.NewReader([]byte{1, 2}), w); !errors.Is(err, ErrNotPointer) {
		t.Fatalf("expected ErrNotPointer, got %v", err)
	}
	type broken struct {
		N int
	}
	var schemaErr *schema.Error
	if _, err := Marshal(broken{}); !errors.As(err, &schemaErr) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestStringsThatWouldNotReadBackAreRejected(t *testing.T) {
	testlog.Start(t)

	type named struct {
		S string `binary:"cstring"`
		T uint8
	}
	if _, err := Marshal(named{S: "ab\x00cd", T: 7}); !errors.Is(err, wire.ErrEmbeddedNul) {
		t.Fatalf("expected ErrEmbeddedNul, got %v", err)
	}
	type label struct {
		S string `binary:"size=4,nul"`
	}
	if _, err := Marshal(label{S: "abcd"}); !errors.Is(err, wire.ErrValueOutOfRange) {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
}

func TestMisplacedLayoutOptionsFailBeforeEncoding(t *testing.T) {
	testlog.Start(t)

	type lateLayout struct {
		A uint16
		_ schema.Layout `binary:"little"`
		B uint16
	}
	type minOnField struct {
		M uint8 `binary:"min=4"`
		X uint8
	}
	type signedMin struct {
		_ schema.Layout `binary:"min=M"`
		M int8
	}
	for _, v := range []any{lateLayout{A: 0x1234, B: 0x1234}, minOnField{M: 1, X: 2}, signedMin{M: -3}} {
		var schemaErr *schema.Error
		if data, err := Marshal(v); !errors.As(err, &schemaErr) {
			t.Fatalf("%T: expected schema error, got % X err=%v", v, data, err)
		}
	}
}
