package dlp

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/danmuck/hotsync/internal/protocol/codec"
	"github.com/danmuck/hotsync/internal/protocol/wire"
	"github.com/danmuck/hotsync/internal/testutil/testlog"
)

func TestDateTimeLayout(t *testing.T) {
	testlog.Start(t)

	data, err := codec.Marshal(sampleTime())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{0x07, 0xD3, 3, 14, 15, 9, 26, 0}
	if !bytes.Equal(data, want) {
		t.Fatalf("got % X want % X", data, want)
	}
	var back DateTime
	if _, err := codec.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(sampleTime().Time) {
		t.Fatalf("round trip: %v", back)
	}
}

func TestDateTimeZero(t *testing.T) {
	testlog.Start(t)

	data, err := codec.Marshal(DateTime{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(data, make([]byte, 8)) {
		t.Fatalf("zero time: % X", data)
	}
	back := sampleTime()
	if _, err := codec.Unmarshal(data, &back); err != nil || !back.IsZero() {
		t.Fatalf("zero decode: %v err=%v", back, err)
	}
}

func TestDateTimeErrors(t *testing.T) {
	testlog.Start(t)

	var d DateTime
	if _, err := codec.Unmarshal([]byte{0x07, 0xD3, 1}, &d); !errors.Is(err, wire.ErrShortBuffer) {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
	far := NewDateTime(time.Date(70000, time.January, 1, 0, 0, 0, 0, time.UTC))
	if _, err := codec.Marshal(far); !errors.Is(err, wire.ErrValueOutOfRange) {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
}
