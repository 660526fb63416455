package dlp

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/hotsync/internal/protocol/codec"
	"github.com/danmuck/hotsync/internal/protocol/wire"
)

// Argument ids start at FirstArgID; the two high bits select the envelope.
const (
	FirstArgID byte = 0x20

	argFlagShort byte = 0x80
	argFlagLong  byte = 0x40
	argFlagMask  byte = 0xC0

	tinyHeaderLen  = 2
	shortHeaderLen = 4
	longHeaderLen  = 6

	maxTinyLen  = 0xFF
	maxShortLen = 0xFFFF
)

// Arg is one request or response argument.
type Arg struct {
	ID   byte
	Data []byte
}

// NewArg encodes v with the binary codec as argument id.
func NewArg(id byte, v any) (Arg, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return Arg{}, err
	}
	return Arg{ID: id, Data: data}, nil
}

// Decode reads the argument body into v.
func (a Arg) Decode(v any) error {
	if _, err := codec.Unmarshal(a.Data, v); err != nil {
		return fmt.Errorf("dlp: argument %#02x: %w", a.ID, err)
	}
	return nil
}

func (a Arg) headerLen() int {
	switch {
	case len(a.Data) <= maxTinyLen:
		return tinyHeaderLen
	case len(a.Data) <= maxShortLen:
		return shortHeaderLen
	default:
		return longHeaderLen
	}
}

// SizeBinary is the encoded size including the envelope.
func (a Arg) SizeBinary() int {
	return a.headerLen() + len(a.Data)
}

// WriteBinary writes the smallest envelope that fits the data.
func (a Arg) WriteBinary(w *wire.Writer) error {
	if a.ID&argFlagMask != 0 {
		return fmt.Errorf("%w: %#02x", ErrArgID, a.ID)
	}
	switch a.headerLen() {
	case tinyHeaderLen:
		w.Uint8(a.ID)
		w.Uint8(uint8(len(a.Data)))
	case shortHeaderLen:
		w.Uint8(a.ID | argFlagShort)
		w.Uint8(0)
		w.Uint16(uint16(len(a.Data)), binary.BigEndian)
	default:
		if uint64(len(a.Data)) > 0xFFFFFFFF {
			return fmt.Errorf("dlp: argument %#02x: %w", a.ID, wire.ErrValueOutOfRange)
		}
		w.Uint8(a.ID | argFlagLong)
		w.Uint8(0)
		w.Uint32(uint32(len(a.Data)), binary.BigEndian)
	}
	w.Write(a.Data)
	return nil
}

// ReadBinary accepts any envelope. Data is copied out of the input.
func (a *Arg) ReadBinary(r *wire.Reader) error {
	id, err := r.Uint8()
	if err != nil {
		return ErrShortArgHeader
	}
	var size int
	switch id & argFlagMask {
	case 0:
		n, err := r.Uint8()
		if err != nil {
			return ErrShortArgHeader
		}
		size = int(n)
	case argFlagShort:
		if err := r.Skip(1); err != nil {
			return ErrShortArgHeader
		}
		n, err := r.Uint16(binary.BigEndian)
		if err != nil {
			return ErrShortArgHeader
		}
		size = int(n)
	case argFlagLong:
		if err := r.Skip(1); err != nil {
			return ErrShortArgHeader
		}
		n, err := r.Uint32(binary.BigEndian)
		if err != nil {
			return ErrShortArgHeader
		}
		if uint64(n) > uint64(r.Remaining()) {
			return ErrShortArgValue
		}
		size = int(n)
	default:
		return fmt.Errorf("%w: %#02x", ErrArgID, id)
	}
	data, err := r.Bytes(size)
	if err != nil {
		return ErrShortArgValue
	}
	a.ID = id &^ argFlagMask
	a.Data = append([]byte(nil), data...)
	return nil
}

func sizeArgs(args []Arg) int {
	n := 0
	for _, a := range args {
		n += a.SizeBinary()
	}
	return n
}

func writeArgs(w *wire.Writer, args []Arg) error {
	if len(args) > 0xFF {
		return fmt.Errorf("%w: %d", ErrTooManyArgs, len(args))
	}
	for _, a := range args {
		if err := a.WriteBinary(w); err != nil {
			return err
		}
	}
	return nil
}

func readArgs(r *wire.Reader, argc int) ([]Arg, error) {
	if argc == 0 {
		return nil, nil
	}
	if argc > r.Remaining()/tinyHeaderLen {
		return nil, ErrShortArgHeader
	}
	args := make([]Arg, argc)
	for i := range args {
		if err := args[i].ReadBinary(r); err != nil {
			return nil, err
		}
	}
	return args, nil
}

// GetArg returns the first argument with id.
func GetArg(args []Arg, id byte) (Arg, bool) {
	for _, a := range args {
		if a.ID == id {
			return a, true
		}
	}
	return Arg{}, false
}
