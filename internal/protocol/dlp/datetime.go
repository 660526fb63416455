package dlp

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/danmuck/hotsync/internal/protocol/wire"
)

const dateTimeLen = 8

// DateTime is a device timestamp: big-endian year, then month, day, hour,
// minute, second and one pad byte. Device clocks carry no zone; decoded
// values are in UTC. A zero year is the zero time.
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t}
}

func (d DateTime) SizeBinary() int {
	return dateTimeLen
}

func (d DateTime) WriteBinary(w *wire.Writer) error {
	if d.IsZero() {
		w.Fill(0, dateTimeLen)
		return nil
	}
	year := d.Year()
	if year < 1 || year > 0xFFFF {
		return fmt.Errorf("dlp: %w: year %d", wire.ErrValueOutOfRange, year)
	}
	w.Uint16(uint16(year), binary.BigEndian)
	w.Uint8(uint8(d.Month()))
	w.Uint8(uint8(d.Day()))
	w.Uint8(uint8(d.Hour()))
	w.Uint8(uint8(d.Minute()))
	w.Uint8(uint8(d.Second()))
	w.Uint8(0)
	return nil
}

func (d *DateTime) ReadBinary(r *wire.Reader) error {
	b, err := r.Bytes(dateTimeLen)
	if err != nil {
		return err
	}
	year := binary.BigEndian.Uint16(b)
	if year == 0 {
		d.Time = time.Time{}
		return nil
	}
	d.Time = time.Date(int(year), time.Month(b[2]), int(b[3]), int(b[4]), int(b[5]), int(b[6]), 0, time.UTC)
	return nil
}
