package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/danmuck/hotsync/internal/protocol/slp"
	"github.com/fxamacker/cbor/v2"
)

// packetRecord is one decoded packet as emitted by slpdump.
type packetRecord struct {
	Index   int    `json:"index" cbor:"index"`
	Dest    byte   `json:"dest" cbor:"dest"`
	Src     byte   `json:"src" cbor:"src"`
	Type    string `json:"type" cbor:"type"`
	TxnID   byte   `json:"txn_id" cbor:"txn_id"`
	Payload []byte `json:"payload" cbor:"payload"`
}

func newRecord(index int, p slp.Packet) packetRecord {
	return packetRecord{
		Index:   index,
		Dest:    p.Dest,
		Src:     p.Src,
		Type:    slp.TypeName(p.Type),
		TxnID:   p.TxnID,
		Payload: append([]byte{}, p.Payload...),
	}
}

type recordWriter interface {
	WriteRecord(r packetRecord) error
	Flush() error
}

var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("slpdump: CBOR encoder initialization failed: " + err.Error())
	}
}

func newRecordWriter(format string, w io.Writer) (recordWriter, error) {
	bw := bufio.NewWriter(w)
	switch format {
	case "text":
		return &textWriter{w: bw}, nil
	case "json":
		return &jsonWriter{w: bw, enc: json.NewEncoder(bw)}, nil
	case "cbor":
		return &cborWriter{w: bw, enc: cborEncMode.NewEncoder(bw)}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, json or cbor)", format)
	}
}

type textWriter struct {
	w *bufio.Writer
}

func (t *textWriter) WriteRecord(r packetRecord) error {
	_, err := fmt.Fprintf(t.w, "#%d dest=%d src=%d type=%s txn=%d len=%d % x\n",
		r.Index, r.Dest, r.Src, r.Type, r.TxnID, len(r.Payload), r.Payload)
	return err
}

func (t *textWriter) Flush() error {
	return t.w.Flush()
}

// jsonWriter emits one JSON object per line.
type jsonWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

func (j *jsonWriter) WriteRecord(r packetRecord) error {
	return j.enc.Encode(r)
}

func (j *jsonWriter) Flush() error {
	return j.w.Flush()
}

// cborWriter emits a CBOR sequence, one item per packet.
type cborWriter struct {
	w   *bufio.Writer
	enc *cbor.Encoder
}

func (c *cborWriter) WriteRecord(r packetRecord) error {
	return c.enc.Encode(r)
}

func (c *cborWriter) Flush() error {
	return c.w.Flush()
}
