package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

type compression int

const (
	compressNone compression = iota
	compressZstd
	compressLZ4
)

func (c compression) String() string {
	switch c {
	case compressZstd:
		return "zstd"
	case compressLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// compressionFor picks the capture codec from a file extension.
func compressionFor(path string) compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return compressZstd
	case ".lz4":
		return compressLZ4
	default:
		return compressNone
	}
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error {
	return r.close()
}

// openCapture opens a raw byte capture, decompressing by extension. "-"
// reads stdin uncompressed.
func openCapture(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := newDecompressor(f, compressionFor(path))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open capture %s: %w", path, err)
	}
	return r, nil
}

func newDecompressor(f io.ReadCloser, c compression) (io.ReadCloser, error) {
	switch c {
	case compressZstd:
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		return readCloser{Reader: dec, close: func() error {
			dec.Close()
			return f.Close()
		}}, nil
	case compressLZ4:
		return readCloser{Reader: lz4.NewReader(f), close: f.Close}, nil
	default:
		return f, nil
	}
}

type writeCloser struct {
	io.Writer
	close func() error
}

func (w writeCloser) Close() error {
	return w.close()
}

// createCapture creates a capture file that compresses by extension.
func createCapture(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	w, err := newCompressor(f, compressionFor(path))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create capture %s: %w", path, err)
	}
	return w, nil
}

func newCompressor(f io.WriteCloser, c compression) (io.WriteCloser, error) {
	switch c {
	case compressZstd:
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, err
		}
		return chainClose(enc, f), nil
	case compressLZ4:
		return chainClose(lz4.NewWriter(f), f), nil
	default:
		return f, nil
	}
}

// chainClose closes the compressor before the file it writes to.
func chainClose(w io.WriteCloser, f io.Closer) io.WriteCloser {
	return writeCloser{Writer: w, close: func() error {
		werr := w.Close()
		ferr := f.Close()
		if werr != nil {
			return werr
		}
		return ferr
	}}
}
