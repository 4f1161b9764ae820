package record

import (
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
)

// GzipSource wraps r as a transparent gzip-decompressing byte source,
// suitable for passing to NewParser. Mirrors the original's
// tongrams/src/loader/flate2.rs gzip loader (spec.md §6.1 decompression
// wrappers).
func GzipSource(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("record: gzip source: %w", err)
	}
	return zr, nil
}

// ZlibSource wraps r as a transparent zlib-decompressing byte source.
func ZlibSource(r io.Reader) (io.ReadCloser, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("record: zlib source: %w", err)
	}
	return io.NopCloser(zr), nil
}

// DeflateSource wraps r as a transparent raw-deflate-decompressing byte
// source.
func DeflateSource(r io.Reader) io.ReadCloser {
	return flate.NewReader(r)
}
