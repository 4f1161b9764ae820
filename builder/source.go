package builder

import (
	"fmt"
	"io"
	"os"
	"strings"

	"eftc/record"
)

// Source supplies repeatable access to one order's record stream. Open may
// be called more than once per order: Stage A consumes the stream once to
// build that order's count-rank dictionary, and Stage C re-opens both the
// order-(k-1) and order-k streams together for the joint walk (spec.md
// §4.7.1). Implementations should return a fresh reader positioned at the
// start of the stream on every call.
type Source interface {
	Open() (io.ReadCloser, error)
}

// ReaderFunc adapts a plain factory function to the Source interface.
type ReaderFunc func() (io.ReadCloser, error)

// Open calls f.
func (f ReaderFunc) Open() (io.ReadCloser, error) { return f() }

// StringSource returns a Source that replays the same in-memory text on
// every Open call. Useful for tests and small fixtures.
type StringSource string

// Open implements Source.
func (s StringSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s))), nil
}

// FileSource reopens Path fresh on every Open call, transparently
// decompressing by its extension (.gz, .zz for zlib, .deflate for raw
// deflate — spec.md §11's decompression wrappers).
type FileSource struct {
	Path string
}

// Open implements Source.
func (f FileSource) Open() (io.ReadCloser, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("builder: opening %s: %w", f.Path, err)
	}
	switch {
	case strings.HasSuffix(f.Path, ".gz"):
		rc, err := record.GzipSource(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		return chainCloser{ReadCloser: rc, also: file}, nil
	case strings.HasSuffix(f.Path, ".zz"):
		rc, err := record.ZlibSource(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		return chainCloser{ReadCloser: rc, also: file}, nil
	case strings.HasSuffix(f.Path, ".deflate"):
		return chainCloser{ReadCloser: record.DeflateSource(file), also: file}, nil
	default:
		return file, nil
	}
}

// chainCloser closes the decompression wrapper and its underlying file.
type chainCloser struct {
	io.ReadCloser
	also *os.File
}

func (c chainCloser) Close() error {
	err := c.ReadCloser.Close()
	if cerr := c.also.Close(); err == nil {
		err = cerr
	}
	return err
}
