package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// OpenReader opens path for reading and transparently decompresses
// .csv.gz and .csv.zst files. Closing the reader closes the file.
func OpenReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch DetectFormat(path) {
	case FormatCSVGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip header: %w", err)
		}
		return &stackedCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil

	case FormatCSVZstd:
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd stream: %w", err)
		}
		return &stackedCloser{Reader: dec, closers: []io.Closer{zstdCloser{dec}, f}}, nil
	}

	return f, nil
}

// CreateWriter creates path (and its parent directories) for writing,
// compressing the stream when the name ends in .csv.gz or .csv.zst.
// Close must be called to flush the compressor.
func CreateWriter(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	switch DetectFormat(path) {
	case FormatCSVGzip:
		gz := gzip.NewWriter(f)
		return &stackedWriteCloser{Writer: gz, closers: []io.Closer{gz, f}}, nil

	case FormatCSVZstd:
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		return &stackedWriteCloser{Writer: enc, closers: []io.Closer{enc, f}}, nil
	}

	return f, nil
}

// zstdCloser adapts zstd.Decoder, whose Close returns nothing
type zstdCloser struct {
	dec *zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.dec.Close()
	return nil
}

type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	return closeAll(s.closers)
}

type stackedWriteCloser struct {
	io.Writer
	closers []io.Closer
}

func (s *stackedWriteCloser) Close() error {
	return closeAll(s.closers)
}

// closeAll closes outermost first and returns the first error
func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
