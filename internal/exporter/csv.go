package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	apperrors "maintcli/internal/errors"
	"maintcli/internal/files"
)

// utf8BOM helps Excel recognize UTF-8 output
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality. Paths ending in .csv.gz or
// .csv.zst are compressed on the fly.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	stream, err := w.openStream(filePath, options.Headers, options.BOMPrefix)
	if err != nil {
		return err
	}

	return stream.writeAll(options.Records)
}

// WriteSimpleCSV writes a simple CSV file with headers and records
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	path   string
	out    io.WriteCloser
	writer *csv.Writer
}

// CreateStreamWriter creates a new streaming CSV writer without BOM
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	w.logger.Info("Creating CSV stream writer",
		slog.String("file_path", filePath),
		slog.Int("header_count", len(headers)))

	return w.openStream(filePath, headers, false)
}

func (w *CSVWriter) openStream(filePath string, headers []string, bom bool) (*StreamWriter, error) {
	out, err := files.CreateWriter(filePath)
	if err != nil {
		return nil, apperrors.NewIOError("create", filePath, err)
	}

	if bom {
		if _, err := out.Write(utf8BOM); err != nil {
			out.Close()
			return nil, apperrors.NewIOError("write", filePath, fmt.Errorf("failed to write BOM: %w", err))
		}
	}

	writer := csv.NewWriter(out)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			out.Close()
			return nil, apperrors.NewIOError("write", filePath, fmt.Errorf("failed to write headers: %w", err))
		}
	}

	return &StreamWriter{path: filePath, out: out, writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// writeAll writes records then closes the stream. A failed record closes
// the stream and is reported as an IOError naming its index.
func (s *StreamWriter) writeAll(records [][]string) error {
	for i, record := range records {
		if err := s.WriteRecord(record); err != nil {
			s.out.Close()
			return apperrors.NewIOError("write", s.path, fmt.Errorf("record %d: %w", i, err))
		}
	}
	return s.Close()
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.out.Close()
		return apperrors.NewIOError("write", s.path, err)
	}
	if err := s.out.Close(); err != nil {
		return apperrors.NewIOError("write", s.path, err)
	}
	return nil
}
