package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "maintcli/internal/errors"
	"maintcli/internal/files"
)

// ErrSamePath is returned when an output would overwrite the input log
var ErrSamePath = errors.New("output path is the input file")

// FileValidator checks input and output paths before a command touches
// any data, so failures are reported with the path and not half way
// through a run
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that path is a readable intervention log in a
// supported format and returns that format
func (v *FileValidator) ValidateInputFile(path string) (files.Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		v.logger.Error("Input file is not accessible",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return files.FormatUnknown, apperrors.NewIOError("open", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory",
			slog.String("path", path))
		return files.FormatUnknown, apperrors.NewIOError("open", path, fmt.Errorf("is a directory"))
	}

	// Excel lock files share the extension of the workbook they guard
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Refusing temporary Excel file",
			slog.String("file", path))
		return files.FormatUnknown, fmt.Errorf("%s is a temporary Excel file: %w", path, apperrors.ErrUnsupportedFormat)
	}

	format := files.DetectFormat(path)
	if format == files.FormatUnknown {
		v.logger.Error("Input file has an unsupported extension",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
		return format, fmt.Errorf("%s: %w", path, apperrors.ErrUnsupportedFormat)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return format, apperrors.NewIOError("open", path, err)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.String("format", format.String()),
		slog.Int64("size", info.Size()))
	return format, nil
}

// ValidateOutputFile ensures the directory of path exists and is writable,
// that path is not the input and, when allowed is non-empty, that its
// extension maps to one of the allowed formats
func (v *FileValidator) ValidateOutputFile(input, path string, allowed ...files.Format) error {
	if samePath(input, path) {
		v.logger.Error("Output would overwrite the input",
			slog.String("input", input),
			slog.String("output", path))
		return fmt.Errorf("%s: %w", path, ErrSamePath)
	}

	if len(allowed) > 0 {
		format := files.DetectFormat(path)
		ok := false
		for _, f := range allowed {
			if f == format {
				ok = true
				break
			}
		}
		if !ok {
			v.logger.Error("Output file has an unsupported extension",
				slog.String("file", path),
				slog.String("format", format.String()))
			return fmt.Errorf("%s: %w", path, apperrors.ErrUnsupportedFormat)
		}
	}

	return v.ValidateOutputDirectory(filepath.Dir(path))
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError("create", dir, err)
	}

	// Verify it's writable by creating a probe file
	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError("write", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	if absA == absB {
		return true
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	if errA != nil || errB != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}

// IsNotExist reports whether err means the validated input is absent
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
