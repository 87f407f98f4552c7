package files

import (
	"path/filepath"
	"strings"
)

// Format identifies how an intervention log is encoded on disk
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatCSVGzip
	FormatCSVZstd
	FormatXLSX
	FormatJSON
)

var formatNames = map[Format]string{
	FormatUnknown: "unknown",
	FormatCSV:     "csv",
	FormatCSVGzip: "csv.gz",
	FormatCSVZstd: "csv.zst",
	FormatXLSX:    "xlsx",
	FormatJSON:    "json",
}

// String returns the extension-like name of the format
func (f Format) String() string {
	return formatNames[f]
}

// Compressed reports whether the format wraps CSV in a compression stream
func (f Format) Compressed() bool {
	return f == FormatCSVGzip || f == FormatCSVZstd
}

// DetectFormat infers the format from the file name, case-insensitively
func DetectFormat(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".csv.gz"):
		return FormatCSVGzip
	case strings.HasSuffix(name, ".csv.zst"):
		return FormatCSVZstd
	case strings.HasSuffix(name, ".csv"):
		return FormatCSV
	case strings.HasSuffix(name, ".xlsx"):
		return FormatXLSX
	case strings.HasSuffix(name, ".json"):
		return FormatJSON
	}
	return FormatUnknown
}
