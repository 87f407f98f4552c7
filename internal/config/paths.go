package config

import (
	"path/filepath"
	"strings"
)

// OutputPaths contains the files derived from one input file
type OutputPaths struct {
	Input          string
	Cleaned        string
	CleaningReport string
	Metrics        string
	MetricsReport  string
	Workbook       string
}

// compoundExtensions are stripped as a whole so "log.csv.gz" has stem "log"
var compoundExtensions = []string{".csv.gz", ".csv.zst"}

// DeriveOutputPaths returns the single source of truth for output file names.
// Outputs live next to the input. A "_cleaned" suffix on the input stem is
// dropped before the metrics names are built, so cleaning then analysing
// "interventions_2024.csv" yields "interventions_2024_metrics.csv".
func DeriveOutputPaths(input string) OutputPaths {
	dir := filepath.Dir(input)
	stem := Stem(input)
	base := strings.TrimSuffix(stem, CleanedSuffix)

	return OutputPaths{
		Input:          input,
		Cleaned:        filepath.Join(dir, base+CleanedSuffix+".csv"),
		CleaningReport: filepath.Join(dir, base+CleaningReportSuffix),
		Metrics:        filepath.Join(dir, base+MetricsSuffix),
		MetricsReport:  filepath.Join(dir, base+MetricsReportSuffix),
		Workbook:       filepath.Join(dir, base+WorkbookSuffix),
	}
}

// Stem returns the file name without directory and extension
func Stem(path string) string {
	name := filepath.Base(path)
	lower := strings.ToLower(name)
	for _, ext := range compoundExtensions {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
