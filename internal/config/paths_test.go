package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveOutputPaths(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  OutputPaths
	}{
		{
			name:  "raw log",
			input: filepath.Join("data", "interventions_2024.csv"),
			want: OutputPaths{
				Input:          filepath.Join("data", "interventions_2024.csv"),
				Cleaned:        filepath.Join("data", "interventions_2024_cleaned.csv"),
				CleaningReport: filepath.Join("data", "interventions_2024_cleaning_report.txt"),
				Metrics:        filepath.Join("data", "interventions_2024_metrics.csv"),
				MetricsReport:  filepath.Join("data", "interventions_2024_metrics_report.txt"),
				Workbook:       filepath.Join("data", "interventions_2024_metrics.xlsx"),
			},
		},
		{
			name:  "cleaned log keeps the base stem",
			input: "interventions_2024_cleaned.csv",
			want: OutputPaths{
				Input:          "interventions_2024_cleaned.csv",
				Cleaned:        "interventions_2024_cleaned.csv",
				CleaningReport: "interventions_2024_cleaning_report.txt",
				Metrics:        "interventions_2024_metrics.csv",
				MetricsReport:  "interventions_2024_metrics_report.txt",
				Workbook:       "interventions_2024_metrics.xlsx",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveOutputPaths(tt.input))
		})
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "log", Stem("/tmp/log.csv"))
	assert.Equal(t, "log", Stem("log.csv.gz"))
	assert.Equal(t, "log", Stem("log.CSV.zst"))
	assert.Equal(t, "book", Stem("book.xlsx"))
	assert.Equal(t, "noext", Stem("noext"))
}
