package exporter

import (
	"strconv"

	"maintcli/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatMeasure renders undefined aggregates as "N/A"
func formatMeasure(m domain.Measure) string {
	return m.String()
}
