// Package exporter writes the outputs of the cleaner and the metrics report.
//
// CSVWriter writes the cleaned intervention log with the input schema and
// the per-machine metrics table; names ending in .csv.gz or .csv.zst are
// compressed. CleaningReportText and MetricsReportText render the plain
// text reports, and WriteWorkbook saves the ranked tables as an .xlsx
// workbook.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger)
//	if err := w.WriteCleaned(paths.Cleaned, result.Canonical); err != nil {
//		return err
//	}
//	err := w.WriteMetrics(paths.Metrics, analysis.Machines)
package exporter
