package exporter

import (
	"maintcli/pkg/contracts/domain"
)

// MetricsHeader is the header of the per-machine metrics CSV
var MetricsHeader = []string{
	"ID_Machine",
	"Nb_Interventions",
	"MTTR_heures",
	"Temps_Arret_Cumule_heures",
	"MTBF_jours",
	"Taux_Disponibilite_%",
}

// WriteCleaned writes canonical rows with the input schema, one line per
// row in input order
func (w *CSVWriter) WriteCleaned(filePath string, rows []domain.RawRecord) error {
	stream, err := w.CreateStreamWriter(filePath, domain.InterventionColumns)
	if err != nil {
		return err
	}
	values := make([][]string, len(rows))
	for i, row := range rows {
		values[i] = row.Values()
	}
	return stream.writeAll(values)
}

// MetricsRows renders the metrics table in the given order
func MetricsRows(metrics []domain.MachineMetrics) [][]string {
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{
			m.MachineID,
			formatInt(m.InterventionCount),
			formatFloat(m.MTTRHours),
			formatFloat(m.CumulativeDowntimeHours),
			formatFloat(m.MTBFDays),
			formatFloat(m.AvailabilityPct),
		})
	}
	return rows
}

// WriteMetrics writes the per-machine metrics CSV
func (w *CSVWriter) WriteMetrics(filePath string, metrics []domain.MachineMetrics) error {
	return w.WriteSimpleCSV(filePath, MetricsHeader, MetricsRows(metrics))
}
