package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "maintcli/internal/errors"
	"maintcli/pkg/contracts/domain"
)

// Workbook sheet names in tab order
const (
	SheetMetrics     = "Metrics"
	SheetPareto      = "Pareto"
	SheetRecurrence  = "Recurrence"
	SheetTechnicians = "Technicians"
	SheetParts       = "Parts"
)

// WriteWorkbook saves the analysis as an .xlsx workbook with one sheet per
// ranked table
func WriteWorkbook(path string, a *domain.Analysis) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetMetrics, metricsSheet(a.Machines)},
		{SheetPareto, paretoSheet(a.Pareto)},
		{SheetRecurrence, recurrenceSheet(a.Recurrence)},
		{SheetTechnicians, technicianSheet(a.Technicians)},
		{SheetParts, partsSheet(a.Parts)},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", s.name, err)
		}

		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("write %s row %d: %w", s.name, r+1, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewIOError("create", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewIOError("write", path, err)
	}
	return nil
}

func metricsSheet(machines []domain.MachineMetrics) [][]any {
	rows := [][]any{{"ID_Machine", "Categorie", "Nb_Interventions", "MTTR_heures", "Temps_Arret_Cumule_heures", "MTBF_jours", "Taux_Disponibilite_%"}}
	for _, m := range machines {
		rows = append(rows, []any{m.MachineID, m.Category, m.InterventionCount, m.MTTRHours, m.CumulativeDowntimeHours, m.MTBFDays, m.AvailabilityPct})
	}
	return rows
}

func paretoSheet(entries []domain.ParetoEntry) [][]any {
	rows := [][]any{{"Rang", "ID_Machine", "Valeur", "Part_%", "Cumul_%", "Critique"}}
	for _, e := range entries {
		rows = append(rows, []any{e.Rank, e.MachineID, e.Value, e.SharePct, e.CumulativePct, e.IsCritical})
	}
	return rows
}

func recurrenceSheet(entries []domain.RecurrenceEntry) [][]any {
	rows := [][]any{{"ID_Machine", "Type_Panne", "Occurrences", "Ecart_Moyen_jours", "Score", "Efficacite"}}
	for _, e := range entries {
		rows = append(rows, []any{e.MachineID, e.FaultType, e.Occurrences, e.MeanGapDays, e.Score, string(e.Effectiveness)})
	}
	return rows
}

func technicianSheet(profiles []domain.TechnicianProfile) [][]any {
	rows := [][]any{{"Technicien", "Nb_Interventions", "Duree_Moyenne_h", "Duree_Totale_h", "Specialisation", "Regularite_jours"}}
	for _, p := range profiles {
		rows = append(rows, []any{p.Technician, p.InterventionCount, p.MeanRepairHours, p.TotalRepairHours, p.Specialization, p.RegularityDays})
	}
	return rows
}

func partsSheet(parts []domain.PartUsage) [][]any {
	rows := [][]any{{"Piece", "Nb_Remplacements", "Nb_Machines", "Panne_Principale"}}
	for _, p := range parts {
		rows = append(rows, []any{p.Part, p.Count, p.Machines, p.TopFaultType})
	}
	return rows
}
