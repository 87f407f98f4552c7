package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "maintcli/internal/errors"
	"maintcli/internal/files"
	"maintcli/pkg/contracts/domain"
)

const (
	reportWidth   = 80
	reportTimeFmt = "2006-01-02 15:04:05"
	maxWarnings   = 200
	maxRecurrence = 10
)

var (
	heavyRule = strings.Repeat("=", reportWidth)
	lightRule = strings.Repeat("-", reportWidth)
)

// CleaningReportInput gathers what the cleaning report prints
type CleaningReportInput struct {
	Source      string
	Output      string
	GeneratedAt time.Time
	Report      domain.CleaningReport
}

// CleaningReportText renders the audit trail of a cleaning run
func CleaningReportText(in CleaningReportInput) string {
	r := in.Report
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s\n%s\n\n", heavyRule, centered("RAPPORT DE NETTOYAGE DES INTERVENTIONS"), heavyRule)
	fmt.Fprintf(&b, "Date de generation : %s\n", in.GeneratedAt.Format(reportTimeFmt))
	fmt.Fprintf(&b, "Fichier source     : %s\n", in.Source)
	fmt.Fprintf(&b, "Fichier nettoye    : %s\n", in.Output)
	fmt.Fprintf(&b, "Execution          : %s\n", r.RunID)
	fmt.Fprintf(&b, "Empreinte BLAKE2b  : %s\n\n", r.Digest)

	section(&b, "CORRECTIONS PAR CHAMP")
	fmt.Fprintf(&b, "%-16s %10s %10s %10s\n", "Champ", "Corriges", "Invalides", "Manquants")
	fmt.Fprintln(&b, lightRule)
	for _, f := range r.Fields {
		fmt.Fprintf(&b, "%-16s %10d %10d %10d\n", f.Field, f.Changed, f.Invalid, f.Missing)
	}
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Lignes traitees                 : %d\n", r.TotalRecords)
	fmt.Fprintf(&b, "Corrections appliquees          : %d\n", r.TotalChanges())
	fmt.Fprintf(&b, "Lignes sans identifiant complet : %d\n\n", r.MissingIdentifiers)

	section(&b, fmt.Sprintf("AVERTISSEMENTS (%d)", len(r.Warnings)))
	if len(r.Warnings) == 0 {
		fmt.Fprintln(&b, "Aucun avertissement.")
	}
	for i, w := range r.Warnings {
		if i == maxWarnings {
			fmt.Fprintf(&b, "... %d avertissements supplementaires\n", len(r.Warnings)-maxWarnings)
			break
		}
		fmt.Fprintf(&b, "ligne %-6d %-14s %-12s %-16s %q: %s\n",
			w.Row, orDash(w.RecordID), orDash(w.MachineID), w.Field, w.Value, w.Reason)
	}

	fmt.Fprintf(&b, "\n%s\n%s\n%s\n", heavyRule, centered("FIN DU RAPPORT"), heavyRule)
	return b.String()
}

// MetricsReportInput gathers what the metrics report prints
type MetricsReportInput struct {
	Source          string
	MetricsFile     string
	TopN            int
	ParetoThreshold float64
	MTTRAlertHours  float64
	MTBFAlertDays   float64
	Analysis        *domain.Analysis
}

// MetricsReportText renders the reliability report: fleet averages, the
// observed event-gap MTBF, the top-N critical machines, the Pareto summary,
// recurring faults, an interpretation guide and recommendations.
func MetricsReportText(in MetricsReportInput) string {
	a := in.Analysis
	s := a.Summary
	topN := in.TopN
	if topN <= 0 || topN > len(a.Machines) {
		topN = len(a.Machines)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n%s\n\n", heavyRule, centered("RAPPORT D'ANALYSE DES METRIQUES DE MAINTENANCE"), heavyRule)
	fmt.Fprintf(&b, "Date de generation : %s\n", a.GeneratedAt.Format(reportTimeFmt))
	fmt.Fprintf(&b, "Fichier source     : %s\n", in.Source)
	fmt.Fprintf(&b, "Fichier metriques  : %s\n", in.MetricsFile)
	fmt.Fprintf(&b, "Periode observee   : %s heures\n\n", formatFloat(a.PeriodHours))

	section(&b, "STATISTIQUES GLOBALES")
	fmt.Fprintf(&b, "Nombre total de machines      : %d\n", s.Machines)
	fmt.Fprintf(&b, "Nombre total d'interventions  : %d\n", s.Interventions)
	fmt.Fprintf(&b, "Temps d'arret cumule total    : %s heures (%s jours)\n\n",
		formatFloat(s.TotalDowntimeHours), formatFloat(s.TotalDowntimeDays))
	fmt.Fprintf(&b, "MTTR moyen (toutes machines)  : %s heures\n", formatMeasure(s.AvgMTTRHours))
	fmt.Fprintf(&b, "MTBF moyen (toutes machines)  : %s jours\n", formatMeasure(s.AvgMTBFDays))
	fmt.Fprintf(&b, "Taux de disponibilite moyen   : %s %%\n\n", formatMeasure(s.AvgAvailabilityPct))

	section(&b, "MTBF OBSERVE (ECART MOYEN ENTRE PANNES DATEES)")
	fmt.Fprintf(&b, "Machines avec au moins deux pannes datees : %d / %d\n",
		a.EventGap.DefinedMachines, len(a.EventGap.Machines))
	fmt.Fprintf(&b, "Ecart moyen de la flotte                  : %s jours (%s heures)\n\n",
		formatMeasure(a.EventGap.FleetMeanDays), formatMeasure(a.EventGap.FleetMeanHours))

	section(&b, fmt.Sprintf("TOP %d DES MACHINES LES PLUS CRITIQUES", topN))
	fmt.Fprintln(&b, "(Triees par temps d'arret cumule decroissant)")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "%-4s %-12s %-10s %-12s %-14s %-12s %-10s\n",
		"#", "Machine", "Nb Int.", "MTTR (h)", "Arret (h)", "MTBF (j)", "Dispo %")
	fmt.Fprintln(&b, lightRule)
	for i, m := range a.Machines[:topN] {
		fmt.Fprintf(&b, "%-4d %-12s %-10d %-12.2f %-14.2f %-12.2f %-10.2f\n",
			i+1, m.MachineID, m.InterventionCount, m.MTTRHours, m.CumulativeDowntimeHours, m.MTBFDays, m.AvailabilityPct)
	}
	fmt.Fprintln(&b)

	section(&b, "ANALYSE DE PARETO")
	fmt.Fprintf(&b, "%d machine(s) sur %d concentrent au plus %.0f %% du total.\n",
		s.CriticalMachines, len(a.Pareto), in.ParetoThreshold)
	for _, e := range a.Pareto {
		if !e.IsCritical {
			break
		}
		fmt.Fprintf(&b, "  %2d. %-12s %10.2f  %6.2f %%  (cumul %6.2f %%)\n",
			e.Rank, e.MachineID, e.Value, e.SharePct, e.CumulativePct)
	}
	fmt.Fprintln(&b)

	section(&b, "PANNES RECURRENTES")
	if len(a.Recurrence) == 0 {
		fmt.Fprintln(&b, "Aucune panne recurrente detectee.")
	}
	for i, r := range a.Recurrence {
		if i == maxRecurrence {
			break
		}
		fmt.Fprintf(&b, "  %-12s %-26s x%-3d ecart %7.2f j  score %5.2f  %s\n",
			r.MachineID, r.FaultType, r.Occurrences, r.MeanGapDays, r.Score, r.Effectiveness)
	}
	fmt.Fprintf(&b, "Couples machine/panne repetes au moins 3 fois : %d\n\n", s.RecurringPairs)

	b.WriteString(interpretation)
	writeRecommendations(&b, in)

	fmt.Fprintf(&b, "%s\n%s\n%s\n", heavyRule, centered("FIN DU RAPPORT"), heavyRule)
	return b.String()
}

const interpretation = `--------------------------------------------------------------------------------
INTERPRETATION DES INDICATEURS
--------------------------------------------------------------------------------

MTTR (Mean Time To Repair)
  > Duree moyenne d'une intervention de reparation
  > Objectif : minimiser le MTTR

MTBF calendaire (Mean Time Between Failures)
  > Formule : 365 jours / nombre d'interventions
  > Objectif : maximiser le MTBF

MTBF observe
  > Ecart moyen en jours entre deux pannes datees consecutives
  > Non defini pour une machine avec moins de deux pannes datees

Taux de disponibilite
  > Formule : ((periode - temps d'arret) / periode) * 100
  > Objectif : proche de 100 %

`

// writeRecommendations names the top machines that cross the fleet averages
// or the configured alert thresholds
func writeRecommendations(b *strings.Builder, in MetricsReportInput) {
	a := in.Analysis
	s := a.Summary
	section(b, "RECOMMANDATIONS POUR LES MACHINES CRITIQUES")

	if s.Machines == 0 {
		fmt.Fprintln(b, "Aucune machine a analyser.")
		fmt.Fprintln(b)
		return
	}

	topN := in.TopN
	if topN <= 0 || topN > len(a.Machines) {
		topN = len(a.Machines)
	}
	top := a.Machines[:topN]

	var highMTTR, lowMTBF, lowAvail []string
	for _, m := range top {
		if m.MTTRHours > s.AvgMTTRHours.Float() || (in.MTTRAlertHours > 0 && m.MTTRHours > in.MTTRAlertHours) {
			highMTTR = append(highMTTR, m.MachineID)
		}
		if m.MTBFDays < s.AvgMTBFDays.Float() || (in.MTBFAlertDays > 0 && m.MTBFDays < in.MTBFAlertDays) {
			lowMTBF = append(lowMTBF, m.MachineID)
		}
		if m.AvailabilityPct < s.AvgAvailabilityPct.Float() {
			lowAvail = append(lowAvail, m.MachineID)
		}
	}

	fmt.Fprintf(b, "1. MTTR eleve (> %.1f h moyen ou > %.1f h)\n", s.AvgMTTRHours.Float(), in.MTTRAlertHours)
	fmt.Fprintf(b, "   Machines : %s\n", joinOrNone(highMTTR))
	fmt.Fprintln(b, "   > Ameliorer la logistique des pieces de rechange")
	fmt.Fprintln(b, "   > Former les techniciens sur ces equipements")
	fmt.Fprintln(b)
	fmt.Fprintf(b, "2. MTBF faible (< %.1f j moyen ou < %.1f j)\n", s.AvgMTBFDays.Float(), in.MTBFAlertDays)
	fmt.Fprintf(b, "   Machines : %s\n", joinOrNone(lowMTBF))
	fmt.Fprintln(b, "   > Renforcer la maintenance preventive")
	fmt.Fprintln(b, "   > Analyser les causes racines des pannes recurrentes")
	fmt.Fprintln(b)
	fmt.Fprintf(b, "3. Faible disponibilite (< %.1f %%)\n", s.AvgAvailabilityPct.Float())
	fmt.Fprintf(b, "   Machines : %s\n", joinOrNone(lowAvail))
	fmt.Fprintln(b, "   > Audit technique complet et plan d'action correctif")
	fmt.Fprintln(b)
}

// WriteText writes a report to path, compressing by extension like the CSV outputs
func WriteText(path, content string) error {
	w, err := files.CreateWriter(path)
	if err != nil {
		return apperrors.NewIOError("create", path, err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		w.Close()
		return apperrors.NewIOError("write", path, err)
	}
	if err := w.Close(); err != nil {
		return apperrors.NewIOError("write", path, err)
	}
	return nil
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "%s\n%s\n%s\n\n", lightRule, title, lightRule)
}

func centered(title string) string {
	pad := (reportWidth - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + title
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinOrNone(ids []string) string {
	if len(ids) == 0 {
		return "aucune"
	}
	return strings.Join(ids, ", ")
}
