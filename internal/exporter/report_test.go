package exporter

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintcli/internal/analytics"
	"maintcli/internal/records"
	"maintcli/internal/shared/testutil"
	"maintcli/pkg/contracts/domain"
)

var iv = testutil.Intervention

func sampleAnalysis(t *testing.T) *domain.Analysis {
	t.Helper()
	store := records.NewStore([]domain.InterventionRecord{
		iv("INT-1", "PRESS-01", "2024-01-10", 30, "Alexandre Petit", "Fuite", "Joint"),
		iv("INT-2", "PRESS-01", "2024-01-20", 20, "Alexandre Petit", "Fuite"),
		iv("INT-3", "PRESS-01", "2024-01-30", 30, "Pierre Rodriguez", "Fuite"),
		iv("INT-4", "CNC-02", "2024-02-01", 10, "Pierre Rodriguez", "Surchauffe"),
		iv("INT-5", "LATHE-03", "2024-03-01", 5, "Sophie Bernard", "Surchauffe"),
		iv("INT-6", "PUMP-04", "", 5, "Sophie Bernard", ""),
	})
	a, err := analytics.NewEngine(analytics.DefaultOptions(), nil).Analyze(context.Background(), store)
	require.NoError(t, err)
	return a
}

func TestCleaningReportText(t *testing.T) {
	report := domain.CleaningReport{
		RunID:        "run-1",
		TotalRecords: 3,
		Digest:       "abc123",
		Fields: []domain.FieldStats{
			{Field: domain.FieldDate, Changed: 2, Invalid: 1},
			{Field: domain.FieldDuration, Changed: 2, Invalid: 1},
		},
		MissingIdentifiers: 1,
		Warnings: []domain.NormalizationWarning{
			{Row: 3, MachineID: "CNC-02", Field: domain.FieldDate, Value: "bad", Reason: "unrecognized date format"},
		},
	}

	text := CleaningReportText(CleaningReportInput{
		Source:      "interventions_2024.csv",
		Output:      "interventions_2024_cleaned.csv",
		GeneratedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Report:      report,
	})

	for _, want := range []string{
		"RAPPORT DE NETTOYAGE",
		"2024-05-01 10:00:00",
		"interventions_2024_cleaned.csv",
		"abc123",
		"Corrections appliquees          : 4",
		"Lignes sans identifiant complet : 1",
		"AVERTISSEMENTS (1)",
		`"bad": unrecognized date format`,
		"FIN DU RAPPORT",
	} {
		assert.Contains(t, text, want)
	}
	assert.Contains(t, text, "ligne 3      -")
}

func TestCleaningReportWithoutWarnings(t *testing.T) {
	text := CleaningReportText(CleaningReportInput{Report: domain.CleaningReport{}})
	assert.Contains(t, text, "Aucun avertissement.")
}

func TestMetricsReportText(t *testing.T) {
	a := sampleAnalysis(t)
	text := MetricsReportText(MetricsReportInput{
		Source:          "interventions_2024_cleaned.csv",
		MetricsFile:     "interventions_2024_metrics.csv",
		TopN:            2,
		ParetoThreshold: 80,
		MTTRAlertHours:  20,
		MTBFAlertDays:   30,
		Analysis:        a,
	})

	for _, want := range []string{
		"STATISTIQUES GLOBALES",
		"Nombre total de machines      : 4",
		"Nombre total d'interventions  : 6",
		"Temps d'arret cumule total    : 100.00 heures (4.17 jours)",
		"MTBF OBSERVE",
		"Machines avec au moins deux pannes datees : 1 / 4",
		"Ecart moyen de la flotte                  : 10.00 jours (240.00 heures)",
		"TOP 2 DES MACHINES LES PLUS CRITIQUES",
		"ANALYSE DE PARETO",
		"PANNES RECURRENTES",
		"INTERPRETATION DES INDICATEURS",
		"RECOMMANDATIONS",
	} {
		assert.Contains(t, text, want)
	}

	assert.Contains(t, text, "1    PRESS-01")
	assert.Contains(t, text, "2    CNC-02")
	assert.NotContains(t, text, "3    LATHE-03", "top N limits the table")
	assert.Contains(t, text, "Machines : PRESS-01", "PRESS-01 crosses the MTTR alert")
}

func TestMetricsReportEmpty(t *testing.T) {
	a, err := analytics.NewEngine(analytics.DefaultOptions(), nil).Analyze(context.Background(), records.NewStore(nil))
	require.NoError(t, err)

	text := MetricsReportText(MetricsReportInput{TopN: 10, Analysis: a})
	assert.Contains(t, text, "MTTR moyen (toutes machines)  : N/A heures")
	assert.Contains(t, text, "TOP 0 DES MACHINES")
	assert.Contains(t, text, "Aucune machine a analyser.")
	assert.Contains(t, text, "Aucune panne recurrente detectee.")
}

func TestWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.txt")
	require.NoError(t, WriteText(path, "hello\n"))
	assert.Equal(t, "hello\n", string(readAll(t, path)))
}

func TestCentered(t *testing.T) {
	line := centered("FIN")
	assert.Equal(t, "FIN", strings.TrimSpace(line))
	assert.Equal(t, (reportWidth-3)/2, len(line)-3)
}
