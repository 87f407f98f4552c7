package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintcli/internal/shared/testutil"
)

func TestRunDefaultOutputs(t *testing.T) {
	input := testutil.WriteFile(t, "interventions.csv", testutil.DirtyInterventionsCSV)
	dir := filepath.Dir(input)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{input}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	cleaned, err := os.ReadFile(filepath.Join(dir, "interventions_cleaned.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(cleaned), "ID_Intervention,ID_Machine,Date,Duree_Arret_h,Technicien,Type_Panne,Pieces_Changees")
	assert.Contains(t, string(cleaned), "INT-001,PRESS-01,2024-01-15,41.75,Alexandre Petit,Surchauffe")
	assert.Contains(t, string(cleaned), "INT-003,CNC-02,2024-02-01,33.25,Thomas Laurent,Panne Hydraulique")

	report, err := os.ReadFile(filepath.Join(dir, "interventions_cleaning_report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "RAPPORT DE NETTOYAGE")
	assert.Contains(t, string(report), "garbage")

	assert.Contains(t, stdout.String(), "Cleaned 5 records")
	assert.Contains(t, stdout.String(), "1 missing identifiers")
}

func TestRunExplicitOutput(t *testing.T) {
	input := testutil.WriteFile(t, "log.csv", testutil.DirtyInterventionsCSV)
	output := filepath.Join(t.TempDir(), "clean.csv.gz")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{input, output}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.FileExists(t, output)
	assert.FileExists(t, filepath.Join(filepath.Dir(input), "log_cleaning_report.txt"))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "log_cleaned.csv"))
}

func TestRunCustomMappings(t *testing.T) {
	input := testutil.WriteFile(t, "log.csv", testutil.DirtyInterventionsCSV)
	mappings := testutil.WriteFile(t, "mappings.yaml", `
fault_types:
  "rupture courroie": Casse Courroie
`)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-mappings", mappings, input}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	cleaned, err := os.ReadFile(filepath.Join(filepath.Dir(input), "log_cleaned.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(cleaned), "Casse Courroie")
}

func TestRunFailures(t *testing.T) {
	missingColumns := testutil.WriteFile(t, "bad.csv", "ID_Intervention,ID_Machine\nINT-1,M-1\n")
	badMappings := testutil.WriteFile(t, "bad.yaml", "fault_types: [not, a, map]\n")
	input := testutil.WriteFile(t, "log.csv", testutil.DirtyInterventionsCSV)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing input", args: []string{filepath.Join(t.TempDir(), "absent.csv")}},
		{name: "missing columns", args: []string{missingColumns}},
		{name: "unsupported format", args: []string{testutil.WriteFile(t, "log.txt", "x")}},
		{name: "invalid mappings", args: []string{"-mappings", badMappings, input}},
		{name: "output overwrites input", args: []string{input, input}},
		{name: "output not csv", args: []string{input, filepath.Join(t.TempDir(), "clean.xlsx")}},
		{name: "unknown flag", args: []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, 1, run(context.Background(), tt.args, &stdout, &stderr))
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), []string{"-version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "cleaner v")
}
