package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintcli/internal/infrastructure"
	"maintcli/internal/shared/testutil"
	"maintcli/pkg/contracts/domain"
)

func sampleRows() []domain.RawRecord {
	return []domain.RawRecord{
		testutil.Raw(1, "INT-001", "PRESS-01", "2024-01-15", "41h45", "A. PETIT", "surchauffe", "Roulement / Joint"),
		testutil.Raw(2, "INT-002", "PRESS-01", "15/03/2024", "14.00", "Alexandre Petit", "Surchauffe", "None"),
		testutil.Raw(3, "", "CNC-02", "bad", "garbage", "", "", ""),
	}
}

func TestRunNormalizesEveryRow(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	p := New(nil, logger)

	res, err := p.Run(context.Background(), sampleRows())
	require.NoError(t, err)

	require.Len(t, res.Records, 3, "no row is dropped")
	require.Len(t, res.Canonical, 3)

	first := res.Records[0]
	assert.Equal(t, "INT-001", first.ID)
	assert.Equal(t, testutil.Date(2024, 1, 15), first.Date)
	assert.Equal(t, 41.75, first.DowntimeHours)
	assert.Equal(t, "Alexandre Petit", first.Technician)
	assert.Equal(t, "Surchauffe", first.FaultType)
	assert.Equal(t, []string{"Roulement", "Joint"}, first.PartsChanged)

	assert.Equal(t, domain.RawRecord{
		Row: 1, ID: "INT-001", MachineID: "PRESS-01", Date: "2024-01-15", Duration: "41.75",
		Technician: "Alexandre Petit", FaultType: "Surchauffe", Parts: "Roulement, Joint",
	}, res.Canonical[0])

	broken := res.Records[2]
	assert.False(t, broken.HasDate())
	assert.Equal(t, 0.0, broken.DowntimeHours)
	assert.Equal(t, []string{}, broken.PartsChanged)
	assert.Equal(t, "", res.Canonical[2].Date)
	assert.Equal(t, "0.00", res.Canonical[2].Duration)
	assert.Equal(t, "None", res.Canonical[2].Parts)
}

func TestRunReport(t *testing.T) {
	res, err := New(nil, nil).Run(context.Background(), sampleRows())
	require.NoError(t, err)

	report := res.Report
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, 1, report.MissingIdentifiers)
	assert.Len(t, report.Digest, 64)

	want := []domain.FieldStats{
		{Field: domain.FieldDate, Changed: 2, Invalid: 1},
		{Field: domain.FieldDuration, Changed: 2, Invalid: 1},
		{Field: domain.FieldTechnician, Changed: 1, Missing: 1},
		{Field: domain.FieldFaultType, Changed: 1, Missing: 1},
		{Field: domain.FieldParts, Changed: 2, Missing: 2},
	}
	assert.Equal(t, want, report.Fields)
	assert.Equal(t, 8, report.TotalChanges())

	require.Len(t, report.Warnings, 3)
	fields := []domain.Field{}
	for _, w := range report.Warnings {
		assert.Equal(t, 3, w.Row)
		assert.Equal(t, "CNC-02", w.MachineID)
		fields = append(fields, w.Field)
	}
	assert.Equal(t, []domain.Field{domain.FieldID, domain.FieldDate, domain.FieldDuration}, fields)
}

func TestRunIsIdempotent(t *testing.T) {
	p := New(nil, nil)

	first, err := p.Run(context.Background(), sampleRows())
	require.NoError(t, err)

	second, err := p.Run(context.Background(), first.Canonical)
	require.NoError(t, err)

	assert.Equal(t, first.Canonical, second.Canonical)
	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, 0, second.Report.TotalChanges())
	assert.Equal(t, first.Report.Digest, second.Report.Digest)
	assert.NotEqual(t, first.Report.RunID, second.Report.RunID)
}

func TestRunMissingDurationWarns(t *testing.T) {
	rows := []domain.RawRecord{testutil.Raw(1, "INT-9", "M-1", "2024-05-01", "", "RODRIGUEZ", "Fuite", "Joint")}

	res, err := New(nil, nil).Run(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Records[0].DowntimeHours)
	assert.Equal(t, "0.00", res.Canonical[0].Duration)
	require.Len(t, res.Report.Warnings, 1)
	assert.Equal(t, domain.FieldDuration, res.Report.Warnings[0].Field)
	assert.Equal(t, 1, res.Report.Stats(domain.FieldDuration).Missing)
}

func TestRunAssignsRowNumbers(t *testing.T) {
	rows := []domain.RawRecord{{ID: "A", MachineID: "M"}, {ID: "B"}}

	res, err := New(nil, nil).Run(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Canonical[0].Row)
	assert.Equal(t, 2, res.Canonical[1].Row)
	assert.Equal(t, 1, res.Report.MissingIdentifiers)
}

func TestRunEmpty(t *testing.T) {
	res, err := New(nil, nil).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, res.Records)
	assert.Equal(t, 0, res.Report.TotalRecords)
	assert.Empty(t, res.Report.Warnings)
	assert.Len(t, res.Report.Fields, len(domain.NormalizedFields))
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil, nil).Run(ctx, sampleRows())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunLogging(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)

	_, err := New(nil, logger).Run(context.Background(), sampleRows())
	require.NoError(t, err)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "starting cleaning run")
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "cleaning run completed")
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "normalization warning")
	assert.True(t, handler.ContainsAttr("component", "pipeline"))
	assert.True(t, handler.ContainsAttr("field", "duration"))
	assert.Len(t, handler.GetRecordsByLevel(slog.LevelWarn), 3)
}

func TestRunKeepsCallerTraceID(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	ctx := infrastructure.WithTraceID(context.Background(), "caller-trace")

	res, err := New(nil, logger).Run(ctx, sampleRows()[:1])
	require.NoError(t, err)
	assert.NotEqual(t, "caller-trace", res.Report.RunID)
	assert.True(t, handler.ContainsAttr("run_id", res.Report.RunID))
}

func TestDigest(t *testing.T) {
	rows := sampleRows()
	assert.Equal(t, Digest(rows), Digest(rows))

	// cell boundaries are part of the fingerprint
	a := []domain.RawRecord{{ID: "ab", MachineID: "c"}}
	b := []domain.RawRecord{{ID: "a", MachineID: "bc"}}
	assert.NotEqual(t, Digest(a), Digest(b))
}

func BenchmarkRun(b *testing.B) {
	base := sampleRows()
	rows := make([]domain.RawRecord, 0, 10000)
	for len(rows) < cap(rows) {
		for _, r := range base {
			r.Row = len(rows) + 1
			rows = append(rows, r)
		}
	}
	p := New(nil, slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})))
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Run(ctx, rows); err != nil {
			b.Fatal(err)
		}
	}
}
