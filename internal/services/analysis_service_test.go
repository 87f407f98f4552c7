package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintcli/internal/config"
	apperrors "maintcli/internal/errors"
	"maintcli/internal/records"
	"maintcli/internal/shared/testutil"
	"maintcli/pkg/contracts/domain"
)

func newLoadedService(t *testing.T) *AnalysisService {
	t.Helper()
	path := testutil.WriteFile(t, "interventions.csv", testutil.DirtyInterventionsCSV)
	svc := NewAnalysisService(path, nil, nil, testLogger(t))
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestAnalysisServiceNotLoaded(t *testing.T) {
	svc := NewAnalysisService("missing.csv", nil, nil, testLogger(t))

	_, err := svc.CleaningReport()
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = svc.Records(records.Filter{})
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = svc.Analyze(context.Background(), records.Filter{}, "")
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.False(t, svc.Status().Loaded)
}

func TestAnalysisServiceLoad(t *testing.T) {
	svc := newLoadedService(t)

	st := svc.Status()
	assert.True(t, st.Loaded)
	assert.Equal(t, 5, st.Records)
	assert.NotEmpty(t, st.Digest)
	assert.False(t, st.LoadedAt.IsZero())

	report, err := svc.CleaningReport()
	require.NoError(t, err)
	assert.Equal(t, 5, report.TotalRecords)
	assert.Equal(t, 1, report.MissingIdentifiers)

	store, err := svc.Records(records.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"CNC-02", "LATHE-03", "PRESS-01"}, store.Machines())
	assert.Contains(t, store.Technicians(), "Alexandre Petit")
}

func TestAnalysisServiceLoadErrors(t *testing.T) {
	svc := NewAnalysisService("", nil, nil, testLogger(t))
	assert.ErrorIs(t, svc.Load(context.Background()), ErrNoInput)

	svc = NewAnalysisService(filepath.Join(t.TempDir(), "absent.csv"), nil, nil, testLogger(t))
	err := svc.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsIOError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalysisServiceFailedReloadKeepsSnapshot(t *testing.T) {
	path := testutil.WriteFile(t, "interventions.csv", testutil.DirtyInterventionsCSV)
	svc := NewAnalysisService(path, nil, nil, testLogger(t))
	require.NoError(t, svc.Load(context.Background()))
	before := svc.Status()

	require.NoError(t, os.WriteFile(path, []byte("ID_Machine\nPRESS-01\n"), 0644))
	err := svc.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))

	assert.Equal(t, before, svc.Status())
}

func TestAnalysisServiceAnalyze(t *testing.T) {
	svc := newLoadedService(t)

	a, err := svc.Analyze(context.Background(), records.Filter{}, "")
	require.NoError(t, err)
	assert.Equal(t, 3, a.Summary.Machines)
	assert.Equal(t, 4, a.Summary.Interventions)
	assert.Equal(t, 8760.0, a.PeriodHours)

	a, err = svc.Analyze(context.Background(), records.Filter{Machines: []string{"PRESS-01"}}, domain.ParetoByCount)
	require.NoError(t, err)
	require.Len(t, a.Machines, 1)
	assert.Equal(t, 2, a.Machines[0].InterventionCount)
	assert.Equal(t, 2.0, a.Pareto[0].Value)

	a, err = svc.Analyze(context.Background(), records.Filter{ExcludeMissingIDs: true}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, a.Summary.Machines)
}

func TestAnalysisServiceDateWindow(t *testing.T) {
	svc := newLoadedService(t)

	filter := records.Filter{From: testutil.Date(2024, 1, 1), To: testutil.Date(2024, 1, 31)}
	a, err := svc.Analyze(context.Background(), filter, "")
	require.NoError(t, err)

	assert.Equal(t, 744.0, a.PeriodHours)
	require.Len(t, a.Machines, 1)
	assert.Equal(t, "PRESS-01", a.Machines[0].MachineID)
	// 41.75 h down over 744 h
	assert.Equal(t, 94.39, a.Machines[0].AvailabilityPct)
}

func TestAnalysisServiceReload(t *testing.T) {
	svc := newLoadedService(t)

	store, err := svc.Records(records.Filter{})
	require.NoError(t, err)
	assert.Contains(t, store.FaultTypes(), "Rupture Courroie")

	m, err := config.ParseMappings([]byte(`
fault_types:
  "rupture courroie": Casse Courroie
`))
	require.NoError(t, err)
	require.NoError(t, svc.Reload(context.Background(), m))

	store, err = svc.Records(records.Filter{})
	require.NoError(t, err)
	assert.Contains(t, store.FaultTypes(), "Casse Courroie")
	assert.NotContains(t, store.FaultTypes(), "Rupture Courroie")
}

func TestAnalysisServiceConcurrentReads(t *testing.T) {
	svc := newLoadedService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				assert.NoError(t, svc.Reload(ctx, nil))
				return
			}
			a, err := svc.Analyze(ctx, records.Filter{}, "")
			if assert.NoError(t, err) {
				assert.Equal(t, 3, a.Summary.Machines)
			}
		}(i)
	}
	wg.Wait()
}

func TestAnalysisServiceWatchMappings(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "interventions.csv")
	require.NoError(t, os.WriteFile(data, []byte(testutil.DirtyInterventionsCSV), 0644))
	mappingsPath := filepath.Join(dir, "mappings.yaml")
	require.NoError(t, os.WriteFile(mappingsPath, []byte("fault_types:\n  fuites: Fuite\n"), 0644))

	svc := NewAnalysisService(data, nil, nil, testLogger(t))
	require.NoError(t, svc.Load(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.WatchMappings(ctx, mappingsPath) }()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(mappingsPath, []byte("fault_types:\n  fuites: Fuite Hydraulique\n"), 0644))

	assert.Eventually(t, func() bool {
		store, err := svc.Records(records.Filter{})
		if err != nil {
			return false
		}
		for _, f := range store.FaultTypes() {
			if f == "Fuite Hydraulique" {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func testLogger(t *testing.T) *slog.Logger {
	logger, _ := testutil.NewTestLogger(t)
	return logger
}
