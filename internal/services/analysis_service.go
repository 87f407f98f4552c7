package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"maintcli/internal/analytics"
	"maintcli/internal/config"
	"maintcli/internal/infrastructure"
	"maintcli/internal/normalize"
	"maintcli/internal/pipeline"
	"maintcli/internal/records"
	"maintcli/pkg/contracts/domain"
)

// DatasetStatus describes the dataset currently served
type DatasetStatus struct {
	Loaded   bool      `json:"loaded"`
	Input    string    `json:"input"`
	Records  int       `json:"records"`
	Warnings int       `json:"warnings"`
	Digest   string    `json:"digest,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}

// snapshot is one loaded and cleaned dataset. It is never mutated after
// publication; reloads replace it whole.
type snapshot struct {
	store    *records.Store
	report   domain.CleaningReport
	loadedAt time.Time
}

// AnalysisService loads the intervention log, cleans it and answers
// analysis queries over the cleaned records. Queries read the current
// snapshot under a read lock; Load and Reload build a new snapshot and
// swap it in.
type AnalysisService struct {
	input   string
	engine  *analytics.Engine
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics

	mu       sync.RWMutex
	mappings *config.Mappings
	current  *snapshot

	// loadMu serializes loads so two reloads never race on the same file
	loadMu sync.Mutex
}

// NewAnalysisService creates a service over input. Nil mappings use the
// built-in tables and a nil engine uses the default options.
func NewAnalysisService(input string, mappings *config.Mappings, engine *analytics.Engine, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if mappings == nil {
		mappings = config.DefaultMappings()
	}
	if engine == nil {
		engine = analytics.NewEngine(analytics.DefaultOptions(), logger)
	}

	logger.Info("AnalysisService initialized",
		slog.String("input", input))

	return &AnalysisService{
		input:    input,
		engine:   engine,
		logger:   logger.With(slog.String("service", "analysis")),
		mappings: mappings,
	}
}

// WithMetrics attaches business metrics to the service and its pipeline runs
func (s *AnalysisService) WithMetrics(m *infrastructure.BusinessMetrics) *AnalysisService {
	s.metrics = m
	return s
}

// Load reads and cleans the input file with the current mappings and
// publishes the result. On failure the previous snapshot stays active.
func (s *AnalysisService) Load(ctx context.Context) error {
	if s.input == "" {
		return ErrNoInput
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.RLock()
	mappings := s.mappings
	s.mu.RUnlock()

	rows, err := records.Load(s.input)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load interventions",
			slog.String("input", s.input),
			slog.String("error", err.Error()))
		return err
	}

	p := pipeline.New(normalize.New(mappings), s.logger).WithMetrics(s.metrics)
	result, err := p.Run(ctx, rows)
	if err != nil {
		return fmt.Errorf("clean %s: %w", s.input, err)
	}

	next := &snapshot{
		store:    records.NewStore(result.Records),
		report:   result.Report,
		loadedAt: time.Now(),
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("input", s.input),
		slog.Int("records", next.store.Len()),
		slog.Int("warnings", len(next.report.Warnings)),
		slog.String("digest", next.report.Digest))
	return nil
}

// Reload installs new mappings and re-cleans the input
func (s *AnalysisService) Reload(ctx context.Context, mappings *config.Mappings) error {
	if mappings == nil {
		mappings = config.DefaultMappings()
	}

	s.mu.Lock()
	previous := s.mappings
	s.mappings = mappings
	s.mu.Unlock()

	err := s.Load(ctx)
	if err != nil {
		s.mu.Lock()
		s.mappings = previous
		s.mu.Unlock()
	}
	infrastructure.RecordMappingReload(ctx, s.metrics, err == nil)
	return err
}

// WatchMappings reloads the dataset every time the mappings file changes.
// It blocks until ctx is cancelled.
func (s *AnalysisService) WatchMappings(ctx context.Context, path string) error {
	return config.WatchMappings(ctx, path, s.logger, func(m *config.Mappings) {
		if err := s.Reload(ctx, m); err != nil {
			s.logger.ErrorContext(ctx, "reload after mappings change failed",
				slog.String("error", err.Error()))
		}
	})
}

// Status describes the current dataset
func (s *AnalysisService) Status() DatasetStatus {
	st := DatasetStatus{Input: s.input}
	snap := s.snapshot()
	if snap == nil {
		return st
	}
	st.Loaded = true
	st.Records = snap.store.Len()
	st.Warnings = len(snap.report.Warnings)
	st.Digest = snap.report.Digest
	st.LoadedAt = snap.loadedAt
	return st
}

// CleaningReport returns the report of the run that produced the current dataset
func (s *AnalysisService) CleaningReport() (domain.CleaningReport, error) {
	snap := s.snapshot()
	if snap == nil {
		return domain.CleaningReport{}, ErrNotLoaded
	}
	return snap.report, nil
}

// Records returns the filtered record store
func (s *AnalysisService) Records(filter records.Filter) (*records.Store, error) {
	snap := s.snapshot()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.store.Apply(filter), nil
}

// Analyze computes every indicator over the filtered records. When the
// filter carries both date bounds, availability uses that window instead
// of the configured period.
func (s *AnalysisService) Analyze(ctx context.Context, filter records.Filter, basis domain.ParetoBasis) (*domain.Analysis, error) {
	store, err := s.Records(filter)
	if err != nil {
		return nil, err
	}

	opts := s.engine.Options()
	if basis != "" {
		opts.ParetoBasis = basis
	}
	if !filter.From.IsZero() && !filter.To.IsZero() {
		opts.PeriodHours = analytics.PeriodHoursBetween(filter.From, filter.To)
	}

	return s.engine.AnalyzeWith(ctx, store, opts)
}

func (s *AnalysisService) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
