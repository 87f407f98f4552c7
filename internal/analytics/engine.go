package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"maintcli/internal/config"
	"maintcli/internal/infrastructure"
	"maintcli/internal/records"
	"maintcli/pkg/contracts/domain"
)

// Options tunes one computation
type Options struct {
	// PeriodHours is the availability window; non-positive means one year
	PeriodHours     float64
	ParetoThreshold float64
	ParetoBasis     domain.ParetoBasis
	Workers         int
}

// DefaultOptions returns the yearly window, 80 % downtime Pareto and 4 workers
func DefaultOptions() Options {
	return Options{
		PeriodHours:     HoursPerYear,
		ParetoThreshold: DefaultParetoThreshold,
		ParetoBasis:     domain.ParetoByDowntime,
		Workers:         4,
	}
}

// OptionsFromConfig maps the analysis section of the configuration
func OptionsFromConfig(cfg config.AnalysisConfig) Options {
	return Options{
		PeriodHours:     cfg.PeriodHours,
		ParetoThreshold: cfg.ParetoThreshold,
		ParetoBasis:     domain.ParetoBasis(cfg.ParetoBasis),
		Workers:         cfg.Workers,
	}.normalized()
}

func (o Options) normalized() Options {
	if o.PeriodHours <= 0 || math.IsNaN(o.PeriodHours) {
		o.PeriodHours = HoursPerYear
	}
	if o.ParetoThreshold <= 0 || o.ParetoThreshold > 100 {
		o.ParetoThreshold = DefaultParetoThreshold
	}
	if !o.ParetoBasis.Valid() {
		o.ParetoBasis = domain.ParetoByDowntime
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	return o
}

// Engine computes reliability indicators over a record store.
// It never mutates the store and is safe for concurrent use.
type Engine struct {
	opts    Options
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
	now     func() time.Time
}

// NewEngine creates an engine
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		opts:   opts.normalized(),
		logger: logger.With(slog.String("component", "analytics")),
		now:    time.Now,
	}
}

// WithMetrics attaches business metrics recorded after every computation
func (e *Engine) WithMetrics(m *infrastructure.BusinessMetrics) *Engine {
	e.metrics = m
	return e
}

// Options returns the engine defaults
func (e *Engine) Options() Options {
	return e.opts
}

// Analyze computes every indicator family with the engine options
func (e *Engine) Analyze(ctx context.Context, store *records.Store) (*domain.Analysis, error) {
	return e.AnalyzeWith(ctx, store, e.opts)
}

// AnalyzeWith computes every indicator family with explicit options. The
// families run concurrently, bounded by opts.Workers; each one sorts its own
// output so the result does not depend on scheduling.
func (e *Engine) AnalyzeWith(ctx context.Context, store *records.Store, opts Options) (*domain.Analysis, error) {
	opts = opts.normalized()
	start := time.Now()

	ctx, span := otel.Tracer("maintcli/analytics").Start(ctx, "analytics.analyze")
	defer span.End()

	recs := store.Records()
	span.SetAttributes(
		attribute.Int("records", len(recs)),
		attribute.String("pareto_basis", string(opts.ParetoBasis)),
		attribute.Float64("period_hours", opts.PeriodHours),
	)

	a := &domain.Analysis{
		GeneratedAt: e.now(),
		PeriodHours: opts.PeriodHours,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	family := func(name string, fn func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			fn()
			return nil
		})
	}

	family("machines", func() { a.Machines = MachineMetrics(recs, opts.PeriodHours) })
	family("event_gap", func() { a.EventGap = EventGapMTBF(recs) })
	family("pareto", func() { a.Pareto = Pareto(recs, opts.ParetoBasis, opts.ParetoThreshold) })
	family("recurrence", func() { a.Recurrence = Recurrence(recs) })
	family("technicians", func() { a.Technicians = Technicians(recs) })
	family("parts", func() { a.Parts = Parts(recs) })
	family("monthly", func() { a.Monthly = Monthly(recs) })
	family("faults", func() { a.Faults = FaultDistribution(recs) })
	family("weekdays", func() { a.Weekdays = Weekdays(recs) })

	if err := g.Wait(); err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.RecordAnalysisMetrics(ctx, e.metrics, len(recs), time.Since(start), err)
		return nil, fmt.Errorf("analysis aborted: %w", err)
	}

	a.Summary = Summarize(recs, a.Machines, a.Pareto, a.Recurrence)

	duration := time.Since(start)
	infrastructure.RecordAnalysisMetrics(ctx, e.metrics, len(recs), duration, nil)

	e.logger.InfoContext(ctx, "analysis completed",
		"records", len(recs),
		"machines", a.Summary.Machines,
		"critical_machines", a.Summary.CriticalMachines,
		"recurring_pairs", len(a.Recurrence),
		"duration", duration,
	)

	return a, nil
}

// Summarize derives the fleet-level averages from the per-machine table.
// Averages over an empty table are undefined.
func Summarize(recs []domain.InterventionRecord, machines []domain.MachineMetrics, pareto []domain.ParetoEntry, recurrence []domain.RecurrenceEntry) domain.FleetSummary {
	s := domain.FleetSummary{
		Machines:           len(machines),
		AvgMTTRHours:       domain.Undefined(),
		AvgMTBFDays:        domain.Undefined(),
		AvgAvailabilityPct: domain.Undefined(),
		CriticalMachines:   CriticalCount(pareto),
		RecurringPairs:     ChronicPairs(recurrence),
	}

	for _, r := range recs {
		if r.ID != "" {
			s.Interventions++
		}
	}

	if len(machines) == 0 {
		return s
	}

	var mttr, mtbf, avail, downtime float64
	for _, m := range machines {
		mttr += m.MTTRHours
		mtbf += m.MTBFDays
		avail += m.AvailabilityPct
		downtime += m.CumulativeDowntimeHours
	}
	n := float64(len(machines))

	s.TotalDowntimeHours = Round2(downtime)
	s.TotalDowntimeDays = Round2(downtime / hoursPerDay)
	s.AvgMTTRHours = domain.Measure(Round2(mttr / n))
	s.AvgMTBFDays = domain.Measure(Round2(mtbf / n))
	s.AvgAvailabilityPct = domain.Measure(Round2(avail / n))
	return s
}
