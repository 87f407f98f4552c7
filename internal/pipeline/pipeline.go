package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/blake2b"

	"maintcli/internal/infrastructure"
	"maintcli/internal/normalize"
	"maintcli/pkg/contracts/domain"
)

// cancelCheckInterval is how many rows are cleaned between context checks
const cancelCheckInterval = 1024

// Result is the outcome of one cleaning run. Records and Canonical are
// index aligned with the input rows; no row is ever dropped.
type Result struct {
	Records   []domain.InterventionRecord
	Canonical []domain.RawRecord
	Report    domain.CleaningReport
}

// Pipeline applies the field normalizers to every row in a fixed order:
// date, duration, technician, fault type, parts.
type Pipeline struct {
	normalizer *normalize.Normalizer
	logger     *slog.Logger
	metrics    *infrastructure.BusinessMetrics
}

// New creates a pipeline. A nil normalizer uses the built-in mappings.
func New(n *normalize.Normalizer, logger *slog.Logger) *Pipeline {
	if n == nil {
		n = normalize.New(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		normalizer: n,
		logger:     logger.With(slog.String("component", "pipeline")),
	}
}

// WithMetrics attaches business metrics recorded after every run
func (p *Pipeline) WithMetrics(m *infrastructure.BusinessMetrics) *Pipeline {
	p.metrics = m
	return p
}

// Run cleans all rows. The only error is cancellation of ctx.
func (p *Pipeline) Run(ctx context.Context, rows []domain.RawRecord) (*Result, error) {
	runID := uuid.New().String()
	if infrastructure.GetTraceID(ctx) == "" {
		ctx = infrastructure.WithTraceID(ctx, runID)
	}

	ctx, span := otel.Tracer("maintcli/pipeline").Start(ctx, "pipeline.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.Int("rows", len(rows)),
	)

	start := time.Now()
	p.logger.InfoContext(ctx, "starting cleaning run",
		"run_id", runID,
		"rows", len(rows),
	)

	stats := newFieldCounter()
	result := &Result{
		Records:   make([]domain.InterventionRecord, len(rows)),
		Canonical: make([]domain.RawRecord, len(rows)),
		Report: domain.CleaningReport{
			RunID:        runID,
			StartedAt:    start,
			TotalRecords: len(rows),
			Warnings:     []domain.NormalizationWarning{},
		},
	}

	for i, row := range rows {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				infrastructure.RecordError(ctx, err)
				return nil, fmt.Errorf("cleaning cancelled after %d rows: %w", i, err)
			}
		}
		if row.Row == 0 {
			row.Row = i + 1
		}

		record, canonical, warnings := p.cleanRow(row, stats)
		result.Records[i] = record
		result.Canonical[i] = canonical

		for _, w := range warnings {
			p.logger.WarnContext(ctx, "normalization warning",
				"row", w.Row,
				"record_id", w.RecordID,
				"machine_id", w.MachineID,
				"field", string(w.Field),
				"value", w.Value,
				"reason", w.Reason,
			)
		}
		result.Report.Warnings = append(result.Report.Warnings, warnings...)
		if !record.HasIdentifiers() {
			result.Report.MissingIdentifiers++
		}
	}

	result.Report.Fields = stats.snapshot()
	result.Report.Digest = Digest(result.Canonical)
	result.Report.Duration = time.Since(start)

	infrastructure.RecordCleaningMetrics(ctx, p.metrics, result.Report)

	p.logger.InfoContext(ctx, "cleaning run completed",
		"run_id", runID,
		"rows", len(rows),
		"changes", result.Report.TotalChanges(),
		"warnings", len(result.Report.Warnings),
		"missing_identifiers", result.Report.MissingIdentifiers,
		"duration", result.Report.Duration,
	)

	return result, nil
}

// cleanRow normalizes one row and returns the typed record, the canonical
// text row and any warnings raised
func (p *Pipeline) cleanRow(row domain.RawRecord, stats *fieldCounter) (domain.InterventionRecord, domain.RawRecord, []domain.NormalizationWarning) {
	var warnings []domain.NormalizationWarning
	warn := func(field domain.Field, value, reason string) {
		warnings = append(warnings, domain.NormalizationWarning{
			Row:       row.Row,
			RecordID:  row.ID,
			MachineID: row.MachineID,
			Field:     field,
			Value:     value,
			Reason:    reason,
		})
	}

	if strings.TrimSpace(row.ID) == "" {
		warn(domain.FieldID, row.ID, "missing intervention id")
	}
	if strings.TrimSpace(row.MachineID) == "" {
		warn(domain.FieldMachineID, row.MachineID, "missing machine id")
	}

	date := p.normalizer.Date(row.Date)
	stats.observe(domain.FieldDate, date.Status, date.Changed(row.Date))
	if date.Status == normalize.StatusInvalid {
		warn(domain.FieldDate, row.Date, date.Reason)
	}

	duration := p.normalizer.Duration(row.Duration)
	stats.observe(domain.FieldDuration, duration.Status, duration.Changed(row.Duration))
	if duration.Status == normalize.StatusInvalid || duration.Status == normalize.StatusMissing {
		warn(domain.FieldDuration, row.Duration, duration.Reason)
	}

	technician := p.normalizer.Technician(row.Technician)
	stats.observe(domain.FieldTechnician, technician.Status, technician.Changed(row.Technician))

	fault := p.normalizer.FaultType(row.FaultType)
	stats.observe(domain.FieldFaultType, fault.Status, fault.Changed(row.FaultType))

	parts := p.normalizer.Parts(row.Parts)
	stats.observe(domain.FieldParts, parts.Status, parts.Changed(row.Parts))

	record := domain.InterventionRecord{
		ID:            row.ID,
		MachineID:     row.MachineID,
		Date:          date.Value,
		DowntimeHours: duration.Value,
		Technician:    technician.Value,
		FaultType:     fault.Value,
		PartsChanged:  parts.Value,
	}

	canonical := domain.RawRecord{
		Row:        row.Row,
		ID:         row.ID,
		MachineID:  row.MachineID,
		Date:       date.Text,
		Duration:   duration.Text,
		Technician: technician.Text,
		FaultType:  fault.Text,
		Parts:      parts.Text,
	}

	return record, canonical, warnings
}

// Digest fingerprints canonical rows with BLAKE2b-256. Two runs over the
// same canonical data produce the same digest.
func Digest(rows []domain.RawRecord) string {
	h, _ := blake2b.New256(nil)
	for _, row := range rows {
		for i, v := range row.Values() {
			if i > 0 {
				h.Write([]byte{0x1f})
			}
			h.Write([]byte(v))
		}
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// fieldCounter accumulates per-field statistics in normalization order
type fieldCounter struct {
	stats map[domain.Field]*domain.FieldStats
}

func newFieldCounter() *fieldCounter {
	c := &fieldCounter{stats: make(map[domain.Field]*domain.FieldStats, len(domain.NormalizedFields))}
	for _, f := range domain.NormalizedFields {
		c.stats[f] = &domain.FieldStats{Field: f}
	}
	return c
}

func (c *fieldCounter) observe(field domain.Field, status normalize.Status, changed bool) {
	s := c.stats[field]
	if changed {
		s.Changed++
	}
	switch status {
	case normalize.StatusInvalid:
		s.Invalid++
	case normalize.StatusMissing:
		s.Missing++
	}
}

func (c *fieldCounter) snapshot() []domain.FieldStats {
	out := make([]domain.FieldStats, 0, len(domain.NormalizedFields))
	for _, f := range domain.NormalizedFields {
		out = append(out, *c.stats[f])
	}
	return out
}
