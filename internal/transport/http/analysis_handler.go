package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "maintcli/internal/errors"
	"maintcli/internal/middleware"
	"maintcli/internal/services"
	"maintcli/pkg/contracts/domain"
)

// AnalysisHandler serves the read-only reliability API
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	validator    *middleware.Validator
	params       *middleware.QueryParamValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{
		service:      service,
		validator:    middleware.NewValidator(logger),
		params:       middleware.NewQueryParamValidator(logger, errorHandler),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "analysis_handler")),
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/machines", h.GetMachines)
	r.Get("/machines/{machineID}", h.GetMachine)
	r.Get("/mtbf/event-gap", h.GetEventGap)
	r.Get("/pareto", h.GetPareto)
	r.Get("/recurrence", h.GetRecurrence)
	r.Get("/technicians", h.GetTechnicians)
	r.Get("/parts", h.GetParts)
	r.Get("/trends/monthly", h.GetMonthlyTrends)
	r.Get("/trends/weekday", h.GetWeekdayTrends)
	r.Get("/faults", h.GetFaults)
	r.Get("/cleaning/report", h.GetCleaningReport)

	return r
}

// analyze validates the filter query and runs the analysis. On failure the
// problem response has already been written and nil is returned.
func (h *AnalysisHandler) analyze(w http.ResponseWriter, r *http.Request) *domain.Analysis {
	query := bindFilterQuery(r)
	if err := h.validator.ValidateStruct(query); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil
	}
	filter, err := query.Filter()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil
	}

	analysis, err := h.service.Analyze(r.Context(), filter, query.ParetoBasis())
	if err != nil {
		h.handleServiceError(w, r, err)
		return nil
	}
	return analysis
}

func (h *AnalysisHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNotLoaded) {
		h.errorHandler.HandleError(w, r, apierrors.ErrDataNotLoaded)
		return
	}
	h.errorHandler.HandleError(w, r, err)
}

// GetSummary handles GET /api/v1/summary
func (h *AnalysisHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	analysis := h.analyze(w, r)
	if analysis == nil {
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"generated_at": analysis.GeneratedAt,
		"period_hours": analysis.PeriodHours,
		"summary":      analysis.Summary,
	})
}

// GetMachines handles GET /api/v1/machines, optionally limited by ?top=N
func (h *AnalysisHandler) GetMachines(w http.ResponseWriter, r *http.Request) {
	top, ok := h.params.ValidateInt(w, r, "top", 1, 10000, 0)
	if !ok {
		return
	}
	analysis := h.analyze(w, r)
	if analysis == nil {
		return
	}

	machines := analysis.Machines
	if top > 0 && top < len(machines) {
		machines = machines[:top]
	}
	render.JSON(w, r, map[string]interface{}{
		"period_hours": analysis.PeriodHours,
		"count":        len(analysis.Machines),
		"machines":     machines,
	})
}

// GetMachine handles GET /api/v1/machines/{machineID}
func (h *AnalysisHandler) GetMachine(w http.ResponseWriter, r *http.Request) {
	machineID := strings.TrimSpace(chi.URLParam(r, "machineID"))
	if machineID == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("machineID", "machine id is required"))
		return
	}
	analysis := h.analyze(w, r)
	if analysis == nil {
		return
	}

	for _, m := range analysis.Machines {
		if m.MachineID == machineID {
			render.JSON(w, r, m)
			return
		}
	}
	h.errorHandler.HandleError(w, r, apierrors.NotFoundError("machine", machineID))
}

// GetEventGap handles GET /api/v1/mtbf/event-gap
func (h *AnalysisHandler) GetEventGap(w http.ResponseWriter, r *http.Request) {
	if analysis := h.analyze(w, r); analysis != nil {
		render.JSON(w, r, analysis.EventGap)
	}
}

// GetPareto handles GET /api/v1/pareto?basis=downtime|count
func (h *AnalysisHandler) GetPareto(w http.ResponseWriter, r *http.Request) {
	analysis := h.analyze(w, r)
	if analysis == nil {
		return
	}

	critical := make([]string, 0)
	for _, e := range analysis.Pareto {
		if e.IsCritical {
			critical = append(critical, e.MachineID)
		}
	}
	render.JSON(w, r, map[string]interface{}{
		"entries":  analysis.Pareto,
		"critical": critical,
	})
}

// GetRecurrence handles GET /api/v1/recurrence
func (h *AnalysisHandler) GetRecurrence(w http.ResponseWriter, r *http.Request) {
	if analysis := h.analyze(w, r); analysis != nil {
		render.JSON(w, r, map[string]interface{}{
			"pairs": analysis.Recurrence,
		})
	}
}

// GetTechnicians handles GET /api/v1/technicians
func (h *AnalysisHandler) GetTechnicians(w http.ResponseWriter, r *http.Request) {
	if analysis := h.analyze(w, r); analysis != nil {
		render.JSON(w, r, map[string]interface{}{
			"technicians": analysis.Technicians,
		})
	}
}

// GetParts handles GET /api/v1/parts
func (h *AnalysisHandler) GetParts(w http.ResponseWriter, r *http.Request) {
	if analysis := h.analyze(w, r); analysis != nil {
		render.JSON(w, r, map[string]interface{}{
			"parts": analysis.Parts,
		})
	}
}

// GetMonthlyTrends handles GET /api/v1/trends/monthly
func (h *AnalysisHandler) GetMonthlyTrends(w http.ResponseWriter, r *http.Request) {
	if analysis := h.analyze(w, r); analysis != nil {
		render.JSON(w, r, map[string]interface{}{
			"months": analysis.Monthly,
		})
	}
}

// GetWeekdayTrends handles GET /api/v1/trends/weekday
func (h *AnalysisHandler) GetWeekdayTrends(w http.ResponseWriter, r *http.Request) {
	if analysis := h.analyze(w, r); analysis != nil {
		render.JSON(w, r, map[string]interface{}{
			"weekdays": analysis.Weekdays,
		})
	}
}

// GetFaults handles GET /api/v1/faults
func (h *AnalysisHandler) GetFaults(w http.ResponseWriter, r *http.Request) {
	if analysis := h.analyze(w, r); analysis != nil {
		render.JSON(w, r, map[string]interface{}{
			"faults": analysis.Faults,
		})
	}
}

// GetCleaningReport handles GET /api/v1/cleaning/report. Filters do not
// apply: the report describes the whole loaded file.
func (h *AnalysisHandler) GetCleaningReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.CleaningReport()
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"dataset":             h.service.Status(),
		"total_records":       report.TotalRecords,
		"total_changes":       report.TotalChanges(),
		"missing_identifiers": report.MissingIdentifiers,
		"fields":              report.Fields,
		"warnings":            report.Warnings,
	})
}
