package http

import (
	"context"

	"maintcli/internal/records"
	"maintcli/internal/services"
	"maintcli/pkg/contracts/domain"
)

// AnalysisServiceInterface is the read side of the analysis service used by
// the API handlers
type AnalysisServiceInterface interface {
	Status() services.DatasetStatus
	CleaningReport() (domain.CleaningReport, error)
	Analyze(ctx context.Context, filter records.Filter, basis domain.ParetoBasis) (*domain.Analysis, error)
}
