package services

import (
	"context"
	"log/slog"
	"time"

	"maintcli/internal/infrastructure"
	"maintcli/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	analysis  *AnalysisService
	collector *infrastructure.RuntimeCollector
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                       `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Version   string                       `json:"version"`
	Runtime   *infrastructure.RuntimeStats `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth     `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Dataset *DatasetStatus `json:"dataset,omitempty"`
}

// NewHealthService creates a health service. The collector may be nil.
func NewHealthService(version string, analysis *AnalysisService, collector *infrastructure.RuntimeCollector, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version))

	return &HealthService{
		version:   version,
		analysis:  analysis,
		collector: collector,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck reports "ok" when the dataset is loaded and "degraded" otherwise
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  map[string]ServiceHealth{"data": hs.checkDataHealth()},
	}

	if hs.collector != nil {
		stats := hs.collector.Collect(ctx)
		status.Runtime = &stats
	}

	if status.Services["data"].Status != "ready" {
		status.Status = "degraded"
	}

	hs.logger.Debug("HealthCheck: completed",
		slog.String("status", status.Status),
		slog.Duration("uptime", time.Since(hs.startTime)))

	return status
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	build := contracts.Info("")
	return map[string]interface{}{
		"version":     hs.version,
		"api_version": build.APIVersion,
		"data_format": build.DataFormat,
		"git_commit":  build.GitCommit,
		"build_time":  build.BuildTime,
		"go_version":  build.GoVersion,
		"platform":    build.Platform,
		"uptime":      time.Since(hs.startTime).Seconds(),
		"start_time":  hs.startTime.Format(time.RFC3339),
	}
}

// checkDataHealth checks that a dataset is being served
func (hs *HealthService) checkDataHealth() ServiceHealth {
	if hs.analysis == nil {
		return ServiceHealth{Status: "not_ready", Message: "analysis service not initialized"}
	}

	st := hs.analysis.Status()
	if !st.Loaded {
		return ServiceHealth{Status: "not_ready", Message: "dataset not loaded", Dataset: &st}
	}
	return ServiceHealth{Status: "ready", Dataset: &st}
}
