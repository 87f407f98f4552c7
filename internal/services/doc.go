// Package services implements the application layer behind the HTTP API.
//
// AnalysisService owns the served dataset: it loads the intervention log,
// cleans it with the normalization pipeline and answers analysis queries
// over filtered views of the cleaned records. Reloads, triggered by a
// change of the mappings file, build a new snapshot and swap it in, so
// queries never observe a half-loaded dataset.
//
// HealthService reports liveness, runtime statistics and whether a dataset
// is being served.
//
// # Usage
//
//	svc := services.NewAnalysisService(cfg.Data.InputFile, mappings, engine, logger)
//	if err := svc.Load(ctx); err != nil {
//		return err
//	}
//	go svc.WatchMappings(ctx, cfg.Data.MappingsFile)
//
//	analysis, err := svc.Analyze(ctx, records.Filter{Machines: []string{"PRESS-01"}}, domain.ParetoByCount)
package services
