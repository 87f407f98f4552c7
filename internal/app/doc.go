// Package app wires the reliability API server: configuration, logging,
// OpenTelemetry, the analysis and health services, the chi router and the
// HTTP server lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from environment and config file
//	2. Initialize logging and OpenTelemetry providers
//	3. Load normalization mappings and build the analytics engine
//	4. Create the analysis, health and runtime services
//	5. Set up middleware and routes
//	6. On Start, load and clean the dataset, then serve
//
// # Usage
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return app.Run()
//
// # Graceful Shutdown
//
// Run stops on SIGINT or SIGTERM: in-flight requests complete within the
// configured shutdown timeout, the mapping watcher and runtime collector
// stop with the run context, and telemetry providers are flushed.
//
// Initialization errors are returned to the caller; the package never
// calls os.Exit.
package app
