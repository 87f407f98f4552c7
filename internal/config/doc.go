// Package config provides centralized configuration management for maintcli.
// It loads settings from environment variables and an optional YAML file,
// validates them, and exposes the normalization mapping tables used by the
// cleaning pipeline.
//
// # Configuration Sources
//
// Configuration is resolved in the following order, later sources winning:
//
//	1. Default values declared in struct tags
//	2. Environment variables (MAINT_*)
//	3. Keys present in the configuration file (MAINT_CONFIG, config.yaml or configs/config.yaml)
//
// # Environment Variables
//
// All environment variables follow the pattern MAINT_<SECTION>_<KEY>:
//
//	MAINT_SERVER_PORT=8080
//	MAINT_LOGGING_LEVEL=debug
//	MAINT_ANALYSIS_PERIOD_HOURS=8760
//	MAINT_ANALYSIS_TOP_N=10
//	MAINT_DATA_MAPPINGS_FILE=/etc/maintcli/mappings.yaml
//
// # Normalization Mappings
//
// Technician aliases, initial expansions, fault type variants and the
// "no parts" markers are YAML data. The defaults are embedded in the binary
// (default_mappings.yaml); LoadMappings reads an operator supplied file and
// WatchMappings reloads it on change.
//
// # Output Paths
//
// DeriveOutputPaths is the single place where the command line tools build
// output file names from the input file:
//
//	p := config.DeriveOutputPaths("data/interventions_2024.csv")
//	// p.Cleaned == "data/interventions_2024_cleaned.csv"
//	// p.Metrics == "data/interventions_2024_metrics.csv"
package config
