package config

// Application constants
const (
	// Application Info
	AppName    = "maintcli"
	AppVersion = "1.0.0"

	// Analysis defaults
	DefaultPeriodHours     = 8760.0 // one non-leap year
	DefaultTopN            = 10
	DefaultParetoThreshold = 80.0
	DaysPerYear            = 365.0

	// Default file names used by the command line tools
	DefaultInputFile     = "interventions_2024.csv"
	DefaultCleanedFile   = "interventions_2024_cleaned.csv"
	CleanedSuffix        = "_cleaned"
	CleaningReportSuffix = "_cleaning_report.txt"
	MetricsSuffix        = "_metrics.csv"
	MetricsReportSuffix  = "_metrics_report.txt"
	WorkbookSuffix       = "_metrics.xlsx"
)
