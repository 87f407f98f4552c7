package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "MAINT"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/maintcli.log"`
}

// AnalysisConfig drives the metrics engine
type AnalysisConfig struct {
	// PeriodHours is the observation window used by availability (one year by default)
	PeriodHours     float64 `yaml:"period_hours" envconfig:"PERIOD_HOURS" default:"8760"`
	TopN            int     `yaml:"top_n" envconfig:"TOP_N" default:"10"`
	ParetoThreshold float64 `yaml:"pareto_threshold" envconfig:"PARETO_THRESHOLD" default:"80"`
	ParetoBasis     string  `yaml:"pareto_basis" envconfig:"PARETO_BASIS" default:"downtime"`
	Workers         int     `yaml:"workers" envconfig:"WORKERS" default:"4"`
	// MTTRAlertHours and MTBFAlertDays drive the report recommendations
	MTTRAlertHours float64 `yaml:"mttr_alert_hours" envconfig:"MTTR_ALERT_HOURS" default:"20"`
	MTBFAlertDays  float64 `yaml:"mtbf_alert_days" envconfig:"MTBF_ALERT_DAYS" default:"30"`
}

// DataConfig locates the intervention log and the normalization mappings
type DataConfig struct {
	InputFile     string `yaml:"input_file" envconfig:"INPUT_FILE" default:"interventions_2024.csv"`
	MappingsFile  string `yaml:"mappings_file" envconfig:"MAPPINGS_FILE"`
	WatchMappings bool   `yaml:"watch_mappings" envconfig:"WATCH_MAPPINGS" default:"true"`
}

// TelemetryConfig selects the OpenTelemetry exporters
type TelemetryConfig struct {
	EnableMetrics  bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS" default:"true"`
	EnableTracing  bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING" default:"false"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"stdout"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
}

// Load loads configuration from environment variables and an optional config file.
// Keys present in the file override the environment and the defaults.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		if err := overlayFile(&cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFile loads defaults plus the given YAML file, ignoring the environment
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := overlayFile(cfg, path); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// overlayFile unmarshals YAML onto cfg; absent keys keep their current value
func overlayFile(cfg *Config, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration and normalises enumerations
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Analysis.PeriodHours <= 0 {
		return fmt.Errorf("analysis period must be positive, got %v hours", c.Analysis.PeriodHours)
	}

	if c.Analysis.ParetoThreshold <= 0 || c.Analysis.ParetoThreshold > 100 {
		return fmt.Errorf("pareto threshold must be in (0, 100], got %v", c.Analysis.ParetoThreshold)
	}

	c.Analysis.ParetoBasis = strings.ToLower(strings.TrimSpace(c.Analysis.ParetoBasis))
	if c.Analysis.ParetoBasis != "downtime" && c.Analysis.ParetoBasis != "count" {
		return fmt.Errorf("unknown pareto basis %q", c.Analysis.ParetoBasis)
	}

	if c.Analysis.TopN <= 0 {
		c.Analysis.TopN = DefaultTopN
	}

	if c.Analysis.Workers <= 0 {
		c.Analysis.Workers = 1
	}

	c.Logging.Format = strings.ToLower(c.Logging.Format)
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/maintcli.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file, or "" when none exists
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/maintcli.log",
		},
		Analysis: AnalysisConfig{
			PeriodHours:     DefaultPeriodHours,
			TopN:            DefaultTopN,
			ParetoThreshold: DefaultParetoThreshold,
			ParetoBasis:     "downtime",
			Workers:         4,
			MTTRAlertHours:  20,
			MTBFAlertDays:   30,
		},
		Data: DataConfig{
			InputFile:     DefaultInputFile,
			WatchMappings: true,
		},
		Telemetry: TelemetryConfig{
			EnableMetrics:  true,
			EnableTracing:  false,
			TraceExporter:  "stdout",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
			Environment:    "development",
		},
	}
}
