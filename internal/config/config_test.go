package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 8760.0, cfg.Analysis.PeriodHours)
				assert.Equal(t, 10, cfg.Analysis.TopN)
				assert.Equal(t, 80.0, cfg.Analysis.ParetoThreshold)
				assert.Equal(t, "downtime", cfg.Analysis.ParetoBasis)
				assert.Equal(t, "interventions_2024.csv", cfg.Data.InputFile)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Empty(t, cfg.Data.MappingsFile)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"MAINT_SERVER_PORT":           "9090",
				"MAINT_ANALYSIS_PERIOD_HOURS": "720",
				"MAINT_ANALYSIS_PARETO_BASIS": "COUNT",
				"MAINT_LOGGING_FORMAT":        "text",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 720.0, cfg.Analysis.PeriodHours)
				assert.Equal(t, "count", cfg.Analysis.ParetoBasis)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "file keys override environment",
			env: map[string]string{
				"MAINT_ANALYSIS_TOP_N": "3",
				"MAINT_SERVER_PORT":    "9090",
			},
			fileContent: "analysis:\n  top_n: 25\ndata:\n  input_file: data/log.csv\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 25, cfg.Analysis.TopN)
				assert.Equal(t, "data/log.csv", cfg.Data.InputFile)
				assert.Equal(t, 9090, cfg.Server.Port, "keys absent from the file keep the env value")
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"MAINT_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "unknown pareto basis",
			env:     map[string]string{"MAINT_ANALYSIS_PARETO_BASIS": "cost"},
			wantErr: true,
		},
		{
			name:    "unparsable environment value",
			env:     map[string]string{"MAINT_ANALYSIS_TOP_N": "ten"},
			wantErr: true,
		},
		{
			name:        "malformed config file",
			fileContent: "analysis: [unclosed",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MAINT_CONFIG", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.fileContent != "" {
				path := filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.fileContent), 0644))
				t.Setenv("MAINT_CONFIG", path)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maint.yaml")
	content := `
server:
  port: 8181
analysis:
  period_hours: 4380
  pareto_threshold: 70
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, 4380.0, cfg.Analysis.PeriodHours)
	assert.Equal(t, 70.0, cfg.Analysis.ParetoThreshold)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "defaults survive the overlay")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "zero period", mutate: func(c *Config) { c.Analysis.PeriodHours = 0 }, wantErr: true},
		{name: "threshold above 100", mutate: func(c *Config) { c.Analysis.ParetoThreshold = 120 }, wantErr: true},
		{name: "negative read timeout", mutate: func(c *Config) { c.Server.ReadTimeout = -time.Second }, wantErr: true},
		{
			name:   "non positive top n falls back to default",
			mutate: func(c *Config) { c.Analysis.TopN = -4 },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, DefaultTopN, c.Analysis.TopN) },
		},
		{
			name:   "unknown log format becomes json",
			mutate: func(c *Config) { c.Logging.Format = "xml" },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, "json", c.Logging.Format) },
		},
		{
			name:   "workers at least one",
			mutate: func(c *Config) { c.Analysis.Workers = 0 },
			check:  func(t *testing.T, c *Config) { assert.Equal(t, 1, c.Analysis.Workers) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultPeriodHours, cfg.Analysis.PeriodHours)
	assert.Equal(t, DefaultTopN, cfg.Analysis.TopN)
	assert.Equal(t, DefaultInputFile, cfg.Data.InputFile)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
}
