package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revshare/domain/ingestion"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "logs", cfg.LogsDir)
	assert.Empty(t, cfg.CSVPath)
	assert.Equal(t, ingestion.DefaultUnassignedUser, cfg.UnassignedUser)
	assert.True(t, cfg.CreateMissingParents)

	amount, err := cfg.DefaultRevenueAmount()
	require.NoError(t, err)
	assert.Equal(t, "100.00", amount.String())

	perCall, err := cfg.RevenuePerCallAmount()
	require.NoError(t, err)
	assert.Equal(t, "1.00", perCall.String())

	rate, err := cfg.PropagationRate()
	require.NoError(t, err)
	assert.Equal(t, "0.3", rate.String())

	policy, err := cfg.DistributionPolicy()
	require.NoError(t, err)
	assert.Equal(t, 5, policy.MaxPropagationDepth)
	assert.Equal(t, "0.01", policy.MinPropagationAmount.String())
	assert.Equal(t, "1.75", policy.MaxRetentionMultiplier.String())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("REVSHARE_ENVIRONMENT", "production")
	t.Setenv("REVSHARE_LOG_LEVEL", "debug")
	t.Setenv("REVSHARE_CSV", "tasks.csv")
	t.Setenv("REVSHARE_MAX_DEPTH", "3")
	t.Setenv("REVSHARE_CREATE_MISSING_PARENTS", "false")
	t.Setenv("REVSHARE_DEFAULT_REVENUE", "250.50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "tasks.csv", cfg.CSVPath)
	assert.False(t, cfg.CreateMissingParents)

	amount, err := cfg.DefaultRevenueAmount()
	require.NoError(t, err)
	assert.Equal(t, "250.50", amount.String())

	policy, err := cfg.DistributionPolicy()
	require.NoError(t, err)
	assert.Equal(t, 3, policy.MaxPropagationDepth)
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revshare.yaml")
	content := `environment: staging
log_level: warn
csv_path: fixtures/tasks.csv
max_propagation_depth: 2
revenue_per_call: "0.50"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// Environment variables still win over the file.
	t.Setenv("REVSHARE_LOG_LEVEL", "error")

	cfg, err := LoadWithPath(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "fixtures/tasks.csv", cfg.CSVPath)
	assert.Equal(t, 2, cfg.MaxPropagationDepth)
	assert.Equal(t, "0.50", cfg.RevenuePerCall)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := LoadWithPath(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown log level", "REVSHARE_LOG_LEVEL", "loud"},
		{"unknown environment", "REVSHARE_ENVIRONMENT", "qa"},
		{"rate above one", "REVSHARE_DEFAULT_PROPAGATION_RATE", "1.5"},
		{"negative creativity", "REVSHARE_DEFAULT_CREATIVITY", "-1"},
		{"zero multiplier", "REVSHARE_MAX_RETENTION_MULTIPLIER", "0"},
		{"unparsable revenue", "REVSHARE_DEFAULT_REVENUE", "abc"},
		{"negative min amount", "REVSHARE_MIN_PROPAGATION_AMOUNT", "-0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigPath, "")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}
