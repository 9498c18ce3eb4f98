package config

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	domainconfig "revshare/domain/config"
	"revshare/domain/core/valueobjects"
	"revshare/domain/ingestion"
	pkgerrors "revshare/pkg/errors"
	"revshare/pkg/utils"
)

// EnvConfigPath names the environment variable pointing at an optional
// YAML config file.
const EnvConfigPath = "REVSHARE_CONFIG"

// Config holds all application configuration. Money and rate values are
// kept as strings here and parsed on demand, so a bad value surfaces as
// a validation error instead of a half-applied default.
type Config struct {
	Environment string `yaml:"environment" validate:"required,oneof=development staging production"`
	LogLevel    string `yaml:"log_level" validate:"required,oneof=debug info warn error"`

	// CSVPath is the task export to ingest. Commands that need a
	// dataset require it, via flag or environment.
	CSVPath string `yaml:"csv_path"`

	// LogsDir receives debug artifacts and machine-readable reports
	LogsDir string `yaml:"logs_dir" validate:"required"`

	// DefaultRevenue is the amount distributed when no explicit amount
	// is given; RevenuePerCall prices one API call.
	DefaultRevenue string `yaml:"default_revenue" validate:"required"`
	RevenuePerCall string `yaml:"revenue_per_call" validate:"required"`

	// Node defaults stamped on every ingested record
	DefaultCreativity      string `yaml:"default_creativity" validate:"required"`
	DefaultPropagationRate string `yaml:"default_propagation_rate" validate:"required"`
	UnassignedUser         string `yaml:"unassigned_user" validate:"required"`
	CreateMissingParents   bool   `yaml:"create_missing_parents"`

	// Distribution policy knobs
	MaxPropagationDepth    int    `yaml:"max_propagation_depth" validate:"min=0"`
	MinPropagationAmount   string `yaml:"min_propagation_amount" validate:"required"`
	MaxRetentionMultiplier string `yaml:"max_retention_multiplier" validate:"required"`
}

// DefaultConfig returns the standard configuration
func DefaultConfig() *Config {
	return &Config{
		Environment:            "development",
		LogLevel:               "info",
		LogsDir:                "logs",
		DefaultRevenue:         "100.00",
		RevenuePerCall:         "1.00",
		DefaultCreativity:      "1.0",
		DefaultPropagationRate: "0.3",
		UnassignedUser:         ingestion.DefaultUnassignedUser,
		CreateMissingParents:   true,
		MaxPropagationDepth:    5,
		MinPropagationAmount:   "0.01",
		MaxRetentionMultiplier: "1.75",
	}
}

// Load builds the configuration from defaults, an optional YAML file
// named by REVSHARE_CONFIG, and REVSHARE_* environment variables, in
// that order.
func Load() (*Config, error) {
	return LoadWithPath(os.Getenv(EnvConfigPath))
}

// LoadWithPath is Load with an explicit config file path. An empty path
// skips the file layer.
func LoadWithPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return pkgerrors.Wrapf(err, "failed to parse config file %s", path)
	}
	return nil
}

// applyEnv overlays REVSHARE_* environment variables
func (c *Config) applyEnv() {
	c.Environment = getEnv("REVSHARE_ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("REVSHARE_LOG_LEVEL", c.LogLevel)
	c.CSVPath = getEnv("REVSHARE_CSV", c.CSVPath)
	c.LogsDir = getEnv("REVSHARE_LOGS_DIR", c.LogsDir)
	c.DefaultRevenue = getEnv("REVSHARE_DEFAULT_REVENUE", c.DefaultRevenue)
	c.RevenuePerCall = getEnv("REVSHARE_REVENUE_PER_CALL", c.RevenuePerCall)
	c.DefaultCreativity = getEnv("REVSHARE_DEFAULT_CREATIVITY", c.DefaultCreativity)
	c.DefaultPropagationRate = getEnv("REVSHARE_DEFAULT_PROPAGATION_RATE", c.DefaultPropagationRate)
	c.UnassignedUser = getEnv("REVSHARE_UNASSIGNED_USER", c.UnassignedUser)
	c.CreateMissingParents = getEnvBool("REVSHARE_CREATE_MISSING_PARENTS", c.CreateMissingParents)
	c.MaxPropagationDepth = getEnvInt("REVSHARE_MAX_DEPTH", c.MaxPropagationDepth)
	c.MinPropagationAmount = getEnv("REVSHARE_MIN_PROPAGATION_AMOUNT", c.MinPropagationAmount)
	c.MaxRetentionMultiplier = getEnv("REVSHARE_MAX_RETENTION_MULTIPLIER", c.MaxRetentionMultiplier)
}

// Validate checks field constraints and that every money and rate value
// parses.
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if _, err := c.DefaultRevenueAmount(); err != nil {
		return err
	}
	if _, err := c.RevenuePerCallAmount(); err != nil {
		return err
	}
	if _, err := c.CreativityFactor(); err != nil {
		return err
	}
	if _, err := c.PropagationRate(); err != nil {
		return err
	}
	if _, err := c.DistributionPolicy(); err != nil {
		return err
	}
	return nil
}

// DefaultRevenueAmount parses the default distribution amount
func (c *Config) DefaultRevenueAmount() (valueobjects.Money, error) {
	amount, err := valueobjects.NewMoney(c.DefaultRevenue)
	if err != nil {
		return valueobjects.ZeroMoney(), pkgerrors.Wrapf(err, "invalid default_revenue %q", c.DefaultRevenue)
	}
	return amount, nil
}

// RevenuePerCallAmount parses the per-call API revenue
func (c *Config) RevenuePerCallAmount() (valueobjects.Money, error) {
	amount, err := valueobjects.NewMoney(c.RevenuePerCall)
	if err != nil {
		return valueobjects.ZeroMoney(), pkgerrors.Wrapf(err, "invalid revenue_per_call %q", c.RevenuePerCall)
	}
	return amount, nil
}

// CreativityFactor parses the default creativity factor
func (c *Config) CreativityFactor() (decimal.Decimal, error) {
	factor, err := decimal.NewFromString(c.DefaultCreativity)
	if err != nil {
		return decimal.Zero, pkgerrors.NewValidationErrorf("invalid default_creativity %q", c.DefaultCreativity).
			WithCode(pkgerrors.CodeNegativeCreativity).
			WithCause(err)
	}
	if factor.IsNegative() {
		return decimal.Zero, pkgerrors.NewValidationErrorf("default_creativity must be non-negative, got %s", c.DefaultCreativity).
			WithCode(pkgerrors.CodeNegativeCreativity)
	}
	return factor, nil
}

// PropagationRate parses the default propagation rate
func (c *Config) PropagationRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.DefaultPropagationRate)
	if err != nil {
		return decimal.Zero, pkgerrors.NewValidationErrorf("invalid default_propagation_rate %q", c.DefaultPropagationRate).
			WithCode(pkgerrors.CodeInvalidPropagationRate).
			WithCause(err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, pkgerrors.NewValidationErrorf("default_propagation_rate must be between 0 and 1, got %s", c.DefaultPropagationRate).
			WithCode(pkgerrors.CodeInvalidPropagationRate)
	}
	return rate, nil
}

// DistributionPolicy builds the domain policy from the configured knobs
func (c *Config) DistributionPolicy() (domainconfig.DistributionPolicy, error) {
	minAmount, err := valueobjects.NewMoney(c.MinPropagationAmount)
	if err != nil {
		return domainconfig.DistributionPolicy{}, pkgerrors.NewValidationErrorf("invalid min_propagation_amount %q", c.MinPropagationAmount).
			WithCode(pkgerrors.CodeInvalidPolicy).
			WithCause(err)
	}

	multiplier, err := decimal.NewFromString(c.MaxRetentionMultiplier)
	if err != nil {
		return domainconfig.DistributionPolicy{}, pkgerrors.NewValidationErrorf("invalid max_retention_multiplier %q", c.MaxRetentionMultiplier).
			WithCode(pkgerrors.CodeInvalidPolicy).
			WithCause(err)
	}

	policy := domainconfig.DistributionPolicy{
		MaxPropagationDepth:    c.MaxPropagationDepth,
		MinPropagationAmount:   minAmount,
		MaxRetentionMultiplier: multiplier,
	}
	if err := policy.Validate(); err != nil {
		return domainconfig.DistributionPolicy{}, err
	}
	return policy, nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvBool gets a boolean environment variable with a fallback value
func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a fallback value
func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
