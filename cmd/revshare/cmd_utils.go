package main

import (
	"context"

	"revshare/domain/core/valueobjects"
	"revshare/infrastructure/config"
	"revshare/infrastructure/di"
	pkgerrors "revshare/pkg/errors"
)

// loadConfig resolves the runtime config from defaults, the optional
// YAML overlay, and the environment, then applies CLI overrides on top.
// The --config flag takes precedence over $REVSHARE_CONFIG.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadWithPath(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if flagCSV != "" {
		cfg.CSVPath = flagCSV
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newContainer loads the config and wires the full dependency graph,
// ingesting the CSV in the process.
func newContainer(ctx context.Context) (*di.Container, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.CSVPath == "" {
		return nil, pkgerrors.NewValidationError("no task export given: set --csv or REVSHARE_CSV")
	}

	return di.InitializeContainer(ctx, cfg)
}

// resolveMoney parses a money flag, falling back to the configured
// default when the flag was not given.
func resolveMoney(flag string, fallback func() (valueobjects.Money, error)) (valueobjects.Money, error) {
	if flag == "" {
		return fallback()
	}

	amount, err := valueobjects.NewMoney(flag)
	if err != nil {
		return valueobjects.Money{}, err
	}
	return amount, nil
}
