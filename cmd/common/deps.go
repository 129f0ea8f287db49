// Package common provides shared utilities for command implementations.
package common

import (
	"errors"
	"fmt"

	infralogger "github.com/jonesrussell/newscheck/infrastructure/logger"
	"github.com/jonesrussell/newscheck/internal/bootstrap"
	"github.com/jonesrussell/newscheck/internal/config"
	"github.com/jonesrussell/newscheck/internal/session"
	"github.com/spf13/cobra"
)

// Persistent flag names.
const (
	FlagConfig = "config"
	FlagDebug  = "debug"
)

// ErrConfigRequired is returned by Validate when no config is loaded.
var ErrConfigRequired = errors.New("config is required")

// CommandDeps holds common dependencies for all commands.
type CommandDeps struct {
	Logger infralogger.Logger
	Config *config.Config
}

// Validate ensures all required dependencies are present.
func (d CommandDeps) Validate() error {
	if d.Config == nil {
		return ErrConfigRequired
	}
	if d.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Options tunes NewCommandDeps.
type Options struct {
	// Quiet raises info-level logging to warn so one-shot commands keep
	// stderr clean. --debug always wins.
	Quiet bool
}

// NewCommandDeps loads configuration and creates the logger from the
// persistent flags.
func NewCommandDeps(cmd *cobra.Command, opts Options) (*CommandDeps, error) {
	path, _ := cmd.Flags().GetString(FlagConfig)
	debug, _ := cmd.Flags().GetBool(FlagDebug)

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = bootstrap.LoadConfigFrom(path)
	} else {
		cfg, err = bootstrap.LoadConfig()
	}
	if err != nil {
		return nil, err
	}

	switch {
	case debug:
		cfg.Service.Debug = true
		cfg.Logging.Level = "debug"
	case opts.Quiet && cfg.Logging.Level == "info":
		cfg.Logging.Level = "warn"
	}

	logger, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	deps := &CommandDeps{Logger: logger, Config: cfg}
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	return deps, nil
}

// SessionField logs a session snapshot in one field.
func SessionField(snap session.Snapshot) infralogger.Field {
	return infralogger.String("session", snap.Summary())
}
