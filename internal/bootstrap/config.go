package bootstrap

import (
	"fmt"

	infraconfig "github.com/jonesrussell/newscheck/infrastructure/config"
	infralogger "github.com/jonesrussell/newscheck/infrastructure/logger"
	"github.com/jonesrussell/newscheck/internal/config"
)

const defaultConfigPath = "config.yml"

// LoadConfig loads configuration from CONFIG_PATH or ./config.yml. A missing
// file yields the defaults; an invalid one is an error.
func LoadConfig() (*config.Config, error) {
	return LoadConfigFrom(infraconfig.GetConfigPath(defaultConfigPath))
}

// LoadConfigFrom loads configuration from path.
func LoadConfigFrom(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (infralogger.Logger, error) {
	logger, err := infralogger.New(infralogger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger.With(infralogger.String("service", cfg.Service.Name)), nil
}
