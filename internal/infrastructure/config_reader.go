package infrastructure

import (
	"bytes"
	"errors"
	"fmt"
	"integral-solver/internal/domain"
	"io"
	"os"
	"runtime"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type YAMLConfigReader struct {
	logger *zap.Logger
}

var _ domain.ConfigReader = (*YAMLConfigReader)(nil)

func NewYAMLConfigReader(logger *zap.Logger) *YAMLConfigReader {
	return &YAMLConfigReader{logger: logger}
}

// ReadConfig reads the YAML file at path and fills in defaults. An empty path
// yields the defaults without touching the filesystem.
func (r *YAMLConfigReader) ReadConfig(path string) (*domain.Config, error) {
	var config domain.Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidConfig, path, err)
		}
		r.logger.Debug("Config file loaded", zap.String("path", path))
	}

	// Устанавливаем значения по умолчанию
	r.setDefaults(&config)

	return &config, nil
}

func (r *YAMLConfigReader) setDefaults(config *domain.Config) {
	if config.Workers == 0 {
		config.Workers = max(1, runtime.NumCPU())
	}
	if config.Tolerance == 0 {
		config.Tolerance = domain.DefaultTolerance
	}
	if config.MinWidth == 0 {
		config.MinWidth = domain.DefaultMinWidth
	}
	if config.Termination == "" {
		config.Termination = "wait"
	}
	if config.Mode == "" {
		config.Mode = "bag"
	}
	if config.LogLevel == "" {
		config.LogLevel = "warn"
	}
	if config.Decimals == 0 {
		config.Decimals = domain.DefaultDecimals
	}
}
