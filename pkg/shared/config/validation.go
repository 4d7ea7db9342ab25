package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]struct{}{
	"": {}, "TRACE": {}, "DEBUG": {}, "INFO": {}, "WARN": {}, "ERROR": {},
}

// ValidateConfig checks the semantic correctness of a loaded configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if _, ok := validLogLevels[strings.ToUpper(cfg.Logger.Level)]; !ok {
		return fmt.Errorf("unknown logger level %q", cfg.Logger.Level)
	}

	for _, root := range cfg.Collector.Roots {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("collector roots must not contain blank entries")
		}
	}
	for _, ext := range cfg.Collector.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("allowed extension %q must start with a dot", ext)
		}
	}

	return nil
}
