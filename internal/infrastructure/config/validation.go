package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/bnema/lectern/internal/logging"
)

const (
	minZoom = 0.25
	maxZoom = 4.0
)

// validateConfig performs validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateSession(config)...)
	validationErrors = append(validationErrors, validateSearch(config)...)
	validationErrors = append(validationErrors, validateBus(config)...)
	validationErrors = append(validationErrors, validateViewer(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	if _, err := logging.ParseLevel(config.Logging.Level); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level: %v", err))
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors, "logging.format must be \"console\" or \"json\"")
	}
	if config.Logging.MaxSizeMB < 0 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be non-negative")
	}
	if config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_backups must be non-negative")
	}
	return validationErrors
}

func validateSession(config *Config) []string {
	var validationErrors []string
	if config.Session.SaveDebounceMs < 1 {
		validationErrors = append(validationErrors, "session.save_debounce_ms must be positive")
	}
	if config.Session.MaxStoredSessions < 1 {
		validationErrors = append(validationErrors, "session.max_stored_sessions must be at least 1")
	}
	return validationErrors
}

func validateSearch(config *Config) []string {
	var validationErrors []string
	if config.Search.ContextChars < 0 {
		validationErrors = append(validationErrors, "search.context_chars must be non-negative")
	}
	if config.Search.YieldEveryPages < 1 {
		validationErrors = append(validationErrors, "search.yield_every_pages must be at least 1")
	}
	return validationErrors
}

func validateBus(config *Config) []string {
	var validationErrors []string
	if _, _, err := net.SplitHostPort(config.Bus.Address); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf("bus.address must be host:port: %v", err))
	}
	if !strings.HasPrefix(config.Bus.Path, "/") {
		validationErrors = append(validationErrors, "bus.path must start with /")
	}
	return validationErrors
}

func validateViewer(config *Config) []string {
	var validationErrors []string
	if config.Viewer.DefaultZoom < minZoom || config.Viewer.DefaultZoom > maxZoom {
		validationErrors = append(validationErrors, fmt.Sprintf("viewer.default_zoom must be between %.2f and %.2f", minZoom, maxZoom))
	}
	if config.Viewer.ZoomStep <= 0 || config.Viewer.ZoomStep > maxZoom {
		validationErrors = append(validationErrors, "viewer.zoom_step must be positive and at most 4")
	}
	return validationErrors
}
