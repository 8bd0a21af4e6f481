package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects all validation failures found in a config.
type ValidationErrors struct {
	Errors []ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("invalid configuration: %s", e.Errors[0].Error())
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid configuration (%d errors): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Validate checks the configuration for errors. All problems are collected
// and returned together rather than failing on the first one.
func Validate(cfg *Config) error {
	var errs []ValidationError

	add := func(field, message string) {
		errs = append(errs, ValidationError{Field: field, Message: message})
	}

	// Server
	if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
		add("server.listen_address", fmt.Sprintf("invalid address %q: must be host:port", cfg.Server.ListenAddress))
	}
	if cfg.Server.MaxBodyBytes < 0 {
		add("server.max_body_bytes", "must not be negative")
	}

	// Rules
	if cfg.Rules.Watch && cfg.Rules.Path == "" {
		add("rules.watch", "cannot watch without rules.path")
	}
	if cfg.Rules.DebounceInterval < 0 {
		add("rules.debounce_interval", "must not be negative")
	}

	// Engine
	if cfg.Engine.DateTolerance < 0 {
		add("engine.date_tolerance", "must not be negative")
	}

	// Audit
	switch cfg.Audit.Backend {
	case "sqlite", "memory":
	default:
		add("audit.backend", fmt.Sprintf("unknown backend %q: must be sqlite or memory", cfg.Audit.Backend))
	}
	if cfg.Audit.Backend == "sqlite" && cfg.Audit.SQLite.Path == "" {
		add("audit.sqlite.path", "required when backend is sqlite")
	}
	if cfg.Audit.Recorder.AsyncBuffer < 0 {
		add("audit.recorder.async_buffer", "must not be negative")
	}
	if cfg.Audit.Retention.Days < 0 {
		add("audit.retention.days", "must not be negative")
	}
	if cfg.Audit.Retention.MaxRecords < 0 {
		add("audit.retention.max_records", "must not be negative")
	}
	if cfg.Audit.Retention.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Audit.Retention.PruneSchedule); err != nil {
			add("audit.retention.prune_schedule", fmt.Sprintf("invalid cron expression %q", cfg.Audit.Retention.PruneSchedule))
		}
	}

	// Review
	if cfg.Review.Enabled && cfg.Review.Path == "" {
		add("review.path", "required when review is enabled")
	}

	// Telemetry
	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		add("telemetry.logging.level", fmt.Sprintf("unknown level %q: must be debug, info, warn, or error", cfg.Telemetry.Logging.Level))
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		add("telemetry.logging.format", fmt.Sprintf("unknown format %q: must be json or text", cfg.Telemetry.Logging.Format))
	}
	if cfg.Telemetry.Metrics.Enabled && !strings.HasPrefix(cfg.Telemetry.Metrics.Path, "/") {
		add("telemetry.metrics.path", "must start with /")
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}
