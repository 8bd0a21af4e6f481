package config

import "time"

// ApplyDefaults fills in default values for any configuration fields that
// were not set. It mutates the provided config in place. Boolean fields
// whose default is true are handled by DefaultConfig; ApplyDefaults only
// touches zero values that have a non-zero default.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = "127.0.0.1:8090"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 4 * 1024 * 1024
	}

	// Rules defaults
	if cfg.Rules.DebounceInterval == 0 {
		cfg.Rules.DebounceInterval = 100 * time.Millisecond
	}

	// Engine defaults
	if cfg.Engine.DateTolerance == 0 {
		cfg.Engine.DateTolerance = 24 * time.Hour
	}

	// Audit defaults
	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = "sqlite"
	}
	if cfg.Audit.SQLite.Path == "" {
		cfg.Audit.SQLite.Path = "data/audit.db"
	}
	if cfg.Audit.SQLite.MaxOpenConns == 0 {
		cfg.Audit.SQLite.MaxOpenConns = 10
	}
	if cfg.Audit.SQLite.MaxIdleConns == 0 {
		cfg.Audit.SQLite.MaxIdleConns = 5
	}
	if cfg.Audit.SQLite.BusyTimeout == 0 {
		cfg.Audit.SQLite.BusyTimeout = 5 * time.Second
	}
	if cfg.Audit.Recorder.AsyncBuffer == 0 {
		cfg.Audit.Recorder.AsyncBuffer = 1000
	}
	if cfg.Audit.Recorder.WriteTimeout == 0 {
		cfg.Audit.Recorder.WriteTimeout = 5 * time.Second
	}
	if cfg.Audit.Recorder.MaxMessageLength == 0 {
		cfg.Audit.Recorder.MaxMessageLength = 500
	}
	if cfg.Audit.Retention.Days == 0 {
		cfg.Audit.Retention.Days = 365
	}
	if cfg.Audit.Retention.PruneSchedule == "" {
		cfg.Audit.Retention.PruneSchedule = "0 3 * * *"
	}

	// Review defaults
	if cfg.Review.Path == "" {
		cfg.Review.Path = "data/review.db"
	}
	if cfg.Review.BusyTimeout == 0 {
		cfg.Review.BusyTimeout = 5 * time.Second
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = "/metrics"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "meridian"
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = "engine"
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25}
	}
}

// DefaultConfig returns a fully populated configuration with all default
// values, suitable for running without a config file.
func DefaultConfig() *Config {
	cfg := &Config{
		Audit: AuditConfig{
			Enabled: true,
			SQLite:  SQLiteConfig{WALMode: true},
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: true},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
