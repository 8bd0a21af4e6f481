package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"meridian-hq/meridian/pkg/audit"
	"meridian-hq/meridian/pkg/audit/recorder"
	"meridian-hq/meridian/pkg/audit/retention"
	"meridian-hq/meridian/pkg/audit/storage"
	"meridian-hq/meridian/pkg/cli"
	"meridian-hq/meridian/pkg/compliance/engine"
	"meridian-hq/meridian/pkg/config"
	"meridian-hq/meridian/pkg/protocol/manager"
	"meridian-hq/meridian/pkg/review"
	"meridian-hq/meridian/pkg/server"
	"meridian-hq/meridian/pkg/telemetry/logging"
	"meridian-hq/meridian/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	rulesPath     string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the verification server",
	Long: `Start the verification server with the specified configuration.

The server exposes the verification API, records every run in the audit
trail, and hot-reloads the protocol rule file when watching is enabled.

Examples:
  # Start with default config
  meridian run

  # Start with custom config
  meridian run --config /etc/meridian/config.yaml

  # Override listen address and rule file
  meridian run --listen 0.0.0.0:8090 --rules protocols.yaml

  # Validate config without starting the server
  meridian run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.rulesPath, "rules", "", "override protocol rule file path")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.rulesPath != "" {
		cfg.Rules.Path = runFlags.rulesPath
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.Setup(&cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	fmt.Printf("Meridian v%s\n", Version)
	fmt.Printf("configuration loaded from %s\n", cfgFile)

	ctx := cli.SetupSignalHandler()

	// Metrics first: the engine and rule manager report into the
	// collector.
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	// Verification engine
	engineCfg := engine.DefaultConfig().WithDateTolerance(cfg.Engine.DateTolerance)
	if cfg.Engine.DisableDefaultTriggers {
		engineCfg = engineCfg.WithTriggers(nil)
	}
	if cfg.Engine.DisableDefaultPIIPatterns {
		engineCfg = engineCfg.WithPIIPatterns(nil)
	}
	if collector != nil {
		engineCfg = engineCfg.WithCheckerFailureHook(collector.RecordCheckerFailure)
	}
	eng, err := engine.NewEngine(engineCfg, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	// Protocol rules (optional)
	var rules *manager.Manager
	if cfg.Rules.Path != "" {
		managerCfg := &manager.Config{
			Path:             cfg.Rules.Path,
			Watch:            cfg.Rules.Watch,
			DebounceInterval: cfg.Rules.DebounceInterval,
		}
		if collector != nil {
			managerCfg.OnReload = func(status string, activeRules int) {
				collector.RecordRuleReload(status)
				if status == "success" {
					collector.SetActiveRules(activeRules)
				}
			}
		}
		rules, err = manager.NewManager(managerCfg, logger)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		if err := rules.Start(ctx); err != nil {
			return cli.NewCommandError("run", err)
		}
		defer rules.Close()
		fmt.Printf("protocol rules loaded (%d rules)\n", rules.Current().ActiveRuleCount())
	} else {
		logger.Warn("no rule file configured, running core checks only")
	}

	// Audit trail (optional)
	var auditRecorder *recorder.Recorder
	if cfg.Audit.Enabled {
		auditStorage, err := openAuditStorage(cfg)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer auditStorage.Close()

		auditRecorder = recorder.NewRecorder(auditStorage, &recorder.Config{
			Enabled:          true,
			AsyncBuffer:      cfg.Audit.Recorder.AsyncBuffer,
			WriteTimeout:     cfg.Audit.Recorder.WriteTimeout,
			MaxMessageLength: cfg.Audit.Recorder.MaxMessageLength,
		})
		defer auditRecorder.Close()

		if cfg.Audit.Retention.PruneSchedule != "" {
			pruner := retention.NewPruner(auditStorage, &retention.Config{
				RetentionDays: cfg.Audit.Retention.Days,
				PruneSchedule: cfg.Audit.Retention.PruneSchedule,
				MaxRecords:    cfg.Audit.Retention.MaxRecords,
			})
			if err := pruner.Scheduler().Start(ctx); err != nil {
				logger.Warn("failed to start retention scheduler", "error", err)
			} else {
				defer pruner.Scheduler().Stop()
			}
		}
		fmt.Println("audit trail initialized")
	}

	// Review queue (optional)
	var reviews *review.Service
	if cfg.Review.Enabled {
		store, err := review.NewStore(review.StoreConfig{
			Path:        cfg.Review.Path,
			BusyTimeout: cfg.Review.BusyTimeout,
		})
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer store.Close()
		reviews = review.NewService(store)
		fmt.Println("review queue initialized")
	}

	srv := server.NewServer(&cfg.Server, eng, server.Options{
		Rules:      rules,
		Recorder:   auditRecorder,
		Reviews:    reviews,
		Collector:  collector,
		MetricsCfg: &cfg.Telemetry.Metrics,
	})

	fmt.Printf("listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("health endpoint: http://%s/healthz\n", cfg.Server.ListenAddress)
	if collector != nil {
		fmt.Printf("metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

// loadConfig reads the config file, falling back to built-in defaults when
// the default path does not exist and was not explicitly requested.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) && cfgFile == "config.yaml" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

func openAuditStorage(cfg *config.Config) (audit.Storage, error) {
	switch cfg.Audit.Backend {
	case "sqlite":
		return storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path:         cfg.Audit.SQLite.Path,
			MaxOpenConns: cfg.Audit.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Audit.SQLite.MaxIdleConns,
			WALMode:      cfg.Audit.SQLite.WALMode,
			BusyTimeout:  cfg.Audit.SQLite.BusyTimeout,
		})
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported audit backend: %s", cfg.Audit.Backend)
	}
}
