package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/feedlens/feedlens/internal/config"
	errwrap "github.com/feedlens/feedlens/internal/errors"
	"github.com/feedlens/feedlens/internal/metrics"
	"github.com/feedlens/feedlens/internal/observability"
	"github.com/feedlens/feedlens/internal/server"
	"github.com/feedlens/feedlens/internal/server/handlers"
	"github.com/feedlens/feedlens/internal/telemetry"
	"github.com/feedlens/feedlens/internal/telemetry/spool"
)

var (
	serverPort int
	serverHost string
)

// signalHealthChecker implements HealthChecker for the signal system
type signalHealthChecker struct{}

func (s signalHealthChecker) CheckHealth(ctx context.Context) error {
	return nil // Signal handlers are registered and ready
}

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

// spoolHealthChecker pings the event spool database
type spoolHealthChecker struct {
	spool *spool.Spool
}

func (s spoolHealthChecker) CheckHealth(ctx context.Context) error {
	if s.spool == nil || s.spool.DB == nil {
		return errwrap.NewInternalError("event spool not initialized")
	}
	if err := s.spool.DB.PingContext(ctx); err != nil {
		return errwrap.NewDatabaseError("event spool unreachable")
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP classification server with graceful shutdown support.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config reload (placeholder - restart recommended)

The server will cleanly shut down the HTTP server and flush logs on shutdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()
		if cfg == nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Configuration not loaded", nil)
		}

		logLevel := cfg.Logging.Level
		observability.InitServerLogger(appName, logLevel)

		metricsPort := cfg.Metrics.Port
		if metricsPort == 0 {
			metricsPort = 9090
		}

		if err := observability.InitMetrics(appName, metricsPort); err != nil {
			observability.ServerLogger.Error("Failed to initialize metrics",
				zap.Error(err))
			return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
		}

		serverCfg := cfg.Server
		if serverHost != "" {
			serverCfg.Host = serverHost
		}
		if serverPort != 0 {
			serverCfg.Port = serverPort
		}

		observability.ServerLogger.Info("Initializing server",
			zap.String("service", appName),
			zap.String("version", versionInfo.Version),
			zap.String("host", serverCfg.Host),
			zap.Int("port", serverCfg.Port),
			zap.Int("metrics_port", metricsPort))

		// Open the event spool so handler-built events survive restarts
		var eventSpool *spool.Spool
		if cfg.Telemetry.SpoolEvents {
			opened, err := spool.Open(cmd.Context(), cfg.Store)
			if err != nil {
				return errwrap.WrapDatabaseError(cmd.Context(), err, "event spool open failed")
			}
			if err := opened.Migrate(cmd.Context()); err != nil {
				_ = opened.Close()
				return errwrap.WrapDatabaseError(cmd.Context(), err, "event spool migration failed")
			}
			eventSpool = opened

			if pending, err := eventSpool.PendingCount(cmd.Context()); err == nil {
				metrics.SetSpoolPending(pending)
			}
		}

		// Route handler-built events through the configured sinks
		emitter := buildEmitter(cfg, eventSpool)
		handlers.SetEventEmitter(emitter)

		// Initialize health manager
		handlers.InitHealthManager(versionInfo.Version)
		hm := handlers.GetHealthManager()
		hm.RegisterChecker("signal_handlers", signalHealthChecker{})
		hm.RegisterChecker("telemetry", telemetryHealthChecker{})
		if eventSpool != nil {
			hm.RegisterChecker("event_spool", spoolHealthChecker{spool: eventSpool})
		}

		handlers.SetVersionInfo(versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)

		srv := server.New(serverCfg)

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout == 0 {
			shutdownTimeout = 15 * time.Second
		}

		// Register graceful shutdown handlers (LIFO order - last registered, first executed)
		// Handler 1: Flush logger (executed last)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Flushing logger...")
			if err := observability.ServerLogger.Sync(); err != nil {
				// Sync errors are often benign (stdout/stderr already closed)
				observability.ServerLogger.Warn("Logger sync returned error (may be benign)",
					zap.Error(err))
			}
			return nil
		})

		// Handler 2: Close the event spool
		if eventSpool != nil {
			signals.OnShutdown(func(ctx context.Context) error {
				observability.ServerLogger.Info("Closing event spool...")
				return eventSpool.Close()
			})
		}

		// Handler 3: Shutdown HTTP server (executed first)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errwrap.WrapInternal(ctx, err, "server shutdown failed")
			}

			observability.ServerLogger.Info("HTTP server stopped gracefully")
			return nil
		})

		// Register config reload handler (SIGHUP)
		signals.OnReload(func(ctx context.Context) error {
			observability.ServerLogger.Info("Received SIGHUP: attempting config reload")

			if _, err := config.Load(cfgFile); err != nil {
				observability.ServerLogger.Error("Failed to reload config",
					zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			observability.ServerLogger.Info("Configuration reloaded successfully")
			return nil
		})

		// Enable double-tap force quit (Ctrl+C within 2 seconds)
		if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
			Window:  2 * time.Second,
			Message: "Press Ctrl+C again within 2 seconds to force quit",
		}); err != nil {
			observability.ServerLogger.Warn("Failed to enable double-tap force quit",
				zap.Error(err))
		}

		metrics.SetServerStartTime(time.Now().Unix())

		// Start server in background goroutine
		errChan := make(chan error, 1)
		go func() {
			observability.ServerLogger.Info("Starting HTTP server...",
				zap.String("host", serverCfg.Host),
				zap.Int("port", serverCfg.Port))
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		// Start signal listener in background
		go func() {
			if err := signals.Listen(cmd.Context()); err != nil {
				observability.ServerLogger.Error("Signal handler error", zap.Error(err))
				errChan <- err
			}
		}()

		// Wait for error or shutdown completion
		if err := <-errChan; err != nil {
			return errwrap.WrapInternal(cmd.Context(), err, "server error")
		}

		return nil
	},
}

// buildEmitter assembles the event delivery chain for the server: always the
// structured log sink, plus the spool when enabled.
func buildEmitter(cfg *config.Config, eventSpool *spool.Spool) telemetry.Emitter {
	if !cfg.Telemetry.Enabled {
		return nil
	}

	logSink := &telemetry.LogEmitter{Logger: observability.ServerLogger}
	if eventSpool == nil {
		return logSink
	}

	return telemetry.MultiEmitter{
		logSink,
		&spool.Emitter{Spool: eventSpool},
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "server port (overrides config)")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
