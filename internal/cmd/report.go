package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/feedlens/feedlens/internal/config"
	"github.com/feedlens/feedlens/internal/core/classify"
	"github.com/feedlens/feedlens/internal/observability"
	"github.com/feedlens/feedlens/internal/telemetry"
	"github.com/feedlens/feedlens/internal/telemetry/spool"
)

var (
	reportParentID    string
	reportSpoolEvent  bool
	reportPageIndex   int
	reportResultCount int
	reportDuration    time.Duration
	reportPageStatus  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build telemetry summary events from the configured sources",
	Long: `Build a telemetry summary event and print it as JSON.

The restore and search subcommands classify the configured sources first;
the page subcommand packages caller-supplied page fetch measurements.`,
}

var reportRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Build the restore source summary event",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, parentID := reportInputs()

		summary := classify.ForRestore(cfg.Descriptors())
		event := telemetry.NewRestoreSourceSummaryEvent(parentID, summary)

		return deliverEvent(cmd.Context(), cfg, event)
	},
}

var reportSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Build the search source summary event",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, parentID := reportInputs()

		summary := classify.ForSearch(cfg.Descriptors())
		event := telemetry.NewSearchSourceSummaryEvent(parentID, summary)

		return deliverEvent(cmd.Context(), cfg, event)
	},
}

var reportPageCmd = &cobra.Command{
	Use:   "page",
	Short: "Build a search page fetch event",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, parentID := reportInputs()

		status, err := parsePageStatus(reportPageStatus)
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Invalid page status", err)
		}

		event := telemetry.NewSearchPageEvent(parentID, reportPageIndex, reportResultCount, reportDuration, status)

		return deliverEvent(cmd.Context(), cfg, event)
	},
}

// reportInputs returns the loaded config and the parent operation ID,
// exiting on invalid input.
func reportInputs() (*config.Config, uuid.UUID) {
	cfg := config.GetConfig()
	if cfg == nil {
		ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Configuration not loaded", nil)
	}

	parentID := uuid.New()
	if reportParentID != "" {
		parsed, err := uuid.Parse(reportParentID)
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Invalid parent ID", err)
		}
		parentID = parsed
	}

	return cfg, parentID
}

// deliverEvent prints the event and routes it through the configured sinks.
func deliverEvent(ctx context.Context, cfg *config.Config, event *telemetry.Event) error {
	data, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	if cfg.Telemetry.Enabled {
		emitter := &telemetry.LogEmitter{Logger: observability.CLILogger}
		if err := emitter.Emit(ctx, event); err != nil {
			observability.CLILogger.Warn("Failed to emit event", zap.Error(err))
		}
	}

	if reportSpoolEvent || cfg.Telemetry.SpoolEvents {
		if err := appendToSpool(ctx, cfg, event); err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitFailure, "Failed to spool event", err)
		}
	}

	return nil
}

func appendToSpool(ctx context.Context, cfg *config.Config, event *telemetry.Event) error {
	s, err := spool.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			observability.CLILogger.Warn("Failed to close spool", zap.Error(err))
		}
	}()

	if err := s.Migrate(ctx); err != nil {
		return err
	}

	if err := s.Append(ctx, event); err != nil {
		return err
	}

	if verbose {
		observability.CLILogger.Debug("Event spooled",
			zap.String("event", event.Name()),
			zap.String("path", cfg.Store.Path))
	}

	return nil
}

func parsePageStatus(value string) (telemetry.PageLoadStatus, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "ready":
		return telemetry.PageLoadReady, nil
	case "loading":
		return telemetry.PageLoadLoading, nil
	case "noitemsfound", "no-items-found":
		return telemetry.PageLoadNoItemsFound, nil
	case "failed":
		return telemetry.PageLoadFailed, nil
	case "cancelled", "canceled":
		return telemetry.PageLoadCancelled, nil
	default:
		return "", fmt.Errorf("unsupported page status: %s", value)
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportRestoreCmd)
	reportCmd.AddCommand(reportSearchCmd)
	reportCmd.AddCommand(reportPageCmd)

	reportCmd.PersistentFlags().StringVar(&reportParentID, "parent-id", "",
		"parent operation ID (UUID, generated when omitted)")
	reportCmd.PersistentFlags().BoolVar(&reportSpoolEvent, "spool", false,
		"append the built event to the local event spool")

	reportPageCmd.Flags().IntVar(&reportPageIndex, "page-index", 0, "zero-based page index")
	reportPageCmd.Flags().IntVar(&reportResultCount, "result-count", 0, "number of results on the page")
	reportPageCmd.Flags().DurationVar(&reportDuration, "duration", 0, "page fetch duration")
	reportPageCmd.Flags().StringVar(&reportPageStatus, "status", "ready",
		"page load status (ready, loading, noitemsfound, failed, cancelled)")
}
