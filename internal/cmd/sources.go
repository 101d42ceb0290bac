package cmd

import (
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/feedlens/feedlens/internal/config"
	"github.com/feedlens/feedlens/internal/observability"
	"github.com/feedlens/feedlens/internal/output"
)

var sourcesOutputFormat string

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show configured package sources and their classification",
	Long: `Show the configured package sources with their classification bucket
(local, http-v2, http-v3, disabled) and the restore summary over the
enabled ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(sourcesOutputFormat)
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Invalid output format", err)
		}

		cfg := config.GetConfig()
		if cfg == nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Configuration not loaded", nil)
		}

		report := output.BuildReport(cfg.Descriptors())

		formatter := output.NewFormatter(format)
		rendered, err := formatter.FormatReport(report)
		if err != nil {
			return err
		}

		fmt.Println(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)

	sourcesCmd.Flags().StringVarP(&sourcesOutputFormat, "output", "o", "table",
		"output format (table, json, yaml)")
}
