package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/idxholders/internal/app"
	"github.com/bobmcallan/idxholders/internal/common"
	"github.com/bobmcallan/idxholders/internal/tui"
)

var (
	// Global flags
	configPath string
	sourceDir  string

	// View and fetch flags shared by show and export
	fetchMode  string
	exactDate  string
	fullView   bool
	hideZero   bool
	noColor    bool
	exportPath string
)

var rootCmd = &cobra.Command{
	Use:   "idxholders",
	Short: "Browse IDX shareholder-change reports",
	Long: `idxholders presents the IDX daily ownership-change report as a table
grouped by issuer, with increases in green and decreases in red.

Run without a subcommand for the interactive viewer.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: IDXHOLDERS_CONFIG, then idxholders.toml)")
	rootCmd.PersistentFlags().StringVar(&sourceDir, "dir", "", "Report snapshot directory (overrides [source] dir)")

	for _, cmd := range []*cobra.Command{showCmd, exportCmd} {
		cmd.Flags().StringVar(&fetchMode, "mode", "latest", "Fetch mode: latest or exact")
		cmd.Flags().StringVar(&exactDate, "date", "", "Report date for exact mode (YYYY-MM-DD); defaults to today when omitted")
		cmd.Flags().BoolVar(&fullView, "full", false, "Show every column instead of the simple view")
		cmd.Flags().BoolVar(&hideZero, "hide-zero", false, "Hide rows whose change is zero or missing")
	}
	showCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured rows")
	exportCmd.Flags().StringVarP(&exportPath, "out", "o", "perubahan.xlsx", "Output workbook path")

	rootCmd.AddCommand(showCmd, exportCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runInteractive starts the terminal viewer
func runInteractive(cmd *cobra.Command, args []string) error {
	a, err := app.NewApp(app.Options{ConfigPath: configPath, SourceDir: sourceDir, Interactive: true})
	if err != nil {
		return err
	}

	a.Logger.Info().Str("version", common.CurrentBuild().Version).Msg("Interactive viewer started")
	defer a.Logger.Info().Msg("Interactive viewer stopped")

	return tui.Run(cmd.Context(), a.Viewer)
}
