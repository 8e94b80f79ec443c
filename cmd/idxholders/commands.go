package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/idxholders/internal/app"
	"github.com/bobmcallan/idxholders/internal/common"
	"github.com/bobmcallan/idxholders/internal/models"
	"github.com/bobmcallan/idxholders/internal/services/render"
	"github.com/bobmcallan/idxholders/internal/services/table"
)

// showCmd prints one report to stdout
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Fetch a report and print the table",
	Example: `  idxholders show
  idxholders show --mode exact --date 2024-05-10 --hide-zero
  idxholders show --full --no-color > perubahan.txt`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

// exportCmd writes one report as an xlsx workbook
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch a report and write it to a spreadsheet",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		common.LoadVersionFromFile()
		fmt.Fprintf(cmd.OutOrStdout(), "idxholders %s\n", common.CurrentBuild())
	},
}

func runShow(cmd *cobra.Command, args []string) error {
	tbl, err := fetchTable(cmd)
	if err != nil {
		return err
	}
	return render.WriteText(cmd.OutOrStdout(), tbl, render.TextOptions{Color: !noColor})
}

func runExport(cmd *cobra.Command, args []string) error {
	tbl, err := fetchTable(cmd)
	if err != nil {
		return err
	}
	if tbl == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), render.NoDataMessage)
		return nil
	}
	if err := render.WriteXLSX(exportPath, tbl); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", tbl.DataRows(), exportPath)
	return nil
}

// fetchTable builds the app, applies the view flags and runs one fetch. A nil
// table with a nil error means there is nothing to display.
func fetchTable(cmd *cobra.Command) (*models.DerivedTable, error) {
	a, err := app.NewApp(app.Options{ConfigPath: configPath, SourceDir: sourceDir})
	if err != nil {
		return nil, err
	}
	common.PrintBanner(cmd.ErrOrStderr(), a.Config, a.Logger)

	if err := applyFlags(a); err != nil {
		return nil, err
	}
	if err := a.Viewer.Fetch(cmd.Context()); err != nil {
		return nil, err
	}

	tbl, err := a.Viewer.Table()
	if errors.Is(err, table.ErrNoData) {
		return nil, nil
	}
	return tbl, err
}

func applyFlags(a *app.App) error {
	mode := models.FetchMode(fetchMode)
	if mode != models.FetchLatest && mode != models.FetchExact {
		return &models.ValidationError{Field: "mode", Message: "Fetch mode must be one of: latest, exact"}
	}
	if err := a.Viewer.SetFetchMode(mode); err != nil {
		return err
	}
	if exactDate != "" {
		if err := a.Viewer.SetExactDate(exactDate); err != nil {
			return err
		}
	}

	columns := models.ColumnModeSimple
	if fullView {
		columns = models.ColumnModeFull
	}
	if err := a.Viewer.SetColumnMode(columns); err != nil {
		return err
	}
	return a.Viewer.SetHideZeroChange(hideZero)
}
