// =============================================================================
// Scan to CSV - Report Command
// =============================================================================
//
// This file defines the 'report' command, which summarizes capture files as
// an XLSX workbook.
//
// COMMAND USAGE:
//   scancsv report --out FILE.xlsx            - Report on the destination folder
//   scancsv report --out FILE.xlsx --temp     - Report on leftover temp files
//   scancsv report --out FILE.xlsx --dir DIR  - Report on any folder
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/scan-to-csv/internal/csvparser"
	"github.com/ginjaninja78/scan-to-csv/internal/xlsxreport"
	"github.com/ginjaninja78/scan-to-csv/pkg/utils"
)

var (
	reportOut  string
	reportDir  string
	reportTemp bool
)

// reportCmd represents the 'report' command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an XLSX summary of capture files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Path of the XLSX file to write")
	reportCmd.Flags().StringVar(&reportDir, "dir", "", "Folder to read capture files from (default: destination folder)")
	reportCmd.Flags().BoolVar(&reportTemp, "temp", false, "Read the temp folder instead of the destination folder")
	reportCmd.MarkFlagRequired("out")
	reportCmd.MarkFlagsMutuallyExclusive("dir", "temp")
}

func runReport(cmd *cobra.Command) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	dir, err := reportSource(a)
	if err != nil {
		return err
	}

	files, err := csvparser.ParseDir(utils.OpenDir(dir), ".", "", time.Local)
	if err != nil {
		return fmt.Errorf("failed to read capture files: %w", err)
	}

	target := utils.OpenDir(filepath.Dir(reportOut))
	w, err := target.Create(filepath.Base(reportOut))
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	sum, err := xlsxreport.Write(files, w)
	if cerr := w.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close report: %w", cerr)
	}
	if err != nil {
		return err
	}

	a.logger.Info("report written",
		"source", "report",
		"dir", dir,
		"out", reportOut,
		"files", sum.Files,
		"records", sum.Records,
		"errors", sum.Errors)

	okColor.Fprintf(out, "Wrote %s: %d records from %d files\n", reportOut, sum.Records, sum.Files)
	if sum.Errors > 0 {
		failColor.Fprintf(out, "%d files could not be read (see the %s sheet)\n", sum.Errors, xlsxreport.ErrorsSheet)
	}
	return nil
}

func reportSource(a *app) (string, error) {
	switch {
	case reportDir != "":
		return reportDir, nil
	case reportTemp:
		return a.cfg.TempPath(), nil
	}

	dest, err := a.delivery.Destination()
	if err != nil {
		return "", errors.Join(errors.New("no folder to report on; pass --dir or --temp"), err)
	}
	return dest.Native(), nil
}
