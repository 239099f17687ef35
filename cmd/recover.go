// =============================================================================
// Scan to CSV - Recover Command
// =============================================================================
//
// This file defines the 'recover' command. A failed delivery leaves its temp
// file in the temp folder; this command lists those files and, with
// --deliver, hands each one to the delivery service once.
//
// COMMAND USAGE:
//   scancsv recover            - List leftover temp files
//   scancsv recover --deliver  - Deliver each leftover temp file once
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/scan-to-csv/internal/artifact"
	"github.com/ginjaninja78/scan-to-csv/internal/csvparser"
	"github.com/ginjaninja78/scan-to-csv/internal/messages"
	"github.com/ginjaninja78/scan-to-csv/internal/types"
)

// deliverLeftovers enables delivery of the listed files.
var deliverLeftovers bool

// recoverCmd represents the 'recover' command.
var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "List or deliver temp files left by failed deliveries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecover(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recoverCmd)

	recoverCmd.Flags().BoolVar(
		&deliverLeftovers,
		"deliver",
		false,
		"Deliver each leftover temp file to the destination folder",
	)
}

func runRecover(cmd *cobra.Command) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	log := a.logger.With("source", "recover")

	files, err := csvparser.ParseDir(a.work, a.tempDir, "", time.Local)
	if err != nil {
		return fmt.Errorf("failed to list temp files: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No leftover temp files")
		return nil
	}

	failed := 0
	for _, f := range files {
		name := filepath.Base(f.Path)
		fmt.Fprintf(out, "%s  %s\n", name, describe(f))

		if !deliverLeftovers {
			continue
		}

		receipt, err := a.delivery.Deliver(artifact.FromPath(a.tempDir, name))
		if err != nil {
			failed++
			failColor.Fprintf(out, "  [%s] %s\n", messages.ForKind(types.KindOf(err)), messages.ForError(err))
			log.Error("recovery delivery failed", "file", name, "error", err)
			continue
		}
		okColor.Fprintf(out, "  delivered -> %s\n", receipt.Destination)
		log.Info("recovered", "file", name, "destination", receipt.Destination)
	}

	if failed > 0 {
		return &exitError{failed: failed, total: len(files), what: "deliveries"}
	}
	return nil
}

func describe(f csvparser.File) string {
	if f.Err != nil {
		return "unreadable: " + f.Err.Error()
	}
	rec := f.Records[0]
	return fmt.Sprintf("%s %s  %s", rec.Date, rec.Time, rec.TransactionNo)
}
