// =============================================================================
// Scan to CSV - Scan Command
// =============================================================================
//
// This file defines the 'scan' command, the operator-facing capture loop.
//
// COMMAND USAGE:
//   scancsv scan [CODE...]
//
// MODES:
//   - With arguments, each CODE is one trigger. The command exits non-zero
//     if any capture failed.
//   - Without arguments, each line read from stdin is one trigger. A
//     keyboard-emulating scanner ends every code with Enter, so the scanner
//     drives this mode directly. An empty line is a trigger with empty input.
//
// After every trigger, successful or not, the outcome message is printed
// and the input prompt is shown again.
//
// =============================================================================

package cmd

import (
	"bufio"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/scan-to-csv/internal/messages"
	"github.com/ginjaninja78/scan-to-csv/internal/workflow"
)

const scanPrompt = "QR> "

// scanCmd represents the 'scan' command.
var scanCmd = &cobra.Command{
	Use:   "scan [CODE...]",
	Short: "Capture scanned transaction codes as CSV files",
	Long: `Capture each scanned transaction code as a one-line CSV file and deliver it
to the configured destination folder.

With no arguments, codes are read line by line from stdin until EOF.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interactive := len(args) == 0

	flow := a.workflow(workflow.OnFinish(func(r workflow.Result) {
		printResult(out, r)
		if interactive {
			// The next prompt is the cleared input.
			io.WriteString(out, scanPrompt)
		}
	}))

	if !interactive {
		failed := 0
		for _, code := range args {
			printStatus(out, messages.Text(messages.Info001))
			if res := flow.Run(code); !res.Success() {
				failed++
			}
		}
		if failed > 0 {
			return &exitError{failed: failed, total: len(args), what: "captures"}
		}
		return nil
	}

	io.WriteString(out, scanPrompt)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		flow.Run(scanner.Text())
	}
	io.WriteString(out, "\n")
	return scanner.Err()
}

// =============================================================================
// OUTPUT
// =============================================================================

var (
	okColor     = color.New(color.FgGreen, color.Bold)
	failColor   = color.New(color.FgRed, color.Bold)
	statusColor = color.New(color.FgCyan)
	detailColor = color.New(color.Faint)
)

func printStatus(w io.Writer, msg string) {
	statusColor.Fprintln(w, msg)
}

// printResult renders one workflow outcome.
func printResult(w io.Writer, r workflow.Result) {
	if r.Success() {
		okColor.Fprintf(w, "[%s] %s\n", messages.Info002, r.Message)
		detailColor.Fprintf(w, "  %s -> %s\n", r.Record.TransactionNo, r.Receipt.Destination)
		return
	}

	failColor.Fprintf(w, "[%s] %s\n", messages.ForKind(r.Kind()), r.Message)
	if r.Artifact.Name != "" {
		detailColor.Fprintf(w, "  temp file kept: %s\n", r.Artifact.Path())
	}
}
