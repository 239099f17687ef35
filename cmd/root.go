// =============================================================================
// Scan to CSV - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (scancsv)
//   ├── scanCmd     (scancsv scan)
//   ├── validateCmd (scancsv validate)
//   ├── recoverCmd  (scancsv recover)
//   ├── reportCmd   (scancsv report)
//   └── versionCmd  (scancsv version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/scan-to-csv/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose copies log lines to stderr when set.
var verbose bool

// noColor disables colored output.
var noColor bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scancsv",
	Short: "Scan to CSV - Capture POS scans as CSV files for downstream ingestion",
	Long: `Scan to CSV turns each scanned transaction code into a one-line,
Shift_JIS encoded CSV file and delivers it to a configured local or UNC
folder, where a downstream system picks it up.

Every record carries the capture date and time plus the shop, register and
operator configured in the settings file.

Example Usage:
  scancsv scan                        # Read scans from the scanner (stdin)
  scancsv scan ABC123                 # Capture a single code
  scancsv validate                    # Check the configuration
  scancsv recover --deliver           # Retry temp files left by failed deliveries
  scancsv report --out scans.xlsx     # Summarize delivered files`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Copy log output to stderr",
	)

	rootCmd.PersistentFlags().BoolVar(
		&noColor,
		"no-color",
		false,
		"Disable colored output",
	)
}

// exitError reports a count of failed items without repeating their
// messages, which were already printed.
type exitError struct {
	failed, total int
	what          string
}

func (e *exitError) Error() string {
	return fmt.Sprintf("%d of %d %s failed", e.failed, e.total, e.what)
}
