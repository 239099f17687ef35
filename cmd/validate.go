// =============================================================================
// Scan to CSV - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which loads the configuration
// and checks the destination folder setting without capturing anything.
//
// COMMAND USAGE:
//   scancsv validate [--config FILE]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/scan-to-csv/internal/config"
	"github.com/ginjaninja78/scan-to-csv/internal/messages"
	"github.com/ginjaninja78/scan-to-csv/internal/types"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, print the resolved settings and check that the
destination folder is an absolute local or UNC path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	op := config.OperatorContext(a.cfg)
	fmt.Fprintf(out, "Config:      %s\n", cfgFile)
	fmt.Fprintf(out, "Work dir:    %s\n", a.cfg.App.WorkDir)
	fmt.Fprintf(out, "Temp dir:    %s\n", a.cfg.TempPath())
	fmt.Fprintf(out, "Log dir:     %s\n", a.cfg.LogPath())
	fmt.Fprintf(out, "Shop/POS:    %s / %s\n", op.ShopNo, op.PosNo)
	fmt.Fprintf(out, "Operator:    %s %s\n", op.CasherCode, op.CasherName)

	dest, err := a.delivery.Destination()
	if err != nil {
		failColor.Fprintf(out, "[%s] %s\n", messages.ForKind(types.KindOf(err)), messages.ForError(err))
		a.logger.Error("configuration invalid", "source", "validate", "error", err)
		return err
	}

	fmt.Fprintf(out, "Destination: %s (%s)\n", dest.String(), dest.Kind)
	okColor.Fprintln(out, "Configuration is valid")
	return nil
}
