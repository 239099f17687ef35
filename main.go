// =============================================================================
// Scan to CSV - Main Entry Point
// =============================================================================
//
// This is the main entry point for the scancsv CLI application. It delegates
// command execution to the cmd package.
//
// USAGE:
//   scancsv scan        - Capture scanned codes as CSV files
//   scancsv validate    - Validate the configuration file
//   scancsv recover     - List or deliver leftover temp files
//   scancsv report      - Summarize capture files as XLSX
//   scancsv version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Capture workflow and its components
//   - pkg/           : Shared filesystem utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/scan-to-csv/cmd"
)

func main() {
	cmd.Execute()
}
