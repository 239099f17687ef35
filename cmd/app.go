// =============================================================================
// Scan to CSV - Application Wiring
// =============================================================================
//
// This file builds the components shared by the commands from the
// configuration file:
//
//   config.Load ──> logging.New ──> artifact.Materializer (temp folder)
//        │                                   │
//        └──> config.Reloading ──> delivery.Service ──> workflow.Workflow
//
// The delivery service and the workflow read settings through
// config.Reloading, so edits to the file apply on the next scan.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5"

	"github.com/ginjaninja78/scan-to-csv/internal/artifact"
	"github.com/ginjaninja78/scan-to-csv/internal/config"
	"github.com/ginjaninja78/scan-to-csv/internal/delivery"
	"github.com/ginjaninja78/scan-to-csv/internal/logging"
	"github.com/ginjaninja78/scan-to-csv/internal/messages"
	"github.com/ginjaninja78/scan-to-csv/internal/types"
	"github.com/ginjaninja78/scan-to-csv/internal/workflow"
	"github.com/ginjaninja78/scan-to-csv/pkg/utils"
)

// app holds the wired components for one command invocation.
type app struct {
	cfg    *config.Config
	source config.Source
	logger *slog.Logger

	// work is rooted at the parent of the temp folder; tempDir is the
	// folder's name within it.
	work    billy.Filesystem
	tempDir string

	materializer *artifact.Materializer
	delivery     *delivery.Service
}

// newApp loads the configuration and wires the components. A missing or
// invalid configuration is printed as the operator message before the
// error is returned.
func newApp(stderr io.Writer) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		color.New(color.FgRed).Fprintf(stderr, "[%s] %s\n", messages.ForKind(types.KindOf(err)), messages.ForError(err))
		return nil, err
	}

	var tee io.Writer
	if verbose {
		tee = stderr
	}
	logger, err := logging.New(logging.Options{
		Dir:        cfg.LogPath(),
		FileName:   cfg.App.LogFileName,
		FileFormat: cfg.App.LogFileFormat,
		WriteMode:  cfg.App.LogWriteMode,
		Level:      cfg.App.LogLevel,
		Encoding:   cfg.App.LogEncoding,
		Tee:        tee,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	source := config.NewReloading(cfgFile, cfg, logger)

	tempPath := cfg.TempPath()
	work := utils.OpenDir(filepath.Dir(tempPath))
	tempDir := filepath.Base(tempPath)

	a := &app{
		cfg:          cfg,
		source:       source,
		logger:       logger,
		work:         work,
		tempDir:      tempDir,
		materializer: artifact.New(work, tempDir, artifact.WithLogger(logger)),
		delivery:     delivery.New(source, work, delivery.WithLogger(logger)),
	}

	logger.Debug("application wired",
		"source", "cmd",
		"config", cfgFile,
		"work_dir", cfg.App.WorkDir,
		"temp_dir", tempPath,
		"log_dir", cfg.LogPath())
	return a, nil
}

// workflow builds the capture workflow.
func (a *app) workflow(opts ...workflow.Option) *workflow.Workflow {
	opts = append([]workflow.Option{workflow.WithLogger(a.logger)}, opts...)
	return workflow.New(a.source, a.materializer, a.delivery, opts...)
}
