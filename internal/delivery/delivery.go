// =============================================================================
// Scan to CSV - Delivery Service
// =============================================================================
//
// This module relocates a temp artifact to the configured destination folder.
//
// DELIVERY STEPS (terminal on first failure):
//   1. Read Network.DestDirectory          -> NoDestinationConfigured
//   2. Validate it as an absolute folder   -> InvalidDestinationPath
//      (drive and UNC roots must also be resolvable on this host)
//   3. Create the folder if missing        -> CopyFailure
//   4. Copy <temp>/<name> to <dest>/<name>, overwriting -> CopyFailure
//   5. Delete the temp artifact (failure is logged, not returned)
//
// On any failure the temp artifact stays where it is so the operator can
// recover it manually (see the recover command).
//
// =============================================================================

package delivery

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	"github.com/ginjaninja78/scan-to-csv/internal/config"
	"github.com/ginjaninja78/scan-to-csv/internal/types"
	"github.com/ginjaninja78/scan-to-csv/internal/validation"
	"github.com/ginjaninja78/scan-to-csv/pkg/utils"
)

// ErrRootNotSupported is returned when a drive or UNC destination cannot be
// opened on this host, e.g. C:\CSV on Linux.
var ErrRootNotSupported = errors.New("destination root is not supported on this host")

// DirOpener returns a filesystem rooted at an absolute directory.
type DirOpener func(dir string) billy.Filesystem

// Service delivers temp artifacts.
type Service struct {
	cfg     config.Source
	temp    billy.Filesystem
	openDir DirOpener
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithDirOpener replaces how destination folders are opened.
func WithDirOpener(open DirOpener) Option {
	return func(s *Service) { s.openDir = open }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New returns a Service reading the destination from cfg and artifacts from
// temp (the working-location filesystem).
func New(cfg config.Source, temp billy.Filesystem, opts ...Option) *Service {
	s := &Service{
		cfg:     cfg,
		temp:    temp,
		openDir: utils.OpenDir,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Destination reads and validates the configured destination folder.
func (s *Service) Destination() (validation.FolderPath, error) {
	raw := s.cfg.Lookup(config.SectionNetwork, config.KeyDestDirectory, "")
	if raw == "" {
		return validation.FolderPath{}, types.NewError(types.KindNoDestinationConfigured, "read destination", nil)
	}

	dest, err := validation.NormalizeFolderPath(raw)
	if err != nil {
		return validation.FolderPath{}, types.NewError(types.KindInvalidDestinationPath, "validate destination", err)
	}

	if !hostResolvable(dest) {
		return validation.FolderPath{}, types.NewError(types.KindInvalidDestinationPath, "validate destination",
			fmt.Errorf("%w: %s", ErrRootNotSupported, dest.String()))
	}
	return dest, nil
}

// hostResolvable reports whether the host filesystem resolves dest's root.
// Drive and UNC roots need a volume name, which only Windows recognizes.
func hostResolvable(dest validation.FolderPath) bool {
	switch dest.Kind {
	case validation.RootDrive, validation.RootUNC:
		return filepath.VolumeName(dest.Native()) != ""
	default:
		return filepath.IsAbs(dest.Native()) || filepath.Separator == '\\'
	}
}

// Deliver copies a to the destination folder and removes the temp file.
//
// RETURNS:
//   - A receipt naming the delivered file.
//   - A *types.Error of kind NoDestinationConfigured, InvalidDestinationPath
//     or CopyFailure.
func (s *Service) Deliver(a types.TempArtifact) (types.Receipt, error) {
	log := s.logger.With("source", "delivery", "file", a.Name)

	dest, err := s.Destination()
	if err != nil {
		return types.Receipt{}, err
	}
	dir := dest.Native()

	dst := s.openDir(dir)
	if err := utils.EnsureDir(dst, "."); err != nil {
		return types.Receipt{}, types.NewError(types.KindCopyFailure, "create destination", err)
	}

	if err := utils.CopyFile(s.temp, a.Path(), dst, a.Name); err != nil {
		return types.Receipt{}, types.NewError(types.KindCopyFailure, "copy to destination", err)
	}

	receipt := types.Receipt{
		Destination: dst.Join(dir, a.Name),
		TempRemoved: true,
	}
	log.Info("delivered", "destination", receipt.Destination)

	if err := s.temp.Remove(a.Path()); err != nil {
		receipt.TempRemoved = false
		log.Warn("temp artifact not removed after delivery", "path", a.Path(), "error", err)
	}

	return receipt, nil
}
