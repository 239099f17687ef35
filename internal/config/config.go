// =============================================================================
// Scan to CSV - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration and
// exposing it as a (section, key) lookup to the capture workflow.
//
// CONFIGURATION FILE (config.yaml):
//   network:
//     dest_directory: '\\fileserver\csv'
//   csv_data:
//     shop_no: "001"
//     pos_no: "01"
//     casher_code: "C01"
//     casher_name: "Tanaka"
//   app:
//     temp_dir: TempCsv
//     log_dir: log
//     ...
//
// LOOKUP NAMES:
//   The workflow asks for values by section and key using the historical
//   INI names (Network.DestDirectory, CsvData.ShopNo, ...). Lookup is
//   case-insensitive and also accepts the YAML snake_case names.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/scan-to-csv/internal/types"
)

// =============================================================================
// SECTION AND KEY NAMES
// =============================================================================

// Section names.
const (
	SectionNetwork = "Network"
	SectionCsvData = "CsvData"
	SectionApp     = "App"
)

// Key names.
const (
	KeyDestDirectory = "DestDirectory"

	KeyShopNo     = "ShopNo"
	KeyPosNo      = "PosNo"
	KeyCasherCode = "CasherCode"
	KeyCasherName = "CasherName"
)

// DefaultPath is the configuration file used when --config is not given.
const DefaultPath = "config.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// Network holds delivery settings.
	Network NetworkConfig `yaml:"network"`

	// CsvData holds the operator context written into every record.
	CsvData CsvDataConfig `yaml:"csv_data"`

	// App holds local working settings.
	App AppConfig `yaml:"app"`
}

// NetworkConfig holds delivery settings.
type NetworkConfig struct {
	// DestDirectory is the absolute local or UNC folder that receives the
	// CSV files. There is no default: an empty value stops delivery.
	DestDirectory string `yaml:"dest_directory"`
}

// CsvDataConfig holds the operator context.
type CsvDataConfig struct {
	ShopNo     string `yaml:"shop_no"`
	PosNo      string `yaml:"pos_no"`
	CasherCode string `yaml:"casher_code"`
	CasherName string `yaml:"casher_name"`
}

// AppConfig holds local working settings.
type AppConfig struct {
	// WorkDir is the working location. Temp and log directories are
	// resolved relative to it.
	// Default: the directory containing the executable.
	WorkDir string `yaml:"work_dir"`

	// TempDir is the subdirectory of WorkDir holding temp artifacts.
	// Default: "TempCsv"
	TempDir string `yaml:"temp_dir"`

	// LogDir is the subdirectory of WorkDir holding log files.
	// Default: "log"
	LogDir string `yaml:"log_dir"`

	// LogFileName is the log file base name.
	// Default: "TraceLog"
	LogFileName string `yaml:"log_file_name"`

	// LogFileFormat is the date suffix appended to LogFileName.
	// Valid values: "yyyymmdd", "yyyymmddhhmmss", "yyyymmddhhmmssfff", "none"
	// Default: "yyyymmdd"
	LogFileFormat string `yaml:"log_file_format"`

	// LogWriteMode is "append" or "over".
	// Default: "append"
	LogWriteMode string `yaml:"log_write_mode"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogEncoding is "shift-jis" or "utf-8".
	// Default: "shift-jis"
	LogEncoding string `yaml:"log_encoding"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads and parses the configuration file.
//
// RETURNS:
//   - The parsed configuration with defaults applied.
//   - A types.KindConfigNotFound error if the file does not exist.
//   - A wrapped error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.NewError(types.KindConfigNotFound, "load config", err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration YAML, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.App.WorkDir == "" {
		cfg.App.WorkDir = executableDir()
	}
	if cfg.App.TempDir == "" {
		cfg.App.TempDir = "TempCsv"
	}
	if cfg.App.LogDir == "" {
		cfg.App.LogDir = "log"
	}
	if cfg.App.LogFileName == "" {
		cfg.App.LogFileName = "TraceLog"
	}
	if cfg.App.LogFileFormat == "" {
		cfg.App.LogFileFormat = "yyyymmdd"
	}
	if cfg.App.LogWriteMode == "" {
		cfg.App.LogWriteMode = "append"
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.App.LogEncoding == "" {
		cfg.App.LogEncoding = "shift-jis"
	}
}

// validate checks enumerated settings. The destination directory is not
// checked here; delivery validates it on every run.
func validate(cfg *Config) error {
	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"app.log_file_format", cfg.App.LogFileFormat, []string{"yyyymmdd", "yyyymmddhhmmss", "yyyymmddhhmmssfff", "none"}},
		{"app.log_write_mode", cfg.App.LogWriteMode, []string{"append", "over"}},
		{"app.log_level", cfg.App.LogLevel, []string{"debug", "info", "warn", "error"}},
		{"app.log_encoding", cfg.App.LogEncoding, []string{"shift-jis", "utf-8"}},
	}

	for _, c := range checks {
		if !containsFold(c.allowed, c.value) {
			return fmt.Errorf("%s: unsupported value %q (want one of %s)",
				c.name, c.value, strings.Join(c.allowed, ", "))
		}
	}
	return nil
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// =============================================================================
// LOOKUP
// =============================================================================

// Source is the narrow lookup the capture workflow depends on.
type Source interface {
	// Lookup returns the value stored under (section, key), or def when the
	// value is absent or empty.
	Lookup(section, key, def string) string
}

// Lookup implements Source.
func (c *Config) Lookup(section, key, def string) string {
	v, ok := c.values()[normalizeName(section)+"."+normalizeName(key)]
	if !ok || v == "" {
		return def
	}
	return v
}

// OperatorContext returns the CsvData section as an OperatorContext.
func OperatorContext(src Source) types.OperatorContext {
	return types.OperatorContext{
		ShopNo:     src.Lookup(SectionCsvData, KeyShopNo, ""),
		PosNo:      src.Lookup(SectionCsvData, KeyPosNo, ""),
		CasherCode: src.Lookup(SectionCsvData, KeyCasherCode, ""),
		CasherName: src.Lookup(SectionCsvData, KeyCasherName, ""),
	}
}

func (c *Config) values() map[string]string {
	return map[string]string{
		"network.destdirectory": c.Network.DestDirectory,
		"csvdata.shopno":        c.CsvData.ShopNo,
		"csvdata.posno":         c.CsvData.PosNo,
		"csvdata.cashercode":    c.CsvData.CasherCode,
		"csvdata.cashername":    c.CsvData.CasherName,
		"app.workdir":           c.App.WorkDir,
		"app.tempdir":           c.App.TempDir,
		"app.logdir":            c.App.LogDir,
		"app.logfilename":       c.App.LogFileName,
		"app.logfileformat":     c.App.LogFileFormat,
		"app.logwritemode":      c.App.LogWriteMode,
		"app.loglevel":          c.App.LogLevel,
		"app.logencoding":       c.App.LogEncoding,
	}
}

// normalizeName folds "CsvData", "csv_data" and "csvdata" to one form.
func normalizeName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

// =============================================================================
// RESOLVED PATHS
// =============================================================================

// TempPath returns the absolute-or-working-relative temp artifact directory.
func (c *Config) TempPath() string {
	return resolve(c.App.WorkDir, c.App.TempDir)
}

// LogPath returns the log directory.
func (c *Config) LogPath() string {
	return resolve(c.App.WorkDir, c.App.LogDir)
}

func resolve(base, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}
