package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/idxholders/internal/clients/snapshot"
	"github.com/bobmcallan/idxholders/internal/common"
	"github.com/bobmcallan/idxholders/internal/interfaces"
	"github.com/bobmcallan/idxholders/internal/services/table"
	"github.com/bobmcallan/idxholders/internal/services/viewer"
)

// Options controls how NewApp resolves its configuration
type Options struct {
	// ConfigPath may be empty, in which case the default resolution logic is used.
	ConfigPath string
	// SourceDir overrides [source] dir when set
	SourceDir string
	// Interactive drops console logging so the terminal UI is not overwritten
	Interactive bool
}

// App holds the initialized source, deriver and viewer.
// It is the shared core used by every idxholders command.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Source      interfaces.ReportSource
	Deriver     *table.Deriver
	Viewer      *viewer.Service
	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration and wires the viewer.
func NewApp(opts Options) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	configPath := common.ResolveConfigPath(opts.ConfigPath)
	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.SourceDir != "" {
		config.Source.Dir = opts.SourceDir
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(getBinaryDir(), config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging, opts.Interactive)

	if info, err := os.Stat(config.Source.Dir); err != nil || !info.IsDir() {
		logger.Warn().Str("dir", config.Source.Dir).Msg("Report directory not found - fetches will fail until it exists")
	}

	source := snapshot.NewSource(config.Source.Dir, snapshot.WithLogger(logger))
	deriver := table.NewDeriver(table.WithFields(config.Fields))
	viewerService := viewer.NewService(source, deriver, logger)

	a := &App{
		Config:      config,
		Logger:      logger,
		Source:      source,
		Deriver:     deriver,
		Viewer:      viewerService,
		StartupTime: startupStart,
	}

	logger.Debug().
		Str("config", configPath).
		Str("reports", config.Source.Dir).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}
