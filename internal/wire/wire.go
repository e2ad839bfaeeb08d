// Package wire provides dependency injection for the dispatch application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	cliadapter "github.com/example/dispatch/internal/adapters/cli"
	"github.com/example/dispatch/internal/adapters/sqlite"
	"github.com/example/dispatch/internal/app"
	"github.com/example/dispatch/internal/clock"
	"github.com/example/dispatch/internal/config"
	"github.com/example/dispatch/internal/core/region"
	"github.com/example/dispatch/internal/ctxutil"
	"github.com/example/dispatch/internal/db"
	"github.com/example/dispatch/internal/ports/primary"
)

var (
	cfg             *config.Config
	logger          *slog.Logger
	catalog         *region.Catalog
	database        *sql.DB
	dispatchService *app.DispatchServiceImpl
	rosterService   primary.RosterService
	configOnce      sync.Once
	once            sync.Once
)

// ConfigDir returns the configuration directory: $DISPATCH_HOME or ~/.dispatch.
func ConfigDir() (string, error) {
	if dir := os.Getenv("DISPATCH_HOME"); dir != "" {
		return dir, nil
	}
	return config.DefaultDir()
}

// Config returns the loaded configuration.
func Config() *config.Config {
	configOnce.Do(initConfig)
	return cfg
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	configOnce.Do(initConfig)
	return logger
}

// Context returns a background context carrying the configured player.
func Context() context.Context {
	return ctxutil.WithPlayerID(context.Background(), Config().PlayerID)
}

// Catalog returns the region catalog.
func Catalog() *region.Catalog {
	once.Do(initServices)
	return catalog
}

// DispatchService returns the singleton DispatchService instance.
func DispatchService() primary.DispatchService {
	once.Do(initServices)
	return dispatchService
}

// RosterService returns the singleton RosterService instance.
func RosterService() primary.RosterService {
	once.Do(initServices)
	return rosterService
}

// Ticker returns a new Ticker driving the singleton DispatchService.
func Ticker() *app.Ticker {
	once.Do(initServices)
	interval := time.Duration(cfg.TickIntervalMS) * time.Millisecond
	return app.NewTicker(dispatchService, interval, logger)
}

func initConfig() {
	dir, err := ConfigDir()
	if err != nil {
		log.Fatalf("failed to resolve config directory: %v", err)
	}

	cfg, err = config.Load(dir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger = newLogger(cfg.LogLevel, os.Stderr)
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	configOnce.Do(initConfig)

	var err error
	catalog, err = loadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("failed to load region catalog: %v", err)
	}

	database, err = db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	if err := db.SeedUnits(database); err != nil {
		log.Fatalf("failed to seed units: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	missionRepo := sqlite.NewMissionRepository(database)
	unitRepo := sqlite.NewUnitRepository(database)
	inventoryRepo := sqlite.NewInventoryRepository(database)

	// Create services (primary ports implementation)
	dispatchService = app.NewDispatchService(
		catalog,
		unitRepo,
		inventoryRepo,
		missionRepo,
		clock.RealClock{},
		nil,
		logger,
		app.DispatchOptions{
			MaxSlots:         cfg.MaxDispatchSlots,
			HistoryLimit:     cfg.HistoryLimit,
			UserID:           cfg.PlayerID,
			StrictUnits:      cfg.StrictUnits,
			ValidateDuration: cfg.ValidateDuration,
			GreatSuccess:     cfg.GreatSuccess,
		},
	)
	if err := dispatchService.Restore(context.Background()); err != nil {
		log.Fatalf("failed to restore missions: %v", err)
	}
	rosterService = app.NewRosterService(unitRepo, inventoryRepo, dispatchService, cfg.PlayerID)
}

func loadCatalog(path string) (*region.Catalog, error) {
	if path == "" {
		return region.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return region.Parse(data)
}

func newLogger(level string, out io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl}))
}

// DispatchAdapter returns a new DispatchAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func DispatchAdapter() *cliadapter.DispatchAdapter {
	return DispatchAdapterWithOutput(os.Stdout)
}

// DispatchAdapterWithOutput returns a new DispatchAdapter writing to the given output.
func DispatchAdapterWithOutput(out io.Writer) *cliadapter.DispatchAdapter {
	once.Do(initServices)
	return cliadapter.NewDispatchAdapter(dispatchService, out)
}

// RosterAdapter returns a new RosterAdapter writing to stdout.
func RosterAdapter() *cliadapter.RosterAdapter {
	return RosterAdapterWithOutput(os.Stdout)
}

// RosterAdapterWithOutput returns a new RosterAdapter writing to the given output.
func RosterAdapterWithOutput(out io.Writer) *cliadapter.RosterAdapter {
	once.Do(initServices)
	return cliadapter.NewRosterAdapter(rosterService, catalog, cfg.FacilityLevel, out)
}
