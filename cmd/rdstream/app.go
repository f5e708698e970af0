package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/amaumene/rdstream/internal/config"
	"github.com/amaumene/rdstream/internal/database"
	"github.com/amaumene/rdstream/internal/metrics"
	"github.com/amaumene/rdstream/internal/services"
	"github.com/amaumene/rdstream/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// storeLockWait bounds how long a command looks up the stored token while
// another process (usually serve) holds the settings database.
const storeLockWait = 500 * time.Millisecond

// storeMode says how a command uses the settings database.
type storeMode int

const (
	// storeNone never opens the database.
	storeNone storeMode = iota
	// storeOptional reads the stored token when it can and otherwise falls
	// back to the configured one.
	storeOptional
	// storeRequired fails when the database cannot be opened.
	storeRequired
)

// app holds what every command needs: configuration, logger, settings store
// and the service container. DB is nil unless the command opened the store.
type app struct {
	Config    *config.Config
	Logger    logger.Logger
	DB        database.Store
	Container *services.Container
}

type appOptions struct {
	// logOutput receives console logs; CLI commands keep stdout for results.
	logOutput io.Writer
	// runtimeMetrics adds Go and process collectors for a long-running server.
	runtimeMetrics bool
	store          storeMode
}

func newApp(opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logOpts := cfg.LoggerOptions()
	logOpts.Console = opts.logOutput
	log := logger.NewWithOptions(logOpts)

	db, err := openStore(cfg.DatabasePath, opts.store, log)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	if opts.runtimeMetrics {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &app{
		Config:    cfg,
		Logger:    log,
		DB:        db,
		Container: services.NewContainer(cfg, db, log, metrics.New(reg)),
	}, nil
}

// openStore returns a nil Store, never a nil *BoltDB, when nothing was opened.
func openStore(path string, mode storeMode, log logger.Logger) (database.Store, error) {
	switch mode {
	case storeRequired:
		db, err := database.NewBolt(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Debugf("[App] settings database opened at %s", path)
		return db, nil
	case storeOptional:
		db, err := database.OpenBolt(path, storeLockWait)
		if errors.Is(err, database.ErrLocked) {
			log.Warnf("[App] settings database %s is in use, falling back to the configured token", path)
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Debugf("[App] settings database opened at %s", path)
		return db, nil
	}
	return nil, nil
}

func (a *app) Close() {
	if a.DB == nil {
		return
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Errorf("[App] failed to close database: %v", err)
	}
}
