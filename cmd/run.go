package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/devtutor/internal/app"
	"github.com/abhisek/devtutor/internal/config"
	"github.com/abhisek/devtutor/internal/logging"
	"github.com/abhisek/devtutor/internal/store"
)

// logFileName is the TUI log, kept next to the database in the data dir.
const logFileName = "devtutor.log"

// openServices loads configuration, opens the store and wires the services.
// With logToFile set, logs go to the data directory so they never reach the
// terminal; otherwise they go to stderr. The returned func releases
// everything.
func openServices(cmd *cobra.Command, logToFile bool) (*app.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}

	logger, logCloser, err := newLogger(cfg, logToFile)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		logCloser.Close()
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug().Str("db", dbPath).Msg("store opened")

	cleanup := func() {
		if err := st.Close(); err != nil {
			logger.Warn().Err(err).Msg("close store")
		}
		logCloser.Close()
	}
	return app.NewServices(cfg, st, logger), cleanup, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newLogger(cfg *config.App, toFile bool) (zerolog.Logger, io.Closer, error) {
	opts := logging.Options{Level: cfg.LogLevel}
	if !toFile {
		opts.Console = true
		return logging.New(os.Stderr, opts), nopCloser{}, nil
	}
	dir, err := store.DataDir()
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("resolve data dir: %w", err)
	}
	logger, closer, err := logging.OpenFile(filepath.Join(dir, logFileName), opts)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return logger, closer, nil
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	svc, cleanup, err := openServices(cmd, true)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, ok, _ := svc.Keys.Get(cmd.Context()); !ok {
		svc.Logger.Info().Msg("no generation key configured, using offline questions")
	}
	return app.Run(svc)
}
