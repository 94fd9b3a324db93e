package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/passbook-dev/passbook/internal/config"
	"github.com/passbook-dev/passbook/internal/contacts"
	"github.com/passbook-dev/passbook/internal/ledger"
	"github.com/passbook-dev/passbook/internal/store"
	"github.com/passbook-dev/passbook/internal/store/csvstore"
	"github.com/passbook-dev/passbook/internal/store/pgstore"
)

// app bundles the loaded project and its services for one command run.
type app struct {
	dir      string
	cfg      *config.Config
	store    store.Store
	ledger   *ledger.Service
	contacts *contacts.Service
	close    func()
}

// openApp loads the project at dir and wires the storage and services.
// Records live in CSV files under <dir>/data unless a database URL is
// configured (passbook.yaml, .env, or DATABASE_URL), which selects
// PostgreSQL instead.
func openApp(ctx context.Context, dir string) (*app, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(absDir)
	if err != nil {
		return nil, fmt.Errorf("loading project (did you run passbook init?): %w", err)
	}
	if err := config.ApplyEnv(absDir, cfg); err != nil {
		return nil, err
	}

	opening, err := cfg.Account.Opening()
	if err != nil {
		return nil, err
	}

	var st store.Store
	closeStore := func() {}

	if cfg.Database.URL != "" {
		pool, err := pgstore.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		logger, err := zap.NewProduction()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("creating logger: %w", err)
		}
		pg := pgstore.New(pool, logger)
		if err := pg.InitSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		st = pg
		closeStore = func() {
			pool.Close()
			_ = logger.Sync()
		}
	} else {
		st = csvstore.New(filepath.Join(absDir, "data"))
	}

	return &app{
		dir:      absDir,
		cfg:      cfg,
		store:    st,
		ledger:   ledger.NewService(st, opening),
		contacts: contacts.NewService(st),
		close:    closeStore,
	}, nil
}
