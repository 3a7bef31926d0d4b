package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"threatdash/internal/adapters/datasets"
	"threatdash/internal/adapters/jsonfile"
	pg "threatdash/internal/adapters/postgres"
	"threatdash/internal/adapters/sqlite"
	"threatdash/internal/config"
	"threatdash/internal/domain"
	"threatdash/internal/ports"
	"threatdash/internal/services/areas"
	"threatdash/internal/services/matcher"
)

func newMatcher(cfg config.Config, log *logrus.Logger) (*areas.Registry, *matcher.Service) {
	reg := areas.Load(cfg.AreasPath, log)
	loader := datasets.New(map[domain.DatasetName]string{
		domain.DatasetIssues:      cfg.IssuesPath,
		domain.DatasetConcessions: cfg.ConcessionsPath,
		domain.DatasetCurrent:     cfg.CurrentPath,
	}, datasets.Options{Timeout: cfg.HTTPTimeout, RetryMax: cfg.RetryMax}, log)
	return reg, matcher.New(reg, loader)
}

// openStore opens the report repository selected by STORE_DRIVER. SQL stores
// are migrated before use.
func openStore(ctx context.Context, cfg config.Config, log *logrus.Logger) (ports.ReportRepository, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if err := db.Migrate(ctx, log); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return db, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.Migrate(ctx, log); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return db, nil
	default:
		store, err := jsonfile.Open(cfg.DataPath, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
