package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tripnest/tripnest-backend/config"
	"github.com/tripnest/tripnest-backend/internal/storage/postgres"
)

type DBOptions struct {
	PingTO time.Duration
}

func OpenDB(ctx context.Context, cfg *config.BackendConfig, env string, opt DBOptions) (*sql.DB, error) {
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	dsn, err := postgres.DSN(cfg, env)
	if err != nil {
		return nil, err
	}

	db, err := postgres.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, opt.PingTO)
	defer pcancel()

	if err := db.PingContext(pctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}
