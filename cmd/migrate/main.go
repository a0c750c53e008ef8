package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tripnest/tripnest-backend/config"
	"github.com/tripnest/tripnest-backend/internal/storage/postgres"
)

const migrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	name       text PRIMARY KEY,
	applied_at timestamptz NOT NULL DEFAULT now()
)`

func main() {
	cfg, err := config.LoadForMigrations()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dsn, err := postgres.DSN(&cfg.Backend, cfg.App.Environment)
	if err != nil {
		log.Fatalf("invalid database url: %v", err)
	}

	// pgx runs argument-less Exec over the simple protocol, so a file may hold many statements
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("error opening database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("error pinging database: %v", err)
	}

	if _, err := db.ExecContext(ctx, migrationsTable); err != nil {
		log.Fatalf("error creating migrations table: %v", err)
	}

	migrations, err := postgres.Migrations()
	if err != nil {
		log.Fatalf("error reading migrations: %v", err)
	}

	for _, m := range migrations {
		var applied bool
		if err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, m.Name).Scan(&applied); err != nil {
			log.Fatalf("error checking %s: %v", m.Name, err)
		}
		if applied {
			log.Printf("[migrate] %s already applied", m.Name)
			continue
		}

		if err := apply(ctx, db, m); err != nil {
			log.Fatalf("error applying %s: %v", m.Name, err)
		}
		log.Printf("[migrate] applied %s", m.Name)
	}

	log.Println("Migrations applied successfully")
}

func apply(ctx context.Context, db *sql.DB, m postgres.Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name); err != nil {
		return err
	}
	return tx.Commit()
}
