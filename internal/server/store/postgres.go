// Package store opens database connections, applies migrations, and hands
// out repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/sebak/authd/internal/server/migrations"
	"github.com/sebak/authd/internal/server/repositories/accounts"
)

// Postgres bundles the database handle and the repositories built on it.
type Postgres struct {
	db       *sql.DB
	accounts accounts.Repository
}

// NewPostgres opens the database, verifies connectivity, and runs the
// embedded migrations. Any failure here is fatal to service startup.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	s := &Postgres{
		db:       db,
		accounts: accounts.NewPostgresRepository(db),
	}

	if err := s.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return s, nil
}

func (s *Postgres) Conn() *sql.DB {
	return s.db
}

func (s *Postgres) Accounts() accounts.Repository {
	return s.accounts
}

func (s *Postgres) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, s.db, "."); err != nil {
		return err
	}

	return nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}
