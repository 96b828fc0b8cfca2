//go:build e2e

// Package dbtest holds database helpers shared by the end-to-end tests.
package dbtest

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ResetDB truncates every table so each test starts from a clean slate.
func ResetDB(pool *pgxpool.Pool) error {
	_, err := pool.Exec(context.Background(),
		`TRUNCATE TABLE reservations, books, members CASCADE`)
	return err
}
