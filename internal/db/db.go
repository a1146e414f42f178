// Package db provides PostgreSQL-backed repository implementations for the
// reminder-trigger engine. All repositories accept a DBTX interface that is
// satisfied by both *pgxpool.Pool (for normal queries) and pgx.Tx (for
// transactional execution).
//
// The engine's store contract is deliberately narrow: equality/range/limit/
// order queries, get-by-id, create, and one conditional update. Eventually
// consistent reads are acceptable; the idempotency cool-down absorbs the
// resulting overlap.
package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx.
// Repositories accept this so the same code works inside or outside a
// transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// nilIfZeroTime returns nil for the zero time so the column stores NULL.
func nilIfZeroTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// nilIfEmpty returns nil for the empty string so the column stores NULL.
func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
