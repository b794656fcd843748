package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by *Store (pool-backed, retried) and by pgx.Tx, so every
// repository can run either standalone or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRunner scopes fn to a single transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(q DBTX) error) error
}

var txOptions = pgx.TxOptions{
	IsoLevel:       pgx.ReadCommitted,
	AccessMode:     pgx.ReadWrite,
	DeferrableMode: pgx.NotDeferrable,
}

// Store is the record store over the pool. Each call borrows one pooled
// connection for its duration; pgxpool returns it on completion or error.
type Store struct {
	pool        *pgxpool.Pool
	policy      RetryPolicy
	log         *slog.Logger
	onTransient func(op string)
}

func NewStore(pool *pgxpool.Pool, policy RetryPolicy, log *slog.Logger) *Store {
	return &Store{pool: pool, policy: policy, log: log}
}

// OnTransient registers a hook fired for every transient failure (metrics).
func (s *Store) OnTransient(fn func(op string)) { s.onTransient = fn }

func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) do(ctx context.Context, op string, fn func(context.Context) error) error {
	err := withRetry(ctx, s.policy, func(err error) {
		s.log.Warn("transient database error", "op", op, "err", err)
		if s.onTransient != nil {
			s.onTransient(op)
		}
	}, fn)
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return apperr.DataAccess(op, err)
}

func (s *Store) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	var tag pgconn.CommandTag
	err := s.do(ctx, "write", func(ctx context.Context) error {
		var err error
		tag, err = s.pool.Exec(ctx, sql, args...)
		return err
	})
	return tag, err
}

func (s *Store) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	var rows pgx.Rows
	err := s.do(ctx, "read", func(ctx context.Context) error {
		var err error
		rows, err = s.pool.Query(ctx, sql, args...)
		return err
	})
	return rows, err
}

func (s *Store) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &retriedRow{s: s, ctx: ctx, sql: sql, args: args}
}

// retriedRow defers execution to Scan so the whole round trip is retried.
type retriedRow struct {
	s    *Store
	ctx  context.Context
	sql  string
	args []any
}

func (r *retriedRow) Scan(dest ...any) error {
	return r.s.do(r.ctx, "read", func(ctx context.Context) error {
		return r.s.pool.QueryRow(ctx, r.sql, r.args...).Scan(dest...)
	})
}

// WithTx runs fn in one READ COMMITTED transaction. Any error from fn rolls
// everything back and is returned; validation and not-found errors pass
// through untouched, everything else becomes a DataAccessError.
func (s *Store) WithTx(ctx context.Context, fn func(q DBTX) error) error {
	var tx pgx.Tx
	err := s.do(ctx, "begin", func(ctx context.Context) error {
		var err error
		tx, err = s.pool.BeginTx(ctx, txOptions)
		return err
	})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return classifyTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.DataAccess("commit", err)
	}
	return nil
}

func classifyTxError(err error) error {
	if apperr.IsNotFound(err) {
		return err
	}
	if _, ok := apperr.AsValidation(err); ok {
		return err
	}
	return apperr.DataAccess("tx", err)
}
