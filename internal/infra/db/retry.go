package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
)

// RetryPolicy bounds how often a call is repeated after a transient
// connection failure. Attempts counts retries, not the first try.
type RetryPolicy struct {
	Attempts uint64
	Delay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: time.Second}
}

func (p RetryPolicy) backoff() retry.Backoff {
	delay := p.Delay
	if delay <= 0 {
		delay = time.Second
	}
	return retry.WithMaxRetries(p.Attempts, retry.NewConstant(delay))
}

// IsTransient reports whether err is a connection-level failure that is
// safe to repeat: nothing reached the server, the connection could not be
// established, or the server refused new connections.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"): // connection_exception
			return true
		case pgErr.Code == "53300", pgErr.Code == "57P03": // too_many_connections, cannot_connect_now
			return true
		}
		return false
	}

	return pgconn.SafeToRetry(err)
}

// isPingTransient widens IsTransient with the network and bad-connection
// errors database/sql reports. Only for pings, which are safe to repeat
// however far they got.
func isPingTransient(err error) bool {
	if IsTransient(err) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// withRetry runs fn, repeating it while it fails transiently. onTransient
// is called for every transient failure, including the last one.
func withRetry(ctx context.Context, p RetryPolicy, onTransient func(error), fn func(context.Context) error) error {
	return retryIf(ctx, p, IsTransient, onTransient, fn)
}

func retryIf(ctx context.Context, p RetryPolicy, transient func(error) bool, onTransient func(error), fn func(context.Context) error) error {
	return retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && transient(err) {
			if onTransient != nil {
				onTransient(err)
			}
			return retry.RetryableError(err)
		}
		return err
	})
}

// IsForeignKeyViolation reports a write rejected because a referenced row
// is missing (SQLSTATE 23503).
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// IsCheckViolation reports a write rejected by a CHECK constraint (23514).
func IsCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}
