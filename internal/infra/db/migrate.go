package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frostedfabrics/inventory-api/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

type gooseLogger struct{ log *slog.Logger }

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(fmt.Sprintf(format, v...), "component", "goose")
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...), "component", "goose")
}

// Migrate applies the embedded schema files. The first ping is retried per
// policy so a database that is still starting does not fail the run.
func Migrate(ctx context.Context, dsn string, policy RetryPolicy, log *slog.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	err = retryIf(ctx, policy, isPingTransient, func(err error) {
		log.Warn("database not reachable yet", "component", "goose", "err", err)
	}, sqlDB.PingContext)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return goose.UpContext(ctx, sqlDB, ".")
}
