package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/hvladder/internal/logger"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// SQLite caps bound parameters per statement; 50 rows of the widest table stay well below it.
const insertBatchSize = 50

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

// insertBatches runs insert once per chunk of n rows, adding the rows of each chunk with values.
func insertBatches(ctx context.Context, tx *sql.Tx, insert squirrel.InsertBuilder, n int, values func(i int) []interface{}) error {
	for start := 0; start < n; start += insertBatchSize {
		end := start + insertBatchSize
		if end > n {
			end = n
		}

		q := insert
		for i := start; i < end; i++ {
			q = q.Values(values(i)...)
		}

		query, args, err := q.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}
