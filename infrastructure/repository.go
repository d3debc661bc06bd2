package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"social/internal/logging"
)

// TimeOperation executes an operation and logs its execution time
func TimeOperation(ctx context.Context, name string, operation func() error) error {
	start := time.Now()
	err := operation()
	elapsed := time.Since(start)

	logger := logging.Ctx(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("operation", name).Dur("elapsed", elapsed).Msg("operation failed")
		return err
	}
	logger.Debug().Str("operation", name).Dur("elapsed", elapsed).Msg("operation completed")
	return nil
}

// WithTransaction handles a database transaction and executes the given operation.
// The transaction is committed when operation returns nil and rolled back otherwise.
func WithTransaction(db *sql.DB, ctx context.Context, operation func(*sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p) // re-throw panic after Rollback
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Ctx(ctx).Error().Err(rbErr).Msg("error while rolling back transaction")
			}
		} else {
			err = tx.Commit()
		}
	}()

	err = operation(tx)
	return err
}

// RequireAffected turns a zero-row update result into failed.
func RequireAffected(result sql.Result, failed error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return failed
	}
	return nil
}
