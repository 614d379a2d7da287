package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/richxcame/giftcard-service/pkg/config"
	"github.com/richxcame/giftcard-service/pkg/resilience"
)

// Retryable SQLSTATE codes. Classes 53 and 57 are split on purpose:
// too_many_connections recovers on its own, disk_full does not.
var retryablePgCodes = map[string]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available
	"53000": {}, // insufficient_resources
	"53300": {}, // too_many_connections
	"53400": {}, // configuration_limit_exceeded
	"08000": {}, // connection_exception
	"08003": {}, // connection_does_not_exist
	"08006": {}, // connection_failure
	"57P01": {}, // admin_shutdown
	"57P02": {}, // crash_shutdown
	"57P03": {}, // cannot_connect_now
	"58000": {}, // system_error
	"XX000": {}, // internal_error
}

// Network-level failures surface as plain errors rather than PgErrors
var retryablePgMessages = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"network is unreachable",
	"temporary failure",
	"timeout",
	"too many connections",
	"server closed",
}

// isPostgresRetryable reports whether the error is worth another attempt.
// Unknown errors are NOT retried: replaying a statement whose failure we
// cannot classify risks duplicate writes.
func isPostgresRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := retryablePgCodes[pgErr.Code]
		return ok
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range retryablePgMessages {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// ConservativeRetryConfig retries a database operation once
func ConservativeRetryConfig() resilience.RetryConfig {
	cfg := resilience.ConservativeRetryConfig()
	cfg.RetryableChecker = isPostgresRetryable
	return cfg
}

// AggressiveRetryConfig retries a database operation up to five times
func AggressiveRetryConfig() resilience.RetryConfig {
	cfg := resilience.AggressiveRetryConfig()
	cfg.RetryableChecker = isPostgresRetryable
	return cfg
}

// resolveQueryTimeout returns the first positive timeout in seconds,
// falling back to the configured default.
func resolveQueryTimeout(timeoutSeconds ...int) int {
	if len(timeoutSeconds) > 0 && timeoutSeconds[0] > 0 {
		return timeoutSeconds[0]
	}
	return config.DefaultDatabaseQueryTimeout
}

// createStatementTimeoutCallback returns an AfterConnect hook that caps
// statement runtime on every pooled connection.
func createStatementTimeoutCallback(timeoutSeconds int) func(ctx context.Context, conn *pgx.Conn) error {
	return func(ctx context.Context, conn *pgx.Conn) error {
		// statement_timeout takes milliseconds
		_, err := conn.Exec(ctx, fmt.Sprintf("SET statement_timeout = %d", timeoutSeconds*1000))
		return err
	}
}
