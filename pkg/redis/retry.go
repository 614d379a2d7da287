package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/richxcame/giftcard-service/pkg/logger"
	"github.com/richxcame/giftcard-service/pkg/resilience"
)

// Permanent failures: command, type, and auth errors never recover on retry
var nonRetryableRedisPatterns = []string{
	"wrongtype",
	"err syntax",
	"err invalid",
	"noauth",
	"wrongpass",
	"noperm",
	"err unknown",
	"execabort",
}

// Transient failures: network drops, pool pressure, server state, and
// cluster topology changes
var retryableRedisPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"network is unreachable",
	"temporary failure",
	"timeout",
	"server closed",
	"unexpected eof",
	"pool timeout",
	"i/o timeout",
	"connection pool exhausted",
	"loading",
	"busy",
	"masterdown",
	"readonly",
	"noscript",
	"cluster",
	"moved",
	"ask",
	"tryagain",
	"clusterdown",
}

// isRedisRetryable reports whether the error is worth another attempt.
// Unlike the database checker this defaults to retryable: cache reads
// are idempotent, so an unclassified failure costs one extra round trip
// at worst.
func isRedisRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// A missing key is an answer, not a failure
	if errors.Is(err, redis.Nil) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range nonRetryableRedisPatterns {
		if strings.Contains(msg, pattern) {
			return false
		}
	}
	for _, pattern := range retryableRedisPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return true
}

// ConservativeRetryConfig retries a cache operation once with short backoff
func ConservativeRetryConfig() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:       2,
		InitialBackoff:    50 * time.Millisecond,
		MaxBackoff:        1 * time.Second,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
		RetryableChecker:  isRedisRetryable,
	}
}

// AggressiveRetryConfig retries a cache operation up to four times with
// very short backoff, for hot paths that prefer a stale miss over latency.
func AggressiveRetryConfig() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:       4,
		InitialBackoff:    20 * time.Millisecond,
		MaxBackoff:        500 * time.Millisecond,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
		RetryableChecker:  isRedisRetryable,
	}
}

// RetryableOperation runs a typed cache operation under the conservative
// retry policy. The name labels the operation in logs.
func RetryableOperation[T any](ctx context.Context, op func(ctx context.Context) (T, error), name string) (T, error) {
	result, err := resilience.Retry(ctx, ConservativeRetryConfig(), func(ctx context.Context) (interface{}, error) {
		return op(ctx)
	})
	if err != nil {
		logger.Debug("redis operation failed after retries",
			zap.String("operation", name),
			zap.Error(err),
		)
		var zero T
		return zero, err
	}
	return result.(T), nil
}
