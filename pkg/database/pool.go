package database

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richxcame/giftcard-service/pkg/config"
	"github.com/richxcame/giftcard-service/pkg/resilience"
)

// DBPool groups a primary pool with optional read replicas and an
// optional circuit breaker around their operations.
type DBPool struct {
	Primary  *pgxpool.Pool
	Replicas []*pgxpool.Pool

	breaker *resilience.CircuitBreaker
	next    uint64
}

// NewDBPool connects the primary pool and, when enabled in config,
// wraps it with a circuit breaker named after the service.
func NewDBPool(cfg *config.DatabaseConfig, serviceName string) (*DBPool, error) {
	primary, err := NewPostgresPool(cfg)
	if err != nil {
		return nil, err
	}

	pool := &DBPool{Primary: primary}
	if cfg.Breaker.Enabled {
		settings := resilience.BuildSettings(
			sanitizeBreakerName(serviceName)+"-db",
			cfg.Breaker.IntervalSeconds,
			cfg.Breaker.TimeoutSeconds,
			max(cfg.Breaker.FailureThreshold, 1),
			cfg.Breaker.SuccessThreshold,
		)
		pool.breaker = resilience.NewCircuitBreaker(settings, nil)
	}
	return pool, nil
}

// GetPrimary returns the read-write pool
func (p *DBPool) GetPrimary() *pgxpool.Pool {
	return p.Primary
}

// GetReplica returns the next replica in round-robin order, or the
// primary when no replicas are configured.
func (p *DBPool) GetReplica() *pgxpool.Pool {
	if len(p.Replicas) == 0 {
		return p.Primary
	}
	idx := atomic.AddUint64(&p.next, 1)
	return p.Replicas[idx%uint64(len(p.Replicas))]
}

// Execute runs the operation through the breaker when one is configured
func (p *DBPool) Execute(ctx context.Context, op resilience.Operation) (interface{}, error) {
	if p.breaker == nil {
		return op(ctx)
	}
	return p.breaker.Execute(ctx, op)
}

// Close closes the primary and every replica pool
func (p *DBPool) Close() {
	if p.Primary != nil {
		p.Primary.Close()
	}
	for _, replica := range p.Replicas {
		if replica != nil {
			replica.Close()
		}
	}
}

// sanitizeBreakerName normalizes a service name into a metric-safe label
func sanitizeBreakerName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
