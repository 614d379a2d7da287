package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/richxcame/giftcard-service/pkg/config"
)

// IdentityType distinguishes anonymous callers from authenticated users
type IdentityType int

const (
	// IdentityAnonymous identifies callers by client IP
	IdentityAnonymous IdentityType = iota
	// IdentityAuthenticated identifies callers by user ID
	IdentityAuthenticated
)

// slidingWindowScript counts requests in a rolling window using a sorted set.
// Returns {allowed, remaining, retry_after_ms, reset_after_ms}.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  redis.call('PEXPIRE', key, math.ceil(window))
  return {1, limit - count - 1, 0, math.ceil(window)}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local retry = 0
if oldest[2] then
  retry = math.ceil(tonumber(oldest[2]) + window - now)
  if retry < 0 then retry = 0 end
end
return {0, 0, retry, retry}
`

// Rule is the effective limit applied to a single request
type Rule struct {
	Limit  int
	Burst  int
	Window time.Duration
}

// Result describes the outcome of a rate limit check
type Result struct {
	Allowed      bool
	Remaining    int
	RetryAfter   time.Duration
	Limit        int
	Window       time.Duration
	ResetAfter   time.Duration
	IdentityKey  string
	EndpointKey  string
	IdentityType IdentityType
}

// Limiter is a Redis-backed sliding window rate limiter
type Limiter struct {
	client *redis.Client
	script *redis.Script
	cfg    config.RateLimitConfig
	now    func() time.Time
}

// NewLimiter creates a limiter using the given Redis client and configuration
func NewLimiter(client *redis.Client, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		script: redis.NewScript(slidingWindowScript),
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithNow overrides the limiter's clock, for tests
func (l *Limiter) WithNow(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// RuleFor resolves the limit rule for an endpoint and identity class,
// applying per-endpoint overrides over the configured defaults.
func (l *Limiter) RuleFor(endpoint string, identity IdentityType) Rule {
	rule := Rule{
		Limit:  l.cfg.DefaultLimit,
		Burst:  l.cfg.DefaultBurst,
		Window: l.cfg.Window(),
	}
	if identity == IdentityAnonymous {
		rule.Limit = l.cfg.AnonymousLimit
		rule.Burst = l.cfg.AnonymousBurst
	}

	if override, ok := l.cfg.EndpointOverrides[endpoint]; ok {
		switch identity {
		case IdentityAuthenticated:
			if override.AuthenticatedLimit > 0 {
				rule.Limit = override.AuthenticatedLimit
			}
			rule.Burst = override.AuthenticatedBurst
		case IdentityAnonymous:
			if override.AnonymousLimit > 0 {
				rule.Limit = override.AnonymousLimit
			}
			rule.Burst = override.AnonymousBurst
		}
		if w := override.Window(); w > 0 {
			rule.Window = w
		}
	}

	if rule.Burst < 0 {
		rule.Burst = 0
	}
	return rule
}

// Allow checks whether the identity may perform another request on the endpoint.
// A disabled limiter or a non-positive limit always allows the request.
func (l *Limiter) Allow(ctx context.Context, endpoint, identity string, rule Rule, identityType IdentityType) (Result, error) {
	result := Result{
		Allowed:      true,
		Remaining:    rule.Limit,
		Limit:        rule.Limit,
		Window:       rule.Window,
		IdentityKey:  identity,
		EndpointKey:  endpoint,
		IdentityType: identityType,
	}

	if !l.cfg.Enabled || rule.Limit <= 0 {
		return result, nil
	}

	window := rule.Window
	if window <= 0 {
		window = l.cfg.Window()
	}

	key := fmt.Sprintf("%s:%s:%s", l.cfg.RedisPrefix, endpoint, identity)
	nowMs := float64(l.now().UnixNano()) / float64(time.Millisecond)
	member := formatFloat(nowMs) + ":" + identity

	raw, err := l.script.Run(ctx, l.client,
		[]string{key},
		formatFloat(nowMs),
		formatFloat(float64(window.Milliseconds())),
		rule.Limit+rule.Burst,
		member,
	).Result()
	if err != nil {
		// Fail open: a Redis outage must not take down the API
		return result, err
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) < 4 {
		return result, fmt.Errorf("unexpected rate limit script reply: %v", raw)
	}

	result.Allowed = toInt(values[0]) == 1
	result.Remaining = toInt(values[1])
	result.RetryAfter = time.Duration(toFloat(values[2])) * time.Millisecond
	result.ResetAfter = time.Duration(toFloat(values[3])) * time.Millisecond
	return result, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 10, 64)
}

func toInt(v interface{}) int {
	switch value := v.(type) {
	case int64:
		return int(value)
	case int:
		return value
	case float64:
		return int(value)
	case string:
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return 0
}

func toFloat(v interface{}) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case int64:
		return float64(value)
	case int:
		return float64(value)
	case string:
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return 0
}
