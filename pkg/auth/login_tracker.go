package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // Maximum failed attempts before block (default: 5)
	AttemptWindow time.Duration // Time window for tracking attempts (default: 15min)
	BlockDuration time.Duration // How long to block after max attempts (default: 15min)
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// Redis key patterns
const (
	failLoginPrefix    = "fail:login:admin:"
	blockedLoginPrefix = "blocked:login:admin:"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: current count after increment
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// LoginTracker counts failed admin logins per username and blocks the
// username once MaxAttempts is reached. A nil client disables tracking.
type LoginTracker struct {
	config LoginTrackerConfig
	client *goredis.Client
}

func NewLoginTracker(client *goredis.Client, config LoginTrackerConfig) *LoginTracker {
	defaults := DefaultLoginTrackerConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = defaults.AttemptWindow
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = defaults.BlockDuration
	}
	return &LoginTracker{config: config, client: client}
}

// BlockDuration is how long a username stays blocked.
func (lt *LoginTracker) BlockDuration() time.Duration {
	return lt.config.BlockDuration
}

// IsBlocked reports whether username is currently blocked.
func (lt *LoginTracker) IsBlocked(ctx context.Context, username string) (bool, error) {
	if lt == nil || lt.client == nil {
		return false, nil
	}
	exists, err := lt.client.Exists(ctx, blockedLoginPrefix+username).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	return exists > 0, nil
}

// RecordFailure counts one failed attempt and blocks the username when the
// limit is reached. It returns the attempt count and whether a block was set.
func (lt *LoginTracker) RecordFailure(ctx context.Context, username string) (int, bool, error) {
	if lt == nil || lt.client == nil {
		return 0, false, nil
	}

	ttlSeconds := int(lt.config.AttemptWindow.Seconds())
	result, err := lt.client.Eval(ctx, incrWithTTLScript, []string{failLoginPrefix + username}, ttlSeconds).Result()
	if err != nil {
		return 0, false, fmt.Errorf("failed to increment login failures: %w", err)
	}
	count, ok := result.(int64)
	if !ok {
		return 0, false, errors.New("unexpected result type from Lua script")
	}

	if int(count) < lt.config.MaxAttempts {
		return int(count), false, nil
	}
	if err := lt.client.Set(ctx, blockedLoginPrefix+username, "1", lt.config.BlockDuration).Err(); err != nil {
		return int(count), false, fmt.Errorf("failed to set login block: %w", err)
	}
	return int(count), true, nil
}

// Reset clears the failure counter after a successful login.
func (lt *LoginTracker) Reset(ctx context.Context, username string) error {
	if lt == nil || lt.client == nil {
		return nil
	}
	if err := lt.client.Del(ctx, failLoginPrefix+username).Err(); err != nil {
		return fmt.Errorf("failed to clear login failures: %w", err)
	}
	return nil
}

// RemainingAttempts returns how many attempts remain before a block.
func (lt *LoginTracker) RemainingAttempts(ctx context.Context, username string) (int, error) {
	if lt == nil || lt.client == nil {
		return lt.maxAttempts(), nil
	}
	count, err := lt.client.Get(ctx, failLoginPrefix+username).Int()
	if errors.Is(err, goredis.Nil) {
		return lt.config.MaxAttempts, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get attempt count: %w", err)
	}
	remaining := lt.config.MaxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (lt *LoginTracker) maxAttempts() int {
	if lt == nil {
		return DefaultLoginTrackerConfig().MaxAttempts
	}
	return lt.config.MaxAttempts
}
