package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// Connect creates a Redis client and verifies connectivity with a ping, retrying with
// exponential backoff until RetryAttempts pings have failed or ConnectTimeout elapses.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client := redis.NewClient(opts)

	policy := backoff.NewExponentialBackOff()
	if cfg.RetryInterval > 0 {
		policy.InitialInterval = cfg.RetryInterval
	}
	policy.MaxElapsedTime = 0

	var retry backoff.BackOff = policy
	if cfg.RetryAttempts > 0 {
		retry = backoff.WithMaxRetries(policy, uint64(cfg.RetryAttempts-1))
	}

	err = backoff.Retry(func() error {
		return client.Ping(ctx).Err()
	}, backoff.WithContext(retry, ctx))
	if err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}

	return client, nil
}

// Healthcheck returns a function that pings Redis. Suitable for readiness checks.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
		}
		return nil
	}
}
