package fetch

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	retryAttempts  = 3
	retryBaseDelay = 2 * time.Second
)

// Retrier wraps scrape fetches against block-prone targets with bounded
// retries. Attempt 0 always goes direct; attempt k waits baseDelay*k first
// and, when the pool has proxies, reroutes through the next one in rotation.
// Exhausting all attempts surfaces the last error.
type Retrier struct {
	client    *Client
	pool      *ProxyPool
	attempts  uint
	baseDelay time.Duration
}

// NewRetrier builds a retrier with the standard 3-attempt, 2s-step policy.
func NewRetrier(client *Client, pool *ProxyPool) *Retrier {
	return NewRetrierWithPolicy(client, pool, retryAttempts, retryBaseDelay)
}

// NewRetrierWithPolicy builds a retrier with an explicit attempt count and
// backoff step.
func NewRetrierWithPolicy(client *Client, pool *ProxyPool, attempts uint, baseDelay time.Duration) *Retrier {
	if pool == nil {
		pool = &ProxyPool{}
	}
	if attempts == 0 {
		attempts = 1
	}
	return &Retrier{
		client:    client,
		pool:      pool,
		attempts:  attempts,
		baseDelay: baseDelay,
	}
}

// Do fetches the target with the retry/proxy policy applied.
func (r *Retrier) Do(ctx context.Context, t Target) ([]byte, error) {
	var payload []byte
	attempt := 0

	err := retry.Do(
		func() error {
			var proxy *url.URL
			if attempt > 0 {
				if proxy = r.pool.Next(); proxy != nil {
					log.Printf("[retry] attempt %d for %s via proxy %s", attempt, t.URL, proxy.Host)
				}
			}
			attempt++

			body, err := r.client.DoVia(ctx, t, proxy)
			if err != nil {
				return err
			}
			payload = body
			return nil
		},
		retry.Attempts(r.attempts),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		// Linear backoff per the blocking sites' observed cool-off: the k-th
		// retry waits k*baseDelay before firing.
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return time.Duration(n+1) * r.baseDelay
		}),
		retry.RetryIf(func(err error) bool {
			// A definitive empty answer is not worth retrying.
			return err != ErrNoMatch
		}),
	)
	if err != nil {
		return nil, err
	}
	return payload, nil
}
