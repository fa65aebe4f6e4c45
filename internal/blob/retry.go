package blob

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultRetryAttempts = 3
	defaultRetryInterval = 200 * time.Millisecond
	maxRetryInterval     = 2 * time.Second
)

// RetryStore retries failed calls of a remote store with exponential
// backoff. ErrNotFound, ErrInvalidKey and context errors are returned at once.
type RetryStore struct {
	inner    Store
	attempts int
	initial  time.Duration
}

// NewRetryStore wraps inner. attempts counts the first call; values below 1
// and a zero interval take the defaults.
func NewRetryStore(inner Store, attempts int, initial time.Duration) *RetryStore {
	if attempts < 1 {
		attempts = defaultRetryAttempts
	}
	if initial <= 0 {
		initial = defaultRetryInterval
	}
	return &RetryStore{inner: inner, attempts: attempts, initial: initial}
}

func (r *RetryStore) do(ctx context.Context, op string, key string, fn func() error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.initial
	exp.MaxInterval = maxRetryInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.attempts-1)), ctx)
	return backoff.RetryNotify(func() error {
		err := fn()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		log.Printf("WARN blob: op=%s key=%s retry_in=%s: %v", op, key, wait, err)
	})
}

func retryable(err error) bool {
	return !errors.Is(err, ErrNotFound) &&
		!errors.Is(err, ErrInvalidKey) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

func (r *RetryStore) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	var n int64
	err := r.do(ctx, "put", key, func() error {
		var err error
		n, err = r.inner.PutObject(ctx, key, data, contentType)
		return err
	})
	return n, err
}

func (r *RetryStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := r.do(ctx, "get", key, func() error {
		var err error
		data, err = r.inner.GetObject(ctx, key)
		return err
	})
	return data, err
}

// PresignGet only signs locally, nothing to retry.
func (r *RetryStore) PresignGet(ctx context.Context, key string, ttlSeconds int) (string, error) {
	return r.inner.PresignGet(ctx, key, ttlSeconds)
}

func (r *RetryStore) DeleteObject(ctx context.Context, key string) error {
	return r.do(ctx, "delete", key, func() error {
		return r.inner.DeleteObject(ctx, key)
	})
}
