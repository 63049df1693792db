package storage

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"syscall"
	"time"
)

const (
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = 500 * time.Millisecond
	DefaultMaxBackoff     = 10 * time.Second
	DefaultBackoffFactor  = 2.0
	DefaultJitterFactor   = 0.1
)

// RetryConfig holds retry behavior for remote locations
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	JitterFactor   float64
}

// DefaultRetryConfig returns retry configuration with sensible defaults
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:     DefaultMaxRetries,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
		BackoffFactor:  DefaultBackoffFactor,
		JitterFactor:   DefaultJitterFactor,
	}
}

// IsRetriable reports whether a failed remote operation may succeed when repeated.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, context.DeadlineExceeded)
}

// CalculateBackoff computes exponential backoff with jitter
func (rc *RetryConfig) CalculateBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	backoff := float64(rc.InitialBackoff) * math.Pow(rc.BackoffFactor, float64(attempt))
	if backoff > float64(rc.MaxBackoff) {
		backoff = float64(rc.MaxBackoff)
	}

	// backoff * (1 +/- jitterFactor)
	backoff += backoff * rc.JitterFactor * (2*rand.Float64() - 1)
	if backoff < 0 {
		backoff = float64(rc.InitialBackoff)
	}

	return time.Duration(backoff)
}

// RetryStore repeats failed operations on remote locations. Local paths
// pass straight through to the wrapped store.
type RetryStore struct {
	Store
	config *RetryConfig
}

// NewRetryStore wraps store with retries; a nil config uses the defaults.
func NewRetryStore(store Store, config *RetryConfig) *RetryStore {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &RetryStore{Store: store, config: config}
}

// ReadAll implements Store
func (s *RetryStore) ReadAll(ctx context.Context, path string) ([]byte, error) {
	var data []byte
	err := s.do(ctx, path, func() error {
		var err error
		data, err = s.Store.ReadAll(ctx, path)
		return err
	})
	return data, err
}

// WriteAll implements Store
func (s *RetryStore) WriteAll(ctx context.Context, path string, data []byte) error {
	return s.do(ctx, path, func() error {
		return s.Store.WriteAll(ctx, path, data)
	})
}

// Exists implements Store
func (s *RetryStore) Exists(ctx context.Context, path string) (bool, error) {
	var ok bool
	err := s.do(ctx, path, func() error {
		var err error
		ok, err = s.Store.Exists(ctx, path)
		return err
	})
	return ok, err
}

func (s *RetryStore) do(ctx context.Context, path string, op func() error) error {
	err := op()
	if !IsURL(path) {
		return err
	}
	for attempt := 0; attempt < s.config.MaxRetries && IsRetriable(err); attempt++ {
		timer := time.NewTimer(s.config.CalculateBackoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		err = op()
	}
	return err
}
