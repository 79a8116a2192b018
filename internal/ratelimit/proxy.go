package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/tg-mention-indexer/internal/config"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
)

// ErrProxyClosed is returned by Request after Close
var ErrProxyClosed = errors.New("rate limit proxy is closed")

// RequestFunc is a function that performs the actual API request
type RequestFunc func(ctx context.Context) (interface{}, error)

type requestResult struct {
	value interface{}
	err   error
}

// Proxy defines the interface for rate-limiting proxy
//
//go:generate mockgen -source=proxy.go -destination=../mocks/ratelimit_proxy.go -package=mocks -mock_names=Proxy=MockRateLimitProxy
type Proxy interface {
	// Request waits for a token of the provider's budget and runs fn
	Request(ctx context.Context, providerName string, fn RequestFunc) (interface{}, error)

	// Close gracefully shuts down the proxy
	Close() error
}

type proxy struct {
	pool      pond.ResultPool[*requestResult]
	limiters  map[string]*providerLimiter
	closed    atomic.Bool
	closeOnce sync.Once
}

type providerLimiter struct {
	name    string
	config  config.RateLimitConfig
	limiter *rate.Limiter
}

// NewProxy creates a new in-process rate-limiting proxy.
// maxWorkers bounds the number of provider calls in flight across all providers.
func NewProxy(cfg config.RateLimiterConfig, maxWorkers int) (Proxy, error) {
	providers, err := validateConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	limiters := make(map[string]*providerLimiter, len(providers))
	for name, providerConfig := range providers {
		limiters[name] = &providerLimiter{
			name:    name,
			config:  providerConfig,
			limiter: rate.NewLimiter(rate.Limit(providerConfig.RequestsPerSecond), providerConfig.Burst),
		}
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * 4
	}

	logger.Info("Rate limit proxy initialized",
		zap.Int("max_workers", maxWorkers),
		zap.Int("providers", len(limiters)),
	)

	return &proxy{
		pool:     pond.NewResultPool[*requestResult](maxWorkers),
		limiters: limiters,
	}, nil
}

// Request submits a rate-limited request and returns the result with type safety.
// A nil proxy runs fn directly.
func Request[T any](ctx context.Context, p Proxy, providerName string, fn func(ctx context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}

	var zero T
	result, err := p.Request(ctx, providerName, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

// Request blocks until a token is acquired and fn completes, the context is canceled,
// or the provider's maximum queue time passes while waiting for a token
func (p *proxy) Request(ctx context.Context, providerName string, fn RequestFunc) (interface{}, error) {
	if p.closed.Load() {
		return nil, ErrProxyClosed
	}

	limiter, ok := p.limiters[providerName]
	if !ok {
		return nil, fmt.Errorf("provider '%s' not configured", providerName)
	}

	task := p.pool.Submit(func() *requestResult {
		if err := limiter.wait(ctx); err != nil {
			return &requestResult{err: err}
		}
		value, err := fn(ctx)
		return &requestResult{value: value, err: err}
	})

	result, err := task.Wait()
	if err != nil {
		return nil, err
	}
	return result.value, result.err
}

// wait acquires a token, giving up after MaxQueueTime
func (l *providerLimiter) wait(ctx context.Context) error {
	queueCtx, cancel := context.WithTimeout(ctx, l.config.MaxQueueTime)
	defer cancel()

	if err := l.limiter.Wait(queueCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("Rate limit queue time exceeded",
			zap.String("provider", l.name),
			zap.Duration("max_queue_time", l.config.MaxQueueTime))
		return fmt.Errorf("provider %s: rate limit wait: %w", l.name, err)
	}
	return nil
}

// Close stops accepting requests and waits for in-flight ones
func (p *proxy) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		logger.Info("Shutting down rate limit proxy")

		if waitErr := p.pool.Stop().Wait(); waitErr != nil {
			logger.Warn("Error waiting for pool tasks to complete", zap.Error(waitErr))
			err = waitErr
		}
	})
	return err
}

// validateConfig returns a copy of the providers with defaults applied
func validateConfig(cfg config.RateLimiterConfig) (map[string]config.RateLimitConfig, error) {
	if len(cfg.Providers) == 0 {
		return nil, fmt.Errorf("at least one provider must be configured")
	}

	providers := make(map[string]config.RateLimitConfig, len(cfg.Providers))
	for name, provider := range cfg.Providers {
		if provider.RequestsPerSecond <= 0 {
			return nil, fmt.Errorf("provider %s: requests_per_second must be positive", name)
		}
		if provider.Burst <= 0 {
			provider.Burst = provider.RequestsPerSecond
		}
		if provider.MaxQueueTime <= 0 {
			provider.MaxQueueTime = time.Minute
		}
		providers[name] = provider
	}

	return providers, nil
}
