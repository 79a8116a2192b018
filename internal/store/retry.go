package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
)

// BackOffFactory builds a fresh backoff for each retried write
type BackOffFactory func() backoff.BackOff

// DefaultWriteBackOff retries a failed write for up to 30 seconds
func DefaultWriteBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 30 * time.Second
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5
	return b
}

// RetryWrite runs op until it succeeds, the backoff gives up or ctx is done.
// A missing token is final and returned as is.
func RetryWrite(ctx context.Context, newBackOff BackOffFactory, name string, op func() error) error {
	if newBackOff == nil {
		newBackOff = DefaultWriteBackOff
	}

	operation := func() error {
		err := op()
		if errors.Is(err, domain.ErrTokenNotFound) || errors.Is(err, context.Canceled) {
			return backoff.Permanent(err)
		}
		return err
	}

	var attemptCount int
	notifyOnError := func(err error, next time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Store write failed, retrying",
			zap.String("operation", name),
			zap.Error(err),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", next),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(newBackOff(), ctx), notifyOnError); err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return err
		}
		return fmt.Errorf("failed to %s after %d attempts: %w", name, attemptCount+1, err)
	}
	return nil
}
