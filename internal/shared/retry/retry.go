// Package retry executa chamadas ao upstream com tentativas limitadas e
// intervalo fixo entre elas.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/types"
)

// Classifier decides whether a failed attempt should be retried.
type Classifier func(error) bool

// Policy bounds the retry loop. The defaults mirror the upstream quota-reset
// window: up to 100 attempts spaced 70 seconds apart.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Classify    Classifier
}

// DefaultPolicy returns the uniform policy used in production.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 100,
		Delay:       70 * time.Second,
		Classify:    RetryAll,
	}
}

// PolicyFromConfig builds a Policy from the service configuration.
func PolicyFromConfig(cfg types.RetryConfig) Policy {
	p := Policy{
		MaxAttempts: cfg.MaxAttempts,
		Delay:       cfg.RetryDelay(),
		Classify:    RetryAll,
	}
	if cfg.Policy == "status" {
		p.Classify = RetryByStatus
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	return p
}

// RetryAll repete qualquer falha até esgotar o orçamento de tentativas.
// É o comportamento histórico do serviço.
func RetryAll(error) bool {
	return true
}

// RetryByStatus only retries failures marked retryable by the upstream client
// (429/5xx and network errors); auth failures and client errors are terminal.
func RetryByStatus(err error) bool {
	var authErr *types.AuthError
	if errors.As(err, &authErr) {
		return false
	}
	var ue *types.UpstreamError
	if errors.As(err, &ue) {
		return ue.Retryable
	}
	return false
}

// Run invokes op until it succeeds, the attempt budget is exhausted or ctx is
// canceled. On exhaustion the last observed failure is returned.
func Run(ctx context.Context, p Policy, logger *zap.Logger, op func() error) error {
	return RunWithTimer(ctx, p, logger, op, nil)
}

// RunWithTimer é o Run com um timer injetável, usado nos testes para não
// esperar o intervalo real entre tentativas.
func RunWithTimer(ctx context.Context, p Policy, logger *zap.Logger, op func() error, timer backoff.Timer) error {
	classify := p.Classify
	if classify == nil {
		classify = RetryAll
	}

	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !classify(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		logger.Warn("attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", next),
			zap.Error(err))
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(p.MaxAttempts-1)),
		ctx)
	return backoff.RetryNotifyWithTimer(wrapped, b, notify, timer)
}
