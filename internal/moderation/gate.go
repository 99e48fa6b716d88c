package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxAttempts bounds the classifier call to 3 total attempts on transient
// failure; the request itself is never mutated between attempts.
const maxAttempts = 3

// Analyzer is the classifier surface the gate needs.
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) (map[Category]Severity, error)
}

// Gate wraps the classifier with the moderation policy: flagged when any
// category scores at or above the threshold, bounded retry on transient
// failure, and fail-open when the classifier rejects our credentials.
type Gate struct {
	analyzer  Analyzer
	threshold Severity
	log       *slog.Logger

	retryInterval time.Duration
}

func NewGate(analyzer Analyzer, threshold Severity, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.Default()
	}
	if threshold <= 0 {
		threshold = SeverityLow
	}
	return &Gate{
		analyzer:      analyzer,
		threshold:     threshold,
		log:           log,
		retryInterval: 500 * time.Millisecond,
	}
}

// IsModerated reports whether text is flagged by the classifier. Auth
// failures deliberately pass the text through unflagged instead of blocking
// submissions; transient failures are retried and then propagated.
func (g *Gate) IsModerated(ctx context.Context, text string) (bool, error) {
	var scores map[Category]Severity

	operation := func() error {
		res, err := g.analyzer.AnalyzeText(ctx, text)
		if err != nil {
			var transient *TransientError
			if errors.As(err, &transient) {
				return err
			}
			return backoff.Permanent(err)
		}
		scores = res
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = g.retryInterval
	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, maxAttempts-1), ctx))
	if err != nil {
		var auth *AuthError
		if errors.As(err, &auth) {
			g.log.Warn("classifier auth failed, letting text through unmoderated", "error", err)
			return false, nil
		}
		return false, fmt.Errorf("moderation: analyze: %w", err)
	}

	for category, severity := range scores {
		if severity >= g.threshold {
			g.log.Debug("text flagged", "category", category, "severity", severity)
			return true, nil
		}
	}
	return false, nil
}
