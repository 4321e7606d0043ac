// Copyright (c) Picsafe. All rights reserved.
// Licensed under the MIT License.

package selection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/picsafe/rotate/logutil"
)

// Guard defaults. A user mashing enter on a bare direction should not pile
// up osascript processes, and a broken scripting bridge should fail fast
// instead of eating the full timeout on every attempt.
const (
	defaultQueriesPerSecond = 1.0
	defaultBurst            = 2
	defaultFailureThreshold = 3
	defaultCooldown         = 30 * time.Second
)

// GuardOptions tunes the rate limiter and circuit breaker.
type GuardOptions struct {
	QueriesPerSecond float64
	Burst            int
	FailureThreshold uint32
	Cooldown         time.Duration
}

// Guarded wraps a Selector with a token-bucket rate limit and a circuit
// breaker over consecutive query failures.
type Guarded struct {
	inner   Selector
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     *logutil.ComponentLogger
}

// NewGuarded wraps inner with guard policies.
func NewGuarded(inner Selector, opts GuardOptions) *Guarded {
	if opts.QueriesPerSecond <= 0 {
		opts.QueriesPerSecond = defaultQueriesPerSecond
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = defaultFailureThreshold
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = defaultCooldown
	}

	log := logutil.NewLogger("selection")

	settings := gobreaker.Settings{
		Name:        "file-manager-selection",
		MaxRequests: 1,
		Timeout:     opts.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("selection breaker state change", "from", from.String(), "to", to.String())
		},
		// A directory selection is the user's mistake, not a bridge
		// failure; it must not trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotAFile)
		},
	}

	return &Guarded{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(opts.QueriesPerSecond), opts.Burst),
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
	}
}

type selectionResult struct {
	path string
	ok   bool
}

// Current queries the inner selector subject to the guard policies.
func (g *Guarded) Current(ctx context.Context) (string, bool, error) {
	if !g.limiter.Allow() {
		return "", false, fmt.Errorf("selection queried too frequently, wait a moment and retry")
	}

	v, err := g.breaker.Execute(func() (interface{}, error) {
		path, ok, err := g.inner.Current(ctx)
		if err != nil {
			return nil, err
		}
		return selectionResult{path: path, ok: ok}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return "", false, fmt.Errorf("selection queries suspended after repeated failures, retrying in up to %s", defaultCooldown)
		}
		return "", false, err
	}

	res := v.(selectionResult)
	return res.path, res.ok, nil
}
