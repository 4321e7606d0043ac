// Copyright (c) Picsafe. All rights reserved.
// Licensed under the MIT License.

package selection

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeSelector is a scripted Selector double.
type fakeSelector struct {
	path  string
	ok    bool
	err   error
	calls int
}

func (f *fakeSelector) Current(context.Context) (string, bool, error) {
	f.calls++
	return f.path, f.ok, f.err
}

// unguarded returns a Guarded with limits loose enough to stay out of the way.
func unguarded(inner Selector) *Guarded {
	return NewGuarded(inner, GuardOptions{
		QueriesPerSecond: 1000,
		Burst:            1000,
		FailureThreshold: 3,
		Cooldown:         time.Minute,
	})
}

func TestGuardedPassesThroughSelection(t *testing.T) {
	inner := &fakeSelector{path: "/photos/a.jpg", ok: true}
	g := unguarded(inner)

	path, ok, err := g.Current(context.Background())
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if !ok || path != "/photos/a.jpg" {
		t.Errorf("Current() = %q, %v", path, ok)
	}
}

func TestGuardedPassesThroughNoSelection(t *testing.T) {
	g := unguarded(&fakeSelector{})

	path, ok, err := g.Current(context.Background())
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if ok || path != "" {
		t.Errorf("Current() = %q, %v; want empty, false", path, ok)
	}
}

func TestGuardedRateLimitsBursts(t *testing.T) {
	inner := &fakeSelector{path: "/photos/a.jpg", ok: true}
	g := NewGuarded(inner, GuardOptions{
		QueriesPerSecond: 0.001, // effectively no refill during the test
		Burst:            2,
		FailureThreshold: 3,
		Cooldown:         time.Minute,
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, _, err := g.Current(ctx); err != nil {
			t.Fatalf("query %d error = %v", i, err)
		}
	}

	_, _, err := g.Current(ctx)
	if err == nil {
		t.Fatal("third rapid query succeeded, want rate limit error")
	}
	if !strings.Contains(err.Error(), "too frequently") {
		t.Errorf("error = %v, want rate limit message", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner selector called %d times, want 2", inner.calls)
	}
}

func TestGuardedBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &fakeSelector{err: errors.New("osascript: connection refused")}
	g := unguarded(inner)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, _, err := g.Current(ctx); err == nil {
			t.Fatalf("query %d succeeded, want failure", i)
		}
	}

	// The breaker is now open; the inner selector must not be reached.
	before := inner.calls
	_, _, err := g.Current(ctx)
	if err == nil {
		t.Fatal("query with open breaker succeeded, want error")
	}
	if !strings.Contains(err.Error(), "suspended") {
		t.Errorf("error = %v, want suspension message", err)
	}
	if inner.calls != before {
		t.Errorf("inner selector reached %d extra times with open breaker", inner.calls-before)
	}
}

func TestGuardedDirectorySelectionDoesNotTripBreaker(t *testing.T) {
	inner := &fakeSelector{err: ErrNotAFile}
	g := unguarded(inner)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, _, err := g.Current(ctx)
		if !errors.Is(err, ErrNotAFile) {
			t.Fatalf("query %d error = %v, want ErrNotAFile", i, err)
		}
	}
	if inner.calls != 10 {
		t.Errorf("inner selector called %d times, want all 10 to pass through", inner.calls)
	}
}
