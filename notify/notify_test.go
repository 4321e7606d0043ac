package notify

import (
	"context"
	"testing"
)

func TestDisabledConfigReturnsNoop(t *testing.T) {
	n := New(Config{Enabled: false})
	if n.IsAvailable() {
		t.Error("IsAvailable() = true for disabled notifier")
	}
	if err := n.Send(context.Background(), Notification{Title: "t", Message: "m"}); err != nil {
		t.Errorf("noop Send() error = %v", err)
	}
}

func TestEnabledConfigReturnsBeeep(t *testing.T) {
	n := New(Config{Enabled: true, AppName: "rotate"})
	if !n.IsAvailable() {
		t.Error("IsAvailable() = false for beeep notifier")
	}
	if _, ok := n.(*beeepNotifier); !ok {
		t.Errorf("New() returned %T, want *beeepNotifier", n)
	}
}
