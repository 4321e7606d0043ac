package notify

import (
	"context"

	"github.com/gen2brain/beeep"
)

// beeepNotifier implements Notifier using the cross-platform beeep library.
type beeepNotifier struct {
	config Config
}

func newBeeepNotifier(config Config) Notifier {
	beeep.AppName = config.AppName
	return &beeepNotifier{config: config}
}

// Send sends a notification using beeep.
func (n *beeepNotifier) Send(_ context.Context, notification Notification) error {
	return beeep.Notify(notification.Title, notification.Message, "")
}

// IsAvailable returns true since beeep handles platform detection internally.
func (n *beeepNotifier) IsAvailable() bool {
	return true
}
