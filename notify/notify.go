// Package notify provides optional desktop notifications for completed
// rotations. Disabled by default; interactive sessions enable it through
// configuration.
package notify

import "context"

// Notification is one message for the OS notification system.
type Notification struct {
	// Title is the notification title.
	Title string

	// Message is the notification body.
	Message string
}

// Notifier is the interface for notification backends.
type Notifier interface {
	// Send sends a notification. Failures are non-fatal to the caller.
	Send(ctx context.Context, notification Notification) error

	// IsAvailable returns true if notifications can be delivered.
	IsAvailable() bool
}

// Config contains notification configuration.
type Config struct {
	// AppName is the application name shown in notifications.
	AppName string

	// Enabled turns delivery on. When false, New returns a no-op notifier.
	Enabled bool
}

// New creates a Notifier for the configuration.
func New(config Config) Notifier {
	if !config.Enabled {
		return noopNotifier{}
	}
	if config.AppName == "" {
		config.AppName = "rotate"
	}
	return newBeeepNotifier(config)
}

// noopNotifier discards notifications.
type noopNotifier struct{}

func (noopNotifier) Send(context.Context, Notification) error { return nil }
func (noopNotifier) IsAvailable() bool                        { return false }
