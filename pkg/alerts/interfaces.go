// Package alerts pkg/alerts/interfaces.go

package alerts

import "context"

// Notifier delivers alert text to an external channel within a bounded
// timeout. A nil return means the message was delivered.
type Notifier interface {
	// Send delivers one message.
	Send(ctx context.Context, message string) error

	// IsEnabled returns whether a channel is configured.
	IsEnabled() bool
}
