package alerts

import "errors"

var (
	// ErrNotifierDisabled is returned by a notifier that has no channel
	// configured; the state machine treats it as a failed send.
	ErrNotifierDisabled = errors.New("notifier is disabled")

	// ErrTelegramStatus is returned when the Telegram API responds with
	// a non-200 status.
	ErrTelegramStatus = errors.New("telegram API returned non-200 status")
)
