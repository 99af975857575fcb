// Package alerts pkg/alerts/telegram.go implements the Telegram
// notification channel.

package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	defaultTelegramAPIBase = "https://api.telegram.org"
	notifyTimeout          = 10 * time.Second
)

// TelegramConfig configures the Telegram notifier. The notifier is
// enabled only when both BotToken and ChatID are set.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIBase  string // overrides the Telegram API base URL
}

// TelegramNotifier sends alert messages through the Telegram bot API.
type TelegramNotifier struct {
	config TelegramConfig
	client *http.Client
}

func NewTelegramNotifier(config TelegramConfig) *TelegramNotifier {
	if config.APIBase == "" {
		config.APIBase = defaultTelegramAPIBase
	}

	return &TelegramNotifier{
		config: config,
		client: &http.Client{
			Timeout: notifyTimeout,
		},
	}
}

// IsEnabled returns whether a bot token and chat are configured.
func (t *TelegramNotifier) IsEnabled() bool {
	return t.config.BotToken != "" && t.config.ChatID != ""
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send posts one message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, message string) error {
	if !t.IsEnabled() {
		log.Printf("Telegram not configured, skipping message")
		return ErrNotifierDisabled
	}

	payload, err := json.Marshal(telegramMessage{
		ChatID:    t.config.ChatID,
		Text:      message,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.config.APIBase, t.config.BotToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return fmt.Errorf("%w: status=%d body=%s", ErrTelegramStatus, resp.StatusCode, body)
	}

	return nil
}
