package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramNotifierDisabled(t *testing.T) {
	tests := []struct {
		name   string
		config TelegramConfig
	}{
		{"nothing configured", TelegramConfig{}},
		{"missing chat id", TelegramConfig{BotToken: "tok"}},
		{"missing bot token", TelegramConfig{ChatID: "42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := NewTelegramNotifier(tt.config)
			assert.False(t, notifier.IsEnabled())

			err := notifier.Send(context.Background(), "hello")
			assert.ErrorIs(t, err, ErrNotifierDisabled)
		})
	}
}

func TestTelegramNotifierSend(t *testing.T) {
	var got telegramMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, err := w.Write([]byte(`{"ok":true}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	notifier := NewTelegramNotifier(TelegramConfig{
		BotToken: "test-token",
		ChatID:   "42",
		APIBase:  server.URL,
	})
	require.True(t, notifier.IsEnabled())

	err := notifier.Send(context.Background(), "🚨 alert text")
	require.NoError(t, err)

	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "🚨 alert text", got.Text)
	assert.Equal(t, "Markdown", got.ParseMode)
}

func TestTelegramNotifierNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ok":false,"description":"bad request"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	notifier := NewTelegramNotifier(TelegramConfig{
		BotToken: "test-token",
		ChatID:   "42",
		APIBase:  server.URL,
	})

	err := notifier.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTelegramStatus)
	assert.Contains(t, err.Error(), "bad request")
}

func TestTelegramNotifierConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	notifier := NewTelegramNotifier(TelegramConfig{
		BotToken: "test-token",
		ChatID:   "42",
		APIBase:  server.URL,
	})

	err := notifier.Send(context.Background(), "hello")
	assert.Error(t, err)
}
