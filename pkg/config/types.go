package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	errInvalidDuration     = errors.New("invalid duration")
	errHostRequired        = errors.New("host is required")
	errPasswordRequired    = errors.New("password is required")
	errSensorsRequired     = errors.New("at least one sensor is required")
	errNonPositiveInterval = errors.New("poll_interval must be positive")
)

// Default values applied by Validate.
const (
	DefaultPollInterval        = 90 * time.Second
	DefaultListenAddr          = ":8080"
	DefaultDBPath              = "/var/lib/airqmon/airqmon.db"
	DefaultAlertMetric         = "health"
	DefaultAlertThreshold      = 100
	DefaultMinConsecutivePolls = 3
	DefaultAlertCooldown       = 30 * time.Minute
)

type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

// TelegramConfig configures the notification channel. Both fields must
// be set for alerting to be enabled; otherwise all sends are no-ops.
type TelegramConfig struct {
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
}

// AlertConfig configures the hysteresis alerting on one health metric.
type AlertConfig struct {
	Metric              string         `json:"metric"`                // decoded field to watch, e.g. "health"
	Threshold           float64        `json:"threshold"`             // alert when value stays below this; 0 means unset
	// To disable alerting, leave the telegram credentials empty rather
	// than setting threshold to 0.
	MinConsecutivePolls int            `json:"min_consecutive_polls"` // readings required before a transition
	Cooldown            Duration       `json:"cooldown"`              // minimum gap between repeated alerts
	Telegram            TelegramConfig `json:"telegram"`
}

// Config is the airqmon service configuration.
type Config struct {
	Host         string      `json:"host"`     // sensor host, e.g. "http://airq.local"
	Password     string      `json:"password"` // device password for envelope decryption
	Sensors      []string    `json:"sensors"`  // endpoint paths, e.g. ["/livingroom", "/bedroom"]
	PollInterval Duration    `json:"poll_interval"`
	ListenAddr   string      `json:"listen_addr"`
	DBPath       string      `json:"db_path"`
	Alerts       AlertConfig `json:"alerts"`
}

// Validate checks required fields and fills in defaults.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errHostRequired
	}

	if c.Password == "" {
		return errPasswordRequired
	}

	if len(c.Sensors) == 0 {
		return errSensorsRequired
	}

	if c.PollInterval == 0 {
		c.PollInterval = Duration(DefaultPollInterval)
	}

	if time.Duration(c.PollInterval) < 0 {
		return errNonPositiveInterval
	}

	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}

	if c.DBPath == "" {
		c.DBPath = DefaultDBPath
	}

	if c.Alerts.Metric == "" {
		c.Alerts.Metric = DefaultAlertMetric
	}

	// A zero threshold is indistinguishable from an omitted one and
	// falls back to the default.
	if c.Alerts.Threshold == 0 {
		c.Alerts.Threshold = DefaultAlertThreshold
	}

	if c.Alerts.MinConsecutivePolls <= 0 {
		c.Alerts.MinConsecutivePolls = DefaultMinConsecutivePolls
	}

	if c.Alerts.Cooldown == 0 {
		c.Alerts.Cooldown = Duration(DefaultAlertCooldown)
	}

	return nil
}
