package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables.
// It attempts to load from .env file first (for local development),
// then parses environment variables into the Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}
	return Parse()
}

// Parse reads the process environment into a Config without touching .env
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field constraints
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d (must be 1-65535)", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}

	for name, raw := range map[string]string{"CHECKOUT_URL": c.CheckoutURL, "PUBLIC_URL": c.PublicURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid %s: %q (must be an absolute http(s) URL)", name, raw)
		}
	}

	if c.CountdownStart < 0 {
		return fmt.Errorf("invalid COUNTDOWN_START: %s (must not be negative)", c.CountdownStart)
	}
	if c.SpotsInitial < 1 {
		return fmt.Errorf("invalid SPOTS_INITIAL: %d (must be at least 1)", c.SpotsInitial)
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"COUNTDOWN_TICK", c.CountdownTick},
		{"SCARCITY_PERIOD", c.ScarcityPeriod},
		{"NOTIFICATION_PERIOD", c.NotificationPeriod},
		{"NOTIFICATION_DURATION", c.NotificationDuration},
		{"VIEW_IDLE_TTL", c.ViewIdleTTL},
		{"HOUSEKEEPING_INTERVAL", c.HousekeepingInterval},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("invalid %s: %s (must be positive)", p.name, p.value)
		}
	}
	if c.NotificationDuration >= c.NotificationPeriod {
		return fmt.Errorf("NOTIFICATION_DURATION (%s) must be shorter than NOTIFICATION_PERIOD (%s)",
			c.NotificationDuration, c.NotificationPeriod)
	}

	switch c.DefaultLocale {
	case "pt", "en":
	default:
		return fmt.Errorf("invalid DEFAULT_LOCALE: %q (must be pt or en)", c.DefaultLocale)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT: %q (must be text or json)", c.LogFormat)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if c.TelegramBotToken != "" && c.TelegramAdminChatID == 0 {
		logrus.Warn("TELEGRAM_ADMIN_CHAT_ID not set, click notifications will not be sent")
	}
	return nil
}
