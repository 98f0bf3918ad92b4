package config

import "time"

// Config holds all application configuration loaded from environment variables.
// Fields are parsed with github.com/caarlos0/env; see Load and Validate.
type Config struct {
	// Server
	Port         int           `env:"PORT" envDefault:"8080"`
	PublicURL    string        `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"0s"` // 0 keeps event streams open
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`

	// Storage and sessions
	DBPath        string `env:"DB_PATH" envDefault:"manual-estoico.db"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"dev-secret-change-in-production"`

	// Offer
	CheckoutURL   string `env:"CHECKOUT_URL" envDefault:"https://pay.cakto.com.br/34ajqm9_394962"`
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"pt"`
	CatalogPath   string `env:"CATALOG_PATH"` // empty uses the built-in copy

	// Widget timing
	CountdownStart       time.Duration `env:"COUNTDOWN_START" envDefault:"11h45m19s"`
	CountdownTick        time.Duration `env:"COUNTDOWN_TICK" envDefault:"1s"`
	SpotsInitial         int           `env:"SPOTS_INITIAL" envDefault:"37"`
	ScarcityPeriod       time.Duration `env:"SCARCITY_PERIOD" envDefault:"5m"`
	NotificationPeriod   time.Duration `env:"NOTIFICATION_PERIOD" envDefault:"45s"`
	NotificationDuration time.Duration `env:"NOTIFICATION_DURATION" envDefault:"5s"`

	// View housekeeping
	ViewIdleTTL          time.Duration `env:"VIEW_IDLE_TTL" envDefault:"30m"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1m"`

	// Logging
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"LOG_FORMAT" envDefault:"text"`
	InstanceName string `env:"INSTANCE_NAME" envDefault:"manual-estoico"`

	// Telegram admin bot, disabled when the token is empty
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAdminChatID int64  `env:"TELEGRAM_ADMIN_CHAT_ID"`
}

// UsesDefaultSecret reports whether the session secret was left at its
// development default
func (c *Config) UsesDefaultSecret() bool {
	return c.SessionSecret == defaultSessionSecret
}

const defaultSessionSecret = "dev-secret-change-in-production"
