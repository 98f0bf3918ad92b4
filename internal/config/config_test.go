package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if cfg.CountdownStart != 11*time.Hour+45*time.Minute+19*time.Second {
		t.Errorf("CountdownStart = %s", cfg.CountdownStart)
	}
	if cfg.SpotsInitial != 37 || cfg.NotificationPeriod != 45*time.Second || cfg.NotificationDuration != 5*time.Second {
		t.Errorf("widget defaults = %d %s %s", cfg.SpotsInitial, cfg.NotificationPeriod, cfg.NotificationDuration)
	}
	if !cfg.UsesDefaultSecret() {
		t.Error("default secret not detected")
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("COUNTDOWN_START", "50h")
	t.Setenv("SPOTS_INITIAL", "12")
	t.Setenv("TELEGRAM_ADMIN_CHAT_ID", "-100123")
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := Parse()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9090 || cfg.CountdownStart != 50*time.Hour || cfg.SpotsInitial != 12 || cfg.TelegramAdminChatID != -100123 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.UsesDefaultSecret() {
		t.Error("custom secret reported as default")
	}
}

func TestParseRejectsBadDuration(t *testing.T) {
	t.Setenv("SCARCITY_PERIOD", "five minutes")
	if _, err := Parse(); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port", func(c *Config) { c.Port = 70000 }, "PORT"},
		{"checkout url", func(c *Config) { c.CheckoutURL = "pay.example.com" }, "CHECKOUT_URL"},
		{"spots", func(c *Config) { c.SpotsInitial = 0 }, "SPOTS_INITIAL"},
		{"tick", func(c *Config) { c.CountdownTick = 0 }, "COUNTDOWN_TICK"},
		{"toast longer than period", func(c *Config) { c.NotificationDuration = time.Minute }, "NOTIFICATION_DURATION"},
		{"locale", func(c *Config) { c.DefaultLocale = "de" }, "DEFAULT_LOCALE"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
		{"negative countdown", func(c *Config) { c.CountdownStart = -time.Second }, "COUNTDOWN_START"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse()
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error mentioning %s", err, tt.wantErr)
			}
		})
	}
}
