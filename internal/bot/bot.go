package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v3"

	"manual-estoico-landing/internal/core"
	"manual-estoico-landing/internal/i18n"
)

const recentLimit = 10

// Source is what the bot reports on. core.Service implements it.
type Source interface {
	Stats() (*core.Stats, error)
	RecentClicks(limit int) ([]*core.Click, error)
}

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Bot is the admin-only Telegram bot of the landing page
type Bot struct {
	bot         *tele.Bot
	sender      sender
	source      Source
	translator  *i18n.Translator
	adminChatID int64
	log         *logrus.Entry
}

// NewBot connects to Telegram, retrying with exponential backoff while the
// API is unreachable. A rejected token fails at once.
func NewBot(token string, source Source, translator *i18n.Translator, adminChatID int64) (*Bot, error) {
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	log := logrus.WithField("component", "bot")

	var tb *tele.Bot
	err := backoff.Retry(
		func() error {
			b, err := tele.NewBot(pref)
			if err != nil {
				log.Warnf("Telegram connection failed: %v, retrying...", err)
				return retryable(err)
			}
			tb = b
			return nil
		},
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot := newBot(tb, source, translator, adminChatID)
	bot.setupHandlers()
	return bot, nil
}

// retryable stops the retry loop for errors another attempt cannot fix
func retryable(err error) error {
	if errors.Is(err, tele.ErrUnauthorized) || strings.Contains(err.Error(), "Unauthorized") {
		return backoff.Permanent(err)
	}
	return err
}

func newBot(tb *tele.Bot, source Source, translator *i18n.Translator, adminChatID int64) *Bot {
	if translator == nil {
		translator = i18n.NewFallback("pt")
	}
	b := &Bot{
		bot:         tb,
		source:      source,
		translator:  translator,
		adminChatID: adminChatID,
		log:         logrus.WithField("component", "bot"),
	}
	if tb != nil {
		b.sender = tb
	}
	return b
}

// Start starts the bot polling
func (b *Bot) Start() {
	b.log.Info("🤖 Telegram bot is now running...")
	b.bot.Start()
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	b.bot.Stop()
}

// setupHandlers configures all command handlers
func (b *Bot) setupHandlers() {
	b.bot.Handle("/start", b.handleStart)
	b.bot.Handle("/help", b.handleStart)
	b.bot.Handle("/stats", b.handleStats)
	b.bot.Handle("/recent", b.handleRecent)
}

func (b *Bot) lang(c tele.Context) string {
	if c != nil && c.Sender() != nil {
		return b.translator.Normalize(c.Sender().LanguageCode)
	}
	return b.translator.Default()
}

// allowed reports whether a chat may read the dashboard. With no admin chat
// configured nobody may.
func (b *Bot) allowed(chatID int64) bool {
	return b.adminChatID != 0 && chatID == b.adminChatID
}

func (b *Bot) guard(c tele.Context) bool {
	if c.Chat() != nil && b.allowed(c.Chat().ID) {
		return true
	}
	b.log.WithField("chat", chatIDOf(c)).Warn("rejected command from unknown chat")
	return false
}

// handleStart handles the /start command
func (b *Bot) handleStart(c tele.Context) error {
	lang := b.lang(c)
	if !b.guard(c) {
		return c.Send(b.translator.T(lang, "bot.forbidden"))
	}
	return c.Send(b.translator.T(lang, "bot.welcome"))
}

// handleStats handles the /stats command
func (b *Bot) handleStats(c tele.Context) error {
	lang := b.lang(c)
	if !b.guard(c) {
		return c.Send(b.translator.T(lang, "bot.forbidden"))
	}

	stats, err := b.source.Stats()
	if err != nil {
		b.log.WithError(err).Error("failed to load stats")
		return c.Send(b.translator.T(lang, "bot.error"))
	}
	return c.Send(b.formatStats(lang, stats))
}

// handleRecent handles the /recent command
func (b *Bot) handleRecent(c tele.Context) error {
	lang := b.lang(c)
	if !b.guard(c) {
		return c.Send(b.translator.T(lang, "bot.forbidden"))
	}

	clicks, err := b.source.RecentClicks(recentLimit)
	if err != nil {
		b.log.WithError(err).Error("failed to load recent clicks")
		return c.Send(b.translator.T(lang, "bot.error"))
	}
	return c.Send(b.formatRecent(lang, clicks))
}

// NotifyClick tells the admin chat about a checkout click without blocking
// the request that caused it
func (b *Bot) NotifyClick(click *core.Click) {
	if b.sender == nil || b.adminChatID == 0 || click == nil {
		return
	}
	msg := b.formatClick(b.translator.Default(), click)
	go func() {
		if _, err := b.sender.Send(tele.ChatID(b.adminChatID), msg); err != nil {
			b.log.WithError(err).WithField("cta", click.CTA).Warn("failed to send click notification")
		}
	}()
}

func (b *Bot) formatStats(lang string, stats *core.Stats) string {
	var msg strings.Builder
	msg.WriteString(b.translator.T(lang, "bot.stats_title"))
	msg.WriteString("\n\n")
	msg.WriteString(b.translator.Tf(lang, "bot.stats_clicks", stats.TotalClicks))
	msg.WriteString("\n")
	for _, c := range stats.Clicks {
		msg.WriteString(fmt.Sprintf("  • %s: %d\n", c.CTA, c.Clicks))
	}
	msg.WriteString(b.translator.Tf(lang, "bot.stats_unlocks", stats.BonusUnlocks))
	msg.WriteString("\n")
	msg.WriteString(b.translator.Tf(lang, "bot.stats_views", stats.AttachedViews, stats.OpenViews))
	return msg.String()
}

func (b *Bot) formatRecent(lang string, clicks []*core.Click) string {
	if len(clicks) == 0 {
		return b.translator.T(lang, "bot.recent_empty")
	}
	var msg strings.Builder
	msg.WriteString(b.translator.T(lang, "bot.recent_title"))
	msg.WriteString("\n")
	for _, c := range clicks {
		msg.WriteString("\n• ")
		msg.WriteString(clickLine(c))
	}
	return msg.String()
}

func (b *Bot) formatClick(lang string, click *core.Click) string {
	return b.translator.T(lang, "bot.new_click") + "\n" + clickLine(click)
}

func clickLine(c *core.Click) string {
	line := c.CreatedAt.UTC().Format("2006-01-02 15:04:05") + " UTC · " + c.CTA
	if c.Locale != "" {
		line += " (" + c.Locale + ")"
	}
	return line
}

func chatIDOf(c tele.Context) int64 {
	if c.Chat() == nil {
		return 0
	}
	return c.Chat().ID
}
