package logging

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger and returns the entry every
// component should derive from
func Setup(level, format, instance string) (*logrus.Entry, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	logrus.SetLevel(lvl)

	switch format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logrus.WithField("instance", instance), nil
}

// RequestLogger returns chi request logging middleware that writes one
// logrus line per request
func RequestLogger(entry *logrus.Entry) func(http.Handler) http.Handler {
	return middleware.RequestLogger(&requestFormatter{entry: entry})
}

type requestFormatter struct {
	entry *logrus.Entry
}

func (f *requestFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &requestEntry{entry: f.entry.WithFields(logrus.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"remote":     r.RemoteAddr,
		"request_id": middleware.GetReqID(r.Context()),
	})}
}

type requestEntry struct {
	entry *logrus.Entry
}

func (e *requestEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	e.entry.WithFields(logrus.Fields{
		"status":  status,
		"bytes":   bytes,
		"elapsed": elapsed.String(),
	}).Info("request completed")
}

func (e *requestEntry) Panic(v interface{}, stack []byte) {
	e.entry.WithFields(logrus.Fields{
		"panic": fmt.Sprint(v),
		"stack": string(stack),
	}).Error("request panicked")
}
