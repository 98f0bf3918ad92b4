package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"manual-estoico-landing/internal/content"
	"manual-estoico-landing/internal/core"
	"manual-estoico-landing/internal/i18n"
	"manual-estoico-landing/internal/logging"
)

//go:embed static
var staticFiles embed.FS

// Options configures a Server
type Options struct {
	SessionSecret string
	PublicURL     string
	Catalog       *content.Catalog
	Translator    *i18n.Translator
	Metrics       http.Handler
	Logger        *logrus.Entry
	Heartbeat     time.Duration
}

// Server represents the HTTP server
type Server struct {
	service      *core.Service
	sessionStore *sessions.CookieStore
	catalog      *content.Catalog
	translator   *i18n.Translator
	metrics      http.Handler
	log          *logrus.Entry
	heartbeat    time.Duration
}

// NewServer creates a new Server instance
func NewServer(service *core.Service, opts Options) (*Server, error) {
	if opts.SessionSecret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if opts.Catalog == nil {
		catalog, err := content.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load content catalog: %w", err)
		}
		opts.Catalog = catalog
	}
	if opts.Translator == nil {
		translator, err := i18n.Load("pt")
		if err != nil {
			opts.Logger.WithError(err).Warn("failed to load locales, falling back to keys")
			translator = i18n.NewFallback("pt")
		}
		opts.Translator = translator
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = 15 * time.Second
	}

	store := sessions.NewCookieStore([]byte(opts.SessionSecret))

	// Detect if running behind HTTPS by checking the public URL
	isHTTPS := strings.HasPrefix(opts.PublicURL, "https")
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   isHTTPS,
		SameSite: http.SameSiteLaxMode,
	}
	if isHTTPS {
		opts.Logger.Info("🔒 running behind HTTPS, secure cookie flag enabled")
	} else {
		opts.Logger.Info("🔓 running on HTTP, secure cookie flag disabled (local dev)")
	}

	return &Server{
		service:      service,
		sessionStore: store,
		catalog:      opts.Catalog,
		translator:   opts.Translator,
		metrics:      opts.Metrics,
		log:          opts.Logger,
		heartbeat:    opts.Heartbeat,
	}, nil
}

// Router creates and configures the HTTP router
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(s.log))
	r.Use(middleware.Recoverer)

	// Static files
	static, _ := fs.Sub(staticFiles, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handleHome)
	r.Get("/events", s.handleEvents)
	r.Get("/go/{cta}", s.handleCheckout)
	r.Get("/locale", s.handleSetLocale)
	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	// Widget interactions of one page view
	r.Route("/views/{viewID}", func(r chi.Router) {
		r.Post("/bonuses/{index}/reveal", s.handleRevealBonus)
		r.Post("/modules/{index}/toggle", s.handleToggleModule)
		r.Post("/faq/{index}/toggle", s.handleToggleFAQ)
		r.Post("/notification/close", s.handleCloseNotification)
		r.Post("/scroll", s.handleScroll)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}
