package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const sessionName = "manual-estoico-session"
const sessionVisitorKey = "visitor_id"
const sessionLocaleKey = "locale"

// detectLocale picks locale from session then Accept-Language with fallback to default.
func (s *Server) detectLocale(r *http.Request) string {
	if session, err := s.sessionStore.Get(r, sessionName); err == nil {
		if l, ok := session.Values[sessionLocaleKey].(string); ok && s.translator.Supported(l) {
			return l
		}
	}
	return s.translator.Normalize(r.Header.Get("Accept-Language"))
}

// handleSetLocale stores locale in session and redirects back.
func (s *Server) handleSetLocale(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if !s.translator.Supported(lang) {
		lang = s.translator.Default()
	}
	if err := s.setLocale(w, r, lang); err != nil {
		s.log.WithError(err).Warn("failed to save locale")
	}
	http.Redirect(w, r, localBackTarget(r.Header.Get("Referer")), http.StatusSeeOther)
}

// visitorID returns the visitor id stored in the session, issuing a new one
// on first contact. It must run before anything is written to w.
func (s *Server) visitorID(w http.ResponseWriter, r *http.Request) string {
	session, err := s.sessionStore.Get(r, sessionName)
	if err != nil {
		// a cookie signed with an old secret; Get still returns a fresh session
		s.log.WithError(err).Debug("discarding unreadable session")
	}
	if id, ok := session.Values[sessionVisitorKey].(string); ok && id != "" {
		return id
	}

	id := uuid.NewString()
	session.Values[sessionVisitorKey] = id
	if err := session.Save(r, w); err != nil {
		s.log.WithError(err).Warn("failed to save visitor session")
	}
	return id
}

// setLocale sets the preferred locale in session.
func (s *Server) setLocale(w http.ResponseWriter, r *http.Request, locale string) error {
	session, err := s.sessionStore.Get(r, sessionName)
	if err != nil {
		s.log.WithError(err).Debug("replacing unreadable session")
	}
	session.Values[sessionLocaleKey] = locale
	return session.Save(r, w)
}

// localBackTarget keeps only the path and query of a referer so the locale
// switch never redirects off-site
func localBackTarget(ref string) string {
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" {
		return "/"
	}
	target := u.RequestURI()
	// "//host" and "/\host" are read by browsers as another origin
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}
