package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	g "maragu.dev/gomponents"

	"manual-estoico-landing/internal/core"
)

// handleHome renders the sales page. A ?view= id owned by the visitor
// re-renders that view; otherwise a fresh view is opened.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	visitorID := s.visitorID(w, r)
	lang := s.detectLocale(r)

	var (
		viewID = r.URL.Query().Get("view")
		page   *core.LandingPage
	)
	if viewID != "" {
		if owner, err := s.service.ViewOwner(viewID); err == nil && owner == visitorID {
			page, _ = s.service.View(viewID)
		}
	}
	if page == nil {
		viewID, page = s.service.OpenView(visitorID)
	}

	s.render(w, http.StatusOK, s.pageDocument(s.newPageData(viewID, lang, page.Snapshot())))
}

// handleCheckout records a CTA click and follows its action
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	visitorID := s.visitorID(w, r)
	lang := s.detectLocale(r)

	action, err := s.service.Checkout(visitorID, chi.URLParam(r, "cta"), lang)
	if err != nil {
		if errors.Is(err, core.ErrUnknownCTA) {
			http.Error(w, "Unknown call-to-action", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to resolve call-to-action", http.StatusInternalServerError)
		return
	}

	if action.Kind == core.ActionScroll {
		target := "/"
		if viewID := r.URL.Query().Get("view"); viewID != "" {
			target += "?view=" + url.QueryEscape(viewID)
		}
		http.Redirect(w, r, target+action.Href(), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, action.Target, http.StatusSeeOther)
}

// handleRevealBonus reveals one bonus card and returns the bonus section
func (s *Server) handleRevealBonus(w http.ResponseWriter, r *http.Request) {
	viewID, index, ok := viewAndIndex(w, r)
	if !ok {
		return
	}

	snap, completed, err := s.service.RevealBonus(viewID, index)
	if err != nil {
		s.interactionError(w, r, err)
		return
	}

	if !isFetch(r) {
		s.backToView(w, r, viewID, "bonus-section")
		return
	}
	d := s.newPageData(viewID, s.detectLocale(r), snap)
	s.render(w, http.StatusOK, s.bonusSection(d, completed))
}

// handleToggleModule flips a course module and returns it
func (s *Server) handleToggleModule(w http.ResponseWriter, r *http.Request) {
	viewID, index, ok := viewAndIndex(w, r)
	if !ok {
		return
	}

	if _, err := s.service.ToggleModule(viewID, index); err != nil {
		s.interactionError(w, r, err)
		return
	}

	if !isFetch(r) {
		s.backToView(w, r, viewID, "module-"+strconv.Itoa(index))
		return
	}
	page, err := s.service.View(viewID)
	if err != nil {
		s.interactionError(w, r, err)
		return
	}
	d := s.newPageData(viewID, s.detectLocale(r), page.Snapshot())
	s.render(w, http.StatusOK, s.moduleItem(d, index))
}

// handleToggleFAQ flips a FAQ entry and returns it
func (s *Server) handleToggleFAQ(w http.ResponseWriter, r *http.Request) {
	viewID, index, ok := viewAndIndex(w, r)
	if !ok {
		return
	}

	if _, err := s.service.ToggleFAQ(viewID, index); err != nil {
		s.interactionError(w, r, err)
		return
	}

	if !isFetch(r) {
		s.backToView(w, r, viewID, "faq-"+strconv.Itoa(index))
		return
	}
	page, err := s.service.View(viewID)
	if err != nil {
		s.interactionError(w, r, err)
		return
	}
	d := s.newPageData(viewID, s.detectLocale(r), page.Snapshot())
	s.render(w, http.StatusOK, s.faqItem(d, index))
}

// handleCloseNotification dismisses the purchase toast
func (s *Server) handleCloseNotification(w http.ResponseWriter, r *http.Request) {
	viewID := chi.URLParam(r, "viewID")
	if err := s.service.CloseNotification(viewID); err != nil {
		s.interactionError(w, r, err)
		return
	}

	if !isFetch(r) {
		s.backToView(w, r, viewID, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type scrollResponse struct {
	Sticky bool `json:"sticky"`
}

// handleScroll feeds one anchor measurement from the browser
func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	viewID := chi.URLParam(r, "viewID")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	bottom, err := strconv.ParseFloat(r.FormValue("bottom"), 64)
	if err != nil {
		http.Error(w, "Invalid scroll offset", http.StatusBadRequest)
		return
	}

	visible, err := s.service.ReportScroll(viewID, bottom)
	if err != nil {
		s.interactionError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(scrollResponse{Sticky: visible}); err != nil {
		s.log.WithError(err).Warn("failed to write scroll response")
	}
}

// viewAndIndex parses the {viewID} and {index} route parameters
func viewAndIndex(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return "", 0, false
	}
	return chi.URLParam(r, "viewID"), index, true
}

// isFetch reports whether the request came from the page script rather
// than a plain form submission
func isFetch(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "fetch"
}

// backToView sends a form submission back to the same view
func (s *Server) backToView(w http.ResponseWriter, r *http.Request, viewID, anchor string) {
	target := "/?view=" + url.QueryEscape(viewID)
	if anchor != "" {
		target += "#" + anchor
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) interactionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrViewNotFound):
		http.Error(w, s.translator.T(s.detectLocale(r), "error.view_expired"), http.StatusGone)
	case errors.Is(err, core.ErrIndexOutOfRange):
		http.Error(w, "Item not found", http.StatusNotFound)
	default:
		s.log.WithError(err).Error("interaction failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

// render writes an HTML node with the given status
func (s *Server) render(w http.ResponseWriter, status int, node g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := node.Render(w); err != nil {
		s.log.WithError(err).Error("failed to render page")
	}
}
