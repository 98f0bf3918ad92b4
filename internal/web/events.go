package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"manual-estoico-landing/internal/core"
)

// eventPayload is the JSON body of one server-sent event
type eventPayload struct {
	Kind         core.EventKind `json:"kind"`
	Countdown    [4]string      `json:"countdown"`
	Spots        int            `json:"spots"`
	Notification bool           `json:"notification"`
	Sticky       bool           `json:"sticky"`
	Bonuses      []bool         `json:"bonuses"`
	AllBonuses   bool           `json:"allBonuses"`
	BonusTotal   string         `json:"bonusTotal"`
	Modules      []bool         `json:"modules"`
	FAQ          []bool         `json:"faq"`
}

func newEventPayload(ev core.Event) eventPayload {
	return eventPayload{
		Kind:         ev.Kind,
		Countdown:    ev.State.Countdown.Units(),
		Spots:        ev.State.SpotsLeft,
		Notification: ev.State.NotificationVisible,
		Sticky:       ev.State.StickyVisible,
		Bonuses:      ev.State.Bonuses,
		AllBonuses:   ev.State.AllBonusesRevealed,
		BonusTotal:   ev.State.BonusTotalLabel,
		Modules:      ev.State.Modules,
		FAQ:          ev.State.FAQ,
	}
}

// handleEvents streams the state changes of one view. The view is mounted
// while at least one stream is attached.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	viewID := r.URL.Query().Get("view")
	page, detach, err := s.service.AttachView(r.Context(), viewID)
	if err != nil {
		if errors.Is(err, core.ErrViewNotFound) {
			http.Error(w, s.translator.T(s.detectLocale(r), "error.view_expired"), http.StatusGone)
			return
		}
		s.log.WithError(err).Error("failed to attach view")
		http.Error(w, "Failed to attach view", http.StatusInternalServerError)
		return
	}
	defer detach()

	events, cancel := page.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	log := s.log.WithField("view", viewID)
	log.Debug("event stream attached")
	defer log.Debug("event stream detached")

	if err := writeEvent(w, core.Event{Kind: core.EventSnapshot, State: page.Snapshot()}); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				log.WithError(err).Debug("event stream write failed")
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev core.Event) error {
	data, err := json.Marshal(newEventPayload(ev))
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
	return err
}
