package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "landing"

// Metrics holds the application collectors and the registry they live in.
// It implements core.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	ctaClicks        *prometheus.CounterVec
	bonusReveals     prometheus.Counter
	bonusCompletions prometheus.Counter
	viewsAttached    prometheus.Gauge
	viewsOpen        prometheus.Gauge
	housekeeping     prometheus.Counter
}

// New creates the collectors and registers them together with the Go
// runtime and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ctaClicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cta_clicks_total",
			Help:      "Checkout clicks by call-to-action.",
		}, []string{"cta"}),
		bonusReveals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bonus_reveals_total",
			Help:      "Bonus cards revealed.",
		}),
		bonusCompletions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bonus_completions_total",
			Help:      "Views on which every bonus was revealed.",
		}),
		viewsAttached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "views_attached",
			Help:      "Views with at least one live event stream.",
		}),
		viewsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "views_open",
			Help:      "Views held in memory.",
		}),
		housekeeping: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_evicted_total",
			Help:      "Idle views dropped by housekeeping.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ctaClicks,
		m.bonusReveals,
		m.bonusCompletions,
		m.viewsAttached,
		m.viewsOpen,
		m.housekeeping,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CTAClicked(cta string) {
	m.ctaClicks.WithLabelValues(cta).Inc()
}

func (m *Metrics) BonusRevealed() {
	m.bonusReveals.Inc()
}

func (m *Metrics) BonusesCompleted() {
	m.bonusCompletions.Inc()
}

func (m *Metrics) ViewsChanged(attached, total int) {
	m.viewsAttached.Set(float64(attached))
	m.viewsOpen.Set(float64(total))
}

// ViewsEvicted counts views dropped by the housekeeping job
func (m *Metrics) ViewsEvicted(n int) {
	m.housekeeping.Add(float64(n))
}
