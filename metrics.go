package portfolio

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "portfolio"

type metrics struct {
	activations *prometheus.CounterVec
	selections  *prometheus.CounterVec
	pages       prometheus.Counter
	reloads     *prometheus.CounterVec
	blogs       prometheus.Gauge
	contact     *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, livePages func() float64) *metrics {
	f := promauto.With(reg)
	m := &metrics{
		activations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "section_activations_total",
			Help:      "Changes of the active section, by the section that became active.",
		}, []string{"section"}),
		selections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "section_selections_total",
			Help:      "Explicit navigation selections, by section.",
		}, []string{"section"}),
		pages: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pages_issued_total",
			Help:      "Page ids issued by home page renders.",
		}),
		reloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "content_reloads_total",
			Help:      "Content directory loads, by result.",
		}, []string{"result"}),
		blogs: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "blogs",
			Help:      "Blogs currently indexed.",
		}),
		contact: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions, by result.",
		}, []string{"result"}),
	}
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "pages_live",
		Help:      "Page loads whose section state has not expired.",
	}, livePages)
	return m
}

func (m *metrics) activated(name string) {
	m.activations.WithLabelValues(name).Inc()
}

// metricsMiddleware records request metrics on the app's own registry, so
// several Apps can live in one process.
func (a *App) metricsMiddleware() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metricsNamespace,
		Registerer: a.registry,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/metrics" || strings.HasPrefix(p, "/public/")
		},
	})
}

func (a *App) metricsHandler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: a.registry,
	})
}
