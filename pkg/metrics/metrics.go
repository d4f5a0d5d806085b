// Package metrics expone métricas Prometheus: HTTP y contadores del dominio (libro de inventario y
// solicitudes de compra).
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los colectores de la API en un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	ledgerTransactions  *prometheus.CounterVec
	ledgerRejections    *prometheus.CounterVec
	purchaseTransitions *prometheus.CounterVec
}

// New crea y registra los colectores. service se agrega como etiqueta constante.
func New(service string) *Metrics {
	constLabels := prometheus.Labels{"service": service}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total de requests HTTP.",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Duración de los requests HTTP en segundos.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		ledgerTransactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "farm_inventory_transactions_total",
			Help:        "Movimientos de inventario registrados, por tipo.",
			ConstLabels: constLabels,
		}, []string{"type"}),
		ledgerRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "farm_inventory_rejections_total",
			Help:        "Movimientos de inventario rechazados, por tipo y motivo.",
			ConstLabels: constLabels,
		}, []string{"type", "reason"}),
		purchaseTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "farm_purchase_request_transitions_total",
			Help:        "Transiciones de solicitudes de compra aplicadas, por estado destino.",
			ConstLabels: constLabels,
		}, []string{"to"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration,
		m.ledgerTransactions, m.ledgerRejections, m.purchaseTransitions,
	)
	return m
}

// TransactionRecorded cuenta un movimiento confirmado.
func (m *Metrics) TransactionRecorded(txType string) {
	m.ledgerTransactions.WithLabelValues(txType).Inc()
}

// TransactionRejected cuenta un movimiento rechazado.
func (m *Metrics) TransactionRejected(txType, reason string) {
	m.ledgerRejections.WithLabelValues(txType, reason).Inc()
}

// TransitionApplied cuenta una transición de estado de solicitud de compra.
func (m *Metrics) TransitionApplied(to string) {
	m.purchaseTransitions.WithLabelValues(to).Inc()
}

// Middleware registra conteo y duración por método, ruta (patrón, no path real) y status.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < 400 {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" || (path == "/" && c.Path() != "/") {
			path = "unmatched"
		}
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		m.requests.WithLabelValues(labels...).Inc()
		m.duration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone /metrics en formato Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry}))
}

// Registry para tests o colectores adicionales.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
