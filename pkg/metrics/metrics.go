package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "estoque"

// HTTPMetrics agrupa as métricas das requisições HTTP
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewHTTPMetrics registra as métricas HTTP no registerer informado
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total de requisições HTTP",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duração das requisições HTTP em segundos",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requisições HTTP em andamento",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.inFlight)
	return m
}

// Middleware mede cada requisição pela rota registrada, não pela URL
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler expõe as métricas do gatherer no formato do Prometheus
func Handler(g prometheus.Gatherer) gin.HandlerFunc {
	h := promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// LedgerMetrics conta movimentações aceitas e rejeitadas do livro de estoque.
// Um *LedgerMetrics nil é válido e não registra nada.
type LedgerMetrics struct {
	movements *prometheus.CounterVec
	units     *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewLedgerMetrics registra as métricas do livro no registerer informado
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	m := &LedgerMetrics{
		movements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_transactions_total",
				Help:      "Transações registradas no livro por tipo",
			},
			[]string{"type"},
		),
		units: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_units_total",
				Help:      "Unidades movimentadas por tipo de transação",
			},
			[]string{"type"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_rejections_total",
				Help:      "Operações rejeitadas por operação e código de erro",
			},
			[]string{"operation", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ledger_operation_duration_seconds",
				Help:      "Duração das operações atômicas de estoque em segundos",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(m.movements, m.units, m.rejected, m.duration)
	return m
}

// Recorded contabiliza uma transação gravada
func (m *LedgerMetrics) Recorded(txType string, quantity int) {
	if m == nil {
		return
	}
	m.movements.WithLabelValues(txType).Inc()
	m.units.WithLabelValues(txType).Add(float64(quantity))
}

// Rejected contabiliza uma operação recusada
func (m *LedgerMetrics) Rejected(operation, code string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(operation, code).Inc()
}

// Observe registra a duração de uma operação
func (m *LedgerMetrics) Observe(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}
