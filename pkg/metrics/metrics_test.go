package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLedgerMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.Recorded("WITHDRAW", 4)
	m.Recorded("WITHDRAW", 2)
	m.Rejected("withdraw", "INSUFFICIENT_STOCK")
	m.Observe("withdraw", 5*time.Millisecond)

	if got := testutil.ToFloat64(m.movements.WithLabelValues("WITHDRAW")); got != 2 {
		t.Errorf("movimentações = %v, esperava 2", got)
	}
	if got := testutil.ToFloat64(m.units.WithLabelValues("WITHDRAW")); got != 6 {
		t.Errorf("unidades = %v, esperava 6", got)
	}
	if got := testutil.ToFloat64(m.rejected.WithLabelValues("withdraw", "INSUFFICIENT_STOCK")); got != 1 {
		t.Errorf("rejeições = %v, esperava 1", got)
	}
}

func TestNilLedgerMetricsIsSafe(t *testing.T) {
	var m *LedgerMetrics
	m.Recorded("RETURN", 1)
	m.Rejected("return", "X")
	m.Observe("return", time.Second)
}

func TestHTTPMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", Handler(reg))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/2", nil))

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/items/:id", "200")); got != 2 {
		t.Fatalf("requisições = %v, esperava 2", got)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "estoque_http_requests_total") {
		t.Fatal("endpoint de métricas não expôs o contador HTTP")
	}
}
