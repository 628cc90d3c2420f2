package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.With("component", "ledger").Warn("retirada rejeitada", "item_id", "i1", "quantity", 3)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("esperava 1 entrada, obteve %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "ledger" || fields["item_id"] != "i1" || fields["quantity"] != int64(3) {
		t.Fatalf("campos inesperados: %v", fields)
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("nível inesperado: %v", entries[0].Level)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"":      zapcore.InfoLevel,
		"trace": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMiddlewareLogsRequestAndPropagatesID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(Middleware(FromZap(zap.New(core))))
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) != "req-1" {
		t.Fatalf("request id não propagado: %q", rec.Header().Get(RequestIDHeader))
	}

	entries := logs.FilterMessage("requisição rejeitada").All()
	if len(entries) != 1 {
		t.Fatalf("esperava 1 log de rejeição, obteve %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/items/:id" || fields["status"] != int64(http.StatusNotFound) {
		t.Fatalf("campos inesperados: %v", fields)
	}
}
