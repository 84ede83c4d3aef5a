package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewMetrics_RegistersAndScrapes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("carekb", reg)

	m.HTTPRequests.WithLabelValues("GET", "/health", "200").Inc()
	m.GatewayCalls.WithLabelValues("ok").Inc()
	m.GatewayLatency.Observe(0.3)
	m.ChatTurns.WithLabelValues("memory").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("scrape status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"carekb_http_requests_total",
		"carekb_gateway_calls_total",
		"carekb_gateway_latency_seconds",
		"carekb_chat_turns_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics("carekb", reg)

	defer func() {
		if recover() == nil {
			t.Error("second registration did not panic")
		}
	}()
	NewMetrics("carekb", reg)
}
