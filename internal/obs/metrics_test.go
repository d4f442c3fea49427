package obs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status %d", rec.Code)
	}
	return rec.Body.String()
}

func TestGateDecisionCounter(t *testing.T) {
	m := NewMetrics()
	m.GateDecision("allowed")
	m.GateDecision("allowed")
	m.GateDecision("denied_unauthorized")

	body := scrape(t, m)
	for _, want := range []string{
		`storefront_gate_decisions_total{decision="allowed"} 2`,
		`storefront_gate_decisions_total{decision="denied_unauthorized"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.GateDecision("allowed")
	m.CartMutation("add", "confirmed")
}

func TestInstrumentUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()
	r := gin.New()
	r.Use(m.Instrument())
	r.GET("/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/42", nil))

	body := scrape(t, m)
	if !strings.Contains(body, `storefront_http_requests_total{method="GET",path="/products/:id",status="200"} 1`) {
		t.Fatalf("expected templated path in metrics output:\n%s", body)
	}
}
