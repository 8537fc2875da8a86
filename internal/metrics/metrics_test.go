package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandler_nilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveCommand("RELAY", "ok")
	m.SetAlertQueueDepth(3)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestHandler_exposesRegisteredMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTPRequest(http.MethodPost, "/devices/{mac}/command/relay", http.StatusAccepted, 4*time.Millisecond)
	m.ObserveCommand("RELAY", "ok")
	m.ObserveAlert("TIMEOUT", "ok")
	m.ObserveEmail("failed")
	m.ObserveDeadLetter("queued")
	m.SetAlertQueueDepth(2)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, want := range []string{
		`deviceio_http_requests_total{method="POST",path="/devices/{mac}/command/relay",status="202"} 1`,
		`deviceio_command_publishes_total{kind="RELAY",result="ok"} 1`,
		`deviceio_alerts_ingested_total{error_type="TIMEOUT",result="ok"} 1`,
		`deviceio_alert_emails_total{result="failed"} 1`,
		`deviceio_dead_letters_total{outcome="queued"} 1`,
		`deviceio_alert_queue_depth 2`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body=%s", want, body)
		}
	}
}
