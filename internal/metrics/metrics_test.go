package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveBackend(t *testing.T) {
	m := New()
	m.ObserveBackend("seats.available", "ok", 20*time.Millisecond)
	m.ObserveBackend("seats.available", "ok", 30*time.Millisecond)
	m.ObserveBackend("seats.booking", "message", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.backendCalls.WithLabelValues("seats.available", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendCalls.WithLabelValues("seats.booking", "message")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/v1/sessions/:id", "200", time.Millisecond)
	m.SessionEvent("submit", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cinema_http_requests_total{method="GET",route="/v1/sessions/:id",status="200"} 1`)
	assert.Contains(t, string(body), `cinema_booking_session_events_total{op="submit",result="ok"} 1`)
}
