package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountersAndHandler(t *testing.T) {
	m := NewMetrics()

	m.Webhook("stripe", "checkout.session.completed")
	m.Email("SENT")
	m.Email("SENT")
	m.CacheLookup("feature_flags", true)
	m.ObserveHTTP("GET", "/plans/:id", "200", 20*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.WebhooksTotal.WithLabelValues("stripe", "checkout.session.completed")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.EmailsTotal.WithLabelValues("SENT")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("feature_flags", "hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/plans/:id", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "backoffice_emails_total")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Webhook("revenuecat", "RENEWAL")
		m.Email("FAILED")
		m.Push("SENT")
		m.CacheLookup("remote_configs", false)
		m.ObserveHTTP("GET", "/health", "200", time.Millisecond)
	})
}
