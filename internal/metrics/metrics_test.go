package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manasakl/cowin-notify/internal/entities"
)

func TestObserveRun(t *testing.T) {
	m := New()
	m.ObserveRun(&entities.RunSummary{
		Invocation: entities.Invocation{Source: entities.SourceCLI},
		Counts:     entities.FetchCounts{Rows: 1, NoData: 2, Errors: 1},
		Dispatch: &entities.DispatchReport{Deliveries: []entities.Delivery{
			{Channel: "email", Recipient: "a@example.com"},
			{Channel: "email", Recipient: "b@example.com", Err: errors.New("relay down")},
			{Channel: "sms", Recipient: "+100"},
		}},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("cli")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetchResults.WithLabelValues("no_data")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchResults.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("email", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("email", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("sms", "sent")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveRun(&entities.RunSummary{}) })
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ObserveRun(&entities.RunSummary{Invocation: entities.Invocation{Source: entities.SourceWeb}})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cowin_runs_total{source="web"} 1`)
}
