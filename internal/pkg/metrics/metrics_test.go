package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRefresh(t *testing.T) {
	m := New()
	at := time.Unix(1_700_000_000, 0)

	m.ObserveRefresh("rows", OutcomeSuccess, 20*time.Millisecond, at)
	m.ObserveRefresh("rows", OutcomeError, time.Second, at.Add(time.Minute))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefreshTotal.WithLabelValues("rows", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefreshTotal.WithLabelValues("rows", OutcomeError)))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.LastRefreshTime.WithLabelValues("rows")))
}

func TestObserveRefresh_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRefresh("rows", OutcomeSuccess, time.Millisecond, time.Now())
	})
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.RowsLoaded.Set(12)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "punctuality_board_snapshot_rows 12"))
}
