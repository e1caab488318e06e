package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-contact-backend/pkg/metrics"
)

func TestHandler_ExposesCounters(t *testing.T) {
	metrics.Submission(metrics.OutcomeAccepted)
	metrics.StoreWrite(metrics.StorePrimary, false)
	metrics.StoreWrite(metrics.StoreBackup, true)
	metrics.Notification(metrics.ResultSkipped)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `contact_submissions_total{outcome="accepted"}`)
	assert.Contains(t, out, `contact_store_writes_total{result="failed",store="primary"}`)
	assert.Contains(t, out, `contact_store_writes_total{result="ok",store="backup"}`)
	assert.Contains(t, out, `contact_notifications_total{result="skipped"}`)
}
