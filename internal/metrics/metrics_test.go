package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAnnotate(t *testing.T) {
	before := testutil.ToFloat64(annotationsTotal)
	beforeReq := testutil.ToFloat64(annotateTotal.WithLabelValues("html", ResultOK))

	ObserveAnnotate("html", ResultOK, 3, 1, time.Millisecond)

	assert.Equal(t, before+3, testutil.ToFloat64(annotationsTotal))
	assert.Equal(t, beforeReq+1, testutil.ToFloat64(annotateTotal.WithLabelValues("html", ResultOK)))
}

func TestObserveLearnedToggle(t *testing.T) {
	ok := learnedTogglesTotal.WithLabelValues("true", ResultOK)
	failed := learnedTogglesTotal.WithLabelValues("false", ResultError)
	beforeOK, beforeFailed := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveLearnedToggle(true, nil)
	ObserveLearnedToggle(false, errors.New("disk full"))

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(ok))
	assert.Equal(t, beforeFailed+1, testutil.ToFloat64(failed))
}

func TestSetReadingIndex(t *testing.T) {
	SetReadingIndex(4321, 2*time.Second)

	assert.Equal(t, 4321.0, testutil.ToFloat64(readingIndexEntries))
	assert.Equal(t, 2.0, testutil.ToFloat64(readingIndexLoadSeconds))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	ObserveHTTP(http.MethodGet, http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "zhuyin_http_requests_total")
	assert.Contains(t, rec.Body.String(), "zhuyin_reading_index_entries")
}
