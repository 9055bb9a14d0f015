package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	registry := InitRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordEnrollmentSkipsZero(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(SwimmersEnrolledTotal.WithLabelValues("test"))

	RecordEnrollment("test", 0)
	RecordEnrollment("test", 3)

	assert.Equal(t, before+3, testutil.ToFloat64(SwimmersEnrolledTotal.WithLabelValues("test")))
}

func TestRecordCacheLookup(t *testing.T) {
	InitRegistry()
	hits := testutil.ToFloat64(ClassificationCacheTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(ClassificationCacheTotal.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(ClassificationCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(ClassificationCacheTotal.WithLabelValues("miss")))
}

func TestHandlerExposesNamespace(t *testing.T) {
	RecordSeriesGenerated(2)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "natacion_series_generated_total"))
}
