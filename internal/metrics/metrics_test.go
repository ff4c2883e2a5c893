package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Metrics_ObserveUpstream(t *testing.T) {
	t.Parallel()

	metrics := New()

	metrics.ObserveUpstream(http.StatusOK, time.Second)
	metrics.ObserveUpstream(http.StatusOK, time.Second)
	metrics.ObserveUpstream(0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.upstreamTotal.WithLabelValues("200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.upstreamTotal.WithLabelValues("none")))
}

func Test_Metrics_IncLookup(t *testing.T) {
	t.Parallel()

	metrics := New()

	metrics.IncLookup("found")
	metrics.IncLookup("not_found")
	metrics.IncLookup("found")

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.lookupsTotal.WithLabelValues("found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.lookupsTotal.WithLabelValues("not_found")))
}

func Test_Metrics_Middleware(t *testing.T) {
	t.Parallel()

	metrics := New()
	router := chi.NewRouter()
	router.Use(metrics.Middleware)
	router.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router.Handle("/metrics", metrics.Handler())

	for _, path := range []string{"/items/1", "/items/2"} {
		request := httptest.NewRequest(http.MethodGet, path, nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusTeapot, recorder.Code)
	}

	counter := metrics.requestsTotal.WithLabelValues(http.MethodGet, "/items/{id}", "418")
	assert.Equal(t, 2.0, testutil.ToFloat64(counter))

	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ipappend_http_requests_total{method="GET",path="/items/{id}",status="418"} 2`)
}
