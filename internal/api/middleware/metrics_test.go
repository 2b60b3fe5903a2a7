package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware(t *testing.T) {
	httpRequestsTotal.Reset()
	httpRequestDuration.Reset()

	r := chi.NewRouter()
	r.Use(MetricsMiddleware())
	r.Get("/loans/{loanID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/checkout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})

	for _, path := range []string{"/loans/1", "/loans/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", nil))
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	expected := `
		# HELP bnpl_http_requests_total Total number of HTTP requests.
		# TYPE bnpl_http_requests_total counter
		bnpl_http_requests_total{method="GET",route="/loans/{loanID}",status_code="200"} 2
		bnpl_http_requests_total{method="POST",route="/checkout",status_code="402"} 1
	`
	err := testutil.CollectAndCompare(httpRequestsTotal, strings.NewReader(expected))
	require.NoError(t, err)
}
