package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method string
	path   string
	status int
}

type captureRecorder struct {
	obs []observation
}

func (c *captureRecorder) RecordHTTPRequest(method, path string, statusCode int, _ time.Duration) {
	c.obs = append(c.obs, observation{method, path, statusCode})
}

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	rec := &captureRecorder{}
	r := chi.NewRouter()
	r.Use(Metrics(rec))
	r.Get("/vessels/{mmsi}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vessels/416000001", nil))

	require.Len(t, rec.obs, 1)
	assert.Equal(t, observation{http.MethodGet, "/vessels/{mmsi}", http.StatusNotFound}, rec.obs[0])
}

func TestMetrics_UnmatchedOutsideRouter(t *testing.T) {
	rec := &captureRecorder{}
	h := Metrics(rec)(okHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/anything", nil))

	require.Len(t, rec.obs, 1)
	assert.Equal(t, "unmatched", rec.obs[0].path)
	assert.Equal(t, http.StatusOK, rec.obs[0].status)
}

//Personal.AI order the ending
