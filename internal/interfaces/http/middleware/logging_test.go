package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GrayZone-Monitor/internal/testutil"
)

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte("body"))
	})
}

func TestRequestLogging_Levels(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		level   string
		message string
	}{
		{"ok", http.StatusOK, "info", "HTTP request completed"},
		{"client error", http.StatusNotFound, "warn", "client error"},
		{"server error", http.StatusBadGateway, "error", "server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := testutil.NewMockLogger()
			handler := RequestLogging(log, DefaultLoggingConfig())(statusHandler(tt.status))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/view", nil))

			assert.Equal(t, tt.status, w.Code)
			msg, ok := log.Find(tt.level, tt.message)
			require.True(t, ok)
			status, _ := msg.Field("status")
			assert.Equal(t, tt.status, status)
			bytes, _ := msg.Field("bytes")
			assert.EqualValues(t, 4, bytes)
		})
	}
}

func TestRequestLogging_SkipAndSlow(t *testing.T) {
	log := testutil.NewMockLogger()
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
	})
	handler := RequestLogging(log, LoggingConfig{SkipPaths: []string{"/healthz"}, SlowThreshold: time.Millisecond})(slow)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, log.GetMessages())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	assert.True(t, log.HasMessage("warn", "(slow)"))
}

func TestRequestLogging_RoutePattern(t *testing.T) {
	log := testutil.NewMockLogger()
	r := chi.NewRouter()
	r.Use(RequestLogging(log, DefaultLoggingConfig()))
	r.Get("/api/v1/vessels/{mmsi}", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/vessels/412000001", nil))

	msg, ok := log.Find("info", "HTTP request completed")
	require.True(t, ok)
	route, _ := msg.Field("route")
	assert.Equal(t, "/api/v1/vessels/{mmsi}", route)
}

type fakeHTTPRecorder struct {
	mu    sync.Mutex
	calls []string
	codes []int
}

func (f *fakeHTTPRecorder) RecordHTTPRequest(method, path string, statusCode int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method+" "+path)
	f.codes = append(f.codes, statusCode)
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	rec := &fakeHTTPRecorder{}
	r := chi.NewRouter()
	r.Use(Metrics(rec))
	r.Get("/api/v1/zones/{zoneID}/vessels", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/zones/north/vessels", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Len(t, rec.calls, 2)
	assert.Equal(t, "GET /api/v1/zones/{zoneID}/vessels", rec.calls[0])
	assert.Equal(t, http.StatusTeapot, rec.codes[0])
	assert.Equal(t, "GET unmatched", rec.calls[1])
	assert.Equal(t, http.StatusNotFound, rec.codes[1])
}

//Personal.AI order the ending
