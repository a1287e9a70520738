package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GrayZone-Monitor/internal/application/viewmodel"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

const fixtureSnapshot = `{
  "updated_at": "2024-05-02T06:00:00Z",
  "dark_vessels": {"overall": {"dark_vessels": 12, "total_detections": 40}},
  "suspicious_analysis": {
    "summary": {"total_analyzed": 5, "suspicious_count": 1},
    "suspicious_vessels": [{"mmsi": 2, "names": ["HAI XUN"], "risk_level": "high", "risk_score": 3}]
  },
  "identity_events": {"summary": {"events_24h": 0, "events_7d": 0}},
  "ais_snapshot": {
    "vessels": [
      {"mmsi": 1, "lat": 24.0, "lon": 121.2, "type_name": "fishing", "speed": 4},
      {"mmsi": 2, "lat": 23.5, "lon": 123.5, "type_name": "cargo", "suspicious": true, "speed": 12},
      {"mmsi": 3, "lat": 10.0, "lon": 100.0, "type_name": "tanker"}
    ]
  }
}`

// switchSource serves data until err is set.
type switchSource struct {
	mu   sync.Mutex
	data []byte
	err  error
}

func (s *switchSource) Fetch(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func (s *switchSource) Describe() string { return "test" }

func (s *switchSource) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func newComposer(t *testing.T, load bool) (*viewmodel.Composer, *switchSource) {
	t.Helper()
	src := &switchSource{data: []byte(fixtureSnapshot)}
	c := viewmodel.NewComposer(viewmodel.Deps{Source: src, Logger: logging.NewNopLogger()}, viewmodel.DefaultOptions())
	if load {
		_, err := c.Refresh(context.Background())
		require.NoError(t, err)
	}
	return c, src
}

func newTestRouter(h *ViewHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/view", h.GetView)
	r.Get("/dark-vessels", h.GetDarkVessels)
	r.Get("/suspicious", h.GetSuspicious)
	r.Get("/identity", h.GetIdentity)
	r.Get("/status", h.GetStatus)
	r.Post("/refresh", h.Refresh)
	r.Get("/zones", h.ListZones)
	r.Get("/zones/{zoneID}/vessels", h.ListZoneVessels)
	r.Get("/vessels", h.ListVessels)
	r.Get("/vessels/{mmsi}", h.GetVessel)
	return r
}

func do(t *testing.T, h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

var errUpstream = errors.New(errors.ErrCodeSnapshotFetch, "upstream returned 500")

//Personal.AI order the ending
