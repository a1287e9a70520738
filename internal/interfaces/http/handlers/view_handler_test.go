package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GrayZone-Monitor/internal/application/viewmodel"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
)

func TestGetView_NotLoaded(t *testing.T) {
	c, _ := newComposer(t, false)
	router := newTestRouter(NewViewHandler(c, logging.NewNopLogger()))

	for _, path := range []string{"/view", "/dark-vessels", "/suspicious", "/identity"} {
		w := do(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)

		var resp NotLoadedResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "VIEW_001", resp.Code)
		assert.Equal(t, viewmodel.StatusPending, resp.Status)
	}
}

func TestGetView_Loaded(t *testing.T) {
	c, _ := newComposer(t, true)
	router := newTestRouter(NewViewHandler(c, logging.NewNopLogger()))

	w := do(t, router, http.MethodGet, "/view", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))

	var vm viewmodel.ViewModel
	decodeBody(t, w, &vm)
	assert.Equal(t, viewmodel.StatusAISLoaded, vm.Status)
	assert.Equal(t, 3, vm.Stats.Total)
	assert.Equal(t, 1, vm.ZoneCounts["north"])
	assert.Equal(t, 1, vm.ZoneCounts["east"])
	assert.False(t, vm.Stale)
}

func TestGetView_ConditionalRequest(t *testing.T) {
	c, _ := newComposer(t, true)
	router := newTestRouter(NewViewHandler(c, logging.NewNopLogger()))

	etag := do(t, router, http.MethodGet, "/view", nil).Header().Get("ETag")
	require.NotEmpty(t, etag)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"exact", etag, http.StatusNotModified},
		{"weak", "W/" + etag, http.StatusNotModified},
		{"list", `"other", ` + etag, http.StatusNotModified},
		{"wildcard", "*", http.StatusNotModified},
		{"mismatch", `"other"`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodGet, "/view", http.Header{"If-None-Match": {tt.header}})
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusNotModified {
				assert.Empty(t, w.Body.String())
			}
		})
	}
}

func TestGetView_StaleAfterFailure(t *testing.T) {
	c, src := newComposer(t, true)
	router := newTestRouter(NewViewHandler(c, logging.NewNopLogger()))
	freshTag := do(t, router, http.MethodGet, "/view", nil).Header().Get("ETag")

	src.fail(errUpstream)
	w := do(t, router, http.MethodPost, "/refresh", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	var errResp ErrorResponse
	decodeBody(t, w, &errResp)
	assert.Equal(t, "VIEW_003", errResp.Code)

	w = do(t, router, http.MethodGet, "/view", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, freshTag, w.Header().Get("ETag"))

	var vm viewmodel.ViewModel
	decodeBody(t, w, &vm)
	assert.Equal(t, viewmodel.StatusLoadFailed, vm.Status)
	assert.True(t, vm.Stale)
	assert.Equal(t, 3, vm.Stats.Total)
}

func TestSections(t *testing.T) {
	c, _ := newComposer(t, true)
	router := newTestRouter(NewViewHandler(c, logging.NewNopLogger()))

	w := do(t, router, http.MethodGet, "/dark-vessels", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "12")

	w = do(t, router, http.MethodGet, "/suspicious", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "HAI XUN")

	w = do(t, router, http.MethodGet, "/identity", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetStatus(t *testing.T) {
	c, src := newComposer(t, false)
	router := newTestRouter(NewViewHandler(c, logging.NewNopLogger()))

	var st viewmodel.RefreshState
	w := do(t, router, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &st)
	assert.Equal(t, viewmodel.StatusPending, st.Status)
	assert.False(t, st.Loaded)

	src.fail(errUpstream)
	do(t, router, http.MethodPost, "/refresh", nil)

	w = do(t, router, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &st)
	assert.Equal(t, viewmodel.StatusLoadFailed, st.Status)
	assert.Equal(t, "SNAP_001", st.ErrorCode)
	assert.Equal(t, int64(1), st.Failures)
}

func TestRefresh_Success(t *testing.T) {
	c, _ := newComposer(t, false)
	router := newTestRouter(NewViewHandler(c, logging.NewNopLogger()))

	w := do(t, router, http.MethodPost, "/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var st viewmodel.RefreshState
	decodeBody(t, w, &st)
	assert.True(t, st.Loaded)
	assert.Equal(t, viewmodel.StatusAISLoaded, st.Status)
	assert.NotEmpty(t, st.RefreshID)
}

func TestListZones(t *testing.T) {
	t.Run("before load", func(t *testing.T) {
		c, _ := newComposer(t, false)
		router := newTestRouter(NewViewHandler(c, logging.NewNopLogger()))

		var resp ZonesResponse
		w := do(t, router, http.MethodGet, "/zones", nil)
		require.Equal(t, http.StatusOK, w.Code)
		decodeBody(t, w, &resp)
		require.Len(t, resp.Zones, 4)
		assert.NotEmpty(t, resp.Hotspots)
		for _, z := range resp.Zones {
			assert.Zero(t, z.Count)
		}
	})

	t.Run("after load", func(t *testing.T) {
		c, _ := newComposer(t, true)
		router := newTestRouter(NewViewHandler(c, logging.NewNopLogger()))

		var resp ZonesResponse
		decodeBody(t, do(t, router, http.MethodGet, "/zones", nil), &resp)
		counts := map[string]int{}
		for _, z := range resp.Zones {
			counts[z.ID] = z.Count
		}
		assert.Equal(t, map[string]int{"north": 1, "east": 1, "south": 0, "west": 0}, counts)
	})
}

func TestListZoneVessels(t *testing.T) {
	c, _ := newComposer(t, true)
	router := newTestRouter(NewViewHandler(c, logging.NewNopLogger()))

	var resp VesselsResponse
	w := do(t, router, http.MethodGet, "/zones/north/vessels", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(1), resp.Vessels[0].MMSI)

	w = do(t, router, http.MethodGet, "/zones/atlantis/vessels", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var errResp ErrorResponse
	decodeBody(t, w, &errResp)
	assert.Equal(t, "ZONE_002", errResp.Code)
	assert.Equal(t, "atlantis", errResp.Detail)
}

func TestListVessels_Filters(t *testing.T) {
	c, _ := newComposer(t, true)
	router := newTestRouter(NewViewHandler(c, logging.NewNopLogger()))

	tests := []struct {
		query string
		want  []int64
	}{
		{"", []int64{1, 2, 3}},
		{"?type=fishing", []int64{1}},
		{"?type=TANKER", []int64{3}},
		{"?suspicious=true", []int64{2}},
		{"?in_zone=true", []int64{1, 2}},
		{"?in_zone=true&type=cargo", []int64{2}},
		{"?type=other", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var resp VesselsResponse
			w := do(t, router, http.MethodGet, "/vessels"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			decodeBody(t, w, &resp)

			got := make([]int64, 0, len(resp.Vessels))
			for _, v := range resp.Vessels {
				got = append(got, v.MMSI)
			}
			assert.ElementsMatch(t, tt.want, got)
			assert.Equal(t, len(tt.want), resp.Total)
		})
	}

	w := do(t, router, http.MethodGet, "/vessels?type=submarine", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetVessel(t *testing.T) {
	c, _ := newComposer(t, true)
	router := newTestRouter(NewViewHandler(c, logging.NewNopLogger()))

	w := do(t, router, http.MethodGet, "/vessels/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"suspicious":true`)

	tests := []struct {
		path string
		code int
		err  string
	}{
		{"/vessels/99", http.StatusNotFound, "VIEW_002"},
		{"/vessels/abc", http.StatusBadRequest, "COMMON_002"},
		{"/vessels/-4", http.StatusBadRequest, "COMMON_002"},
	}
	for _, tt := range tests {
		w := do(t, router, http.MethodGet, tt.path, nil)
		assert.Equal(t, tt.code, w.Code, tt.path)
		var resp ErrorResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, tt.err, resp.Code, tt.path)
	}
}

//Personal.AI order the ending
