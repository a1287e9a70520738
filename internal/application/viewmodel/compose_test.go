package viewmodel

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GrayZone-Monitor/internal/domain/snapshot"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/suspicious"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/zone"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
)

const testSnapshot = `{
  "updated_at": "2024-05-02T06:00:00Z",
  "vessel_monitoring": {
    "summary": {"avg_daily_dark_vessels": 17.5, "trend_pct": -3.2, "total_days": 2},
    "daily": [
      {"date": "2024-05-01", "total_detections": 100, "dark_vessels": 20},
      {"date": "2024-05-02", "total_detections": 90, "dark_vessels": 15}
    ],
    "alerts": [{"type": "high_dark_vessels", "date": "2024-05-01", "message": "dark vessels up"}]
  },
  "dark_vessels": {
    "regions": {
      "taiwan_strait": {"dark_vessels": 80, "total_detections": 100,
        "dark_details": [{"date": "2024-05-01T03:00:00Z", "lat": 24, "lon": 119, "detections": 5}]}
    },
    "overall": {"dark_vessels": 80, "total_detections": 100}
  },
  "suspicious_analysis": {
    "summary": {"total_analyzed": 50, "suspicious_count": 1, "risk_distribution": {"high": 1}},
    "suspicious_vessels": [
      {"mmsi": 412000001, "names": ["MIN YU 1"], "risk_level": "high", "risk_score": 4, "last_lat": 24.1, "last_lon": 121.3}
    ]
  },
  "identity_events": {
    "summary": {"events_24h": 1, "events_7d": 1},
    "events_24h": [{"mmsi": 1, "timestamp": "2024-05-02T05:00:00Z", "changes": [{"field": "name", "old": "A", "new": "B"}]}],
    "events_7d": []
  },
  "ais_snapshot": {
    "vessels": [
      {"mmsi": 1, "lat": 24.0, "lon": 121.2, "type_name": "fishing", "speed": 4},
      {"mmsi": 2, "lat": 23.5, "lon": 123.5, "type_name": "cargo", "suspicious": true, "speed": 12},
      "garbage"
    ]
  }
}`

const satelliteOnly = `{"updated_at": "2024-05-03T00:00:00Z", "dark_vessels": {"regions": {}}}`

var testNow = time.Date(2024, 5, 2, 6, 0, 0, 0, time.UTC)

func newTestComposer(deps Deps, options ...ComposerOption) *Composer {
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	ids := 0
	options = append([]ComposerOption{
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			ids++
			return "r" + string(rune('0'+ids))
		}),
	}, options...)
	return NewComposer(deps, DefaultOptions(), options...)
}

func decode(t *testing.T, raw string) *snapshot.Snapshot {
	t.Helper()
	s, err := snapshot.Decode([]byte(raw))
	require.NoError(t, err)
	return s
}

func TestCompose_FullSnapshot(t *testing.T) {
	c := newTestComposer(Deps{})
	vm := c.Compose(decode(t, testSnapshot))

	assert.Equal(t, StatusAISLoaded, vm.Status)
	assert.Equal(t, "2024-05-02T06:00:00Z", vm.UpdatedAt)
	assert.Equal(t, testNow, vm.ComposedAt)
	assert.Len(t, vm.Hash, 16)

	assert.Equal(t, 2, vm.Stats.Total)
	assert.Equal(t, 1, vm.Stats.Fishing)
	assert.Equal(t, 1, vm.Stats.Cargo)
	assert.Equal(t, 2, vm.Stats.InZone)
	assert.Equal(t, 1, vm.Stats.Suspicious)
	assert.Equal(t, 1, vm.ZoneCounts[zone.North])
	assert.Equal(t, 1, vm.ZoneCounts[zone.East])

	require.Len(t, vm.Zones, 4)
	for _, z := range vm.Zones {
		assert.Equal(t, vm.ZoneCounts[z.ID], z.Count, z.ID)
		assert.NotEmpty(t, z.Points)
	}

	assert.Equal(t, 80, vm.Dark.Overall)
	assert.True(t, vm.Dark.HasData)
	require.Len(t, vm.Dark.Alerts, 1)
	assert.Equal(t, "dark vessels up", vm.Dark.Alerts[0].Message)

	assert.Equal(t, suspicious.StateFlagged, vm.Suspicious.State)
	require.Len(t, vm.Suspicious.Vessels, 1)
	assert.Equal(t, zone.North, vm.Suspicious.Vessels[0].Zone)

	assert.True(t, vm.Identity.Present)
	assert.Equal(t, 1, vm.Identity.Count24h)
	require.Len(t, vm.Identity.Events, 1)

	assert.Equal(t, 1, vm.SkippedRecords, "the non-object AIS entry is skipped during decoding")
	assert.Equal(t, 2, c.Registry().Len())
}

func TestCompose_Status(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Status
	}{
		{"ais", testSnapshot, StatusAISLoaded},
		{"satellite only", satelliteOnly, StatusSatelliteLoaded},
		{"empty object", `{}`, StatusNoData},
		{"empty ais list", `{"ais_snapshot": {"vessels": []}}`, StatusNoData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(decode(t, tt.raw)))
		})
	}
}

func TestCompose_NilSnapshot(t *testing.T) {
	c := newTestComposer(Deps{})
	vm := c.Compose(nil)

	assert.Equal(t, StatusNoData, vm.Status)
	assert.Equal(t, 0, vm.Stats.Total)
	assert.Len(t, vm.Zones, 4)
	assert.NotNil(t, vm.Dark.Alerts)
	assert.False(t, vm.Identity.Present)
}

func TestCompose_CustomZones(t *testing.T) {
	zones := zone.MustIndex([]zone.Zone{zone.Rect("box", "Box", "#000", 23.0, 121.0, 25.0, 122.0)})
	c := newTestComposer(Deps{Zones: zones})
	vm := c.Compose(decode(t, testSnapshot))

	require.Len(t, vm.Zones, 1)
	assert.Equal(t, 1, vm.ZoneCounts["box"])
	assert.Equal(t, 1, vm.Stats.InZone)
	assert.Same(t, zones, c.Zones())
}

func TestViewModel_ETag(t *testing.T) {
	vm := ViewModel{Hash: "abc"}
	assert.Equal(t, `"abc"`, vm.ETag())
	vm.Stale = true
	assert.Equal(t, `"abc-stale"`, vm.ETag())
}

func TestViewModel_JSONShape(t *testing.T) {
	c := newTestComposer(Deps{})
	vm := c.Compose(decode(t, testSnapshot))

	data, err := json.Marshal(vm)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{"status", "updated_at", "hash", "stats", "zone_counts", "zones", "dark_vessels", "suspicious", "identity", "skipped_records"} {
		assert.Contains(t, doc, key)
	}

	var back ViewModel
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, vm.Status, back.Status)
	assert.Equal(t, vm.Stats.Total, back.Stats.Total)
}

//Personal.AI order the ending
