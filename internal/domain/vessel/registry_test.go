package vessel

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GrayZone-Monitor/internal/domain/snapshot"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/zone"
)

func f64(v float64) *float64 { return &v }

func txt(s string) *snapshot.Text {
	t := snapshot.Text(s)
	return &t
}

func code(c int) *snapshot.Count {
	n := snapshot.Count(c)
	return &n
}

func newTestRegistry() *Registry {
	return NewRegistry(zone.MustIndex(zone.DefaultDrillZones()), zone.MustIndex(zone.DefaultFishingHotspots()))
}

func TestIngest_SingleFishingVesselInNorth(t *testing.T) {
	r := newTestRegistry()

	res := r.Ingest([]snapshot.AISVessel{
		{MMSI: 1, Lat: f64(24.0), Lon: f64(121.2), TypeName: "fishing"},
	})

	assert.Equal(t, 1, res.Stats.Total)
	assert.Equal(t, 1, res.Stats.Fishing)
	assert.Equal(t, 1, res.Stats.InZone)
	assert.Equal(t, 1, res.ZoneCounts[zone.North])
	assert.Equal(t, 0, res.ZoneCounts[zone.East])
	assert.Len(t, res.ZoneCounts, 4, "every configured zone is reported")

	rec, ok := r.Get(1)
	require.True(t, ok)
	assert.Equal(t, zone.North, rec.Zone)
	assert.Equal(t, "MMSI-1", rec.Name)
}

func TestIngest_Counters(t *testing.T) {
	r := newTestRegistry()

	res := r.Ingest([]snapshot.AISVessel{
		{MMSI: 1, Lat: f64(24.0), Lon: f64(121.2), TypeName: "fishing", Speed: f64(4)},
		{MMSI: 2, Lat: f64(23.5), Lon: f64(123.5), TypeName: "Cargo", Suspicious: true, Speed: f64(12)},
		{MMSI: 3, Lat: f64(10.0), Lon: f64(140.0), TypeCode: code(84)},
		{MMSI: 4, Lat: f64(22.5), Lon: f64(120.5), TypeName: "other"},
		{MMSI: 5, Lat: f64(22.5), Lon: f64(120.5), TypeName: "submarine"},
		{MMSI: 0, Lat: f64(24.0), Lon: f64(121.2)},
		{MMSI: 6, Lon: f64(121.2)},
		{MMSI: 7, Lat: f64(math.NaN()), Lon: f64(121.2)},
	})

	s := res.Stats
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 1, s.Fishing)
	assert.Equal(t, 1, s.Cargo)
	assert.Equal(t, 1, s.Tanker)
	assert.Equal(t, 2, s.InZone)
	assert.Equal(t, 1, s.Suspicious)
	assert.Equal(t, 3, s.Skipped)
	assert.Equal(t, 8.0, s.AvgSpeed)
	assert.Equal(t, 1, s.ByType[TypeOther])
	assert.Equal(t, 1, s.ByType[TypeUnknown])
	assert.Equal(t, 3, s.InHotspot, "kuroshio_east holds vessel 1, southwest holds 4 and 5")
	assert.Equal(t, 1, res.ZoneCounts[zone.North])
	assert.Equal(t, 1, res.ZoneCounts[zone.East])
	assert.Equal(t, 5, r.Len())
}

func TestIngest_PreTaggedZone(t *testing.T) {
	r := newTestRegistry()

	res := r.Ingest([]snapshot.AISVessel{
		// Tag wins over geometry.
		{MMSI: 1, Lat: f64(24.0), Lon: f64(121.2), InDrillZone: txt(zone.South)},
		// Unknown tag falls back to geometry.
		{MMSI: 2, Lat: f64(24.0), Lon: f64(121.2), InDrillZone: txt("central")},
		// Empty tag falls back too.
		{MMSI: 3, Lat: f64(0), Lon: f64(0), InDrillZone: txt("")},
	})

	assert.Equal(t, 1, res.ZoneCounts[zone.South])
	assert.Equal(t, 1, res.ZoneCounts[zone.North])
	assert.Equal(t, 2, res.Stats.InZone)
	_, hasCentral := res.ZoneCounts["central"]
	assert.False(t, hasCentral)
}

func TestIngest_Idempotent(t *testing.T) {
	r := newTestRegistry()
	batch := []snapshot.AISVessel{
		{MMSI: 1, Lat: f64(24.0), Lon: f64(121.2), TypeName: "fishing"},
		{MMSI: 2, Lat: f64(21.0), Lon: f64(120.0), TypeName: "tanker", Suspicious: true},
		{MMSI: 3, Lat: f64(24.0), Lon: f64(119.0)},
	}

	first := r.Ingest(batch)
	listFirst := r.List()
	second := r.Ingest(batch)

	assert.Equal(t, first, second)
	assert.Equal(t, listFirst, r.List())
	assert.Equal(t, 3, r.Len())
}

func TestIngest_OverwritesNotMerges(t *testing.T) {
	r := newTestRegistry()

	r.Ingest([]snapshot.AISVessel{{MMSI: 9, Lat: f64(24.0), Lon: f64(121.2), Name: "OLD", TypeName: "fishing", Speed: f64(3), Suspicious: true}})
	res := r.Ingest([]snapshot.AISVessel{{MMSI: 9, Lat: f64(10), Lon: f64(10)}})

	rec, ok := r.Get(9)
	require.True(t, ok)
	assert.Equal(t, "MMSI-9", rec.Name)
	assert.Equal(t, TypeUnknown, rec.Type)
	assert.Nil(t, rec.Speed)
	assert.False(t, rec.Suspicious)
	assert.Empty(t, rec.Zone)

	assert.Equal(t, 1, res.Stats.Total, "stats are per batch")
	assert.Equal(t, 0, res.Stats.Suspicious)
}

func TestIngest_CumulativeRegistry(t *testing.T) {
	r := newTestRegistry()

	r.Ingest([]snapshot.AISVessel{{MMSI: 1, Lat: f64(1), Lon: f64(1)}})
	res := r.Ingest([]snapshot.AISVessel{{MMSI: 2, Lat: f64(2), Lon: f64(2)}})

	assert.Equal(t, 1, res.Stats.Total)
	assert.Equal(t, 2, r.Len())
	_, ok := r.Get(1)
	assert.True(t, ok)
}

func TestIngest_DuplicateInBatch(t *testing.T) {
	r := newTestRegistry()

	res := r.Ingest([]snapshot.AISVessel{
		{MMSI: 1, Lat: f64(24.0), Lon: f64(121.2), Name: "FIRST"},
		{MMSI: 1, Lat: f64(24.0), Lon: f64(121.2), Name: "SECOND"},
	})

	assert.Equal(t, 2, res.Stats.Total)
	assert.Equal(t, 1, r.Len())
	rec, _ := r.Get(1)
	assert.Equal(t, "SECOND", rec.Name)
}

func TestIngest_EmptyBatch(t *testing.T) {
	r := newTestRegistry()

	res := r.Ingest(nil)
	assert.Zero(t, res.Stats.Total)
	assert.Zero(t, res.Stats.AvgSpeed)
	assert.Len(t, res.ZoneCounts, 4)
}

func TestRegistry_InZone(t *testing.T) {
	r := newTestRegistry()
	r.Ingest([]snapshot.AISVessel{
		{MMSI: 3, Lat: f64(24.0), Lon: f64(121.2)},
		{MMSI: 1, Lat: f64(25.0), Lon: f64(121.0)},
		{MMSI: 2, Lat: f64(21.0), Lon: f64(120.0)},
	})

	north := r.InZone(zone.North)
	require.Len(t, north, 2)
	assert.Equal(t, int64(1), north[0].MMSI)
	assert.Equal(t, int64(3), north[1].MMSI)
	assert.Empty(t, r.InZone("central"))
}

func TestRegistry_ConcurrentReaders(t *testing.T) {
	r := newTestRegistry()
	batch := []snapshot.AISVessel{
		{MMSI: 1, Lat: f64(24.0), Lon: f64(121.2)},
		{MMSI: 2, Lat: f64(21.0), Lon: f64(120.0)},
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Ingest(batch)
		}()
		go func() {
			defer wg.Done()
			n := len(r.List())
			assert.True(t, n == 0 || n == 2)
		}()
	}
	wg.Wait()
	assert.Equal(t, 2, r.Len())
}

func TestParseType(t *testing.T) {
	c30, c75, c0, c52 := 30, 75, 0, 52
	cases := []struct {
		name string
		code *int
		want Type
	}{
		{"fishing", nil, TypeFishing},
		{" TANKER ", nil, TypeTanker},
		{"yacht", nil, TypeUnknown},
		{"", &c30, TypeFishing},
		{"", &c75, TypeCargo},
		{"", &c0, TypeUnknown},
		{"", &c52, TypeOther},
		{"", nil, TypeUnknown},
		{"cargo", &c30, TypeCargo},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseType(tc.name, tc.code), "%q", tc.name)
	}
}

func TestClassifyCode(t *testing.T) {
	assert.Equal(t, TypeFishing, ClassifyCode(30))
	assert.Equal(t, TypeCargo, ClassifyCode(70))
	assert.Equal(t, TypeCargo, ClassifyCode(79))
	assert.Equal(t, TypeTanker, ClassifyCode(80))
	assert.Equal(t, TypeTanker, ClassifyCode(89))
	assert.Equal(t, TypeOther, ClassifyCode(90))
	assert.Equal(t, TypeUnknown, ClassifyCode(0))
}

func TestType_Helpers(t *testing.T) {
	assert.True(t, TypeFishing.Tracked())
	assert.False(t, TypeOther.Tracked())
	assert.True(t, TypeUnknown.IsValid())
	assert.False(t, Type("boat").IsValid())
	assert.Equal(t, "cargo", TypeCargo.String())
}

//Personal.AI order the ending
