// Package zone holds the static drill-zone geometry and the first-match
// bounding-box lookup used to attribute positions to zones.
package zone

import (
	"math"

	"github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

// Point is a single polygon vertex in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point is a finite WGS84 coordinate.
func (p Point) Valid() bool {
	return ValidCoordinate(p.Lat, p.Lon)
}

// ValidCoordinate reports whether lat/lon are finite and within range.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Zone is a named geographic polygon.  Zones are immutable once an Index has
// been built from them.
type Zone struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Color   string  `json:"color"`
	Polygon []Point `json:"polygon"`
}

// BBox is an axis-aligned bounding box.
type BBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether (lat, lon) lies inside the box, edges included.
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Bounds returns the box spanned by polygon corners 0 and 2.
//
// Only those two opposing corners are read, so the result is exact for
// axis-aligned rectangles and silently wrong for any other shape.
// Polygons with fewer than three vertices yield an empty box.
func (z Zone) Bounds() BBox {
	if len(z.Polygon) < 3 {
		return BBox{MinLat: math.Inf(1), MaxLat: math.Inf(-1), MinLon: math.Inf(1), MaxLon: math.Inf(-1)}
	}
	a, c := z.Polygon[0], z.Polygon[2]
	return BBox{
		MinLat: math.Min(a.Lat, c.Lat),
		MaxLat: math.Max(a.Lat, c.Lat),
		MinLon: math.Min(a.Lon, c.Lon),
		MaxLon: math.Max(a.Lon, c.Lon),
	}
}

// Rect builds a four-corner polygon zone from its extent.  Corners run
// NW, NE, SE, SW so corners 0 and 2 are opposing.
func Rect(id, name, color string, minLat, minLon, maxLat, maxLon float64) Zone {
	return Zone{
		ID:    id,
		Name:  name,
		Color: color,
		Polygon: []Point{
			{Lat: maxLat, Lon: minLon},
			{Lat: maxLat, Lon: maxLon},
			{Lat: minLat, Lon: maxLon},
			{Lat: minLat, Lon: minLon},
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Index
// ─────────────────────────────────────────────────────────────────────────────

// Index answers point-in-zone queries over an ordered zone list.
//
// Lookups are a linear scan in configuration order and the first matching
// zone wins.  If two zones overlap, the one listed first owns the overlap;
// reordering the configuration changes attribution.
type Index struct {
	zones []Zone
	boxes []BBox
	byID  map[string]int
}

// NewIndex validates zones and builds an Index over them in the given order.
func NewIndex(zones []Zone) (*Index, error) {
	ix := &Index{
		zones: make([]Zone, 0, len(zones)),
		boxes: make([]BBox, 0, len(zones)),
		byID:  make(map[string]int, len(zones)),
	}
	for i, z := range zones {
		if z.ID == "" {
			return nil, errors.Newf(errors.ErrCodeZoneConfigInvalid, "zone #%d has no id", i)
		}
		if _, dup := ix.byID[z.ID]; dup {
			return nil, errors.Newf(errors.ErrCodeZoneConfigInvalid, "duplicate zone id %q", z.ID)
		}
		if len(z.Polygon) < 3 {
			return nil, errors.Newf(errors.ErrCodeZoneConfigInvalid,
				"zone %q needs at least 3 vertices, got %d", z.ID, len(z.Polygon))
		}
		for _, p := range z.Polygon {
			if !p.Valid() {
				return nil, errors.Newf(errors.ErrCodeZoneConfigInvalid,
					"zone %q has invalid vertex (%v, %v)", z.ID, p.Lat, p.Lon)
			}
		}
		poly := make([]Point, len(z.Polygon))
		copy(poly, z.Polygon)
		z.Polygon = poly

		ix.byID[z.ID] = len(ix.zones)
		ix.zones = append(ix.zones, z)
		ix.boxes = append(ix.boxes, z.Bounds())
	}
	return ix, nil
}

// MustIndex is NewIndex that panics on invalid input.  Built-in zone tables
// only.
func MustIndex(zones []Zone) *Index {
	ix, err := NewIndex(zones)
	if err != nil {
		panic(err)
	}
	return ix
}

// ZoneContaining returns the id of the first zone whose bounding box contains
// (lat, lon).  ok is false when no zone matches or the coordinate is invalid.
func (ix *Index) ZoneContaining(lat, lon float64) (id string, ok bool) {
	if ix == nil || !ValidCoordinate(lat, lon) {
		return "", false
	}
	for i, b := range ix.boxes {
		if b.Contains(lat, lon) {
			return ix.zones[i].ID, true
		}
	}
	return "", false
}

// Lookup returns the zone with the given id.
func (ix *Index) Lookup(id string) (Zone, bool) {
	if ix == nil {
		return Zone{}, false
	}
	i, ok := ix.byID[id]
	if !ok {
		return Zone{}, false
	}
	return ix.zones[i], true
}

// Has reports whether id names a configured zone.
func (ix *Index) Has(id string) bool {
	_, ok := ix.Lookup(id)
	return ok
}

// Zones returns the zones in lookup order.  The slice is a copy.
func (ix *Index) Zones() []Zone {
	if ix == nil {
		return nil
	}
	out := make([]Zone, len(ix.zones))
	copy(out, ix.zones)
	return out
}

// IDs returns the zone ids in lookup order.
func (ix *Index) IDs() []string {
	if ix == nil {
		return nil
	}
	ids := make([]string, len(ix.zones))
	for i, z := range ix.zones {
		ids[i] = z.ID
	}
	return ids
}

// Len returns the number of zones.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.zones)
}

//Personal.AI order the ending
