package vessel

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/turtacn/GrayZone-Monitor/internal/domain/snapshot"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/zone"
)

// Registry maps MMSI to the latest Record.
//
// The mapping is cumulative across ingests: identifiers are added or
// overwritten, never evicted.  Stats and zone counts are derived from the
// current batch only.  Registry is safe for concurrent use; an Ingest becomes
// visible to readers atomically.
type Registry struct {
	zones    *zone.Index
	hotspots *zone.Index

	mu      sync.RWMutex
	records map[int64]Record
}

// NewRegistry returns an empty Registry attributing positions with zones.
// hotspots may be nil.
func NewRegistry(zones, hotspots *zone.Index) *Registry {
	return &Registry{
		zones:    zones,
		hotspots: hotspots,
		records:  make(map[int64]Record),
	}
}

// Ingest applies a batch of AIS reports.
//
// Reports without an MMSI or without a valid position are skipped and
// counted in Stats.Skipped.  Every other report overwrites its registry
// entry and is counted once in Stats.Total, so a batch listing the same MMSI
// twice counts it twice while the registry holds the later report.
func (r *Registry) Ingest(reports []snapshot.AISVessel) IngestResult {
	res := IngestResult{
		Stats: Stats{
			ByType: make(map[Type]int, len(AllTypes)),
		},
		ZoneCounts: make(map[string]int, r.zones.Len()),
	}
	for _, id := range r.zones.IDs() {
		res.ZoneCounts[id] = 0
	}

	batch := make([]Record, 0, len(reports))
	var speedSum float64
	var speedN int

	for _, rep := range reports {
		rec, ok := r.toRecord(rep)
		if !ok {
			res.Stats.Skipped++
			continue
		}
		batch = append(batch, rec)

		res.Stats.Total++
		res.Stats.ByType[rec.Type]++
		switch rec.Type {
		case TypeFishing:
			res.Stats.Fishing++
		case TypeCargo:
			res.Stats.Cargo++
		case TypeTanker:
			res.Stats.Tanker++
		}
		if rec.Zone != "" {
			res.Stats.InZone++
			res.ZoneCounts[rec.Zone]++
		}
		if rec.Hotspot != "" {
			res.Stats.InHotspot++
		}
		if rec.Suspicious {
			res.Stats.Suspicious++
		}
		if rec.Speed != nil {
			speedSum += *rec.Speed
			speedN++
		}
	}
	if speedN > 0 {
		res.Stats.AvgSpeed = math.Round(speedSum/float64(speedN)*10) / 10
	}

	r.mu.Lock()
	for _, rec := range batch {
		r.records[rec.MMSI] = rec
	}
	r.mu.Unlock()

	return res
}

// toRecord validates a raw report and resolves its type and zone.
func (r *Registry) toRecord(rep snapshot.AISVessel) (Record, bool) {
	if rep.MMSI == 0 || rep.Lat == nil || rep.Lon == nil {
		return Record{}, false
	}
	lat, lon := *rep.Lat, *rep.Lon
	if !zone.ValidCoordinate(lat, lon) {
		return Record{}, false
	}

	var code *int
	if rep.TypeCode != nil {
		c := rep.TypeCode.Int()
		code = &c
	}
	name := strings.TrimSpace(rep.Name)
	if name == "" {
		name = "MMSI-" + rep.MMSI.String()
	}

	rec := Record{
		MMSI:       int64(rep.MMSI),
		Name:       name,
		Type:       ParseType(rep.TypeName, code),
		Position:   Position{Lat: lat, Lon: lon},
		Speed:      finite(rep.Speed),
		Heading:    finite(rep.Heading),
		Suspicious: bool(rep.Suspicious),
		Zone:       r.resolveZone(rep.InDrillZone, lat, lon),
		LastUpdate: rep.LastUpdate,
	}
	if r.hotspots != nil {
		rec.Hotspot = r.resolveHotspot(rep.InFishingHotspot, lat, lon)
	}
	return rec, true
}

// resolveZone prefers an upstream tag naming a configured zone and falls back
// to the Zone Index.
func (r *Registry) resolveZone(tag *snapshot.Text, lat, lon float64) string {
	if tag != nil {
		if id := strings.TrimSpace(string(*tag)); id != "" && r.zones.Has(id) {
			return id
		}
	}
	id, _ := r.zones.ZoneContaining(lat, lon)
	return id
}

func (r *Registry) resolveHotspot(tag *snapshot.Text, lat, lon float64) string {
	if tag != nil {
		if id := strings.TrimSpace(string(*tag)); id != "" && r.hotspots.Has(id) {
			return id
		}
	}
	id, _ := r.hotspots.ZoneContaining(lat, lon)
	return id
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	x := *v
	return &x
}

// Get returns the record for mmsi.
func (r *Registry) Get(mmsi int64) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[mmsi]
	return rec, ok
}

// Len returns the number of distinct vessels held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// List returns all records ordered by MMSI.
func (r *Registry) List() []Record {
	return r.filter(func(Record) bool { return true })
}

// InZone returns the records whose last-seen zone is zoneID, ordered by MMSI.
func (r *Registry) InZone(zoneID string) []Record {
	return r.filter(func(rec Record) bool { return rec.Zone == zoneID })
}

func (r *Registry) filter(keep func(Record) bool) []Record {
	r.mu.RLock()
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].MMSI < out[j].MMSI })
	return out
}

//Personal.AI order the ending
