// Package vessel maintains the latest-report cache of AIS vessels and derives
// per-batch statistics and zone counts from each ingest.
package vessel

import (
	"strings"
)

// Type is the closed vessel classification.
type Type string

const (
	TypeFishing Type = "fishing"
	TypeCargo   Type = "cargo"
	TypeTanker  Type = "tanker"
	TypeOther   Type = "other"
	TypeUnknown Type = "unknown"
)

// AllTypes lists every Type in display order.
var AllTypes = []Type{TypeFishing, TypeCargo, TypeTanker, TypeOther, TypeUnknown}

func (t Type) String() string { return string(t) }

// IsValid reports whether t is one of the closed set.
func (t Type) IsValid() bool {
	switch t {
	case TypeFishing, TypeCargo, TypeTanker, TypeOther, TypeUnknown:
		return true
	default:
		return false
	}
}

// Tracked reports whether t has its own counter in Stats.
func (t Type) Tracked() bool {
	return t == TypeFishing || t == TypeCargo || t == TypeTanker
}

// ClassifyCode maps an AIS ship-and-cargo type code to a Type.
// 30 is fishing, 70-79 cargo, 80-89 tanker; 0 means not reported.
func ClassifyCode(code int) Type {
	switch {
	case code == 0:
		return TypeUnknown
	case code == 30:
		return TypeFishing
	case code >= 70 && code <= 79:
		return TypeCargo
	case code >= 80 && code <= 89:
		return TypeTanker
	default:
		return TypeOther
	}
}

// ParseType resolves a report's type from its type_name, falling back to the
// numeric code when the name is empty.  Unrecognised names are unknown.
func ParseType(name string, code *int) Type {
	n := Type(strings.ToLower(strings.TrimSpace(name)))
	if n == "" {
		if code == nil {
			return TypeUnknown
		}
		return ClassifyCode(*code)
	}
	if n.IsValid() {
		return n
	}
	return TypeUnknown
}

// Position is a WGS84 coordinate.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Record is the last-known state of one vessel.  A Record is replaced
// wholesale on every report for its MMSI; fields are never merged.
type Record struct {
	MMSI       int64    `json:"mmsi"`
	Name       string   `json:"name"`
	Type       Type     `json:"type"`
	Position   Position `json:"position"`
	Speed      *float64 `json:"speed,omitempty"`
	Heading    *float64 `json:"heading,omitempty"`
	Suspicious bool     `json:"suspicious"`
	Zone       string   `json:"zone,omitempty"`
	Hotspot    string   `json:"hotspot,omitempty"`
	LastUpdate string   `json:"last_update,omitempty"`
}

// InZone reports whether the vessel was last seen inside a drill zone.
func (r Record) InZone() bool { return r.Zone != "" }

// Stats summarises one ingested batch.
type Stats struct {
	Total      int          `json:"total"`
	Fishing    int          `json:"fishing"`
	Cargo      int          `json:"cargo"`
	Tanker     int          `json:"tanker"`
	InZone     int          `json:"in_zone"`
	Suspicious int          `json:"suspicious"`
	InHotspot  int          `json:"in_hotspot"`
	Skipped    int          `json:"skipped"`
	AvgSpeed   float64      `json:"avg_speed"`
	ByType     map[Type]int `json:"by_type"`
}

// IngestResult is the output of Registry.Ingest.
type IngestResult struct {
	Stats      Stats          `json:"stats"`
	ZoneCounts map[string]int `json:"zone_counts"`
}

//Personal.AI order the ending
