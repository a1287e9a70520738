// Package viewmodel composes one snapshot into the view the dashboard renders
// and owns the refresh lifecycle around it.
package viewmodel

import (
	"time"

	"github.com/turtacn/GrayZone-Monitor/internal/domain/darkvessel"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/identity"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/snapshot"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/suspicious"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/vessel"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/zone"
)

// Status is the top-level load tag.
type Status string

const (
	StatusAISLoaded       Status = "AIS+satellite loaded"
	StatusSatelliteLoaded Status = "satellite loaded"
	StatusNoData          Status = "no data"
	StatusLoadFailed      Status = "load failed"
	// StatusPending is reported before the first refresh attempt completes.
	StatusPending Status = "pending"
)

// StatusFor picks the status of a decoded snapshot: AIS beats satellite
// beats nothing.
func StatusFor(s *snapshot.Snapshot) Status {
	switch {
	case s.HasAIS():
		return StatusAISLoaded
	case s.HasSatellite():
		return StatusSatelliteLoaded
	default:
		return StatusNoData
	}
}

// ZoneView is a drill zone with its vessel count for the current batch.
type ZoneView struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Color  string       `json:"color"`
	Bounds zone.BBox    `json:"bounds"`
	Points []zone.Point `json:"polygon"`
	Count  int          `json:"count"`
}

// ViewModel is everything derived from exactly one snapshot.
type ViewModel struct {
	Status     Status    `json:"status"`
	UpdatedAt  string    `json:"updated_at"`
	ComposedAt time.Time `json:"composed_at"`
	Hash       string    `json:"hash"`
	RefreshID  string    `json:"refresh_id,omitempty"`

	// Stale is set on a presented view when the latest refresh failed and
	// this view is the last good one.
	Stale bool `json:"stale,omitempty"`

	Stats      vessel.Stats       `json:"stats"`
	ZoneCounts map[string]int     `json:"zone_counts"`
	Zones      []ZoneView         `json:"zones"`
	Dark       darkvessel.Summary `json:"dark_vessels"`
	Suspicious suspicious.Result  `json:"suspicious"`
	Identity   identity.Result    `json:"identity"`

	SkippedRecords int              `json:"skipped_records"`
	Issues         []snapshot.Issue `json:"issues,omitempty"`
}

// ETag is the strong entity tag for the view, distinct for a stale view of
// the same content.
func (v *ViewModel) ETag() string {
	if v.Stale {
		return `"` + v.Hash + `-stale"`
	}
	return `"` + v.Hash + `"`
}

// RefreshState describes the most recent refresh attempt.
type RefreshState struct {
	Status      Status     `json:"status"`
	Source      string     `json:"source,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	ErrorCode   string     `json:"error_code,omitempty"`
	LastAttempt *time.Time `json:"last_attempt,omitempty"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	RefreshID   string     `json:"refresh_id,omitempty"`
	Loaded      bool       `json:"loaded"`
	FromCache   bool       `json:"from_cache,omitempty"`
	Refreshes   int64      `json:"refreshes"`
	Failures    int64      `json:"failures"`
}

// Failed reports whether the latest attempt failed.
func (s RefreshState) Failed() bool { return s.Status == StatusLoadFailed }

// ViewComposedEvent is published after every successful refresh.
type ViewComposedEvent struct {
	RefreshID string       `json:"refresh_id"`
	Status    Status       `json:"status"`
	UpdatedAt string       `json:"updated_at"`
	Hash      string       `json:"hash"`
	Stats     vessel.Stats `json:"stats"`
}

// DarkAlertEvent is published once per dark-vessel alert of a new snapshot.
type DarkAlertEvent struct {
	RefreshID string           `json:"refresh_id"`
	UpdatedAt string           `json:"updated_at"`
	Alert     darkvessel.Alert `json:"alert"`
}

func zoneViews(ix *zone.Index, counts map[string]int) []ZoneView {
	zones := ix.Zones()
	out := make([]ZoneView, 0, len(zones))
	for _, z := range zones {
		out = append(out, ZoneView{
			ID:     z.ID,
			Name:   z.Name,
			Color:  z.Color,
			Bounds: z.Bounds(),
			Points: z.Polygon,
			Count:  counts[z.ID],
		})
	}
	return out
}

//Personal.AI order the ending
