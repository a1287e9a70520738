// Package snapshot defines the root JSON document polled from upstream and
// its decoding at the ingestion boundary.
//
// Every section is optional and is nil when absent or unusable.  Individual
// records that fail to decode are skipped and counted; they never fail the
// snapshot as a whole.
package snapshot

// Snapshot is one complete, self-consistent upstream payload.
type Snapshot struct {
	UpdatedAt          string              `json:"updated_at"`
	VesselMonitoring   *VesselMonitoring   `json:"vessel_monitoring,omitempty"`
	DarkVessels        *DarkVessels        `json:"dark_vessels,omitempty"`
	SuspiciousAnalysis *SuspiciousAnalysis `json:"suspicious_analysis,omitempty"`
	IdentityEvents     *IdentityEvents     `json:"identity_events,omitempty"`
	AISSnapshot        *AISSnapshot        `json:"ais_snapshot,omitempty"`

	// Hash is the xxh3 digest of the raw payload.
	Hash string `json:"-"`

	// Size is the raw payload length in bytes.
	Size int `json:"-"`

	// Issues lists sections dropped and records skipped during decoding.
	Issues []Issue `json:"-"`
}

// Issue describes a defect tolerated while decoding.
type Issue struct {
	Section string `json:"section"`
	Skipped int    `json:"skipped,omitempty"`
	Reason  string `json:"reason"`
}

// HasAIS reports whether the snapshot carries at least one AIS vessel report.
func (s *Snapshot) HasAIS() bool {
	return s != nil && s.AISSnapshot != nil && len(s.AISSnapshot.Vessels) > 0
}

// HasSatellite reports whether the snapshot carries satellite-derived data,
// either the vessel-monitoring summary or dark-vessel regions.
func (s *Snapshot) HasSatellite() bool {
	return s != nil && (s.VesselMonitoring != nil || s.DarkVessels != nil)
}

// SkippedRecords sums skipped records over all issues.
func (s *Snapshot) SkippedRecords() int {
	n := 0
	for _, is := range s.Issues {
		n += is.Skipped
	}
	return n
}

// ─────────────────────────────────────────────────────────────────────────────
// vessel_monitoring
// ─────────────────────────────────────────────────────────────────────────────

// VesselMonitoring is the satellite detection summary over a date range.
type VesselMonitoring struct {
	Summary *MonitoringSummary `json:"summary,omitempty"`
	Daily   []DailyDetection   `json:"daily"`
	Alerts  []Alert            `json:"alerts"`
}

// MonitoringSummary aggregates the daily series upstream.  TrendPct is a
// pointer because its absence triggers a local derivation.
type MonitoringSummary struct {
	AvgDailyDarkVessels float64  `json:"avg_daily_dark_vessels"`
	AvgDailyDetections  float64  `json:"avg_daily_detections"`
	TrendPct            *float64 `json:"trend_pct,omitempty"`
	CHNPresenceHours    float64  `json:"chn_presence_hours"`
	CHNDrillZoneRecords Count    `json:"chn_drill_zone_records"`
	TotalFishingHours   float64  `json:"total_fishing_hours"`
	TotalDays           Count    `json:"total_days"`
}

// DailyDetection is one day of satellite detections.
type DailyDetection struct {
	Date            string `json:"date"`
	TotalDetections Count  `json:"total_detections"`
	DarkVessels     Count  `json:"dark_vessels"`
}

// Alert is an upstream alert.  Only Message is required.
type Alert struct {
	Type    string `json:"type,omitempty"`
	Date    string `json:"date,omitempty"`
	Message string `json:"message"`
}

// ─────────────────────────────────────────────────────────────────────────────
// dark_vessels
// ─────────────────────────────────────────────────────────────────────────────

// DarkVessels holds SAR detections keyed by region id.
type DarkVessels struct {
	Regions map[string]DarkRegion `json:"regions"`
	Overall *DarkOverall          `json:"overall,omitempty"`
}

// DarkOverall is the upstream total across regions.
type DarkOverall struct {
	DarkVessels     Count `json:"dark_vessels"`
	TotalDetections Count `json:"total_detections"`
}

// DarkRegion is one region's dark-vessel totals and detail records.
type DarkRegion struct {
	Name            string       `json:"name,omitempty"`
	DarkVessels     Count        `json:"dark_vessels"`
	TotalDetections Count        `json:"total_detections"`
	DarkDetails     []DarkDetail `json:"dark_details"`
}

// DarkDetail is a single dark detection.  Detections defaults to 1.
type DarkDetail struct {
	Date       string   `json:"date"`
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
	Detections *Count   `json:"detections,omitempty"`
}

// Day returns the calendar-day prefix of Date.
func (d DarkDetail) Day() string {
	if len(d.Date) > 10 {
		return d.Date[:10]
	}
	return d.Date
}

// DetectionCount returns the detection count, defaulting to 1.
func (d DarkDetail) DetectionCount() int {
	if d.Detections == nil {
		return 1
	}
	return d.Detections.Int()
}

// ─────────────────────────────────────────────────────────────────────────────
// suspicious_analysis
// ─────────────────────────────────────────────────────────────────────────────

// SuspiciousAnalysis is the upstream risk classification.
type SuspiciousAnalysis struct {
	Summary *SuspiciousSummary `json:"summary,omitempty"`
	Vessels []SuspiciousVessel `json:"suspicious_vessels"`
}

// SuspiciousSummary carries the upstream counters.
type SuspiciousSummary struct {
	TotalAnalyzed       Count            `json:"total_analyzed"`
	SuspiciousCount     Count            `json:"suspicious_count"`
	BehavioralTriggered Count            `json:"behavioral_triggered"`
	AbsoluteTriggered   Count            `json:"absolute_triggered"`
	AISAnomalyDetected  Count            `json:"ais_anomaly_detected"`
	RiskDistribution    map[string]Count `json:"risk_distribution,omitempty"`
}

// SuspiciousVessel is one flagged vessel, already scored upstream.
type SuspiciousVessel struct {
	MMSI                MMSI         `json:"mmsi"`
	Names               []string     `json:"names"`
	RiskLevel           string       `json:"risk_level"`
	RiskScore           float64      `json:"risk_score"`
	Flags               []string     `json:"flags"`
	LastLat             *float64     `json:"last_lat,omitempty"`
	LastLon             *float64     `json:"last_lon,omitempty"`
	BehavioralThreshold Flag         `json:"behavioral_threshold"`
	AbsoluteThreshold   Flag         `json:"absolute_threshold"`
	AISAnomalies        []AISAnomaly `json:"ais_anomalies,omitempty"`
}

// AISAnomaly is an upstream AIS anomaly note.
type AISAnomaly struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// identity_events
// ─────────────────────────────────────────────────────────────────────────────

// IdentityEvents holds identity-change events in two windows.
type IdentityEvents struct {
	Summary  *IdentitySummary `json:"summary,omitempty"`
	Events24 []IdentityEvent  `json:"events_24h"`
	Events7d []IdentityEvent  `json:"events_7d"`
}

// IdentitySummary carries upstream window counts.  Nil fields fall back to
// list lengths.
type IdentitySummary struct {
	Events24h *Count `json:"events_24h,omitempty"`
	Events7d  *Count `json:"events_7d,omitempty"`
}

// IdentityEvent is an immutable record of metadata changes on one vessel.
type IdentityEvent struct {
	MMSI        MMSI          `json:"mmsi"`
	Name        string        `json:"name,omitempty"`
	Timestamp   string        `json:"timestamp"`
	Changes     []FieldChange `json:"changes"`
	InDrillZone Flag          `json:"in_drill_zone"`
	MultiField  Flag          `json:"multi_field"`
	Lat         *float64      `json:"lat,omitempty"`
	Lon         *float64      `json:"lon,omitempty"`
}

// FieldChange is a single field transition.
type FieldChange struct {
	Field string `json:"field"`
	Old   Text   `json:"old"`
	New   Text   `json:"new"`
}

// ─────────────────────────────────────────────────────────────────────────────
// ais_snapshot
// ─────────────────────────────────────────────────────────────────────────────

// AISSnapshot is the latest AIS report per vessel.
type AISSnapshot struct {
	UpdatedAt string      `json:"updated_at,omitempty"`
	Vessels   []AISVessel `json:"vessels"`
}

// AISVessel is one raw AIS report.  MMSI zero or a nil coordinate marks the
// report as malformed for registry purposes.
type AISVessel struct {
	MMSI             MMSI     `json:"mmsi"`
	Lat              *float64 `json:"lat,omitempty"`
	Lon              *float64 `json:"lon,omitempty"`
	Name             string   `json:"name,omitempty"`
	TypeCode         *Count   `json:"type,omitempty"`
	TypeName         string   `json:"type_name,omitempty"`
	Speed            *float64 `json:"speed,omitempty"`
	Heading          *float64 `json:"heading,omitempty"`
	Suspicious       Flag     `json:"suspicious"`
	InDrillZone      *Text    `json:"in_drill_zone,omitempty"`
	InFishingHotspot *Text    `json:"in_fishing_hotspot,omitempty"`
	LastUpdate       string   `json:"last_update,omitempty"`
}

//Personal.AI order the ending
