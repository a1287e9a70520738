// Package suspicious ranks upstream-scored suspicious vessels for display and
// classifies the analysis outcome.  Scores are never recomputed here.
package suspicious

import (
	"strings"

	"github.com/turtacn/GrayZone-Monitor/internal/domain/snapshot"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/zone"
)

// DefaultLimit is the number of vessels kept for display.
const DefaultLimit = 10

// RiskLevel is the upstream risk classification.
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskNormal   RiskLevel = "normal"
	RiskUnknown  RiskLevel = "unknown"
)

// ParseRiskLevel normalises an upstream level.  Anything outside the known
// set is RiskUnknown.
func ParseRiskLevel(s string) RiskLevel {
	switch l := RiskLevel(strings.ToLower(strings.TrimSpace(s))); l {
	case RiskCritical, RiskHigh, RiskMedium, RiskNormal:
		return l
	default:
		return RiskUnknown
	}
}

// Rank orders levels from most to least severe; unknown ranks lowest.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskCritical:
		return 4
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskNormal:
		return 1
	default:
		return 0
	}
}

// BadgeClass returns the presentation class for a level.
func BadgeClass(l RiskLevel) string {
	switch l {
	case RiskCritical:
		return "risk-critical"
	case RiskHigh:
		return "risk-high"
	case RiskMedium:
		return "risk-medium"
	default:
		return "risk-unknown"
	}
}

// State classifies the analysis outcome.
type State string

const (
	// StateAbsent means the section was missing.
	StateAbsent State = "absent"
	// StateEmpty means the analysis ran over nothing.
	StateEmpty State = "empty"
	// StateNoneFlagged means vessels were analysed and none was flagged.
	StateNoneFlagged State = "analyzed_none_flagged"
	// StateFlagged means at least one vessel was flagged.
	StateFlagged State = "flagged"
)

// Vessel is one ranked entry.
type Vessel struct {
	MMSI                int64     `json:"mmsi"`
	Names               []string  `json:"names"`
	DisplayName         string    `json:"display_name"`
	RiskLevel           RiskLevel `json:"risk_level"`
	RiskScore           float64   `json:"risk_score"`
	Badge               string    `json:"badge"`
	Flags               []string  `json:"flags"`
	Zone                string    `json:"zone,omitempty"`
	LastLat             *float64  `json:"last_lat,omitempty"`
	LastLon             *float64  `json:"last_lon,omitempty"`
	BehavioralThreshold bool      `json:"behavioral_threshold"`
	AbsoluteThreshold   bool      `json:"absolute_threshold"`
	AISAnomalies        int       `json:"ais_anomalies"`
}

// Summary is the pass-through of upstream counters.
type Summary struct {
	TotalAnalyzed       int            `json:"total_analyzed"`
	SuspiciousCount     int            `json:"suspicious_count"`
	BehavioralTriggered int            `json:"behavioral_triggered"`
	AbsoluteTriggered   int            `json:"absolute_triggered"`
	AISAnomalyDetected  int            `json:"ais_anomaly_detected"`
	RiskDistribution    map[string]int `json:"risk_distribution"`
	// DistributionDerived is set when RiskDistribution was counted locally.
	DistributionDerived bool `json:"distribution_derived,omitempty"`
}

// Result is the ranked view.
type Result struct {
	State     State    `json:"state"`
	Summary   Summary  `json:"summary"`
	Vessels   []Vessel `json:"vessels"`
	Total     int      `json:"total"`
	Truncated bool     `json:"truncated"`
}

// Rank builds the display list from section.
//
// Upstream order is kept as is and truncated to limit; a non-positive limit
// uses DefaultLimit.  zones may be nil, in which case no zone is attached.
func Rank(section *snapshot.SuspiciousAnalysis, limit int, zones *zone.Index) Result {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if section == nil {
		return Result{State: StateAbsent, Vessels: []Vessel{}, Summary: Summary{RiskDistribution: map[string]int{}}}
	}

	res := Result{
		Summary: summarize(section),
		Total:   len(section.Vessels),
	}
	res.State = classify(res.Total, res.Summary.TotalAnalyzed)

	n := len(section.Vessels)
	if n > limit {
		n = limit
		res.Truncated = true
	}
	res.Vessels = make([]Vessel, 0, n)
	for _, v := range section.Vessels[:n] {
		res.Vessels = append(res.Vessels, toVessel(v, zones))
	}
	return res
}

func classify(flagged, analyzed int) State {
	switch {
	case flagged > 0:
		return StateFlagged
	case analyzed > 0:
		return StateNoneFlagged
	default:
		return StateEmpty
	}
}

func summarize(section *snapshot.SuspiciousAnalysis) Summary {
	s := Summary{}
	if up := section.Summary; up != nil {
		s.TotalAnalyzed = up.TotalAnalyzed.Int()
		s.SuspiciousCount = up.SuspiciousCount.Int()
		s.BehavioralTriggered = up.BehavioralTriggered.Int()
		s.AbsoluteTriggered = up.AbsoluteTriggered.Int()
		s.AISAnomalyDetected = up.AISAnomalyDetected.Int()
		if up.RiskDistribution != nil {
			s.RiskDistribution = make(map[string]int, len(up.RiskDistribution))
			for k, v := range up.RiskDistribution {
				s.RiskDistribution[k] = v.Int()
			}
		}
	} else {
		s.SuspiciousCount = len(section.Vessels)
	}
	if s.RiskDistribution == nil {
		s.RiskDistribution = Distribution(section.Vessels)
		s.DistributionDerived = true
	}
	return s
}

// Distribution counts vessels per normalised risk level.
func Distribution(vessels []snapshot.SuspiciousVessel) map[string]int {
	out := make(map[string]int)
	for _, v := range vessels {
		out[string(ParseRiskLevel(v.RiskLevel))]++
	}
	return out
}

func toVessel(v snapshot.SuspiciousVessel, zones *zone.Index) Vessel {
	level := ParseRiskLevel(v.RiskLevel)
	out := Vessel{
		MMSI:                int64(v.MMSI),
		Names:               nonEmpty(v.Names),
		RiskLevel:           level,
		RiskScore:           v.RiskScore,
		Badge:               BadgeClass(level),
		Flags:               nonEmpty(v.Flags),
		LastLat:             v.LastLat,
		LastLon:             v.LastLon,
		BehavioralThreshold: bool(v.BehavioralThreshold),
		AbsoluteThreshold:   bool(v.AbsoluteThreshold),
		AISAnomalies:        len(v.AISAnomalies),
	}
	out.DisplayName = "MMSI-" + v.MMSI.String()
	if len(out.Names) > 0 {
		out.DisplayName = out.Names[0]
	}
	if v.LastLat != nil && v.LastLon != nil {
		out.Zone, _ = zones.ZoneContaining(*v.LastLat, *v.LastLon)
	}
	return out
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

//Personal.AI order the ending
