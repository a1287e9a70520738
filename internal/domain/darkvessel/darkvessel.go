// Package darkvessel turns SAR dark-vessel detections and the satellite
// monitoring series into per-date totals, per-region ratios, severity bands
// and sparkline bar heights.
package darkvessel

import (
	"fmt"
	"math"
	"sort"

	"github.com/turtacn/GrayZone-Monitor/internal/domain/snapshot"
)

// Severity is the dark-ratio band of a region.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Band thresholds are strict: a ratio of exactly 0.8 is medium.
const (
	highThreshold   = 0.8
	mediumThreshold = 0.5
)

// AlertTypeSpike marks alerts raised locally from the daily series.
const AlertTypeSpike = "high_dark_vessels"

// Options tunes aggregation.
type Options struct {
	SparklineMaxHeight int
	SparklineFloor     int

	// SpikeFactor is the multiple of the series mean the latest day must
	// exceed to raise a spike alert.  Zero disables spike alerts.
	SpikeFactor float64

	// TrendWindow is the number of days compared for trend derivation.
	TrendWindow int
}

// DefaultOptions returns the display defaults.
func DefaultOptions() Options {
	return Options{
		SparklineMaxHeight: 40,
		SparklineFloor:     2,
		SpikeFactor:        1.5,
		TrendWindow:        7,
	}
}

// DatePoint is the detection total of one calendar day across regions.
type DatePoint struct {
	Date       string `json:"date"`
	Detections int    `json:"detections"`
}

// Region is one region's dark-vessel ratio and band.
type Region struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	DarkVessels     int      `json:"dark_vessels"`
	TotalDetections int      `json:"total_detections"`
	Ratio           float64  `json:"ratio"`
	Severity        Severity `json:"severity"`
}

// SparkPoint is one bar of the sparkline.
type SparkPoint struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
	Dark  int    `json:"dark"`

	// Height is the bar for Dark; TotalHeight uses the same scale.
	Height      int `json:"height"`
	TotalHeight int `json:"total_height"`
}

// Monitoring is the pass-through of the satellite monitoring summary.
type Monitoring struct {
	AvgDailyDarkVessels float64  `json:"avg_daily_dark_vessels"`
	AvgDailyDetections  float64  `json:"avg_daily_detections"`
	TrendPct            *float64 `json:"trend_pct,omitempty"`
	TrendDerived        bool     `json:"trend_derived,omitempty"`
	CHNPresenceHours    float64  `json:"chn_presence_hours"`
	CHNDrillZoneRecords int      `json:"chn_drill_zone_records"`
	TotalFishingHours   float64  `json:"total_fishing_hours"`
	TotalDays           int      `json:"total_days"`
}

// Alert is an upstream or locally raised alert.
type Alert struct {
	Type    string `json:"type,omitempty"`
	Date    string `json:"date,omitempty"`
	Message string `json:"message"`
	Derived bool   `json:"derived,omitempty"`
}

// Summary is the full dark-vessel aggregate.
type Summary struct {
	HasData    bool         `json:"has_data"`
	PerDate    []DatePoint  `json:"per_date"`
	Regions    []Region     `json:"regions"`
	Overall    int          `json:"overall"`
	Sparkline  []SparkPoint `json:"sparkline"`
	Monitoring *Monitoring  `json:"monitoring,omitempty"`
	Alerts     []Alert      `json:"alerts"`
}

// Aggregate derives the Summary.  Either section may be nil.
func Aggregate(dv *snapshot.DarkVessels, vm *snapshot.VesselMonitoring, opts Options) Summary {
	s := Summary{
		PerDate:   []DatePoint{},
		Regions:   []Region{},
		Sparkline: []SparkPoint{},
		Alerts:    []Alert{},
	}

	if dv != nil {
		s.PerDate = PerDate(dv)
		s.Regions = Regions(dv)
		s.Overall = overall(dv)
	}

	var series []SparkPoint
	if vm != nil && len(vm.Daily) > 0 {
		series = dailySeries(vm.Daily)
	} else {
		for _, p := range s.PerDate {
			series = append(series, SparkPoint{Date: p.Date, Total: p.Detections, Dark: p.Detections})
		}
	}
	if len(series) > 0 {
		totals := make([]int, len(series))
		darks := make([]int, len(series))
		for i, p := range series {
			totals[i] = p.Total
			darks[i] = p.Dark
		}
		totalH, darkH := SeriesHeights(totals, darks, opts.SparklineMaxHeight, opts.SparklineFloor)
		for i := range series {
			series[i].Height = darkH[i]
			series[i].TotalHeight = totalH[i]
		}
		s.Sparkline = series
	}

	if vm != nil {
		s.Monitoring = monitoring(vm, opts.TrendWindow)
		for _, a := range vm.Alerts {
			s.Alerts = append(s.Alerts, Alert{Type: a.Type, Date: a.Date, Message: a.Message})
		}
		if a, ok := SpikeAlert(vm.Daily, opts.SpikeFactor); ok && !hasAlert(s.Alerts, a) {
			s.Alerts = append(s.Alerts, a)
		}
	}

	s.HasData = len(s.Regions) > 0 || len(s.PerDate) > 0 || len(s.Sparkline) > 0
	return s
}

// PerDate sums detail detections per calendar day across all regions,
// ascending by date.
func PerDate(dv *snapshot.DarkVessels) []DatePoint {
	totals := make(map[string]int)
	for _, r := range dv.Regions {
		for _, d := range r.DarkDetails {
			day := d.Day()
			if day == "" {
				continue
			}
			totals[day] += d.DetectionCount()
		}
	}
	out := make([]DatePoint, 0, len(totals))
	for date, n := range totals {
		out = append(out, DatePoint{Date: date, Detections: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Regions computes ratio and band per region, ordered by region id.
func Regions(dv *snapshot.DarkVessels) []Region {
	ids := make([]string, 0, len(dv.Regions))
	for id := range dv.Regions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Region, 0, len(ids))
	for _, id := range ids {
		r := dv.Regions[id]
		name := r.Name
		if name == "" {
			name = id
		}
		ratio := Ratio(r.DarkVessels.Int(), r.TotalDetections.Int())
		out = append(out, Region{
			ID:              id,
			Name:            name,
			DarkVessels:     r.DarkVessels.Int(),
			TotalDetections: r.TotalDetections.Int(),
			Ratio:           ratio,
			Severity:        Band(ratio),
		})
	}
	return out
}

// Ratio is dark / max(1, total), clamped to [0, 1].
func Ratio(dark, total int) float64 {
	if total < 1 {
		total = 1
	}
	r := float64(dark) / float64(total)
	switch {
	case r < 0 || math.IsNaN(r):
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}

// Band maps a ratio to its severity.
func Band(ratio float64) Severity {
	switch {
	case ratio > highThreshold:
		return SeverityHigh
	case ratio > mediumThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func overall(dv *snapshot.DarkVessels) int {
	if dv.Overall != nil {
		return dv.Overall.DarkVessels.Int()
	}
	n := 0
	for _, r := range dv.Regions {
		n += r.DarkVessels.Int()
	}
	return n
}

func dailySeries(daily []snapshot.DailyDetection) []SparkPoint {
	out := make([]SparkPoint, 0, len(daily))
	for _, d := range daily {
		out = append(out, SparkPoint{Date: d.Date, Total: d.TotalDetections.Int(), Dark: d.DarkVessels.Int()})
	}
	return out
}

// SparklineHeights scales values to bar heights in [floor, maxHeight]
// proportionally to the series maximum.  An all-zero series is all floor.
func SparklineHeights(values []int, maxHeight, floor int) []int {
	if floor < 0 {
		floor = 0
	}
	if maxHeight < floor {
		maxHeight = floor
	}
	peak := 0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	out := make([]int, len(values))
	for i, v := range values {
		h := floor
		if peak > 0 && v > 0 {
			h = int(math.Round(float64(v) / float64(peak) * float64(maxHeight)))
		}
		if h < floor {
			h = floor
		}
		out[i] = h
	}
	return out
}

// SeriesHeights scales the total and dark series against the peak of both,
// so a dark bar never outgrows its total bar.
func SeriesHeights(totals, darks []int, maxHeight, floor int) (totalHeights, darkHeights []int) {
	joined := make([]int, 0, len(totals)+len(darks))
	joined = append(joined, totals...)
	joined = append(joined, darks...)
	h := SparklineHeights(joined, maxHeight, floor)
	return h[:len(totals)], h[len(totals):]
}

// ── Monitoring ──────────────────────────────────────────────────────────────

func monitoring(vm *snapshot.VesselMonitoring, window int) *Monitoring {
	m := &Monitoring{}
	if sum := vm.Summary; sum != nil {
		m.AvgDailyDarkVessels = sum.AvgDailyDarkVessels
		m.AvgDailyDetections = sum.AvgDailyDetections
		m.CHNPresenceHours = sum.CHNPresenceHours
		m.CHNDrillZoneRecords = sum.CHNDrillZoneRecords.Int()
		m.TotalFishingHours = sum.TotalFishingHours
		m.TotalDays = sum.TotalDays.Int()
		if sum.TrendPct != nil {
			v := *sum.TrendPct
			m.TrendPct = &v
		}
	} else if len(vm.Daily) > 0 {
		var dark, det int
		for _, d := range vm.Daily {
			dark += d.DarkVessels.Int()
			det += d.TotalDetections.Int()
		}
		n := float64(len(vm.Daily))
		m.AvgDailyDarkVessels = float64(dark) / n
		m.AvgDailyDetections = float64(det) / n
		m.TotalDays = len(vm.Daily)
	}
	if m.TrendPct == nil {
		if t, ok := DeriveTrend(vm.Daily, window); ok {
			m.TrendPct = &t
			m.TrendDerived = true
		}
	}
	return m
}

// DeriveTrend compares the mean dark count of the most recent window days
// with the window before it, in percent rounded to 0.1.
//
// Fewer than window days yields no trend.  Fewer than two full windows, or a
// zero prior mean, yields 0.
func DeriveTrend(daily []snapshot.DailyDetection, window int) (float64, bool) {
	if window <= 0 || len(daily) < window {
		return 0, false
	}
	sorted := sortedDaily(daily)
	recent := meanDark(sorted[len(sorted)-window:])
	if len(sorted) < 2*window {
		return 0, true
	}
	prior := meanDark(sorted[len(sorted)-2*window : len(sorted)-window])
	if prior <= 0 {
		return 0, true
	}
	return math.Round((recent-prior)/prior*1000) / 10, true
}

// SpikeAlert raises an alert when the latest day's dark count exceeds
// factor times the series mean.  It needs at least two days.
func SpikeAlert(daily []snapshot.DailyDetection, factor float64) (Alert, bool) {
	if factor <= 0 || len(daily) < 2 {
		return Alert{}, false
	}
	sorted := sortedDaily(daily)
	mean := meanDark(sorted)
	latest := sorted[len(sorted)-1]
	threshold := mean * factor
	if float64(latest.DarkVessels.Int()) <= threshold {
		return Alert{}, false
	}
	return Alert{
		Type:    AlertTypeSpike,
		Date:    latest.Date,
		Message: fmt.Sprintf("dark vessels spiked to %d on %s (mean %.0f)", latest.DarkVessels.Int(), latest.Date, mean),
		Derived: true,
	}, true
}

func hasAlert(alerts []Alert, a Alert) bool {
	for _, x := range alerts {
		if x.Type == a.Type && x.Date == a.Date {
			return true
		}
	}
	return false
}

func sortedDaily(daily []snapshot.DailyDetection) []snapshot.DailyDetection {
	out := make([]snapshot.DailyDetection, len(daily))
	copy(out, daily)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func meanDark(days []snapshot.DailyDetection) float64 {
	if len(days) == 0 {
		return 0
	}
	sum := 0
	for _, d := range days {
		sum += d.DarkVessels.Int()
	}
	return float64(sum) / float64(len(days))
}

//Personal.AI order the ending
