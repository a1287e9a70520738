// Package identity selects and formats the identity-change feed: vessels
// whose name, type, flag or other metadata changed upstream.
package identity

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/turtacn/GrayZone-Monitor/internal/domain/snapshot"
)

// Window names the event window a feed was taken from.
type Window string

const (
	Window24h  Window = "24h"
	Window7d   Window = "7d"
	WindowNone Window = ""
)

// Display defaults.
const (
	DefaultLimit       = 10
	DefaultDiffMaxLen  = 60
	DefaultPlaceholder = "--"
	JustNow            = "just now"
	ellipsis           = "…"
	arrow              = " → "
	changeSeparator    = ", "
)

// Options tunes correlation.
type Options struct {
	Limit       int
	DiffMaxLen  int
	Placeholder string
}

// DefaultOptions returns the display defaults.
func DefaultOptions() Options {
	return Options{Limit: DefaultLimit, DiffMaxLen: DefaultDiffMaxLen, Placeholder: DefaultPlaceholder}
}

func (o Options) normalized() Options {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.DiffMaxLen <= 0 {
		o.DiffMaxLen = DefaultDiffMaxLen
	}
	if o.Placeholder == "" {
		o.Placeholder = DefaultPlaceholder
	}
	return o
}

// Change is one rendered field change.
type Change struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
	// Similarity is set for name fields only: 1 means identical after
	// normalisation, 0 means nothing in common.
	Similarity *float64 `json:"similarity,omitempty"`
}

// Event is one feed entry.
type Event struct {
	MMSI        int64    `json:"mmsi"`
	Name        string   `json:"name"`
	Timestamp   string   `json:"timestamp"`
	TimeAgo     string   `json:"time_ago"`
	Diff        string   `json:"diff"`
	Changes     []Change `json:"changes"`
	InDrillZone bool     `json:"in_drill_zone"`
	MultiField  bool     `json:"multi_field"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
}

// Result is the correlated identity view.
type Result struct {
	Present     bool           `json:"present"`
	Count24h    int            `json:"count_24h"`
	Count7d     int            `json:"count_7d"`
	Window      Window         `json:"window"`
	Events      []Event        `json:"events"`
	FieldCounts map[string]int `json:"field_counts"`
}

// Correlate builds the feed from section relative to now.
//
// The feed uses events_24h when it is non-empty and falls back to events_7d
// otherwise.  Upstream order is kept; the feed is capped at opts.Limit.
func Correlate(section *snapshot.IdentityEvents, now time.Time, opts Options) Result {
	opts = opts.normalized()
	res := Result{Events: []Event{}, FieldCounts: map[string]int{}}
	if section == nil {
		return res
	}
	res.Present = true
	res.Count24h = len(section.Events24)
	res.Count7d = len(section.Events7d)
	if sum := section.Summary; sum != nil {
		if sum.Events24h != nil {
			res.Count24h = sum.Events24h.Int()
		}
		if sum.Events7d != nil {
			res.Count7d = sum.Events7d.Int()
		}
	}

	feed := section.Events24
	res.Window = Window24h
	if len(feed) == 0 {
		feed = section.Events7d
		res.Window = Window7d
	}
	if len(feed) == 0 {
		res.Window = WindowNone
		return res
	}
	if len(feed) > opts.Limit {
		feed = feed[:opts.Limit]
	}

	for _, ev := range feed {
		e := toEvent(ev, now, opts)
		for _, c := range e.Changes {
			res.FieldCounts[c.Field]++
		}
		res.Events = append(res.Events, e)
	}
	return res
}

func toEvent(ev snapshot.IdentityEvent, now time.Time, opts Options) Event {
	name := strings.TrimSpace(ev.Name)
	if name == "" {
		name = "MMSI-" + ev.MMSI.String()
	}
	changes := make([]Change, 0, len(ev.Changes))
	for _, fc := range ev.Changes {
		c := Change{Field: fc.Field, Old: string(fc.Old), New: string(fc.New)}
		if IsNameField(c.Field) {
			s := Similarity(c.Old, c.New)
			c.Similarity = &s
		}
		changes = append(changes, c)
	}
	return Event{
		MMSI:        int64(ev.MMSI),
		Name:        name,
		Timestamp:   ev.Timestamp,
		TimeAgo:     TimeAgo(ev.Timestamp, now, opts.Placeholder),
		Diff:        DiffText(changes, opts.DiffMaxLen),
		Changes:     changes,
		InDrillZone: bool(ev.InDrillZone),
		MultiField:  bool(ev.MultiField),
		Lat:         ev.Lat,
		Lon:         ev.Lon,
	}
}

// DiffText renders changes as "old → new" joined by ", ", truncated to
// maxLen runes with a trailing ellipsis.
func DiffText(changes []Change, maxLen int) string {
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, c.Old+arrow+c.New)
	}
	return Truncate(strings.Join(parts, changeSeparator), maxLen)
}

// Truncate cuts s to at most maxLen runes, appending an ellipsis when cut.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + ellipsis
}

// ── Time ────────────────────────────────────────────────────────────────────

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 and the naive ISO forms upstream emits.
// Naive timestamps are taken as UTC.
func ParseTimestamp(ts string) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TimeAgo renders the age of ts relative to now.  Unparseable timestamps
// render as placeholder; future timestamps as "just now".
func TimeAgo(ts string, now time.Time, placeholder string) string {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return placeholder
	}
	age := now.Sub(t)
	switch {
	case age < time.Hour:
		return JustNow
	case age < 24*time.Hour:
		return strconv.Itoa(int(age/time.Hour)) + " hours ago"
	default:
		return strconv.Itoa(int(age/(24*time.Hour))) + " days ago"
	}
}

// ── Similarity ──────────────────────────────────────────────────────────────

// IsNameField reports whether field carries a vessel name.
func IsNameField(field string) bool {
	f := strings.ToLower(field)
	return f == "name" || f == "shipname" || strings.HasSuffix(f, "_name")
}

// Similarity is 1 - levenshtein(a, b) / max(len(a), len(b)) over upper-cased,
// whitespace-collapsed strings, rounded to 0.01.  Two empty strings are 1.
func Similarity(a, b string) float64 {
	a, b = normalizeName(a), normalizeName(b)
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return math.Round((1-float64(d)/float64(longest))*100) / 100
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

//Personal.AI order the ending
