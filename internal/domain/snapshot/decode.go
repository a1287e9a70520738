package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

// Section names as they appear in the payload.
const (
	SectionVesselMonitoring   = "vessel_monitoring"
	SectionDarkVessels        = "dark_vessels"
	SectionSuspiciousAnalysis = "suspicious_analysis"
	SectionIdentityEvents     = "identity_events"
	SectionAISSnapshot        = "ais_snapshot"
)

// Hash returns the hex xxh3-64 digest of raw.
func Hash(raw []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(raw))
}

// Decode parses raw into a Snapshot.
//
// Only a payload that is not JSON, or not a JSON object, is an error.  A
// section with the wrong shape is dropped and recorded in Issues; records
// inside a list that do not decode are skipped and counted.
func Decode(raw []byte) (*Snapshot, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeSnapshotInvalid, "snapshot payload is empty")
	}
	if !json.Valid(trimmed) {
		return nil, errors.New(errors.ErrCodeSnapshotDecode, "snapshot payload is not valid JSON")
	}
	var root map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &root); err != nil || root == nil {
		return nil, errors.Wrap(errOrNull(err), errors.ErrCodeSnapshotInvalid, "snapshot root must be a JSON object")
	}

	d := &decoder{}
	s := &Snapshot{
		Hash: Hash(raw),
		Size: len(raw),
	}

	var updated Text
	if d.value("updated_at", root["updated_at"], &updated) {
		s.UpdatedAt = string(updated)
	}
	s.VesselMonitoring = d.vesselMonitoring(root[SectionVesselMonitoring])
	s.DarkVessels = d.darkVessels(root[SectionDarkVessels])
	s.SuspiciousAnalysis = d.suspiciousAnalysis(root[SectionSuspiciousAnalysis])
	s.IdentityEvents = d.identityEvents(root[SectionIdentityEvents])
	s.AISSnapshot = d.aisSnapshot(root[SectionAISSnapshot])
	s.Issues = d.issues

	return s, nil
}

func errOrNull(err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("root is null")
}

// ─────────────────────────────────────────────────────────────────────────────
// decoder
// ─────────────────────────────────────────────────────────────────────────────

type decoder struct {
	issues []Issue
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, jsonNull)
}

func (d *decoder) note(section string, skipped int, reason string) {
	d.issues = append(d.issues, Issue{Section: section, Skipped: skipped, Reason: reason})
}

// object decodes raw as a JSON object.  Absent and null yield nil silently;
// any other non-object is recorded.
func (d *decoder) object(section string, raw json.RawMessage) map[string]json.RawMessage {
	if isNull(raw) {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		d.note(section, 0, "expected an object")
		return nil
	}
	return m
}

// value decodes a non-null raw into dst, recording failures.
func (d *decoder) value(section string, raw json.RawMessage, dst interface{}) bool {
	if isNull(raw) {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		d.note(section, 0, "malformed value dropped")
		return false
	}
	return true
}

// decodeList decodes a JSON array element by element.  Elements that fail to
// decode are skipped and counted under section.
func decodeList[T any](d *decoder, section string, raw json.RawMessage) []T {
	if isNull(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		d.note(section, 0, "expected an array")
		return nil
	}
	out := make([]T, 0, len(items))
	skipped := 0
	for _, item := range items {
		var v T
		if isNull(item) {
			skipped++
			continue
		}
		if err := json.Unmarshal(item, &v); err != nil {
			skipped++
			continue
		}
		out = append(out, v)
	}
	if skipped > 0 {
		d.note(section, skipped, "undecodable records skipped")
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Sections
// ─────────────────────────────────────────────────────────────────────────────

func (d *decoder) vesselMonitoring(raw json.RawMessage) *VesselMonitoring {
	m := d.object(SectionVesselMonitoring, raw)
	if m == nil {
		return nil
	}
	vm := &VesselMonitoring{}
	var summary MonitoringSummary
	if d.value(SectionVesselMonitoring+".summary", m["summary"], &summary) {
		vm.Summary = &summary
	}
	vm.Daily = decodeList[DailyDetection](d, SectionVesselMonitoring+".daily", m["daily"])
	alerts := decodeList[Alert](d, SectionVesselMonitoring+".alerts", m["alerts"])
	for _, a := range alerts {
		if a.Message != "" {
			vm.Alerts = append(vm.Alerts, a)
		}
	}
	return vm
}

func (d *decoder) darkVessels(raw json.RawMessage) *DarkVessels {
	m := d.object(SectionDarkVessels, raw)
	if m == nil {
		return nil
	}
	dv := &DarkVessels{Regions: make(map[string]DarkRegion)}

	regions := d.object(SectionDarkVessels+".regions", m["regions"])
	ids := make([]string, 0, len(regions))
	for id := range regions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		section := SectionDarkVessels + ".regions." + id
		rm := d.object(section, regions[id])
		if rm == nil {
			continue
		}
		var region DarkRegion
		var name Text
		if d.value(section+".name", rm["name"], &name) {
			region.Name = string(name)
		}
		d.value(section+".dark_vessels", rm["dark_vessels"], &region.DarkVessels)
		d.value(section+".total_detections", rm["total_detections"], &region.TotalDetections)
		details := decodeList[DarkDetail](d, section+".dark_details", rm["dark_details"])
		undated := 0
		for _, det := range details {
			if det.Day() == "" {
				undated++
				continue
			}
			region.DarkDetails = append(region.DarkDetails, det)
		}
		if undated > 0 {
			d.note(section+".dark_details", undated, "records without date skipped")
		}
		dv.Regions[id] = region
	}

	var overall DarkOverall
	if d.value(SectionDarkVessels+".overall", m["overall"], &overall) {
		dv.Overall = &overall
	}
	return dv
}

func (d *decoder) suspiciousAnalysis(raw json.RawMessage) *SuspiciousAnalysis {
	m := d.object(SectionSuspiciousAnalysis, raw)
	if m == nil {
		return nil
	}
	sa := &SuspiciousAnalysis{}
	var summary SuspiciousSummary
	if d.value(SectionSuspiciousAnalysis+".summary", m["summary"], &summary) {
		sa.Summary = &summary
	}
	sa.Vessels = decodeList[SuspiciousVessel](d, SectionSuspiciousAnalysis+".suspicious_vessels", m["suspicious_vessels"])
	return sa
}

func (d *decoder) identityEvents(raw json.RawMessage) *IdentityEvents {
	m := d.object(SectionIdentityEvents, raw)
	if m == nil {
		return nil
	}
	ie := &IdentityEvents{}
	var summary IdentitySummary
	if d.value(SectionIdentityEvents+".summary", m["summary"], &summary) {
		ie.Summary = &summary
	}
	ie.Events24 = decodeList[IdentityEvent](d, SectionIdentityEvents+".events_24h", m["events_24h"])
	ie.Events7d = decodeList[IdentityEvent](d, SectionIdentityEvents+".events_7d", m["events_7d"])
	return ie
}

func (d *decoder) aisSnapshot(raw json.RawMessage) *AISSnapshot {
	m := d.object(SectionAISSnapshot, raw)
	if m == nil {
		return nil
	}
	as := &AISSnapshot{}
	var updated Text
	if d.value(SectionAISSnapshot+".updated_at", m["updated_at"], &updated) {
		as.UpdatedAt = string(updated)
	}
	as.Vessels = decodeList[AISVessel](d, SectionAISSnapshot+".vessels", m["vessels"])
	return as
}

// Describe summarises issues for logs, e.g. "ais_snapshot.vessels: 2 skipped".
func Describe(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		s := is.Section + ": " + is.Reason
		if is.Skipped > 0 {
			s += " (" + strconv.Itoa(is.Skipped) + ")"
		}
		out = append(out, s)
	}
	return out
}

//Personal.AI order the ending
