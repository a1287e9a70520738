package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/turtacn/GrayZone-Monitor/internal/application/viewmodel"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/darkvessel"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/suspicious"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/zone"
)

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// renderView writes vm in the requested format.  now anchors relative times.
func renderView(w io.Writer, vm viewmodel.ViewModel, format string, now time.Time) error {
	switch format {
	case "json":
		return printJSON(w, vm)
	case "table":
		return renderViewTables(w, vm)
	default:
		renderViewText(w, vm, now)
		return nil
	}
}

func renderViewText(w io.Writer, vm viewmodel.ViewModel, now time.Time) {
	st := vm.Stats
	fmt.Fprintf(w, "Status:       %s\n", colorizeStatus(vm.Status))
	fmt.Fprintf(w, "Updated:      %s\n", relativeTime(vm.UpdatedAt, now))
	fmt.Fprintf(w, "Vessels:      %s (fishing %s, cargo %s, tanker %s)\n",
		humanize.Comma(int64(st.Total)), humanize.Comma(int64(st.Fishing)),
		humanize.Comma(int64(st.Cargo)), humanize.Comma(int64(st.Tanker)))
	fmt.Fprintf(w, "In zones:     %s, suspicious %s, in hotspots %s\n",
		humanize.Comma(int64(st.InZone)), humanize.Comma(int64(st.Suspicious)), humanize.Comma(int64(st.InHotspot)))
	for _, z := range vm.Zones {
		fmt.Fprintf(w, "  %-12s %s\n", z.Name, humanize.Comma(int64(z.Count)))
	}
	if vm.Dark.HasData {
		fmt.Fprintf(w, "Dark vessels: %s overall\n", humanize.Comma(int64(vm.Dark.Overall)))
		for _, r := range vm.Dark.Regions {
			fmt.Fprintf(w, "  %-20s %s/%s (%s)\n", r.Name,
				humanize.Comma(int64(r.DarkVessels)), humanize.Comma(int64(r.TotalDetections)),
				colorizeSeverity(r.Severity, percent(r.Ratio)))
		}
	} else {
		fmt.Fprintln(w, "Dark vessels: no satellite data")
	}
	for _, a := range vm.Dark.Alerts {
		fmt.Fprintf(w, "  %s %s\n", color.YellowString("!"), a.Message)
	}
	fmt.Fprintf(w, "Suspicious:   %s\n", suspiciousHeadline(vm.Suspicious))
	for _, v := range vm.Suspicious.Vessels {
		fmt.Fprintf(w, "  %-24s %s score %.1f\n", v.DisplayName, colorizeRisk(v.RiskLevel), v.RiskScore)
	}
	if vm.Identity.Present {
		fmt.Fprintf(w, "Identity:     %d in 24h, %d in 7d (%s window)\n",
			vm.Identity.Count24h, vm.Identity.Count7d, vm.Identity.Window)
		for _, ev := range vm.Identity.Events {
			fmt.Fprintf(w, "  %-12d %-10s %s\n", ev.MMSI, ev.TimeAgo, ev.Diff)
		}
	} else {
		fmt.Fprintln(w, "Identity:     no feed")
	}
	if vm.SkippedRecords > 0 {
		fmt.Fprintf(w, "Skipped:      %s malformed records\n", humanize.Comma(int64(vm.SkippedRecords)))
	}
}

func renderViewTables(w io.Writer, vm viewmodel.ViewModel) error {
	fmt.Fprintf(w, "\n=== Drill Zones (%s) ===\n\n", vm.Status)
	zoneRows := make([][]string, 0, len(vm.Zones))
	for _, z := range vm.Zones {
		zoneRows = append(zoneRows, []string{z.ID, z.Name, strconv.Itoa(z.Count)})
	}
	if err := renderTable(w, []string{"Zone", "Name", "Vessels"}, zoneRows); err != nil {
		return err
	}

	fmt.Fprint(w, "\n=== Dark Vessels ===\n\n")
	regionRows := make([][]string, 0, len(vm.Dark.Regions))
	for _, r := range vm.Dark.Regions {
		regionRows = append(regionRows, []string{
			r.Name,
			strconv.Itoa(r.DarkVessels),
			strconv.Itoa(r.TotalDetections),
			colorizeSeverity(r.Severity, percent(r.Ratio)),
		})
	}
	if err := renderTable(w, []string{"Region", "Dark", "Detections", "Ratio"}, regionRows); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n=== Suspicious Vessels (%s) ===\n\n", suspiciousHeadline(vm.Suspicious))
	suspRows := make([][]string, 0, len(vm.Suspicious.Vessels))
	for i, v := range vm.Suspicious.Vessels {
		suspRows = append(suspRows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(v.MMSI, 10),
			truncateString(v.DisplayName, 30),
			colorizeRisk(v.RiskLevel),
			fmt.Sprintf("%.1f", v.RiskScore),
			v.Zone,
		})
	}
	if err := renderTable(w, []string{"Rank", "MMSI", "Name", "Risk", "Score", "Zone"}, suspRows); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n=== Identity Changes (%s) ===\n\n", vm.Identity.Window)
	idRows := make([][]string, 0, len(vm.Identity.Events))
	for _, ev := range vm.Identity.Events {
		idRows = append(idRows, []string{strconv.FormatInt(ev.MMSI, 10), ev.TimeAgo, truncateString(ev.Diff, 60)})
	}
	return renderTable(w, []string{"MMSI", "When", "Change"}, idRows)
}

func renderZones(w io.Writer, zones, hotspots []zone.Zone, format string) error {
	if format == "json" {
		return printJSON(w, struct {
			Zones    []zone.Zone `json:"zones"`
			Hotspots []zone.Zone `json:"hotspots"`
		}{zones, hotspots})
	}
	rows := func(list []zone.Zone, kind string) [][]string {
		out := make([][]string, 0, len(list))
		for _, z := range list {
			b := z.Bounds()
			out = append(out, []string{
				kind, z.ID, z.Name, z.Color,
				fmt.Sprintf("%.2f..%.2fN %.2f..%.2fE", b.MinLat, b.MaxLat, b.MinLon, b.MaxLon),
				strconv.Itoa(len(z.Polygon)),
			})
		}
		return out
	}
	all := append(rows(zones, "drill"), rows(hotspots, "hotspot")...)
	return renderTable(w, []string{"Kind", "ID", "Name", "Color", "Bounds", "Vertices"}, all)
}

func suspiciousHeadline(r suspicious.Result) string {
	switch r.State {
	case suspicious.StateAbsent:
		return "no analysis"
	case suspicious.StateEmpty:
		return "nothing analyzed"
	case suspicious.StateNoneFlagged:
		return fmt.Sprintf("%s analyzed, none flagged", humanize.Comma(int64(r.Summary.TotalAnalyzed)))
	default:
		return fmt.Sprintf("%s flagged of %s analyzed",
			humanize.Comma(int64(r.Total)), humanize.Comma(int64(r.Summary.TotalAnalyzed)))
	}
}

func relativeTime(ts string, now time.Time) string {
	if ts == "" {
		return "unknown"
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return fmt.Sprintf("%s (%s)", ts, humanize.RelTime(t, now, "ago", "from now"))
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func colorizeStatus(s viewmodel.Status) string {
	switch s {
	case viewmodel.StatusAISLoaded:
		return color.GreenString(string(s))
	case viewmodel.StatusSatelliteLoaded:
		return color.YellowString(string(s))
	case viewmodel.StatusLoadFailed:
		return color.RedString(string(s))
	default:
		return string(s)
	}
}

func colorizeSeverity(sev darkvessel.Severity, text string) string {
	switch sev {
	case darkvessel.SeverityHigh:
		return color.RedString(text)
	case darkvessel.SeverityMedium:
		return color.YellowString(text)
	default:
		return color.GreenString(text)
	}
}

func colorizeRisk(level suspicious.RiskLevel) string {
	label := strings.ToUpper(string(level))
	switch level {
	case suspicious.RiskCritical, suspicious.RiskHigh:
		return color.RedString(label)
	case suspicious.RiskMedium:
		return color.YellowString(label)
	case suspicious.RiskNormal:
		return color.GreenString(label)
	default:
		return label
	}
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

//Personal.AI order the ending
