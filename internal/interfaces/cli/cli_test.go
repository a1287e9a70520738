package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GrayZone-Monitor/internal/application/viewmodel"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/darkvessel"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/suspicious"
	"github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

const cliSnapshot = `{
  "updated_at": "2024-05-02T06:00:00Z",
  "dark_vessels": {
    "regions": {"taiwan_strait": {"dark_vessels": 80, "total_detections": 100}},
    "overall": {"dark_vessels": 80, "total_detections": 100}
  },
  "suspicious_analysis": {
    "summary": {"total_analyzed": 50, "suspicious_count": 1},
    "suspicious_vessels": [{"mmsi": 412000001, "names": ["MIN YU 1"], "risk_level": "high", "risk_score": 4}]
  },
  "ais_snapshot": {
    "vessels": [{"mmsi": 1, "lat": 24.0, "lon": 121.2, "type_name": "fishing", "speed": 4}]
  }
}`

func init() {
	color.NoColor = true
}

// writeFixture writes a snapshot and a config pointing at it.
func writeFixture(t *testing.T, snapshot string) (configPath, snapshotPath string) {
	t.Helper()
	dir := t.TempDir()
	snapshotPath = filepath.Join(dir, "snapshot.json")
	require.NoError(t, os.WriteFile(snapshotPath, []byte(snapshot), 0o644))

	configPath = filepath.Join(dir, "grayzone.yaml")
	yaml := "source:\n  kind: file\n  path: " + snapshotPath + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o644))
	return configPath, snapshotPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "grayzone", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"compose", "zones", "serve", "version"} {
		assert.True(t, names[want], want)
	}
	for _, flag := range []string{"config", "log-level", "output", "no-color", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRoot_InvalidOutputFormat(t *testing.T) {
	cfgPath, _ := writeFixture(t, cliSnapshot)
	_, err := execute(t, "--config", cfgPath, "-o", "yaml", "zones")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestRoot_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "zones")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config initialization failed")
}

func TestCompose_JSON(t *testing.T) {
	cfgPath, _ := writeFixture(t, cliSnapshot)
	out, err := execute(t, "--config", cfgPath, "-o", "json", "compose")
	require.NoError(t, err)

	var vm viewmodel.ViewModel
	require.NoError(t, json.Unmarshal([]byte(out), &vm))
	assert.Equal(t, viewmodel.StatusAISLoaded, vm.Status)
	assert.Equal(t, 1, vm.Stats.Total)
	assert.Equal(t, 1, vm.ZoneCounts["north"])
	assert.Equal(t, 80, vm.Dark.Overall)
	require.Len(t, vm.Suspicious.Vessels, 1)
}

func TestCompose_FileFlagOverridesSource(t *testing.T) {
	cfgPath, _ := writeFixture(t, `{"updated_at": "2024-05-03T00:00:00Z"}`)
	_, otherSnapshot := writeFixture(t, cliSnapshot)

	out, err := execute(t, "--config", cfgPath, "-o", "json", "compose", "--file", otherSnapshot)
	require.NoError(t, err)
	assert.Contains(t, out, `"updated_at": "2024-05-02T06:00:00Z"`)
}

func TestCompose_Text(t *testing.T) {
	cfgPath, _ := writeFixture(t, cliSnapshot)
	out, err := execute(t, "--config", cfgPath, "compose")
	require.NoError(t, err)

	assert.Contains(t, out, "Status:       AIS+satellite loaded")
	assert.Contains(t, out, "Dark vessels: 80 overall")
	assert.Contains(t, out, "80.0%")
	assert.Contains(t, out, "1 flagged of 50 analyzed")
	assert.Contains(t, out, "MIN YU 1")
	assert.Contains(t, out, "Identity:     no feed")
}

func TestCompose_Table(t *testing.T) {
	cfgPath, _ := writeFixture(t, cliSnapshot)
	out, err := execute(t, "--config", cfgPath, "-o", "table", "compose")
	require.NoError(t, err)

	assert.Contains(t, out, "=== Drill Zones (AIS+satellite loaded) ===")
	assert.Contains(t, out, "North Zone")
	assert.Contains(t, out, "=== Suspicious Vessels")
	assert.Contains(t, out, "412000001")
}

func TestCompose_FetchFailure(t *testing.T) {
	cfgPath, _ := writeFixture(t, cliSnapshot)
	_, err := execute(t, "--config", cfgPath, "compose", "--file", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRefreshFailed))
}

func TestZones(t *testing.T) {
	cfgPath, _ := writeFixture(t, cliSnapshot)

	out, err := execute(t, "--config", cfgPath, "zones")
	require.NoError(t, err)
	assert.Contains(t, out, "North Zone")
	assert.Contains(t, out, "Taiwan Bank")

	out, err = execute(t, "--config", cfgPath, "-o", "json", "zones")
	require.NoError(t, err)
	var resp struct {
		Zones    []json.RawMessage `json:"zones"`
		Hotspots []json.RawMessage `json:"hotspots"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Zones, 4)
	assert.NotEmpty(t, resp.Hotspots)
}

func TestVersion(t *testing.T) {
	Version = "1.4.0"
	defer func() { Version = "dev" }()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "grayzone 1.4.0")

	out, err = execute(t, "-o", "json", "version")
	require.NoError(t, err)
	var info BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.4.0", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestSuspiciousHeadline(t *testing.T) {
	tests := []struct {
		result suspicious.Result
		want   string
	}{
		{suspicious.Result{State: suspicious.StateAbsent}, "no analysis"},
		{suspicious.Result{State: suspicious.StateEmpty}, "nothing analyzed"},
		{suspicious.Result{State: suspicious.StateNoneFlagged, Summary: suspicious.Summary{TotalAnalyzed: 1200}}, "1,200 analyzed, none flagged"},
		{suspicious.Result{State: suspicious.StateFlagged, Total: 3, Summary: suspicious.Summary{TotalAnalyzed: 50}}, "3 flagged of 50 analyzed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, suspiciousHeadline(tt.result))
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-02T06:00:00Z (3 hours ago)", relativeTime("2024-05-02T06:00:00Z", now))
	assert.Equal(t, "yesterday-ish", relativeTime("yesterday-ish", now))
	assert.Equal(t, "unknown", relativeTime("", now))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "80.0%", percent(0.8))
	assert.Equal(t, "abc", truncateString("abc", 5))
	assert.Equal(t, "abcd...", truncateString("abcdefghij", 7))
	assert.Equal(t, "HIGH", colorizeRisk(suspicious.RiskHigh))
	assert.Equal(t, "50%", colorizeSeverity(darkvessel.SeverityMedium, "50%"))
	assert.Equal(t, "load failed", colorizeStatus(viewmodel.StatusLoadFailed))
}

//Personal.AI order the ending
