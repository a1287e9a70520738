package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  host: "127.0.0.1"
  port: 8081
source:
  kind: http
  url: "https://example.org/data.json"
  timeout: 5s
refresh:
  interval: 30s
  on_start: true
display:
  suspicious_limit: 5
zones:
  - id: strait
    name: Strait
    color: "#ff0000"
    polygon:
      - {lat: 25.0, lon: 119.0}
      - {lat: 25.0, lon: 120.0}
      - {lat: 24.0, lon: 120.0}
      - {lat: 24.0, lon: 119.0}
redis:
  addr: "localhost:6379"
  ttl: 1h
kafka:
  brokers: ["localhost:9092"]
  consume_snapshots: true
log:
  level: debug
  format: console
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "http", cfg.Source.Kind)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Refresh.Interval)
	assert.True(t, cfg.Refresh.OnStart)
	assert.Equal(t, 5, cfg.Display.SuspiciousLimit)
	assert.Equal(t, 10, cfg.Display.IdentityLimit, "unset display fields take defaults")
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, DefaultKafkaGroupID, cfg.Kafka.GroupID)
	assert.Equal(t, "console", cfg.Log.Format)

	require.Len(t, cfg.Zones, 1)
	assert.Equal(t, "strait", cfg.Zones[0].ID)
	require.Len(t, cfg.Zones[0].Polygon, 4)
	assert.Equal(t, 24.0, cfg.Zones[0].Polygon[2].Lat)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "invalid_yaml: ["))
	require.Error(t, err)
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "source:\n  kind: http\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "source.url")
}

func TestLoad_EnvOverride(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	t.Setenv("GRAYZONE_SERVER_PORT", "9999")
	t.Setenv("GRAYZONE_SOURCE_URL", "https://mirror.example.org/data.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "https://mirror.example.org/data.json", cfg.Source.URL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GRAYZONE_SOURCE_KIND", "file")
	t.Setenv("GRAYZONE_SOURCE_PATH", "/srv/data.json")
	t.Setenv("GRAYZONE_REFRESH_INTERVAL", "2m")
	t.Setenv("GRAYZONE_REDIS_ADDR", "cache:6379")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/srv/data.json", cfg.Source.Path)
	assert.Equal(t, 2*time.Minute, cfg.Refresh.Interval)
	assert.True(t, cfg.Redis.Enabled())
	assert.Len(t, cfg.Zones, 4)
}

func TestLoad_EmptyPathUsesEnv(t *testing.T) {
	t.Setenv("GRAYZONE_SERVER_PORT", "7070")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	changed := make(chan *Config, 1)
	require.NoError(t, Watch(path, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	}, nil))

	updated := validConfigYAML + "\nmonitoring:\n  namespace: reloaded\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case cfg := <-changed:
		assert.Equal(t, "reloaded", cfg.Monitoring.Namespace)
	case <-time.After(5 * time.Second):
		t.Skip("filesystem notifications unavailable")
	}
}

func TestWatch_MissingFile(t *testing.T) {
	assert.Error(t, Watch(filepath.Join(t.TempDir(), "missing.yaml"), func(*Config) {}, nil))
}

//Personal.AI order the ending
