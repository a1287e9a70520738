package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GrayZone-Monitor/internal/config"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/zone"
)

// validConfig returns a Config that passes Validate() with defaults only.
func validConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	t.Parallel()
	for _, p := range []int{0, -1, 65536, 100000} {
		p := p
		t.Run("", func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			cfg.Server.Port = p
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "server.port")
		})
	}
}

func TestConfig_Validate_Source(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"http without url", func(c *config.Config) { c.Source.Kind = "http" }, "source.url"},
		{"http with url", func(c *config.Config) { c.Source.Kind = "HTTP"; c.Source.URL = "http://x/data.json" }, ""},
		{"file without path", func(c *config.Config) { c.Source.Path = "" }, "source.path"},
		{"unknown kind", func(c *config.Config) { c.Source.Kind = "ftp" }, "source.kind"},
		{"minio without endpoint", func(c *config.Config) { c.Source.Kind = "minio" }, "minio.endpoint"},
		{"minio without object", func(c *config.Config) {
			c.Source.Kind = "minio"
			c.MinIO.Endpoint = "localhost:9000"
			c.Source.Bucket = "b"
		}, "source.object"},
		{"negative retries", func(c *config.Config) { c.Source.Retries = -1 }, "source.retries"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_Display(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"suspicious limit", func(c *config.Config) { c.Display.SuspiciousLimit = -1 }, "suspicious_limit"},
		{"identity limit", func(c *config.Config) { c.Display.IdentityLimit = -5 }, "identity_limit"},
		{"diff length", func(c *config.Config) { c.Display.DiffMaxLen = -1 }, "diff_max_len"},
		{"floor above max", func(c *config.Config) { c.Display.SparklineFloor = 50 }, "sparkline"},
		{"negative spike", func(c *config.Config) { c.Display.SpikeFactor = -1 }, "spike_factor"},
		{"zero interval", func(c *config.Config) { c.Refresh.Interval = -1 }, "refresh.interval"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_Zones(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		zones []zone.Zone
	}{
		{"missing id", []zone.Zone{zone.Rect("", "x", "#fff", 1, 1, 2, 2)}},
		{"duplicate id", []zone.Zone{zone.Rect("a", "A", "#fff", 1, 1, 2, 2), zone.Rect("a", "B", "#fff", 3, 3, 4, 4)}},
		{"two vertices", []zone.Zone{{ID: "a", Polygon: []zone.Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			cfg.Zones = tt.zones
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "zones")
		})
	}
}

func TestConfig_Validate_KafkaAndLog(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Kafka.GroupID = ""
	assert.ErrorContains(t, cfg.Validate(), "kafka.group_id")

	cfg = validConfig()
	cfg.Kafka.AutoOffsetReset = "middle"
	assert.ErrorContains(t, cfg.Validate(), "auto_offset_reset")

	cfg = validConfig()
	cfg.Log.Level = "verbose"
	assert.ErrorContains(t, cfg.Validate(), "log.level")

	cfg = validConfig()
	cfg.Log.Format = "text"
	assert.ErrorContains(t, cfg.Validate(), "log.format")

	cfg = validConfig()
	cfg.Monitoring.Namespace = ""
	assert.ErrorContains(t, cfg.Validate(), "monitoring.namespace")
}

func TestConfig_Conversions(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Display.IdentityLimit = 3
	cfg.Display.SpikeFactor = 2

	assert.Equal(t, 3, cfg.Display.Identity().Limit)
	assert.Equal(t, 2.0, cfg.Display.Dark().SpikeFactor)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())

	sc := cfg.Source.Source()
	assert.Equal(t, "file", sc.Kind)
	assert.Equal(t, config.DefaultSourcePath, sc.Path)

	ix, err := cfg.ZoneIndex()
	require.NoError(t, err)
	assert.Equal(t, 4, ix.Len())
	assert.False(t, cfg.Kafka.Enabled())
}

//Personal.AI order the ending
