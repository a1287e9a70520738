// Package config defines the configuration structures for GrayZone-Monitor.
// Loading lives in loader.go; this file holds plain data types and
// validation only.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/GrayZone-Monitor/internal/domain/darkvessel"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/identity"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/zone"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/database/redis"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/source"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/storage/minio"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// CORSOrigins lists browser origins allowed to read the API; "*" allows any.
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SourceConfig selects where snapshots come from.
type SourceConfig struct {
	Kind     string        `mapstructure:"kind"` // "http" | "file" | "minio"
	URL      string        `mapstructure:"url"`
	Path     string        `mapstructure:"path"`
	Bucket   string        `mapstructure:"bucket"`
	Object   string        `mapstructure:"object"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retries  int           `mapstructure:"retries"`
	MaxBytes int64         `mapstructure:"max_bytes"`
}

// Source converts to the fetcher configuration.
func (s SourceConfig) Source() source.Config {
	return source.Config{
		Kind:     s.Kind,
		URL:      s.URL,
		Path:     s.Path,
		Bucket:   s.Bucket,
		Object:   s.Object,
		Timeout:  s.Timeout,
		Retries:  s.Retries,
		MaxBytes: s.MaxBytes,
	}
}

// RefreshConfig controls the polling loop.
type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	// OnStart performs a refresh before the server starts accepting requests.
	OnStart bool `mapstructure:"on_start"`
	// WarmFromCache seeds the view from Redis before the first refresh.
	WarmFromCache bool `mapstructure:"warm_from_cache"`
}

// DisplayConfig holds the presentation limits applied during composition.
type DisplayConfig struct {
	SuspiciousLimit    int     `mapstructure:"suspicious_limit"`
	IdentityLimit      int     `mapstructure:"identity_limit"`
	DiffMaxLen         int     `mapstructure:"diff_max_len"`
	Placeholder        string  `mapstructure:"placeholder"`
	SparklineMaxHeight int     `mapstructure:"sparkline_max_height"`
	SparklineFloor     int     `mapstructure:"sparkline_floor"`
	SpikeFactor        float64 `mapstructure:"spike_factor"`
	TrendWindow        int     `mapstructure:"trend_window"`
}

// Dark returns the dark-vessel aggregation options.
func (d DisplayConfig) Dark() darkvessel.Options {
	return darkvessel.Options{
		SparklineMaxHeight: d.SparklineMaxHeight,
		SparklineFloor:     d.SparklineFloor,
		SpikeFactor:        d.SpikeFactor,
		TrendWindow:        d.TrendWindow,
	}
}

// Identity returns the identity correlation options.
func (d DisplayConfig) Identity() identity.Options {
	return identity.Options{
		Limit:       d.IdentityLimit,
		DiffMaxLen:  d.DiffMaxLen,
		Placeholder: d.Placeholder,
	}
}

// KafkaConfig holds broker and topic settings.  Kafka is optional; it is
// enabled by listing at least one broker.
type KafkaConfig struct {
	Brokers          []string             `mapstructure:"brokers"`
	GroupID          string               `mapstructure:"group_id"`
	AutoOffsetReset  string               `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	ConsumeSnapshots bool                 `mapstructure:"consume_snapshots"`
	AutoCreateTopics bool                 `mapstructure:"auto_create_topics"`
	WriteTimeout     time.Duration        `mapstructure:"write_timeout"`
	Security         kafka.SecurityConfig `mapstructure:"security"`
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// MonitoringConfig holds the Prometheus exposition settings.
type MonitoringConfig struct {
	Namespace      string `mapstructure:"namespace"`
	Path           string `mapstructure:"path"`
	ProcessMetrics bool   `mapstructure:"process_metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.  Redis, MinIO and Kafka are
// optional integrations and stay disabled until an address is set.
type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Source     SourceConfig      `mapstructure:"source"`
	Refresh    RefreshConfig     `mapstructure:"refresh"`
	Display    DisplayConfig     `mapstructure:"display"`
	Zones      []zone.Zone       `mapstructure:"zones"`
	Hotspots   []zone.Zone       `mapstructure:"hotspots"`
	Redis      redis.RedisConfig `mapstructure:"redis"`
	Kafka      KafkaConfig       `mapstructure:"kafka"`
	MinIO      minio.MinIOConfig `mapstructure:"minio"`
	Log        logging.LogConfig `mapstructure:"log"`
	Monitoring MonitoringConfig  `mapstructure:"monitoring"`
}

// ZoneIndex builds the drill-zone index in configuration order.
func (c *Config) ZoneIndex() (*zone.Index, error) {
	return zone.NewIndex(c.Zones)
}

// HotspotIndex builds the fishing-hotspot index.
func (c *Config) HotspotIndex() (*zone.Index, error) {
	return zone.NewIndex(c.Hotspots)
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	// Source
	switch strings.ToLower(c.Source.Kind) {
	case source.KindHTTP:
		if c.Source.URL == "" {
			return fmt.Errorf("config: source.url is required for the http source")
		}
	case source.KindFile:
		if c.Source.Path == "" {
			return fmt.Errorf("config: source.path is required for the file source")
		}
	case source.KindMinIO:
		if !c.MinIO.Enabled() {
			return fmt.Errorf("config: minio.endpoint is required for the minio source")
		}
		if c.Source.Bucket == "" || c.Source.Object == "" {
			return fmt.Errorf("config: source.bucket and source.object are required for the minio source")
		}
	default:
		return fmt.Errorf("config: source.kind %q is invalid; expected http|file|minio", c.Source.Kind)
	}
	if c.Source.Retries < 0 {
		return fmt.Errorf("config: source.retries must be ≥ 0, got %d", c.Source.Retries)
	}

	// Refresh
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("config: refresh.interval must be positive, got %s", c.Refresh.Interval)
	}

	// Display
	if c.Display.SuspiciousLimit < 1 {
		return fmt.Errorf("config: display.suspicious_limit must be ≥ 1, got %d", c.Display.SuspiciousLimit)
	}
	if c.Display.IdentityLimit < 1 {
		return fmt.Errorf("config: display.identity_limit must be ≥ 1, got %d", c.Display.IdentityLimit)
	}
	if c.Display.DiffMaxLen < 1 {
		return fmt.Errorf("config: display.diff_max_len must be ≥ 1, got %d", c.Display.DiffMaxLen)
	}
	if c.Display.SparklineMaxHeight < 1 || c.Display.SparklineFloor < 0 || c.Display.SparklineFloor > c.Display.SparklineMaxHeight {
		return fmt.Errorf("config: display sparkline bounds %d..%d are invalid",
			c.Display.SparklineFloor, c.Display.SparklineMaxHeight)
	}
	if c.Display.SpikeFactor < 0 {
		return fmt.Errorf("config: display.spike_factor must be ≥ 0, got %v", c.Display.SpikeFactor)
	}

	// Zones
	if _, err := c.ZoneIndex(); err != nil {
		return fmt.Errorf("config: zones: %w", err)
	}
	if _, err := c.HotspotIndex(); err != nil {
		return fmt.Errorf("config: hotspots: %w", err)
	}

	// Redis
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// Kafka
	if c.Kafka.Enabled() && c.Kafka.GroupID == "" {
		return fmt.Errorf("config: kafka.group_id is required when brokers are set")
	}
	switch c.Kafka.AutoOffsetReset {
	case "", "earliest", "latest":
	default:
		return fmt.Errorf("config: kafka.auto_offset_reset %q is invalid; expected earliest|latest", c.Kafka.AutoOffsetReset)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Monitoring
	if c.Monitoring.Namespace == "" {
		return fmt.Errorf("config: monitoring.namespace is required")
	}

	return nil
}

//Personal.AI order the ending
