package config

import (
	"time"

	"github.com/turtacn/GrayZone-Monitor/internal/domain/darkvessel"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/identity"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/suspicious"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/zone"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/source"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 8080

	DefaultSourceKind    = source.KindFile
	DefaultSourcePath    = "data/data.json"
	DefaultSourceTimeout = 15 * time.Second
	DefaultSourceRetries = 2

	DefaultSnapshotBucket = "grayzone-snapshots"
	DefaultSnapshotObject = "latest.json"

	DefaultRefreshInterval = time.Minute

	DefaultKafkaGroupID = "grayzone-monitor"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "grayzone"
	DefaultMetricsPath      = "/metrics"
)

// ApplyDefaults fills every zero-value field in cfg with its default.
// Fields that have already been set are left unchanged so that explicit
// configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ──
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	// ── Source ──
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = DefaultSourceKind
	}
	if cfg.Source.Path == "" && cfg.Source.Kind == source.KindFile {
		cfg.Source.Path = DefaultSourcePath
	}
	if cfg.Source.Timeout == 0 {
		cfg.Source.Timeout = DefaultSourceTimeout
	}
	if cfg.Source.Retries == 0 {
		cfg.Source.Retries = DefaultSourceRetries
	}
	if cfg.Source.MaxBytes == 0 {
		cfg.Source.MaxBytes = source.DefaultMaxBytes
	}
	if cfg.Source.Bucket == "" {
		cfg.Source.Bucket = cfg.MinIO.Bucket
	}
	if cfg.Source.Object == "" {
		cfg.Source.Object = cfg.MinIO.Object
	}
	if cfg.Source.Kind == source.KindMinIO {
		if cfg.Source.Bucket == "" {
			cfg.Source.Bucket = DefaultSnapshotBucket
		}
		if cfg.Source.Object == "" {
			cfg.Source.Object = DefaultSnapshotObject
		}
	}

	// ── Refresh ──
	if cfg.Refresh.Interval == 0 {
		cfg.Refresh.Interval = DefaultRefreshInterval
	}

	// ── Display ──
	dark := darkvessel.DefaultOptions()
	if cfg.Display.SuspiciousLimit == 0 {
		cfg.Display.SuspiciousLimit = suspicious.DefaultLimit
	}
	if cfg.Display.IdentityLimit == 0 {
		cfg.Display.IdentityLimit = identity.DefaultLimit
	}
	if cfg.Display.DiffMaxLen == 0 {
		cfg.Display.DiffMaxLen = identity.DefaultDiffMaxLen
	}
	if cfg.Display.Placeholder == "" {
		cfg.Display.Placeholder = identity.DefaultPlaceholder
	}
	if cfg.Display.SparklineMaxHeight == 0 {
		cfg.Display.SparklineMaxHeight = dark.SparklineMaxHeight
	}
	if cfg.Display.SparklineFloor == 0 {
		cfg.Display.SparklineFloor = dark.SparklineFloor
	}
	if cfg.Display.SpikeFactor == 0 {
		cfg.Display.SpikeFactor = dark.SpikeFactor
	}
	if cfg.Display.TrendWindow == 0 {
		cfg.Display.TrendWindow = dark.TrendWindow
	}

	// ── Zones ──
	if len(cfg.Zones) == 0 {
		cfg.Zones = zone.DefaultDrillZones()
	}
	if len(cfg.Hotspots) == 0 {
		cfg.Hotspots = zone.DefaultFishingHotspots()
	}

	// ── Kafka ──
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "latest"
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}

	// ── Log ──
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Monitoring ──
	if cfg.Monitoring.Namespace == "" {
		cfg.Monitoring.Namespace = DefaultMetricsNamespace
	}
	if cfg.Monitoring.Path == "" {
		cfg.Monitoring.Path = DefaultMetricsPath
	}
}

//Personal.AI order the ending
