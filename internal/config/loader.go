// Package config provides configuration loading, defaults, and validation for
// GrayZone-Monitor.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "GRAYZONE"

// envKeys are bound explicitly so that Unmarshal sees environment overrides
// for keys absent from the config file.
var envKeys = []string{
	"server.host", "server.port", "server.read_timeout", "server.write_timeout",
	"server.idle_timeout", "server.shutdown_timeout", "server.cors_origins",
	"source.kind", "source.url", "source.path", "source.bucket", "source.object",
	"source.timeout", "source.retries", "source.max_bytes",
	"refresh.interval", "refresh.on_start", "refresh.warm_from_cache",
	"display.suspicious_limit", "display.identity_limit", "display.diff_max_len",
	"display.placeholder", "display.sparkline_max_height", "display.sparkline_floor",
	"display.spike_factor", "display.trend_window",
	"redis.mode", "redis.addr", "redis.master_name", "redis.password", "redis.username",
	"redis.db", "redis.pool_size", "redis.ttl", "redis.key_prefix", "redis.tls_enabled",
	"kafka.brokers", "kafka.group_id", "kafka.auto_offset_reset", "kafka.consume_snapshots",
	"kafka.auto_create_topics", "kafka.write_timeout",
	"kafka.security.sasl_enabled", "kafka.security.sasl_mechanism",
	"kafka.security.sasl_username", "kafka.security.sasl_password",
	"kafka.security.tls_enabled", "kafka.security.tls_cert_path",
	"minio.endpoint", "minio.access_key_id", "minio.secret_access_key", "minio.use_ssl",
	"minio.region", "minio.bucket", "minio.object", "minio.max_object_bytes",
	"log.level", "log.format",
	"monitoring.namespace", "monitoring.path", "monitoring.process_metrics",
}

// newViper builds a pre-configured Viper instance: YAML file type,
// GRAYZONE_ env prefix, and a key replacer that maps "." → "_" so that
// nested keys like "source.url" resolve to "GRAYZONE_SOURCE_URL".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges any GRAYZONE_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.  An empty configPath loads from the environment only.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from GRAYZONE_* environment variables.
//
//	GRAYZONE_<SECTION>_<FIELD>   e.g.  GRAYZONE_SOURCE_URL, GRAYZONE_REDIS_ADDR
//
// List values such as kafka.brokers are comma separated.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed Config
// whenever the file changes on disk.  A change that fails to parse or
// validate is reported to onError, when set, and onChange is skipped.
//
// Only the log level and display limits are safe to apply at runtime;
// callers decide which subset to honour.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad is Load that panics on any error.  main() only.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
