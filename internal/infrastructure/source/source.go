// Package source fetches raw snapshot documents from the place the producers
// publish them: an HTTP endpoint, a local file or a MinIO bucket.
package source

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/storage/minio"
	"github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

// Source kinds.
const (
	KindHTTP  = "http"
	KindFile  = "file"
	KindMinIO = "minio"
)

// DefaultMaxBytes bounds a single snapshot document.
const DefaultMaxBytes = 64 << 20

// Source returns the current snapshot document.  Implementations must honour
// ctx cancellation and return errors coded SNAP_*.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Describe names the source for logs and status output.
	Describe() string
}

// Config selects and parameterises a Source.
type Config struct {
	Kind     string
	URL      string
	Path     string
	Bucket   string
	Object   string
	Timeout  time.Duration
	Retries  int
	MaxBytes int64
}

// New builds the Source named by cfg.Kind.  store is only consulted for the
// minio kind and may be nil otherwise.
func New(cfg Config, store minio.SnapshotStore, log logging.Logger) (Source, error) {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	switch strings.ToLower(cfg.Kind) {
	case KindHTTP:
		return NewHTTPSource(cfg.URL, log,
			WithTimeout(cfg.Timeout),
			WithRetries(cfg.Retries),
			WithMaxBytes(cfg.MaxBytes))
	case KindFile:
		return NewFileSource(cfg.Path, cfg.MaxBytes)
	case KindMinIO:
		if store == nil {
			return nil, errors.New(errors.ErrCodeSourceNotConfigured, "minio source requires an object store")
		}
		return NewObjectSource(store, cfg.Bucket, cfg.Object, log)
	case "":
		return nil, errors.New(errors.ErrCodeSourceNotConfigured, "source kind is not set")
	default:
		return nil, errors.Newf(errors.ErrCodeSourceNotConfigured, "unknown source kind %q", cfg.Kind)
	}
}

//Personal.AI order the ending
