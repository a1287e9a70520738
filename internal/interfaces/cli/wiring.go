package cli

import (
	"time"

	"github.com/turtacn/GrayZone-Monitor/internal/application/viewmodel"
	"github.com/turtacn/GrayZone-Monitor/internal/config"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/storage/minio"
)

// viewOptions maps the display and source sections onto composer options.
func viewOptions(cfg *config.Config) viewmodel.Options {
	opts := viewmodel.DefaultOptions()
	opts.SuspiciousLimit = cfg.Display.SuspiciousLimit
	opts.Identity = cfg.Display.Identity()
	opts.Dark = cfg.Display.Dark()
	if cfg.Source.Timeout > 0 {
		// Retries run inside one fetch, so the budget covers every attempt.
		opts.FetchTimeout = cfg.Source.Timeout * time.Duration(cfg.Source.Retries+1)
	}
	return opts
}

// openObjectStore connects to MinIO when an endpoint is configured and
// returns nils otherwise.
func openObjectStore(cfg *config.Config, log logging.Logger) (*minio.MinIOClient, minio.SnapshotStore, error) {
	if !cfg.MinIO.Enabled() {
		return nil, nil, nil
	}
	client, err := minio.NewMinIOClient(&cfg.MinIO, log)
	if err != nil {
		return nil, nil, err
	}
	return client, minio.NewSnapshotStore(client, log), nil
}

//Personal.AI order the ending
