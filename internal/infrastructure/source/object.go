package source

import (
	"context"
	"sync"

	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/storage/minio"
	"github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

// ObjectSource downloads the snapshot object from a bucket.
type ObjectSource struct {
	store  minio.SnapshotStore
	bucket string
	object string
	logger logging.Logger

	mu       sync.Mutex
	lastETag string
}

func NewObjectSource(store minio.SnapshotStore, bucket, object string, log logging.Logger) (*ObjectSource, error) {
	if bucket == "" || object == "" {
		return nil, errors.New(errors.ErrCodeSourceNotConfigured, "minio source requires bucket and object")
	}
	return &ObjectSource{store: store, bucket: bucket, object: object, logger: log.Named("source.minio")}, nil
}

func (s *ObjectSource) Describe() string { return "minio " + s.bucket + "/" + s.object }

func (s *ObjectSource) Fetch(ctx context.Context) ([]byte, error) {
	obj, err := s.store.Download(ctx, s.bucket, s.object)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSnapshotFetch, "failed to download snapshot object").WithDetail(s.Describe())
	}

	s.mu.Lock()
	changed := obj.ETag != s.lastETag
	s.lastETag = obj.ETag
	s.mu.Unlock()

	if changed {
		s.logger.Info("snapshot object changed",
			logging.String("etag", obj.ETag),
			logging.Time("last_modified", obj.LastModified),
			logging.Int64("bytes", obj.Size))
	}
	return obj.Data, nil
}

// LastETag returns the ETag of the most recent successful download.
func (s *ObjectSource) LastETag() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastETag
}

//Personal.AI order the ending
