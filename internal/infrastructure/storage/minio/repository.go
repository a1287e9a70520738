package minio

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

var (
	ErrObjectNotFound = errors.New(errors.ErrCodeObjectAbsent, "object not found")
	ErrObjectTooLarge = errors.New(errors.ErrCodeStorageError, "object exceeds size limit")
	ErrClientClosed   = errors.New(errors.ErrCodeStorageError, "minio client is closed")
)

// SnapshotObject is a downloaded snapshot document with its object metadata.
type SnapshotObject struct {
	Bucket       string
	ObjectKey    string
	Data         []byte
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// SnapshotStore reads snapshot documents from a bucket.
type SnapshotStore interface {
	Download(ctx context.Context, bucket, objectKey string) (*SnapshotObject, error)
	Stat(ctx context.Context, bucket, objectKey string) (*SnapshotObject, error)
}

type snapshotStore struct {
	client   *MinIOClient
	logger   logging.Logger
	maxBytes int64
}

func NewSnapshotStore(client *MinIOClient, log logging.Logger) SnapshotStore {
	return &snapshotStore{
		client:   client,
		logger:   log,
		maxBytes: client.config.MaxObjectBytes,
	}
}

// Stat returns metadata only; Data is nil.
func (s *snapshotStore) Stat(ctx context.Context, bucket, objectKey string) (*SnapshotObject, error) {
	if err := s.check(bucket, objectKey); err != nil {
		return nil, err
	}
	info, err := s.client.api.StatObject(ctx, bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		return nil, translate(err, bucket, objectKey)
	}
	return &SnapshotObject{
		Bucket:       bucket,
		ObjectKey:    objectKey,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

// Download stats the object, rejects it when it is larger than the
// configured limit, then reads it fully.
func (s *snapshotStore) Download(ctx context.Context, bucket, objectKey string) (*SnapshotObject, error) {
	obj, err := s.Stat(ctx, bucket, objectKey)
	if err != nil {
		return nil, err
	}
	if s.maxBytes > 0 && obj.Size > s.maxBytes {
		return nil, ErrObjectTooLarge.WithDetail(objectKey)
	}

	rc, err := s.client.api.OpenObject(ctx, bucket, objectKey)
	if err != nil {
		return nil, translate(err, bucket, objectKey)
	}
	defer rc.Close()

	r := io.Reader(rc)
	if s.maxBytes > 0 {
		r = io.LimitReader(rc, s.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, translate(err, bucket, objectKey)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, ErrObjectTooLarge.WithDetail(objectKey)
	}

	obj.Data = data
	s.logger.Debug("snapshot downloaded",
		logging.String("bucket", bucket),
		logging.String("object", objectKey),
		logging.Int("bytes", len(data)),
		logging.String("etag", obj.ETag))
	return obj, nil
}

func (s *snapshotStore) check(bucket, objectKey string) error {
	if s.client.isClosed() {
		return ErrClientClosed
	}
	if bucket == "" || objectKey == "" {
		return errors.New(errors.ErrCodeValidation, "bucket and object key are required")
	}
	return nil
}

func translate(err error, bucket, objectKey string) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return ErrObjectNotFound.WithDetail(bucket + "/" + objectKey)
	}
	return errors.Wrap(err, errors.ErrCodeStorageError, "minio request failed").WithDetail(bucket + "/" + objectKey)
}

//Personal.AI order the ending
