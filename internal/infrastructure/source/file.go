package source

import (
	"context"
	"io"
	"os"

	"github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

// FileSource reads the snapshot from a local path on every fetch.
type FileSource struct {
	path     string
	maxBytes int64
}

func NewFileSource(path string, maxBytes int64) (*FileSource, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeSourceNotConfigured, "file source requires a path")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &FileSource{path: path, maxBytes: maxBytes}, nil
}

func (s *FileSource) Describe() string { return "file " + s.path }

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSnapshotFetch, "snapshot fetch cancelled")
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSnapshotFetch, "failed to open snapshot file").WithDetail(s.path)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.maxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSnapshotFetch, "failed to read snapshot file").WithDetail(s.path)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, errors.Newf(errors.ErrCodeSnapshotFetch, "snapshot file exceeds %d bytes", s.maxBytes).WithDetail(s.path)
	}
	return data, nil
}

//Personal.AI order the ending
