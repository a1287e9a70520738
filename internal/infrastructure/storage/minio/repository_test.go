package minio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

func newTestStore(g *fakeGetter, maxBytes int64) (SnapshotStore, *MinIOClient) {
	cfg := testConfig()
	cfg.MaxObjectBytes = maxBytes
	c := newClient(g, cfg, logging.NewNopLogger())
	return NewSnapshotStore(c, logging.NewNopLogger()), c
}

func TestDownload_Success(t *testing.T) {
	g := newFakeGetter()
	g.objects["latest.json"] = []byte(`{"updated_at":"2024-05-02T06:00:00Z"}`)
	store, _ := newTestStore(g, 1024)

	obj, err := store.Download(context.Background(), "grayzone-snapshots", "latest.json")
	require.NoError(t, err)
	assert.Equal(t, `{"updated_at":"2024-05-02T06:00:00Z"}`, string(obj.Data))
	assert.Equal(t, "etag-latest.json", obj.ETag)
	assert.Equal(t, int64(len(obj.Data)), obj.Size)
	assert.Equal(t, g.modified, obj.LastModified)
}

func TestDownload_Errors(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		setup  func(g *fakeGetter)
		bucket string
		object string
		code   pkgerrors.ErrorCode
	}{
		{"missing key", func(*fakeGetter) {}, "grayzone-snapshots", "nope.json", pkgerrors.ErrCodeObjectAbsent},
		{"missing bucket", func(*fakeGetter) {}, "other", "latest.json", pkgerrors.ErrCodeObjectAbsent},
		{"empty key", func(*fakeGetter) {}, "grayzone-snapshots", "", pkgerrors.ErrCodeValidation},
		{"too large", func(g *fakeGetter) { g.objects["latest.json"] = make([]byte, 32) }, "grayzone-snapshots", "latest.json", pkgerrors.ErrCodeStorageError},
		{"open fails", func(g *fakeGetter) {
			g.objects["latest.json"] = []byte("{}")
			g.openErr = errors.New("reset by peer")
		}, "grayzone-snapshots", "latest.json", pkgerrors.ErrCodeStorageError},
		{"stat fails", func(g *fakeGetter) { g.statErr = errors.New("timeout") }, "grayzone-snapshots", "latest.json", pkgerrors.ErrCodeStorageError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newFakeGetter()
			tc.setup(g)
			store, _ := newTestStore(g, 16)

			_, err := store.Download(ctx, tc.bucket, tc.object)
			assert.True(t, pkgerrors.IsCode(err, tc.code), "got %v", err)
		})
	}
}

func TestDownload_TooLargeSkipsRead(t *testing.T) {
	g := newFakeGetter()
	g.objects["latest.json"] = make([]byte, 32)
	store, _ := newTestStore(g, 16)

	_, err := store.Download(context.Background(), "grayzone-snapshots", "latest.json")
	assert.Error(t, err)
	assert.Zero(t, g.opened)
}

func TestStat_MetadataOnly(t *testing.T) {
	g := newFakeGetter()
	g.objects["latest.json"] = []byte("{}")
	store, _ := newTestStore(g, 0)

	obj, err := store.Stat(context.Background(), "grayzone-snapshots", "latest.json")
	require.NoError(t, err)
	assert.Nil(t, obj.Data)
	assert.Equal(t, int64(2), obj.Size)
	assert.Zero(t, g.opened)
}

func TestDownload_Closed(t *testing.T) {
	store, c := newTestStore(newFakeGetter(), 0)
	require.NoError(t, c.Close())

	_, err := store.Download(context.Background(), "grayzone-snapshots", "latest.json")
	assert.Equal(t, ErrClientClosed, err)
}

//Personal.AI order the ending
