package viewmodel

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Fetch(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	var data []byte
	if v := args.Get(0); v != nil {
		data = v.([]byte)
	}
	return data, args.Error(1)
}

func (m *mockSource) Describe() string {
	return "mock://snapshot"
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEvent(ctx context.Context, topic, eventType string, key []byte, payload interface{}) error {
	args := m.Called(ctx, topic, eventType, key, payload)
	return args.Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) StoreView(ctx context.Context, hash string, payload []byte) error {
	return m.Called(ctx, hash, payload).Error(0)
}

func (m *mockCache) LoadLatest(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	var data []byte
	if v := args.Get(0); v != nil {
		data = v.([]byte)
	}
	return data, args.Error(1)
}

func (m *mockCache) LoadByHash(ctx context.Context, hash string) ([]byte, error) {
	args := m.Called(ctx, hash)
	var data []byte
	if v := args.Get(0); v != nil {
		data = v.([]byte)
	}
	return data, args.Error(1)
}

func (m *mockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// blockingSource parks every Fetch until release is closed.
type blockingSource struct {
	payload []byte
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	calls   atomic.Int32
}

func newBlockingSource(payload []byte) *blockingSource {
	return &blockingSource{
		payload: payload,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *blockingSource) Fetch(ctx context.Context) ([]byte, error) {
	s.calls.Add(1)
	s.once.Do(func() { close(s.entered) })
	select {
	case <-s.release:
		return s.payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *blockingSource) Describe() string { return "blocking" }

type countingRecorder struct {
	nopRecorder
	mu        sync.Mutex
	refreshOK int
	refreshKO int
	vessels   int
	publishes map[string]int
}

func (r *countingRecorder) RecordRefresh(ok bool, _ time.Duration, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ok {
		r.refreshOK++
	} else {
		r.refreshKO++
	}
}

func (r *countingRecorder) RecordVessels(total, _ int, _ map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vessels = total
}

func (r *countingRecorder) RecordPublish(topic string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.publishes == nil {
		r.publishes = map[string]int{}
	}
	if err == nil {
		r.publishes[topic]++
	}
}

//Personal.AI order the ending
