package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GrayZone-Monitor/internal/testutil"
)

func TestNewServer_Defaults(t *testing.T) {
	mux := http.NewServeMux()
	s := NewServer(ServerConfig{Addr: ":8080", ReadTimeout: time.Second}, mux, testutil.NewMockLogger())

	assert.Equal(t, ":8080", s.httpServer.Addr)
	assert.Equal(t, time.Second, s.httpServer.ReadTimeout)
	assert.Equal(t, 15*time.Second, s.shutdown)
	assert.Equal(t, http.Handler(mux), s.Handler())
}

func TestServer_ServeAndShutdown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
	log := testutil.NewMockLogger()
	s := NewServer(ServerConfig{ShutdownTimeout: time.Second}, mux, log)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, log.HasMessage("info", "HTTP server listening"))
	assert.True(t, log.HasMessage("info", "HTTP server stopped"))
}

func TestServer_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s := NewServer(ServerConfig{Addr: ln.Addr().String()}, http.NewServeMux(), testutil.NewMockLogger())
	assert.Error(t, s.ListenAndServe(context.Background()))
}

func TestServer_ShutdownIdle(t *testing.T) {
	s := NewServer(ServerConfig{Addr: ":0"}, http.NewServeMux(), testutil.NewMockLogger())
	assert.NoError(t, s.Shutdown(context.Background()))
}

//Personal.AI order the ending
