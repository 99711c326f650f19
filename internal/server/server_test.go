package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ServesAndStops(t *testing.T) {
	gwLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	metricsLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := &Config{
		ListenAddr:      gwLn.Addr().String(),
		MetricsAddr:     metricsLn.Addr().String(),
		ShutdownTimeout: time.Second,
	}
	gateway := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { io.WriteString(w, "gw") })
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { io.WriteString(w, "m") })
	s := New(cfg, gateway, metricsHandler)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, gwLn, metricsLn) }()

	assert.Equal(t, "gw", fetch(t, "http://"+cfg.ListenAddr+"/quote"))
	assert.Equal(t, "m", fetch(t, "http://"+cfg.MetricsAddr+"/metrics"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	s := New(&Config{ListenAddr: "127.0.0.1:0"}, http.NotFoundHandler(), http.NotFoundHandler())
	assert.Nil(t, s.metrics)
}

func fetch(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
