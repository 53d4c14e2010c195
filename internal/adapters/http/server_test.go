package http_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapthttp "github.com/jsamuelsen11/projectboard/internal/adapters/http"
	"github.com/jsamuelsen11/projectboard/internal/platform/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// start runs s in the background and waits until it accepts connections.
func start(t *testing.T, s *adapthttp.Server) <-chan error {
	t.Helper()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case <-s.Ready():
	case err := <-errCh:
		t.Fatalf("Start() returned early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server never became ready")
	}
	return errCh
}

func TestNewServer_NilLogger(t *testing.T) {
	t.Parallel()

	s := adapthttp.NewServer(config.ServerConfig{Host: "127.0.0.1"}, http.NotFoundHandler(), nil)
	assert.NotNil(t, s)
}

func TestServer_AddrBeforeAndAfterStart(t *testing.T) {
	t.Parallel()

	s := adapthttp.NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0}, http.NotFoundHandler(), discardLogger())
	assert.Equal(t, "127.0.0.1:0", s.Addr())

	errCh := start(t, s)
	assert.NotEqual(t, "127.0.0.1:0", s.Addr())

	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, <-errCh)
}

func TestServer_ServesAndShutsDown(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
	cfg := config.ServerConfig{
		Host:        "127.0.0.1",
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 30 * time.Second,
	}
	s := adapthttp.NewServer(cfg, handler, discardLogger())
	errCh := start(t, s)

	resp, err := http.Get("http://" + s.Addr() + "/health/live")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	require.NoError(t, <-errCh)
}

func TestServer_StartFailsOnBusyPort(t *testing.T) {
	t.Parallel()

	first := adapthttp.NewServer(config.ServerConfig{Host: "127.0.0.1"}, http.NotFoundHandler(), discardLogger())
	errCh := start(t, first)
	t.Cleanup(func() {
		_ = first.Shutdown(context.Background())
		<-errCh
	})

	cfg := config.ServerConfig{Host: "127.0.0.1"}
	_, port, _ := splitHostPort(first.Addr())
	cfg.Port = port

	second := adapthttp.NewServer(cfg, http.NotFoundHandler(), discardLogger())
	assert.Error(t, second.Start())
}

// A stream that only ends when told to would hold Shutdown until its
// deadline; the shutdown hook lets it end promptly.
func TestServer_ShutdownHookEndsLongLivedResponses(t *testing.T) {
	t.Parallel()

	stop := make(chan struct{})
	started := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_ = http.NewResponseController(w).Flush()
		close(started)
		<-stop
	})

	s := adapthttp.NewServer(config.ServerConfig{Host: "127.0.0.1"}, handler, discardLogger())
	s.RegisterOnShutdown(func() { close(stop) })
	errCh := start(t, s)

	go func() {
		resp, err := http.Get("http://" + s.Addr() + "/api/v1/projects/events")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	begin := time.Now()
	require.NoError(t, s.Shutdown(ctx))
	require.NoError(t, <-errCh)
	assert.Less(t, time.Since(begin), 3*time.Second)
}

func splitHostPort(addr string) (string, int, error) {
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(p)
	return host, port, err
}
