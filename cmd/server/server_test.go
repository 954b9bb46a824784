package server

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"echo-server/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Mode = "test"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Address = ""
	cfg.Upload.TempDir = t.TempDir()
	cfg.Persist.Dir = t.TempDir()
	cfg.Profiles = nil
	cfg.Services = []config.ServiceConfig{{
		Name:      "s",
		BasePath:  "/",
		Endpoints: []config.EndpointConfig{{Method: "POST", Route: ""}},
	}}
	return cfg
}

func TestAdminAddrs(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Address = "127.0.0.1:9000"
	cfg.Server.Socket = "/tmp/echo.sock"
	assert.Equal(t, []ListenAddr{
		{Network: "tcp", Address: "127.0.0.1:9000"},
		{Network: "unix", Address: "/tmp/echo.sock"},
	}, AdminAddrs(cfg))

	cfg.Server.Address = ""
	cfg.Server.Socket = ""
	assert.Empty(t, AdminAddrs(cfg))
}

func TestCreateListeners(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "run", "admin.sock")
	listeners, err := CreateListeners([]ListenAddr{
		{Network: "tcp", Address: "127.0.0.1:0"},
		{Network: "unix", Address: sock},
	})
	require.NoError(t, err)
	require.Len(t, listeners, 2)
	for _, ln := range listeners {
		ln.Close()
	}
}

func TestCreateListenersPartialFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	listeners, err := CreateListeners([]ListenAddr{
		{Network: "tcp", Address: busy.Addr().String()},
		{Network: "tcp", Address: "127.0.0.1:0"},
	})
	assert.Error(t, err)
	require.Len(t, listeners, 1)
	listeners[0].Close()
}

func TestStartServerShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)
	assert.NoError(t, startServer(ctx, cfg))
}

func TestStartServerNothingStarted(t *testing.T) {
	cfg := testConfig(t)
	cfg.Services[0].Static = []config.StaticConfig{{Route: "files", Path: filepath.Join(t.TempDir(), "missing")}}

	err := startServer(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no echo service started")
}

func TestStartServerInvalidRegistry(t *testing.T) {
	cfg := testConfig(t)
	cfg.Services[0].Endpoints[0].Method = "TRACE"

	err := startServer(context.Background(), cfg)
	assert.ErrorIs(t, err, config.ErrInvalidService)
}
