package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultAdminAddress, cfg.Server.Address)
	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultTempDir, cfg.Upload.TempDir)
	assert.Equal(t, int64(5)<<30, cfg.Upload.BodyLimit)
	assert.Equal(t, ".", cfg.Persist.Dir)
	assert.Equal(t, []string{"b"}, cfg.Profiles)
	assert.Equal(t, DefaultServices(), cfg.Services)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: ""
  host: 127.0.0.1
log:
  level: debug
persist:
  dir: /var/lib/echo
profiles: [a, b]
services:
  - name: orders
    profiles: [a]
    port: 9100
    base_path: /orders/
    endpoints:
      - method: post
        route: ":id"
        action: write
    static:
      - route: docs
        path: ./docs
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Server.Address)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/lib/echo", cfg.Persist.Dir)
	assert.Equal(t, DefaultBodyLimit, cfg.Upload.BodyLimit)
	assert.Equal(t, []string{"a", "b"}, cfg.Profiles)
	require.Len(t, cfg.Services, 1)
	assert.Equal(t, ServiceConfig{
		Name:      "orders",
		Profiles:  []string{"a"},
		Port:      9100,
		BasePath:  "/orders/",
		Endpoints: []EndpointConfig{{Method: "post", Route: ":id", Action: "write"}},
		Static:    []StaticConfig{{Route: "docs", Path: "./docs"}},
	}, cfg.Services[0])
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0644))
	t.Setenv("ECHO_LOG_LEVEL", "error")
	t.Setenv("ECHO_PROFILES", "a,b")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, []string{"a", "b"}, cfg.Profiles)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Len(t, cfg.Services, 4)
}
