package rpc

import (
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"echo-server/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/echo/api/v1/services":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"name":"b-echo","port":8101}]`))
		case "/echo/api/v1/services/missing":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code":"service.notexist","error":"service [missing] isn't exist"}`))
		case "/query":
			w.Write([]byte(r.URL.RawQuery))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func tcpClient(server *httptest.Server) HTTPClient {
	return NewHTTPClient(&HTTPConfig{
		Address: server.Listener.Addr().String(),
		Network: "tcp",
		Timeout: 5 * time.Second,
		BaseURL: "http://localhost",
	})
}

func TestGetJSON(t *testing.T) {
	client := tcpClient(newTestServer(t))
	defer client.Close()

	var list []struct {
		Name string `json:"name"`
		Port int    `json:"port"`
	}
	require.NoError(t, client.GetJSON("/echo/api/v1/services", &list))
	require.Len(t, list, 1)
	assert.Equal(t, "b-echo", list[0].Name)
	assert.Equal(t, 8101, list[0].Port)
}

func TestGetErrorResponses(t *testing.T) {
	client := tcpClient(newTestServer(t))
	defer client.Close()

	resp, err := client.Get("/echo/api/v1/services/missing", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "service [missing] isn't exist", resp.Error)

	resp, err = client.Get("/other", nil)
	require.NoError(t, err)
	assert.Equal(t, "500 Internal Server Error", resp.Error)

	var out interface{}
	assert.Error(t, client.GetJSON("/other", &out))
}

func TestGetQueryParams(t *testing.T) {
	client := tcpClient(newTestServer(t))
	defer client.Close()

	resp, err := client.Get("/query", map[string]interface{}{"n": 3, "s": "x"})
	require.NoError(t, err)
	assert.Equal(t, "n=3&s=x", string(resp.Body))
}

func TestUnixSocket(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "admin.sock")
	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"UP"}`))
	})}
	go srv.Serve(ln)
	defer srv.Close()

	cfg := config.Default()
	cfg.Server.Socket = sock
	hc := DefaultHTTPConfig(cfg)
	assert.Equal(t, "unix", hc.Network)

	client := NewHTTPClient(hc)
	defer client.Close()
	var health map[string]string
	require.NoError(t, client.GetJSON("/healthz", &health))
	assert.Equal(t, "UP", health["status"])
}

func TestDefaultHTTPConfigFallsBackToTCP(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Socket = filepath.Join(os.TempDir(), "does-not-exist.sock")
	hc := DefaultHTTPConfig(cfg)
	assert.Equal(t, "tcp", hc.Network)
	assert.Equal(t, config.DefaultAdminAddress, hc.Address)
}

func TestBuildURL(t *testing.T) {
	u, err := buildURL("http://localhost/base", "/healthz", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/base/healthz", u)

	u, err = buildURL("http://localhost", "/healthz", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/healthz", u)
}
