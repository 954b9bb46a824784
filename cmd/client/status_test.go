package client

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"echo-server/internal/rpc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			w.Write([]byte(`{"version":"dev","status":"UP","uptime":"1m0s","metrics":{"totalRequests":7,"errorRequests":1}}`))
		case "/echo/api/v1/services":
			w.Write([]byte(`[{"name":"b-echo","port":8101,"address":"0.0.0.0:8101","status":"running","routes":[{"method":"POST","route":"/api/v1/do/something"}],"static":[]}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := rpc.NewHTTPClient(&rpc.HTTPConfig{
		Address: server.Listener.Addr().String(),
		Network: "tcp",
		Timeout: 5 * time.Second,
		BaseURL: "http://localhost",
	})
	defer client.Close()

	var buf bytes.Buffer
	require.NoError(t, showStatus(&buf, client))
	out := buf.String()
	assert.Contains(t, out, "Status: UP")
	assert.Contains(t, out, "Requests: 7 (errors 1)")
	assert.Contains(t, out, "b-echo")
	assert.Contains(t, out, "0.0.0.0:8101")
	assert.Contains(t, out, "running")
}

func TestShowStatusUnreachable(t *testing.T) {
	client := rpc.NewHTTPClient(&rpc.HTTPConfig{
		Address: "127.0.0.1:1",
		Network: "tcp",
		Timeout: time.Second,
		BaseURL: "http://localhost",
	})
	defer client.Close()

	var buf bytes.Buffer
	err := showStatus(&buf, client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not reachable")
}
