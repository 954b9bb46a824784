package routes

import (
	"bytes"
	"testing"

	"echo-server/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintRoutesDefaultProfile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRoutes(&buf, config.Default()))

	out := buf.String()
	assert.Contains(t, out, "/api/v1/do/something/:iid")
	assert.Contains(t, out, "/api/v1/write/something")
	assert.Contains(t, out, "/api/v1/images")
	assert.Contains(t, out, "catch-all")
	assert.NotContains(t, out, "a-echo")
}

func TestPrintRoutesNoMatch(t *testing.T) {
	cfg := config.Default()
	cfg.Services = []config.ServiceConfig{{Name: "only-a", Profiles: []string{"a"}, Port: 1}}
	cfg.Profiles = []string{"b"}

	var buf bytes.Buffer
	require.NoError(t, printRoutes(&buf, cfg))
	assert.Contains(t, buf.String(), "没有匹配当前标签的服务")
}
