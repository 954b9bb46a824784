package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"echo-server/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistBodyRoundTrip(t *testing.T) {
	captureLog(t)
	dir := t.TempDir()
	now := time.UnixMilli(1700000000123)
	h := &PersistBodyHandler{Dir: dir, Now: func() time.Time { return now }}

	path, err := h.Persist([]byte(`{"x":1}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1700000000123.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string]interface{}{"x": float64(1)}, got)
}

func TestPersistBodySameMillisecondOverwrites(t *testing.T) {
	captureLog(t)
	dir := t.TempDir()
	now := time.UnixMilli(1700000000456)
	h := &PersistBodyHandler{Dir: dir, Now: func() time.Time { return now }}

	_, err := h.Persist([]byte(`{"first":true}`))
	require.NoError(t, err)
	_, err = h.Persist([]byte(`{"second":true}`))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"second":true}`, string(data))
}

func TestPersistBodyWriteFailure(t *testing.T) {
	captureLog(t)
	h := &PersistBodyHandler{Dir: filepath.Join(t.TempDir(), "missing")}

	r := gin.New()
	r.POST("/write", h.Handle)
	req := httptest.NewRequest(http.MethodPost, "/write", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestEchoHandlerLogsBody(t *testing.T) {
	buf := captureLog(t)

	r := gin.New()
	r.Use(middleware.BodyParser(middleware.BodyConfig{TempDir: t.TempDir()}))
	r.POST("/echo", EchoHandler{}.Handle)
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a": 1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Contains(t, buf.String(), `{"a":1}`)
}

func TestBodyKeepsKeyOrderAndCharacters(t *testing.T) {
	buf := captureLog(t)
	dir := t.TempDir()
	now := time.UnixMilli(1700000000789)

	r := gin.New()
	r.Use(middleware.BodyParser(middleware.BodyConfig{TempDir: t.TempDir()}))
	r.POST("/echo", EchoHandler{}.Handle)
	r.POST("/write", (&PersistBodyHandler{Dir: dir, Now: func() time.Time { return now }}).Handle)

	for _, target := range []string{"/echo", "/write"} {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{ "b": 1, "a": "<x>&" }`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, target)
	}

	assert.Contains(t, buf.String(), `{"b":1,"a":"<x>&"}`)
	data, err := os.ReadFile(filepath.Join(dir, "1700000000789.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":"<x>&"}`, string(data))
}

func TestHandlerFunc(t *testing.T) {
	called := false
	var h Handler = HandlerFunc(func(c *gin.Context) { called = true })
	h.Handle(nil)
	assert.True(t, called)
}
