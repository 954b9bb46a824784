package services

import (
	"bytes"
	"testing"

	"echo-server/internal/config"
	"echo-server/internal/logger"
	"echo-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// captureLog 将日志重定向到缓冲区，测试结束后恢复到丢弃输出
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.InitLoggerWithWriter(&buf, "info")
	t.Cleanup(func() {
		logger.InitLoggerWithWriter(&bytes.Buffer{}, "error")
	})
	return &buf
}

func testOptions(t *testing.T, persistDir string) ListenerOptions {
	t.Helper()
	return ListenerOptions{
		Host: "127.0.0.1",
		Body: middleware.BodyConfig{
			TempDir:   t.TempDir(),
			BodyLimit: config.DefaultBodyLimit,
		},
		Handlers: DefaultHandlers(persistDir),
	}
}
