package services

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"echo-server/internal/logger"
	"echo-server/internal/middleware"
	"echo-server/internal/models"

	"github.com/gin-gonic/gin"
)

// ExportField 上传文件的表单字段名
const ExportField = "export"

// Handler consumes a request and writes the response. The caller continues
// the gin chain afterwards.
type Handler interface {
	Handle(c *gin.Context)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(c *gin.Context)

func (f HandlerFunc) Handle(c *gin.Context) {
	f(c)
}

// EchoHandler logs the request and answers an empty 200.
type EchoHandler struct{}

func (EchoHandler) Handle(c *gin.Context) {
	if file, ok := middleware.UploadedFiles(c)[ExportField]; ok {
		logger.Infof("File received: mime-type: %s, tempFilePath: %s", file.MimeType, file.TempFilePath)
	} else if data, err := middleware.BodyJSON(c); err == nil {
		logger.Info(string(data))
	} else {
		logger.Infof("%v", middleware.RequestBody(c))
	}
	c.String(http.StatusOK, "")
}

/**
 * Handler writing the request body to <unix-millis>.json
 * @property {string} Dir - Output directory, "." when empty
 * @property {func() time.Time} Now - Clock, time.Now when nil
 * @description
 * - Requests landing in the same millisecond overwrite each other's file
 * - The write is synchronous and blocks only the request goroutine
 */
type PersistBodyHandler struct {
	Dir string
	Now func() time.Time
}

func (h *PersistBodyHandler) Handle(c *gin.Context) {
	data, err := middleware.BodyJSON(c)
	if err != nil {
		logger.Errorf("Encode body failed: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	path, err := h.Persist(data)
	if err != nil {
		logger.Errorf("Save body to %s failed: %v", path, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.String(http.StatusOK, "")
}

// Persist writes the JSON text of a body and returns the target path.
func (h *PersistBodyHandler) Persist(data []byte) (string, error) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	dir := h.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fmt.Sprintf("%d.json", now().UnixMilli()))
	logger.Infof("Saving body to %s", path)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return path, err
	}
	recordPersisted()
	return path, nil
}

// DefaultHandlers 每种 Action 对应的处理器
func DefaultHandlers(persistDir string) map[models.Action]Handler {
	return map[models.Action]Handler{
		models.ActionEcho:  EchoHandler{},
		models.ActionWrite: &PersistBodyHandler{Dir: persistDir},
	}
}
