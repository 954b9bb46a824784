package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"echo-server/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	bodyKey  = "echo.body"
	rawKey   = "echo.raw"
	filesKey = "echo.files"

	// 表单字段值的内存上限，文件部分不受此限制
	maxFieldSize = 10 << 20
)

/**
 * Uploaded file staged to disk before the handler runs
 * @property {string} field - Multipart form field name
 * @property {string} name - Client supplied file name
 * @property {string} mimeType - Declared Content-Type of the part
 * @property {string} tempFilePath - Location of the staged copy
 * @property {int64} size - Number of bytes written
 */
type UploadedFile struct {
	Field        string `json:"field"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	TempFilePath string `json:"tempFilePath"`
	Size         int64  `json:"size"`
}

// ErrFieldTooLarge 表单文本字段超过 maxFieldSize
var ErrFieldTooLarge = errors.New("multipart field too large")

// UploadRecorder 统计暂存的上传文件
type UploadRecorder interface {
	RecordUpload(file *UploadedFile)
}

type BodyConfig struct {
	TempDir   string
	BodyLimit int64
	Recorder  UploadRecorder
}

/**
 * Request body parsing middleware
 * @param {BodyConfig} cfg - Temp directory for uploads and maximum body size
 * @returns {gin.HandlerFunc} Middleware storing the parsed body in the gin context
 * @description
 * - Bounds every body with http.MaxBytesReader, overflow answers 413
 * - JSON bodies are decoded, an empty body becomes {}
 * - The compacted source of a JSON body is kept for BodyJSON
 * - Malformed JSON or multipart answers 400 and stops the chain
 * - Multipart file parts are streamed into TempDir as tmp-<uuid>, a failed parse removes them
 * - Any other content type yields an empty object body
 */
func BodyParser(cfg BodyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.BodyLimit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.BodyLimit)
		}

		mediaType, params, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
		var body interface{} = map[string]interface{}{}
		var raw []byte
		var err error

		switch {
		case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
			body, raw, err = parseJSON(c.Request.Body)
		case mediaType == "multipart/form-data":
			var files map[string]*UploadedFile
			body, files, err = parseMultipart(c.Request.Body, params["boundary"], cfg)
			if files != nil {
				c.Set(filesKey, files)
			}
		}

		if err != nil {
			status := http.StatusBadRequest
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) || errors.Is(err, ErrFieldTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			logger.Errorf("Parse body of %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
			c.AbortWithStatus(status)
			return
		}
		c.Set(bodyKey, body)
		if raw != nil {
			c.Set(rawKey, raw)
		}
		c.Next()
	}
}

func parseJSON(r io.Reader) (interface{}, []byte, error) {
	if r == nil {
		return map[string]interface{}{}, nil, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]interface{}{}, nil, nil
	}
	var body interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, nil, fmt.Errorf("invalid json body: %w", err)
	}
	// 保留原始键顺序和字符，只去掉空白
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return nil, nil, fmt.Errorf("invalid json body: %w", err)
	}
	return body, compact.Bytes(), nil
}

func parseMultipart(r io.Reader, boundary string, cfg BodyConfig) (fields map[string]interface{}, files map[string]*UploadedFile, err error) {
	if boundary == "" {
		return nil, nil, errors.New("multipart boundary missing")
	}
	fields = map[string]interface{}{}
	files = map[string]*UploadedFile{}
	var staged []string

	defer func() {
		if err != nil {
			// 解析失败时清理已暂存的文件，不计入统计
			for _, path := range staged {
				os.Remove(path)
			}
			fields, files = nil, nil
			return
		}
		if cfg.Recorder != nil {
			for _, file := range files {
				cfg.Recorder.RecordUpload(file)
			}
		}
	}()

	reader := multipart.NewReader(r, boundary)
	for {
		part, nextErr := reader.NextPart()
		if nextErr == io.EOF {
			break
		}
		if nextErr != nil {
			return nil, nil, nextErr
		}
		if part.FileName() == "" {
			value, readErr := io.ReadAll(io.LimitReader(part, maxFieldSize+1))
			part.Close()
			if readErr != nil {
				return nil, nil, readErr
			}
			if len(value) > maxFieldSize {
				return nil, nil, fmt.Errorf("field %q: %w", part.FormName(), ErrFieldTooLarge)
			}
			fields[part.FormName()] = string(value)
			continue
		}
		file, stageErr := stageFile(part, cfg.TempDir)
		part.Close()
		if stageErr != nil {
			return nil, nil, stageErr
		}
		staged = append(staged, file.TempFilePath)
		if prev, ok := files[file.Field]; ok {
			// 同名字段以最后一个为准
			os.Remove(prev.TempFilePath)
		}
		files[file.Field] = file
	}
	return fields, files, nil
}

func stageFile(part *multipart.Part, dir string) (*UploadedFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir failed: %w", err)
	}
	path := filepath.Join(dir, "tmp-"+uuid.NewString())
	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create temp file failed: %w", err)
	}
	n, err := io.Copy(out, part)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	mimeType := part.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &UploadedFile{
		Field:        part.FormName(),
		Name:         part.FileName(),
		MimeType:     mimeType,
		TempFilePath: path,
		Size:         n,
	}, nil
}

// RequestBody 返回 BodyParser 解析后的请求体
func RequestBody(c *gin.Context) interface{} {
	if v, ok := c.Get(bodyKey); ok {
		return v
	}
	return map[string]interface{}{}
}

/**
 * Compact JSON text of the request body
 * @param {*gin.Context} c - Request context after BodyParser
 * @returns {[]byte} JSON bodies keep their source key order and characters,
 *   other bodies are encoded without HTML escaping
 */
func BodyJSON(c *gin.Context) ([]byte, error) {
	if v, ok := c.Get(rawKey); ok {
		if raw, ok := v.([]byte); ok {
			return raw, nil
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(RequestBody(c)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UploadedFiles 返回按字段名索引的暂存文件，没有上传时为nil
func UploadedFiles(c *gin.Context) map[string]*UploadedFile {
	if v, ok := c.Get(filesKey); ok {
		if files, ok := v.(map[string]*UploadedFile); ok {
			return files
		}
	}
	return nil
}
