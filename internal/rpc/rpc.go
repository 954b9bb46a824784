package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"echo-server/internal/config"
	"echo-server/internal/models"
)

// HTTPClient 管理接口客户端
type HTTPClient interface {
	Get(path string, params map[string]interface{}) (*HTTPResponse, error)
	GetJSON(path string, out interface{}) error
	Close() error
}

// HTTPConfig 定义HTTP客户端配置
type HTTPConfig struct {
	Address string        // 管理接口侦听地址
	Network string        // unix,tcp...
	Timeout time.Duration // 默认超时时间
	BaseURL string        // 基础URL
}

/**
 * Build client configuration from application configuration
 * @param {*config.AppConfig} cfg - Application configuration
 * @returns {*HTTPConfig} Unix socket config if the socket file exists, TCP otherwise
 */
func DefaultHTTPConfig(cfg *config.AppConfig) *HTTPConfig {
	c := &HTTPConfig{
		Address: cfg.Server.Address,
		Network: "tcp",
		Timeout: 5 * time.Second,
		BaseURL: "http://localhost",
	}
	// 优先使用unix socket
	if cfg.Server.Socket != "" {
		if _, err := os.Stat(cfg.Server.Socket); err == nil {
			c.Address = cfg.Server.Socket
			c.Network = "unix"
		}
	}
	if c.Address == "" {
		c.Address = config.DefaultAdminAddress
	}
	return c
}

// HTTPResponse 定义HTTP响应结构
type HTTPResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Error      string              `json:"error"`
}

// buildURL 构建完整的URL
func buildURL(baseURL, path string, params map[string]interface{}) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	// 添加路径
	if u.Path == "" {
		u.Path = path
	} else {
		// 确保路径以/结尾，然后拼接
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		u.Path += strings.TrimPrefix(path, "/")
	}

	// 添加查询参数
	if params != nil {
		q := u.Query()
		for key, value := range params {
			switch v := value.(type) {
			case string:
				q.Set(key, v)
			default:
				q.Set(key, fmt.Sprintf("%v", v))
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// deserializeResponse 反序列化响应数据
func deserializeResponse(resp *http.Response) (*HTTPResponse, error) {
	defer resp.Body.Close()
	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	httpResp.Body = body
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return httpResp, nil
	}
	if len(body) == 0 {
		httpResp.Error = resp.Status
	} else {
		var errBody models.ErrorResponse
		if err := json.Unmarshal(body, &errBody); err != nil || errBody.Error == "" {
			httpResp.Error = resp.Status
		} else {
			httpResp.Error = errBody.Error
		}
	}
	return httpResp, nil
}
