package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"echo-server/internal/logger"
)

// httpClient HTTP客户端实现
type httpClient struct {
	config    *HTTPConfig
	client    *http.Client
	transport *http.Transport
	mu        sync.Mutex
}

/**
 * Create new HTTP client for the admin API
 * @param {*HTTPConfig} config - Client configuration
 * @returns {HTTPClient} HTTP client interface
 * @description
 * - Dials the configured network/address whatever host the URL names
 * - Supports tcp and unix socket admin listeners
 * @example
 * client := NewHTTPClient(DefaultHTTPConfig(cfg))
 * defer client.Close()
 */
func NewHTTPClient(config *HTTPConfig) HTTPClient {
	c := &httpClient{config: config}
	dialer := &net.Dialer{Timeout: config.Timeout}
	c.transport = &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, config.Network, config.Address)
		},
	}
	c.client = &http.Client{
		Transport: c.transport,
		Timeout:   config.Timeout,
	}
	return c
}

/**
 * Send GET request to the admin API
 * @param {string} path - API endpoint path
 * @param {map[string]interface{}} params - Query parameters
 * @returns {*HTTPResponse} Response, non-2xx statuses are reported in Error
 * @returns {error} URL, connection or read errors
 */
func (c *httpClient) Get(path string, params map[string]interface{}) (*HTTPResponse, error) {
	u, err := buildURL(c.config.BaseURL, path, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	logger.Debugf("Sending GET request to %s via %s://%s", u, c.config.Network, c.config.Address)

	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return deserializeResponse(resp)
}

// GetJSON 发送GET请求并将2xx响应解码到out
func (c *httpClient) GetJSON(path string, out interface{}) error {
	resp, err := c.Get(path, nil)
	if err != nil {
		return err
	}
	if resp.Error != "" {
		return fmt.Errorf("%s: %s", path, resp.Error)
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s failed: %w", path, err)
	}
	return nil
}

// Close 关闭空闲连接
func (c *httpClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transport.CloseIdleConnections()
	return nil
}
