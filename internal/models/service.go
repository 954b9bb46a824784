package models

import (
	"net/http"
	"strings"
)

// Profile 服务激活标签，只用于判断服务是否启动
type Profile string

const (
	ProfileA Profile = "a"
	ProfileB Profile = "b"
)

// Action 端点处理器类型
type Action string

const (
	// 记录请求并返回空的200响应
	ActionEcho Action = "echo"
	// 将请求体保存为 <毫秒时间戳>.json
	ActionWrite Action = "write"
)

// SupportedMethods lists the HTTP methods an endpoint may declare.
var SupportedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
}

/**
 * Endpoint declaration inside a service
 * @property {string} method - HTTP method (GET/POST/PUT/DELETE)
 * @property {string} route - Route suffix appended to the service base path, may contain :params
 * @property {Action} action - Handler variant bound to the route
 */
type EndpointDefinition struct {
	Method string `json:"method"`
	Route  string `json:"route"`
	Action Action `json:"action"`
}

/**
 * Static directory mount
 * @property {string} route - URL prefix relative to the service base path
 * @property {string} path - Directory on disk served under the prefix
 */
type StaticMount struct {
	Route string `json:"route"`
	Path  string `json:"path"`
}

/**
 * Declarative description of one HTTP listener
 * @property {string} name - Service name, used by logs and the admin API
 * @property {[]Profile} profiles - All of these must be active for the service to start
 * @property {int} port - TCP port the listener binds
 * @property {string} basePath - Prefix prepended to every endpoint and static route
 * @property {[]EndpointDefinition} endpoints - Routes, registered in declaration order
 * @property {[]StaticMount} static - Static directory mounts
 */
type ServiceDefinition struct {
	Name      string               `json:"name"`
	Profiles  []Profile            `json:"profiles"`
	Port      int                  `json:"port"`
	BasePath  string               `json:"basePath"`
	Endpoints []EndpointDefinition `json:"endpoints"`
	Static    []StaticMount        `json:"static"`
}

// FullRoute returns the route an endpoint or mount is served at.
func (s *ServiceDefinition) FullRoute(suffix string) string {
	return JoinRoute(s.BasePath, suffix)
}

// ActivatedBy reports whether every profile of the service is in active.
func (s *ServiceDefinition) ActivatedBy(active []Profile) bool {
	for _, p := range s.Profiles {
		found := false
		for _, a := range active {
			if a == p {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// JoinRoute concatenates base and suffix with exactly one slash between them.
func JoinRoute(base, suffix string) string {
	if base == "" {
		base = "/"
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	if suffix == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(suffix, "/")
}
