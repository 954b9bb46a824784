package models

import "time"

type RunStatus string

const (
	// 表示正在运行
	StatusRunning RunStatus = "running"
	// 绑定端口或构建路由失败
	StatusError RunStatus = "error"
	// 已关闭
	StatusStopped RunStatus = "stopped"
)

// RouteDetail 已注册的路由
type RouteDetail struct {
	Method string `json:"method"`
	Route  string `json:"route"`
	Action Action `json:"action,omitempty"`
}

// ListenerDetail 监听实例的状态信息
type ListenerDetail struct {
	Name      string        `json:"name"`
	Port      int           `json:"port"`
	Address   string        `json:"address"`
	Status    RunStatus     `json:"status"`
	StartTime time.Time     `json:"startTime"`
	Routes    []RouteDetail `json:"routes"`
	Static    []RouteDetail `json:"static"`
	LastError string        `json:"lastError,omitempty"`
}
