package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestRecorder 接收每个请求的统计结果
type RequestRecorder interface {
	RecordRequest(service string, route string, method string, status int, seconds float64)
}

/**
 * HTTP请求统计中间件
 * @param {RequestRecorder} rec - Metrics sink
 * @param {string} service - Service name used as a label
 * @description
 * - 统计HTTP服务器收到的请求数量
 * - 记录请求处理时间
 * - 区分成功和失败的请求
 */
func MetricsMiddleware(rec RequestRecorder, service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 记录请求开始时间
		start := time.Now()

		// 处理请求
		c.Next()

		// 使用路由模板而不是实际路径，避免标签基数膨胀
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		rec.RecordRequest(service, route, c.Request.Method, c.Writer.Status(), time.Since(start).Seconds())
	}
}
