package controllers

import (
	"echo-server/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIController struct {
	server *services.Server
}

/**
 * Create new API controller instance
 * @param {*services.Server} server - Server holding the echo listeners
 * @returns {*APIController} New API controller instance
 */
func NewAPIController(server *services.Server) *APIController {
	return &APIController{
		server: server,
	}
}

/**
 * Register admin API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - /healthz: readiness with request counters
 * - /metrics: Prometheus exposition
 * @example
 * router := gin.New()
 * controller := NewAPIController(server)
 * controller.RegisterRoutes(router)
 */
func (a *APIController) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", a.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// @Summary 业务就绪探针
// @Description 返回服务版本、启动时间、健康状态和关键指标统计结果
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func (a *APIController) Healthz(c *gin.Context) {
	c.JSON(200, a.server.GetHealthz())
}
