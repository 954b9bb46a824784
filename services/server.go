package services

import (
	"time"

	"echo-server/internal/config"
	"echo-server/internal/env"
	"echo-server/internal/models"
)

type Server struct {
	cfg       *config.AppConfig
	service   *ServiceManager
	startTime time.Time
}

/**
 * Create new server instance
 * @param {*config.AppConfig} cfg - Application configuration
 * @param {*ServiceManager} sm - Manager owning the echo listeners
 * @returns {*Server} Server used by the admin API
 */
func NewServer(cfg *config.AppConfig, sm *ServiceManager) *Server {
	return &Server{
		cfg:       cfg,
		service:   sm,
		startTime: time.Now(),
	}
}

/**
* Get health check response for the server
* @returns {models.HealthResponse} Returns health check response with server status and metrics
* @description
* - Calculates server uptime from start time
* - Counts running listeners against activated ones
* - Status is "UP" when at least one listener runs, "DOWN" otherwise
 */
func (s *Server) GetHealthz() models.HealthResponse {
	// 计算服务运行时间
	uptime := time.Since(s.startTime)

	running := s.service.RunningCount()
	status := "UP"
	if running == 0 {
		status = "DOWN"
	}

	return models.HealthResponse{
		Version:   env.Version,
		StartTime: s.startTime.Format(time.RFC3339),
		Status:    status,
		Uptime:    uptime.String(),
		Profiles:  s.cfg.Profiles,
		Metrics: models.Metrics{
			TotalRequests:   GetTotalRequestCount(),
			ErrorRequests:   GetTotalErrorCount(),
			PersistedBodies: GetPersistedCount(),
			StagedUploads:   GetStagedUploadCount(),
			ActiveListeners: running,
			TotalListeners:  len(s.service.GetInstances()),
		},
	}
}
