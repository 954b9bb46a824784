package controllers

import (
	"fmt"
	"net/http"

	"echo-server/internal/models"
	"echo-server/services"

	"github.com/gin-gonic/gin"
)

type ServiceController struct {
	service *services.ServiceManager
}

func NewServiceController(service *services.ServiceManager) *ServiceController {
	return &ServiceController{
		service: service,
	}
}

/**
 * Register listener API routes
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - GET /echo/api/v1/services
 * - GET /echo/api/v1/services/:name
 */
func (s *ServiceController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/echo/api/v1")
	api.GET("/services", s.ListServices)
	api.GET("/services/:name", s.GetService)
}

// ListServices lists all activated echo listeners
//
//	@Summary		List echo listeners
//	@Tags			Services
//	@Produce		json
//	@Success		200	{array}		models.ListenerDetail
//	@Router			/echo/api/v1/services [get]
func (s *ServiceController) ListServices(c *gin.Context) {
	results := []models.ListenerDetail{}
	for _, l := range s.service.GetInstances() {
		results = append(results, l.GetDetail())
	}
	c.JSON(http.StatusOK, results)
}

// GetService returns one listener by service name
//
//	@Summary		Get echo listener
//	@Tags			Services
//	@Produce		json
//	@Param			name	path		string	true	"Service name"
//	@Success		200		{object}	models.ListenerDetail
//	@Failure		404		{object}	models.ErrorResponse
//	@Router			/echo/api/v1/services/{name} [get]
func (s *ServiceController) GetService(c *gin.Context) {
	name := c.Param("name")
	l := s.service.GetInstance(name)
	if l == nil {
		c.JSON(http.StatusNotFound, &models.ErrorResponse{
			Code:  "service.notexist",
			Error: fmt.Sprintf("service [%s] isn't exist", name),
		})
		return
	}
	c.JSON(http.StatusOK, l.GetDetail())
}
