package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API.
// Пути без префикса версии: их форма зафиксирована контрактом с фронтендом.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Публичные маршруты инцидентов
	incidents := api.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.POST("", h.reportIncident)
		incidents.GET("/insights", h.getInsights)
	}

	// Вход администратора
	api.POST("/admin/login", h.adminLogin)

	// Защищённые маршруты администратора
	admin := api.Group("/admin/incidents")
	admin.Use(AdminAuthMiddleware(h.authService, h.logger))
	{
		admin.GET("", h.adminListIncidents)
		admin.PUT("/:id/resolve", h.resolveIncident)
		admin.DELETE("/:id", h.deleteIncident)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
