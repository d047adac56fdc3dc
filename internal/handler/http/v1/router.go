package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/shenikar/disaster_response_system/internal/models"
)

// RegisterRoutes регистрирует все маршруты API
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Сессии
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.login)
		authGroup.POST("/logout", h.requireAuth, h.logout)
	}

	// Инциденты. Чтение открыто (портал публичных оповещений),
	// мутации закрыты токенами таблицы разрешений.
	incidents := api.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.POST("", h.requireAuth, h.requirePermission(models.PermCreateReport), h.createIncident)
		incidents.PUT("/:id", h.requireAuth, h.updateIncident)
		incidents.GET("/stats", h.requireAuth, h.requirePermission(models.PermViewDashboard), h.getStats)
	}

	// Классификация отчетов и поиск ресурсов
	analysisGroup := api.Group("/analysis", h.requireAuth)
	{
		analysisGroup.POST("/report", h.analyzeReport)
		analysisGroup.POST("/resources", h.findResources)
	}

	// Внешние данные для виджетов
	externalGroup := api.Group("/external")
	{
		externalGroup.GET("/weather", h.getWeather)
		externalGroup.GET("/news", h.getNews)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
