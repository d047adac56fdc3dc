package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/disaster_response_system/internal/analysis"
	"github.com/shenikar/disaster_response_system/internal/auth"
	"github.com/shenikar/disaster_response_system/internal/config"
	"github.com/shenikar/disaster_response_system/internal/external"
	"github.com/shenikar/disaster_response_system/internal/models"
	"github.com/shenikar/disaster_response_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	incidentService service.IncidentService
	authService     auth.AuthService
	analyzer        analysis.Analyzer
	external        *external.Client
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, authService auth.AuthService, analyzer analysis.Analyzer, externalClient *external.Client, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		authService:     authService,
		analyzer:        analyzer,
		external:        externalClient,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary List all incidents
// @Description Get the full incident set, newest first. Public: this backs the citizen alert portal.
// @Tags Incidents
// @Produce json
// @Success 200 {object} map[string][]IncidentResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	incidents, err := h.incidentService.ListIncidents(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ModelsToIncidentResponses(incidents)})
}

// @Summary Create a new incident report
// @Description Persist a citizen incident report. Requires the create_report permission.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body CreateIncidentRequest true "Incident creation request"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 409 {object} map[string]string "Duplicate incident id"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToIncidentModel(input)
	if err := h.incidentService.CreateIncident(c.Request.Context(), model); err != nil {
		if errors.Is(err, models.ErrDuplicateID) {
			c.JSON(http.StatusConflict, gin.H{"error": "incident with this id already exists"})
			return
		}
		log.WithError(err).Error("Failed to create incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "success",
		"data":    ModelToIncidentResponse(model),
		"id":      model.ID,
	})
}

// @Summary Update an incident
// @Description Update the two mutable fields (status, deployedResources). Other payload fields are ignored. Unknown id yields changes=0, not an error.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param update body UpdateIncidentRequest true "Incident update request"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [put]
func (h *Handler) updateIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "updateIncident").WithField("id", id)

	var input UpdateIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Проверки разрешений по полям: перевод в Resolved и изменение
	// списка ресурсов закрыты отдельными токенами таблицы.
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
		return
	}
	if input.Status != nil && models.IncidentStatus(*input.Status) == models.StatusResolved &&
		!auth.HasPermission(user.Role, models.PermResolveIncident) {
		log.WithField("role", user.Role).Warn("Resolve rejected: permission denied")
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}
	if input.DeployedResources != nil && !auth.HasPermission(user.Role, models.PermDispatchResources) {
		log.WithField("role", user.Role).Warn("Dispatch rejected: permission denied")
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	changes, err := h.incidentService.UpdateIncident(c.Request.Context(), id, DTOToIncidentUpdate(input))
	if err != nil {
		log.WithError(err).Error("Failed to update incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "success", "changes": changes})
}

// @Summary Get incident statistics
// @Description Get dashboard aggregates: totals by status and severity. Requires view_dashboard.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.IncidentStats
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.incidentService.GetStats(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get stats from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary Analyze an incident report
// @Description Classify a report description (and optional image) into severity, category, summary and advice. Classifier failures yield a fixed fallback, never an error.
// @Tags Analysis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param report body AnalyzeReportRequest true "Report analysis request"
// @Success 200 {object} models.AnalysisResult
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /analysis/report [post]
func (h *Handler) analyzeReport(c *gin.Context) {
	var input AnalyzeReportRequest
	log := h.logger.WithField("method", "analyzeReport")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.analyzer.AnalyzeReport(c.Request.Context(), input.Description, input.ImageBase64)
	c.JSON(http.StatusOK, result)
}

// @Summary Find nearby emergency resources
// @Description Look up facilities of the requested type around the given coordinates. Lookup failures yield fallback text and an empty place list.
// @Tags Analysis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lookup body ResourceLookupRequest true "Resource lookup request"
// @Success 200 {object} models.ResourceLookup
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /analysis/resources [post]
func (h *Handler) findResources(c *gin.Context) {
	var input ResourceLookupRequest
	log := h.logger.WithField("method", "findResources")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.analyzer.FindNearbyResources(c.Request.Context(), *input.Latitude, *input.Longitude, input.FacilityType)
	c.JSON(http.StatusOK, result)
}

// @Summary Get current weather
// @Description Current weather for the given coordinates via Open-Meteo. Upstream faults degrade to 503.
// @Tags External
// @Produce json
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Param name query string false "Location display name"
// @Success 200 {object} models.WeatherData
// @Failure 400 {object} map[string]string "Invalid coordinates"
// @Failure 503 {object} map[string]string "Weather service unavailable"
// @Router /external/weather [get]
func (h *Handler) getWeather(c *gin.Context) {
	log := h.logger.WithField("method", "getWeather")

	lat, latErr := strconv.ParseFloat(c.Query("latitude"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("longitude"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
		return
	}

	weather, err := h.external.FetchWeather(c.Request.Context(), lat, lon, c.DefaultQuery("name", "Current Location"))
	if err != nil {
		log.WithError(err).Warn("Weather fetch failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "weather service unavailable"})
		return
	}

	c.JSON(http.StatusOK, weather)
}

// @Summary Get disaster news feed
// @Description Curated disaster-news articles for the dashboard widget.
// @Tags External
// @Produce json
// @Success 200 {object} map[string][]models.NewsArticle
// @Router /external/news [get]
func (h *Handler) getNews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.external.FetchNews()})
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
