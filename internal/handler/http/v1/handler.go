package v1

import (
	"errors"
	"net/http"

	"github.com/climatehub/climate_incident_hub/internal/metrics"
	"github.com/climatehub/climate_incident_hub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	incidentService service.IncidentService
	authService     service.AuthService
	logger          *logrus.Logger
	validate        *validator.Validate
}

func NewHandler(incidentService service.IncidentService, authService service.AuthService, logger *logrus.Logger) *Handler {
	return &Handler{
		incidentService: incidentService,
		authService:     authService,
		logger:          logger,
		validate:        validator.New(),
	}
}

// @Summary Admin login
// @Description Authenticate the admin and mint a district-scoped token.
// @Tags Admin
// @Accept json
// @Produce json
// @Param credentials body AdminLoginRequest true "Admin credentials with optional district scope"
// @Success 200 {object} AdminLoginResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /admin/login [post]
func (h *Handler) adminLogin(c *gin.Context) {
	var input AdminLoginRequest
	log := h.logger.WithField("method", "adminLogin")

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

	token, district, err := h.authService.Login(c.Request.Context(), input.Username, input.Password, input.District)
	if err != nil {
		metrics.AdminLogins.WithLabelValues("failure").Inc()
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		log.WithError(err).Error("Failed to login admin in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	metrics.AdminLogins.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, AdminLoginResponse{Token: token, District: district})
}

// @Summary Report an incident
// @Description Submit a new climate incident report. Public, no authentication.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body ReportIncidentRequest true "Incident report"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) reportIncident(c *gin.Context) {
	var input ReportIncidentRequest
	log := h.logger.WithField("method", "reportIncident")

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
	if err := h.incidentService.ReportIncident(c.Request.Context(), model); err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
			return
		}
		log.WithError(err).Error("Failed to report incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	metrics.IncidentsCreated.Inc()
	c.JSON(http.StatusCreated, ModelToIncidentResponse(model))
}

// @Summary List incidents
// @Description Get the full incident collection, newest first. Public, unfiltered.
// @Tags Incidents
// @Produce json
// @Success 200 {array} IncidentResponse
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

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Incident insights
// @Description Aggregated counts by type, severity and district plus a generated summary.
// @Tags Incidents
// @Produce json
// @Success 200 {object} models.InsightsReport
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/insights [get]
func (h *Handler) getInsights(c *gin.Context) {
	log := h.logger.WithField("method", "getInsights")

	report, err := h.incidentService.GetInsights(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to build insights in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// @Summary List incidents for admin
// @Description District-filtered incident list scoped by the admin token.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/incidents [get]
func (h *Handler) adminListIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "adminListIncidents")

	claims, ok := adminClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	incidents, err := h.incidentService.ListIncidentsForAdmin(c.Request.Context(), claims.District)
	if err != nil {
		log.WithError(err).Error("Failed to list admin incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Resolve an incident
// @Description Transition an incident to Resolved, subject to the admin's district scope.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} ResolveIncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "District scope mismatch"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/incidents/{id}/resolve [put]
func (h *Handler) resolveIncident(c *gin.Context) {
	log := h.logger.WithField("method", "resolveIncident")

	claims, ok := adminClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	// Некорректный UUID не может указывать ни на один инцидент
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}
	log = log.WithField("id", id)

	incident, err := h.incidentService.ResolveIncident(c.Request.Context(), id, claims.District)
	if err != nil {
		h.respondIncidentError(c, log, err)
		return
	}

	metrics.IncidentsResolved.Inc()
	c.JSON(http.StatusOK, ResolveIncidentResponse{
		Message:  "Incident resolved",
		Incident: ModelToIncidentResponse(incident),
	})
}

// @Summary Delete an incident
// @Description Permanently remove an incident, subject to the admin's district scope.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "District scope mismatch"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/incidents/{id} [delete]
func (h *Handler) deleteIncident(c *gin.Context) {
	log := h.logger.WithField("method", "deleteIncident")

	claims, ok := adminClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}
	log = log.WithField("id", id)

	if err := h.incidentService.DeleteIncident(c.Request.Context(), id, claims.District); err != nil {
		h.respondIncidentError(c, log, err)
		return
	}

	metrics.IncidentsDeleted.Inc()
	c.JSON(http.StatusOK, MessageResponse{Message: "Incident deleted"})
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

// respondIncidentError сопоставляет доменные ошибки мутаций с HTTP-статусами
func (h *Handler) respondIncidentError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
	case errors.Is(err, service.ErrDistrictForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized for this district"})
	default:
		log.WithError(err).Error("Incident operation failed in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
