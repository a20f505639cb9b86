package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	servicesRepo "salonbook/database/repository/services"
	"salonbook/models"
	"salonbook/utils"
)

// ServiceHandler serves the salon's service catalog and its admin CRUD.
type ServiceHandler struct {
	Services servicesRepo.Repository
	Logger   *zap.Logger
}

func NewServiceHandler(services servicesRepo.Repository, logger *zap.Logger) *ServiceHandler {
	return &ServiceHandler{Services: services, Logger: logger}
}

// ListServicesHandler handles GET /api/services.
func (h *ServiceHandler) ListServicesHandler(c *gin.Context) {
	services, err := h.Services.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func validateService(svc *models.Service) error {
	fields := map[string]string{}
	svc.Name = strings.TrimSpace(svc.Name)
	if svc.Name == "" {
		fields["name"] = "name is required"
	}
	if svc.Price < 0 {
		fields["price"] = "price must not be negative"
	}
	if svc.DurationMin < 0 {
		fields["duration_min"] = "duration must not be negative"
	}
	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}

// CreateServiceHandler handles POST /api/admin/services.
func (h *ServiceHandler) CreateServiceHandler(c *gin.Context) {
	var svc models.Service
	if err := c.ShouldBindJSON(&svc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := validateService(&svc); err != nil {
		utils.RespondError(c, err)
		return
	}
	svc.ID = uuid.New().String()

	if err := h.Services.Create(c.Request.Context(), &svc); err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("service created", zap.String("service_id", svc.ID), zap.String("name", svc.Name))
	c.JSON(http.StatusCreated, svc)
}

// UpdateServiceHandler handles PUT /api/admin/services/:id.
func (h *ServiceHandler) UpdateServiceHandler(c *gin.Context) {
	var svc models.Service
	if err := c.ShouldBindJSON(&svc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	svc.ID = c.Param("id")
	if err := validateService(&svc); err != nil {
		utils.RespondError(c, err)
		return
	}

	if err := h.Services.Update(c.Request.Context(), &svc); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// DeleteServiceHandler handles DELETE /api/admin/services/:id.
func (h *ServiceHandler) DeleteServiceHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Services.Delete(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
