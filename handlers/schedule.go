package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	settingsRepo "salonbook/database/repository/settings"
	"salonbook/models"
	"salonbook/services/scheduling"
	"salonbook/utils"
)

// ScheduleHandler reads and replaces the schedule configuration. A saved
// schedule is swapped into the process-wide holder immediately; other
// processes pick it up through the settings change stream.
type ScheduleHandler struct {
	Settings settingsRepo.Repository
	Schedule *scheduling.Holder
	Logger   *zap.Logger
}

func NewScheduleHandler(settings settingsRepo.Repository, holder *scheduling.Holder, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Settings: settings, Schedule: holder, Logger: logger}
}

// GetScheduleHandler handles GET /api/admin/schedule.
func (h *ScheduleHandler) GetScheduleHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Schedule.Config())
}

// PutScheduleHandler handles PUT /api/admin/schedule. The config replaces the
// previous one wholesale; future placements validate against it while existing
// appointments keep their (possibly now off-schedule) slots.
func (h *ScheduleHandler) PutScheduleHandler(c *gin.Context) {
	var cfg models.ScheduleConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := cfg.Validate(); err != nil {
		utils.RespondError(c, err)
		return
	}

	if err := h.Settings.PutSchedule(c.Request.Context(), cfg); err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Schedule.Swap(cfg)

	h.Logger.Info("schedule replaced", zap.String("mode", string(cfg.Mode)))
	c.JSON(http.StatusOK, h.Schedule.Config())
}
