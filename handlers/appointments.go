package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salonbook/models"
	"salonbook/services/booking"
	"salonbook/utils"
)

// AppointmentHandler serves the public day view and the admin appointment
// CRUD endpoints.
type AppointmentHandler struct {
	BookingSvc booking.Service
	Logger     *zap.Logger
}

func NewAppointmentHandler(svc booking.Service, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{BookingSvc: svc, Logger: logger}
}

// dateParam parses the mandatory ?date=YYYY-MM-DD query parameter. A second
// return of false means a response was already written.
func dateParam(c *gin.Context) (models.Date, bool) {
	raw := c.Query("date")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing date query parameter"})
		return models.Date{}, false
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return models.Date{}, false
	}
	return d, true
}

// DayScheduleHandler handles GET /api/slots.
func (h *AppointmentHandler) DayScheduleHandler(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}

	day, err := h.BookingSvc.DaySchedule(c.Request.Context(), date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// BusyTimesHandler handles GET /api/busy. Only public appointments count;
// private bookings stay invisible to unauthenticated clients.
func (h *AppointmentHandler) BusyTimesHandler(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}

	busy, err := h.BookingSvc.BusyTimes(c.Request.Context(), date, true)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "busy": busy})
}

// ListAppointmentsHandler handles GET /api/admin/appointments.
func (h *AppointmentHandler) ListAppointmentsHandler(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}

	appts, err := h.BookingSvc.AppointmentsForDate(c.Request.Context(), date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

// CreateAppointmentHandler handles POST /api/admin/appointments.
func (h *AppointmentHandler) CreateAppointmentHandler(c *gin.Context) {
	var input booking.AppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := h.BookingSvc.CreateAppointment(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// UpdateAppointmentHandler handles PUT /api/admin/appointments/:id.
func (h *AppointmentHandler) UpdateAppointmentHandler(c *gin.Context) {
	id := c.Param("id")
	var input booking.AppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := h.BookingSvc.UpdateAppointment(c.Request.Context(), id, input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// DeleteAppointmentHandler handles DELETE /api/admin/appointments/:id.
func (h *AppointmentHandler) DeleteAppointmentHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.BookingSvc.DeleteAppointment(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Logger.Info("appointment deleted via admin API", zap.String("appointment_id", id))
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
