package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salonbook/services/booking"
	"salonbook/utils"
)

// RequestHandler exposes the booking-request workflow: public submission and
// the admin moderation queue.
type RequestHandler struct {
	BookingSvc booking.Service
	Logger     *zap.Logger
}

func NewRequestHandler(svc booking.Service, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{BookingSvc: svc, Logger: logger}
}

// SubmitRequestHandler handles POST /api/requests.
func (h *RequestHandler) SubmitRequestHandler(c *gin.Context) {
	var input booking.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	req, err := h.BookingSvc.SubmitRequest(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// ListPendingRequestsHandler handles GET /api/admin/requests.
func (h *RequestHandler) ListPendingRequestsHandler(c *gin.Context) {
	requests, err := h.BookingSvc.PendingRequests(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ApproveRequestHandler handles POST /api/admin/requests/:id/approve.
func (h *RequestHandler) ApproveRequestHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing request id"})
		return
	}

	appt, err := h.BookingSvc.ApproveRequest(c.Request.Context(), id)
	if err != nil {
		h.Logger.Info("approval failed", zap.String("request_id", id), zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// RejectRequestHandler handles POST /api/admin/requests/:id/reject.
func (h *RequestHandler) RejectRequestHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing request id"})
		return
	}

	if err := h.BookingSvc.RejectRequest(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}
