package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salonbook/models"
	"salonbook/services/projector"
	"salonbook/utils"
)

// StreamHandler pushes live collection snapshots over SSE. Each event carries
// a full snapshot, never a delta; a client that misses events only ever misses
// intermediate states, not information.
type StreamHandler struct {
	Appointments *projector.Projector[models.Appointment]
	Requests     *projector.Projector[models.BookingRequest]
	Logger       *zap.Logger
}

func NewStreamHandler(
	appointments *projector.Projector[models.Appointment],
	requests *projector.Projector[models.BookingRequest],
	logger *zap.Logger,
) *StreamHandler {
	return &StreamHandler{Appointments: appointments, Requests: requests, Logger: logger}
}

type snapshotEvent struct {
	Items any  `json:"items"`
	Stale bool `json:"stale"`
}

// StreamAppointmentsHandler handles GET /api/stream/appointments. The feed is
// public, so appointments are sanitized and private ones are dropped entirely.
// An optional ?date= narrows the snapshot to one day.
func (h *StreamHandler) StreamAppointmentsHandler(c *gin.Context) {
	var filterDate models.Date
	if raw := c.Query("date"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		filterDate = d
	}

	events := make(chan snapshotEvent, 8)
	dispose, err := h.Appointments.Subscribe(c.Request.Context(), func(u projector.Update[models.Appointment]) {
		visible := []models.Appointment{}
		for _, a := range u.Items {
			if !a.Public {
				continue
			}
			if !filterDate.IsZero() && a.Date != filterDate {
				continue
			}
			visible = append(visible, a.Sanitized())
		}
		select {
		case events <- snapshotEvent{Items: visible, Stale: u.Stale}:
		default:
			// Slow client; the next snapshot supersedes this one anyway.
		}
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	defer dispose()

	h.serve(c, events)
}

// StreamRequestsHandler handles GET /api/admin/stream/requests, the live
// moderation queue. Admin-only, so nothing is sanitized.
func (h *StreamHandler) StreamRequestsHandler(c *gin.Context) {
	events := make(chan snapshotEvent, 8)
	dispose, err := h.Requests.Subscribe(c.Request.Context(), func(u projector.Update[models.BookingRequest]) {
		pending := []models.BookingRequest{}
		for _, r := range u.Items {
			if r.Status == models.StatusPending {
				pending = append(pending, r)
			}
		}
		select {
		case events <- snapshotEvent{Items: pending, Stale: u.Stale}:
		default:
		}
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	defer dispose()

	h.serve(c, events)
}

func (h *StreamHandler) serve(c *gin.Context, events <-chan snapshotEvent) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", ev)
			return true
		}
	})
}
