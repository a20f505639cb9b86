package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Public endpoints.
	ListServicesHandler    gin.HandlerFunc
	DayScheduleHandler     gin.HandlerFunc
	BusyTimesHandler       gin.HandlerFunc
	SubmitRequestHandler   gin.HandlerFunc
	StreamAppointmentsHdlr gin.HandlerFunc

	// Admin auth.
	AdminLoginHandler gin.HandlerFunc

	// Admin request queue.
	ListPendingRequestsHandler gin.HandlerFunc
	ApproveRequestHandler      gin.HandlerFunc
	RejectRequestHandler       gin.HandlerFunc
	StreamRequestsHandler      gin.HandlerFunc

	// Admin appointment CRUD.
	ListAppointmentsHandler  gin.HandlerFunc
	CreateAppointmentHandler gin.HandlerFunc
	UpdateAppointmentHandler gin.HandlerFunc
	DeleteAppointmentHandler gin.HandlerFunc

	// Admin schedule management.
	GetScheduleHandler gin.HandlerFunc
	PutScheduleHandler gin.HandlerFunc

	// Admin service catalog management.
	CreateServiceHandler gin.HandlerFunc
	UpdateServiceHandler gin.HandlerFunc
	DeleteServiceHandler gin.HandlerFunc
}
