package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"salonbook/config"
	"salonbook/handlers"
	"salonbook/middleware"
)

// adminAuthMiddleware picks the auth scheme the deployment configured: local
// JWT login or Firebase ID tokens with the admin claim.
func adminAuthMiddleware() gin.HandlerFunc {
	if config.AppConfig.AuthProvider == "firebase" {
		return middleware.FirebaseAdminMiddleware()
	}
	return middleware.AdminJWTMiddleware()
}

// RegisterPublicRoutes registers the unauthenticated client endpoints.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/services", hb.ListServicesHandler)
		api.GET("/slots", hb.DayScheduleHandler)
		api.GET("/busy", hb.BusyTimesHandler)
		api.POST("/requests", hb.SubmitRequestHandler)
		api.GET("/stream/appointments", hb.StreamAppointmentsHdlr)
	}
}

// RegisterAdminRoutes registers the moderation and management endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	{
		if config.AppConfig.AuthProvider != "firebase" {
			admin.POST("/login", hb.AdminLoginHandler)
		}

		protected := admin.Group("")
		protected.Use(adminAuthMiddleware())

		protected.GET("/requests", hb.ListPendingRequestsHandler)
		protected.POST("/requests/:id/approve", hb.ApproveRequestHandler)
		protected.POST("/requests/:id/reject", hb.RejectRequestHandler)
		protected.GET("/stream/requests", hb.StreamRequestsHandler)

		protected.GET("/appointments", hb.ListAppointmentsHandler)
		protected.POST("/appointments", hb.CreateAppointmentHandler)
		protected.PUT("/appointments/:id", hb.UpdateAppointmentHandler)
		protected.DELETE("/appointments/:id", hb.DeleteAppointmentHandler)

		protected.GET("/schedule", hb.GetScheduleHandler)
		protected.PUT("/schedule", hb.PutScheduleHandler)

		protected.POST("/services", hb.CreateServiceHandler)
		protected.PUT("/services/:id", hb.UpdateServiceHandler)
		protected.DELETE("/services/:id", hb.DeleteServiceHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	origins := strings.Split(config.AppConfig.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterPublicRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
