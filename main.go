package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"salonbook/config"
	"salonbook/cron"
	"salonbook/database"
	appointmentsRepo "salonbook/database/repository/appointments"
	requestsRepo "salonbook/database/repository/requests"
	schedulerRepo "salonbook/database/repository/scheduler"
	servicesRepo "salonbook/database/repository/services"
	settingsRepo "salonbook/database/repository/settings"
	"salonbook/handlers"
	"salonbook/middleware"
	"salonbook/models"
	"salonbook/routes"
	"salonbook/services/booking"
	"salonbook/services/projector"
	"salonbook/services/scheduling"
	"salonbook/services/tasks"
	"salonbook/utils"
)

// fallbackSchedule is the config used until an admin saves a schedule
// document.
func fallbackSchedule() models.ScheduleConfig {
	if config.AppConfig.ScheduleMode == string(models.ScheduleModeGrid) {
		return models.ScheduleConfig{
			Mode: models.ScheduleModeGrid,
			Grid: models.GridSchedule{
				OpenMinutes:  config.AppConfig.ScheduleOpenMinutes,
				CloseMinutes: config.AppConfig.ScheduleCloseMinutes,
				StepMinutes:  config.AppConfig.ScheduleStepMinutes,
			},
		}
	}
	return models.DefaultScheduleConfig()
}

// watchSchedule keeps the holder in sync with schedule writes made by other
// processes. Losing the stream only delays pickup of a remote change; the
// local PUT handler swaps the holder directly.
func watchSchedule(ctx context.Context, settings settingsRepo.Repository, holder *scheduling.Holder, logger *zap.Logger) {
	for ctx.Err() == nil {
		changes, err := settings.Changes(ctx)
		if err != nil {
			logger.Warn("settings change stream unavailable", zap.Error(err))
			time.Sleep(5 * time.Second)
			continue
		}
		for range changes {
			cfg, gerr := settings.GetSchedule(ctx)
			if gerr != nil {
				logger.Warn("failed to reload schedule", zap.Error(gerr))
				continue
			}
			holder.Swap(cfg)
			logger.Info("schedule reloaded from settings", zap.String("mode", string(cfg.Mode)))
		}
	}
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	if config.AppConfig.AuthProvider == "firebase" {
		utils.FirebaseInit()
	}

	// Repositories.
	apptRepo := appointmentsRepo.NewMongoAppointmentRepo()
	reqRepo := requestsRepo.NewMongoRequestRepo()
	schedRepo := schedulerRepo.NewMongoSchedulerRepo()
	svcRepo := servicesRepo.NewMongoServiceRepo(utils.GetCacheClient())
	setRepo := settingsRepo.NewMongoSettingsRepo(fallbackSchedule())

	if err := apptRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create appointment indexes: %v", err)
	}

	// Schedule holder, loaded once here and then kept fresh by the settings
	// change stream.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	initCtx, initCancel := context.WithTimeout(rootCtx, 10*time.Second)
	cfg, err := setRepo.GetSchedule(initCtx)
	initCancel()
	if err != nil {
		logger.Warn("failed to load stored schedule, using fallback", zap.Error(err))
		cfg = fallbackSchedule()
	}
	holder := scheduling.NewHolder(cfg)
	go watchSchedule(rootCtx, setRepo, holder, logger)

	// Deferred archival of handled requests.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	archiver := &tasks.RequestArchiver{
		Client:    asynqClient,
		Retention: time.Duration(config.AppConfig.RequestRetentionDays) * 24 * time.Hour,
	}
	cron.InitArchiveWorker(reqRepo)

	// Services.
	bookingService := &booking.DefaultBookingService{
		Requests:     reqRepo,
		Appointments: apptRepo,
		Scheduler:    schedRepo,
		Schedule:     holder,
		Archiver:     archiver,
		Cache:        utils.GetCacheClient(),
		Logger:       logger,
	}

	// Projectors feeding the SSE endpoints.
	apptProjector := projector.New[models.Appointment](apptRepo, logger)
	reqProjector := projector.New[models.BookingRequest](reqRepo, logger)

	// Handlers.
	authHandler := handlers.NewAuthHandler(logger)
	requestHandler := handlers.NewRequestHandler(bookingService, logger)
	appointmentHandler := handlers.NewAppointmentHandler(bookingService, logger)
	scheduleHandler := handlers.NewScheduleHandler(setRepo, holder, logger)
	serviceHandler := handlers.NewServiceHandler(svcRepo, logger)
	streamHandler := handlers.NewStreamHandler(apptProjector, reqProjector, logger)

	handlerBundle := &handlers.HandlerBundle{
		ListServicesHandler:    serviceHandler.ListServicesHandler,
		DayScheduleHandler:     appointmentHandler.DayScheduleHandler,
		BusyTimesHandler:       appointmentHandler.BusyTimesHandler,
		SubmitRequestHandler:   requestHandler.SubmitRequestHandler,
		StreamAppointmentsHdlr: streamHandler.StreamAppointmentsHandler,

		AdminLoginHandler: authHandler.AdminLoginHandler,

		ListPendingRequestsHandler: requestHandler.ListPendingRequestsHandler,
		ApproveRequestHandler:      requestHandler.ApproveRequestHandler,
		RejectRequestHandler:       requestHandler.RejectRequestHandler,
		StreamRequestsHandler:      streamHandler.StreamRequestsHandler,

		ListAppointmentsHandler:  appointmentHandler.ListAppointmentsHandler,
		CreateAppointmentHandler: appointmentHandler.CreateAppointmentHandler,
		UpdateAppointmentHandler: appointmentHandler.UpdateAppointmentHandler,
		DeleteAppointmentHandler: appointmentHandler.DeleteAppointmentHandler,

		GetScheduleHandler: scheduleHandler.GetScheduleHandler,
		PutScheduleHandler: scheduleHandler.PutScheduleHandler,

		CreateServiceHandler: serviceHandler.CreateServiceHandler,
		UpdateServiceHandler: serviceHandler.UpdateServiceHandler,
		DeleteServiceHandler: serviceHandler.DeleteServiceHandler,
	}

	// Router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	rootCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
