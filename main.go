// File: evently/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evently/config"
	"evently/database"
	eventRepoPkg "evently/database/repository/event"
	jobRepoPkg "evently/database/repository/job"
	notificationRepoPkg "evently/database/repository/notification"
	participantRepoPkg "evently/database/repository/participant"
	"evently/handlers"
	"evently/middleware"
	"evently/routes"
	"evently/services/event"
	"evently/services/notification"
	"evently/services/scheduler"
	"evently/services/socket"
	"evently/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	eventRepo := eventRepoPkg.NewMongoEventRepo()
	jobRepo := jobRepoPkg.NewMongoEventJobRepo()
	notifRepo := notificationRepoPkg.NewMongoNotificationRepo()
	participantRepo := participantRepoPkg.NewMongoEventParticipantRepo()

	// push infrastructure.
	registry := socket.NewRegistry(logger)
	gateway := socket.NewGateway(registry, logger)

	// services.
	notificationService := &notification.DefaultNotificationService{
		Repo:         notifRepo,
		Participants: participantRepo,
		Registry:     registry,
		FCM:          utils.FCMClient,
		Logger:       logger,
	}

	planner := scheduler.NewPlanner(jobRepo, logger)
	executor := scheduler.NewExecutor(
		jobRepo,
		eventRepo,
		notificationService,
		config.AppConfig.EventNotifyURL,
		config.EventNotifyTimeout(),
		logger,
	)
	loop := scheduler.NewLoop(
		jobRepo,
		executor,
		config.SchedulerInterval(),
		config.AppConfig.SchedulerBatchLimit,
		logger,
	)
	loop.Start()

	eventService := &event.DefaultEventService{
		Repo:         eventRepo,
		Participants: participantRepo,
		Planner:      planner,
		Notifier:     notificationService,
		Logger:       logger,
	}

	eventHandler := handlers.NewEventHandler(eventService, jobRepo)
	notificationHandler := handlers.NewNotificationHandler(notifRepo)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		CreateEventHandler:   eventHandler.CreateEventHandler,
		UpdateEventHandler:   eventHandler.UpdateEventHandler,
		GetEventHandler:      eventHandler.GetEventHandler,
		ListEventJobsHandler: eventHandler.ListEventJobsHandler,
		CheckinHandler:       eventHandler.CheckinHandler,

		MyNotificationsHandler: notificationHandler.MyNotificationsHandler,
		MarkReadHandler:        notificationHandler.MarkReadHandler,
		UnreadCountHandler:     notificationHandler.UnreadCountHandler,

		SocketHandler: gateway.Handle,
	}

	// Register routes with the assembled handler bundle.
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

	loop.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
