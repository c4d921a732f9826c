// File: cutesalon/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cutesalon/config"
	"cutesalon/cron"
	"cutesalon/database"
	bookingRepo "cutesalon/database/repository/booking"
	"cutesalon/handlers"
	"cutesalon/middleware"
	"cutesalon/routes"
	"cutesalon/services/booking"
	"cutesalon/services/calendar"
	"cutesalon/services/notification"
	"cutesalon/services/payment"
	"cutesalon/services/verify"
	"cutesalon/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	config.LoadCatalog()
	logger := utils.GetLogger()

	database.InitDB()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	repo := bookingRepo.NewMongoBookingRepo()

	// collaborators.
	calendarSvc, err := calendar.New(context.Background(), config.AppConfig.GCalCredentialsFile, config.AppConfig.GCalCalendarID)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize calendar service: %v", err)
	}

	mailer, err := notification.NewEmailService(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUser,
		config.AppConfig.SMTPPass,
		config.AppConfig.BusinessEmail,
		config.AppConfig.ManagerEmail,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize email service: %v", err)
	}

	gateway := payment.NewStripeGateway(config.AppConfig.StripeWebhookSecret, config.AppConfig.PublicOrigin)

	// services.
	dispatcher := &booking.DefaultDispatcher{
		Calendar: calendarSvc,
		Mailer:   mailer,
		Repo:     repo,
		Logger:   logger,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:       repo,
		Resolver:   booking.NewDurationResolver(config.Catalog),
		Gateway:    gateway,
		Dispatcher: dispatcher,
		Logger:     logger,
	}

	recaptchaGate := verify.NewRecaptchaGate(config.AppConfig.RecaptchaSecret, logger)

	// Background purge worker and its enqueue client.
	cron.InitPurgeWorker(bookingService)
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()

	healthRedis := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	utils.StartHealthMonitor(healthRedis, database.MongoClient)

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	paymentHandler := handlers.NewPaymentHandler(bookingService, gateway, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Booking endpoints.
		ListAppointments:  bookingHandler.ListAppointments,
		GetAppointment:    bookingHandler.GetAppointment,
		CreateAppointment: bookingHandler.CreateAppointment,
		CancelAppointment: bookingHandler.CancelAppointment,

		// Payment endpoints.
		CreateCheckoutSession: paymentHandler.CreateCheckoutSession,
		GetCheckoutBooking:    paymentHandler.GetCheckoutBooking,
		ConfirmPayment:        paymentHandler.ConfirmPayment,
		StripeWebhook:         paymentHandler.StripeWebhook,

		// Catalog and bot gate.
		GetTreatments:   handlers.GetTreatmentsHandler(config.Catalog),
		VerifyRecaptcha: handlers.VerifyRecaptchaHandler(recaptchaGate),

		// Maintenance endpoints.
		PurgeFinished: handlers.PurgeHandler(asynqClient, config.AppConfig.CronSecret),
		Health:        handlers.HealthHandler,
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
