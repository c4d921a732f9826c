package routes

import (
	"time"

	"cutesalon/config"
	"cutesalon/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all endpoints for the booking engine.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.PublicOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", hb.Health)

	api := r.Group("/api")
	{
		api.GET("/appointments", hb.ListAppointments)
		api.POST("/appointments", hb.CreateAppointment)
		api.GET("/appointments/:id", hb.GetAppointment)
		api.POST("/cancel-booking", hb.CancelAppointment)

		api.POST("/checkout-sessions", hb.CreateCheckoutSession)
		api.GET("/checkout-sessions/:sessionID", hb.GetCheckoutBooking)
		api.POST("/stripe/confirm", hb.ConfirmPayment)
		api.POST("/stripe/webhook", hb.StripeWebhook)

		api.GET("/treatments", hb.GetTreatments)
		api.POST("/recaptcha", hb.VerifyRecaptcha)

		api.GET("/maintenance/purge", hb.PurgeFinished)
	}
}
