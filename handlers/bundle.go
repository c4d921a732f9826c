package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers for route registration.
type HandlerBundle struct {
	// Booking endpoints.
	ListAppointments  gin.HandlerFunc
	GetAppointment    gin.HandlerFunc
	CreateAppointment gin.HandlerFunc
	CancelAppointment gin.HandlerFunc

	// Payment endpoints.
	CreateCheckoutSession gin.HandlerFunc
	GetCheckoutBooking    gin.HandlerFunc
	ConfirmPayment        gin.HandlerFunc
	StripeWebhook         gin.HandlerFunc

	// Catalog and bot gate.
	GetTreatments   gin.HandlerFunc
	VerifyRecaptcha gin.HandlerFunc

	// Maintenance endpoints.
	PurgeFinished gin.HandlerFunc
	Health        gin.HandlerFunc
}
