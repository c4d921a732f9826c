package handlers

import (
	"io"
	"net/http"

	"cutesalon/services/booking"
	"cutesalon/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody bounds the webhook payload read, per gateway guidance.
const maxWebhookBody = 65536

// WebhookVerifier checks a push notification's authenticity and extracts the
// completed checkout session reference.
type WebhookVerifier interface {
	VerifyWebhook(payload []byte, sigHeader string) (sessionRef string, completed bool, err error)
}

// PaymentHandler serves the checkout and payment-confirmation endpoints.
type PaymentHandler struct {
	Service  booking.BookingService
	Verifier WebhookVerifier
	Logger   *zap.Logger
}

func NewPaymentHandler(svc booking.BookingService, verifier WebhookVerifier, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Service: svc, Verifier: verifier, Logger: logger}
}

// CreateCheckoutSession opens a hosted checkout session for a booking and
// returns the redirect URL.
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	var input struct {
		BookingID string `json:"bookingId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.BookingID == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing booking ID", "")
		return
	}

	url, err := h.Service.StartCheckout(c.Request.Context(), input.BookingID)
	if err != nil {
		utils.JSONError(c, statusForCode(booking.CodeOf(err)), "failed to create checkout session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GetCheckoutBooking returns the booking behind a checkout session, used by
// the success page after redirect-back.
func (h *PaymentHandler) GetCheckoutBooking(c *gin.Context) {
	b, err := h.Service.BookingBySession(c.Param("sessionID"))
	if err != nil {
		utils.JSONError(c, statusForCode(booking.CodeOf(err)), "failed to fetch appointment for session", err.Error())
		return
	}
	c.JSON(http.StatusOK, b)
}

// ConfirmPayment is the client-initiated confirmation after redirect-back.
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var input struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.SessionID == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing session ID", "")
		return
	}

	if err := h.Service.ConfirmPayment(c.Request.Context(), input.SessionID); err != nil {
		status := statusForCode(booking.CodeOf(err))
		if booking.CodeOf(err) == booking.CodePayment {
			// Unpaid session is the caller jumping the gun, not a gateway fault.
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"ok": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// StripeWebhook handles the gateway's push notifications. Anything with a bad
// signature is rejected outright; validly signed events are acknowledged even
// when there is nothing left to do, since the gateway retries on non-2xx.
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to read webhook payload", err.Error())
		return
	}

	sessionRef, completed, err := h.Verifier.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.Logger.Warn("webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	if completed {
		if err := h.Service.ApplyPaymentCompleted(sessionRef); err != nil {
			// Non-2xx so the gateway redelivers; the transition is idempotent.
			utils.JSONError(c, http.StatusInternalServerError, "failed to apply payment", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
