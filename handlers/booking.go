package handlers

import (
	"net/http"

	"cutesalon/services/booking"
	"cutesalon/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cutesalon/models"
)

// BookingHandler serves the appointment endpoints.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// statusForCode maps the service error taxonomy to HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case booking.CodeValidation:
		return http.StatusBadRequest
	case booking.CodeRateLimited:
		return http.StatusForbidden
	case booking.CodeSlotConflict:
		return http.StatusConflict
	case booking.CodeNotFound:
		return http.StatusNotFound
	case booking.CodePayment:
		return http.StatusBadGateway
	case booking.CodeSignature:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ListAppointments returns occupied intervals for the availability view.
func (h *BookingHandler) ListAppointments(c *gin.Context) {
	intervals, err := h.Service.ListIntervals()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list appointments", err.Error())
		return
	}
	c.JSON(http.StatusOK, intervals)
}

// GetAppointment returns a single booking by id.
func (h *BookingHandler) GetAppointment(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Param("id"))
	if err != nil {
		utils.JSONError(c, statusForCode(booking.CodeOf(err)), "failed to fetch appointment", err.Error())
		return
	}
	c.JSON(http.StatusOK, b)
}

// CreateAppointment books a new appointment.
func (h *BookingHandler) CreateAppointment(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		utils.JSONError(c, statusForCode(booking.CodeOf(err)), "failed to create appointment", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": b})
}

// CancelAppointment withdraws a booking, refunding it when already paid.
func (h *BookingHandler) CancelAppointment(c *gin.Context) {
	var input struct {
		BookingID string `json:"bookingId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.BookingID == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing booking ID", "")
		return
	}

	result, err := h.Service.CancelBooking(c.Request.Context(), input.BookingID)
	if err != nil {
		utils.JSONError(c, statusForCode(booking.CodeOf(err)), "failed to cancel booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "refunded": result.Refunded})
}
