package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cutesalon/models"
	"cutesalon/services/booking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func postJSON(handler gin.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return w
}

func TestCreateAppointment_SlotConflictMapsTo409(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, booking.NewSlotConflictError("this time slot is already taken, please choose another"))

	h := NewBookingHandler(svc, zap.NewNop())
	w := postJSON(h.CreateAppointment, "/api/appointments",
		`{"name":"Amy","email":"amy@example.com","phonenumber":"07700900000","date":"2026-09-10T10:00:00Z","treatments":[{"name":"Shellac Manicure","price":25}],"total":25}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateAppointment_RateLimitMapsTo403(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, booking.NewRateLimitError("you already have 3 bookings in the past 24 hours, please contact us if you need more"))

	h := NewBookingHandler(svc, zap.NewNop())
	w := postJSON(h.CreateAppointment, "/api/appointments",
		`{"name":"Amy","email":"amy@example.com","phonenumber":"07700900000","date":"2026-09-10T10:00:00Z","treatments":[{"name":"Shellac Manicure","price":25}],"total":25}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateAppointment_ValidationMapsTo400(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, booking.NewValidationError("name, email, phone number, date and treatments are all required"))

	h := NewBookingHandler(svc, zap.NewNop())
	w := postJSON(h.CreateAppointment, "/api/appointments", `{"name":"Amy"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelAppointment_MissingIDRejected(t *testing.T) {
	svc := new(MockBookingService)
	h := NewBookingHandler(svc, zap.NewNop())

	w := postJSON(h.CancelAppointment, "/api/cancel-booking", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything)
}

func TestCancelAppointment_ReportsRefund(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("CancelBooking", mock.Anything, "bk-1").Return(&models.CancelResult{Refunded: true}, nil)

	h := NewBookingHandler(svc, zap.NewNop())
	w := postJSON(h.CancelAppointment, "/api/cancel-booking", `{"bookingId":"bk-1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"refunded":true`)
}

func TestGetAppointment_NotFoundMapsTo404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(MockBookingService)
	svc.On("GetBooking", "missing").Return(nil, booking.NewNotFoundError("booking not found"))

	h := NewBookingHandler(svc, zap.NewNop())
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/appointments/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.GetAppointment(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAppointments_ReturnsIntervals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(MockBookingService)
	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	svc.On("ListIntervals").Return([]models.BookedInterval{
		{Start: start, End: start.Add(45 * time.Minute)},
	}, nil)

	h := NewBookingHandler(svc, zap.NewNop())
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	h.ListAppointments(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2026-09-10T10:00:00Z")
}
