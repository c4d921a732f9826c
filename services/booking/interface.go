package booking

import (
	"context"
	"time"

	"cutesalon/models"
)

// BookingService defines the appointment-booking engine operations.
type BookingService interface {
	// ListIntervals returns the occupied intervals of all live bookings,
	// ascending by start. Expired and stale holds are reaped first.
	ListIntervals() ([]models.BookedInterval, error)

	GetBooking(id string) (*models.Booking, error)

	// CreateBooking validates the request, computes the interval server-side,
	// enforces the per-customer limit and slot exclusivity, persists the
	// booking as PENDING and dispatches creation side effects.
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)

	// CancelBooking withdraws a booking: PENDING bookings transition to
	// CANCELED; PAID bookings are refunded first, then transition to REFUNDED.
	CancelBooking(ctx context.Context, id string) (*models.CancelResult, error)

	// StartCheckout opens a hosted payment session for the booking and
	// attaches its reference.
	StartCheckout(ctx context.Context, bookingID string) (string, error)

	// ConfirmPayment is the client-initiated confirmation after redirect-back:
	// it asks the gateway whether the session was paid, then applies the
	// idempotent PENDING -> PAID transition.
	ConfirmPayment(ctx context.Context, sessionRef string) error

	// ApplyPaymentCompleted is the gateway-push confirmation path: the payment
	// is already known complete, so only the idempotent transition applies.
	ApplyPaymentCompleted(sessionRef string) error

	BookingBySession(sessionRef string) (*models.Booking, error)

	// PurgeFinished removes bookings that ended more than olderThan ago.
	PurgeFinished(olderThan time.Duration) (int64, error)
}

// PaymentGateway abstracts the hosted-checkout payment collaborator.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, b *models.Booking) (sessionRef, url string, err error)
	SessionPaid(ctx context.Context, sessionRef string) (bool, error)
	RefundSession(ctx context.Context, sessionRef string) error
}
