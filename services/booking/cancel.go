package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "cutesalon/database/repository/booking"
	"cutesalon/models"

	"go.uber.org/zap"
)

// CancelBooking withdraws a booking. Unpaid bookings transition straight to
// CANCELED; paid bookings are refunded against the gateway first and only
// transition to REFUNDED once the refund succeeded (refund-then-commit).
func (s *DefaultBookingService) CancelBooking(ctx context.Context, id string) (*models.CancelResult, error) {
	b, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError("booking not found")
		}
		return nil, err
	}

	if models.IsTerminalStatus(b.Status) {
		return nil, NewPaymentError("booking is already canceled or refunded")
	}

	if b.Status == models.StatusPaid {
		return s.refundAndCancel(ctx, b)
	}

	// PENDING: nothing was captured, even when a checkout session is
	// attached, so no refund call is made.
	ok, err := s.Repo.UpdateStatusFrom(b.ID, models.StatusPending, models.StatusCanceled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking %s: %w", b.ID, err)
	}
	if !ok {
		return nil, NewPaymentError("booking state changed, please retry")
	}

	s.Logger.Info("booking canceled", zap.String("bookingId", b.ID))
	s.Dispatcher.BookingWithdrawn(b, false)
	return &models.CancelResult{Refunded: false}, nil
}

func (s *DefaultBookingService) refundAndCancel(ctx context.Context, b *models.Booking) (*models.CancelResult, error) {
	if b.SessionRef == "" {
		return nil, NewPaymentError("paid booking has no payment session to refund")
	}

	// The refund must succeed before the status is mutated.
	if err := s.Gateway.RefundSession(ctx, b.SessionRef); err != nil {
		s.Logger.Error("refund failed", zap.String("bookingId", b.ID), zap.Error(err))
		return nil, NewPaymentError("refund failed")
	}

	ok, err := s.Repo.UpdateStatusFrom(b.ID, models.StatusPaid, models.StatusRefunded)
	if err != nil {
		return nil, fmt.Errorf("refund issued but status update failed for booking %s: %w", b.ID, err)
	}
	if !ok {
		// The refund went through but another request changed the status
		// underneath us. Surface it rather than guessing.
		s.Logger.Error("refund issued but booking left PAID state concurrently", zap.String("bookingId", b.ID))
		return nil, NewPaymentError("booking state changed during refund")
	}

	s.Logger.Info("booking refunded", zap.String("bookingId", b.ID))
	s.Dispatcher.BookingWithdrawn(b, true)
	return &models.CancelResult{Refunded: true}, nil
}
