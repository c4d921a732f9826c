package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "cutesalon/database/repository/booking"
	"cutesalon/models"

	"go.uber.org/zap"
)

// StartCheckout opens a hosted checkout session for the booking and attaches
// its reference, marking the start of the pay-now flow. Only PENDING bookings
// qualify: a PAID booking already carries the session its refund runs against,
// and that reference must never be overwritten by a fresh unpaid session.
func (s *DefaultBookingService) StartCheckout(ctx context.Context, bookingID string) (string, error) {
	b, err := s.Repo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return "", NewNotFoundError("booking not found")
		}
		return "", err
	}
	if b.Status != models.StatusPending {
		return "", NewPaymentError("booking is not awaiting payment")
	}

	sessionRef, url, err := s.Gateway.CreateCheckoutSession(ctx, b)
	if err != nil {
		s.Logger.Error("checkout session creation failed", zap.String("bookingId", b.ID), zap.Error(err))
		return "", NewPaymentError("could not create checkout session")
	}

	if err := s.Repo.SetSessionRef(b.ID, sessionRef); err != nil {
		return "", fmt.Errorf("failed to attach session ref to booking %s: %w", b.ID, err)
	}
	return url, nil
}

// ConfirmPayment is the client-initiated confirmation path after redirect-back
// from the gateway. The gateway is the source of truth: the transition only
// applies when it reports the session as paid.
func (s *DefaultBookingService) ConfirmPayment(ctx context.Context, sessionRef string) error {
	b, err := s.Repo.GetBySessionRef(sessionRef)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return NewNotFoundError("no booking found for this checkout session")
		}
		return err
	}

	paid, err := s.Gateway.SessionPaid(ctx, sessionRef)
	if err != nil {
		return NewPaymentError("could not verify payment status")
	}
	if !paid {
		return NewPaymentError("payment not completed")
	}

	return s.markPaid(b)
}

// ApplyPaymentCompleted is the gateway-push confirmation path. Completion is
// already verified by the caller, so only the idempotent transition applies.
// An unknown session is not an error: the booking may have been reaped as a
// stale hold before the notification arrived, and the gateway retries on
// failure responses.
func (s *DefaultBookingService) ApplyPaymentCompleted(sessionRef string) error {
	b, err := s.Repo.GetBySessionRef(sessionRef)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			s.Logger.Warn("payment completed for unknown session", zap.String("sessionRef", sessionRef))
			return nil
		}
		return err
	}
	return s.markPaid(b)
}

// markPaid applies the guarded PENDING -> PAID transition. The two
// confirmation paths race against each other and the gateway may deliver the
// push more than once; the compare-and-set makes re-application a no-op and
// keeps the side effects from firing twice.
func (s *DefaultBookingService) markPaid(b *models.Booking) error {
	ok, err := s.Repo.UpdateStatusFrom(b.ID, models.StatusPending, models.StatusPaid)
	if err != nil {
		return fmt.Errorf("failed to mark booking %s paid: %w", b.ID, err)
	}
	if !ok {
		s.Logger.Debug("payment confirmation already applied", zap.String("bookingId", b.ID))
		return nil
	}

	s.Logger.Info("booking paid", zap.String("bookingId", b.ID))
	s.Dispatcher.BookingPaid(b)
	return nil
}
