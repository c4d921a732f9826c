package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "cutesalon/database/repository/booking"
	"cutesalon/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// maxRecentBookings is the per-customer abuse limit: no more than this
	// many bookings with a scheduled start inside the trailing window.
	maxRecentBookings = 3
	recentWindow      = 24 * time.Hour
)

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo       bookingRepo.BookingRepository
	Resolver   *DurationResolver
	Gateway    PaymentGateway
	Dispatcher Dispatcher
	Logger     *zap.Logger
}

// CreateBooking runs the full create flow: reap, validate, compute the
// interval server-side, rate-limit, then conflict-check and insert as one
// atomic unit before dispatching side effects.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	s.reap()

	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Date == "" || len(req.Treatments) == 0 {
		return nil, NewValidationError("name, email, phone number, date and treatments are all required")
	}
	start, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return nil, NewValidationError("date must be a valid ISO-8601 instant")
	}

	minutes := s.Resolver.TotalMinutes(req.Treatments)
	end := start.Add(time.Duration(minutes) * time.Minute)

	count, err := s.Repo.CountRecentByEmail(req.Email, time.Now().Add(-recentWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent bookings: %w", err)
	}
	if count >= maxRecentBookings {
		return nil, NewRateLimitError("you already have 3 bookings in the past 24 hours, please contact us if you need more")
	}

	b := &models.Booking{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Start:      start,
		End:        end,
		Treatments: req.Treatments,
		Total:      req.Total,
		Status:     models.StatusPending,
		CreatedAt:  time.Now(),
	}

	if err := s.Repo.CreateIfFree(ctx, b); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, NewSlotConflictError("this time slot is already taken, please choose another")
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", b.ID),
		zap.Time("start", b.Start),
		zap.Time("end", b.End))

	s.Dispatcher.BookingCreated(b)
	return b, nil
}

// ListIntervals returns the occupied intervals, ascending by start.
func (s *DefaultBookingService) ListIntervals() ([]models.BookedInterval, error) {
	s.reap()

	bookings, err := s.Repo.ListUpcoming()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	intervals := make([]models.BookedInterval, 0, len(bookings))
	for _, b := range bookings {
		intervals = append(intervals, models.BookedInterval{Start: b.Start, End: b.End})
	}
	return intervals, nil
}

// GetBooking fetches a single booking by id.
func (s *DefaultBookingService) GetBooking(id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError("booking not found")
		}
		return nil, err
	}
	return b, nil
}

// BookingBySession fetches the booking attached to a checkout session.
func (s *DefaultBookingService) BookingBySession(sessionRef string) (*models.Booking, error) {
	b, err := s.Repo.GetBySessionRef(sessionRef)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError("no booking found for this checkout session")
		}
		return nil, err
	}
	return b, nil
}

// PurgeFinished removes bookings that ended more than olderThan ago.
func (s *DefaultBookingService) PurgeFinished(olderThan time.Duration) (int64, error) {
	deleted, err := s.Repo.DeleteFinishedBefore(time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to purge finished bookings: %w", err)
	}
	return deleted, nil
}
