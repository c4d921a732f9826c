package bookingRepo

import (
	"context"
	"errors"
	"time"

	"cutesalon/models"
)

// ErrSlotTaken is returned by CreateIfFree when the requested interval
// overlaps a live (PENDING or PAID) booking.
var ErrSlotTaken = errors.New("time slot already taken")

// ErrNotFound is returned when no booking matches the given reference.
var ErrNotFound = errors.New("booking not found")

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	// CreateIfFree atomically checks the interval for conflicts and inserts
	// the booking. Under concurrent requests for overlapping intervals at
	// most one insert succeeds; the losers get ErrSlotTaken.
	CreateIfFree(ctx context.Context, booking *models.Booking) error

	GetByID(id string) (*models.Booking, error)
	GetBySessionRef(sessionRef string) (*models.Booking, error)

	// ListUpcoming returns all live (PENDING or PAID) bookings ascending by
	// start; terminal bookings no longer occupy their interval.
	ListUpcoming() ([]models.Booking, error)

	// CountRecentByEmail counts bookings for the email whose scheduled start
	// is after the given instant. Keyed on start, not createdAt.
	CountRecentByEmail(email string, since time.Time) (int64, error)

	// UpdateStatusFrom performs a guarded compare-and-set on status. It
	// returns false when the booking is not currently in the from status,
	// without touching the document.
	UpdateStatusFrom(id, from, to string) (bool, error)

	SetSessionRef(id, sessionRef string) error
	SetCalendarRef(id, calendarRef string) error

	// DeleteExpired removes bookings whose end has already passed.
	DeleteExpired(now time.Time) (int64, error)
	// DeleteStalePending removes PENDING bookings created before the cutoff
	// (abandoned checkouts), freeing their interval for reuse.
	DeleteStalePending(cutoff time.Time) (int64, error)
	// DeleteFinishedBefore removes bookings whose end predates the cutoff,
	// used by the archival purge job.
	DeleteFinishedBefore(cutoff time.Time) (int64, error)
}
