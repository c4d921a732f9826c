package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "cutesalon/database/repository/booking"
	"cutesalon/models"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

// CalendarConnector abstracts the external visual calendar.
type CalendarConnector interface {
	InsertEvent(ctx context.Context, summary, description string, start, end time.Time) (string, error)
	UpdateSummary(ctx context.Context, eventRef, summary string) error
}

// Mailer abstracts the confirmation/cancellation email sender.
type Mailer interface {
	SendBookingConfirmation(b *models.Booking) error
	SendManagerNotice(b *models.Booking) error
	SendCancellationNotice(b *models.Booking, refunded bool) error
}

// Dispatcher fans out the side effects attached to lifecycle transitions.
// Every method is best-effort: failures are logged and never propagate back
// into the state transition that triggered them.
type Dispatcher interface {
	BookingCreated(b *models.Booking)
	BookingPaid(b *models.Booking)
	BookingWithdrawn(b *models.Booking, refunded bool)
}

const (
	calendarRetryAttempts = 3
	collaboratorTimeout   = 15 * time.Second
)

// DefaultDispatcher invokes the email and calendar collaborators.
type DefaultDispatcher struct {
	Calendar CalendarConnector
	Mailer   Mailer
	Repo     bookingRepo.BookingRepository
	Logger   *zap.Logger
}

// BookingCreated inserts the external calendar record and sends confirmation
// mail to the customer and the operator.
func (d *DefaultDispatcher) BookingCreated(b *models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
	defer cancel()

	eventRef, err := d.Calendar.InsertEvent(ctx, eventSummary(b), eventDescription(b), b.Start, b.End)
	if err != nil {
		d.Logger.Error("calendar insert failed", zap.String("bookingId", b.ID), zap.Error(err))
	} else if err := d.Repo.SetCalendarRef(b.ID, eventRef); err != nil {
		d.Logger.Error("failed to persist calendar ref", zap.String("bookingId", b.ID), zap.Error(err))
	}

	if err := d.Mailer.SendBookingConfirmation(b); err != nil {
		d.Logger.Error("confirmation email failed", zap.String("bookingId", b.ID), zap.Error(err))
	}
	if err := d.Mailer.SendManagerNotice(b); err != nil {
		d.Logger.Error("manager email failed", zap.String("bookingId", b.ID), zap.Error(err))
	}
}

// BookingPaid relabels the calendar record after a successful payment.
func (d *DefaultDispatcher) BookingPaid(b *models.Booking) {
	d.relabel(b, "[PAID]")
}

// BookingWithdrawn relabels the calendar record and notifies the customer.
func (d *DefaultDispatcher) BookingWithdrawn(b *models.Booking, refunded bool) {
	label := "[CANCELED]"
	if refunded {
		label = "[REFUNDED]"
	}
	d.relabel(b, label)

	if err := d.Mailer.SendCancellationNotice(b, refunded); err != nil {
		d.Logger.Error("cancellation email failed", zap.String("bookingId", b.ID), zap.Error(err))
	}
}

// relabel patches the calendar event summary. The calendar ref is re-read
// because it is attached after creation, possibly by another request.
func (d *DefaultDispatcher) relabel(b *models.Booking, label string) {
	fresh, err := d.Repo.GetByID(b.ID)
	if err != nil || fresh.CalendarRef == "" {
		d.Logger.Debug("no calendar record to relabel", zap.String("bookingId", b.ID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
	defer cancel()

	summary := label + " " + eventSummary(b)
	err = withCalendarRetry(func() error {
		return d.Calendar.UpdateSummary(ctx, fresh.CalendarRef, summary)
	})
	if err != nil {
		d.Logger.Error("calendar relabel failed",
			zap.String("bookingId", b.ID),
			zap.String("eventRef", fresh.CalendarRef),
			zap.Error(err))
	}
}

// withCalendarRetry retries rate-limited calendar calls with capped
// exponential backoff. Any other error class fails immediately.
func withCalendarRetry(op func() error) error {
	backoff := 500 * time.Millisecond
	var err error
	for attempt := 1; attempt <= calendarRetryAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if !isRateLimited(err) || attempt == calendarRetryAttempts {
			return err
		}
		time.Sleep(backoff)
		if backoff < 2*time.Second {
			backoff *= 2
		}
	}
	return err
}

func isRateLimited(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code == 429 {
		return true
	}
	if gerr.Code == 403 {
		for _, item := range gerr.Errors {
			if strings.Contains(item.Reason, "rateLimitExceeded") {
				return true
			}
		}
	}
	return false
}

func eventSummary(b *models.Booking) string {
	return fmt.Sprintf("Appointment with %s", b.Name)
}

func eventDescription(b *models.Booking) string {
	names := make([]string, 0, len(b.Treatments))
	for _, t := range b.Treatments {
		if t.Parent != "" {
			names = append(names, t.Parent+" - "+t.Name)
		} else {
			names = append(names, t.Name)
		}
	}
	return fmt.Sprintf("Booked treatments: %s\nPhone: %s\nTotal: £%.2f",
		strings.Join(names, ", "), b.Phone, b.Total)
}
