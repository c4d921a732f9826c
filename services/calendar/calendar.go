package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// eventTimeZone is the salon's local zone for calendar rendering.
const eventTimeZone = "Europe/London"

// Service writes booking events into the operator's Google Calendar.
type Service struct {
	srv        *gcal.Service
	calendarID string
}

// New builds the connector from a service-account credentials file.
func New(ctx context.Context, credentialsFile, calendarID string) (*Service, error) {
	srv, err := gcal.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Service{srv: srv, calendarID: calendarID}, nil
}

// InsertEvent creates the visual calendar record for a booking and returns
// the event id.
func (s *Service) InsertEvent(ctx context.Context, summary, description string, start, end time.Time) (string, error) {
	event := &gcal.Event{
		Summary:     summary,
		Description: description,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: eventTimeZone},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: eventTimeZone},
	}

	created, err := s.srv.Events.Insert(s.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}
	return created.Id, nil
}

// UpdateSummary patches only the summary of an existing event.
func (s *Service) UpdateSummary(ctx context.Context, eventRef, summary string) error {
	_, err := s.srv.Events.Patch(s.calendarID, eventRef, &gcal.Event{Summary: summary}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update summary for event %s: %w", eventRef, err)
	}
	return nil
}
