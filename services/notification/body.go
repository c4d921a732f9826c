package notification

import (
	"fmt"
	"strings"
	"time"

	"cutesalon/models"
)

// formatICSTime renders an instant in the compact UTC form calendar clients
// expect (YYYYMMDDTHHMMSSZ).
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func icsInvite(b *models.Booking) string {
	names := make([]string, 0, len(b.Treatments))
	for _, t := range b.Treatments {
		names = append(names, t.Name)
	}

	return fmt.Sprintf(`BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:%s@cutesalon.com
DTSTAMP:%s
DTSTART:%s
DTEND:%s
SUMMARY:Cute Salon Appointment
DESCRIPTION:Booked Treatments: %s
END:VEVENT
END:VCALENDAR`,
		b.ID,
		formatICSTime(b.Start),
		formatICSTime(b.Start),
		formatICSTime(b.End),
		strings.Join(names, ", "))
}

func treatmentListHTML(treatments []models.TreatmentSelection) string {
	var sb strings.Builder
	for _, t := range treatments {
		if t.Parent != "" {
			fmt.Fprintf(&sb, "<li>%s - %s - £%.2f</li>", t.Parent, t.Name, t.Price)
		} else {
			fmt.Fprintf(&sb, "<li>%s - £%.2f</li>", t.Name, t.Price)
		}
	}
	return sb.String()
}

func clientEmailBody(b *models.Booking) string {
	return fmt.Sprintf(`<h2>Hi %s,</h2>
<p>Thank you for booking with Cute! Here are your appointment details:</p>
<ul>
  <li><strong>Date &amp; Time:</strong> %s - %s</li>
  <li><strong>Treatments:</strong></li>
  <ul>%s</ul>
  <li><b>Total: </b>£%.2f</li>
</ul>
<p>We look forward to seeing you!</p>
<p>Cute Edinburgh</p>
<hr/>
<a href="data:text/calendar;charset=utf8,%s" download="appointment.ics" style="display:none;">Download Calendar Invite</a>`,
		b.Name,
		b.Start.Format("Mon 2 Jan 2006 15:04"),
		b.End.Format("15:04"),
		treatmentListHTML(b.Treatments),
		b.Total,
		icsInvite(b))
}

func managerEmailBody(b *models.Booking) string {
	return fmt.Sprintf(`<h2>New Booking Received</h2>
<p><strong>Client:</strong> %s (%s)</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Date &amp; Time:</strong> %s - %s</p>
<p><strong>Treatments:</strong></p>
<ul>%s</ul>
<ul><b>Total: </b>£%.2f</ul>
<hr/>
<pre>%s</pre>`,
		b.Name,
		b.Email,
		b.Phone,
		b.Start.Format("Mon 2 Jan 2006 15:04"),
		b.End.Format("15:04"),
		treatmentListHTML(b.Treatments),
		b.Total,
		icsInvite(b))
}

func cancellationEmailBody(b *models.Booking, refunded bool) string {
	outcome := "has been canceled"
	if refunded {
		outcome = "has been canceled and your payment refunded"
	}
	return fmt.Sprintf(`<h2>Hi %s,</h2>
<p>Your appointment on %s %s.</p>
<p>We hope to see you again soon.</p>
<p>Cute Edinburgh</p>`,
		b.Name,
		b.Start.Format("Mon 2 Jan 2006 15:04"),
		outcome)
}
