package notification

import (
	"fmt"
	"net/smtp"

	"cutesalon/models"
)

// EmailService delivers booking notices over SMTP.
type EmailService struct {
	host    string
	port    string
	user    string
	pass    string
	from    string
	manager string // operator copy recipient
}

// NewEmailService creates a new email service using SMTP.
func NewEmailService(smtpHost, smtpPort, username, password, fromEmail, managerEmail string) (*EmailService, error) {
	if smtpHost == "" || username == "" || password == "" {
		return nil, fmt.Errorf("SMTP configuration incomplete")
	}

	return &EmailService{
		host:    smtpHost,
		port:    smtpPort,
		user:    username,
		pass:    password,
		from:    fromEmail,
		manager: managerEmail,
	}, nil
}

// SendBookingConfirmation mails the customer their appointment details with
// an inline calendar invite.
func (s *EmailService) SendBookingConfirmation(b *models.Booking) error {
	return s.send(b.Email, "Your Appointment Confirmation", clientEmailBody(b))
}

// SendManagerNotice mails the operator a copy of a new booking.
func (s *EmailService) SendManagerNotice(b *models.Booking) error {
	return s.send(s.manager, "New Appointment Booked", managerEmailBody(b))
}

// SendCancellationNotice mails the customer after a withdrawal.
func (s *EmailService) SendCancellationNotice(b *models.Booking, refunded bool) error {
	subject := "Your Appointment Has Been Canceled"
	if refunded {
		subject = "Your Appointment Has Been Refunded"
	}
	return s.send(b.Email, subject, cancellationEmailBody(b, refunded))
}

func (s *EmailService) send(to, subject, html string) error {
	message := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s", s.from, to, subject, html)

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := s.host + ":" + s.port

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
