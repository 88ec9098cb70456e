package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/arogyahq/booking-api/internal/config"
	"github.com/arogyahq/booking-api/internal/model"
)

// Service sends patient-facing booking emails.
type Service interface {
	SendConfirmation(ctx context.Context, booking *model.Booking) error
	SendCancellation(ctx context.Context, booking *model.Booking) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendConfirmation(ctx context.Context, booking *model.Booking) error {
	subject := "Your consultation is confirmed"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s consultation is confirmed for %s at %s.\n\nIf you need to reschedule, please do so at least 24 hours in advance.\n",
		booking.PatientName,
		booking.Kind,
		booking.Date.Format("Monday, January 2 2006"),
		booking.StartTime,
	)
	return s.send(booking.PatientEmail, subject, body)
}

func (s *smtpService) SendCancellation(ctx context.Context, booking *model.Booking) error {
	subject := "Your consultation has been cancelled"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s consultation on %s at %s has been cancelled.\n",
		booking.PatientName,
		booking.Kind,
		booking.Date.Format("Monday, January 2 2006"),
		booking.StartTime,
	)
	return s.send(booking.PatientEmail, subject, body)
}

func (s *smtpService) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
