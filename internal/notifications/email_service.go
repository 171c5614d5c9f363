package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"travelbook/internal/shared/config"
	"travelbook/pkg/logger"

	"github.com/google/uuid"
)

// MailSender delivers a plain text message
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// RecipientLookup resolves the user a booking event belongs to
type RecipientLookup interface {
	GetRecipient(ctx context.Context, userID uuid.UUID) (email, name string, err error)
}

type SMTPMailSender struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	fromName  string
}

// NewMailSender returns an SMTP sender, or a logging sender when SMTP is not configured
func NewMailSender(cfg config.EmailConfig) MailSender {
	if cfg.SMTPHost == "" || cfg.FromEmail == "" {
		return LogMailSender{}
	}
	return &SMTPMailSender{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

// Send uses STARTTLS
func (s *SMTPMailSender) Send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if s.username != "" {
		if err := client.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}
	if err := client.Mail(s.fromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(buildMessage(s.fromName, s.fromEmail, to, subject, body)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}
	return client.Quit()
}

func buildMessage(fromName, fromEmail, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, fromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

type LogMailSender struct{}

func (LogMailSender) Send(ctx context.Context, to, subject, _ string) error {
	logger.GetDefault().InfoContext(ctx, "mail not sent, SMTP disabled",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}

// MailHandler turns booking events into customer emails
type MailHandler struct {
	recipients RecipientLookup
	mailer     MailSender
}

func NewMailHandler(recipients RecipientLookup, mailer MailSender) *MailHandler {
	return &MailHandler{recipients: recipients, mailer: mailer}
}

func (h *MailHandler) Handle(ctx context.Context, event *BookingEvent) error {
	email, name, err := h.recipients.GetRecipient(ctx, event.UserID)
	if err != nil {
		return err
	}

	subject, body := renderBookingEmail(name, event)
	return h.mailer.Send(ctx, email, subject, body)
}

func renderBookingEmail(name string, event *BookingEvent) (subject, body string) {
	title := event.PackageTitle
	if title == "" {
		title = "your trip"
	}

	var line string
	switch event.Type {
	case EventBookingCreated:
		subject = fmt.Sprintf("Booking received: %s", event.BookingRef)
		line = fmt.Sprintf("We received your booking for %s starting %s. Total: %.2f.", title, event.StartDate, event.TotalPrice)
	case EventBookingConfirmed:
		subject = fmt.Sprintf("Booking confirmed: %s", event.BookingRef)
		line = fmt.Sprintf("Your booking for %s is confirmed.", title)
	case EventBookingCompleted:
		subject = fmt.Sprintf("Trip completed: %s", event.BookingRef)
		line = fmt.Sprintf("We hope you enjoyed %s. Leave a review to help other travellers.", title)
	case EventBookingCancelled:
		subject = fmt.Sprintf("Booking cancelled: %s", event.BookingRef)
		line = fmt.Sprintf("Your booking for %s has been cancelled.", title)
	case EventPaymentStatusChanged:
		subject = fmt.Sprintf("Payment update: %s", event.BookingRef)
		line = fmt.Sprintf("The payment status of your booking is now %s.", event.PaymentStatus)
	default:
		subject = fmt.Sprintf("Booking update: %s", event.BookingRef)
		line = fmt.Sprintf("Your booking status is now %s.", event.Status)
	}

	body = fmt.Sprintf("Hi %s,\n\n%s\nReference: %s\n\nTravelbook", name, line, event.BookingRef)
	return subject, body
}
