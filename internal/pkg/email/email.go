package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendInterviewReminder(ctx context.Context, to string, data InterviewReminder) error
}

// InterviewReminder fills templates/interview_reminder.html.
type InterviewReminder struct {
	RecipientName   string
	CandidateName   string
	Position        string
	InterviewType   string
	StartsAt        string
	DurationMinutes int
	Location        string
	MeetingLink     string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      sendFunc
	backoff   time.Duration
	logger    *slog.Logger
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig, logger *slog.Logger) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff:   time.Second,
		logger:    logger,
	}, nil
}

// SendInterviewReminder emails one party of an upcoming interview
func (s *emailServiceImpl) SendInterviewReminder(ctx context.Context, to string, data InterviewReminder) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "interview_reminder.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("Interview reminder: %s at %s", data.Position, data.StartsAt)
	return s.sendHTML(ctx, to, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		s.logger.Debug("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, from, []string{to}, message)
		if err == nil {
			s.logger.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		s.logger.Warn("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Exponential backoff: 1x, 2x, 4x
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.backoff << (attempt - 1)):
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
