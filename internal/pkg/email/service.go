// internal/pkg/email/service.go
package email

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/your-org/perfumeria-backend/internal/config"
	"github.com/your-org/perfumeria-backend/internal/domain/importer"
)

// Service sends transactional email over SMTP
type Service struct {
	config *config.Config
	log    *logrus.Logger
}

// NewService creates a new email service
func NewService(cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		config: cfg,
		log:    log,
	}
}

// SendImportReport emails the outcome of a CSV import session. It
// satisfies importer.Notifier; when email is disabled the report is
// only logged.
func (s *Service) SendImportReport(to string, report *importer.Report) error {
	if !s.config.Email.Enabled || to == "" {
		s.log.WithFields(logrus.Fields{
			"session_id": report.SessionID,
			"status":     report.Status,
			"succeeded":  report.Succeeded,
			"failed":     report.FailedRows,
		}).Info("Import finished (email notifications disabled)")
		return nil
	}

	subject := fmt.Sprintf("Importación %s: %d/%d productos", report.Status, report.Succeeded, report.Total)
	return s.send(to, subject, report.Text())
}

// send delivers a plain-text message through the configured SMTP server
func (s *Service) send(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		return fmt.Errorf("SMTP configuration incomplete: missing host")
	}

	var auth smtp.Auth
	if s.config.Email.SMTPUser != "" {
		auth = smtp.PlainAuth("",
			s.config.Email.SMTPUser,
			s.config.Email.SMTPPass,
			s.config.Email.SMTPHost)
	}

	from := s.config.Email.FromEmail
	if s.config.Email.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.Email.FromName, s.config.Email.FromEmail)
	}

	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
	}

	var msg bytes.Buffer
	msg.WriteString(strings.Join(headers, "\r\n"))
	msg.WriteString("\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	if err := smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.WithField("to", to).Info("Email sent")
	return nil
}
