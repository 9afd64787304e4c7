// Package mailer sends transactional emails (welcome messages and password
// reset OTP codes) over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"

	"spentra/internal/config"
	"spentra/internal/logger"
)

// Sender delivers a plain-text email to a single recipient.
type Sender interface {
	Send(to, subject, body string) error
}

// New returns an SMTP-backed sender, or a log-only sender when no SMTP host
// is configured so development environments work without a mail server.
func New(cfg *config.Config) Sender {
	if cfg.SMTPHost == "" {
		logger.Get().Warn("SMTP not configured, emails will be logged instead of sent")
		return &logSender{}
	}
	return &smtpSender{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth: smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost),
		from: cfg.SMTPFrom,
	}
}

type smtpSender struct {
	addr string
	auth smtp.Auth
	from string
}

func (s *smtpSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, body)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

type logSender struct{}

func (s *logSender) Send(to, subject, body string) error {
	logger.Get().Infow("email (not sent)", "to", to, "subject", subject, "body", body)
	return nil
}
