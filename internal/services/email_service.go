package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/gomail.v2"

	"userservice/internal/config"
)

// EmailService is fire-and-forget from the engine's point of view: the
// caller logs a failed Send and moves on, it never fails the operation.
type EmailService interface {
	Send(to, username, message string) error
}

func NewEmailService(cfg config.EmailConfig) EmailService {
	if cfg.Mode == "file" {
		return &fileEmailService{dir: cfg.FileDir, from: cfg.FromEmail}
	}
	return &smtpEmailService{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.FromEmail,
	}
}

func buildMessage(from, to, username, message string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetAddressHeader("To", to, username)
	m.SetHeader("Subject", fmt.Sprintf("Hi, %s. %s", username, message))
	m.SetBody("text/plain", message)
	m.AddAlternative("text/html", fmt.Sprintf("<h2>Hi, %s.</h2><p>%s</p>", username, message))
	return m
}

type smtpEmailService struct {
	dialer *gomail.Dialer
	from   string
}

func (s *smtpEmailService) Send(to, username, message string) error {
	m := buildMessage(s.from, to, username, message)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// fileEmailService is the development sink: one .eml file per message,
// written into the configured directory.
type fileEmailService struct {
	dir  string
	from string
}

func (s *fileEmailService) Send(to, username, message string) error {
	m := buildMessage(s.from, to, username, message)
	name := fmt.Sprintf("%d-%s.eml", time.Now().UnixNano(), to)
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create email file for %s: %w", to, err)
	}
	defer f.Close()
	if _, err := m.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write email file for %s: %w", to, err)
	}
	return nil
}
