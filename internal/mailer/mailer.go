package mailer

import (
	"fmt"

	"github.com/Zethembe177/Job-Portal/internal/domain"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Config carries SMTP settings. An empty Host disables sending.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends account mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewSMTPMailer(cfg Config, log *logger.Logger) *SMTPMailer {
	var dialer *gomail.Dialer
	if cfg.Host != "" {
		dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return &SMTPMailer{
		dialer: dialer,
		from:   cfg.From,
		logger: log.Named("SMTPMailer"),
	}
}

// SendWelcome mails a greeting to a freshly registered account. With no SMTP
// host configured it logs and returns nil.
func (m *SMTPMailer) SendWelcome(to, name string) error {
	if m.dialer == nil {
		m.logger.Debug("SMTP not configured, skipping welcome mail", zap.String("to", to))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Welcome to Job Portal")
	msg.SetBody("text/plain", fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now post and browse job listings.\n\nJob Portal", name))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send welcome mail: %w", err)
	}
	m.logger.Info("Sent welcome mail", zap.String("to", to))
	return nil
}

var _ domain.Mailer = (*SMTPMailer)(nil)
