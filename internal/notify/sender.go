package notify

import (
	"errors"

	"gopkg.in/gomail.v2"

	"github.com/autosam-rentals/backend/config"
)

// Message is an outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers email. The worker takes this interface so tests can inject
// failure without an SMTP server.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender delivers mail over SMTP via gomail.
type SMTPSender struct {
	cfg config.EmailConfig
}

// NewSMTPSender creates an SMTP sender from config.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers a single plain-text message.
func (s *SMTPSender) Send(msg Message) error {
	if s.cfg.SMTPHost == "" {
		return errors.New("smtp not configured")
	}
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromAddress, s.cfg.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	return d.DialAndSend(m)
}
