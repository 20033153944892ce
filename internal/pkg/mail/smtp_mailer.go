package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/bullpowerhubgit/digistore24-automation/internal/pkg/env"
	"github.com/gofiber/fiber/v2/log"
)

// Mailer sends HTML email over SMTP. Configuration is captured once at
// construction instead of re-read per send.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	Sender   string
}

// NewMailerFromEnv builds a mailer from the SMTP_* environment surface.
func NewMailerFromEnv() *Mailer {
	m := &Mailer{
		Host:     env.GetEnv("SMTP_HOST", ""),
		Port:     env.GetEnv("SMTP_PORT", "587"),
		Username: env.GetEnv("SMTP_USERNAME", ""),
		Password: env.GetEnv("SMTP_PASSWORD", ""),
		Sender:   env.GetEnv("SMTP_SENDER", ""),
	}
	if m.Sender == "" {
		m.Sender = "no-reply@localhost"
		log.Warnf("[Mail] SMTP_SENDER not set, using default sender %s", m.Sender)
	}
	return m
}

// Send delivers one HTML email to a single recipient.
func (m *Mailer) Send(to, subject, body string) error {
	if m.Host == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	var auth smtp.Auth
	if m.Username != "" && m.Password != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)
	if err := smtp.SendMail(addr, auth, m.Sender, []string{to}, m.message(to, subject, body)); err != nil {
		log.Errorf("[Mail] send to %s via %s failed: %v", to, addr, err)
		return err
	}
	log.Infof("[Mail] sent to %s via %s", to, addr)
	return nil
}

func (m *Mailer) message(to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.Sender)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// SendMail is the package-level convenience used as the default send hook
// by the notification and report paths.
func SendMail(to, subject, body string) error {
	return NewMailerFromEnv().Send(to, subject, body)
}
