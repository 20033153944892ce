package mail

import (
	"strings"
	"testing"
)

func TestMessageAssembly(t *testing.T) {
	m := &Mailer{Sender: "no-reply@example.com"}
	msg := string(m.message("owner@example.com", "New Sale", "<h2>Hi</h2>"))

	for _, want := range []string{
		"From: no-reply@example.com\r\n",
		"To: owner@example.com\r\n",
		"Subject: New Sale\r\n",
		"Content-Type: text/html; charset=UTF-8\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected message to contain %q", want)
		}
	}
	if !strings.HasSuffix(msg, "\r\n<h2>Hi</h2>") {
		t.Fatalf("expected body after blank line, got %q", msg)
	}
}

func TestSendWithoutHost(t *testing.T) {
	m := &Mailer{Sender: "no-reply@example.com"}
	if err := m.Send("owner@example.com", "s", "b"); err == nil {
		t.Fatalf("expected error when no SMTP host is configured")
	}
}

func TestNewMailerFromEnvDefaults(t *testing.T) {
	t.Setenv("SMTP_SENDER", "")
	t.Setenv("SMTP_PORT", "")

	m := NewMailerFromEnv()
	if m.Sender != "no-reply@localhost" {
		t.Fatalf("expected the default sender, got %q", m.Sender)
	}
	if m.Port != "587" {
		t.Fatalf("expected the default port, got %q", m.Port)
	}
}
