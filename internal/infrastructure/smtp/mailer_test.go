package smtp

import (
	"strings"
	"testing"

	"github.com/huddleapp/community-api/internal/core/ports"
	"github.com/huddleapp/community-api/internal/infrastructure/config"
)

func TestRender_LinkTemplates(t *testing.T) {
	m := NewMailer(config.SMTPConfig{}, "https://app.example.com/")

	cases := []struct {
		template ports.NotificationTemplate
		subject  string
		link     string
	}{
		{ports.TemplateVerification, "Verify Your Email Address", "https://app.example.com/verify-email/tok123"},
		{ports.TemplatePasswordReset, "Password Reset Request", "https://app.example.com/reset-password/tok123"},
		{ports.TemplateLoginLink, "Passwordless Login Request", "https://app.example.com/login-with-token/tok123"},
	}

	for _, tc := range cases {
		t.Run(string(tc.template), func(t *testing.T) {
			subject, body, err := m.render(ports.Notification{
				Template: tc.template,
				To:       "alice@example.com",
				Token:    "tok123",
			})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if subject != tc.subject {
				t.Errorf("subject: got %q, want %q", subject, tc.subject)
			}
			if !strings.Contains(body, tc.link) {
				t.Errorf("body missing link %q:\n%s", tc.link, body)
			}
		})
	}
}

func TestRender_WelcomeUsesName(t *testing.T) {
	m := NewMailer(config.SMTPConfig{}, "https://app.example.com")

	subject, body, err := m.render(ports.Notification{
		Template: ports.TemplateWelcome,
		To:       "alice@example.com",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject != "Welcome to Our Platform!" {
		t.Errorf("subject: got %q", subject)
	}
	if !strings.Contains(body, `Hi "Alice"`) {
		t.Errorf("body missing greeting: %s", body)
	}
}

func TestRender_PasswordChangedHasNoToken(t *testing.T) {
	m := NewMailer(config.SMTPConfig{}, "https://app.example.com")

	_, body, err := m.render(ports.Notification{
		Template: ports.TemplatePasswordChanged,
		To:       "alice@example.com",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(body, "href") {
		t.Errorf("password changed mail must not carry a link: %s", body)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	m := NewMailer(config.SMTPConfig{}, "https://app.example.com")

	if _, _, err := m.render(ports.Notification{Template: "bogus"}); err == nil {
		t.Fatalf("expected an error for an unknown template")
	}
}
