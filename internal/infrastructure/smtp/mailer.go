// Package smtp delivers the auth subsystem's templated notifications over
// SMTP using go-mail.
package smtp

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/huddleapp/community-api/internal/core/ports"
	"github.com/huddleapp/community-api/internal/infrastructure/config"
)

// Mailer implements ports.Mailer on top of an SMTP relay. BaseURL is the
// frontend origin embedded in the verification, reset and login links.
type Mailer struct {
	cfg     config.SMTPConfig
	baseURL string
}

func NewMailer(cfg config.SMTPConfig, baseURL string) *Mailer {
	return &Mailer{cfg: cfg, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (m *Mailer) Send(ctx context.Context, n ports.Notification) error {
	subject, body, err := m.render(n)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(n.To); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send %s mail: %w", n.Template, err)
	}
	return nil
}

func (m *Mailer) render(n ports.Notification) (subject, body string, err error) {
	switch n.Template {
	case ports.TemplateVerification:
		return "Verify Your Email Address",
			fmt.Sprintf(`<p>Please click the link below to verify your email address:</p><a href="%s/verify-email/%s">Verify Email</a>`, m.baseURL, n.Token),
			nil
	case ports.TemplateWelcome:
		return "Welcome to Our Platform!",
			fmt.Sprintf(`<p>Hi %q,</p><p>Thank you for joining us! We're thrilled to have you.</p>`, n.Name),
			nil
	case ports.TemplatePasswordReset:
		return "Password Reset Request",
			fmt.Sprintf(`<p>To reset your password, please click the link below:</p><a href="%s/reset-password/%s">Reset Password</a>`, m.baseURL, n.Token),
			nil
	case ports.TemplatePasswordChanged:
		return "Your Password Has Been Changed",
			`<p>Your password has been successfully changed. If you did not initiate this change, please contact support immediately.</p>`,
			nil
	case ports.TemplateLoginLink:
		return "Passwordless Login Request",
			fmt.Sprintf(`<p>To log in to your account, please click the link below:</p><a href="%s/login-with-token/%s">Login</a><p>If you did not request this, please ignore this email.</p>`, m.baseURL, n.Token),
			nil
	default:
		return "", "", fmt.Errorf("unknown notification template %q", n.Template)
	}
}
