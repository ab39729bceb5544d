package ports

import "context"

// NotificationTemplate identifies one of the outbound email templates.
type NotificationTemplate string

const (
	TemplateVerification    NotificationTemplate = "verification"
	TemplateWelcome         NotificationTemplate = "welcome"
	TemplatePasswordReset   NotificationTemplate = "password_reset"
	TemplatePasswordChanged NotificationTemplate = "password_changed"
	TemplateLoginLink       NotificationTemplate = "login_link"
)

// Notification is a templated email waiting to be delivered. Token carries the
// raw (undigested) token for templates that embed a link.
type Notification struct {
	Template NotificationTemplate
	To       string
	Name     string
	Token    string
}

// Mailer delivers a single notification synchronously.
type Mailer interface {
	Send(ctx context.Context, n Notification) error
}

// Notifier accepts notifications for asynchronous delivery. Delivery failures
// are logged by the implementation and never surface to the caller: the
// user-visible operation already succeeded once the state mutation committed.
type Notifier interface {
	Notify(n Notification)
}
