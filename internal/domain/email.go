package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationNotice is the data every registration email is rendered from.
type RegistrationNotice struct {
	To           string
	Name         string
	EventName    string
	EventYear    int
	Registration Registration
}

// RegistrationNotifier sends registration emails.
type RegistrationNotifier interface {
	SendRegistrationConfirmation(ctx context.Context, notice *RegistrationNotice) error
	SendRegistrationUpdate(ctx context.Context, notice *RegistrationNotice) error
	SendPendingPaymentNotice(ctx context.Context, notice *RegistrationNotice) error
}

// Notification kinds carried by a NotificationJob.
const (
	NotificationConfirmation   = "registration_confirmation"
	NotificationUpdate         = "registration_update"
	NotificationPendingPayment = "pending_payment"
)

// NotificationJob is a queued email.
type NotificationJob struct {
	Kind   string             `json:"kind"`
	Notice RegistrationNotice `json:"notice"`
}

// NotificationQueue accepts notification jobs for asynchronous delivery.
type NotificationQueue interface {
	Enqueue(ctx context.Context, job NotificationJob) error
}
