package services

import (
	"context"
	"fmt"
	"log/slog"

	"conferenceportal/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns a RegistrationNotifier that renders templates and sends them through mailer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.RegistrationNotifier {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

func (s *emailService) SendRegistrationConfirmation(ctx context.Context, notice *domain.RegistrationNotice) error {
	return s.send(ctx, domain.NotificationConfirmation, notice)
}

func (s *emailService) SendRegistrationUpdate(ctx context.Context, notice *domain.RegistrationNotice) error {
	return s.send(ctx, domain.NotificationUpdate, notice)
}

func (s *emailService) SendPendingPaymentNotice(ctx context.Context, notice *domain.RegistrationNotice) error {
	return s.send(ctx, domain.NotificationPendingPayment, notice)
}

func (s *emailService) send(ctx context.Context, template string, notice *domain.RegistrationNotice) error {
	if notice == nil {
		return fmt.Errorf("%s notice is nil", template)
	}
	if notice.To == "" {
		return fmt.Errorf("%s notice has no recipient", template)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(template, notice)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, notice.To, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template, "to", notice.To)
	return nil
}
