package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferenceportal/internal/domain"
)

type sentMail struct {
	to, subject, html, text string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, html, text})
	return nil
}

type fakeRenderer struct {
	rendered []string
	err      error
}

func (f *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	if f.err != nil {
		return "", "", "", f.err
	}
	f.rendered = append(f.rendered, name)
	return "subject " + name, "<p>" + name + "</p>", name, nil
}

func TestEmailService(t *testing.T) {
	ctx := context.Background()
	notice := &domain.RegistrationNotice{To: "ada@example.com", Name: "Ada"}

	t.Run("each notice uses its template", func(t *testing.T) {
		mailer := &fakeMailer{}
		renderer := &fakeRenderer{}
		svc := NewEmailService(mailer, renderer, testLogger())

		require.NoError(t, svc.SendRegistrationConfirmation(ctx, notice))
		require.NoError(t, svc.SendRegistrationUpdate(ctx, notice))
		require.NoError(t, svc.SendPendingPaymentNotice(ctx, notice))

		assert.Equal(t, []string{domain.NotificationConfirmation, domain.NotificationUpdate, domain.NotificationPendingPayment}, renderer.rendered)
		require.Len(t, mailer.sent, 3)
		assert.Equal(t, "ada@example.com", mailer.sent[2].to)
		assert.Equal(t, "subject pending_payment", mailer.sent[2].subject)
	})

	t.Run("missing recipient", func(t *testing.T) {
		svc := NewEmailService(&fakeMailer{}, &fakeRenderer{}, testLogger())
		require.Error(t, svc.SendRegistrationUpdate(ctx, &domain.RegistrationNotice{}))
		require.Error(t, svc.SendRegistrationUpdate(ctx, nil))
	})

	t.Run("render and send errors are wrapped", func(t *testing.T) {
		renderErr := errors.New("bad template")
		svc := NewEmailService(&fakeMailer{}, &fakeRenderer{err: renderErr}, testLogger())
		require.ErrorIs(t, svc.SendRegistrationConfirmation(ctx, notice), renderErr)

		sendErr := errors.New("ses down")
		svc = NewEmailService(&fakeMailer{err: sendErr}, &fakeRenderer{}, testLogger())
		require.ErrorIs(t, svc.SendRegistrationConfirmation(ctx, notice), sendErr)
	})
}
