// Package mailer sends transactional email over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/domain"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

const confirmationSubject = "Hello World: application received"

const confirmationBody = `Hi %s,

We got your Hello World application! You can come back and update it any
time before the deadline. Keep an eye on your inbox for a decision.

- The Hello World team
`

// SendApplicationConfirmation emails the applicant that their submission was
// received. Callers treat this as fire-and-forget; the delivery outcome is
// never stored on the application.
func (m *Mailer) SendApplicationConfirmation(ctx context.Context, user *domain.User) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", confirmationSubject)
	msg.SetBody("text/plain", fmt.Sprintf(confirmationBody, user.FirstName))

	// gomail has no context support; respect cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("confirmation send canceled: %w", err)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send confirmation to %s: %w", user.Email, err)
	}

	slog.InfoContext(ctx, "Confirmation email sent", "to", user.Email)
	return nil
}
