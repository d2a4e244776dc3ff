// Package mailer delivers transactional email.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ErrRejected is returned when the provider refuses a message.
var ErrRejected = errors.New("email provider rejected message")

type sendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGrid returns a Sender backed by the SendGrid v3 API.
func NewSendGrid(apiKey, senderEmail string) Sender {
	return &sendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("", senderEmail),
	}
}

func (s *sendGridSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewSingleEmail(s.from, msg.Subject, mail.NewEmail("", msg.To), msg.Text, msg.HTML)
	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return nil
}

type logSender struct {
	log *logrus.Logger
}

// NewLogSender returns a Sender that only logs messages. It is meant for
// local development where no provider key is configured.
func NewLogSender(log *logrus.Logger) Sender {
	return &logSender{log: log}
}

func (s *logSender) Send(_ context.Context, msg Message) error {
	s.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
		"body":    msg.Text,
	}).Info("email not sent: no provider configured")
	return nil
}
