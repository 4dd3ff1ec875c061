// Package mailer delivers transactional email through a configurable driver.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vitacross/vitacross-api/internal/config"
)

// Message is a plain-text email.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Mailer sends one message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

var ErrNoRecipients = errors.New("message has no recipients")

// New builds the mailer selected by MAIL_DRIVER. The amqp driver returns a
// closer for its channel and connection.
func New(cfg *config.Config) (Mailer, func() error, error) {
	noop := func() error { return nil }
	switch cfg.MailDriver {
	case "", "log":
		return NewLogMailer(), noop, nil
	case "smtp":
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom), noop, nil
	case "amqp":
		q, err := DialQueue(cfg.AMQPURL, cfg.AMQPMailQueue)
		if err != nil {
			return nil, noop, err
		}
		return q, q.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported MAIL_DRIVER %q", cfg.MailDriver)
	}
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	slog.Info("mail (log driver)", "to", msg.To, "subject", msg.Subject)
	return nil
}
