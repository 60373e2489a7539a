// Package mail sends buyer emails.
package mail

import (
	"context"
	"fmt"
	"sync"

	mailjet "github.com/mailjet/mailjet-apiv3-go"

	"landivo/internal/logging"
)

const defaultSender = "no-reply@landivo.com"

// Message is one outgoing email.
type Message struct {
	To      string
	Name    string
	Subject string
	Text    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Simulated logs messages instead of delivering them.
type Simulated struct {
	log logging.Logger

	mu   sync.Mutex
	sent []Message
}

func NewSimulated(log logging.Logger) *Simulated {
	return &Simulated{log: log}
}

func (s *Simulated) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	s.log.Info("simulated email", "to", msg.To, "subject", msg.Subject)
	return nil
}

// Sent returns a copy of every message passed to Send.
func (s *Simulated) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

// Option configures a Mailjet mailer.
type Option func(*Mailjet) error

// WithSender sets the sender email address.
func WithSender(sender string) Option {
	return func(m *Mailjet) error {
		if sender == "" {
			return fmt.Errorf("empty sender")
		}
		m.sender = sender
		return nil
	}
}

// WithKeys sets the public and private Mailjet API keys.
func WithKeys(public, private string) Option {
	return func(m *Mailjet) error {
		if public == "" || private == "" {
			return fmt.Errorf("both mailjet keys are required")
		}
		m.publicKey = public
		m.privateKey = private
		return nil
	}
}

// Mailjet delivers messages through the Mailjet v3.1 send API.
type Mailjet struct {
	sender     string
	publicKey  string
	privateKey string
	log        logging.Logger
	send       func(*mailjet.MessagesV31) error
}

// NewMailjet returns a Mailjet mailer. WithKeys is required.
func NewMailjet(log logging.Logger, options ...Option) (*Mailjet, error) {
	m := &Mailjet{sender: defaultSender, log: log}
	for i, opt := range options {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("could not apply option # %d, %v", i, err)
		}
	}
	if m.publicKey == "" {
		return nil, fmt.Errorf("mailjet keys not set")
	}
	if m.send == nil {
		clt := mailjet.NewMailjetClient(m.publicKey, m.privateKey)
		m.send = func(msgs *mailjet.MessagesV31) error {
			_, err := clt.SendMailV31(msgs)
			return err
		}
	}
	return m, nil
}

func (m *Mailjet) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info := []mailjet.InfoMessagesV31{{
		From:     &mailjet.RecipientV31{Email: m.sender},
		To:       &mailjet.RecipientsV31{mailjet.RecipientV31{Email: msg.To, Name: msg.Name}},
		Subject:  msg.Subject,
		TextPart: msg.Text,
	}}
	m.log.Debug("sending email", "to", msg.To, "subject", msg.Subject)
	if err := m.send(&mailjet.MessagesV31{Info: info}); err != nil {
		return fmt.Errorf("could not send mail: %w", err)
	}
	return nil
}
