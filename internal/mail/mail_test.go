package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/ausocean/utils/logging"
	mailjet "github.com/mailjet/mailjet-apiv3-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSendFunc(f func(*mailjet.MessagesV31) error) Option {
	return func(m *Mailjet) error {
		m.send = f
		return nil
	}
}

func TestSimulatedRecords(t *testing.T) {
	s := NewSimulated((*logging.TestLogger)(t))
	require.NoError(t, s.Send(context.Background(), Message{To: "a@example.com", Subject: "Hi"}))
	sent := s.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "a@example.com", sent[0].To)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, s.Send(ctx, Message{To: "b@example.com"}))
	assert.Len(t, s.Sent(), 1)
}

func TestNewMailjetRequiresKeys(t *testing.T) {
	log := (*logging.TestLogger)(t)
	_, err := NewMailjet(log)
	assert.Error(t, err)
	_, err = NewMailjet(log, WithKeys("pub", ""))
	assert.Error(t, err)
	_, err = NewMailjet(log, WithKeys("pub", "priv"), WithSender(""))
	assert.Error(t, err)
}

func TestMailjetSend(t *testing.T) {
	var got *mailjet.MessagesV31
	m, err := NewMailjet((*logging.TestLogger)(t),
		WithKeys("pub", "priv"),
		WithSender("sales@landivo.com"),
		withSendFunc(func(msgs *mailjet.MessagesV31) error {
			got = msgs
			return nil
		}),
	)
	require.NoError(t, err)

	err = m.Send(context.Background(), Message{To: "a@example.com", Name: "Jane Doe", Subject: "New lots", Text: "Hello Jane"})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Info, 1)
	assert.Equal(t, "sales@landivo.com", got.Info[0].From.Email)
	assert.Equal(t, "a@example.com", (*got.Info[0].To)[0].Email)
	assert.Equal(t, "New lots", got.Info[0].Subject)
	assert.Equal(t, "Hello Jane", got.Info[0].TextPart)
}

func TestMailjetSendError(t *testing.T) {
	m, err := NewMailjet((*logging.TestLogger)(t),
		WithKeys("pub", "priv"),
		withSendFunc(func(*mailjet.MessagesV31) error { return errors.New("rejected") }),
	)
	require.NoError(t, err)
	assert.ErrorContains(t, m.Send(context.Background(), Message{To: "a@example.com"}), "rejected")
}
