package notify_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/srgjo27/event_ticket/internal/adapter/notify"
	"github.com/srgjo27/event_ticket/internal/core/domain"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSendTicket(t *testing.T) {
	dialer := &fakeDialer{}
	n := notify.NewEmailNotifierWithDialer(dialer, "no-reply@example.com", zerolog.Nop())

	err := n.SendTicket(context.Background(), domain.TicketNotification{
		To:        "ana@example.com",
		EventName: "Concierto",
		Code:      "APAE-1234ABCD",
		ImageURL:  "https://img.example.com/q.png",
	})

	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)
	msg := dialer.sent[0]
	assert.Equal(t, []string{"ana@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Seu ingresso: Concierto"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "APAE-1234ABCD")
}

func TestSendTicket_DialFails(t *testing.T) {
	n := notify.NewEmailNotifierWithDialer(&fakeDialer{err: errors.New("535 auth failed")}, "no-reply@example.com", zerolog.Nop())

	err := n.SendTicket(context.Background(), domain.TicketNotification{To: "ana@example.com", Code: "APAE-1"})

	assert.ErrorContains(t, err, "535")
}

func TestSendTicket_CanceledContext(t *testing.T) {
	dialer := &fakeDialer{}
	n := notify.NewEmailNotifierWithDialer(dialer, "no-reply@example.com", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.SendTicket(ctx, domain.TicketNotification{To: "ana@example.com"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, dialer.sent)
}
