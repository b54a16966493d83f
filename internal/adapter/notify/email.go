// Package notify sends ticket confirmations to buyers.
package notify

import (
	"bytes"
	"context"
	"html/template"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/srgjo27/event_ticket/internal/core/domain"
	"github.com/srgjo27/event_ticket/internal/platform/config"
)

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var ticketTemplate = template.Must(template.New("ticket").Parse(`<html>
<body style="font-family: sans-serif">
  <h2>Seu ingresso para {{.EventName}}</h2>
  <p>Código do ingresso: <strong>{{.Code}}</strong></p>
  {{if .ImageURL}}<p><img src="{{.ImageURL}}" alt="QR Code {{.Code}}" width="256" height="256"></p>{{end}}
  <p>Apresente este código na entrada do evento.</p>
</body>
</html>`))

type EmailNotifier struct {
	dialer Dialer
	from   string
	log    zerolog.Logger
}

func NewEmailNotifier(cfg config.SMTPConfig, log zerolog.Logger) *EmailNotifier {
	return NewEmailNotifierWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From, log)
}

func NewEmailNotifierWithDialer(dialer Dialer, from string, log zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{
		dialer: dialer,
		from:   from,
		log:    log.With().Str("component", "email").Logger(),
	}
}

func (n *EmailNotifier) SendTicket(ctx context.Context, notification domain.TicketNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := ticketTemplate.Execute(&body, notification); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", notification.To)
	m.SetHeader("Subject", "Seu ingresso: "+notification.EventName)
	m.SetBody("text/html", body.String())

	if err := n.dialer.DialAndSend(m); err != nil {
		n.log.Error().Err(err).Str("to", notification.To).Str("code", notification.Code).Msg("failed to send ticket email")
		return err
	}

	n.log.Info().Str("to", notification.To).Str("code", notification.Code).Msg("ticket email sent")
	return nil
}

// LogNotifier only logs. Used when SMTP is not configured.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) SendTicket(_ context.Context, notification domain.TicketNotification) error {
	n.Log.Info().Str("to", notification.To).Str("code", notification.Code).Msg("ticket email skipped: smtp not configured")
	return nil
}
