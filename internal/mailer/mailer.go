// Package mailer delivers HTML mail over an SMTP relay.
package mailer

import (
	"context"

	"gopkg.in/gomail.v2"
)

// SMTPSender sends mail through a configured SMTP relay.  It dials per
// message; volume here is a handful of credential mails, not a campaign.
type SMTPSender struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPSender(host string, port int, user, pass, from string) *SMTPSender {
	return &SMTPSender{host: host, port: port, user: user, pass: pass, from: from}
}

// Send delivers a single HTML message.  The context is honored up front;
// gomail itself has no cancellation hook, so an already-cancelled request
// is the only early exit.
func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	return d.DialAndSend(m)
}
