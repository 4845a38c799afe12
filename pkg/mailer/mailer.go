// Package mailer sends plain-text notification mail over SMTP.
package mailer

import (
	"fmt"

	mail "github.com/go-mail/mail"
)

// Sender delivers a plain-text message to a single recipient
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender implements Sender over an authenticated SMTP connection
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

var _ Sender = &SMTPSender{}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers one message. The dialer negotiates STARTTLS when the
// server offers it.
func (s *SMTPSender) Send(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
