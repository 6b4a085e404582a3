// Package mailer dispatches requester notifications over SMTP. It is the
// production implementation of the docflow Sender interface; tests swap in
// an in-memory fake.
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	gerrors "github.com/go-faster/errors"

	"github.com/adi-digital/docscriptum/pkg/configuration"
)

type SMTPSender struct {
	addr     string
	host     string
	from     string
	user     string
	password string
}

func NewSMTPSender(conf configuration.MailOptions) *SMTPSender {
	return &SMTPSender{
		addr:     conf.Addr(),
		host:     conf.Host,
		from:     conf.From,
		user:     conf.User,
		password: conf.Password,
	}
}

// Send delivers one plain-text message. The deadline comes from ctx; the
// caller bounds it, so a hung SMTP server cannot park the request forever.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return gerrors.Wrap(err, "dial smtp")
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return gerrors.Wrap(err, "set smtp deadline")
		}
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return gerrors.Wrap(err, "smtp handshake")
	}
	defer func() { _ = client.Close() }()

	if s.user != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", s.user, s.password, s.host)
			if err := client.Auth(auth); err != nil {
				return gerrors.Wrap(err, "smtp auth")
			}
		}
	}

	if err := client.Mail(s.from); err != nil {
		return gerrors.Wrap(err, "smtp mail from")
	}
	if err := client.Rcpt(to); err != nil {
		return gerrors.Wrap(err, "smtp rcpt to")
	}

	w, err := client.Data()
	if err != nil {
		return gerrors.Wrap(err, "smtp data")
	}
	if _, err := fmt.Fprint(w, formatMessage(s.from, to, subject, body)); err != nil {
		_ = w.Close()
		return gerrors.Wrap(err, "smtp write body")
	}
	if err := w.Close(); err != nil {
		return gerrors.Wrap(err, "smtp finish body")
	}
	return client.Quit()
}

func formatMessage(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.String()
}
