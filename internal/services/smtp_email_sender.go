package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SMTPSender struct {
	Host   string
	Port   string
	User   string
	Pass   string
	From   string
	UseTLS bool
}

// Send delivers msg over SMTP. UseTLS selects implicit TLS; otherwise
// STARTTLS is used whenever the server offers it.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	if strings.TrimSpace(msg.To) == "" {
		return Receipt{}, ErrNoRecipient
	}
	from := msg.From
	if from == "" {
		from = s.From
	}

	addr := net.JoinHostPort(s.Host, s.Port)
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.Host)
	payload := buildMessage(from, msg.To, msg.Subject, msg.Body, messageID)

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return Receipt{}, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// unblock in-flight reads and writes when ctx is cancelled
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if s.UseTLS {
		tlsConn := tls.Client(conn, &tls.Config{ServerName: s.Host})
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return Receipt{}, err
		}
		conn = tlsConn
	}

	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return Receipt{}, err
	}
	defer c.Close()

	if !s.UseTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
				return Receipt{}, err
			}
		}
	}

	if s.User != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", s.User, s.Pass, s.Host)); err != nil {
				return Receipt{}, err
			}
		}
	}

	if err := c.Mail(from); err != nil {
		return Receipt{}, err
	}
	if err := c.Rcpt(msg.To); err != nil {
		return Receipt{}, err
	}
	w, err := c.Data()
	if err != nil {
		return Receipt{}, err
	}
	_, err = w.Write([]byte(payload))
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return Receipt{}, err
	}
	if err := c.Quit(); err != nil {
		return Receipt{}, err
	}

	return Receipt{MessageID: messageID, Accepted: []string{msg.To}}, nil
}

func buildMessage(from, to, subject, body, messageID string) string {
	headers := [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", subject},
		{"Message-ID", messageID},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/plain; charset=\"utf-8\""},
	}

	var msg strings.Builder
	for _, h := range headers {
		msg.WriteString(h[0])
		msg.WriteString(": ")
		msg.WriteString(h[1])
		msg.WriteString("\r\n")
	}
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return msg.String()
}
