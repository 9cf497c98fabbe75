package services

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTP accepts one connection and speaks just enough SMTP to take a message.
func fakeSMTP(t *testing.T) (host, port string, received <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	out := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		r := bufio.NewReader(conn)
		write := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }
		write("220 localhost ESMTP")

		var data strings.Builder
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				write("250 localhost")
			case strings.HasPrefix(cmd, "MAIL FROM"), strings.HasPrefix(cmd, "RCPT TO"):
				write("250 OK")
			case cmd == "DATA":
				write("354 go ahead")
				for {
					l, err := r.ReadString('\n')
					if err != nil {
						return
					}
					if l == ".\r\n" {
						break
					}
					data.WriteString(l)
				}
				write("250 queued")
			case cmd == "QUIT":
				write("221 bye")
				out <- data.String()
				return
			default:
				write("502 unsupported")
			}
		}
	}()

	host, port, err = net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return host, port, out
}

func TestSMTPSenderDeliversMessage(t *testing.T) {
	host, port, received := fakeSMTP(t)
	s := &SMTPSender{Host: host, Port: port, From: "notes-app@gmail.com"}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	receipt, err := s.Send(ctx, Message{To: "a@x.com", Subject: "Link To Reset Password", Body: "line one\nline two"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, receipt.Accepted)
	assert.NotEmpty(t, receipt.MessageID)

	select {
	case data := <-received:
		assert.Contains(t, data, "From: notes-app@gmail.com\r\n")
		assert.Contains(t, data, "To: a@x.com\r\n")
		assert.Contains(t, data, "Subject: Link To Reset Password\r\n")
		assert.Contains(t, data, "line one\r\nline two")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not receive message")
	}
}

func TestSMTPSenderTimesOut(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		// never greet
		time.Sleep(2 * time.Second)
		conn.Close()
	}()

	host, port, _ := net.SplitHostPort(ln.Addr().String())
	s := &SMTPSender{Host: host, Port: port, From: "x@y.z"}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = s.Send(ctx, Message{To: "a@x.com"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSMTPSenderRequiresRecipient(t *testing.T) {
	_, err := (&SMTPSender{}).Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestBuildMessageHeaderOrder(t *testing.T) {
	msg := buildMessage("f@x", "t@x", "S", "B", "<id@x>")
	assert.True(t, strings.HasPrefix(msg, "From: f@x\r\nTo: t@x\r\nSubject: S\r\nMessage-ID: <id@x>\r\n"))
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nB"))
}
