package services

import (
	"context"
	"errors"
)

var ErrNoRecipient = errors.New("email: recipient is required")

// Message is one outbound plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Receipt describes an accepted message.
type Receipt struct {
	MessageID string
	Accepted  []string
}

// EmailSender delivers a message. Implementations must honour ctx
// cancellation so callers can bound delivery time.
type EmailSender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}
