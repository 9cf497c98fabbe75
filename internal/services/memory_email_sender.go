package services

import (
	"context"
	"fmt"
	"sync"
)

// MemorySender records messages in memory. Err, when set, is returned from
// every Send and nothing is recorded.
type MemorySender struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (s *MemorySender) Send(ctx context.Context, msg Message) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return Receipt{}, s.Err
	}
	s.sent = append(s.sent, msg)
	return Receipt{MessageID: fmt.Sprintf("memory-%d", len(s.sent)), Accepted: []string{msg.To}}, nil
}

// Sent returns a copy of every recorded message.
func (s *MemorySender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}

// Last returns the most recent message, if any.
func (s *MemorySender) Last() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sent) == 0 {
		return Message{}, false
	}
	return s.sent[len(s.sent)-1], true
}
