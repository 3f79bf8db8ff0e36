package session

import (
	"sync"
	"time"

	"github.com/menupilot/menupilot/internal/schema"
)

// Session holds one conversation's messages and metadata. Messages are
// append-only; the UI never mutates an entry after creation.
type Session struct {
	Key       string
	Messages  []schema.ConversationMessage
	CreatedAt time.Time
	UpdatedAt time.Time

	mu sync.Mutex
}

// AddUser appends a user message to the session.
func (s *Session) AddUser(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, schema.NewUserMessage(content))
	s.UpdatedAt = time.Now()
}

// AddModel appends a model message to the session.
func (s *Session) AddModel(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, schema.NewModelMessage(content))
	s.UpdatedAt = time.Now()
}

// History returns the last maxMessages messages for the next turn.
// maxMessages <= 0 returns everything.
func (s *Session) History(maxMessages int) []schema.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.Messages
	if maxMessages > 0 && len(msgs) > maxMessages {
		msgs = msgs[len(msgs)-maxMessages:]
	}
	out := make([]schema.ConversationMessage, len(msgs))
	copy(out, msgs)
	return out
}

// Len returns the number of messages in the session.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Messages)
}

// Clear resets the message list.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = nil
	s.UpdatedAt = time.Now()
}

// copyMessages returns a snapshot of the current message list.
func (s *Session) copyMessages() []schema.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]schema.ConversationMessage, len(s.Messages))
	copy(out, s.Messages)
	return out
}
