// Package channels connects chat platforms to the assistant. Each channel
// listens for owner messages, runs one assistant turn per message, and sends
// the reply back on the same platform.
package channels

import (
	"context"
	"strings"
)

// Responder runs one assistant turn for a conversation. Session keys are
// "<channel>:<chat id>" so histories never cross platforms.
type Responder interface {
	Respond(ctx context.Context, sessionKey, content string) (string, error)
	Reset(sessionKey string)
}

// Channel is a chat platform connection. Start blocks until ctx is cancelled.
type Channel interface {
	Name() string
	Start(ctx context.Context) error
}

// Base holds the state shared by all channels.
type Base struct {
	channelName string
	responder   Responder
	allowFrom   []string // empty = allow all
}

// NewBase creates a Base with the given channel name, responder, and
// allowlist.
func NewBase(name string, responder Responder, allowFrom []string) Base {
	return Base{channelName: name, responder: responder, allowFrom: allowFrom}
}

// IsAllowed checks whether senderID is on the allowlist.
// senderID may be "id|username" (Telegram) or a plain string.
func (b *Base) IsAllowed(senderID string) bool {
	if len(b.allowFrom) == 0 {
		return true
	}
	for _, allowed := range b.allowFrom {
		if allowed == senderID {
			return true
		}
	}
	if strings.Contains(senderID, "|") {
		for _, part := range strings.Split(senderID, "|") {
			if part == "" {
				continue
			}
			for _, allowed := range b.allowFrom {
				if allowed == part {
					return true
				}
			}
		}
	}
	return false
}

// SessionKey builds the per-conversation session key for a chat ID.
func (b *Base) SessionKey(chatID string) string {
	return b.channelName + ":" + chatID
}

// splitMessage splits content into chunks that fit within maxLen,
// preferring newline breaks, then space breaks, then hard cut.
func splitMessage(content string, maxLen int) []string {
	if len(content) <= maxLen {
		return []string{content}
	}
	var chunks []string
	for len(content) > 0 {
		if len(content) <= maxLen {
			chunks = append(chunks, content)
			break
		}
		cut := content[:maxLen]
		pos := strings.LastIndex(cut, "\n")
		if pos <= 0 {
			pos = strings.LastIndex(cut, " ")
		}
		if pos <= 0 {
			pos = maxLen
		}
		chunks = append(chunks, content[:pos])
		content = strings.TrimLeft(content[pos:], " \t")
	}
	return chunks
}
