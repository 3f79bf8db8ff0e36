package schema

import "github.com/google/uuid"

// Message roles. The wire protocol knows "user" and "model"; "system" exists
// only transiently as the leading prompt turn and is never persisted.
const (
	RoleUser   = "user"
	RoleModel  = "model"
	RoleSystem = "system"
)

// ConversationMessage is one entry in a conversation history. Messages are
// append-only and never mutated after creation; the ID is opaque and unique.
type ConversationMessage struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Role    string `json:"role"`
}

func NewUserMessage(content string) ConversationMessage {
	return ConversationMessage{ID: uuid.NewString(), Content: content, Role: RoleUser}
}

func NewModelMessage(content string) ConversationMessage {
	return ConversationMessage{ID: uuid.NewString(), Content: content, Role: RoleModel}
}

func NewSystemMessage(content string) ConversationMessage {
	return ConversationMessage{ID: uuid.NewString(), Content: content, Role: RoleSystem}
}
