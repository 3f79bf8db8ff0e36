package schema

// Messages is the ordered list of messages sent to the LLM for one turn.
// It owns typed append methods so callers never construct raw entries.
type Messages struct {
	Messages []ConversationMessage
}

// NewMessages returns an empty Messages ready for use.
func NewMessages() Messages {
	return Messages{Messages: make([]ConversationMessage, 0)}
}

// AddSystem appends the system prompt as the leading turn.
func (mh *Messages) AddSystem(content string) {
	mh.Messages = append(mh.Messages, NewSystemMessage(content))
}

// AddUser appends a user message.
func (mh *Messages) AddUser(content string) {
	mh.Messages = append(mh.Messages, NewUserMessage(content))
}

// AddModel appends a model (assistant) message.
func (mh *Messages) AddModel(content string) {
	mh.Messages = append(mh.Messages, NewModelMessage(content))
}

// Append copies all history messages into mh, preserving roles and order.
func (mh *Messages) Append(history []ConversationMessage) {
	mh.Messages = append(mh.Messages, history...)
}

// Clone returns a copy of mh with an independent backing slice.
func (mh *Messages) Clone() Messages {
	cloned := make([]ConversationMessage, len(mh.Messages))
	copy(cloned, mh.Messages)
	return Messages{Messages: cloned}
}
