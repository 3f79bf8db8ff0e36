package assistant

import (
	"context"
	"log/slog"

	"github.com/menupilot/menupilot/internal/session"
)

// Responder wraps the Orchestrator with per-conversation history so callers
// that own a session key (CLI, channels, gateway) get stateful chats. The
// failed turn's messages are still appended on tool-level failures — the
// reply says so — but nothing is recorded when the backend call itself
// errors.
type Responder struct {
	sessions *session.Manager
	orch     *Orchestrator
	window   int // max history messages sent per turn; <=0 means all
}

// NewResponder creates a Responder over the session manager.
func NewResponder(sessions *session.Manager, orch *Orchestrator, window int) *Responder {
	return &Responder{sessions: sessions, orch: orch, window: window}
}

// Respond runs one turn for the conversation identified by sessionKey.
func (r *Responder) Respond(ctx context.Context, sessionKey, content string) (string, error) {
	sess := r.sessions.GetOrCreate(sessionKey)

	reply, err := r.orch.Chat(ctx, content, sess.History(r.window))
	if err != nil {
		return "", err
	}

	sess.AddUser(content)
	sess.AddModel(reply)
	if err := r.sessions.Save(sess); err != nil {
		slog.Warn("failed to persist session", "key", sessionKey, "err", err)
	}
	return reply, nil
}

// Reset clears the conversation identified by sessionKey.
func (r *Responder) Reset(sessionKey string) {
	sess := r.sessions.GetOrCreate(sessionKey)
	sess.Clear()
	if err := r.sessions.Save(sess); err != nil {
		slog.Warn("failed to persist cleared session", "key", sessionKey, "err", err)
	}
}
