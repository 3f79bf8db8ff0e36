// Package assistant implements the conversational loop: it turns free-text
// user messages into validated, tool-mediated menu mutations and composes the
// user-facing reply.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/menupilot/menupilot/internal/schema"
	"github.com/menupilot/menupilot/internal/store"
)

// Orchestrator drives one chat turn: snapshot reads, prompt construction, a
// single backend round-trip, sequential tool dispatch, and reply composition.
// It holds no conversation state; the caller supplies the full history.
type Orchestrator struct {
	provider schema.LLMProvider
	store    *store.MenuStore
	registry *Registry
	opts     schema.ChatOptions
}

// New creates an Orchestrator.
func New(provider schema.LLMProvider, menuStore *store.MenuStore, registry *Registry, opts schema.ChatOptions) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		store:    menuStore,
		registry: registry,
		opts:     opts,
	}
}

// snapshot is the read-only context gathered per turn.
type snapshot struct {
	user    schema.UserIdentity
	profile schema.RestaurantProfile
	menu    schema.Menu
}

// Chat runs one conversational turn and returns the reply text.
//
// The backend is invoked exactly once: when it returns tool calls they are
// all executed sequentially in call order, and their status fragments are
// appended to the same reply; there is no second reasoning pass. Tool-level
// failures are absorbed into the reply; backend errors propagate to the
// caller.
func (o *Orchestrator) Chat(ctx context.Context, message string, history []schema.ConversationMessage) (string, error) {
	snap := o.snapshot(ctx)

	conversation := schema.NewMessages()
	conversation.AddSystem(buildSystemPrompt(snap.user, snap.profile, snap.menu))
	conversation.Append(history)
	conversation.AddUser(message)

	resp, err := o.provider.Chat(ctx, conversation, o.registry.Definitions(), o.opts)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(resp.Text)
	for _, tc := range resp.ToolCalls {
		sb.WriteString(o.dispatch(ctx, tc))
	}

	reply := sb.String()
	if reply == "" {
		reply = "I'm not sure what to do with that, could you rephrase?"
	}
	return reply, nil
}

// snapshot gathers menu, profile, and identity concurrently. All three reads
// are independent and best-effort: a failure degrades to the zero value and
// is never fatal to the turn.
func (o *Orchestrator) snapshot(ctx context.Context) snapshot {
	var snap snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		menu, err := o.store.Menu(gctx)
		if err != nil {
			slog.Debug("chat snapshot: menu read failed", "err", err)
			return nil
		}
		snap.menu = menu
		return nil
	})
	g.Go(func() error {
		profile, err := o.store.Profile(gctx)
		if err != nil {
			slog.Debug("chat snapshot: profile read failed", "err", err)
			return nil
		}
		snap.profile = profile
		return nil
	})
	g.Go(func() error {
		snap.user = o.store.Identity(gctx)
		return nil
	})
	_ = g.Wait()

	return snap
}

// dispatch validates and executes a single tool call, converting every
// failure into a user-visible status fragment. The assistant always answers,
// even on partial failure.
func (o *Orchestrator) dispatch(ctx context.Context, tc schema.ToolCallRequest) string {
	t := o.registry.Get(tc.Name)
	if t == nil {
		slog.Warn("unknown tool requested", "name", tc.Name)
		return fmt.Sprintf("I tried to use an unknown action %q and skipped it.", tc.Name)
	}

	slog.Info("dispatching tool call", "name", tc.Name)

	fragment, err := t.Execute(ctx, tc.Args)
	if err != nil {
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			slog.Warn("tool arguments rejected", "name", tc.Name, "err", err)
			return fmt.Sprintf("I couldn't do that (%v).", err)
		}
		slog.Error("tool dispatch failed", "name", tc.Name, "err", err)
		return "Something went wrong while updating the menu, please try again."
	}
	return fragment
}
