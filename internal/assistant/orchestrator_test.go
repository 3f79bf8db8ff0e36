package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/menupilot/menupilot/internal/schema"
	"github.com/menupilot/menupilot/internal/store"
)

// fakeDocStore is an in-memory DocumentStore keyed by dotted menu paths.
type fakeDocStore struct {
	mu    sync.Mutex
	menus map[string]schema.Menu
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{menus: map[string]schema.Menu{}}
}

func (f *fakeDocStore) GetMenu(ctx context.Context, url string) (schema.Menu, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	menu, ok := f.menus[url]
	if !ok {
		return nil, &schema.NotFoundError{What: "restaurant " + url}
	}
	return menu.Clone(), nil
}

func (f *fakeDocStore) GetProfile(ctx context.Context, url string) (schema.RestaurantProfile, error) {
	return schema.RestaurantProfile{Name: "Spice House"}, nil
}

func (f *fakeDocStore) GetLinkedUsers(ctx context.Context, url string) (map[string]schema.LinkedUser, error) {
	return nil, nil
}

func (f *fakeDocStore) ApplyMenuPatch(ctx context.Context, url, path string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	category, name, ok := splitDishPath(path)
	if !ok {
		return errors.New("bad path " + path)
	}
	menu := f.menus[url]
	if menu == nil {
		menu = schema.Menu{}
		f.menus[url] = menu
	}
	if menu[category] == nil {
		menu[category] = schema.Category{}
	}
	dish := menu[category][name]
	if v, ok := fields["name"].(string); ok {
		dish.Name = v
	}
	if v, ok := fields["price"].(float64); ok {
		dish.Price = v
	}
	if v, ok := fields["status"].(bool); ok {
		dish.Status = v
	}
	menu[category][name] = dish
	return nil
}

func (f *fakeDocStore) DeleteMenuField(ctx context.Context, url, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	menu := f.menus[url]
	if menu == nil {
		return nil
	}
	if category, name, ok := splitDishPath(path); ok {
		delete(menu[category], name)
		return nil
	}
	delete(menu, strings.TrimPrefix(path, "menu."))
	return nil
}

func splitDishPath(path string) (category, name string, ok bool) {
	rest, found := strings.CutPrefix(path, "menu.")
	if !found {
		return "", "", false
	}
	parts := strings.SplitN(rest, ".", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]string{}} }

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = map[string]string{}
	return nil
}

// fakeProvider returns a canned response and records what it was asked.
type fakeProvider struct {
	resp     schema.LLMResponse
	err      error
	lastMsgs schema.Messages
}

func (p *fakeProvider) Chat(ctx context.Context, msgs schema.Messages, tools []map[string]any, opts schema.ChatOptions) (schema.LLMResponse, error) {
	p.lastMsgs = msgs
	if p.err != nil {
		return schema.LLMResponse{}, p.err
	}
	return p.resp, nil
}

func (p *fakeProvider) GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	return "", errors.New("not implemented")
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("not implemented")
}

func newTestOrchestrator(t *testing.T, provider schema.LLMProvider) (*Orchestrator, *fakeDocStore) {
	t.Helper()
	docs := newFakeDocStore()
	menuStore, err := store.New(docs, newFakeCache(), "spicehouse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	orch := New(provider, menuStore, NewRegistry(menuStore), schema.ChatOptions{Model: "gemini-2.0-flash"})
	return orch, docs
}

func TestChat_AddDishComposesReply(t *testing.T) {
	provider := &fakeProvider{resp: schema.LLMResponse{
		Text: "Sure, adding now...",
		ToolCalls: []schema.ToolCallRequest{{
			Name: "addMenuItem",
			Args: map[string]any{"name": "Paneer Tikka", "category": "Starters", "price": float64(180)},
		}},
	}}
	orch, docs := newTestOrchestrator(t, provider)

	reply, err := orch.Chat(context.Background(), "Add Paneer Tikka in Starters for 180", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Sure, adding now...Added Paneer Tikka to Starters."
	if reply != want {
		t.Errorf("reply = %q, want %q", reply, want)
	}

	dish := docs.menus["spicehouse"]["Starters"]["Paneer Tikka"]
	if dish.Price != 180 || !dish.Status {
		t.Errorf("stored dish = %+v, want price 180 and available", dish)
	}
}

func TestChat_TextOnlyPassthrough(t *testing.T) {
	provider := &fakeProvider{resp: schema.LLMResponse{Text: "We open at noon."}}
	orch, _ := newTestOrchestrator(t, provider)

	reply, err := orch.Chat(context.Background(), "When do you open?", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "We open at noon." {
		t.Errorf("reply = %q", reply)
	}
}

func TestChat_AllToolCallsExecuteInOrder(t *testing.T) {
	provider := &fakeProvider{resp: schema.LLMResponse{
		Text: "On it. ",
		ToolCalls: []schema.ToolCallRequest{
			{Name: "addMenuItem", Args: map[string]any{"name": "Samosa", "category": "Starters", "price": float64(40)}},
			{Name: "addMenuItem", Args: map[string]any{"name": "Lassi", "category": "Beverages", "price": float64(60)}},
		},
	}}
	orch, docs := newTestOrchestrator(t, provider)

	reply, err := orch.Chat(context.Background(), "Add samosa for 40 and lassi for 60", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "On it. Added Samosa to Starters.Added Lassi to Beverages."
	if reply != want {
		t.Errorf("reply = %q, want %q", reply, want)
	}
	if len(docs.menus["spicehouse"]) != 2 {
		t.Errorf("expected both categories written, got %v", docs.menus["spicehouse"])
	}
}

func TestChat_DeleteAbsentDishReportsSuccess(t *testing.T) {
	provider := &fakeProvider{resp: schema.LLMResponse{
		ToolCalls: []schema.ToolCallRequest{{
			Name: "deleteMenuItem",
			Args: map[string]any{"name": "Ghost Curry", "category": "Mains"},
		}},
	}}
	orch, _ := newTestOrchestrator(t, provider)

	reply, err := orch.Chat(context.Background(), "Remove ghost curry", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Deleted Ghost Curry from Mains." {
		t.Errorf("reply = %q", reply)
	}
}

func TestChat_BackendErrorPropagates(t *testing.T) {
	provider := &fakeProvider{err: &schema.BackendError{Status: 429, Message: "quota"}}
	orch, _ := newTestOrchestrator(t, provider)

	_, err := orch.Chat(context.Background(), "hello", nil)
	var be *schema.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
}

func TestChat_UnknownToolSkippedWithNotice(t *testing.T) {
	provider := &fakeProvider{resp: schema.LLMResponse{
		Text:      "Doing that. ",
		ToolCalls: []schema.ToolCallRequest{{Name: "renameRestaurant", Args: map[string]any{}}},
	}}
	orch, _ := newTestOrchestrator(t, provider)

	reply, err := orch.Chat(context.Background(), "rename us", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, `unknown action "renameRestaurant"`) {
		t.Errorf("reply = %q, want unknown-action notice", reply)
	}
}

func TestChat_ValidationFailureBecomesFragment(t *testing.T) {
	provider := &fakeProvider{resp: schema.LLMResponse{
		ToolCalls: []schema.ToolCallRequest{{
			Name: "addMenuItem",
			Args: map[string]any{"category": "Starters", "price": float64(50)},
		}},
	}}
	orch, _ := newTestOrchestrator(t, provider)

	reply, err := orch.Chat(context.Background(), "add something", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(reply, "I couldn't do that") {
		t.Errorf("reply = %q, want validation notice", reply)
	}
}

func TestChat_EmptyReplyGetsFallback(t *testing.T) {
	provider := &fakeProvider{resp: schema.LLMResponse{}}
	orch, _ := newTestOrchestrator(t, provider)

	reply, err := orch.Chat(context.Background(), "…", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply == "" {
		t.Error("expected fallback reply, got empty string")
	}
}

func TestChat_HistoryAndSystemPromptSent(t *testing.T) {
	provider := &fakeProvider{resp: schema.LLMResponse{Text: "ok"}}
	orch, _ := newTestOrchestrator(t, provider)

	history := []schema.ConversationMessage{
		schema.NewUserMessage("hi"),
		schema.NewModelMessage("hello"),
	}
	if _, err := orch.Chat(context.Background(), "what's on the menu?", history); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := provider.lastMsgs.Messages
	if len(msgs) != 4 {
		t.Fatalf("expected system + 2 history + user, got %d messages", len(msgs))
	}
	if msgs[0].Role != schema.RoleSystem {
		t.Errorf("first message role = %q, want system", msgs[0].Role)
	}
	if msgs[3].Content != "what's on the menu?" {
		t.Errorf("last message = %q", msgs[3].Content)
	}
}
