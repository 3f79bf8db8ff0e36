package session

import (
	"testing"

	"github.com/menupilot/menupilot/internal/schema"
)

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := m.GetOrCreate("telegram:42")
	s.AddUser("Add Paneer Tikka in Starters for 180")
	s.AddModel("Sure, adding now...Added Paneer Tikka to Starters.")
	if err := m.Save(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Drop the cached entry and force a disk reload.
	m.Invalidate("telegram:42")
	reloaded := m.GetOrCreate("telegram:42")

	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 messages after reload, got %d", reloaded.Len())
	}
	history := reloaded.History(0)
	if history[0].Role != schema.RoleUser || history[1].Role != schema.RoleModel {
		t.Errorf("roles lost on reload: %q, %q", history[0].Role, history[1].Role)
	}
	if history[0].ID == "" || history[0].ID == history[1].ID {
		t.Error("message IDs must be unique and survive reload")
	}
}

func TestHistory_Window(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := m.GetOrCreate("cli:direct")
	for i := 0; i < 5; i++ {
		s.AddUser("ping")
		s.AddModel("pong")
	}

	got := s.History(4)
	if len(got) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(got))
	}
	if got[len(got)-1].Role != schema.RoleModel {
		t.Errorf("window should keep the newest messages, got tail role %q", got[len(got)-1].Role)
	}
}

func TestGetOrCreate_MissingFile(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := m.GetOrCreate("slack:C123")
	if s.Len() != 0 {
		t.Errorf("expected empty session, got %d messages", s.Len())
	}
}
