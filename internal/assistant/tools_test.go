package assistant

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/menupilot/menupilot/internal/schema"
)

func TestParseAddArgs_NumericShapes(t *testing.T) {
	cases := []struct {
		name  string
		price any
		want  float64
	}{
		{"float", float64(180), 180},
		{"int", 180, 180},
		{"json number", json.Number("180.5"), 180.5},
		{"numeric string", "180", 180},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseAddArgs(map[string]any{
				"name": "Paneer Tikka", "category": "Starters", "price": tc.price,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Price != tc.want {
				t.Errorf("price = %v, want %v", got.Price, tc.want)
			}
		})
	}
}

func TestParseAddArgs_Rejections(t *testing.T) {
	cases := []struct {
		name string
		args map[string]any
	}{
		{"missing name", map[string]any{"category": "Starters", "price": float64(10)}},
		{"empty name", map[string]any{"name": "", "category": "Starters", "price": float64(10)}},
		{"missing price", map[string]any{"name": "Dal", "category": "Mains"}},
		{"negative price", map[string]any{"name": "Dal", "category": "Mains", "price": float64(-5)}},
		{"non-numeric price", map[string]any{"name": "Dal", "category": "Mains", "price": "cheap"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseAddArgs(tc.args)
			var ve *schema.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestParseUpdateArgs_RequiresAField(t *testing.T) {
	_, err := parseUpdateArgs(map[string]any{"name": "Dal", "category": "Mains"})
	var ve *schema.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestParseUpdateArgs_PartialFields(t *testing.T) {
	got, err := parseUpdateArgs(map[string]any{
		"name": "Dal", "category": "Mains", "availability": false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Price != nil {
		t.Error("price should stay nil when not supplied")
	}
	if got.Availability == nil || *got.Availability {
		t.Error("availability should be set to false")
	}
}

func TestRegistry_Definitions(t *testing.T) {
	r := NewRegistry(nil)
	defs := r.Definitions()
	if len(defs) != 3 {
		t.Fatalf("expected 3 tool declarations, got %d", len(defs))
	}
	seen := map[string]bool{}
	for _, d := range defs {
		name, _ := d["name"].(string)
		seen[name] = true
		if d["description"] == "" {
			t.Errorf("tool %s has no description", name)
		}
		if _, ok := d["parameters"].(map[string]any); !ok {
			t.Errorf("tool %s parameters did not decode to an object", name)
		}
	}
	for _, name := range []string{toolAddMenuItem, toolUpdateMenuItem, toolDeleteMenuItem} {
		if !seen[name] {
			t.Errorf("missing declaration for %s", name)
		}
	}
}
