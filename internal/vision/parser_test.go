package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/menupilot/menupilot/internal/schema"
)

// fakeProvider returns a canned vision reply.
type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Chat(_ context.Context, _ schema.Messages, _ []map[string]any, _ schema.ChatOptions) (schema.LLMResponse, error) {
	return schema.LLMResponse{}, errors.New("not used")
}

func (f *fakeProvider) GenerateVision(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	return f.reply, f.err
}

func (f *fakeProvider) Generate(_ context.Context, _ string) (string, error) {
	return f.reply, f.err
}

var sampleImage = []byte{0xff, 0xd8, 0xff}

func TestParseImage_FencedJSON(t *testing.T) {
	p := New(&fakeProvider{reply: "Here is the menu:\n```json\n" +
		`{"menu":{"Starters":{"Paneer Tikka":{"name":"Paneer Tikka","price":180,"status":true}}}}` +
		"\n```\nDone."})

	menu, err := p.ParseImage(context.Background(), sampleImage, "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := menu["Starters"]["Paneer Tikka"]
	if !ok {
		t.Fatal("expected Paneer Tikka under Starters")
	}
	if d.Price != 180 || !d.Status {
		t.Errorf("unexpected dish: %+v", d)
	}
}

func TestParseImage_UntaggedFence(t *testing.T) {
	p := New(&fakeProvider{reply: "```\n" +
		`{"menu":{"Soups":{"Tomato Soup":{"name":"Tomato Soup","price":90,"status":true}}}}` +
		"\n```"})

	menu, err := p.ParseImage(context.Background(), sampleImage, "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if menu.Count() != 1 {
		t.Errorf("expected 1 dish, got %d", menu.Count())
	}
}

func TestParseImage_EmptySentinel(t *testing.T) {
	for _, reply := range []string{"{}", "  {}\n", "```json\n{}\n```"} {
		p := New(&fakeProvider{reply: reply})
		menu, err := p.ParseImage(context.Background(), sampleImage, "image/jpeg")
		if err != nil {
			t.Errorf("reply %q: expected empty result, got error: %v", reply, err)
			continue
		}
		if len(menu) != 0 {
			t.Errorf("reply %q: expected empty menu, got %v", reply, menu)
		}
	}
}

func TestParseImage_NoFencedBlock(t *testing.T) {
	p := New(&fakeProvider{reply: "This photo does not look like a menu."})

	_, err := p.ParseImage(context.Background(), sampleImage, "image/jpeg")
	var pe *schema.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseImage_InvalidJSON(t *testing.T) {
	p := New(&fakeProvider{reply: "```json\n{not json}\n```"})

	_, err := p.ParseImage(context.Background(), sampleImage, "image/jpeg")
	var pe *schema.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseImage_BackendErrorPropagates(t *testing.T) {
	backendErr := &schema.BackendError{Status: 429, Message: "rate limit or quota exceeded"}
	p := New(&fakeProvider{err: backendErr})

	_, err := p.ParseImage(context.Background(), sampleImage, "image/jpeg")
	var be *schema.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError to propagate, got %v", err)
	}
}

func TestParseImage_NormalizesKeys(t *testing.T) {
	// Dish key wins over a mismatched inner name, invalid dishes are dropped.
	p := New(&fakeProvider{reply: "```json\n" +
		`{"menu":{"Mains":{"Dal Makhani":{"name":"dal","price":220,"status":true},` +
		`"Bad":{"name":"Bad","price":-1,"status":true}}}}` + "\n```"})

	menu, err := p.ParseImage(context.Background(), sampleImage, "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := menu["Mains"]["Dal Makhani"]
	if !ok {
		t.Fatal("expected Dal Makhani key to survive normalization")
	}
	if d.Name != "Dal Makhani" {
		t.Errorf("expected key==name invariant, got name %q", d.Name)
	}
	if _, ok := menu["Mains"]["Bad"]; ok {
		t.Error("negative-price dish survived normalization")
	}
}

func TestParseURL_RejectsBadScheme(t *testing.T) {
	p := New(&fakeProvider{})

	_, err := p.ParseURL(context.Background(), "ftp://menus.example.com")
	var ve *schema.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
