package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/menupilot/menupilot/internal/schema"
	"github.com/menupilot/menupilot/internal/store"
	"github.com/menupilot/menupilot/internal/vision"
)

type fakeProvider struct{ reply string }

func (p *fakeProvider) Chat(ctx context.Context, msgs schema.Messages, tools []map[string]any, opts schema.ChatOptions) (schema.LLMResponse, error) {
	return schema.LLMResponse{}, errors.New("not implemented")
}

func (p *fakeProvider) GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	return p.reply, nil
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return p.reply, nil
}

type memDocStore struct {
	menus map[string]schema.Menu
}

func (f *memDocStore) GetMenu(ctx context.Context, url string) (schema.Menu, error) {
	menu, ok := f.menus[url]
	if !ok {
		return nil, &schema.NotFoundError{What: "restaurant " + url}
	}
	return menu.Clone(), nil
}

func (f *memDocStore) GetProfile(ctx context.Context, url string) (schema.RestaurantProfile, error) {
	return schema.RestaurantProfile{}, nil
}

func (f *memDocStore) GetLinkedUsers(ctx context.Context, url string) (map[string]schema.LinkedUser, error) {
	return nil, nil
}

func (f *memDocStore) ApplyMenuPatch(ctx context.Context, url, path string, fields map[string]any) error {
	rest, _ := strings.CutPrefix(path, "menu.")
	parts := strings.SplitN(rest, ".", 2)
	if len(parts) != 2 {
		return errors.New("bad path " + path)
	}
	category, name := parts[0], parts[1]
	if f.menus[url] == nil {
		f.menus[url] = schema.Menu{}
	}
	if f.menus[url][category] == nil {
		f.menus[url][category] = schema.Category{}
	}
	dish := f.menus[url][category][name]
	if v, ok := fields["name"].(string); ok {
		dish.Name = v
	}
	if v, ok := fields["price"].(float64); ok {
		dish.Price = v
	}
	if v, ok := fields["status"].(bool); ok {
		dish.Status = v
	}
	f.menus[url][category][name] = dish
	return nil
}

func (f *memDocStore) DeleteMenuField(ctx context.Context, url, path string) error {
	return nil
}

type memCache struct{ data map[string]string }

func (c *memCache) Get(ctx context.Context, key string) (string, error) { return c.data[key], nil }
func (c *memCache) Set(ctx context.Context, key, value string) error {
	c.data[key] = value
	return nil
}
func (c *memCache) Clear(ctx context.Context) error {
	c.data = map[string]string{}
	return nil
}

func newService(t *testing.T, reply string, existing schema.Menu) (*Service, *memDocStore) {
	t.Helper()
	docs := &memDocStore{menus: map[string]schema.Menu{}}
	if existing != nil {
		docs.menus["spicehouse"] = existing
	}
	menuStore, err := store.New(docs, &memCache{data: map[string]string{}}, "spicehouse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parser := vision.New(&fakeProvider{reply: reply})
	return New(parser, menuStore), docs
}

const extractedMenu = "```json\n" + `{
  "menu": {
    "Starters": {
      "Samosa": {"name": "Samosa", "price": 40, "status": true},
      "Paneer Tikka": {"name": "Paneer Tikka", "price": 180, "status": true}
    }
  }
}` + "\n```"

func TestImportImage_AddsParsedDishes(t *testing.T) {
	svc, docs := newService(t, extractedMenu, nil)

	report, err := svc.ImportImage(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Added != 2 || report.Skipped != 0 || report.Failed != 0 {
		t.Errorf("report = %+v", report)
	}
	if _, ok := docs.menus["spicehouse"]["Starters"]["Samosa"]; !ok {
		t.Error("Samosa missing from stored menu")
	}
}

func TestImportImage_ExistingDishesSkipped(t *testing.T) {
	existing := schema.Menu{
		"Starters": {"Samosa": {Name: "Samosa", Price: 35, Status: true}},
	}
	svc, docs := newService(t, extractedMenu, existing)

	report, err := svc.ImportImage(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Added != 1 || report.Skipped != 1 {
		t.Errorf("report = %+v", report)
	}
	if got := docs.menus["spicehouse"]["Starters"]["Samosa"].Price; got != 35 {
		t.Errorf("existing Samosa price overwritten to %v", got)
	}
}

func TestImportImage_NotAMenu(t *testing.T) {
	svc, _ := newService(t, "{}", nil)

	report, err := svc.ImportImage(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Added != 0 {
		t.Errorf("report = %+v, want nothing added", report)
	}
}

func TestImportImage_ParseErrorPropagates(t *testing.T) {
	svc, _ := newService(t, "sorry, that's a cat photo", nil)

	_, err := svc.ImportImage(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
	var pe *schema.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}
