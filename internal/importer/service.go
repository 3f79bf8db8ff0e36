// Package importer turns parsed menus into store mutations. It is the shared
// back end of the import CLI command and the photo handler in chat channels.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/menupilot/menupilot/internal/schema"
	"github.com/menupilot/menupilot/internal/store"
	"github.com/menupilot/menupilot/internal/vision"
)

// Report summarises one import run.
type Report struct {
	Added   int
	Skipped int // already on the menu
	Failed  int
}

func (r Report) String() string {
	return fmt.Sprintf("%d added, %d already present, %d failed", r.Added, r.Skipped, r.Failed)
}

// Service parses menu sources and writes the result through the store.
type Service struct {
	parser *vision.Parser
	store  *store.MenuStore
}

// New creates an import Service.
func New(parser *vision.Parser, menuStore *store.MenuStore) *Service {
	return &Service{parser: parser, store: menuStore}
}

// ImportImage extracts a menu from an image and merges it into the stored
// menu. Existing dishes are never overwritten.
func (s *Service) ImportImage(ctx context.Context, image []byte, mimeType string) (Report, error) {
	menu, err := s.parser.ParseImage(ctx, image, mimeType)
	if err != nil {
		return Report{}, err
	}
	return s.apply(ctx, menu), nil
}

// ImportURL extracts a menu from a web page and merges it into the stored
// menu.
func (s *Service) ImportURL(ctx context.Context, pageURL string) (Report, error) {
	menu, err := s.parser.ParseURL(ctx, pageURL)
	if err != nil {
		return Report{}, err
	}
	return s.apply(ctx, menu), nil
}

// apply adds every parsed dish through the store so the usual validation,
// idempotency, and remote-first ordering hold for imports too.
func (s *Service) apply(ctx context.Context, menu schema.Menu) Report {
	var report Report
	for _, category := range menu.Categories() {
		for _, name := range menu[category].Dishes() {
			dish := menu[category][name]
			switch s.store.AddDish(ctx, category, name, dish.Price) {
			case store.OutcomeOK:
				report.Added++
			case store.OutcomeExists:
				report.Skipped++
			default:
				slog.Warn("import: dish not written", "category", category, "name", name)
				report.Failed++
			}
		}
	}
	return report
}
