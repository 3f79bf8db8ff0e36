// Package dependency wires core menupilot services using go.uber.org/dig.
package dependency

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/dig"

	"github.com/menupilot/menupilot/internal/assistant"
	"github.com/menupilot/menupilot/internal/cache"
	"github.com/menupilot/menupilot/internal/config"
	"github.com/menupilot/menupilot/internal/importer"
	"github.com/menupilot/menupilot/internal/mongo"
	"github.com/menupilot/menupilot/internal/providers"
	"github.com/menupilot/menupilot/internal/schema"
	"github.com/menupilot/menupilot/internal/session"
	"github.com/menupilot/menupilot/internal/store"
	"github.com/menupilot/menupilot/internal/vision"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	cfg       *config.Config
	provider  schema.LLMProvider
	docStore  *mongo.DocumentStore
	menuStore *store.MenuStore
	responder *assistant.Responder
	imports   *importer.Service
}

func (c *Container) Config() *config.Config          { return c.cfg }
func (c *Container) Provider() schema.LLMProvider    { return c.provider }
func (c *Container) MenuStore() *store.MenuStore     { return c.menuStore }
func (c *Container) Responder() *assistant.Responder { return c.responder }
func (c *Container) Importer() *importer.Service     { return c.imports }

// Close releases the remote store connection.
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.docStore.Close(ctx)
}

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(newProvider); err != nil {
		return nil, err
	}
	if err := d.Provide(newDocumentStore); err != nil {
		return nil, err
	}
	if err := d.Provide(newCache); err != nil {
		return nil, err
	}
	if err := d.Provide(newMenuStore); err != nil {
		return nil, err
	}
	if err := d.Provide(newSessionManager); err != nil {
		return nil, err
	}
	if err := d.Provide(newRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newOrchestrator); err != nil {
		return nil, err
	}
	if err := d.Provide(newResponder); err != nil {
		return nil, err
	}
	if err := d.Provide(newParser); err != nil {
		return nil, err
	}
	if err := d.Provide(newImporter); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		provider schema.LLMProvider,
		docStore *mongo.DocumentStore,
		menuStore *store.MenuStore,
		responder *assistant.Responder,
		imports *importer.Service,
	) {
		result = &Container{
			cfg:       cfg,
			provider:  provider,
			docStore:  docStore,
			menuStore: menuStore,
			responder: responder,
			imports:   imports,
		}
	})
	return result, err
}

func newProvider(cfg *config.Config) (schema.LLMProvider, error) {
	if cfg.Provider.APIKey == "" {
		return nil, fmt.Errorf("no Gemini API key configured, set GEMINI_API_KEY or edit %s", config.ConfigPath())
	}
	return providers.NewGeminiProvider(
		cfg.Provider.APIKey,
		cfg.Provider.APIBase,
		cfg.Provider.Model,
		cfg.Provider.VisionModel,
	), nil
}

func newDocumentStore(cfg *config.Config) (*mongo.DocumentStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return mongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
}

func newCache(cfg *config.Config) (store.Cache, error) {
	return cache.New(cfg.Cache.Dir)
}

func newMenuStore(cfg *config.Config, docStore *mongo.DocumentStore, localCache store.Cache) (*store.MenuStore, error) {
	menuStore, err := store.New(docStore, localCache, cfg.Restaurant.URL)
	if err != nil {
		return nil, err
	}

	// Seed the signed-in identity so the assistant can address the owner.
	if cfg.Restaurant.Owner.Name != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = menuStore.SetIdentity(ctx, schema.UserIdentity{
			Name:  cfg.Restaurant.Owner.Name,
			Email: cfg.Restaurant.Owner.Email,
		})
	}
	return menuStore, nil
}

func newSessionManager() (*session.Manager, error) {
	return session.NewManager(config.DataDir())
}

func newRegistry(menuStore *store.MenuStore) *assistant.Registry {
	return assistant.NewRegistry(menuStore)
}

func newOrchestrator(cfg *config.Config, p schema.LLMProvider, menuStore *store.MenuStore, registry *assistant.Registry) *assistant.Orchestrator {
	opts := schema.ChatOptions{
		Model:       cfg.Provider.Model,
		MaxTokens:   cfg.Chat.MaxTokens,
		Temperature: cfg.Chat.Temperature,
	}
	return assistant.New(p, menuStore, registry, opts)
}

func newResponder(cfg *config.Config, sessions *session.Manager, orch *assistant.Orchestrator) *assistant.Responder {
	return assistant.NewResponder(sessions, orch, cfg.Chat.HistoryWindow)
}

func newParser(p schema.LLMProvider) *vision.Parser {
	return vision.New(p)
}

func newImporter(parser *vision.Parser, menuStore *store.MenuStore) *importer.Service {
	return importer.New(parser, menuStore)
}
