package assistant

import (
	"encoding/json"

	"github.com/menupilot/menupilot/internal/schema"
	"github.com/menupilot/menupilot/internal/store"
)

// Registry holds the menu mutation tools and exposes their declarations to
// the backend. It performs no execution itself; dispatch belongs to the
// Orchestrator.
type Registry struct {
	tools map[string]schema.Tool
	order []string // declaration order for stable tool listings
}

// NewRegistry registers the three mutation tools over the given store.
func NewRegistry(menuStore *store.MenuStore) *Registry {
	r := &Registry{tools: make(map[string]schema.Tool)}
	r.add(&AddMenuItemTool{store: menuStore})
	r.add(&UpdateMenuItemTool{store: menuStore})
	r.add(&DeleteMenuItemTool{store: menuStore})
	return r
}

func (r *Registry) add(t schema.Tool) {
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
}

// Get returns the tool with the given name, or nil.
func (r *Registry) Get(name string) schema.Tool {
	return r.tools[name]
}

// Definitions returns all tool declarations in the backend's function
// declaration format.
func (r *Registry) Definitions() []map[string]any {
	list := make([]map[string]any, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		var params any
		if err := json.Unmarshal(t.Parameters(), &params); err != nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		list = append(list, map[string]any{
			"name":        t.Name(),
			"description": t.Description(),
			"parameters":  params,
		})
	}
	return list
}
