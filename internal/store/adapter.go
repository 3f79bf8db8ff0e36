package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/menupilot/menupilot/internal/schema"
)

// Outcome is the three-valued result of a mutation.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeExists
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeExists:
		return "exists"
	default:
		return "failed"
	}
}

// DishUpdate carries the optional fields of an update. A nil field is left
// untouched on both backends.
type DishUpdate struct {
	Price        *float64
	Availability *bool
}

// MenuStore is the adapter between the menu model, the remote document store,
// and the local cache. The restaurant context (URL) is fixed at construction;
// there is no ambient current-restaurant state.
//
// Ordering rule: the remote mutation is attempted before the local mirror, so
// on remote failure the cache is never ahead of the durable store. On failure
// the cache keeps its prior value and the caller sees OutcomeFailed.
//
// No locking: two concurrent mutations of the same key are a last-write-wins
// race at the remote layer. The assistant dispatches tool calls sequentially
// within one turn, which is the primary caller.
type MenuStore struct {
	remote DocumentStore
	cache  Cache
	url    string
}

// New creates a MenuStore bound to the restaurant at url.
// Returns NotFoundError when url is empty.
func New(remote DocumentStore, cache Cache, url string) (*MenuStore, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &schema.NotFoundError{What: "restaurant context"}
	}
	return &MenuStore{remote: remote, cache: cache, url: url}, nil
}

// URL returns the restaurant context this store is bound to.
func (s *MenuStore) URL() string { return s.url }

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// Menu returns the current menu snapshot, preferring the remote store and
// falling back to the local cache when the remote read fails.
func (s *MenuStore) Menu(ctx context.Context) (schema.Menu, error) {
	menu, err := s.remote.GetMenu(ctx, s.url)
	if err != nil {
		slog.Debug("remote menu read failed, falling back to cache", "err", err)
		if cached, ok := s.cachedMenu(ctx); ok {
			return cached, nil
		}
		return nil, &schema.StoreError{Op: "get menu", Err: err}
	}
	s.writeCachedMenu(ctx, menu)
	return menu, nil
}

// Profile returns the restaurant profile, cache-fallback like Menu.
func (s *MenuStore) Profile(ctx context.Context) (schema.RestaurantProfile, error) {
	profile, err := s.remote.GetProfile(ctx, s.url)
	if err != nil {
		slog.Debug("remote profile read failed, falling back to cache", "err", err)
		if raw, cerr := s.cache.Get(ctx, KeyProfile); cerr == nil && raw != "" {
			var cached schema.RestaurantProfile
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
		return schema.RestaurantProfile{}, &schema.StoreError{Op: "get profile", Err: err}
	}
	if data, merr := json.Marshal(profile); merr == nil {
		if cerr := s.cache.Set(ctx, KeyProfile, string(data)); cerr != nil {
			slog.Debug("cache profile write failed", "err", cerr)
		}
	}
	return profile, nil
}

// Identity returns the signed-in user from the local cache. A missing entry
// degrades to the zero value; it is never fatal.
func (s *MenuStore) Identity(ctx context.Context) schema.UserIdentity {
	raw, err := s.cache.Get(ctx, KeyUser)
	if err != nil || raw == "" {
		return schema.UserIdentity{}
	}
	var user schema.UserIdentity
	if json.Unmarshal([]byte(raw), &user) != nil {
		return schema.UserIdentity{}
	}
	return user
}

// SetIdentity records the signed-in user in the local cache.
func (s *MenuStore) SetIdentity(ctx context.Context, user schema.UserIdentity) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, KeyUser, string(data))
}

// DishExists reports whether menu[category][name] is defined in the remote
// snapshot.
func (s *MenuStore) DishExists(ctx context.Context, category, name string) (bool, error) {
	menu, err := s.remote.GetMenu(ctx, s.url)
	if err != nil {
		var nf *schema.NotFoundError
		if errors.As(err, &nf) {
			// No document for this restaurant yet: the dish cannot exist.
			return false, nil
		}
		return false, &schema.StoreError{Op: "get menu", Err: err}
	}
	_, ok := menu[category][name]
	return ok, nil
}

// Refresh re-reads the remote menu and profile into the local cache so
// offline reads stay fresh. Used by the scheduled cache refresher.
func (s *MenuStore) Refresh(ctx context.Context) error {
	if _, err := s.Menu(ctx); err != nil {
		return err
	}
	if _, err := s.Profile(ctx); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// AddDish inserts a new available dish. Returns OutcomeExists without
// mutating anything when the dish is already present.
func (s *MenuStore) AddDish(ctx context.Context, category, name string, price float64) Outcome {
	dish := schema.Dish{Name: name, Price: price, Status: true}
	if err := schema.ValidateDish(dish); err != nil {
		slog.Warn("add dish rejected", "category", category, "name", name, "err", err)
		return OutcomeFailed
	}

	exists, err := s.DishExists(ctx, category, name)
	if err != nil {
		slog.Error("add dish: existence check failed", "err", err)
		return OutcomeFailed
	}
	if exists {
		return OutcomeExists
	}

	fields := map[string]any{"name": name, "price": price, "status": true}
	if err := s.remote.ApplyMenuPatch(ctx, s.url, dishPath(category, name), fields); err != nil {
		slog.Error("add dish: remote patch failed", "err", err)
		return OutcomeFailed
	}

	if err := s.mirrorMenu(ctx, func(menu schema.Menu) {
		if menu[category] == nil {
			menu[category] = make(schema.Category)
		}
		menu[category][name] = dish
	}); err != nil {
		slog.Error("add dish: cache mirror failed", "err", err)
		return OutcomeFailed
	}
	return OutcomeOK
}

// DeleteDish removes a dish and, when that empties its category, the category
// as well (cascade). Deleting an absent dish is a no-op that still reports
// OutcomeOK: delete-if-exists semantics. The second return value reports
// whether the cascade fired, so callers can phrase the notification.
func (s *MenuStore) DeleteDish(ctx context.Context, category, name string) (Outcome, bool) {
	if err := s.remote.DeleteMenuField(ctx, s.url, dishPath(category, name)); err != nil {
		slog.Error("delete dish: remote delete failed", "err", err)
		return OutcomeFailed, false
	}

	cascaded := false
	menu, err := s.remote.GetMenu(ctx, s.url)
	if err != nil {
		var nf *schema.NotFoundError
		if !errors.As(err, &nf) {
			slog.Error("delete dish: re-read failed", "err", err)
			return OutcomeFailed, false
		}
		// No document yet: nothing to cascade.
		menu = schema.Menu{}
	}
	// Cascade only when the category key survived the delete but is empty;
	// a category that never existed must not be reported as removed.
	if cat, ok := menu[category]; ok && len(cat) == 0 {
		if err := s.remote.DeleteMenuField(ctx, s.url, categoryPath(category)); err != nil {
			slog.Error("delete dish: cascade delete failed", "err", err)
			return OutcomeFailed, false
		}
		cascaded = true
	}

	if err := s.mirrorMenu(ctx, func(menu schema.Menu) {
		delete(menu[category], name)
		if schema.IsCategoryEmpty(menu, category) {
			delete(menu, category)
		}
	}); err != nil {
		slog.Error("delete dish: cache mirror failed", "err", err)
		return OutcomeFailed, cascaded
	}
	return OutcomeOK, cascaded
}

// UpdateDish merge-patches only the supplied fields; nil fields stay
// untouched on both backends.
func (s *MenuStore) UpdateDish(ctx context.Context, category, name string, update DishUpdate) Outcome {
	fields := map[string]any{}
	if update.Price != nil {
		if *update.Price < 0 {
			slog.Warn("update dish rejected", "name", name, "err", "negative price")
			return OutcomeFailed
		}
		fields["price"] = *update.Price
	}
	if update.Availability != nil {
		fields["status"] = *update.Availability
	}
	if len(fields) == 0 {
		return OutcomeOK
	}

	if err := s.remote.ApplyMenuPatch(ctx, s.url, dishPath(category, name), fields); err != nil {
		slog.Error("update dish: remote patch failed", "err", err)
		return OutcomeFailed
	}

	if err := s.mirrorMenu(ctx, func(menu schema.Menu) {
		dish, ok := menu[category][name]
		if !ok {
			dish = schema.Dish{Name: name, Status: true}
		}
		if update.Price != nil {
			dish.Price = *update.Price
		}
		if update.Availability != nil {
			dish.Status = *update.Availability
		}
		if menu[category] == nil {
			menu[category] = make(schema.Category)
		}
		menu[category][name] = dish
	}); err != nil {
		slog.Error("update dish: cache mirror failed", "err", err)
		return OutcomeFailed
	}
	return OutcomeOK
}

// SetAvailability toggles only the availability flag.
func (s *MenuStore) SetAvailability(ctx context.Context, category, name string, status bool) Outcome {
	return s.UpdateDish(ctx, category, name, DishUpdate{Availability: &status})
}

// ---------------------------------------------------------------------------
// Cache mirroring
// ---------------------------------------------------------------------------

// mirrorMenu applies a structural change to the cached menu copy: read the
// full local menu, mutate, write back. Runs only after the remote mutation
// succeeded.
func (s *MenuStore) mirrorMenu(ctx context.Context, mutate func(schema.Menu)) error {
	menu, ok := s.cachedMenu(ctx)
	if !ok {
		menu = make(schema.Menu)
	}
	mutate(menu)
	return s.writeCachedMenu(ctx, menu)
}

func (s *MenuStore) cachedMenu(ctx context.Context) (schema.Menu, bool) {
	raw, err := s.cache.Get(ctx, KeyMenu)
	if err != nil || raw == "" {
		return nil, false
	}
	var menu schema.Menu
	if json.Unmarshal([]byte(raw), &menu) != nil {
		return nil, false
	}
	return menu, true
}

func (s *MenuStore) writeCachedMenu(ctx context.Context, menu schema.Menu) error {
	data, err := json.Marshal(menu)
	if err != nil {
		return &schema.StoreError{Op: "encode menu", Err: err}
	}
	if err := s.cache.Set(ctx, KeyMenu, string(data)); err != nil {
		return &schema.StoreError{Op: "cache menu", Err: err}
	}
	return nil
}

func dishPath(category, name string) string {
	return "menu." + category + "." + name
}

func categoryPath(category string) string {
	return "menu." + category
}
