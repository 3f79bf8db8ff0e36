// Package store bridges the menu data model to the local cache and the
// remote document store. The MenuStore adapter owns the read-modify-write
// sequencing; callers never touch the two backends directly.
package store

import (
	"context"

	"github.com/menupilot/menupilot/internal/schema"
)

// Local cache keys. Values are JSON-encoded string blobs.
const (
	KeyUser        = "user"
	KeyURL         = "url"
	KeyMenu        = "menu"
	KeyProfile     = "profileInfo"
	KeyLinkedUsers = "linkedUsers"
)

// DocumentStore is the remote source of truth: a per-restaurant document
// addressed by URL, supporting partial-field merge patches and field
// deletion.
type DocumentStore interface {
	GetMenu(ctx context.Context, url string) (schema.Menu, error)
	GetProfile(ctx context.Context, url string) (schema.RestaurantProfile, error)
	GetLinkedUsers(ctx context.Context, url string) (map[string]schema.LinkedUser, error)
	// ApplyMenuPatch merges fields into the document at the dotted path
	// (e.g. "menu.Starters.Paneer Tikka") without touching siblings.
	ApplyMenuPatch(ctx context.Context, url, path string, fields map[string]any) error
	// DeleteMenuField removes the field at the dotted path. Deleting a
	// non-existent path is not an error.
	DeleteMenuField(ctx context.Context, url, path string) error
}

// Cache is the local key-value store used for offline reads. Get returns
// ("", nil) for a missing key.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}
