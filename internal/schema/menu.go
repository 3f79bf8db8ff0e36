// Package schema holds the core data types shared across menupilot packages:
// the menu model, conversation messages, the LLM provider contract, and the
// error taxonomy. Concrete implementations live in their respective packages.
package schema

import (
	"sort"
	"strings"
)

// Dish is a single menu entry. The map key under its Category must equal
// Name; renaming a dish is a delete of the old key plus an insert of the new
// one, never an in-place key change.
type Dish struct {
	Name   string  `json:"name" bson:"name"`
	Price  float64 `json:"price" bson:"price"`
	Status bool    `json:"status" bson:"status"` // true = available
}

// Category maps dish name to Dish.
type Category map[string]Dish

// Menu maps category name to Category. Category names are case-sensitive and
// unique within a menu. An empty category must never persist: deleting the
// last dish in a category deletes the category.
type Menu map[string]Category

// ValidateDish checks the dish invariants. It is called before any I/O so a
// malformed dish never reaches the remote store.
func ValidateDish(d Dish) error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if d.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

// IsCategoryEmpty reports whether the category is missing or has zero dishes.
func IsCategoryEmpty(m Menu, category string) bool {
	return len(m[category]) == 0
}

// Categories returns the category names in sorted order for stable rendering.
func (m Menu) Categories() []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dishes returns the dish names of a category in sorted order.
func (c Category) Dishes() []string {
	out := make([]string, 0, len(c))
	for name := range c {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy of the menu with independent backing maps.
func (m Menu) Clone() Menu {
	out := make(Menu, len(m))
	for cat, dishes := range m {
		cc := make(Category, len(dishes))
		for name, d := range dishes {
			cc[name] = d
		}
		out[cat] = cc
	}
	return out
}

// Merge folds other into m, overwriting dishes that share a key. Used when a
// parsed menu fragment is applied on top of an existing menu.
func (m Menu) Merge(other Menu) {
	for cat, dishes := range other {
		if m[cat] == nil {
			m[cat] = make(Category, len(dishes))
		}
		for name, d := range dishes {
			m[cat][name] = d
		}
	}
}

// Normalize enforces the key==Name invariant and drops entries that fail
// validation. Parsed fragments from the vision backend pass through here
// before anyone else sees them.
func (m Menu) Normalize() Menu {
	out := make(Menu, len(m))
	for cat, dishes := range m {
		cat = strings.TrimSpace(cat)
		if cat == "" {
			continue
		}
		for name, d := range dishes {
			d.Name = strings.TrimSpace(name)
			if ValidateDish(d) != nil {
				continue
			}
			if out[cat] == nil {
				out[cat] = make(Category)
			}
			out[cat][d.Name] = d
		}
	}
	return out
}

// Count returns the total number of dishes across all categories.
func (m Menu) Count() int {
	n := 0
	for _, dishes := range m {
		n += len(dishes)
	}
	return n
}
