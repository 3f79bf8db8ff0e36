package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/menupilot/menupilot/internal/schema"
	"github.com/menupilot/menupilot/internal/store"
)

// Tool names the backend may call.
const (
	toolAddMenuItem    = "addMenuItem"
	toolDeleteMenuItem = "deleteMenuItem"
	toolUpdateMenuItem = "updateMenuItem"
)

// ---------------------------------------------------------------------------
// Argument coercion
//
// Tool args arrive as an untyped map straight off the wire. They are coerced
// into typed structs here, before any store call; speculative field access on
// model-controlled input is never allowed past this point.
// ---------------------------------------------------------------------------

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", &schema.ValidationError{Field: key, Reason: "is required"}
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", &schema.ValidationError{Field: key, Reason: "must be a non-empty string"}
	}
	return s, nil
}

// numberArg accepts the numeric shapes JSON decoding can produce, plus a
// numeric string, which some model replies use for prices.
func numberArg(args map[string]any, key string) (float64, bool, error) {
	v, ok := args[key]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return n, true, nil
	case int:
		return float64(n), true, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false, &schema.ValidationError{Field: key, Reason: "must be a number"}
		}
		return f, true, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false, &schema.ValidationError{Field: key, Reason: "must be a number"}
		}
		return f, true, nil
	default:
		return 0, false, &schema.ValidationError{Field: key, Reason: "must be a number"}
	}
}

func boolArg(args map[string]any, key string) (bool, bool, error) {
	v, ok := args[key]
	if !ok {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, false, &schema.ValidationError{Field: key, Reason: "must be a boolean"}
	}
	return b, true, nil
}

type addArgs struct {
	Name     string
	Category string
	Price    float64
}

func parseAddArgs(args map[string]any) (addArgs, error) {
	var out addArgs
	var err error
	if out.Name, err = stringArg(args, "name"); err != nil {
		return out, err
	}
	if out.Category, err = stringArg(args, "category"); err != nil {
		return out, err
	}
	price, present, err := numberArg(args, "price")
	if err != nil {
		return out, err
	}
	if !present {
		return out, &schema.ValidationError{Field: "price", Reason: "is required"}
	}
	if price < 0 {
		return out, &schema.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	out.Price = price
	return out, nil
}

type deleteArgs struct {
	Name     string
	Category string
}

func parseDeleteArgs(args map[string]any) (deleteArgs, error) {
	var out deleteArgs
	var err error
	if out.Name, err = stringArg(args, "name"); err != nil {
		return out, err
	}
	if out.Category, err = stringArg(args, "category"); err != nil {
		return out, err
	}
	return out, nil
}

type updateArgs struct {
	Name         string
	Category     string
	Price        *float64
	Availability *bool
}

func parseUpdateArgs(args map[string]any) (updateArgs, error) {
	var out updateArgs
	var err error
	if out.Name, err = stringArg(args, "name"); err != nil {
		return out, err
	}
	if out.Category, err = stringArg(args, "category"); err != nil {
		return out, err
	}
	if price, present, perr := numberArg(args, "price"); perr != nil {
		return out, perr
	} else if present {
		if price < 0 {
			return out, &schema.ValidationError{Field: "price", Reason: "must not be negative"}
		}
		out.Price = &price
	}
	if avail, present, berr := boolArg(args, "availability"); berr != nil {
		return out, berr
	} else if present {
		out.Availability = &avail
	}
	if out.Price == nil && out.Availability == nil {
		return out, &schema.ValidationError{Field: "update", Reason: "needs price or availability"}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// AddMenuItemTool
// ---------------------------------------------------------------------------

// AddMenuItemTool inserts a new dish into the menu.
type AddMenuItemTool struct {
	store *store.MenuStore
}

func (t *AddMenuItemTool) Name() string { return toolAddMenuItem }
func (t *AddMenuItemTool) Description() string {
	return "Add a new dish to the menu with its name, price, and category. New dishes start available."
}
func (t *AddMenuItemTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"name": {"type": "string", "description": "Dish name"},
			"price": {"type": "number", "description": "Price without currency symbol"},
			"category": {"type": "string", "description": "Menu category, e.g. Starters"}
		},
		"required": ["name", "price", "category"]
	}`)
}

func (t *AddMenuItemTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	a, err := parseAddArgs(args)
	if err != nil {
		return "", err
	}
	switch t.store.AddDish(ctx, a.Category, a.Name, a.Price) {
	case store.OutcomeOK:
		return fmt.Sprintf("Added %s to %s.", a.Name, a.Category), nil
	case store.OutcomeExists:
		return fmt.Sprintf("%s is already on the menu in %s.", a.Name, a.Category), nil
	default:
		return fmt.Sprintf("Failed to add %s, please try again.", a.Name), nil
	}
}

// ---------------------------------------------------------------------------
// DeleteMenuItemTool
// ---------------------------------------------------------------------------

// DeleteMenuItemTool removes a dish; deleting the last dish of a category
// removes the category too.
type DeleteMenuItemTool struct {
	store *store.MenuStore
}

func (t *DeleteMenuItemTool) Name() string { return toolDeleteMenuItem }
func (t *DeleteMenuItemTool) Description() string {
	return "Delete a dish from the menu by its name and category."
}
func (t *DeleteMenuItemTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"name": {"type": "string", "description": "Dish name"},
			"category": {"type": "string", "description": "Menu category the dish is in"}
		},
		"required": ["name", "category"]
	}`)
}

func (t *DeleteMenuItemTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	a, err := parseDeleteArgs(args)
	if err != nil {
		return "", err
	}
	outcome, cascaded := t.store.DeleteDish(ctx, a.Category, a.Name)
	switch {
	case outcome != store.OutcomeOK:
		return fmt.Sprintf("Failed to delete %s, please try again.", a.Name), nil
	case cascaded:
		return fmt.Sprintf("Deleted %s and removed the now-empty %s category.", a.Name, a.Category), nil
	default:
		return fmt.Sprintf("Deleted %s from %s.", a.Name, a.Category), nil
	}
}

// ---------------------------------------------------------------------------
// UpdateMenuItemTool
// ---------------------------------------------------------------------------

// UpdateMenuItemTool changes the price and/or availability of a dish.
type UpdateMenuItemTool struct {
	store *store.MenuStore
}

func (t *UpdateMenuItemTool) Name() string { return toolUpdateMenuItem }
func (t *UpdateMenuItemTool) Description() string {
	return "Update a dish's price and/or availability. Only the supplied fields change."
}
func (t *UpdateMenuItemTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"name": {"type": "string", "description": "Dish name"},
			"category": {"type": "string", "description": "Menu category the dish is in"},
			"price": {"type": "number", "description": "New price without currency symbol"},
			"availability": {"type": "boolean", "description": "true = available, false = sold out"}
		},
		"required": ["name", "category"]
	}`)
}

func (t *UpdateMenuItemTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	a, err := parseUpdateArgs(args)
	if err != nil {
		return "", err
	}
	update := store.DishUpdate{Price: a.Price, Availability: a.Availability}
	if t.store.UpdateDish(ctx, a.Category, a.Name, update) != store.OutcomeOK {
		return fmt.Sprintf("Failed to update %s, please try again.", a.Name), nil
	}
	return fmt.Sprintf("Updated %s.", a.Name), nil
}
