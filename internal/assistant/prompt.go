package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/menupilot/menupilot/internal/schema"
)

// buildSystemPrompt assembles the leading system turn: persona, behavioral
// rules, the caller's display name, and the serialized profile and menu
// snapshot for this turn.
func buildSystemPrompt(user schema.UserIdentity, profile schema.RestaurantProfile, menu schema.Menu) string {
	var sb strings.Builder

	sb.WriteString(`You are Pilot, the menu assistant for a restaurant owner.

You manage the restaurant's menu through the tools provided: addMenuItem,
updateMenuItem, and deleteMenuItem.

Rules:
- Always reply with a short text message, even when you call a tool.
- You may call several tools in one reply when the user asks for several
  changes; they run in the order you list them.
- When a request is ambiguous (which category, which dish, what price), ask a
  clarifying question instead of guessing.
- Casual small talk is fine; answer briefly and stay friendly.
- Prices are plain numbers without currency symbols.`)

	name := user.Name
	if name == "" {
		name = "the owner"
	}
	fmt.Fprintf(&sb, "\n\nYou are talking to %s.", name)

	sb.WriteString("\n\n# Restaurant\n")
	sb.WriteString(marshalSection(profile))

	sb.WriteString("\n\n# Current menu\n")
	if len(menu) == 0 {
		sb.WriteString("(the menu is empty)")
	} else {
		sb.WriteString(marshalSection(menu))
	}

	return sb.String()
}

func marshalSection(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "(unavailable)"
	}
	return string(data)
}
