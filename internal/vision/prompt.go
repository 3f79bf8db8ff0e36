package vision

// extractionPrompt is the fixed instruction sent with every menu image or
// menu-page text. The reply must carry a fenced JSON block in the menu
// schema, or the bare sentinel {} when the input is not a menu.
const extractionPrompt = `You are a menu extraction engine.

Read the restaurant menu and convert it into JSON with this exact schema:

` + "```json" + `
{
  "menu": {
    "<category name>": {
      "<dish name>": {"name": "<dish name>", "price": <number>, "status": true}
    }
  }
}
` + "```" + `

Rules:
- Strip currency symbols; "price" is a plain non-negative number.
- Group dishes under their printed category; infer a sensible category name
  when the menu has none.
- Noting veg/non-veg in the category name is optional metadata, never add
  extra schema fields for it.
- Set "status" to true for every extracted dish.
- Return the JSON inside a fenced code block.
- If the input is not a menu or contains no dishes, return exactly {} instead.`

// urlPromptSuffix introduces the extracted page text for web imports.
const urlPromptSuffix = "\n\nMENU TEXT:\n"
