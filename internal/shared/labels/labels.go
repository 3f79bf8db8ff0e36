// Package labels maps menu category names to display emoji. Matching is
// fuzzy so owner-typed categories ("bevereges", "Sea Food") still get the
// right icon.
package labels

import "strings"

// labelEntry pairs a canonical keyword with its emoji. An ordered slice, not
// a map: ties on edit distance go to the earliest entry, which keeps the
// result stable across runs.
type labelEntry struct {
	keyword string
	emoji   string
}

var labelTable = []labelEntry{
	{"starters", "🥗"},
	{"appetizers", "🥟"},
	{"soups", "🍲"},
	{"salads", "🥬"},
	{"mains", "🍛"},
	{"main course", "🍛"},
	{"curries", "🍛"},
	{"rice", "🍚"},
	{"biryani", "🍚"},
	{"breads", "🥖"},
	{"noodles", "🍜"},
	{"pizza", "🍕"},
	{"burgers", "🍔"},
	{"sandwiches", "🥪"},
	{"seafood", "🦐"},
	{"grills", "🍢"},
	{"tandoor", "🍢"},
	{"desserts", "🍰"},
	{"ice cream", "🍨"},
	{"beverages", "🥤"},
	{"drinks", "🥤"},
	{"juices", "🧃"},
	{"shakes", "🥛"},
	{"tea", "🍵"},
	{"coffee", "☕"},
	{"breakfast", "🍳"},
	{"combos", "🍱"},
	{"thali", "🍱"},
	{"sides", "🍟"},
	{"specials", "⭐"},
}

// fallbackEmoji is used when no keyword is anywhere near the category name.
const fallbackEmoji = "📋"

// BestEmoji returns the emoji whose keyword is closest to the category name
// by edit distance. Matching is case-insensitive. Names too far from every
// keyword get a neutral fallback.
func BestEmoji(category string) string {
	name := strings.ToLower(strings.TrimSpace(category))

	best := fallbackEmoji
	bestDist := -1
	for _, entry := range labelTable {
		d := levenshtein(name, entry.keyword)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = entry.emoji
		}
	}

	// A distance beyond half the keyword length means the name has little in
	// common with any keyword.
	if bestDist < 0 || bestDist > len(name)/2+3 {
		return fallbackEmoji
	}
	return best
}

// levenshtein computes the edit distance between two strings using the
// two-row dynamic programming form.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minOf(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
