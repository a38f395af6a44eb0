package cards

import "strings"

// DefaultSearchLimit caps the number of names a search returns.
const DefaultSearchLimit = 20

// Search filters names by case-insensitive substring. An exact
// (case-insensitive) match is moved to the front; otherwise catalog order is
// kept. At most limit names are returned; limit <= 0 means DefaultSearchLimit.
func Search(names []string, term string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	needle := strings.ToLower(term)
	out := make([]string, 0, limit)
	exact := -1
	for _, n := range names {
		lower := strings.ToLower(n)
		if !strings.Contains(lower, needle) {
			continue
		}
		if exact < 0 && lower == needle {
			exact = len(out)
		}
		out = append(out, n)
		if len(out) >= limit && exact >= 0 {
			break
		}
	}
	if exact > 0 {
		hit := out[exact]
		copy(out[1:exact+1], out[:exact])
		out[0] = hit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
