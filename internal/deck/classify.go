package deck

import "strings"

// typeRules are checked in order; the first keyword found in the type text wins.
// "creature" precedes "artifact" so artifact creatures land in creatures.
var typeRules = []struct {
	keywords []string
	category Category
}{
	{[]string{"battle"}, Other},
	{[]string{"creature"}, Creatures},
	{[]string{"land"}, Lands},
	{[]string{"planeswalker"}, Planeswalkers},
	{[]string{"artifact"}, Artifacts},
	{[]string{"enchantment"}, Enchantments},
	{[]string{"instant", "sorcery"}, Spells},
}

// Classify maps a catalog type line to a category. The sideboard flag
// overrides the text. Every input, including "", yields a category.
func Classify(typeText string, sideboard bool) Category {
	if sideboard {
		return Sideboard
	}
	t := strings.ToLower(typeText)
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.category
			}
		}
	}
	return Other
}
