package deck

import "maps"

// Cards maps a card name to its count. Counts are always >= 1.
type Cards map[string]int

// Decklist maps every category to its cards. Values are treated as immutable
// snapshots: the mutation functions below return a fresh Decklist and never
// touch their argument.
type Decklist map[Category]Cards

// New returns an empty decklist with all eight categories present.
func New() Decklist {
	d := make(Decklist, len(Categories))
	for _, c := range Categories {
		d[c] = Cards{}
	}
	return d
}

// Clone deep-copies d. Missing categories are filled in so the result is total.
func (d Decklist) Clone() Decklist {
	out := New()
	for c, cards := range d {
		if cards != nil {
			out[c] = maps.Clone(cards)
		}
	}
	return out
}

// Find returns the category holding name.
func (d Decklist) Find(name string) (Category, bool) {
	for _, c := range Categories {
		if _, ok := d[c][name]; ok {
			return c, true
		}
	}
	return "", false
}

// Count returns the count of name in c, or 0.
func (d Decklist) Count(c Category, name string) int {
	return d[c][name]
}

// IsEmpty reports whether no category holds any card.
func (d Decklist) IsEmpty() bool {
	for _, cards := range d {
		if len(cards) > 0 {
			return false
		}
	}
	return true
}

// Totals sums counts for the main deck and for the sideboard.
func (d Decklist) Totals() (main, side int) {
	for c, cards := range d {
		for _, n := range cards {
			if c == Sideboard {
				side += n
			} else {
				main += n
			}
		}
	}
	return main, side
}

// Equal reports whether a and b hold the same counts. Absent and empty
// categories compare equal.
func Equal(a, b Decklist) bool {
	for _, c := range Categories {
		if !maps.Equal(a[c], b[c]) {
			return false
		}
	}
	return len(a.unknown()) == 0 && len(b.unknown()) == 0
}

func (d Decklist) unknown() []Category {
	var out []Category
	for c := range d {
		if !c.Valid() {
			out = append(out, c)
		}
	}
	return out
}

// Add places one copy of name in c. An existing entry in c is incremented.
// A name already held by another category moves to c with all its copies,
// so a name lives in at most one category: adding a sideboard copy of a
// 4-of creature leaves sideboard at 5 and no creatures entry. Callers that
// want to split copies must decrement the source entry first.
func Add(d Decklist, c Category, name string) (Decklist, error) {
	if !c.Valid() {
		return d, &unknownCategoryError{c}
	}
	out := d.Clone()
	prev := 0
	if from, ok := out.Find(name); ok {
		prev = out[from][name]
		delete(out[from], name)
	}
	out[c][name] = prev + 1
	return out, nil
}

// Increment adds one to an existing entry.
func Increment(d Decklist, c Category, name string) (Decklist, error) {
	if !c.Valid() {
		return d, &unknownCategoryError{c}
	}
	if _, ok := d[c][name]; !ok {
		return d, &NotFoundError{Category: c, Name: name}
	}
	out := d.Clone()
	out[c][name]++
	return out, nil
}

// Decrement removes one from an existing entry, dropping it when the count
// reaches zero or when fullRemove is set. The category itself stays present.
func Decrement(d Decklist, c Category, name string, fullRemove bool) (Decklist, error) {
	if !c.Valid() {
		return d, &unknownCategoryError{c}
	}
	if _, ok := d[c][name]; !ok {
		return d, &NotFoundError{Category: c, Name: name}
	}
	out := d.Clone()
	out[c][name]--
	if fullRemove || out[c][name] <= 0 {
		delete(out[c], name)
	}
	return out, nil
}

type unknownCategoryError struct{ c Category }

func (e *unknownCategoryError) Error() string { return ErrUnknownCategory.Error() + ": " + string(e.c) }

func (e *unknownCategoryError) Unwrap() error { return ErrUnknownCategory }
