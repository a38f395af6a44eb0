package deck

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
)

// DefaultName is the title given to a freshly created decklist block.
const DefaultName = "Decklist"

// RawDecklist is the stored shape of a decklist: category key to card name to
// count. Counts are left untyped so corrupt documents can be reported rather
// than coerced by the decoder. A category whose value is not an object is kept
// as a nil map; FromPayload rejects it and render skips it.
type RawDecklist map[string]map[string]any

// UnmarshalJSON decodes each category on its own so one corrupt category does
// not fail the whole document.
func (r *RawDecklist) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*r = nil
		return nil
	}
	var byKey map[string]json.RawMessage
	if err := json.Unmarshal(b, &byKey); err != nil {
		return err
	}
	out := make(RawDecklist, len(byKey))
	for k, raw := range byKey {
		var entries map[string]any
		if err := json.Unmarshal(raw, &entries); err != nil {
			entries = nil
		}
		out[k] = entries
	}
	*r = out
	return nil
}

// Payload is the durable unit owned by the host document.
type Payload struct {
	DecklistName       string      `json:"decklistName" cbor:"decklistName"`
	DecklistPlayerName string      `json:"decklistPlayerName,omitempty" cbor:"decklistPlayerName,omitempty"`
	Decklist           RawDecklist `json:"decklist" cbor:"decklist"`
}

// NewPayload returns the payload a new block starts with.
func NewPayload() Payload {
	return ToPayload(DefaultName, "", New())
}

// ToPayload serializes d. All eight categories are written, empty or not.
func ToPayload(name, player string, d Decklist) Payload {
	raw := make(RawDecklist, len(Categories))
	for _, c := range Categories {
		cards := make(map[string]any, len(d[c]))
		for n, count := range d[c] {
			cards[n] = count
		}
		raw[string(c)] = cards
	}
	return Payload{DecklistName: name, DecklistPlayerName: player, Decklist: raw}
}

// FromPayload decodes the decklist carried by p. Absent categories become
// empty and keys outside the known set are ignored; see UnknownCategories.
// A count that is not a positive integer, or a known category that is not an
// object, fails with a *PayloadError.
func FromPayload(p Payload) (Decklist, error) {
	d := New()
	for _, c := range Categories {
		entries, ok := p.Decklist[string(c)]
		if !ok {
			continue
		}
		if entries == nil {
			return nil, &PayloadError{Category: string(c)}
		}
		cards, err := decodeCards(string(c), entries)
		if err != nil {
			return nil, err
		}
		d[c] = cards
	}
	return d, nil
}

// UnknownCategories lists payload keys that are not known categories, sorted.
func UnknownCategories(p Payload) []string {
	var out []string
	for k := range p.Decklist {
		if !Category(k).Valid() {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// WithDecklist returns a copy of p carrying d. Keys of p that are not known
// categories are carried over untouched.
func (p Payload) WithDecklist(d Decklist) Payload {
	out := ToPayload(p.DecklistName, p.DecklistPlayerName, d)
	if unknown := UnknownCategories(p); len(unknown) > 0 {
		prev := p.Decklist.clone()
		for _, k := range unknown {
			out.Decklist[k] = prev[k]
		}
	}
	return out
}

// WithName returns a copy of p with a new title.
func (p Payload) WithName(name string) Payload {
	p.Decklist = p.Decklist.clone()
	p.DecklistName = name
	return p
}

// WithPlayerName returns a copy of p with a new player name.
func (p Payload) WithPlayerName(player string) Payload {
	p.Decklist = p.Decklist.clone()
	p.DecklistPlayerName = player
	return p
}

func (r RawDecklist) clone() RawDecklist {
	if r == nil {
		return nil
	}
	out := make(RawDecklist, len(r))
	for k, entries := range r {
		if entries == nil {
			out[k] = nil
			continue
		}
		cp := make(map[string]any, len(entries))
		for n, v := range entries {
			cp[n] = v
		}
		out[k] = cp
	}
	return out
}

func decodeCards(category string, entries map[string]any) (Cards, error) {
	cards := make(Cards, len(entries))
	for name, v := range entries {
		n, ok := positiveCount(v)
		if !ok {
			return nil, &PayloadError{Category: category, Name: name, Value: v}
		}
		cards[name] = n
	}
	return cards, nil
}

// positiveCount accepts the integer forms JSON and CBOR decoders produce.
func positiveCount(v any) (int, bool) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case uint64:
		if x > math.MaxInt32 {
			return 0, false
		}
		n = int64(x)
	case float64:
		if x != math.Trunc(x) || x > math.MaxInt32 {
			return 0, false
		}
		n = int64(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	if n < 1 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}
