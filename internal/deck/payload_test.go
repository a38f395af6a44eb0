package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDecklist() Decklist {
	d := New()
	d[Creatures] = Cards{"Fury": 2, "Brazen Borrower": 1, "Shardless Agent": 4}
	d[Lands] = Cards{"Island": 1, "Flooded Strand": 4}
	d[Spells] = Cards{"Fire / Ice": 4}
	d[Sideboard] = Cards{"Leyline Binding": 2}
	return d
}

func TestPayloadRoundTrip(t *testing.T) {
	d := sampleDecklist()
	got, err := FromPayload(ToPayload("Crashing Footfalls", "Rosie", d))
	require.NoError(t, err)
	assert.True(t, Equal(d, got))
}

func TestPayloadJSONRoundTrip(t *testing.T) {
	d := sampleDecklist()
	b, err := json.Marshal(ToPayload("Temur", "", d))
	require.NoError(t, err)

	var p Payload
	require.NoError(t, json.Unmarshal(b, &p))
	assert.Equal(t, "Temur", p.DecklistName)
	assert.NotContains(t, string(b), "decklistPlayerName")

	got, err := FromPayload(p)
	require.NoError(t, err)
	assert.True(t, Equal(d, got))
}

func TestFromPayloadDefaultsMissingCategories(t *testing.T) {
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(`{"decklist":{"lands":{"Island":1}}}`), &p))

	d, err := FromPayload(p)
	require.NoError(t, err)
	for _, c := range Categories {
		require.Contains(t, d, c)
	}

	tree := ToRenderTree(d, Categories)
	require.Len(t, tree, 1)
	assert.Equal(t, Lands, tree[0].CategoryKey)
	assert.Equal(t, []CardEntry{{Name: "Island", Count: 1}}, tree[0].Cards)
}

func TestFromPayloadRejectsBadCounts(t *testing.T) {
	for _, doc := range []string{
		`{"decklist":{"lands":{"Island":0}}}`,
		`{"decklist":{"lands":{"Island":-2}}}`,
		`{"decklist":{"lands":{"Island":1.5}}}`,
		`{"decklist":{"lands":{"Island":"2"}}}`,
		`{"decklist":{"lands":{"Island":null}}}`,
	} {
		t.Run(doc, func(t *testing.T) {
			var p Payload
			require.NoError(t, json.Unmarshal([]byte(doc), &p))
			_, err := FromPayload(p)
			require.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestUnknownCategories(t *testing.T) {
	p := Payload{Decklist: RawDecklist{
		"tokens":      {"Goblin": 1},
		"lands":       {"Island": 1},
		"attractions": {},
	}}
	assert.Equal(t, []string{"attractions", "tokens"}, UnknownCategories(p))

	d, err := FromPayload(p)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Count(Lands, "Island"))
}

func TestWithNameCopies(t *testing.T) {
	p := NewPayload()
	q := p.WithName("Temur").WithPlayerName("Rosie")
	q.Decklist["lands"]["Island"] = 1

	assert.Equal(t, DefaultName, p.DecklistName)
	assert.Empty(t, p.Decklist["lands"])
	assert.Equal(t, "Rosie", q.DecklistPlayerName)
}

func TestToRenderTreeSorted(t *testing.T) {
	tree := ToRenderTree(sampleDecklist(), nil)

	keys := make([]Category, 0, len(tree))
	for _, n := range tree {
		keys = append(keys, n.CategoryKey)
		for i := 1; i < len(n.Cards); i++ {
			assert.Less(t, n.Cards[i-1].Name, n.Cards[i].Name)
		}
	}
	assert.Equal(t, []Category{Lands, Creatures, Spells, Sideboard}, keys)
	assert.Equal(t, "Instants & Sorceries", tree[2].Label)
	assert.Equal(t, ToRenderTree(sampleDecklist(), nil), tree)
}

func TestExportText(t *testing.T) {
	d := New()
	d[Lands] = Cards{"Island": 1}
	d[Creatures] = Cards{"Fury": 2}

	want := "# Temur\nBy Rosie\n\nLands\n1xIsland\n\nCreatures\n2xFury"
	assert.Equal(t, want, ExportText("Temur", "Rosie", d))
	assert.Equal(t, "", ExportText("", "", New()))
}

func TestWithDecklistKeepsUnknownKeys(t *testing.T) {
	p := Payload{DecklistName: "Future", Decklist: RawDecklist{"tokens": {"Goblin": 1}}}
	d, err := Add(New(), Lands, "Island")
	require.NoError(t, err)

	q := p.WithDecklist(d)
	assert.Equal(t, map[string]any{"Goblin": 1}, q.Decklist["tokens"])
	assert.Equal(t, map[string]any{"Island": 1}, q.Decklist["lands"])
	assert.Equal(t, "Future", q.DecklistName)
}

func TestPayloadJSONKeepsCorruptCategories(t *testing.T) {
	doc := `{"decklistName":"Mono U","decklist":{"tokens":"junk","lands":{"Island":1},"other":null}}`

	var p Payload
	require.NoError(t, json.Unmarshal([]byte(doc), &p))
	assert.Equal(t, "Mono U", p.DecklistName)
	assert.Equal(t, []string{"tokens"}, UnknownCategories(p))
	assert.Nil(t, p.Decklist["tokens"])

	_, err := FromPayload(p)
	var perr *PayloadError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "other", perr.Category)
	assert.ErrorIs(t, err, ErrMalformedPayload)

	delete(p.Decklist, "other")
	d, err := FromPayload(p)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Count(Lands, "Island"))

	cp := p.WithName("Mono Blue")
	_, present := cp.Decklist["tokens"]
	assert.True(t, present)
	assert.Nil(t, cp.Decklist["tokens"])
}

func TestPayloadJSONRejectsNonObjectDecklist(t *testing.T) {
	var p Payload
	assert.Error(t, json.Unmarshal([]byte(`{"decklist":"junk"}`), &p))

	require.NoError(t, json.Unmarshal([]byte(`{"decklist":null}`), &p))
	d, err := FromPayload(p)
	require.NoError(t, err)
	assert.True(t, d.IsEmpty())
}
