package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/decklist/internal/deck"
)

func openTestStore(t *testing.T) Persistence {
	t.Helper()
	p, err := Load(Config{Dir: filepath.Join(t.TempDir(), "blocks")}, nil)
	require.NoError(t, err)
	return p
}

func TestCreateGetRoundTrip(t *testing.T) {
	p := openTestStore(t)

	d := deck.New()
	d[deck.Creatures] = deck.Cards{"Fury": 2}
	d[deck.Lands] = deck.Cards{"Island": 1}
	payload := deck.ToPayload("Temur", "Rosie", d)

	id, err := p.Create(payload)
	require.NoError(t, err)

	got, err := p.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Temur", got.DecklistName)
	assert.Equal(t, "Rosie", got.DecklistPlayerName)

	back, err := deck.FromPayload(got)
	require.NoError(t, err)
	assert.True(t, deck.Equal(d, back))
	assert.Equal(t, []string{id}, p.List(context.Background()))
}

func TestGetUnknown(t *testing.T) {
	p := openTestStore(t)
	_, err := p.Get("00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = p.Get("../etc/passwd")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, p.Delete("00000000-0000-0000-0000-000000000000"), ErrNotFound)
}

func TestDeleteIfEmpty(t *testing.T) {
	p := openTestStore(t)

	emptyID, err := p.Create(deck.NewPayload())
	require.NoError(t, err)
	deleted, err := p.DeleteIfEmpty(emptyID)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = p.Get(emptyID)
	require.ErrorIs(t, err, ErrNotFound)

	d, err := deck.Add(deck.New(), deck.Lands, "Island")
	require.NoError(t, err)
	fullID, err := p.Create(deck.NewPayload().WithDecklist(d))
	require.NoError(t, err)
	deleted, err = p.DeleteIfEmpty(fullID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPutPreservesMalformedCounts(t *testing.T) {
	p := openTestStore(t)
	id, err := p.Create(deck.Payload{
		DecklistName: "Broken",
		Decklist:     deck.RawDecklist{"lands": {"Island": -1}},
	})
	require.NoError(t, err)

	got, err := p.Get(id)
	require.NoError(t, err)
	_, err = deck.FromPayload(got)
	require.ErrorIs(t, err, deck.ErrMalformedPayload)
}
