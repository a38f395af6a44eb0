package lookup

import (
	"context"
	"errors"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/decklist/internal/cards"
	"github.com/youruser/decklist/internal/deck"
)

func testCatalog() *cards.StaticCatalog {
	return cards.NewStaticCatalog([]cards.Card{
		{Name: "Fury Charm", TypeLine: "Instant"},
		{Name: "Fury", TypeLine: "Creature — Elemental Incarnation"},
		{Name: "Island", TypeLine: "Basic Land — Island"},
		{Name: "Sol Ring", TypeLine: "Artifact"},
		{Name: "Invasion of Zendikar", TypeLine: "Battle — Siege"},
		{Name: "Blank", TypeLine: ""},
	})
}

func TestResolveAndPlace(t *testing.T) {
	r := NewResolver(testCatalog(), 0, nil)
	ctx := context.Background()

	d, placed, err := r.ResolveAndPlace(ctx, "fury", Mode{}, deck.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, deck.Creatures, placed.Category)
	assert.Equal(t, 1, d.Count(deck.Creatures, "Fury"))

	d, _, err = r.ResolveAndPlace(ctx, "FURY", Mode{}, d, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Count(deck.Creatures, "Fury"))

	d, placed, err = r.ResolveAndPlace(ctx, "island", Mode{Sideboard: true}, d, nil)
	require.NoError(t, err)
	assert.Equal(t, deck.Sideboard, placed.Category)
	assert.Equal(t, 1, d.Count(deck.Sideboard, "Island"))
}

func TestPlaceClassifies(t *testing.T) {
	r := NewResolver(testCatalog(), 0, nil)
	tests := map[string]deck.Category{
		"Fury Charm":           deck.Spells,
		"Sol Ring":             deck.Artifacts,
		"Invasion of Zendikar": deck.Other,
		"Blank":                deck.Other,
	}
	for name, want := range tests {
		_, placed, err := r.Place(context.Background(), name, Mode{}, deck.New())
		require.NoError(t, err)
		assert.Equal(t, want, placed.Category, name)
	}
}

func TestResolveAndPlacePicker(t *testing.T) {
	r := NewResolver(testCatalog(), 0, nil)
	last := func(results []string) (string, bool) {
		if len(results) == 0 {
			return "", false
		}
		return results[len(results)-1], true
	}
	d, placed, err := r.ResolveAndPlace(context.Background(), "fury", Mode{}, deck.New(), last)
	require.NoError(t, err)
	assert.Equal(t, "Fury Charm", placed.Name)
	assert.Equal(t, 1, d.Count(deck.Spells, "Fury Charm"))
}

func TestResolveAndPlaceNoMatch(t *testing.T) {
	r := NewResolver(testCatalog(), 0, nil)
	d := deck.New()
	out, _, err := r.ResolveAndPlace(context.Background(), "bolt", Mode{}, d, nil)
	require.ErrorIs(t, err, ErrNoMatch)
	assert.True(t, deck.Equal(d, out))
}

type failingCatalog struct{ err error }

func (f failingCatalog) Search(context.Context, string, int) ([]string, error) {
	return []string{"Fury"}, nil
}

func (f failingCatalog) Card(context.Context, string) (*cards.Card, error) {
	return nil, f.err
}

func TestPlaceCatalogFailureLeavesDecklist(t *testing.T) {
	boom := &cards.APIError{Status: 403, RateLimited: true}
	r := NewResolver(failingCatalog{err: boom}, 0, nil)
	d := deck.New()

	out, _, err := r.ResolveAndPlace(context.Background(), "fury", Mode{}, d, nil)
	require.True(t, errors.Is(err, cards.ErrRateLimited))
	assert.True(t, out.IsEmpty())
}

// gatedCatalog blocks each search until its gate channel is released.
type gatedCatalog struct {
	gates map[string]chan struct{}
}

func (g *gatedCatalog) Search(_ context.Context, term string, _ int) ([]string, error) {
	<-g.gates[term]
	return []string{term}, nil
}

func (g *gatedCatalog) Card(context.Context, string) (*cards.Card, error) {
	return &cards.Card{}, nil
}

func TestSessionLastRequestWins(t *testing.T) {
	cat := &gatedCatalog{gates: map[string]chan struct{}{
		"fu":   make(chan struct{}),
		"fury": make(chan struct{}),
	}}
	sess := NewSession(NewResolver(cat, 0, nil))

	waitIssued := func(n uint64) {
		for {
			sess.mu.Lock()
			issued := sess.issued
			sess.mu.Unlock()
			if issued >= n {
				return
			}
			runtime.Gosched()
		}
	}

	slow := make(chan bool, 1)
	go func() {
		_, applied, _ := sess.Search(context.Background(), "fu")
		slow <- applied
	}()
	waitIssued(1)

	fast := make(chan bool, 1)
	go func() {
		_, applied, _ := sess.Search(context.Background(), "fury")
		fast <- applied
	}()
	waitIssued(2)

	close(cat.gates["fury"])
	require.True(t, <-fast)
	close(cat.gates["fu"])
	require.False(t, <-slow)

	results, err := sess.Results()
	require.NoError(t, err)
	assert.Equal(t, []string{"fury"}, results)

	sess.Clear()
	results, _ = sess.Results()
	assert.Empty(t, results)
}

func TestSessionsReuse(t *testing.T) {
	s := NewSessions(NewResolver(testCatalog(), 0, nil))
	a := s.Get("editor-1")
	assert.Same(t, a, s.Get("editor-1"))
	s.Drop("editor-1")
	assert.NotSame(t, a, s.Get("editor-1"))
}

func TestSessionsStayBounded(t *testing.T) {
	s := NewSessions(NewResolver(testCatalog(), 0, nil), WithMaxSessions(8))
	first := s.Get("editor-0")
	for i := 1; i < 1000; i++ {
		s.Get("editor-" + strconv.Itoa(i))
		require.LessOrEqual(t, s.Len(), 8)
	}
	assert.Equal(t, 8, s.Len())
	assert.NotSame(t, first, s.Get("editor-0"))
}

func TestSessionsEvictLeastRecentlyUsed(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSessions(NewResolver(testCatalog(), 0, nil), WithMaxSessions(2), withClock(func() time.Time { return now }))

	a := s.Get("a")
	now = now.Add(time.Second)
	s.Get("b")
	now = now.Add(time.Second)
	assert.Same(t, a, s.Get("a"))
	now = now.Add(time.Second)
	s.Get("c")

	assert.Equal(t, 2, s.Len())
	assert.Same(t, a, s.Get("a"))
}

func TestSessionsExpireIdle(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSessions(NewResolver(testCatalog(), 0, nil), WithSessionTTL(time.Minute), withClock(func() time.Time { return now }))

	a := s.Get("a")
	s.Get("b")
	now = now.Add(30 * time.Second)
	assert.Same(t, a, s.Get("a"))

	now = now.Add(45 * time.Second)
	s.Get("c")
	assert.Equal(t, 2, s.Len(), "b idled past the TTL")

	now = now.Add(2 * time.Minute)
	assert.NotSame(t, a, s.Get("a"))
	assert.Equal(t, 1, s.Len())
}
