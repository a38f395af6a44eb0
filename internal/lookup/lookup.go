// Package lookup bridges the card catalog and the decklist engine: search for
// a name, fetch its type line, classify it and place it in a decklist.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/youruser/decklist/internal/cards"
	"github.com/youruser/decklist/internal/deck"
)

// ErrNoMatch is returned when a query matches no catalog names.
var ErrNoMatch = errors.New("no matching card")

// Catalog is the card catalog as seen by the resolver.
type Catalog interface {
	Search(ctx context.Context, term string, limit int) ([]string, error)
	Card(ctx context.Context, name string) (*cards.Card, error)
}

// Mode carries per-call selection state that would otherwise be ambient UI
// state, such as whether new cards go to the sideboard.
type Mode struct {
	Sideboard bool
}

// Picker chooses one name out of the search results.
type Picker func(results []string) (string, bool)

// First picks the first result.
func First(results []string) (string, bool) {
	if len(results) == 0 {
		return "", false
	}
	return results[0], true
}

// Placement reports where a card went.
type Placement struct {
	Name     string        `json:"name"`
	TypeLine string        `json:"typeLine"`
	Category deck.Category `json:"category"`
}

// Resolver runs the search → detail → classify → add sequence.
type Resolver struct {
	catalog Catalog
	limit   int
	logger  *zap.Logger
}

// NewResolver returns a Resolver. limit <= 0 uses cards.DefaultSearchLimit.
func NewResolver(catalog Catalog, limit int, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = cards.DefaultSearchLimit
	}
	return &Resolver{catalog: catalog, limit: limit, logger: logger.With(zap.String("component", "lookup"))}
}

// Search returns the candidate names for query.
func (r *Resolver) Search(ctx context.Context, query string) ([]string, error) {
	return r.catalog.Search(ctx, query, r.limit)
}

// Place fetches name's type line, classifies it under mode and adds one copy
// to d. On any catalog failure d is returned unchanged.
func (r *Resolver) Place(ctx context.Context, name string, mode Mode, d deck.Decklist) (deck.Decklist, Placement, error) {
	card, err := r.catalog.Card(ctx, name)
	if err != nil {
		return d, Placement{}, fmt.Errorf("look up %q: %w", name, err)
	}
	if card.Name != "" {
		name = card.Name
	}
	typeLine := strings.ToLower(card.TypeText())
	category := deck.Classify(typeLine, mode.Sideboard)
	next, err := deck.Add(d, category, name)
	if err != nil {
		return d, Placement{}, err
	}
	r.logger.Debug("card placed",
		zap.String("name", name),
		zap.String("type_line", typeLine),
		zap.String("category", string(category)))
	return next, Placement{Name: name, TypeLine: card.TypeText(), Category: category}, nil
}

// ResolveAndPlace searches for query, lets pick choose a result (First when
// nil) and places that card.
func (r *Resolver) ResolveAndPlace(ctx context.Context, query string, mode Mode, d deck.Decklist, pick Picker) (deck.Decklist, Placement, error) {
	if pick == nil {
		pick = First
	}
	results, err := r.Search(ctx, query)
	if err != nil {
		return d, Placement{}, fmt.Errorf("search %q: %w", query, err)
	}
	name, ok := pick(results)
	if !ok {
		return d, Placement{}, fmt.Errorf("%w: %q", ErrNoMatch, query)
	}
	return r.Place(ctx, name, mode, d)
}
