package cards

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// CatalogFile is the CSV a data directory must contain. Required columns are
// "name" and "type_line"; "image_url" is optional.
const CatalogFile = "cards.csv"

// StaticCatalog is an in-memory catalog loaded from CSV, used offline and in tests.
type StaticCatalog struct {
	names []string
	cards map[string]Card
}

// NewStaticCatalog builds a catalog from cards, keeping their order for search.
func NewStaticCatalog(list []Card) *StaticCatalog {
	s := &StaticCatalog{cards: make(map[string]Card, len(list))}
	for _, c := range list {
		if _, dup := s.cards[c.Name]; dup {
			continue
		}
		s.names = append(s.names, c.Name)
		s.cards[c.Name] = c
	}
	return s
}

// LoadCatalogFromDataDir reads CatalogFile from dataDir.
func LoadCatalogFromDataDir(dataDir string) (*StaticCatalog, error) {
	path := filepath.Join(dataDir, CatalogFile)
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer fp.Close()

	list, err := readCSV(fp)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return NewStaticCatalog(list), nil
}

func readCSV(r io.Reader) ([]Card, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv has no header")
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "type_line"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv missing %q column", required)
		}
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Card{}
	for _, row := range rows[1:] {
		c := Card{
			Name:     get(row, "name"),
			TypeLine: get(row, "type_line"),
		}
		if c.Name == "" {
			continue
		}
		if img := get(row, "image_url"); img != "" {
			c.ImageURIs = map[string]string{"small": img, "normal": img}
		}
		out = append(out, c)
	}
	return out, nil
}

// Names returns all names in load order.
func (s *StaticCatalog) Names(context.Context) ([]string, error) {
	return slices.Clone(s.names), nil
}

// Search mirrors Client.Search.
func (s *StaticCatalog) Search(_ context.Context, term string, limit int) ([]string, error) {
	return Search(s.names, term, limit), nil
}

// Card looks up an exact name.
func (s *StaticCatalog) Card(_ context.Context, name string) (*Card, error) {
	c, ok := s.cards[name]
	if !ok {
		return nil, &APIError{Status: 404, Message: fmt.Sprintf("No card found named %q", name)}
	}
	return &c, nil
}

// LastError is always empty; the static catalog cannot fail after loading.
func (s *StaticCatalog) LastError() string { return "" }
