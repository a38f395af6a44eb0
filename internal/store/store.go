// Package store persists decklist payloads by block id. It stands in for the
// host document store: payloads are written and read whole, never patched.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"github.com/youruser/decklist/internal/deck"
	"github.com/youruser/decklist/internal/util"
)

// ErrNotFound is returned for an unknown block id.
var ErrNotFound = errors.New("decklist block not found")

// Persistence is the payload store contract used by the API.
type Persistence interface {
	Create(p deck.Payload) (string, error)
	Get(id string) (deck.Payload, error)
	Put(id string, p deck.Payload) error
	Delete(id string) error
	DeleteIfEmpty(id string) (bool, error)
	List(ctx context.Context) []string
}

// Config configures the on-disk store.
type Config struct {
	Dir        string
	CacheBytes uint64
}

// Load opens (creating if needed) a diskv-backed store under cfg.Dir.
func Load(cfg Config, logger *zap.Logger) (Persistence, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("store dir is empty")
	}
	if err := util.EnsureDir(cfg.Dir); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheBytes == 0 {
		cfg.CacheBytes = 1024 * 1024
	}
	return &persistence{
		d: diskv.New(diskv.Options{
			BasePath:          cfg.Dir,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      cfg.CacheBytes,
		}),
		logger: logger.With(zap.String("component", "store")),
	}, nil
}

type persistence struct {
	d      *diskv.Diskv
	logger *zap.Logger
}

// Create stores p under a fresh id.
func (p *persistence) Create(payload deck.Payload) (string, error) {
	id := uuid.NewString()
	if err := p.Put(id, payload); err != nil {
		return "", err
	}
	return id, nil
}

func (p *persistence) Get(id string) (deck.Payload, error) {
	if !validID(id) {
		return deck.Payload{}, ErrNotFound
	}
	val, err := p.d.Read(id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return deck.Payload{}, ErrNotFound
		}
		return deck.Payload{}, fmt.Errorf("read %s: %w", id, err)
	}
	var payload deck.Payload
	if err := cbor.Unmarshal(val, &payload); err != nil {
		return deck.Payload{}, fmt.Errorf("decode %s: %w", id, err)
	}
	return payload, nil
}

// Put replaces the payload stored under id.
func (p *persistence) Put(id string, payload deck.Payload) error {
	if !validID(id) {
		return fmt.Errorf("invalid block id %q", id)
	}
	b, err := cbor.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}
	if err := p.d.Write(id, b); err != nil {
		return fmt.Errorf("write %s: %w", id, err)
	}
	return nil
}

func (p *persistence) Delete(id string) error {
	if !validID(id) || !p.d.Has(id) {
		return ErrNotFound
	}
	if err := p.d.Erase(id); err != nil {
		return fmt.Errorf("erase %s: %w", id, err)
	}
	return nil
}

// DeleteIfEmpty removes the block when its decklist holds no cards, matching
// what an editor does when leaving an empty decklist block.
func (p *persistence) DeleteIfEmpty(id string) (bool, error) {
	payload, err := p.Get(id)
	if err != nil {
		return false, err
	}
	d, err := deck.FromPayload(payload)
	if err != nil {
		return false, err
	}
	if !d.IsEmpty() {
		return false, nil
	}
	if err := p.Delete(id); err != nil {
		return false, err
	}
	p.logger.Info("deleted empty decklist block", zap.String("id", id))
	return true, nil
}

// List returns all block ids, sorted.
func (p *persistence) List(ctx context.Context) []string {
	ids := []string{}
	for key := range p.d.Keys(ctx.Done()) {
		ids = append(ids, key)
	}
	sort.Strings(ids)
	return ids
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// keyToPathTransform shards blocks by the first two characters of their id.
func keyToPathTransform(s string) *diskv.PathKey {
	if len(s) < 2 {
		return &diskv.PathKey{FileName: s}
	}
	return &diskv.PathKey{
		Path:     []string{s[:2]},
		FileName: s,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}
