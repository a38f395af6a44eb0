package cards

import (
	"context"

	"go.uber.org/zap"

	"github.com/youruser/decklist/internal/config"
	"github.com/youruser/decklist/internal/util"
)

// Source is satisfied by both the HTTP client and the static catalog.
type Source interface {
	Names(ctx context.Context) ([]string, error)
	Search(ctx context.Context, term string, limit int) ([]string, error)
	Card(ctx context.Context, name string) (*Card, error)
	LastError() string
}

// NewConfiguredSource returns the CSV catalog when catalog.data_dir is set,
// otherwise an HTTP client for catalog.base_url.
func NewConfiguredSource(cfg *config.Config, logger *zap.Logger) (Source, error) {
	if cfg.Catalog.DataDir != "" {
		cat, err := LoadCatalogFromDataDir(cfg.Catalog.DataDir)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Info("using offline catalog",
				zap.String("dir", cfg.Catalog.DataDir),
				zap.Int("cards", len(cat.names)))
		}
		return cat, nil
	}
	return NewClient(
		WithBaseURL(cfg.Catalog.BaseURL),
		WithUserAgent(cfg.Catalog.UserAgent),
		WithHTTPClient(util.NewHTTPClient(cfg.CatalogTimeout())),
		WithLogger(logger),
	), nil
}
