package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Server contains HTTP listener settings.
type Server struct {
	Bind string `toml:"bind"`
	Mode string `toml:"mode"` // gin mode: debug, release, test
}

// Catalog contains card catalog settings. When DataDir is set the CSV
// catalog in that directory is used instead of the HTTP API.
type Catalog struct {
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	SearchLimit    int    `toml:"search_limit"`
	DataDir        string `toml:"data_dir"`
}

// Store contains payload store settings.
type Store struct {
	Dir        string `toml:"dir"`
	CacheBytes uint64 `toml:"cache_bytes"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json or console
}

// Share contains QR and share image settings.
type Share struct {
	QRSize int `toml:"qr_size"`
	MaxArt int `toml:"max_art"`
}

// Config encapsulates all configuration values.
type Config struct {
	Server  Server  `toml:"server"`
	Catalog Catalog `toml:"catalog"`
	Store   Store   `toml:"store"`
	Logging Logging `toml:"logging"`
	Share   Share   `toml:"share"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Bind: ":8080",
			Mode: "release",
		},
		Catalog: Catalog{
			BaseURL:        "https://api.scryfall.com",
			UserAgent:      "decklist/1.0",
			TimeoutSeconds: 12,
			SearchLimit:    20,
		},
		Store: Store{
			Dir:        "~/.local/share/decklist/blocks",
			CacheBytes: 1024 * 1024,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Share: Share{
			QRSize: 400,
			MaxArt: 10,
		},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/decklist/config.toml")
}

// Load reads path (or the default location when empty), applies defaults,
// normalizes and validates. It reports the resolved path and whether the
// file existed; a missing file is not an error.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Server.Bind = withPort(cfg.Server.Bind, port)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// CatalogTimeout returns the catalog request timeout as a duration.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
	} else {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		path = expanded
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return path, true, nil
}

func (c *Config) normalize() error {
	c.Server.Mode = strings.ToLower(strings.TrimSpace(c.Server.Mode))
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	var err error
	if c.Store.Dir, err = expandPath(c.Store.Dir); err != nil {
		return fmt.Errorf("store dir: %w", err)
	}
	if c.Catalog.DataDir != "" {
		if c.Catalog.DataDir, err = expandPath(c.Catalog.DataDir); err != nil {
			return fmt.Errorf("catalog data dir: %w", err)
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test (got %q)", c.Server.Mode)
	}
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind: %w", err)
	}
	if c.Catalog.DataDir == "" && c.Catalog.BaseURL == "" {
		return errors.New("catalog.base_url or catalog.data_dir is required")
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		return errors.New("catalog.timeout_seconds must be positive")
	}
	if c.Catalog.SearchLimit <= 0 {
		return errors.New("catalog.search_limit must be positive")
	}
	if c.Store.Dir == "" {
		return errors.New("store.dir is required")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console (got %q)", c.Logging.Format)
	}
	if c.Share.QRSize < 64 {
		return errors.New("share.qr_size must be at least 64")
	}
	if c.Share.MaxArt < 0 {
		return errors.New("share.max_art must not be negative")
	}
	return nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}

func withPort(bind, port string) string {
	host, _, err := net.SplitHostPort(bind)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, port)
}
