package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/hostmap/hostmap/internal/config"
	"github.com/hostmap/hostmap/internal/core/cache"
	"github.com/hostmap/hostmap/internal/core/store"
	"github.com/hostmap/hostmap/internal/extract"
	"github.com/hostmap/hostmap/internal/llm"
	"github.com/hostmap/hostmap/internal/resolve"
	"github.com/hostmap/hostmap/internal/source"
)

// runtimeDeps bundles the configured resolution components for a command
// invocation. Close releases the persistent cache store when one was
// opened.
type runtimeDeps struct {
	Config     *config.Config
	Pipeline   *resolve.Pipeline
	Aggregator *resolve.Aggregator
	Groups     *resolve.GroupResolver
	Contacts   *resolve.ContactResolver
	Cache      cache.Cache

	store *store.Store
}

// Close releases resources held by the dependencies.
func (d *runtimeDeps) Close() {
	if d != nil && d.store != nil {
		// nolint:errcheck // best-effort cleanup
		_ = d.store.Close()
	}
}

// loadConfig decodes the merged viper settings into the typed config.
func loadConfig() (*config.Config, error) {
	return config.Decode(viper.AllSettings())
}

// buildDeps constructs the full resolution stack from configuration.
func buildDeps(ctx context.Context) (*runtimeDeps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	deps := &runtimeDeps{Config: cfg}

	if cfg.Cache.Enabled && !noCache {
		lookupCache, st, err := buildCache(ctx, cfg.Cache)
		if err != nil {
			return nil, err
		}
		deps.Cache = lookupCache
		deps.store = st
	}

	assetsPath := strings.TrimSpace(cfg.Sources.Assets.Path)
	if assetsPath == "" {
		return nil, errors.New("sources.assets.path is required")
	}
	contactsPath := strings.TrimSpace(cfg.Sources.Contacts.Path)
	if contactsPath == "" {
		return nil, errors.New("sources.contacts.path is required")
	}

	deps.Groups = &resolve.GroupResolver{
		Source:         &source.CSVSource{Path: assetsPath},
		Cache:          deps.Cache,
		UseCache:       deps.Cache != nil,
		HostnameColumn: cfg.Sources.Assets.HostnameColumn,
		GroupColumn:    cfg.Sources.Assets.GroupColumn,
	}
	deps.Contacts = &resolve.ContactResolver{
		Source:   &source.CSVSource{Path: contactsPath},
		Cache:    deps.Cache,
		UseCache: deps.Cache != nil,
		Columns: resolve.ContactColumns{
			Group:       cfg.Sources.Contacts.GroupColumn,
			Owner:       cfg.Sources.Contacts.OwnerColumn,
			Emails:      cfg.Sources.Contacts.EmailsColumn,
			Individuals: cfg.Sources.Contacts.IndividualsColumn,
			Notes:       cfg.Sources.Contacts.NotesColumn,
		},
	}

	extractor, err := buildExtractor(cfg)
	if err != nil {
		return nil, err
	}

	deps.Pipeline = &resolve.Pipeline{
		Extractor: extractor,
		Groups:    deps.Groups,
		Contacts:  deps.Contacts,
	}
	deps.Aggregator = &resolve.Aggregator{
		Extractor: extractor,
		Groups:    deps.Groups,
		Contacts:  deps.Contacts,
	}

	return deps, nil
}

// buildCache constructs the configured cache backend. The second return is
// non-nil only for the libsql driver and must be closed by the caller.
func buildCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, *store.Store, error) {
	switch strings.TrimSpace(cfg.Driver) {
	case "", "memory":
		return cache.NewMemory(cfg.TTL), nil, nil
	case "libsql":
		st, err := store.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, nil, err
		}
		return store.NewCache(st, cfg.TTL), st, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache driver: %s", cfg.Driver)
	}
}

// buildExtractor constructs the configured extraction strategy.
func buildExtractor(cfg *config.Config) (extract.Extractor, error) {
	if !cfg.UsesModelStrategy() {
		return &extract.PatternExtractor{Marker: cfg.Extract.Marker}, nil
	}

	if strings.TrimSpace(cfg.Extract.Model.APIKey) == "" {
		return nil, errors.New("extract.model.api_key is required for the model strategy")
	}

	client := llm.NewClient(cfg.Extract.Model.BaseURL, cfg.Extract.Model.APIKey)
	client.Timeout = cfg.Extract.Model.Timeout

	return &extract.ModelExtractor{
		Client:      client,
		Model:       cfg.Extract.Model.Model,
		Temperature: cfg.Extract.Model.Temperature,
	}, nil
}
