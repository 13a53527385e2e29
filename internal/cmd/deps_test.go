package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hostmap/hostmap/internal/config"
	"github.com/hostmap/hostmap/internal/core/cache"
	"github.com/hostmap/hostmap/internal/extract"
)

func TestBuildExtractorPattern(t *testing.T) {
	cfg := &config.Config{}
	cfg.Extract.Strategy = "pattern"
	cfg.Extract.Marker = "Host="

	extractor, err := buildExtractor(cfg)
	require.NoError(t, err)

	pattern, ok := extractor.(*extract.PatternExtractor)
	require.True(t, ok)
	require.Equal(t, "Host=", pattern.Marker)
}

func TestBuildExtractorModelRequiresAPIKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.Extract.Strategy = "model"
	cfg.Extract.Model.Model = "gpt-4o-mini"

	_, err := buildExtractor(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "api_key")
}

func TestBuildExtractorModel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Extract.Strategy = "model"
	cfg.Extract.Model.APIKey = "sk-test"
	cfg.Extract.Model.Model = "gpt-4o-mini"
	cfg.Extract.Model.Temperature = 0.1
	cfg.Extract.Model.Timeout = 30 * time.Second

	extractor, err := buildExtractor(cfg)
	require.NoError(t, err)

	model, ok := extractor.(*extract.ModelExtractor)
	require.True(t, ok)
	require.Equal(t, "gpt-4o-mini", model.Model)
}

func TestBuildCacheMemoryDriver(t *testing.T) {
	lookupCache, st, err := buildCache(context.Background(), config.CacheConfig{
		Driver: "memory",
		TTL:    time.Hour,
	})
	require.NoError(t, err)
	require.Nil(t, st)

	_, ok := lookupCache.(*cache.Memory)
	require.True(t, ok)
}

func TestBuildCacheRejectsUnknownDriver(t *testing.T) {
	_, _, err := buildCache(context.Background(), config.CacheConfig{Driver: "redis"})
	require.Error(t, err)
}
