package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 4, cfg.Planner.Years)
	assert.Equal(t, 125, cfg.Planner.DefaultTotalCredits)
	assert.Equal(t, 3.2, cfg.Planner.DefaultTargetGPA)
	assert.Equal(t, DefaultPeerDatasets, cfg.Peers.Datasets)
	assert.Equal(t, 6*time.Hour, cfg.Peers.CacheTTL)
	assert.False(t, cfg.Exports.Enabled)
	assert.Equal(t, time.Hour, cfg.Exports.SignedURLTTL)
	assert.True(t, cfg.Exports.CSVByteOrderMark)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", EnvProduction)
	t.Setenv("PLANNER_TOTAL_CREDITS", "121")
	t.Setenv("ENABLE_PEER_SYNC", "true")
	t.Setenv("PEER_CACHE_TTL", "15m")
	t.Setenv("PEER_DATASETS", "hk1_2526|HK1 2025-2026|https://example.test/hk1.tsv; broken ;hk2_2526|HK2 2025-2026|https://example.test/hk2.tsv")
	t.Setenv("ALLOWED_ORIGINS", "https://planner.example.test, http://localhost:5173 ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, 121, cfg.Planner.DefaultTotalCredits)
	assert.True(t, cfg.Peers.SyncOnStart)
	assert.Equal(t, 15*time.Minute, cfg.Peers.CacheTTL)
	require.Len(t, cfg.Peers.Datasets, 2)
	assert.Equal(t, PeerDatasetConfig{ID: "hk1_2526", Name: "HK1 2025-2026", URL: "https://example.test/hk1.tsv"}, cfg.Peers.Datasets[0])
	assert.Equal(t, "hk2_2526", cfg.Peers.Datasets[1].ID)
	assert.Equal(t, []string{"https://planner.example.test", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 90*time.Second, parseDuration("90s", time.Minute))
}
