package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"CACHE_BACKEND", "NEO4J_URI", "ADZUNA_COUNTRY", "JSEARCH_HOST", "ADAPTER_TIMEOUT",
		"QUERY_CACHE_TTL", "SEARCH_CACHE_TTL", "SEARCH_HISTORY_SIZE", "ADAPTER_RPS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fr", cfg.Adzuna.Country)
	assert.Equal(t, "jsearch.p.rapidapi.com", cfg.JSearch.Host)
	assert.Equal(t, 15*time.Second, cfg.AdapterTimeout)
	assert.Equal(t, 10*time.Minute, cfg.QueryCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.SearchCacheTTL)
	assert.Equal(t, 10, cfg.SearchHistorySize)
	assert.Equal(t, BackendSQLite, cfg.CacheBackend)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoad_ListsEveryInvalidKey(t *testing.T) {
	t.Setenv("ADAPTER_TIMEOUT", "soon")
	t.Setenv("SEARCH_HISTORY_SIZE", "-3")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "")
	t.Setenv("NEO4J_URI", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADAPTER_TIMEOUT")
	assert.Contains(t, err.Error(), "SEARCH_HISTORY_SIZE")
	assert.Contains(t, err.Error(), "REDIS_URL")
}

func TestLoad_ArchiveNeedsCredentials(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")
	t.Setenv("NEO4J_USERNAME", "")
	t.Setenv("NEO4J_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEO4J_USERNAME, NEO4J_PASSWORD")
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("NEO4J_URI", "")
	t.Setenv("JSEARCH_API_KEY", "")
	require.NoError(t, os.Unsetenv("JSEARCH_API_KEY"))
	t.Setenv("ADZUNA_COUNTRY", "gb")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JSEARCH_API_KEY=from-file\nADZUNA_COUNTRY=de\n"), 0o600))

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "gb", cfg.Adzuna.Country)
	assert.Equal(t, "from-file", cfg.JSearch.APIKey)
}
