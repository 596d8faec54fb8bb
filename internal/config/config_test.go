package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "chromem", cfg.Provider)
	assert.Equal(t, "localhost", cfg.Qdrant.Host)
	assert.Equal(t, 6334, cfg.Qdrant.Port)
	assert.Equal(t, "cosine", cfg.Qdrant.Metric)
	assert.Equal(t, "./bevec_db", cfg.Chromem.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BEVEC_PROVIDER", "qdrant")
	t.Setenv("BEVEC_QDRANT_HOST", "qdrant.example.com")
	t.Setenv("BEVEC_QDRANT_API_KEY", "secret")
	t.Setenv("BEVEC_CHROMEM_PATH", "/tmp/vectors")
	t.Setenv("BEVEC_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "qdrant", cfg.Provider)
	assert.Equal(t, "qdrant.example.com", cfg.Qdrant.Host)
	assert.Equal(t, "secret", cfg.Qdrant.APIKey)
	assert.Equal(t, "/tmp/vectors", cfg.Chromem.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_QdrantAPIKeyFallback(t *testing.T) {
	t.Setenv("QDRANT_API_KEY", "sdk-var")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sdk-var", cfg.Qdrant.APIKey)
}

func TestLoad_PrefixedKeyWinsOverFallback(t *testing.T) {
	t.Setenv("BEVEC_QDRANT_API_KEY", "prefixed")
	t.Setenv("QDRANT_API_KEY", "sdk-var")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Qdrant.APIKey)
}

func TestLoadWithFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`provider: qdrant
qdrant:
  host: vectors.internal
  port: 7334
  metric: euclidean
logging:
  level: warn
  format: console
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "qdrant", cfg.Provider)
	assert.Equal(t, "vectors.internal", cfg.Qdrant.Host)
	assert.Equal(t, 7334, cfg.Qdrant.Port)
	assert.Equal(t, "euclidean", cfg.Qdrant.Metric)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: chromem\n"), 0o644))

	t.Setenv("BEVEC_PROVIDER", "qdrant")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "qdrant", cfg.Provider)
}

func TestLoadWithFile_MissingFile(t *testing.T) {
	_, err := LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_ValidationFailures(t *testing.T) {
	t.Run("unsupported provider", func(t *testing.T) {
		t.Setenv("BEVEC_PROVIDER", "pinecone")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported provider")
	})

	t.Run("invalid metric", func(t *testing.T) {
		t.Setenv("BEVEC_QDRANT_METRIC", "manhattan")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid qdrant metric")
	})
}
