package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/data/input", cfg.Input.Dir)
	assert.True(t, cfg.Input.SkipHidden)
	assert.Equal(t, 4, cfg.Ingest.Workers)
	assert.Equal(t, 3, cfg.Ingest.RetryCount)
	assert.Equal(t, 500*time.Millisecond, cfg.Ingest.RetryDelay)

	// All targets are opt-in.
	assert.False(t, cfg.Postgres.Enabled)
	assert.False(t, cfg.MySQL.Enabled)
	assert.False(t, cfg.MongoDB.Enabled)
	assert.False(t, cfg.Elastic.Enabled)
	assert.Equal(t, "documents", cfg.Elastic.Index)
}

func TestLoadFromFile(t *testing.T) {
	content := `
input:
  dir: /srv/docs
  extensions: [txt, md]
ingest:
  workers: 8
  retry_count: 5
postgres:
  enabled: true
  required: true
  host: db.internal
  port: 5433
elasticsearch:
  enabled: true
  url: http://search:9200
  index: corpus
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/docs", cfg.Input.Dir)
	assert.Equal(t, []string{"txt", "md"}, cfg.Input.Extensions)
	assert.Equal(t, 8, cfg.Ingest.Workers)
	assert.Equal(t, 5, cfg.Ingest.RetryCount)

	assert.True(t, cfg.Postgres.Enabled)
	assert.True(t, cfg.Postgres.Required)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
	// Unset values keep their defaults.
	assert.Equal(t, "kreuzberg", cfg.Postgres.Database)

	assert.True(t, cfg.Elastic.Enabled)
	assert.Equal(t, "corpus", cfg.Elastic.Index)
}

func TestLoadConfigPathEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))
	t.Setenv("KREUZBERG_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadCredentialsFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	t.Setenv("ELASTICSEARCH_URL", "http://es.internal:9200")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Postgres.Password)
	assert.Equal(t, "http://es.internal:9200", cfg.Elastic.URL)
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":::not yaml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
