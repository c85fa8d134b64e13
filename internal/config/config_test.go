package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Validates(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 5, c.Batch.MaxAssets)
	assert.Equal(t, int64(100_000), c.Analyzer.Classifier.FloorAmount)
	assert.Equal(t, "127.0.0.1:8088", c.Addr())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compintel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
analyzer:
  classifier:
    floor_amount: 250000
  cutoff_year: 2019
batch:
  max_assets: 3
server:
  port: 9000
cache:
  redis_addr: "localhost:6379"
  ttl_seconds: 3600
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(250_000), c.Analyzer.Classifier.FloorAmount)
	assert.Equal(t, 2019, c.Analyzer.CutoffYear)
	assert.Equal(t, 3, c.Batch.MaxAssets)
	assert.Equal(t, "127.0.0.1:9000", c.Addr())
	assert.Equal(t, "localhost:6379", c.Cache.RedisAddr)
	assert.Equal(t, time.Hour, c.CacheTTL())
	// Untouched defaults survive.
	assert.Equal(t, 10*time.Second, c.ReadTimeout())
}

func TestLoad_RejectsBadBatchSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compintel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch:\n  max_assets: 0\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_assets")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
