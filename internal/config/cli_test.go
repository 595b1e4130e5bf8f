package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
)

func TestLoadCLI_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := LoadCLI("")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultOptions(), c.Options)
	assert.Equal(t, 1, c.Workers)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
}

func TestLoadCLI_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geodigest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
options:
  analysis_type: outlier-detection
  include_clustering: true
  top_performers: 3
workers: 2
`), 0o644))
	t.Setenv("GEODIGEST_WORKERS", "6")
	t.Setenv("GEODIGEST_OPTIONS_MAX_BYTES", "4096")

	c, err := LoadCLI(path)
	require.NoError(t, err)

	assert.Equal(t, domain.AnalysisOutlier, c.Options.AnalysisType)
	assert.True(t, c.Options.IncludeClustering)
	assert.True(t, c.Options.IncludeStatistics)
	assert.Equal(t, 3, c.Options.TopPerformers)
	assert.Equal(t, 5, c.Options.BottomPerformers)
	assert.Equal(t, 4096, c.Options.MaxBytes)
	assert.Equal(t, 6, c.Workers)
}

func TestLoadCLI_MissingFile(t *testing.T) {
	_, err := LoadCLI(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
