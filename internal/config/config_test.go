package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "citydump.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "cities1000.txt", cfg.InputName)
	assert.Equal(t, "cities.json", cfg.Output)
	assert.Equal(t, "bzip2", cfg.Compress)
	assert.False(t, cfg.Strict)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
input_dir: /data/geonames
output: /data/out/cities.json
strict: true
compress: zstd
metrics_file: /var/lib/node_exporter/citydump.prom
log:
  level: debug
  file: /var/log/citydump.log
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/geonames", cfg.InputDir)
	assert.Equal(t, "/data/out/cities.json", cfg.Output)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "zstd", cfg.Compress)
	assert.Equal(t, "/var/lib/node_exporter/citydump.prom", cfg.MetricsFile)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/log/citydump.log", cfg.Log.File)

	// Unset keys keep their defaults.
	assert.Equal(t, "cities1000.txt", cfg.InputName)
	assert.Equal(t, 32, cfg.Log.MaxSizeMB)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadNoDefaultFile(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDefaultFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("compress: gzip\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gzip", cfg.Compress)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "compress: [", "failed to parse config file"},
		{"bad compress", "compress: lzma", `invalid compress "lzma"`},
		{"bad level", "log:\n  level: loud", `invalid log level "loud"`},
		{"empty input name", `input_name: ""`, "input_name must not be empty"},
		{"download without url", "download: true\ndownload_url: \"\"", "download_url is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
