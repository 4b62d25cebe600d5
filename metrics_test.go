package citydump

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citydump.prom")
	err := WriteMetrics(path, Stats{LinesRead: 10, BadLines: 2, Records: 7, Elapsed: 1500 * time.Millisecond})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "citydump_lines_read 10\n")
	assert.Contains(t, text, "citydump_bad_lines 2\n")
	assert.Contains(t, text, "citydump_records_written 7\n")
	assert.Contains(t, text, "citydump_duration_seconds 1.5\n")
	assert.Contains(t, text, "# TYPE citydump_last_run_timestamp_seconds gauge")
}

func TestWriteMetricsBadPath(t *testing.T) {
	err := WriteMetrics(filepath.Join(t.TempDir(), "missing", "citydump.prom"), Stats{})
	assert.Error(t, err)
}
