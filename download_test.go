package citydump

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulateDownloadsMissingInput(t *testing.T) {
	archive := zipBytes(t, DefaultInputName, []byte(anyvilleLine))
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write(archive)
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "geonames")
	output := filepath.Join(t.TempDir(), "cities.json")
	stats, err := New(dir, output, WithDownloadURL(srv.URL+"/cities1000.zip")).Populate()
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
	assert.Equal(t, 1, stats.Records)
	assert.FileExists(t, filepath.Join(dir, "cities1000.zip"))

	// The archive is now local, so a second run does not fetch again.
	_, err = New(dir, output, WithDownloadURL(srv.URL+"/cities1000.zip")).Populate()
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestPopulateSkipsDownloadWhenInputExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	}))
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultInputName), []byte(anyvilleLine), 0644))
	_, err := New(dir, filepath.Join(dir, "out.json"), WithDownloadURL(srv.URL)).Populate()
	require.NoError(t, err)
}

func TestDownloadDataSetHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "data", "cities1000.zip")
	err := downloadDataSet(srv.URL, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.NoFileExists(t, path)
	assert.NoFileExists(t, path+".part")
}

func TestDownloadDataSetTruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Promise more than is sent so the copy fails mid-stream.
		w.Header().Set("Content-Length", "1000")
		w.Write([]byte("partial"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "cities1000.zip")
	err := downloadDataSet(srv.URL, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "body cut off")
	assert.NoFileExists(t, path)
	assert.NoFileExists(t, path+".part")
}
