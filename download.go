package citydump

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// The GeoNames cities1000 archive is under 10MB, but the mirror can be slow.
var downloadClient = &http.Client{
	Timeout: 5 * time.Minute,
}

// downloadDataSet fetches the archive at url into path. The body is streamed
// into path.part and renamed once complete, so an interrupted fetch never
// leaves something that looks like an archive behind.
func downloadDataSet(url, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("preparing %s: %w", filepath.Dir(path), err)
	}

	partial := path + ".part"
	if err := fetchArchive(url, partial); err != nil {
		os.Remove(partial)
		return err
	}
	if err := os.Rename(partial, path); err != nil {
		os.Remove(partial)
		return fmt.Errorf("saving archive %s: %w", path, err)
	}
	return nil
}

func fetchArchive(url, dst string) error {
	resp, err := downloadClient.Get(url)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("saving archive: %w", err)
	}
	n, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil {
		return fmt.Errorf("fetching %s: body cut off after %d bytes: %w", url, n, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("saving archive: %w", closeErr)
	}
	return nil
}
