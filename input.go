package citydump

import (
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// readCloser pairs a decoding reader with the cleanup for everything
// underneath it.
type readCloser struct {
	io.Reader
	close func() error
}

func (rc readCloser) Close() error {
	return rc.close()
}

// inputDecoder opens a compressed sibling of the input file.
type inputDecoder struct {
	ext  string
	open func(f *os.File) (io.ReadCloser, error)
}

var inputDecoders = []inputDecoder{
	{".bz2", func(f *os.File) (io.ReadCloser, error) {
		return readCloser{bzip2.NewReader(f), f.Close}, nil
	}},
	{".gz", func(f *os.File) (io.ReadCloser, error) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		return readCloser{zr, func() error {
			zr.Close()
			return f.Close()
		}}, nil
	}},
	{".zst", func(f *os.File) (io.ReadCloser, error) {
		zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return readCloser{zr, func() error {
			zr.Close()
			return f.Close()
		}}, nil
	}},
}

// archivePath returns where the GeoNames zip for name lives in dir, e.g.
// cities1000.txt -> dir/cities1000.zip.
func archivePath(dir, name string) string {
	return filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+".zip")
}

// openInput opens name inside dir. The plain file wins; otherwise bzip2,
// gzip and zstd siblings are tried, then the distribution zip. The returned
// path names what was actually opened.
func openInput(dir, name string) (io.ReadCloser, string, error) {
	path := filepath.Join(dir, name)
	fh, err := os.Open(path)
	if err == nil {
		return fh, path, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("opening %s: %w", path, err)
	}

	for _, d := range inputDecoders {
		candidate := path + d.ext
		fh, err := os.Open(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("opening %s: %w", candidate, err)
		}
		rc, err := d.open(fh)
		if err != nil {
			fh.Close()
			return nil, "", fmt.Errorf("decoding %s: %w", candidate, err)
		}
		return rc, candidate, nil
	}

	rc, err := openZipEntry(archivePath(dir, name), name)
	if err == nil {
		return rc, filepath.Join(archivePath(dir, name), name), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, "", err
	}
	return nil, "", fmt.Errorf("opening %s: %w", path, fs.ErrNotExist)
}

// openZipEntry streams the entry called name out of the archive. The zip is
// only read, never extracted to disk.
func openZipEntry(archive, name string) (io.ReadCloser, error) {
	rz, err := zip.OpenReader(archive)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("opening zip file %s: %w", archive, err)
	}

	for _, f := range rz.File {
		if filepath.Base(f.Name) != name {
			continue
		}
		fi, err := f.Open()
		if err != nil {
			rz.Close()
			return nil, fmt.Errorf("opening %s in zip: %w", f.Name, err)
		}
		return readCloser{fi, func() error {
			fi.Close()
			return rz.Close()
		}}, nil
	}
	rz.Close()
	return nil, fmt.Errorf("%s has no entry %s: %w", archive, name, fs.ErrNotExist)
}
