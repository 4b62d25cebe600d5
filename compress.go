package citydump

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compressor produces a compressed sibling of a finished output file and
// returns its path. The original file is left in place.
type Compressor interface {
	Compress(path string) (string, error)
}

// CompressorFunc adapts a function to a Compressor.
type CompressorFunc func(path string) (string, error)

func (f CompressorFunc) Compress(path string) (string, error) {
	return f(path)
}

// ExecCompressor runs an external utility as `Name Args... -- path`.
type ExecCompressor struct {
	Name   string
	Args   []string
	Suffix string // appended to path to name the artifact
}

// Bzip2 returns the `bzip2 -kf` compressor.
func Bzip2() ExecCompressor {
	return ExecCompressor{Name: "bzip2", Args: []string{"-kf"}, Suffix: ".bz2"}
}

func (c ExecCompressor) Compress(path string) (string, error) {
	out, err := exec.Command(c.Name, c.args(path)...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("running %s: %w: %s", c.Name, err, bytes.TrimSpace(out))
	}
	return path + c.Suffix, nil
}

// args ends option parsing before path so a name like "-out.json" is not
// taken for a flag.
func (c ExecCompressor) args(path string) []string {
	args := append([]string(nil), c.Args...)
	return append(args, "--", path)
}

// GzipCompressor writes path.gz in-process.
type GzipCompressor struct {
	Level int // gzip.DefaultCompression if zero
}

func (c GzipCompressor) Compress(path string) (string, error) {
	level := c.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	return compressFile(path, path+".gz", func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriterLevel(w, level)
	})
}

// ZstdCompressor writes path.zst in-process.
type ZstdCompressor struct {
	Level zstd.EncoderLevel // zstd.SpeedDefault if zero
}

func (c ZstdCompressor) Compress(path string) (string, error) {
	level := c.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	return compressFile(path, path+".zst", func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(level))
	})
}

// NewCompressor returns the compressor registered under name: "bzip2",
// "gzip", "zstd", or "none"/"" for no compression (nil).
func NewCompressor(name string) (Compressor, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "bzip2":
		return Bzip2(), nil
	case "gzip":
		return GzipCompressor{}, nil
	case "zstd":
		return ZstdCompressor{}, nil
	default:
		return nil, fmt.Errorf("unknown compressor %q", name)
	}
}

// compressFile streams src through the encoder into dst, overwriting dst.
// A partial dst is removed on failure.
func compressFile(src, dst string, newEncoder func(io.Writer) (io.WriteCloser, error)) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dst, err)
	}
	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(dst)
		}
	}()

	enc, err := newEncoder(out)
	if err != nil {
		return "", fmt.Errorf("creating encoder for %s: %w", dst, err)
	}
	if _, err := io.Copy(enc, in); err != nil {
		enc.Close()
		return "", fmt.Errorf("compressing %s: %w", src, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("compressing %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", dst, err)
	}
	success = true
	return dst, nil
}
