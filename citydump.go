// Package citydump converts the GeoNames cities1000 dump into a single JSON
// document for bulk-loading into a search index.
//
// The document pairs a static field mapping with the parsed records:
//
//	{ "metadata": { "mapping": {...} }, "updates": [ {...}, ... ] }
//
// Input is read one line at a time so that a malformed line is skipped and
// counted rather than aborting the run.
//
// Example:
//
//	p := citydump.New("./geonames", "cities.json",
//	    citydump.WithCompressor(citydump.Bzip2()))
//	stats, err := p.Populate()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Found %d cities.\n", stats.Records)
package citydump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// DefaultInputName is the file looked up inside the input directory.
const DefaultInputName = "cities1000.txt"

// DefaultOutputPath is used when no output path is given.
const DefaultOutputPath = "cities.json"

// DefaultDownloadURL is the GeoNames distribution archive for cities1000.
const DefaultDownloadURL = "https://download.geonames.org/export/dump/cities1000.zip"

// Config contains the options for a conversion run.
type Config struct {
	InputName   string       // File name inside the input directory (default: cities1000.txt)
	Mode        ParseMode    // Numeric coercion handling (default: ParseLenient)
	Compressor  Compressor   // Run on the finished output; nil disables
	Logger      *slog.Logger // Progress and diagnostics (default: discard)
	DownloadURL string       // Fetched when the input is missing; empty disables
}

// Option is a functional option for configuring a run.
type Option func(*Config)

// WithInputName sets the input file name looked up in the input directory.
func WithInputName(name string) Option {
	return func(c *Config) {
		c.InputName = name
	}
}

// WithParseMode sets how unparseable numeric columns are handled.
func WithParseMode(m ParseMode) Option {
	return func(c *Config) {
		c.Mode = m
	}
}

// WithCompressor sets the hook run on the output file after a successful run.
func WithCompressor(comp Compressor) Option {
	return func(c *Config) {
		c.Compressor = comp
	}
}

// WithLogger sets the logger for progress and bad-line diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithDownloadURL enables fetching the dataset archive from url when no
// input file is found.
func WithDownloadURL(url string) Option {
	return func(c *Config) {
		c.DownloadURL = url
	}
}

func defaultConfig() *Config {
	return &Config{
		InputName: DefaultInputName,
		Mode:      ParseLenient,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newConfig(opts []Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = defaultConfig().Logger
	}
	return cfg
}

// Stats summarizes a run.
type Stats struct {
	InputPath      string
	OutputPath     string
	CompressedPath string // empty if no compressor ran or it failed
	LinesRead      int
	BadLines       int
	Records        int
	Elapsed        time.Duration
}

// Convert reads cities1000 lines from r and writes the JSON document to w.
// Bad lines are logged and counted; only read and write errors are returned.
func Convert(r io.Reader, w io.Writer, opts ...Option) (Stats, error) {
	return convert(r, w, newConfig(opts))
}

func convert(r io.Reader, w io.Writer, cfg *Config) (Stats, error) {
	var stats Stats
	start := time.Now()

	dw := newDocumentWriter(w)
	if err := dw.writeHeader(); err != nil {
		return stats, fmt.Errorf("writing header: %w", err)
	}

	br := bufio.NewReader(r)
	for lineNumber := 1; ; lineNumber++ {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return stats, fmt.Errorf("reading line %d: %w", lineNumber, readErr)
		}
		if line == "" && readErr != nil {
			break
		}
		stats.LinesRead++

		places, err := ParseLine(line, cfg.Mode)
		if err != nil {
			le := &LineError{Line: lineNumber, Text: strings.TrimRight(line, "\r\n"), Err: err}
			cfg.Logger.Warn("bad line", "line", le.Line, "text", le.Text, "err", le.Err)
			stats.BadLines++
		}
		for i := range places {
			if err := dw.writeRecord(&places[i]); err != nil {
				return stats, fmt.Errorf("writing line %d: %w", lineNumber, err)
			}
		}

		if readErr != nil {
			break
		}
	}
	cfg.Logger.Info("done parsing file", "bad_lines", stats.BadLines)

	if err := dw.finish(); err != nil {
		return stats, fmt.Errorf("finishing document: %w", err)
	}
	stats.Records = dw.count()
	stats.Elapsed = time.Since(start)
	return stats, nil
}

// Populator converts the cities file in a directory into an output file.
type Populator struct {
	inputDir   string
	outputPath string
	config     *Config
}

// New creates a Populator reading from inputDir and writing to outputPath.
// An empty outputPath means DefaultOutputPath.
func New(inputDir, outputPath string, opts ...Option) *Populator {
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}
	return &Populator{
		inputDir:   inputDir,
		outputPath: outputPath,
		config:     newConfig(opts),
	}
}

// Populate runs the conversion. Failing to open the input or to create or
// write the output is fatal; a failing compressor is only logged.
func (p *Populator) Populate() (Stats, error) {
	start := time.Now()
	log := p.config.Logger

	in, inputPath, err := p.resolveInput()
	if err != nil {
		return Stats{}, err
	}
	defer in.Close()

	out, err := os.Create(p.outputPath)
	if err != nil {
		return Stats{}, fmt.Errorf("creating output %s: %w", p.outputPath, err)
	}
	closed := false
	defer func() {
		if !closed {
			out.Close()
		}
	}()

	log.Info("parsing file", "path", inputPath)
	stats, err := convert(in, out, p.config)
	stats.InputPath = inputPath
	stats.OutputPath = p.outputPath
	if err != nil {
		return stats, err
	}

	closed = true
	if err := out.Close(); err != nil {
		return stats, fmt.Errorf("closing output %s: %w", p.outputPath, err)
	}
	log.Info("found cities", "count", stats.Records)

	if p.config.Compressor != nil {
		compressed, err := p.config.Compressor.Compress(p.outputPath)
		if err != nil {
			log.Warn("compressing output failed", "path", p.outputPath, "err", err)
		} else {
			stats.CompressedPath = compressed
			log.Info("compressed output", "path", compressed)
		}
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

// resolveInput resolves the input inside the input directory, downloading the
// dataset archive first when enabled and nothing is found.
func (p *Populator) resolveInput() (io.ReadCloser, string, error) {
	rc, path, err := openInput(p.inputDir, p.config.InputName)
	if err == nil || p.config.DownloadURL == "" || !errors.Is(err, os.ErrNotExist) {
		return rc, path, err
	}

	archive := archivePath(p.inputDir, p.config.InputName)
	p.config.Logger.Info("downloading dataset", "url", p.config.DownloadURL, "path", archive)
	if err := downloadDataSet(p.config.DownloadURL, archive); err != nil {
		return nil, "", fmt.Errorf("downloading dataset: %w", err)
	}
	return openInput(p.inputDir, p.config.InputName)
}
