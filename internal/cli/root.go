// Package cli implements the citydump command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andreiashu/citydump"
	"github.com/andreiashu/citydump/internal/config"
)

type flags struct {
	configFile  string
	inputName   string
	strict      bool
	compress    string
	download    bool
	metricsFile string
	logLevel    string
	logFile     string
}

// NewRootCommand returns the citydump command.
func NewRootCommand() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "citydump <input-dir> [output-file]",
		Short: "Convert the GeoNames cities1000 dump into a search index bulk-load document",
		Long: `Reads cities1000.txt from the input directory and writes one JSON document
holding the index mapping ("metadata") and one record per city ("updates").

Lines that cannot be parsed are reported and skipped. When the plain file is
missing, cities1000.txt.bz2, .gz, .zst and cities1000.zip are tried in turn.
The finished output is compressed next to the original (bzip2 by default).`,
		Example: `  # Convert ./geonames/cities1000.txt into cities.json and cities.json.bz2
  citydump ./geonames

  # Reject lines with bad numbers instead of zeroing them, no compression
  citydump ./geonames out/cities.json --strict --compress none

  # Fetch cities1000.zip when missing and write node exporter metrics
  citydump ./geonames --download --metrics-file /var/lib/node_exporter/citydump.prom`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configFile)
			if err != nil {
				return err
			}
			applyOverrides(cmd, cfg, &f, args)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.InputDir == "" {
				return errors.New("no input directory given")
			}
			return run(cmd, cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configFile, "config", "", "config file (default is ./"+config.DefaultFile+" if present)")
	fl.StringVar(&f.inputName, "input-name", "", "input file name inside the input directory")
	fl.BoolVar(&f.strict, "strict", false, "reject lines with unparseable numbers or coordinates instead of using 0")
	fl.StringVar(&f.compress, "compress", "", "compress the output with bzip2, gzip, zstd or none")
	fl.BoolVar(&f.download, "download", false, "download the GeoNames archive when the input is missing")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "write run statistics in Prometheus text format to this file")
	fl.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fl.StringVar(&f.logFile, "log-file", "", "also log to this file, rotated by size")

	return cmd
}

// applyOverrides lets positional arguments and explicitly set flags win over
// the config file.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, f *flags, args []string) {
	if len(args) > 0 {
		cfg.InputDir = args[0]
	}
	if len(args) > 1 {
		cfg.Output = args[1]
	}

	changed := cmd.Flags().Changed
	if changed("input-name") {
		cfg.InputName = f.inputName
	}
	if changed("strict") {
		cfg.Strict = f.strict
	}
	if changed("compress") {
		cfg.Compress = f.compress
	}
	if changed("download") {
		cfg.Download = f.download
	}
	if changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-file") {
		cfg.Log.File = f.logFile
	}
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	logger, closer := newLogger(cfg.Log, cmd.ErrOrStderr())
	defer closer.Close()

	comp, err := citydump.NewCompressor(cfg.Compress)
	if err != nil {
		return err
	}

	opts := []citydump.Option{
		citydump.WithInputName(cfg.InputName),
		citydump.WithLogger(logger),
	}
	if comp != nil {
		opts = append(opts, citydump.WithCompressor(comp))
	}
	if cfg.Strict {
		opts = append(opts, citydump.WithParseMode(citydump.ParseStrict))
	}
	if cfg.Download {
		opts = append(opts, citydump.WithDownloadURL(cfg.DownloadURL))
	}

	stats, err := citydump.New(cfg.InputDir, cfg.Output, opts...).Populate()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Done parsing %s with %d bad lines.\n", stats.InputPath, stats.BadLines)
	fmt.Fprintf(cmd.OutOrStdout(), "Found %d cities.\n", stats.Records)

	if cfg.MetricsFile != "" {
		if err := citydump.WriteMetrics(cfg.MetricsFile, stats); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
