package citydump

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "citydump"

// WriteMetrics writes the run statistics to path in the Prometheus text
// format, for pickup by the node exporter textfile collector.
func WriteMetrics(path string, s Stats) error {
	reg := prometheus.NewRegistry()

	gauge := func(name, help string, v float64) error {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      name,
			Help:      help,
		})
		g.Set(v)
		return reg.Register(g)
	}

	metrics := []struct {
		name, help string
		value      float64
	}{
		{"lines_read", "Input lines read in the last run.", float64(s.LinesRead)},
		{"bad_lines", "Input lines skipped as unparseable in the last run.", float64(s.BadLines)},
		{"records_written", "Records written to the updates array in the last run.", float64(s.Records)},
		{"duration_seconds", "Wall time of the last run.", s.Elapsed.Seconds()},
		{"last_run_timestamp_seconds", "Unix time the last run finished.", float64(time.Now().Unix())},
	}
	for _, m := range metrics {
		if err := gauge(m.name, m.help, m.value); err != nil {
			return fmt.Errorf("registering %s: %w", m.name, err)
		}
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics %s: %w", path, err)
	}
	return nil
}
