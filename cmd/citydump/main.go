// Command citydump converts the GeoNames cities1000 dump into a JSON
// bulk-load document for a search index.
//
// Usage:
//
//	go run ./cmd/citydump <input-dir> [output-file]
//
// This reads <input-dir>/cities1000.txt and writes cities.json (or the given
// output file), then compresses it to cities.json.bz2 keeping the original.
package main

import (
	"fmt"
	"os"

	"github.com/andreiashu/citydump/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
