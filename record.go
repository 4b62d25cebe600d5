package citydump

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/golang/geo/s2"
)

// minColumns is the number of leading cities1000 columns a row must carry.
// The GeoNames dump has 19; the trailing ones are ignored.
const minColumns = 17

// Column positions in a cities1000 row.
const (
	colID = iota
	colName
	colASCIIName
	colAlternateNames
	colLatitude
	colLongitude
	colFeatureClass
	colFeatureCode
	colCountryCode
	colAlternateCountryCodes
	colAdmin1
	colAdmin2
	colAdmin3
	colAdmin4
	colPopulation
	colElevation
	colTimezone
)

var (
	// ErrTooFewColumns is returned for a row with fewer than 17 columns.
	ErrTooFewColumns = errors.New("too few columns")
	// ErrInvalidNumber is returned in strict mode for an unparseable numeric column.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrInvalidCoordinate is returned in strict mode for a missing or out of range coordinate.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInvalidEncoding is returned for a line that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid UTF-8")
)

// ParseMode controls how numeric columns that fail to parse are handled.
type ParseMode int

const (
	// ParseLenient replaces unparseable numbers with zero.
	ParseLenient ParseMode = iota
	// ParseStrict rejects the line instead.
	ParseStrict
)

func (m ParseMode) String() string {
	switch m {
	case ParseLenient:
		return "lenient"
	case ParseStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// Location is a WGS84 coordinate in degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is one city record as written to the updates array.
type Place struct {
	ID                    string   `json:"_id"`
	Name                  string   `json:"name"`
	ASCIIName             string   `json:"asciiName"`
	AlternateNames        []string `json:"alternateNames"`
	Location              Location `json:"location"`
	FeatureClass          string   `json:"featureClass"`
	FeatureCode           string   `json:"featureCode"`
	CountryCode           string   `json:"countryCode"`
	AlternateCountryCodes []string `json:"alternateCountryCodes"`
	Admin1Code            string   `json:"admin1Code"`
	Admin2Code            string   `json:"admin2Code"`
	Admin3Code            string   `json:"admin3Code"`
	Admin4Code            string   `json:"admin4Code"`
	Population            int64    `json:"population"`
	ElevationInMeters     float64  `json:"elevationInMeters"`
	Timezone              string   `json:"timezone"`
}

// LineError describes an input line that was skipped.
type LineError struct {
	Line int    // 1-based line number
	Text string // raw line without the trailing newline
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseLine parses one raw input line into the places it holds.
//
// The line is read as tab-delimited text with double-quote quoting, so a
// single line can in principle yield zero or several logical rows. A blank
// line yields none. If any row fails, no places are returned for the line.
// Lines that are not valid UTF-8 are rejected whole.
func ParseLine(line string, mode ParseMode) ([]Place, error) {
	if !utf8.ValidString(line) {
		return nil, ErrInvalidEncoding
	}

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	var places []Place
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		p, err := placeFromRow(row, mode)
		if err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, nil
}

func placeFromRow(row []string, mode ParseMode) (Place, error) {
	if len(row) < minColumns {
		return Place{}, fmt.Errorf("%w: got %d, want at least %d", ErrTooFewColumns, len(row), minColumns)
	}

	lat, err := parseCoordinate(row[colLatitude], "latitude", mode)
	if err != nil {
		return Place{}, err
	}
	lon, err := parseCoordinate(row[colLongitude], "longitude", mode)
	if err != nil {
		return Place{}, err
	}
	if mode == ParseStrict && !s2.LatLngFromDegrees(lat, lon).IsValid() {
		return Place{}, fmt.Errorf("%w: (%v, %v) out of range", ErrInvalidCoordinate, lat, lon)
	}

	pop, err := parseInt(row[colPopulation], "population", mode)
	if err != nil {
		return Place{}, err
	}
	elev, err := parseFloat(row[colElevation], "elevation", mode)
	if err != nil {
		return Place{}, err
	}

	return Place{
		ID:                    row[colID],
		Name:                  row[colName],
		ASCIIName:             row[colASCIIName],
		AlternateNames:        splitList(row[colAlternateNames]),
		Location:              Location{Lat: lat, Lon: lon},
		FeatureClass:          row[colFeatureClass],
		FeatureCode:           row[colFeatureCode],
		CountryCode:           row[colCountryCode],
		AlternateCountryCodes: splitList(row[colAlternateCountryCodes]),
		Admin1Code:            row[colAdmin1],
		Admin2Code:            row[colAdmin2],
		Admin3Code:            row[colAdmin3],
		Admin4Code:            row[colAdmin4],
		Population:            pop,
		ElevationInMeters:     elev,
		Timezone:              row[colTimezone],
	}, nil
}

// parseCoordinate is parseFloat except that strict mode also refuses an
// empty value.
func parseCoordinate(s, field string, mode ParseMode) (float64, error) {
	if mode == ParseStrict && strings.TrimSpace(s) == "" {
		return 0, fmt.Errorf("%w: empty %s", ErrInvalidCoordinate, field)
	}
	return parseFloat(s, field, mode)
}

// parseFloat returns 0 for empty input. Non-finite values count as
// unparseable since they have no JSON representation.
func parseFloat(s, field string, mode ParseMode) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f, nil
	}
	if mode == ParseStrict {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidNumber, field, s)
	}
	return 0, nil
}

func parseInt(s, field string, mode ParseMode) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return n, nil
	}
	if mode == ParseStrict {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidNumber, field, s)
	}
	return 0, nil
}

var listSep = regexp.MustCompile(`\s*,\s*`)

// splitList splits a comma-separated column. Empty input gives an empty,
// non-nil slice so it encodes as []. Trailing empty elements are dropped.
func splitList(s string) []string {
	parts := listSep.Split(strings.TrimSpace(s), -1)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
