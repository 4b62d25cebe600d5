package citydump

import (
	"strings"
)

// anyvilleLine is a well-formed 17 column cities1000 line.
const anyvilleLine = "3041565\tAnyville\tAnyville\tAnyville,AV\t42.5\t1.5\tP\tPPL\tAD\t\t06\t\t\t\t100\t1000\tEurope/Andorra\n"

// anyvilleColumns returns the columns of anyvilleLine.
func anyvilleColumns() []string {
	return strings.Split(strings.TrimSuffix(anyvilleLine, "\n"), "\t")
}

// cityLine builds an input line from anyvilleLine with the given columns
// replaced.
func cityLine(overrides map[int]string) string {
	cols := anyvilleColumns()
	for i, v := range overrides {
		cols[i] = v
	}
	return strings.Join(cols, "\t") + "\n"
}

// anyvillePlace is what anyvilleLine parses to.
func anyvillePlace() Place {
	return Place{
		ID:                    "3041565",
		Name:                  "Anyville",
		ASCIIName:             "Anyville",
		AlternateNames:        []string{"Anyville", "AV"},
		Location:              Location{Lat: 42.5, Lon: 1.5},
		FeatureClass:          "P",
		FeatureCode:           "PPL",
		CountryCode:           "AD",
		AlternateCountryCodes: []string{},
		Admin1Code:            "06",
		Admin2Code:            "",
		Admin3Code:            "",
		Admin4Code:            "",
		Population:            100,
		ElevationInMeters:     1000,
		Timezone:              "Europe/Andorra",
	}
}
