package citydump

import (
	"github.com/iancoleman/orderedmap"
)

// Index treatments used by the mapping header.
const (
	indexAnalyzed    = "analyzed"
	indexNotAnalyzed = "not_analyzed"
	indexNo          = "no"
)

type fieldSpec struct {
	name  string
	typ   string
	index string // empty means the index setting is omitted
}

// placeFields lists the mapped record fields in header order. _id is not
// part of the mapping.
var placeFields = []fieldSpec{
	{"name", "string", indexAnalyzed},
	{"asciiName", "string", indexAnalyzed},
	{"alternateNames", "string", indexAnalyzed},
	{"location", "geo_point", ""},
	{"featureClass", "string", indexNotAnalyzed},
	{"featureCode", "string", indexNotAnalyzed},
	{"countryCode", "string", indexNotAnalyzed},
	{"alternateCountryCodes", "string", indexNotAnalyzed},
	{"admin1Code", "string", indexNotAnalyzed},
	{"admin2Code", "string", indexNotAnalyzed},
	{"admin3Code", "string", indexNotAnalyzed},
	{"admin4Code", "string", indexNotAnalyzed},
	{"population", "long", ""},
	{"elevationInMeters", "float", indexNo},
	{"timezone", "string", indexNotAnalyzed},
}

// Metadata returns the static index mapping written ahead of the records.
// It does not depend on the input.
func Metadata() *orderedmap.OrderedMap {
	all := orderedmap.New()
	all.Set("enabled", false)

	props := orderedmap.New()
	for _, f := range placeFields {
		spec := orderedmap.New()
		spec.Set("type", f.typ)
		if f.index != "" {
			spec.Set("index", f.index)
		}
		props.Set(f.name, spec)
	}

	mapping := orderedmap.New()
	mapping.Set("_all", all)
	mapping.Set("properties", props)

	md := orderedmap.New()
	md.Set("mapping", mapping)
	return md
}
