// Package propellant holds the versioned table of propellant gas constants.
package propellant

import (
	"sort"
	"strings"
)

// TableVersion identifies the revision of the constants below. Bump it whenever
// a K or R value changes so exported results can be traced to their inputs.
const TableVersion = "2024.1"

// Entry holds the exhaust gas constants for one propellant combination.
type Entry struct {
	ID   string  `json:"id" yaml:"id"`
	Name string  `json:"name" yaml:"name"`
	K    float64 `json:"k" yaml:"k"` // specific heat ratio, > 1
	R    float64 `json:"r" yaml:"r"` // specific gas constant, J/(kg*K)
}

// Valid reports whether e carries usable constants. The zero Entry returned for
// unknown identifiers is never valid.
func (e Entry) Valid() bool {
	return e.ID != "" && e.K > 1 && e.R > 0
}

var table = map[string]Entry{
	"RP1":  {ID: "RP1", Name: "Rocket Propellant 1 (kerosene)", K: 1.2, R: 287.0},
	"LH2":  {ID: "LH2", Name: "Liquid hydrogen", K: 1.4, R: 4124.0},
	"SRF":  {ID: "SRF", Name: "Sugar rocket fuel", K: 1.2, R: 191.0},
	"N2O4": {ID: "N2O4", Name: "Nitrogen tetroxide", K: 1.26, R: 320.0},
}

// Lookup resolves a propellant identifier. Matching ignores case and
// surrounding whitespace. Unknown identifiers, including the legacy "LOX"
// label, return the zero Entry and false.
func Lookup(id string) (Entry, bool) {
	e, ok := table[strings.ToUpper(strings.TrimSpace(id))]
	return e, ok
}

// All returns every known entry ordered by identifier.
func All() []Entry {
	out := make([]Entry, 0, len(table))
	for _, e := range table {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns the known identifiers in sorted order.
func IDs() []string {
	entries := All()
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
