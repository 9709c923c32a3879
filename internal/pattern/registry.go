// Package pattern holds the immutable table of known shape patterns and the
// numeric promotion lattice used to fuse L0/L1/L2 evidence into a single
// semantic type.
package pattern

import "github.com/mosaicdata/fta/semtype"

// Entry is one row of the pattern registry: a known shape maps to a
// semantic type, an optional qualifier, a length range, a fallback "general"
// pattern (used as L1 when the exact L0 is registered), and — for
// structural date/time patterns — the format string the date detector
// would itself produce for samples of this shape.
type Entry struct {
	Regexp  string // keyed lookup for structural patterns
	Type    semtype.Type
	Qual    semtype.Qualifier
	MinLen  int
	MaxLen  int
	General string
	Format  string
}

// Registry is an immutable, process-wide table. It is populated once at
// package init and never mutated afterward, so concurrent lookups need no
// locking.
type Registry struct {
	byRegexp map[string]Entry
	byKey    map[string]Entry // "<type>.<qualifier>" for logical types
}

var def = buildDefault()

// Default returns the process-wide registry.
func Default() *Registry { return def }

// ByL0 looks up a structural entry by its exact L0 shape.
func (r *Registry) ByL0(l0 string) (Entry, bool) {
	e, ok := r.byRegexp[l0]
	return e, ok
}

// General returns the registered fallback/general pattern for a known L0
// shape, satisfying the shape compressor's generalOf callback contract.
func (r *Registry) General(l0 string) (string, bool) {
	e, ok := r.byRegexp[l0]
	if !ok || e.General == "" {
		return "", false
	}
	return e.General, true
}

// ByLogicalKey looks up a logical-type entry by "<type>.<qualifier>".
func (r *Registry) ByLogicalKey(t semtype.Type, q semtype.Qualifier) (Entry, bool) {
	e, ok := r.byKey[semtype.Key(t, q)]
	return e, ok
}

func buildDefault() *Registry {
	r := &Registry{
		byRegexp: make(map[string]Entry, 32),
		byKey:    make(map[string]Entry, 16),
	}
	structural := []Entry{
		{Regexp: `(?i)(true|false)`, Type: semtype.Boolean, MinLen: 4, MaxLen: 5, General: `(?i)(true|false)`},
		{Regexp: `(?i)(yes|no)`, Type: semtype.Boolean, MinLen: 2, MaxLen: 3, General: `(?i)(yes|no)`},
		{Regexp: `\d+`, Type: semtype.Long, General: `\d+`},
		{Regexp: `-\d+`, Type: semtype.Long, Qual: semtype.SIGNED, General: `-?\d+`},
		{Regexp: `\d+\.\d+`, Type: semtype.Double, General: `(\d+)?\.\d+`},
		{Regexp: `-\d+\.\d+`, Type: semtype.Double, Qual: semtype.SIGNED, General: `-?(\d+)?\.\d+`},
		{Regexp: `\d{5}`, Type: semtype.Long, Qual: semtype.ZIP, MinLen: 5, MaxLen: 5, General: `\d{5}`},
		{Regexp: `\d{4}-\d{2}-\d{2}`, Type: semtype.LocalDate, General: `\d{4}-\d{2}-\d{2}`, Format: `yyyy-MM-dd`},
		{Regexp: `\d{2}-\d{2}-\d{4}`, Type: semtype.LocalDate, General: `\d{2}-\d{2}-\d{4}`, Format: `dd-MM-yyyy`},
		{Regexp: `\d{2}/\d{2}/\d{4}`, Type: semtype.LocalDate, General: `\d{2}/\d{2}/\d{4}`, Format: `MM/dd/yyyy`},
		{Regexp: `\d{2}:\d{2}:\d{2}`, Type: semtype.LocalTime, General: `\d{2}:\d{2}:\d{2}`, Format: `HH:mm:ss`},
		{Regexp: `\d:\d{2}`, Type: semtype.LocalTime, General: `\d{1,2}:\d{2}`, Format: `H:mm`},
	}
	for _, e := range structural {
		r.byRegexp[e.Regexp] = e
	}

	logical := []Entry{
		{Type: semtype.Long, Qual: semtype.ZIP, MinLen: 5, MaxLen: 5},
		{Type: semtype.String, Qual: semtype.EMAIL},
		{Type: semtype.String, Qual: semtype.URL},
		{Type: semtype.String, Qual: semtype.ADDRESS},
		{Type: semtype.String, Qual: semtype.US_STATE, MinLen: 2, MaxLen: 2},
		{Type: semtype.String, Qual: semtype.CA_PROVINCE, MinLen: 2, MaxLen: 2},
		{Type: semtype.String, Qual: semtype.COUNTRY},
		{Type: semtype.String, Qual: semtype.MONTHABBR, MinLen: 3, MaxLen: 3},
		{Type: semtype.String, Qual: semtype.GENDER},
	}
	for _, e := range logical {
		r.byKey[semtype.Key(e.Type, e.Qual)] = e
	}
	return r
}
