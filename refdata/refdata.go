// Package refdata supplies the reference sets the logical-type matcher
// checks sample values against: ZIP codes, US states, Canadian provinces,
// countries, address markers, month abbreviations, genders, and named
// timezones. Loading these sets is explicitly an external collaborator's
// job (not the profiler's) — this package is that collaborator, with an
// in-memory starter set for zero-configuration use and a gzip-aware file
// loader for production deployments with real census/postal data.
package refdata

import "strings"

// Qualifier names one reference set. It deliberately does not reuse
// semtype.Qualifier: a couple of sets here (month abbreviations, zone
// names) back detector behavior rather than a logical-type qualifier, and
// importing semtype here for the other six would buy nothing.
type Qualifier string

const (
	Zip           Qualifier = "ZIP"
	USState       Qualifier = "US_STATE"
	CAProvince    Qualifier = "CA_PROVINCE"
	Country       Qualifier = "COUNTRY"
	AddressMarker Qualifier = "ADDRESS_MARKER"
	MonthAbbr     Qualifier = "MONTH_ABBR"
	Gender        Qualifier = "GENDER"
	ZoneName      Qualifier = "ZONE_NAME"
)

// Source is the read-only collaborator the analyzer consults for every
// logical-type and named-timezone check. Both implementations below
// normalize with uppercase+trim on load and on lookup (spec §6).
type Source interface {
	Contains(q Qualifier, key string) bool
	Len(q Qualifier) int
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// InMemory is a Source built directly from in-process string slices: the
// embedded seed data below, or any caller-supplied entries via NewInMemory.
type InMemory struct {
	sets map[Qualifier]map[string]struct{}
}

// NewInMemory builds an InMemory Source from explicit entries, one slice
// per qualifier. A nil or missing qualifier is simply empty — Contains
// returns false, Len returns 0.
func NewInMemory(entries map[Qualifier][]string) *InMemory {
	sets := make(map[Qualifier]map[string]struct{}, len(entries))
	for q, list := range entries {
		m := make(map[string]struct{}, len(list))
		for _, e := range list {
			m[normalize(e)] = struct{}{}
		}
		sets[q] = m
	}
	return &InMemory{sets: sets}
}

func (s *InMemory) Contains(q Qualifier, key string) bool {
	m, ok := s.sets[q]
	if !ok {
		return false
	}
	_, ok = m[normalize(key)]
	return ok
}

func (s *InMemory) Len(q Qualifier) int {
	return len(s.sets[q])
}

// Default returns the built-in starter Source: enough entries to exercise
// every logical-type check and to pass realistic unit tests, but not a
// substitute for the full census/postal data a FileSource loads in
// production.
func Default() *InMemory {
	return NewInMemory(map[Qualifier][]string{
		Zip:           zipsSeed,
		USState:       usStatesSeed,
		CAProvince:    caProvincesSeed,
		Country:       countriesSeed,
		AddressMarker: addressMarkersSeed,
		MonthAbbr:     monthAbbrSeed,
		Gender:        genderSeed,
		ZoneName:      zoneNamesSeed,
	})
}

var usStatesSeed = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
	"DC",
}

var caProvincesSeed = []string{
	"AB", "BC", "MB", "NB", "NL", "NS", "NT", "NU", "ON",
	"PE", "QC", "SK", "YT",
}

var countriesSeed = []string{
	"UNITED STATES", "CANADA", "MEXICO", "UNITED KINGDOM", "GERMANY",
	"FRANCE", "ITALY", "SPAIN", "JAPAN", "CHINA", "INDIA", "BRAZIL",
	"AUSTRALIA", "RUSSIA", "SOUTH AFRICA", "NETHERLANDS", "SWEDEN",
	"NORWAY", "IRELAND", "SWITZERLAND",
}

var addressMarkersSeed = []string{
	"ST", "STREET", "AVE", "AVENUE", "BLVD", "BOULEVARD", "RD", "ROAD",
	"LN", "LANE", "DR", "DRIVE", "CT", "COURT", "PL", "PLACE",
	"WAY", "TER", "TERRACE", "CIR", "CIRCLE", "HWY", "HIGHWAY",
}

var monthAbbrSeed = []string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

var genderSeed = []string{
	"M", "F", "MALE", "FEMALE", "NONBINARY", "UNKNOWN",
}

var zoneNamesSeed = []string{
	"GMT", "UTC", "UT", "Z",
	"EST", "EDT", "CST", "CDT", "MST", "MDT", "PST", "PDT",
	"BST", "CET", "CEST", "JST", "IST",
}

// zipsSeed is a small sample of real US ZIP codes spanning several states,
// sufficient to exercise the ZIP logical-type check without shipping the
// full ~42,000-entry postal database in the binary.
var zipsSeed = []string{
	"10001", "20001", "30301", "40201", "50301", "60601", "70112",
	"80202", "90001", "94101", "98101", "02108", "19101", "33101",
	"75201", "85001", "97201", "63101", "55401", "46201",
}
