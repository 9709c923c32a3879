package fta

import (
	"math/big"

	"github.com/mosaicdata/fta/semtype"
)

// dateExtreme holds the min/max for one date/time family, tracked as the
// parsed field values rather than a time.Time so a partially-specified
// LocalDate (no time-of-day) round-trips without inventing one.
type dateExtreme struct {
	set                                  bool
	minYear, minMonth, minDay            int
	minHour, minMinute, minSecond        int
	maxYear, maxMonth, maxDay            int
	maxHour, maxMinute, maxSecond        int
}

// profilerState is the mutable heart of an Analyzer: every counter,
// extreme, and bounded map spec §3's "Profiler State" names. It is
// allocated lazily on the first training call and never touched outside
// Train/GetResult.
type profilerState struct {
	sampleCount int
	nullCount   int
	blankCount  int
	matchCount  int

	totalLongs        int
	totalLeadingZeros int
	negativeLongs     int
	negativeDoubles   int

	possibleDateTime  int
	possibleEmails    int
	possibleZips      int
	possibleURLs      int
	possibleAddresses int

	minRawLength, maxRawLength         int
	minTrimmedLength, maxTrimmedLength int
	lengthSet                          bool

	minLong, maxLong   int64
	longSet            bool
	minDouble, maxDouble float64
	doubleSet          bool
	minString, maxString string
	stringSet          bool
	minBoolean, maxBoolean bool
	booleanSet         bool
	dateExtremes       dateExtreme

	longSum   *big.Int
	doubleSum *big.Float

	cardinality map[string]int
	outliers    map[string]int

	window   []string
	l0Window []string
	l1Window []string
	l2Window []string

	typeLocked  bool
	baseType    semtype.Type
	qualifier   semtype.Qualifier
	patternL0   string // the winning structural/general pattern
	patternGen  string
	formatStr   string // date/time format, when applicable

	reflected bool
}

func newProfilerState() *profilerState {
	return &profilerState{
		cardinality: make(map[string]int),
		outliers:    make(map[string]int),
		longSum:     new(big.Int),
		doubleSum:   new(big.Float),
	}
}

func (s *profilerState) observeRawLength(n int) {
	if !s.lengthSet {
		s.minRawLength, s.maxRawLength = n, n
		s.lengthSet = true
		return
	}
	if n < s.minRawLength {
		s.minRawLength = n
	}
	if n > s.maxRawLength {
		s.maxRawLength = n
	}
}

func (s *profilerState) observeTrimmedLength(n int) {
	if s.minTrimmedLength == 0 && s.maxTrimmedLength == 0 {
		s.minTrimmedLength, s.maxTrimmedLength = n, n
		return
	}
	if n < s.minTrimmedLength {
		s.minTrimmedLength = n
	}
	if n > s.maxTrimmedLength {
		s.maxTrimmedLength = n
	}
}

func (s *profilerState) addCardinality(v string, maxCardinality int) bool {
	if _, ok := s.cardinality[v]; ok {
		s.cardinality[v]++
		return true
	}
	if len(s.cardinality) >= maxCardinality {
		return false
	}
	s.cardinality[v] = 1
	return true
}

func (s *profilerState) addOutlier(v string, maxOutliers int) bool {
	if _, ok := s.outliers[v]; ok {
		s.outliers[v]++
		return true
	}
	if len(s.outliers) >= maxOutliers {
		return false
	}
	s.outliers[v] = 1
	return true
}
