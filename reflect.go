package fta

import (
	"math"
	"strings"

	"github.com/mosaicdata/fta/internal/ftalog"
	"github.com/mosaicdata/fta/refdata"
	"github.com/mosaicdata/fta/semtype"
)

func (s *profilerState) realSamples() int {
	return s.sampleCount - (s.nullCount + s.blankCount)
}

// reflect re-evaluates the locked-in type against evidence accumulated
// since determineType ran, per spec §4.6. It is triggered at realSamples ==
// reflectionSamples and from GetResult, but runs at most once: whichever
// trigger comes first does the work, and later calls return immediately.
func (a *Analyzer) reflect() {
	s := a.state
	if s.reflected {
		return
	}
	if !s.typeLocked {
		a.reflectAllBlankOrNull()
		return
	}
	a.reflectZipRetraction()
	a.reflectSignedLong()
	a.reflectLongLooksLikeDate()
	a.reflectBooleanFromZeroOne()
	a.reflectUniformLengthString()
	a.reflectConditionalBackout()
	s.reflected = true
}

// reflectAllBlankOrNull handles the case where every trained sample was
// null and/or blank, so determineType never ran.
func (a *Analyzer) reflectAllBlankOrNull() {
	s := a.state
	if s.sampleCount == 0 {
		return
	}
	switch {
	case s.nullCount == s.sampleCount:
		s.qualifier = semtype.NULL
	case s.blankCount == s.sampleCount:
		s.qualifier = semtype.BLANK
	case s.nullCount+s.blankCount == s.sampleCount:
		s.qualifier = semtype.BLANKORNULL
	default:
		return
	}
	s.baseType = semtype.String
	s.typeLocked = true
}

// reflectZipRetraction implements spec §4.6's ZIP retraction rule.
func (a *Analyzer) reflectZipRetraction() {
	s := a.state
	if s.qualifier != semtype.ZIP {
		return
	}
	real := s.realSamples()
	confidence := 0.0
	if real > 0 {
		confidence = float64(s.matchCount) / float64(real)
	}
	if confidence >= 0.9 && len(s.cardinality) >= 5 {
		return
	}
	longParsable, total := 0, 0
	for k, n := range s.outliers {
		total += n
		if _, _, ok := parseLong(k, a.loc.GroupSep(), a.loc.MinusSign()); ok {
			longParsable += n
		}
	}
	for k := range s.cardinality {
		total++
		if _, _, ok := parseLong(k, a.loc.GroupSep(), a.loc.MinusSign()); ok {
			longParsable++
		}
	}
	if total > 0 && float64(longParsable)/float64(total) > 0.95 {
		s.qualifier = semtype.QualifierNone
		s.baseType = semtype.Long
		for k, n := range s.outliers {
			if _, _, ok := parseLong(k, a.loc.GroupSep(), a.loc.MinusSign()); ok {
				delete(s.outliers, k)
				if s.addCardinality(k, a.maxCardinality) {
					s.matchCount += n
				}
			}
		}
		a.log.Info("ZIP qualifier retracted in favor of Long", ftalog.KV("column", a.name))
		return
	}
	s.baseType = semtype.String
	s.qualifier = semtype.QualifierNone
	s.patternL0 = ".+"
	a.log.Info("ZIP qualifier retracted in favor of generic string", ftalog.KV("column", a.name))
}

// reflectSignedLong upgrades an unqualified Long to Signed Long once any
// negative value has been observed.
func (a *Analyzer) reflectSignedLong() {
	s := a.state
	if s.baseType == semtype.Long && s.qualifier == semtype.QualifierNone && s.negativeLongs > 0 {
		s.qualifier = semtype.SIGNED
		s.patternL0 = `-?\d+`
	}
}

// reflectLongLooksLikeDate reclassifies a Long column as LocalDate when its
// name or accumulated cardinality suggests a year or compact yyyyMMdd date
// and every seen value falls in a plausible range.
func (a *Analyzer) reflectLongLooksLikeDate() {
	s := a.state
	if s.baseType != semtype.Long || s.qualifier != semtype.QualifierNone {
		return
	}
	nameHints := strings.Contains(strings.ToLower(a.name), "date") || strings.Contains(strings.ToLower(a.name), "year")
	if !nameHints && len(s.cardinality) <= 10 {
		return
	}
	if s.minLong >= 1801 && s.maxLong <= 2029 {
		s.baseType = semtype.LocalDate
		s.formatStr = "yyyy"
		s.patternL0 = `\d{4}`
		return
	}
	if s.minLong >= 19000101 && s.maxLong <= 20400100 {
		s.baseType = semtype.LocalDate
		s.formatStr = "yyyyMMdd"
		s.patternL0 = `\d{8}`
	}
}

// reflectBooleanFromZeroOne reclassifies a two-valued 0/1 Long column as
// Boolean.
func (a *Analyzer) reflectBooleanFromZeroOne() {
	s := a.state
	if s.baseType != semtype.Long || len(s.cardinality) != 2 {
		return
	}
	if _, zeroOK := s.cardinality["0"]; !zeroOK {
		return
	}
	if _, oneOK := s.cardinality["1"]; !oneOK {
		return
	}
	s.baseType = semtype.Boolean
	s.patternL0 = `[0|1]`
	s.qualifier = semtype.QualifierNone
}

// reflectUniformLengthString tests string cardinality sets against the
// month-abbreviation, US/CA-state, gender, and country reference sets.
func (a *Analyzer) reflectUniformLengthString() {
	s := a.state
	if s.baseType != semtype.String || s.qualifier != semtype.QualifierNone || len(s.cardinality) == 0 {
		return
	}
	uniformLen := -1
	uniform := true
	for k := range s.cardinality {
		l := len([]rune(k))
		if uniformLen == -1 {
			uniformLen = l
		} else if l != uniformLen {
			uniform = false
			break
		}
	}

	monthLimit := a.refData.Len(refdata.MonthAbbr) + 2
	if uniform && uniformLen == 3 && len(s.cardinality) <= monthLimit {
		if misses := countMisses(s.cardinality, refdata.MonthAbbr, a.refData); misses < 3 {
			s.qualifier = semtype.MONTHABBR
			return
		}
	}

	stateLimit := a.refData.Len(refdata.USState) + a.refData.Len(refdata.CAProvince) + 5
	if uniform && uniformLen == 2 && len(s.cardinality) <= stateLimit {
		misses := 0
		for k := range s.cardinality {
			u := strings.ToUpper(k)
			if !a.refData.Contains(refdata.USState, u) && !a.refData.Contains(refdata.CAProvince, u) {
				misses++
			}
		}
		if misses < 3 {
			s.qualifier = semtype.NA_STATE
			return
		}
	}

	genderLimit := int(math.Sqrt(float64(a.refData.Len(refdata.Gender))))
	if misses := countMisses(s.cardinality, refdata.Gender, a.refData); percentMissing(s.cardinality, refdata.Gender, a.refData) <= 0.4 && misses <= genderLimit {
		s.qualifier = semtype.GENDER
		return
	}

	countryLimit := int(math.Sqrt(float64(a.refData.Len(refdata.Country))))
	if misses := countMisses(s.cardinality, refdata.Country, a.refData); percentMissing(s.cardinality, refdata.Country, a.refData) <= 0.4 && misses <= countryLimit {
		s.qualifier = semtype.COUNTRY
	}
}

func countMisses(cardinality map[string]int, q refdataQualifier, src refdataSource) int {
	misses := 0
	for k := range cardinality {
		if !src.Contains(q, strings.ToUpper(strings.TrimSpace(k))) {
			misses++
		}
	}
	return misses
}

func percentMissing(cardinality map[string]int, q refdataQualifier, src refdataSource) float64 {
	if len(cardinality) == 0 {
		return 1
	}
	return float64(countMisses(cardinality, q, src)) / float64(len(cardinality))
}

// reflectConditionalBackout widens an over-specific pattern when the
// outlier map has saturated or too many samples failed validation, merging
// recovered outliers back into cardinality (spec §4.6).
func (a *Analyzer) reflectConditionalBackout() {
	s := a.state
	real := s.realSamples()
	if real == 0 {
		return
	}
	saturated := len(s.outliers) >= a.maxOutliers && a.maxOutliers > 0
	badRate := float64(sumValues(s.outliers)) / float64(real)
	if !saturated && badRate <= 0.01 {
		return
	}

	a.log.Warn("backing out locked type under outlier pressure",
		ftalog.KV("column", a.name), ftalog.KV("outlierCount", sumValues(s.outliers)))

	if s.baseType == semtype.String && s.qualifier == semtype.QualifierNone {
		s.patternL0 = `\p{Alnum}+`
		mergeOutliersAsMatches(s, a.maxCardinality)
		return
	}

	if s.baseType == semtype.Long {
		doubleParsable := 0
		for k := range s.outliers {
			if _, ok := parseDouble(k, a.loc.DecimalSep(), a.loc.GroupSep(), a.loc.MinusSign()); ok {
				doubleParsable++
			}
		}
		if doubleParsable == len(s.outliers) && doubleParsable > 0 {
			s.baseType = semtype.Double
			s.patternL0 = `(\d+)?\.\d+`
			mergeOutliersAsMatches(s, a.maxCardinality)
			return
		}
	}

	s.baseType = semtype.String
	s.qualifier = semtype.QualifierNone
	s.patternL0 = ".+"
	mergeOutliersAsMatches(s, a.maxCardinality)
}

func sumValues(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

func mergeOutliersAsMatches(s *profilerState, maxCardinality int) {
	for k, n := range s.outliers {
		if s.addCardinality(k, maxCardinality) {
			s.matchCount += n
			delete(s.outliers, k)
		}
		if s.stringSet {
			if k < s.minString {
				s.minString = k
			}
			if k > s.maxString {
				s.maxString = k
			}
		} else {
			s.minString, s.maxString, s.stringSet = k, k, true
		}
	}
}

// refdataQualifier/refdataSource are thin local aliases so this file reads
// naturally without a package-qualified type on every helper signature.
type refdataQualifier = refdata.Qualifier
type refdataSource = refdata.Source
