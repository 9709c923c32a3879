package fta

import "github.com/mosaicdata/fta/semtype"

// detectKey implements spec §4.7: a column is a candidate key once it has
// seen more than 1000 samples, filled its cardinality cap (>= 500), carries
// no nulls, blanks, or qualifier, is a Long or a fixed-width String under
// 32 characters, and every cardinality entry was seen exactly once.
func (a *Analyzer) detectKey() bool {
	s := a.state
	if s.sampleCount <= 1000 {
		return false
	}
	if len(s.cardinality) < a.maxCardinality || a.maxCardinality < 500 {
		return false
	}
	if s.nullCount > 0 || s.blankCount > 0 {
		return false
	}
	if s.qualifier != semtype.QualifierNone {
		return false
	}
	switch s.baseType {
	case semtype.Long:
	case semtype.String:
		if s.maxTrimmedLength >= 32 || s.minTrimmedLength != s.maxTrimmedLength {
			return false
		}
	default:
		return false
	}
	for _, n := range s.cardinality {
		if n != 1 {
			return false
		}
	}
	return true
}
