package fta

import "strings"

// Train feeds one sample into the analyzer. isNull marks a database NULL,
// distinct from a sample that trims to the empty string. It returns
// whether a semantic type has been locked in yet (spec §6 train()).
func (a *Analyzer) Train(sample string, isNull bool) bool {
	if !a.started {
		a.started = true
		a.state = newProfilerState()
	}
	s := a.state
	s.sampleCount++
	s.observeRawLength(len(sample))

	if isNull {
		s.nullCount++
		return s.typeLocked
	}
	trimmed := strings.TrimSpace(sample)
	if trimmed == "" {
		s.blankCount++
		return s.typeLocked
	}
	s.observeTrimmedLength(len(trimmed))

	if !s.typeLocked {
		a.trainWindow(trimmed)
		if s.sampleCount-(s.nullCount+s.blankCount) > a.sampleSize {
			a.determineType()
		}
		return s.typeLocked
	}

	a.trackSample(trimmed)
	if s.sampleCount-(s.nullCount+s.blankCount) == a.reflectionSamples {
		a.reflect()
	}
	return s.typeLocked
}
