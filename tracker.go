package fta

import (
	"math"
	"math/big"
	"strings"

	"github.com/mosaicdata/fta/internal/datefmt"
	"github.com/mosaicdata/fta/refdata"
	"github.com/mosaicdata/fta/semtype"
)

// trackSample validates trimmed against the locked-in type and updates the
// streaming tracker state (spec §4.5). It is used both for live post-
// determination samples and for replaying the detection window once a type
// has just been chosen.
func (a *Analyzer) trackSample(trimmed string) {
	s := a.state
	if a.validateAndUpdate(trimmed) {
		s.matchCount++
		s.addCardinality(trimmed, a.maxCardinality)
		return
	}
	s.addOutlier(trimmed, a.maxOutliers)
}

// replayWindow re-runs every sample collected before the type was locked
// through the tracker, per spec §4.4 step 5.
func (a *Analyzer) replayWindow() {
	s := a.state
	window := s.window
	s.window = nil
	s.l0Window, s.l1Window, s.l2Window = nil, nil, nil
	for _, v := range window {
		a.trackSample(v)
	}
}

// validateAndUpdate attempts to parse trimmed as the locked-in type,
// updating typed extremes and sums on success. It reports whether trimmed
// is a valid instance of the type.
func (a *Analyzer) validateAndUpdate(trimmed string) bool {
	s := a.state
	switch s.baseType {
	case semtype.Boolean:
		return a.trackBoolean(trimmed)
	case semtype.Long:
		return a.trackLong(trimmed)
	case semtype.Double:
		return a.trackDouble(trimmed)
	case semtype.LocalDate, semtype.LocalTime, semtype.LocalDateTime, semtype.ZonedDateTime, semtype.OffsetDateTime:
		return a.trackDateTime(trimmed)
	default:
		return a.trackString(trimmed)
	}
}

func (a *Analyzer) trackBoolean(trimmed string) bool {
	s := a.state
	u := strings.ToUpper(trimmed)
	var v bool
	switch u {
	case "TRUE", "YES":
		v = true
	case "FALSE", "NO":
		v = false
	default:
		return false
	}
	if !a.collectStatistics {
		return true
	}
	if !s.booleanSet {
		s.minBoolean, s.maxBoolean, s.booleanSet = v, v, true
		return true
	}
	if !v && s.minBoolean {
		s.minBoolean = v
	}
	if v && !s.maxBoolean {
		s.maxBoolean = v
	}
	return true
}

func (a *Analyzer) trackLong(trimmed string) bool {
	s := a.state
	if s.qualifier == semtype.ZIP {
		if !(len(trimmed) == 5 && allASCIIDigit(trimmed) && a.refData.Contains(refdata.Zip, trimmed)) {
			return false
		}
	}
	v, leadingZero, ok := parseLong(trimmed, a.loc.GroupSep(), a.loc.MinusSign())
	if !ok {
		return false
	}
	s.totalLongs++
	if leadingZero {
		s.totalLeadingZeros++
	}
	if v < 0 {
		s.negativeLongs++
	}
	if !a.collectStatistics {
		return true
	}
	if !s.longSet {
		s.minLong, s.maxLong, s.longSet = v, v, true
	} else {
		if v < s.minLong {
			s.minLong = v
		}
		if v > s.maxLong {
			s.maxLong = v
		}
	}
	s.longSum.Add(s.longSum, big.NewInt(v))
	return true
}

func (a *Analyzer) trackDouble(trimmed string) bool {
	s := a.state
	v, ok := parseDouble(trimmed, a.loc.DecimalSep(), a.loc.GroupSep(), a.loc.MinusSign())
	if !ok {
		return false
	}
	if v < 0 {
		s.negativeDoubles++
	}
	if !a.collectStatistics {
		return true
	}
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		if !s.doubleSet {
			s.minDouble, s.maxDouble, s.doubleSet = v, v, true
		} else {
			if v < s.minDouble {
				s.minDouble = v
			}
			if v > s.maxDouble {
				s.maxDouble = v
			}
		}
		s.doubleSum.Add(s.doubleSum, big.NewFloat(v))
	}
	return true
}

func (a *Analyzer) trackString(trimmed string) bool {
	s := a.state
	switch s.qualifier {
	case semtype.EMAIL:
		if !looksLikeEmail(trimmed) {
			return false
		}
	case semtype.URL:
		if !strings.Contains(trimmed, "://") {
			return false
		}
	case semtype.ADDRESS:
		if !looksLikeAddress(trimmed, a.refData) {
			return false
		}
	}
	if !a.collectStatistics {
		return true
	}
	if !s.stringSet {
		s.minString, s.maxString, s.stringSet = trimmed, trimmed, true
	} else {
		if trimmed < s.minString {
			s.minString = trimmed
		}
		if trimmed > s.maxString {
			s.maxString = trimmed
		}
	}
	return true
}

// trackDateTime validates trimmed against the cached format descriptor. On
// one of the two "insufficient digits" failures it retries once after
// deleting the offending duplicated character from the format (dd -> d,
// MM -> M), adopting the repaired format on success (spec §4.5).
func (a *Analyzer) trackDateTime(trimmed string) bool {
	s := a.state
	d, err := datefmt.Compile(s.formatStr)
	if err != nil {
		return false
	}
	env := a.dateEnv()
	out := d.Parse(trimmed, env)
	if !out.OK {
		if repaired, ok := repairFormat(s.formatStr, out.Reason); ok {
			if d2, err2 := datefmt.Compile(repaired); err2 == nil {
				out2 := d2.Parse(trimmed, env)
				if out2.OK {
					s.formatStr = repaired
					out = out2
				}
			}
		}
	}
	if !out.OK {
		return false
	}
	if a.collectStatistics {
		updateDateExtreme(&s.dateExtremes, out)
	}
	return true
}

func repairFormat(format, reason string) (string, bool) {
	switch reason {
	case datefmt.ReasonInsufficientDigitsD:
		return strings.Replace(format, "dd", "d", 1), true
	case datefmt.ReasonInsufficientDigitsM:
		return strings.Replace(format, "MM", "M", 1), true
	}
	return "", false
}

func updateDateExtreme(e *dateExtreme, out datefmt.ParseOutcome) {
	cur := [6]int{out.Year, out.Month, out.Day, out.Hour, out.Minute, out.Second}
	if !e.set {
		e.set = true
		e.minYear, e.minMonth, e.minDay = out.Year, out.Month, out.Day
		e.minHour, e.minMinute, e.minSecond = out.Hour, out.Minute, out.Second
		e.maxYear, e.maxMonth, e.maxDay = out.Year, out.Month, out.Day
		e.maxHour, e.maxMinute, e.maxSecond = out.Hour, out.Minute, out.Second
		return
	}
	min := [6]int{e.minYear, e.minMonth, e.minDay, e.minHour, e.minMinute, e.minSecond}
	max := [6]int{e.maxYear, e.maxMonth, e.maxDay, e.maxHour, e.maxMinute, e.maxSecond}
	if lessTuple(cur, min) {
		e.minYear, e.minMonth, e.minDay = out.Year, out.Month, out.Day
		e.minHour, e.minMinute, e.minSecond = out.Hour, out.Minute, out.Second
	}
	if lessTuple(max, cur) {
		e.maxYear, e.maxMonth, e.maxDay = out.Year, out.Month, out.Day
		e.maxHour, e.maxMinute, e.maxSecond = out.Hour, out.Minute, out.Second
	}
}

func lessTuple(a, b [6]int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
