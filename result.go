package fta

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mosaicdata/fta/semtype"
)

// ProfileResult is the read-only snapshot spec §6 names: every externally
// visible conclusion an Analyzer has reached, as of the moment GetResult is
// called. Calling GetResult does not consume training state, but it runs
// reflection if that has not fired yet, which can revise the type,
// qualifier and pattern and fold outliers into cardinality.
type ProfileResult struct {
	MatchCount        int                `json:"matchCount"`
	SampleCount       int                `json:"sampleCount"`
	NullCount         int                `json:"nullCount"`
	BlankCount        int                `json:"blankCount"`
	TotalLeadingZeros int                `json:"totalLeadingZeros"`
	Confidence        float64            `json:"confidence"`
	MinValue          string             `json:"minValue"`
	MaxValue          string             `json:"maxValue"`
	MinRawLength      int                `json:"minRawLength"`
	MaxRawLength      int                `json:"maxRawLength"`
	Sum               string             `json:"sum,omitempty"`
	Cardinality       map[string]int     `json:"cardinality"`
	Outliers          map[string]int     `json:"outliers"`
	IsKey             bool               `json:"isKey"`
	PatternRegExp     string             `json:"patternRegExp"`
	SemanticType      string             `json:"semanticType"`
	TypeQualifier     string             `json:"typeQualifier,omitempty"`
	FormatString      string             `json:"formatString,omitempty"`
}

// GetResult finalizes reflection if it has not already fired and renders
// the current state into a ProfileResult. It may be called at any time,
// including before any sample has been trained.
func (a *Analyzer) GetResult() ProfileResult {
	if a.state == nil {
		return ProfileResult{Cardinality: map[string]int{}, Outliers: map[string]int{}}
	}
	s := a.state
	if !s.reflected {
		a.reflect()
	}

	r := ProfileResult{
		MatchCount:        s.matchCount,
		SampleCount:       s.sampleCount,
		NullCount:         s.nullCount,
		BlankCount:        s.blankCount,
		TotalLeadingZeros: s.totalLeadingZeros,
		MinRawLength:      s.minRawLength,
		MaxRawLength:      s.maxRawLength,
		Cardinality:       copyCounts(s.cardinality),
		Outliers:          copyCounts(s.outliers),
		PatternRegExp:     s.patternL0,
		SemanticType:      s.baseType.String(),
		TypeQualifier:     string(s.qualifier),
		FormatString:      s.formatStr,
		IsKey:             a.detectKey(),
	}
	r.Confidence = a.confidence()
	r.MinValue, r.MaxValue = a.renderExtremes()
	r.Sum = a.renderSum()
	return r
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// confidence implements spec §7's single externally visible quality
// signal: matchCount/realSamples after reflection, with the all-blank/
// all-null special case.
func (a *Analyzer) confidence() float64 {
	s := a.state
	switch s.qualifier {
	case semtype.NULL, semtype.BLANK, semtype.BLANKORNULL:
		if s.sampleCount >= 10 {
			return 1
		}
		return 0
	}
	real := s.realSamples()
	if real == 0 {
		return 0
	}
	return float64(s.matchCount) / float64(real)
}

func (a *Analyzer) renderExtremes() (min, max string) {
	s := a.state
	switch s.baseType {
	case semtype.Long:
		if s.longSet {
			return strconv.FormatInt(s.minLong, 10), strconv.FormatInt(s.maxLong, 10)
		}
	case semtype.Double:
		if s.doubleSet {
			return strconv.FormatFloat(s.minDouble, 'g', -1, 64), strconv.FormatFloat(s.maxDouble, 'g', -1, 64)
		}
	case semtype.Boolean:
		if s.booleanSet {
			return boolText(s.minBoolean), boolText(s.maxBoolean)
		}
	case semtype.LocalDate, semtype.LocalTime, semtype.LocalDateTime, semtype.ZonedDateTime, semtype.OffsetDateTime:
		if s.dateExtremes.set {
			abbr := a.loc.MonthAbbreviations()
			e := s.dateExtremes
			return renderDateValue(s.formatStr, e.minYear, e.minMonth, e.minDay, e.minHour, e.minMinute, e.minSecond, abbr),
				renderDateValue(s.formatStr, e.maxYear, e.maxMonth, e.maxDay, e.maxHour, e.maxMinute, e.maxSecond, abbr)
		}
	default:
		if s.stringSet {
			return s.minString, s.maxString
		}
	}
	return "", ""
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (a *Analyzer) renderSum() string {
	s := a.state
	switch s.baseType {
	case semtype.Long:
		if s.longSum != nil {
			return s.longSum.String()
		}
	case semtype.Double:
		if s.doubleSum != nil {
			return s.doubleSum.Text('g', -1)
		}
	}
	return ""
}

// renderDateValue walks a custom format string (spec §3 token vocabulary)
// substituting the given field values, mirroring the tokens datefmt itself
// produces and parses.
func renderDateValue(format string, year, month, day, hour, minute, second int, monthAbbr [12]string) string {
	var b strings.Builder
	rs := []rune(format)
	i := 0
	for i < len(rs) {
		switch rs[i] {
		case '\'':
			j := i + 1
			for j < len(rs) && rs[j] != '\'' {
				j++
			}
			if j < len(rs) {
				b.WriteString(string(rs[i+1 : j]))
				i = j + 1
			} else {
				i = len(rs)
			}
		case 'y':
			j := runOf(rs, i, 'y')
			if j-i == 4 {
				b.WriteString(pad(year, 4))
			} else {
				b.WriteString(pad(year%100, 2))
			}
			i = j
		case 'M':
			j := runOf(rs, i, 'M')
			switch j - i {
			case 3:
				if month >= 1 && month <= 12 {
					b.WriteString(monthAbbr[month-1])
				}
			case 1:
				b.WriteString(strconv.Itoa(month))
			default:
				b.WriteString(pad(month, 2))
			}
			i = j
		case 'd':
			j := runOf(rs, i, 'd')
			if j-i == 1 {
				b.WriteString(strconv.Itoa(day))
			} else {
				b.WriteString(pad(day, 2))
			}
			i = j
		case 'H':
			j := runOf(rs, i, 'H')
			if j-i == 1 {
				b.WriteString(strconv.Itoa(hour))
			} else {
				b.WriteString(pad(hour, 2))
			}
			i = j
		case 'm':
			j := runOf(rs, i, 'm')
			b.WriteString(pad(minute, 2))
			i = j
		case 's':
			j := runOf(rs, i, 's')
			b.WriteString(pad(second, 2))
			i = j
		case '?':
			j := runOf(rs, i, '?')
			b.WriteString(pad(0, j-i))
			i = j
		case 'x':
			// Offset/zone extremes are not tracked in dateExtreme, so the
			// rendered min/max simply omit this token rather than print a
			// misleading placeholder.
			i = runOf(rs, i, 'x')
		default:
			b.WriteRune(rs[i])
			i++
		}
	}
	return b.String()
}

func runOf(rs []rune, i int, r rune) int {
	j := i
	for j < len(rs) && rs[j] == r {
		j++
	}
	return j
}

func pad(v, width int) string {
	s := strconv.Itoa(v)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// MarshalJSON renders a ProfileResult with the standard library encoder;
// the alias avoids MarshalJSON recursing into itself.
func (r ProfileResult) MarshalJSON() ([]byte, error) {
	type alias ProfileResult
	return json.Marshal(alias(r))
}
