// Package datefmt implements the date/time format detector and the cached,
// hand-rolled parse-result validator described in spec §4.1/§4.2. Neither
// half invokes a general-purpose date/time parsing library: format strings
// are synthesized from the shape of a single sample, then later samples are
// walked token-by-token against that synthesized format.
package datefmt

import (
	"strconv"
	"strings"
	"unicode"
)

// ResolutionMode controls how an ambiguous day/month pair in a date format
// is resolved.
type ResolutionMode int

const (
	Auto ResolutionMode = iota
	DayFirst
	MonthFirst
	None
)

// defaultMonthAbbr is the English, January-first month abbreviation table
// DefaultEnv carries. Locale-specific tables are supplied per call via Env
// (spec §5) rather than installed into a package global.
var defaultMonthAbbr = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

func monthAbbrIndex(s string, abbr [12]string) int {
	u := strings.ToUpper(s)
	for i, m := range abbr {
		if strings.ToUpper(m) == u {
			return i
		}
	}
	return -1
}

type monthAbbrOutcome int

const (
	monthAbbrOK monthAbbrOutcome = iota
	monthAbbrIncomplete
	monthAbbrIncorrect
)

// matchMonthAbbr finds which active month abbreviation, if any, starts at
// pos. Abbreviations are not fixed-width across locales ("Mar" vs "févr"),
// so every candidate is tried and the longest exact case-insensitive match
// wins.
func matchMonthAbbr(rs []rune, pos int, abbrTable [12]string) (month, width int, outcome monthAbbrOutcome) {
	best := -1
	bestWidth := 0
	for i, abbr := range abbrTable {
		w := len([]rune(abbr))
		if pos+w > len(rs) {
			continue
		}
		if strings.EqualFold(string(rs[pos:pos+w]), abbr) && w > bestWidth {
			best, bestWidth = i, w
		}
	}
	if best >= 0 {
		return best, bestWidth, monthAbbrOK
	}
	// Distinguish "ran out of input mid-abbreviation" from "the letters
	// present don't spell any recognized abbreviation".
	shortestAbbr := len([]rune(abbrTable[0]))
	for _, abbr := range abbrTable {
		if w := len([]rune(abbr)); w < shortestAbbr {
			shortestAbbr = w
		}
	}
	if pos+shortestAbbr > len(rs) {
		return -1, 0, monthAbbrIncomplete
	}
	return -1, 0, monthAbbrIncorrect
}

// digitField is one run of digits found while scanning a date or time
// portion, together with its numeric value and original width.
type digitField struct {
	width int
	value int
}

// DetermineFormat derives a format string for sample, or reports ok=false if
// sample's shape matches no recognized date/time structure. It never
// panics and never returns an error — the detector is total on its input
// per spec §8 ("The Date Detector is total on trimmed input").
func DetermineFormat(sample string, mode ResolutionMode, env Env) (format string, ok bool) {
	s := strings.TrimSpace(sample)
	if s == "" {
		return "", false
	}
	if hasJunk(s) {
		return "", false
	}

	tokens := strings.Fields(s)
	switch len(tokens) {
	case 1:
		return determineSingleToken(tokens[0], mode, env)
	case 2:
		return determineTwoTokens(tokens[0], tokens[1], mode, env)
	case 3:
		return determineThreeTokens(tokens[0], tokens[1], tokens[2], mode, env)
	default:
		return "", false
	}
}

// hasJunk rejects control characters and non-ASCII codepoints; no
// recognized date/time format can contain them.
func hasJunk(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// determineSingleToken handles a sample with no internal whitespace: a bare
// date, a bare time, or an ISO-8601 combination joined by literal 'T'.
func determineSingleToken(tok string, mode ResolutionMode, env Env) (string, bool) {
	if idx := strings.IndexByte(tok, 'T'); idx > 0 && idx < len(tok)-1 {
		datePart, rest := tok[:idx], tok[idx+1:]
		if dateFmt, ok := parseDatePortion(datePart, mode, env); ok {
			timePart, tzFmt, hadTZ := peelTimezone(rest)
			if timeFmt, ok := parseTimePortion(timePart); ok {
				f := dateFmt + "'T'" + timeFmt
				if hadTZ {
					f += tzFmt
				}
				return f, true
			}
		}
	}
	body, tzFmt, hadTZ := peelTimezone(tok)
	if strings.Contains(body, ":") {
		if timeFmt, ok := parseTimePortion(body); ok {
			if hadTZ {
				return timeFmt + tzFmt, true
			}
			return timeFmt, true
		}
		return "", false
	}
	if dateFmt, ok := parseDatePortion(tok, mode, env); ok {
		return dateFmt, true
	}
	return "", false
}

// determineTwoTokens handles "date time", "time date", and "time zone" (a
// time followed by a named timezone word, checked with zoneFormatFor). A
// numeric offset attached to the time in "date time" is split off with
// peelTimezone.
func determineTwoTokens(a, b string, mode ResolutionMode, env Env) (string, bool) {
	aHasColon := strings.Contains(a, ":")
	bHasColon := strings.Contains(b, ":")

	if aHasColon && !bHasColon {
		// "time zone": the zone word stands alone as the second token.
		if zoneFmt, ok := zoneFormatFor(b, env.Zones); ok {
			if timeFmt, ok := parseTimePortion(a); ok {
				return timeFmt + " " + zoneFmt, true
			}
		}
		return "", false
	}
	if bHasColon && !aHasColon {
		// date time, or time date depending on which looks date-shaped
		if dateFmt, ok := parseDatePortion(a, mode, env); ok {
			timeBody, tzFmt, hadTZ := peelTimezone(b)
			if timeFmt, ok := parseTimePortion(timeBody); ok {
				f := dateFmt + " " + timeFmt
				if hadTZ {
					f += tzFmt
				}
				return f, true
			}
		}
		if timeFmt, ok := parseTimePortion(a); ok {
			if dateFmt, ok := parseDatePortion(b, mode, env); ok {
				return timeFmt + " " + dateFmt, true
			}
		}
	}
	return "", false
}

// determineThreeTokens handles the "date time zone" shape.
func determineThreeTokens(a, b, c string, mode ResolutionMode, env Env) (string, bool) {
	if dateFmt, ok := parseDatePortion(a, mode, env); ok {
		if timeFmt, ok := parseTimePortion(b); ok {
			if tzFmt, ok := zoneFormatFor(c, env.Zones); ok {
				return dateFmt + " " + timeFmt + " " + tzFmt, true
			}
		}
	}
	return "", false
}

// parseTimePortion recognizes H:mm, HH:mm, H:mm:ss, HH:mm:ss.
func parseTimePortion(s string) (string, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return "", false
	}
	for _, p := range parts {
		if p == "" || !allDigits(p) {
			return "", false
		}
	}
	hour := parts[0]
	if len(hour) != 1 && len(hour) != 2 {
		return "", false
	}
	if len(parts[1]) != 2 {
		return "", false
	}
	var hourTok string
	if len(hour) == 1 {
		hourTok = "H"
	} else {
		hourTok = "HH"
	}
	if len(parts) == 2 {
		return hourTok + ":mm", true
	}
	if len(parts[2]) != 2 {
		return "", false
	}
	return hourTok + ":mm:ss", true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseDatePortion recognizes the three-field date shapes of spec §4.1:
// digit/digit/digit with a single consistent separator, or
// digit/MMM/digit with the month spelled as a three-letter abbreviation.
func parseDatePortion(s string, mode ResolutionMode, env Env) (string, bool) {
	sep, fieldsStr, ok := splitThreeFields(s)
	if !ok {
		return "", false
	}

	if monthIdx := monthAbbrIndex(fieldsStr[1], env.MonthAbbr); monthIdx >= 0 && !allDigits(fieldsStr[1]) {
		return parseDateWithMonthAbbr(fieldsStr, sep, mode)
	}

	var df [3]digitField
	for i, f := range fieldsStr {
		if !allDigits(f) || len(f) > 4 {
			return "", false
		}
		v, _ := strconv.Atoi(f)
		df[i] = digitField{width: len(f), value: v}
	}
	return resolveNumericDate(df, sep, mode)
}

// splitThreeFields splits s on the first separator character found among
// '/', '-', ' ' and requires the same separator to recur once more,
// yielding exactly three fields.
func splitThreeFields(s string) (sep byte, fields [3]string, ok bool) {
	for _, candidate := range []byte{'/', '-', ' '} {
		parts := strings.Split(s, string(candidate))
		if len(parts) == 3 && parts[0] != "" && parts[1] != "" && parts[2] != "" {
			return candidate, [3]string{parts[0], parts[1], parts[2]}, true
		}
	}
	return 0, fields, false
}

func widthLetter(width int, letter byte) string {
	switch width {
	case 1:
		return string(letter)
	case 2:
		return strings.Repeat(string(letter), 2)
	case 4:
		return strings.Repeat(string(letter), 4)
	default:
		return strings.Repeat(string(letter), width)
	}
}

func placeholder(width int) string {
	return strings.Repeat("?", width)
}

// resolveNumericDate implements the disambiguation rules of spec §4.1 for
// three all-numeric date fields.
func resolveNumericDate(df [3]digitField, sep byte, mode ResolutionMode) (string, bool) {
	s := string(sep)
	switch {
	case df[0].width == 4:
		if df[1].width > 2 || df[2].width > 2 {
			return "", false
		}
		return "yyyy" + s + widthLetter(df[1].width, 'M') + s + widthLetter(df[2].width, 'd'), true
	case df[2].width == 4:
		yearTok := "yyyy"
		dayMonth, ok := resolveDayMonth(df[0], df[1], mode)
		if !ok {
			return "", false
		}
		return dayMonth[0] + s + dayMonth[1] + s + yearTok, true
	case df[0].width <= 2 && df[1].width <= 2 && df[2].width <= 2:
		yearTok := widthLetter(df[2].width, 'y')
		dayMonth, ok := resolveDayMonth(df[0], df[1], mode)
		if !ok {
			return "", false
		}
		return dayMonth[0] + s + dayMonth[1] + s + yearTok, true
	default:
		return "", false
	}
}

// resolveDayMonth disambiguates two candidate day/month fields by
// magnitude, falling back to a mode-directed resolution or an unresolved
// placeholder pair when both are <=12 (Auto/None).
func resolveDayMonth(a, b digitField, mode ResolutionMode) ([2]string, bool) {
	if a.value < 1 || a.value > 31 || b.value < 1 || b.value > 31 {
		return [2]string{}, false
	}
	aOver := a.value > 12
	bOver := b.value > 12
	switch {
	case aOver && !bOver:
		return [2]string{widthLetter(a.width, 'd'), widthLetter(b.width, 'M')}, true
	case bOver && !aOver:
		return [2]string{widthLetter(a.width, 'M'), widthLetter(b.width, 'd')}, true
	case aOver && bOver:
		return [2]string{}, false
	default:
		switch mode {
		case DayFirst:
			return [2]string{widthLetter(a.width, 'd'), widthLetter(b.width, 'M')}, true
		case MonthFirst:
			return [2]string{widthLetter(a.width, 'M'), widthLetter(b.width, 'd')}, true
		default:
			return [2]string{placeholder(a.width), placeholder(b.width)}, true
		}
	}
}

// parseDateWithMonthAbbr handles the "digit MMM digit" shape: whichever
// digit field is four wide is the year, the other is the day.
func parseDateWithMonthAbbr(fields [3]string, sep byte, mode ResolutionMode) (string, bool) {
	if !allDigits(fields[0]) || !allDigits(fields[2]) {
		return "", false
	}
	d0 := digitField{width: len(fields[0]), value: atoiOr(fields[0])}
	d2 := digitField{width: len(fields[2]), value: atoiOr(fields[2])}
	s := string(sep)
	switch {
	case d0.width == 4 && d2.width != 4:
		return "yyyy" + s + "MMM" + s + widthLetter(d2.width, 'd'), true
	case d2.width == 4 && d0.width != 4:
		return widthLetter(d0.width, 'd') + s + "MMM" + s + "yyyy", true
	case d0.width <= 2 && d2.width <= 2:
		// no 4-digit anchor: conventional day-MMM-year
		return widthLetter(d0.width, 'd') + s + "MMM" + s + widthLetter(d2.width, 'y'), true
	default:
		return "", false
	}
}

func atoiOr(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return v
}

// ForceResolve rewrites the '?' placeholders produced for an ambiguous
// day/month pair, left to right, according to dayFirst.
func ForceResolve(format string, dayFirst bool) string {
	var b strings.Builder
	runes := []rune(format)
	i := 0
	occurrence := 0
	for i < len(runes) {
		if runes[i] == '?' {
			j := i
			for j < len(runes) && runes[j] == '?' {
				j++
			}
			width := j - i
			isDay := (occurrence == 0) == dayFirst
			if isDay {
				b.WriteString(widthLetter(width, 'd'))
			} else {
				b.WriteString(widthLetter(width, 'M'))
			}
			occurrence++
			i = j
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}
