package fta

import (
	"strings"

	"github.com/mosaicdata/fta/internal/datefmt"
	"github.com/mosaicdata/fta/internal/ftalog"
	"github.com/mosaicdata/fta/internal/pattern"
	"github.com/mosaicdata/fta/internal/shape"
	"github.com/mosaicdata/fta/refdata"
	"github.com/mosaicdata/fta/semtype"
)

// trainWindow appends one real (non-null, non-blank) sample to the
// detection window and updates the possibility counters spec §4.4 names.
func (a *Analyzer) trainWindow(trimmed string) {
	s := a.state
	tr := shape.Compress(trimmed, a.loc.DecimalSep(), a.loc.GroupSep(), a.loc.MinusSign(), pattern.Default().General)

	s.window = append(s.window, trimmed)
	s.l0Window = append(s.l0Window, tr.L0)
	s.l1Window = append(s.l1Window, tr.L1)
	s.l2Window = append(s.l2Window, tr.L2)

	a.updatePossibilities(trimmed)
}

func (a *Analyzer) updatePossibilities(trimmed string) {
	s := a.state
	if looksLikeEmail(trimmed) {
		s.possibleEmails++
	}
	if len(trimmed) == 5 && allASCIIDigit(trimmed) {
		s.possibleZips++
	}
	if strings.Contains(trimmed, "://") {
		s.possibleURLs++
	}
	if looksLikeAddress(trimmed, a.refData) {
		s.possibleAddresses++
	}
	if _, ok := datefmt.DetermineFormat(trimmed, a.mode, a.dateEnv()); ok {
		s.possibleDateTime++
	}
}

func looksLikeEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t,;")
}

func looksLikeAddress(s string, src refdata.Source) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	last := strings.ToUpper(strings.Trim(fields[len(fields)-1], ".,"))
	return src.Contains(refdata.AddressMarker, last)
}

func allASCIIDigit(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// freqEntry is one (pattern, count) row with the index of its first
// appearance, so ties break on insertion order per spec §4.4 step 1.
type freqEntry struct {
	pattern string
	count   int
	first   int
}

func tally(values []string) []freqEntry {
	idx := map[string]int{}
	var out []freqEntry
	for i, v := range values {
		if pos, ok := idx[v]; ok {
			out[pos].count++
			continue
		}
		idx[v] = len(out)
		out = append(out, freqEntry{pattern: v, count: 1, first: i})
	}
	return out
}

func best(entries []freqEntry) (freqEntry, bool) {
	if len(entries) == 0 {
		return freqEntry{}, false
	}
	win := entries[0]
	for _, e := range entries[1:] {
		if e.count > win.count || (e.count == win.count && e.first < win.first) {
			win = e
		}
	}
	return win, true
}

// fusedNumeric walks a level's frequency table, promoting every numeric
// entry into one running lattice rung (spec §4.4 step 2), and reports the
// combined frequency of all numeric entries folded together.
func fusedNumeric(entries []freqEntry) (rung pattern.Numeric, count int, any bool) {
	for _, e := range entries {
		if r, ok := numericRungOfL2(e.pattern); ok {
			rung = pattern.Promote(rung, r)
			count += e.count
			any = true
		}
	}
	return rung, count, any
}

// determineType runs the window-fill type determination of spec §4.4 once
// realSamples exceeds the configured window size.
func (a *Analyzer) determineType() {
	s := a.state

	l0 := tally(s.l0Window)
	l1 := tally(s.l1Window)
	l2 := tally(s.l2Window)

	best0, have0 := best(l0)
	best1, have1 := best(l1)
	best2, have2 := best(l2)

	numRung1, numCount1, numAny1 := fusedNumeric(l1)
	numRung2, numCount2, numAny2 := fusedNumeric(l2)

	winLevel, winPattern, winCount := 0, "", 0
	if have0 {
		winLevel, winPattern, winCount = 0, best0.pattern, best0.count
	}

	// Step 3: L0 -> L1 switch when L0 is unrecognized, or L1 (possibly
	// numeric-fused) is more frequent.
	_, recognizedL0 := pattern.Default().ByL0(winPattern)
	l1Count := best1.count
	l1Pattern := best1.pattern
	if numAny1 && numCount1 >= l1Count {
		l1Count, l1Pattern = numCount1, numericPatternString(numRung1)
	}
	if have1 && (!recognizedL0 || l1Count > winCount) {
		winLevel, winPattern, winCount = 1, l1Pattern, l1Count
	}

	// Step 3 continued: L1 -> L2 switch under any of the named conditions.
	l2Count := best2.count
	l2Pattern := best2.pattern
	sameSemanticAsWin := false
	if numAny2 && numCount2 >= l2Count {
		l2Count, l2Pattern = numCount2, numericPatternString(numRung2)
	}
	if have2 {
		_, winIsRecognized := pattern.Default().ByL0(winPattern)
		winType, _ := patternSemantic(winPattern)
		l2Type, _ := patternSemantic(l2Pattern)
		sameSemanticAsWin = winType != semtype.Unknown && winType == l2Type
		switch {
		case !winIsRecognized && winLevel != 2:
			winLevel, winPattern, winCount = 2, l2Pattern, l2Count
		case l2Pattern == winPattern && l2Count > winCount:
			winLevel, winPattern, winCount = 2, l2Pattern, l2Count
		case sameSemanticAsWin && l2Count > winCount:
			winLevel, winPattern, winCount = 2, l2Pattern, l2Count
		case l2Count >= winCount+a.sampleSize/10:
			winLevel, winPattern, winCount = 2, l2Pattern, l2Count
		}
	}

	baseType, qual := patternSemantic(winPattern)
	formatStr := ""
	if e, ok := pattern.Default().ByL0(winPattern); ok {
		formatStr = e.Format
	}

	// Step 4: special overrides, evaluated in order; the first whose
	// condition holds is applied and the rest are skipped.
	real := len(s.window)
	if real > 0 && s.possibleDateTime == real {
		if f, ok := retrainDateFormat(s.window, a.mode, a.dateEnv()); ok {
			baseType, qual, formatStr, winPattern = pickDateTimeType(f), semtype.QualifierNone, f, ""
		}
	} else if real > 0 && s.possibleEmails == real && passRate(s.window, looksLikeEmail) >= 0.9 {
		baseType, qual, formatStr = semtype.String, semtype.EMAIL, ""
	} else if real > 0 && s.possibleURLs == real && passRate(s.window, func(v string) bool { return strings.Contains(v, "://") }) >= 0.9 {
		baseType, qual, formatStr = semtype.String, semtype.URL, ""
	} else if real > 0 && s.possibleZips == real && zipPassRate(s.window, a.refData) >= 0.9 {
		baseType, qual, formatStr = semtype.Long, semtype.ZIP, ""
	} else if real > 0 && s.possibleAddresses == real && addressPassRate(s.window, a.refData) >= 0.9 {
		baseType, qual, formatStr = semtype.String, semtype.ADDRESS, ""
	}

	s.baseType = baseType
	s.qualifier = qual
	s.formatStr = formatStr
	s.patternL0 = winPattern
	s.patternGen = winPattern
	s.typeLocked = true

	a.log.Debug("type determined",
		ftalog.KV("column", a.name),
		ftalog.KV("type", baseType.String()),
		ftalog.KV("qualifier", string(qual)),
		ftalog.KV("pattern", winPattern))

	a.replayWindow()
}

func pickDateTimeType(format string) semtype.Type {
	d, err := datefmt.Compile(format)
	if err != nil {
		return semtype.Unknown
	}
	return d.Type()
}

// retrainDateFormat reruns the date detector over the whole window and
// returns the format most samples produce (ties go to the one seen first),
// rather than whatever the first sample alone suggested.
func retrainDateFormat(window []string, mode datefmt.ResolutionMode, env datefmt.Env) (string, bool) {
	counts := map[string]int{}
	order := map[string]int{}
	for i, v := range window {
		f, ok := datefmt.DetermineFormat(v, mode, env)
		if !ok {
			continue
		}
		if _, seen := counts[f]; !seen {
			order[f] = i
		}
		counts[f]++
	}
	var winner string
	winCount, winFirst := -1, 1<<31 - 1
	for f, c := range counts {
		if c > winCount || (c == winCount && order[f] < winFirst) {
			winner, winCount, winFirst = f, c, order[f]
		}
	}
	return winner, winCount > 0
}

func passRate(window []string, pred func(string) bool) float64 {
	if len(window) == 0 {
		return 0
	}
	n := 0
	for _, v := range window {
		if pred(v) {
			n++
		}
	}
	return float64(n) / float64(len(window))
}

func zipPassRate(window []string, src refdata.Source) float64 {
	return passRate(window, func(v string) bool {
		return len(v) == 5 && allASCIIDigit(v) && src.Contains(refdata.Zip, v)
	})
}

func addressPassRate(window []string, src refdata.Source) float64 {
	return passRate(window, func(v string) bool { return looksLikeAddress(v, src) })
}

// patternSemantic maps a winning pattern string — either a registered
// structural shape or one of the four numeric canonical forms — to its
// (type, qualifier) pair.
func patternSemantic(p string) (semtype.Type, semtype.Qualifier) {
	if e, ok := pattern.Default().ByL0(p); ok {
		return e.Type, e.Qual
	}
	if rung, ok := numericRungOfL2FromPattern(p); ok {
		return rung.ToSemantic()
	}
	switch p {
	case `\p{Alpha}+`, `\p{Alnum}+`:
		return semtype.String, semtype.QualifierNone
	case ".+", "":
		return semtype.String, semtype.QualifierNone
	}
	return semtype.String, semtype.QualifierNone
}

func numericRungOfL2FromPattern(p string) (pattern.Numeric, bool) {
	return numericRungOfL2(p)
}

func numericPatternString(rung pattern.Numeric) string {
	t, q := rung.ToSemantic()
	switch {
	case t == semtype.Long && q == semtype.SIGNED:
		return `-?\d+`
	case t == semtype.Long:
		return `\d+`
	case t == semtype.Double && q == semtype.SIGNED:
		return `-?(\d+)?\.\d+`
	case t == semtype.Double:
		return `(\d+)?\.\d+`
	}
	return `.+`
}
