// Package shape folds a trimmed sample into the three progressively coarser
// shape descriptors (L0, L1, L2) the profiler fuses to infer a type.
package shape

import (
	"regexp"
	"strings"

	"github.com/mosaicdata/fta/internal/charclass"
)

var (
	boolTrueFalse = regexp.MustCompile(`(?i)\A(?:true|false)\z`)
	boolYesNo     = regexp.MustCompile(`(?i)\A(?:yes|no)\z`)
)

// Triple holds the three shape levels derived from one sample.
type Triple struct {
	L0 string
	L1 string
	L2 string
}

// run is one maximal same-class run found while scanning the sample.
type run struct {
	class charclass.Class
	r     rune // representative rune, for Other runs where every char is copied verbatim
	n     int
	// lit holds the literal text of an Other run, since those are copied
	// verbatim rather than collapsed to a single representative rune.
	lit string
}

// Compress derives L0, L1, L2 for a single trimmed sample. generalOf, when
// non-nil, returns the registered general pattern for a known L0 shape —
// the pattern registry supplies it so L1 generalization matches spec §4.3.
func Compress(sample string, decimalSep, groupSep, minus rune, generalOf func(l0 string) (string, bool)) Triple {
	if sample == "" {
		return Triple{L0: "", L1: "", L2: ".+"}
	}
	if boolTrueFalse.MatchString(sample) {
		return Triple{L0: "(?i)(true|false)", L1: "(?i)(true|false)", L2: "(?i)(true|false)"}
	}
	if boolYesNo.MatchString(sample) {
		return Triple{L0: "(?i)(yes|no)", L1: "(?i)(yes|no)", L2: "(?i)(yes|no)"}
	}

	runs := scan(sample, decimalSep, groupSep, minus)

	l0 := renderL0(runs)
	l1 := renderL1(runs)
	if generalOf != nil {
		if general, ok := generalOf(l0); ok {
			l1 = general
		}
	}
	l2 := renderL2(sample, runs, decimalSep, groupSep, minus)

	return Triple{L0: l0, L1: l1, L2: l2}
}

func scan(sample string, decimalSep, groupSep, minus rune) []run {
	var runs []run
	rs := []rune(sample)
	i := 0
	for i < len(rs) {
		c := charclass.Of(rs[i], decimalSep, groupSep, minus)
		switch c {
		case charclass.Digit, charclass.Alpha:
			j := i + 1
			for j < len(rs) && charclass.Of(rs[j], decimalSep, groupSep, minus) == c {
				j++
			}
			runs = append(runs, run{class: c, n: j - i})
			i = j
		default:
			runs = append(runs, run{class: c, r: rs[i], n: 1, lit: string(rs[i])})
			i++
		}
	}
	return runs
}

func renderL0(runs []run) string {
	var b strings.Builder
	for _, rn := range runs {
		switch rn.class {
		case charclass.Digit:
			b.WriteString(exactDigitRun(rn.n))
		case charclass.Alpha:
			b.WriteString(exactAlphaRun(rn.n))
		default:
			b.WriteString(regexp.QuoteMeta(rn.lit))
		}
	}
	return b.String()
}

func renderL1(runs []run) string {
	var b strings.Builder
	for _, rn := range runs {
		switch rn.class {
		case charclass.Digit:
			b.WriteString(`\d+`)
		case charclass.Alpha:
			b.WriteString(`\p{Alpha}+`)
		default:
			b.WriteString(regexp.QuoteMeta(rn.lit))
		}
	}
	return b.String()
}

func exactDigitRun(n int) string {
	if n == 1 {
		return `\d`
	}
	return `\d{` + itoa(n) + `}`
}

func exactAlphaRun(n int) string {
	if n == 1 {
		return `\p{Alpha}`
	}
	return `\p{Alpha}{` + itoa(n) + `}`
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits [20]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// renderL2 is the broadest descriptor: \p{Alpha}+ for pure letters, the
// signed/decimal numeric forms for numerics, \p{Alnum}{n} for a length-
// preserving mix of letters and digits, and .+ for everything else.
func renderL2(sample string, runs []run, decimalSep, groupSep, minus rune) string {
	var digits, alphas, others int
	var hasMinus, hasDecimal, hasOther bool
	length := 0
	for _, rn := range runs {
		length += rn.n
		switch rn.class {
		case charclass.Digit:
			digits += rn.n
		case charclass.Alpha:
			alphas += rn.n
		case charclass.Minus:
			hasMinus = true
			others += rn.n
		case charclass.DecimalSep:
			hasDecimal = true
			others += rn.n
		case charclass.GroupSep:
			others += rn.n
		default:
			hasOther = true
			others += rn.n
		}
	}

	if alphas > 0 && digits == 0 && others == 0 {
		return `\p{Alpha}+`
	}
	if alphas > 0 && digits > 0 && others == 0 && alphas+digits == length {
		return `\p{Alnum}{` + itoa(length) + `}`
	}
	if digits > 0 && alphas == 0 && !hasOther {
		if hasDecimal {
			if hasMinus {
				return `-?(\d+)?\.\d+`
			}
			return `(\d+)?\.\d+`
		}
		if hasMinus {
			return `-?\d+`
		}
		return `\d+`
	}
	return `.+`
}
