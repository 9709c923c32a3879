package fta

import (
	"strconv"
	"strings"

	"github.com/mosaicdata/fta/internal/pattern"
)

// numericRungOfL2 maps one of the shape compressor's four fixed numeric L2
// forms to its lattice rung. NumDoubleExp/NumSignedDoubleExp have no L2
// shape to map from — the shape compressor has no scientific-notation
// case — so they are presently unreachable through this path (see
// DESIGN.md).
func numericRungOfL2(l2 string) (pattern.Numeric, bool) {
	switch l2 {
	case `\d+`:
		return pattern.NumLong, true
	case `-?\d+`:
		return pattern.NumSignedLong, true
	case `(\d+)?\.\d+`:
		return pattern.NumDouble, true
	case `-?(\d+)?\.\d+`:
		return pattern.NumSignedDouble, true
	}
	return pattern.NumUnknown, false
}

// parseLong parses trimmed as a signed 64-bit integer, substituting loc's
// group separator (stripped) and minus sign (normalized to '-') first.
// leadingZero reports whether the normalized digits run starts with '0'
// while having more than one digit — spec §4.5's per-sample leading-zero
// count.
func parseLong(trimmed string, groupSep, minusSign rune) (v int64, leadingZero bool, ok bool) {
	norm := normalizeSign(trimmed, minusSign)
	norm = stripRune(norm, groupSep)
	if norm == "" {
		return 0, false, false
	}
	digits := norm
	if strings.HasPrefix(digits, "-") {
		digits = digits[1:]
	}
	if len(digits) > 1 && digits[0] == '0' {
		leadingZero = true
	}
	n, err := strconv.ParseInt(norm, 10, 64)
	if err != nil {
		return 0, leadingZero, false
	}
	return n, leadingZero, true
}

// parseDouble parses trimmed as a 64-bit float, substituting loc's decimal
// separator (normalized to '.'), group separator (stripped), and minus
// sign first.
func parseDouble(trimmed string, decimalSep, groupSep, minusSign rune) (float64, bool) {
	norm := normalizeSign(trimmed, minusSign)
	norm = stripRune(norm, groupSep)
	if decimalSep != '.' {
		norm = strings.ReplaceAll(norm, string(decimalSep), ".")
	}
	f, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func normalizeSign(s string, minusSign rune) string {
	if minusSign == '-' {
		return s
	}
	return strings.ReplaceAll(s, string(minusSign), "-")
}

func stripRune(s string, r rune) string {
	if !strings.ContainsRune(s, r) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		if c != r {
			b.WriteRune(c)
		}
	}
	return b.String()
}
