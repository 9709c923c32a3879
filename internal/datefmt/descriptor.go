package datefmt

import (
	"strings"
	"sync"

	"github.com/mosaicdata/fta/semtype"
)

// token is one parsed unit of a compiled format string.
type tokenKind byte

const (
	tokYear2 tokenKind = iota // yy
	tokYear4                  // yyyy
	tokMonthNum               // M or MM
	tokMonthAbbr              // MMM
	tokDay                    // d or dd
	tokHour                   // H or HH
	tokMinute                 // mm
	tokSecond                 // ss
	tokAmbig                  // ? or ??, undecided day/month field, no range check
	tokLiteral                // a quoted or bare constant character, e.g. '-' or 'T'
	tokOffset  // x, xx, xxx, xxxx, xxxxx
	tokZone    // " z"
)

type formatToken struct {
	kind  tokenKind
	width int    // digit width for numeric tokens, ambiguous tokens, offset variant count
	lit   string // literal text for tokLiteral
}

// Descriptor is the parsed, immutable representation of one format string,
// cached process-wide and safe for concurrent use (spec §5).
type Descriptor struct {
	raw    string
	tokens []formatToken
}

// FormatString returns the format string this descriptor was compiled from.
func (d *Descriptor) FormatString() string { return d.raw }

var (
	descCacheMu sync.RWMutex
	descCache   = map[string]*Descriptor{}
)

// Compile parses a format string into a Descriptor, consulting the
// process-wide cache first. Insertion is idempotent: concurrent callers
// compiling the same format string converge on an equal (usually identical)
// *Descriptor.
func Compile(format string) (*Descriptor, error) {
	descCacheMu.RLock()
	if d, ok := descCache[format]; ok {
		descCacheMu.RUnlock()
		return d, nil
	}
	descCacheMu.RUnlock()

	toks, err := tokenize(format)
	if err != nil {
		return nil, err
	}
	d := &Descriptor{raw: format, tokens: toks}

	descCacheMu.Lock()
	if existing, ok := descCache[format]; ok {
		d = existing
	} else {
		descCache[format] = d
	}
	descCacheMu.Unlock()
	return d, nil
}

// tokenize walks a format string and breaks it into formatToken values.
// Quoted runs ('T') become literals; runs of a repeated letter become the
// matching numeric/ambiguous token at that width; everything else is a
// literal character (date/time separators).
func tokenize(format string) ([]formatToken, error) {
	var toks []formatToken
	rs := []rune(format)
	i := 0
	for i < len(rs) {
		switch rs[i] {
		case '\'':
			j := i + 1
			for j < len(rs) && rs[j] != '\'' {
				j++
			}
			if j >= len(rs) {
				return nil, errUnbalancedQuote
			}
			toks = append(toks, formatToken{kind: tokLiteral, lit: string(rs[i+1 : j])})
			i = j + 1
		case 'y':
			j := runLen(rs, i, 'y')
			switch j - i {
			case 2:
				toks = append(toks, formatToken{kind: tokYear2})
			case 4:
				toks = append(toks, formatToken{kind: tokYear4})
			default:
				return nil, errBadToken
			}
			i = j
		case 'M':
			j := runLen(rs, i, 'M')
			switch j - i {
			case 1, 2:
				toks = append(toks, formatToken{kind: tokMonthNum, width: j - i})
			case 3:
				toks = append(toks, formatToken{kind: tokMonthAbbr})
			default:
				return nil, errBadToken
			}
			i = j
		case 'd':
			j := runLen(rs, i, 'd')
			if j-i > 2 {
				return nil, errBadToken
			}
			toks = append(toks, formatToken{kind: tokDay, width: j - i})
			i = j
		case 'H':
			j := runLen(rs, i, 'H')
			if j-i > 2 {
				return nil, errBadToken
			}
			toks = append(toks, formatToken{kind: tokHour, width: j - i})
			i = j
		case 'm':
			j := runLen(rs, i, 'm')
			if j-i != 2 {
				return nil, errBadToken
			}
			toks = append(toks, formatToken{kind: tokMinute})
			i = j
		case 's':
			j := runLen(rs, i, 's')
			if j-i != 2 {
				return nil, errBadToken
			}
			toks = append(toks, formatToken{kind: tokSecond})
			i = j
		case '?':
			j := runLen(rs, i, '?')
			toks = append(toks, formatToken{kind: tokAmbig, width: j - i})
			i = j
		case 'x':
			j := runLen(rs, i, 'x')
			toks = append(toks, formatToken{kind: tokOffset, width: j - i})
			i = j
		case ' ':
			if i+1 < len(rs) && rs[i+1] == 'z' {
				toks = append(toks, formatToken{kind: tokZone})
				i += 2
			} else {
				toks = append(toks, formatToken{kind: tokLiteral, lit: " "})
				i++
			}
		default:
			toks = append(toks, formatToken{kind: tokLiteral, lit: string(rs[i])})
			i++
		}
	}
	return toks, nil
}

func runLen(rs []rune, i int, r rune) int {
	j := i
	for j < len(rs) && rs[j] == r {
		j++
	}
	return j
}

// Type reports the semantic date/time family this descriptor belongs to.
func (d *Descriptor) Type() semtype.Type {
	hasDate, hasTime, hasOffset, hasZone := false, false, false, false
	for _, t := range d.tokens {
		switch t.kind {
		case tokYear2, tokYear4, tokMonthNum, tokMonthAbbr, tokDay, tokAmbig:
			hasDate = true
		case tokHour, tokMinute, tokSecond:
			hasTime = true
		case tokOffset:
			hasOffset = true
		case tokZone:
			hasZone = true
		}
	}
	switch {
	case hasDate && !hasTime:
		return semtype.LocalDate
	case hasTime && !hasDate:
		return semtype.LocalTime
	case hasDate && hasTime && hasOffset:
		return semtype.OffsetDateTime
	case hasDate && hasTime && hasZone:
		return semtype.ZonedDateTime
	case hasDate && hasTime:
		return semtype.LocalDateTime
	default:
		return semtype.Unknown
	}
}

// RegExp synthesizes a regular expression that matches strings shaped like
// this format, built from the same token stream the validator walks.
func (d *Descriptor) RegExp() string {
	var b strings.Builder
	for _, t := range d.tokens {
		switch t.kind {
		case tokYear2:
			b.WriteString(`\d{2}`)
		case tokYear4:
			b.WriteString(`\d{4}`)
		case tokMonthNum:
			if t.width == 1 {
				b.WriteString(`\d{1,2}`)
			} else {
				b.WriteString(`\d{2}`)
			}
		case tokMonthAbbr:
			b.WriteString(`[A-Za-zÀ-ÿ]{3,5}`)
		case tokDay:
			if t.width == 1 {
				b.WriteString(`\d{1,2}`)
			} else {
				b.WriteString(`\d{2}`)
			}
		case tokHour:
			if t.width == 1 {
				b.WriteString(`\d{1,2}`)
			} else {
				b.WriteString(`\d{2}`)
			}
		case tokMinute, tokSecond:
			b.WriteString(`\d{2}`)
		case tokAmbig:
			b.WriteString(`\d{1,2}`)
		case tokOffset:
			switch t.width {
			case 1:
				b.WriteString(`[+\-]\d{2}`)
			case 2:
				b.WriteString(`[+\-]\d{4}`)
			case 3:
				b.WriteString(`[+\-]\d{2}:\d{2}`)
			case 4:
				b.WriteString(`[+\-]\d{6}`)
			case 5:
				b.WriteString(`[+\-]\d{2}:\d{2}:\d{2}`)
			}
		case tokZone:
			b.WriteString(` [A-Z]{2,5}`)
		case tokLiteral:
			b.WriteString(regexpQuote(t.lit))
		}
	}
	return b.String()
}

func regexpQuote(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '.', '+', '*', '?', '(', ')', '[', ']', '{', '}', '^', '$', '|', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
