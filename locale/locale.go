// Package locale supplies the locale-dependent knobs the analyzer needs:
// which three letters spell "March", and which rune separates thousands
// groups or marks a decimal point. It wraps golang.org/x/text/language so
// callers hand in an ordinary BCP 47 tag ("en-US", "de-DE") rather than a
// bespoke identifier.
package locale

import (
	"golang.org/x/text/language"
)

// Locale bundles the numeric-formatting and month-naming conventions for
// one BCP 47 language tag. The zero value is meaningless; use Default or
// NewLocale.
type Locale struct {
	tag        language.Tag
	decimalSep rune
	groupSep   rune
	minusSign  rune
	monthAbbr  [12]string
}

var monthAbbrEnglish = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var monthAbbrEnglishGB = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var monthAbbrGerman = [12]string{
	"Jan", "Feb", "Mär", "Apr", "Mai", "Jun",
	"Jul", "Aug", "Sep", "Okt", "Nov", "Dez",
}

var monthAbbrFrench = [12]string{
	"janv", "févr", "mars", "avr", "mai", "juin",
	"juil", "août", "sept", "oct", "nov", "déc",
}

var monthAbbrSpanish = [12]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

// numberConventions holds the decimal/group/minus runes and month
// abbreviations known for the handful of locales the reference corpus
// ships: en, en-GB, fr, de, es. Locales not in this table fall back to the
// English (period decimal, comma group) convention and English month
// names, which matches the overwhelming majority of CSV exports the
// analyzer sees in practice.
var numberConventions = map[string]struct {
	decimal, group, minus rune
	months                [12]string
}{
	"en":    {'.', ',', '-', monthAbbrEnglish},
	"en-GB": {'.', ',', '-', monthAbbrEnglishGB},
	"de":    {',', '.', '-', monthAbbrGerman},
	"fr":    {',', ' ', '-', monthAbbrFrench},
	"es":    {',', '.', '-', monthAbbrSpanish},
}

var english = Locale{
	tag:        language.AmericanEnglish,
	decimalSep: '.',
	groupSep:   ',',
	minusSign:  '-',
	monthAbbr:  monthAbbrEnglish,
}

// Default is the fallback locale (English conventions) used when a caller
// never installs one explicitly.
func Default() Locale {
	return english
}

// NewLocale parses tag as a BCP 47 language tag and returns the Locale
// carrying its numeric and month-naming conventions. An unparsable or
// unsupported tag falls back to Default rather than failing the whole
// training run over a typo'd --locale flag; callers that care should log
// the returned error at WARN.
func NewLocale(tag string) (Locale, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return Default(), err
	}

	if conv, ok := numberConventions[t.String()]; ok {
		return Locale{tag: t, decimalSep: conv.decimal, groupSep: conv.group, minusSign: conv.minus, monthAbbr: conv.months}, nil
	}
	base, _ := t.Base()
	if conv, ok := numberConventions[base.String()]; ok {
		return Locale{tag: t, decimalSep: conv.decimal, groupSep: conv.group, minusSign: conv.minus, monthAbbr: conv.months}, nil
	}
	l := Default()
	l.tag = t
	return l, errUnsupportedLocale(tag)
}

type errUnsupportedLocale string

func (e errUnsupportedLocale) Error() string {
	return "locale: unsupported tag " + string(e) + ", falling back to English conventions"
}

func (l Locale) Tag() language.Tag { return l.tag }

// DecimalSep is the rune that separates the integer and fractional parts of
// a number in this locale (spec §4.3's "locale-configurable decimal
// separator, group separator, minus sign").
func (l Locale) DecimalSep() rune { return l.decimalSep }

func (l Locale) GroupSep() rune { return l.groupSep }

func (l Locale) MinusSign() rune { return l.minusSign }

// MonthAbbreviations returns the twelve three-to-five letter month
// abbreviations the date detector matches against, January first.
func (l Locale) MonthAbbreviations() [12]string { return l.monthAbbr }
