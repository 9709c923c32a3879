package fta

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/mosaicdata/fta/semtype"
)

func TestTrainLongColumnLocksAndTracksExtremes(t *testing.T) {
	a := NewAnalyzer("amount", Auto)
	for i := 1; i <= 25; i++ {
		a.Train(strconv.Itoa(i), false)
	}
	r := a.GetResult()
	if r.SemanticType != "Long" {
		t.Fatalf("SemanticType = %q, want Long", r.SemanticType)
	}
	if r.TypeQualifier != "" {
		t.Fatalf("TypeQualifier = %q, want none", r.TypeQualifier)
	}
	if r.MatchCount != 25 {
		t.Fatalf("MatchCount = %d, want 25", r.MatchCount)
	}
	if r.MinValue != "1" || r.MaxValue != "25" {
		t.Fatalf("MinValue/MaxValue = %q/%q, want 1/25", r.MinValue, r.MaxValue)
	}
	if r.Confidence != 1 {
		t.Fatalf("Confidence = %v, want 1", r.Confidence)
	}
	if r.IsKey {
		t.Fatal("25 samples should never qualify as a key (needs > 1000)")
	}
}

func TestTrainBooleanColumnLocksViaRegistry(t *testing.T) {
	a := NewAnalyzer("active", Auto)
	vals := []string{
		"false", "true", "TRUE", "    false   ", "FALSE ", "TRUE", "true",
		"false", "False", "True", "false",
		"true", "False", "TRUE", "false", "True", "FALSE", "true", "False",
		"TRUE", "false", "True",
	}
	a.Train("", true)
	for i, v := range vals {
		if i == 14 {
			a.Train("", true)
		}
		a.Train(v, false)
	}
	r := a.GetResult()
	if r.SemanticType != "Boolean" {
		t.Fatalf("SemanticType = %q, want Boolean", r.SemanticType)
	}
	if r.MatchCount != len(vals) {
		t.Fatalf("MatchCount = %d, want %d", r.MatchCount, len(vals))
	}
	if r.NullCount != 2 {
		t.Fatalf("NullCount = %d, want 2", r.NullCount)
	}
	if r.PatternRegExp != `(?i)(true|false)` {
		t.Fatalf("PatternRegExp = %q, want (?i)(true|false)", r.PatternRegExp)
	}
	if r.MinValue != "false" || r.MaxValue != "true" {
		t.Fatalf("MinValue/MaxValue = %q/%q, want false/true", r.MinValue, r.MaxValue)
	}
}

func TestConfigurationRejectedAfterTrainingStarted(t *testing.T) {
	a := NewAnalyzer("col", Auto)
	a.Train("1", false)
	if err := a.SetSampleSize(30); !errors.Is(err, ErrAlreadyTraining) {
		t.Fatalf("SetSampleSize after training = %v, want ErrAlreadyTraining", err)
	}
	if err := a.SetMaxCardinality(10); !errors.Is(err, ErrAlreadyTraining) {
		t.Fatalf("SetMaxCardinality after training = %v, want ErrAlreadyTraining", err)
	}
}

func TestSetSampleSizeRejectsBelowMinimum(t *testing.T) {
	a := NewAnalyzer("col", Auto)
	if err := a.SetSampleSize(5); err == nil {
		t.Fatal("expected an error for sample size below the minimum of 20")
	}
}

func TestAllNullColumnConfidence(t *testing.T) {
	a := NewAnalyzer("col", Auto)
	for i := 0; i < 12; i++ {
		a.Train("", true)
	}
	r := a.GetResult()
	if r.TypeQualifier != string(semtype.NULL) {
		t.Fatalf("TypeQualifier = %q, want NULL", r.TypeQualifier)
	}
	if r.Confidence != 1 {
		t.Fatalf("Confidence = %v, want 1 (sampleCount >= 10)", r.Confidence)
	}
}

func TestAllBlankColumnConfidenceBelowTen(t *testing.T) {
	a := NewAnalyzer("col", Auto)
	for i := 0; i < 5; i++ {
		a.Train("   ", false)
	}
	r := a.GetResult()
	if r.TypeQualifier != string(semtype.BLANK) {
		t.Fatalf("TypeQualifier = %q, want BLANK", r.TypeQualifier)
	}
	if r.Confidence != 0 {
		t.Fatalf("Confidence = %v, want 0 (sampleCount < 10)", r.Confidence)
	}
}

func TestKeyDetectionOnUniqueLongColumn(t *testing.T) {
	a := NewAnalyzer("id", Auto)
	for i := 1; i <= 1500; i++ {
		a.Train(strconv.Itoa(i), false)
	}
	r := a.GetResult()
	if r.SemanticType != "Long" {
		t.Fatalf("SemanticType = %q, want Long", r.SemanticType)
	}
	if len(r.Cardinality) != 500 {
		t.Fatalf("len(Cardinality) = %d, want 500 (capped)", len(r.Cardinality))
	}
	if !r.IsKey {
		t.Fatal("expected IsKey true for > 1000 unique values with saturated cardinality")
	}
}

func TestKeyDetectionRequiresMoreThanAThousandSamples(t *testing.T) {
	a := NewAnalyzer("id", Auto)
	for i := 1; i <= 600; i++ {
		a.Train(strconv.Itoa(i), false)
	}
	r := a.GetResult()
	if r.IsKey {
		t.Fatal("600 samples should not qualify as a key (needs > 1000)")
	}
}

// TestReflectZipRetractsToLongWhenMostlyNumeric trains a column that locks
// as ZIP against two registered codes, then feeds it enough unregistered
// but purely numeric 5-digit values that reflection retracts ZIP in favor
// of plain Long (spec §4.6), merging the numeric outliers back in.
func TestReflectZipRetractsToLongWhenMostlyNumeric(t *testing.T) {
	a := NewAnalyzer("code", Auto)
	zips := []string{"10001", "20001"}
	for i := 0; i < 21; i++ {
		a.Train(zips[i%2], false)
	}
	others := []string{"11111", "22222", "33333", "44444", "55555", "66666", "77777", "88888", "99999"}
	for _, v := range others {
		a.Train(v, false)
	}
	r := a.GetResult()
	if r.SemanticType != "Long" {
		t.Fatalf("SemanticType = %q, want Long (ZIP retracted)", r.SemanticType)
	}
	if r.TypeQualifier != "" {
		t.Fatalf("TypeQualifier = %q, want none", r.TypeQualifier)
	}
	if r.MatchCount != 30 {
		t.Fatalf("MatchCount = %d, want 30", r.MatchCount)
	}
	if r.Confidence != 1 {
		t.Fatalf("Confidence = %v, want 1", r.Confidence)
	}
	if r.MinValue != "10001" || r.MaxValue != "20001" {
		t.Fatalf("MinValue/MaxValue = %q/%q, want 10001/20001", r.MinValue, r.MaxValue)
	}
}

// TestReflectZipRetractsToStringThenBacksOutOutliers trains a column that
// locks as ZIP against three registered codes, then feeds it non-numeric
// values that can't be repaired as Long, so reflection retracts to a
// generic string and the conditional-backout pass widens the pattern and
// folds the outliers back into cardinality (spec §4.6).
func TestReflectZipRetractsToStringThenBacksOutOutliers(t *testing.T) {
	a := NewAnalyzer("code", Auto)
	zips := []string{"10001", "20001", "30301"}
	for i := 0; i < 21; i++ {
		a.Train(zips[i%3], false)
	}
	others := []string{"ALPHA", "BRAVO", "CHARL", "DELTA", "ECHOX", "FOXTR", "GOLFX", "HOTEL", "INDIA"}
	for _, v := range others {
		a.Train(v, false)
	}
	r := a.GetResult()
	if r.SemanticType != "String" {
		t.Fatalf("SemanticType = %q, want String (ZIP retracted)", r.SemanticType)
	}
	if r.TypeQualifier != "" {
		t.Fatalf("TypeQualifier = %q, want none", r.TypeQualifier)
	}
	if r.PatternRegExp != `\p{Alnum}+` {
		t.Fatalf("PatternRegExp = %q, want \\p{Alnum}+ (widened by conditional backout)", r.PatternRegExp)
	}
	if r.MatchCount != 30 {
		t.Fatalf("MatchCount = %d, want 30 (outliers merged back in)", r.MatchCount)
	}
	if r.Confidence != 1 {
		t.Fatalf("Confidence = %v, want 1", r.Confidence)
	}
	if r.MinValue != "ALPHA" || r.MaxValue != "INDIA" {
		t.Fatalf("MinValue/MaxValue = %q/%q, want ALPHA/INDIA", r.MinValue, r.MaxValue)
	}
}

// TestReflectLongLooksLikeDateReclassifiesYearColumn trains a Long column
// named so it carries a date/year hint and whose values all fall in the
// plausible calendar-year range, and checks reflection reclassifies it to
// LocalDate (spec §4.6).
func TestReflectLongLooksLikeDateReclassifiesYearColumn(t *testing.T) {
	a := NewAnalyzer("year", Auto)
	for i := 0; i < 30; i++ {
		a.Train(strconv.Itoa(1990+i), false)
	}
	r := a.GetResult()
	if r.SemanticType != "LocalDate" {
		t.Fatalf("SemanticType = %q, want LocalDate", r.SemanticType)
	}
	if r.FormatString != "yyyy" {
		t.Fatalf("FormatString = %q, want yyyy", r.FormatString)
	}
	if r.PatternRegExp != `\d{4}` {
		t.Fatalf("PatternRegExp = %q, want \\d{4}", r.PatternRegExp)
	}
	if r.MatchCount != 30 {
		t.Fatalf("MatchCount = %d, want 30", r.MatchCount)
	}
}

// TestReflectBooleanFromZeroOneOnLongColumn trains a two-valued 0/1 Long
// column and checks reflection reclassifies it as Boolean (spec §4.6).
func TestReflectBooleanFromZeroOneOnLongColumn(t *testing.T) {
	a := NewAnalyzer("flag", Auto)
	for i := 0; i < 30; i++ {
		a.Train(strconv.Itoa(i%2), false)
	}
	r := a.GetResult()
	if r.SemanticType != "Boolean" {
		t.Fatalf("SemanticType = %q, want Boolean", r.SemanticType)
	}
	if r.TypeQualifier != "" {
		t.Fatalf("TypeQualifier = %q, want none", r.TypeQualifier)
	}
	if r.PatternRegExp != `[0|1]` {
		t.Fatalf("PatternRegExp = %q, want [0|1]", r.PatternRegExp)
	}
	if r.MatchCount != 30 {
		t.Fatalf("MatchCount = %d, want 30", r.MatchCount)
	}
}

// TestReflectUniformLengthStringMonthAbbreviations trains a column of bare
// three-letter month abbreviations (no structural registry entry matches a
// bare alpha run, so it locks as a generic string) and checks reflection
// assigns the MONTHABBR qualifier (spec §4.6).
func TestReflectUniformLengthStringMonthAbbreviations(t *testing.T) {
	a := NewAnalyzer("code", Auto)
	months := []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}
	for i := 0; i < 30; i++ {
		a.Train(months[i%len(months)], false)
	}
	r := a.GetResult()
	if r.SemanticType != "String" {
		t.Fatalf("SemanticType = %q, want String", r.SemanticType)
	}
	if r.TypeQualifier != string(semtype.MONTHABBR) {
		t.Fatalf("TypeQualifier = %q, want MONTHABBR", r.TypeQualifier)
	}
	if r.MatchCount != 30 {
		t.Fatalf("MatchCount = %d, want 30", r.MatchCount)
	}
}

// TestReflectUniformLengthStringStateAbbreviations trains a column of bare
// two-letter US state/CA province codes and checks reflection assigns the
// NA_STATE qualifier (spec §4.6).
func TestReflectUniformLengthStringStateAbbreviations(t *testing.T) {
	a := NewAnalyzer("code", Auto)
	states := []string{"CA", "NY", "TX", "FL", "WA", "ON", "QC", "BC", "AB", "MB"}
	for i := 0; i < 30; i++ {
		a.Train(states[i%len(states)], false)
	}
	r := a.GetResult()
	if r.SemanticType != "String" {
		t.Fatalf("SemanticType = %q, want String", r.SemanticType)
	}
	if r.TypeQualifier != string(semtype.NA_STATE) {
		t.Fatalf("TypeQualifier = %q, want NA_STATE", r.TypeQualifier)
	}
	if r.MatchCount != 30 {
		t.Fatalf("MatchCount = %d, want 30", r.MatchCount)
	}
}

// TestTrainEmailColumnLocksAndTracks trains a column of well-formed
// addresses end-to-end and checks the email special override in
// determineType locks it directly, without ever visiting reflection's
// string-qualifier path.
func TestTrainEmailColumnLocksAndTracks(t *testing.T) {
	a := NewAnalyzer("contact", Auto)
	for i := 1; i <= 30; i++ {
		a.Train(fmt.Sprintf("user%d@example.com", i), false)
	}
	r := a.GetResult()
	if r.SemanticType != "String" {
		t.Fatalf("SemanticType = %q, want String", r.SemanticType)
	}
	if r.TypeQualifier != string(semtype.EMAIL) {
		t.Fatalf("TypeQualifier = %q, want EMAIL", r.TypeQualifier)
	}
	if r.MatchCount != 30 {
		t.Fatalf("MatchCount = %d, want 30", r.MatchCount)
	}
	if r.Confidence != 1 {
		t.Fatalf("Confidence = %v, want 1", r.Confidence)
	}
}

// TestTrainURLColumnLocksAndTracks trains a column of URLs end-to-end and
// checks the URL special override in determineType locks it directly.
func TestTrainURLColumnLocksAndTracks(t *testing.T) {
	a := NewAnalyzer("link", Auto)
	for i := 1; i <= 30; i++ {
		a.Train(fmt.Sprintf("https://example.com/page%d", i), false)
	}
	r := a.GetResult()
	if r.SemanticType != "String" {
		t.Fatalf("SemanticType = %q, want String", r.SemanticType)
	}
	if r.TypeQualifier != string(semtype.URL) {
		t.Fatalf("TypeQualifier = %q, want URL", r.TypeQualifier)
	}
	if r.MatchCount != 30 {
		t.Fatalf("MatchCount = %d, want 30", r.MatchCount)
	}
}

// TestTrainAddressColumnLocksViaRefData trains a column of street addresses
// whose last token matches an address marker in reference data, checking
// the address special override in determineType locks it directly.
func TestTrainAddressColumnLocksViaRefData(t *testing.T) {
	a := NewAnalyzer("location", Auto)
	for i := 100; i < 130; i++ {
		a.Train(fmt.Sprintf("%d Main St", i), false)
	}
	r := a.GetResult()
	if r.SemanticType != "String" {
		t.Fatalf("SemanticType = %q, want String", r.SemanticType)
	}
	if r.TypeQualifier != string(semtype.ADDRESS) {
		t.Fatalf("TypeQualifier = %q, want ADDRESS", r.TypeQualifier)
	}
	if r.MatchCount != 30 {
		t.Fatalf("MatchCount = %d, want 30", r.MatchCount)
	}
}

// TestTrainDateColumnISOFormatLocksAndTracksExtremes trains a column of
// year-first ISO dates end-to-end, exercising the date special override,
// datefmt.Env threading through detection and parsing, and date extreme
// rendering.
func TestTrainDateColumnISOFormatLocksAndTracksExtremes(t *testing.T) {
	a := NewAnalyzer("observed_on", Auto)
	for day := 1; day <= 30; day++ {
		a.Train(fmt.Sprintf("2020-06-%02d", day), false)
	}
	r := a.GetResult()
	if r.SemanticType != "LocalDate" {
		t.Fatalf("SemanticType = %q, want LocalDate", r.SemanticType)
	}
	if r.FormatString != "yyyy-MM-dd" {
		t.Fatalf("FormatString = %q, want yyyy-MM-dd", r.FormatString)
	}
	if r.MatchCount != 30 {
		t.Fatalf("MatchCount = %d, want 30", r.MatchCount)
	}
	if r.Confidence != 1 {
		t.Fatalf("Confidence = %v, want 1", r.Confidence)
	}
	if r.MinValue != "2020-06-01" || r.MaxValue != "2020-06-30" {
		t.Fatalf("MinValue/MaxValue = %q/%q, want 2020-06-01/2020-06-30", r.MinValue, r.MaxValue)
	}
}

// TestTrainDateColumnWithMonthAbbreviationFormat trains a column of dates
// carrying a literal month abbreviation, exercising matchMonthAbbr
// through the locale-scoped datefmt.Env rather than any package-level
// table.
func TestTrainDateColumnWithMonthAbbreviationFormat(t *testing.T) {
	a := NewAnalyzer("posted_on", Auto)
	for day := 1; day <= 30; day++ {
		a.Train(fmt.Sprintf("%02d-Jun-2020", day), false)
	}
	r := a.GetResult()
	if r.SemanticType != "LocalDate" {
		t.Fatalf("SemanticType = %q, want LocalDate", r.SemanticType)
	}
	if r.FormatString != "dd-MMM-yyyy" {
		t.Fatalf("FormatString = %q, want dd-MMM-yyyy", r.FormatString)
	}
	if r.MatchCount != 30 {
		t.Fatalf("MatchCount = %d, want 30", r.MatchCount)
	}
	if r.MinValue != "01-Jun-2020" || r.MaxValue != "30-Jun-2020" {
		t.Fatalf("MinValue/MaxValue = %q/%q, want 01-Jun-2020/30-Jun-2020", r.MinValue, r.MaxValue)
	}
}

// TestTrackDateTimeRepairsInsufficientMonthDigits locks a yyyy-MM-dd column,
// then feeds one sample with a single-digit month. trackDateTime should
// repair the format to yyyy-M-dd and accept it (spec §4.5), after which
// later samples keep validating under the repaired, more permissive format.
func TestTrackDateTimeRepairsInsufficientMonthDigits(t *testing.T) {
	a := NewAnalyzer("observed_on", Auto)
	for day := 1; day <= 21; day++ {
		a.Train(fmt.Sprintf("2020-06-%02d", day), false)
	}
	a.Train("2020-6-05", false)
	for day := 22; day <= 29; day++ {
		a.Train(fmt.Sprintf("2020-06-%02d", day), false)
	}
	r := a.GetResult()
	if r.SemanticType != "LocalDate" {
		t.Fatalf("SemanticType = %q, want LocalDate", r.SemanticType)
	}
	if r.FormatString != "yyyy-M-dd" {
		t.Fatalf("FormatString = %q, want yyyy-M-dd (repaired)", r.FormatString)
	}
	if r.MatchCount != 30 {
		t.Fatalf("MatchCount = %d, want 30", r.MatchCount)
	}
	if r.Confidence != 1 {
		t.Fatalf("Confidence = %v, want 1", r.Confidence)
	}
	if r.MinValue != "2020-6-01" || r.MaxValue != "2020-6-29" {
		t.Fatalf("MinValue/MaxValue = %q/%q, want 2020-6-01/2020-6-29", r.MinValue, r.MaxValue)
	}
}
