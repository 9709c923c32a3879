package datefmt

import "testing"

func mustCompile(t *testing.T, format string) *Descriptor {
	t.Helper()
	d, err := Compile(format)
	if err != nil {
		t.Fatalf("Compile(%q): %v", format, err)
	}
	return d
}

func TestParseYearMonthDay(t *testing.T) {
	d := mustCompile(t, "yyyy-MM-dd")
	out := d.Parse("2012-03-04", DefaultEnv())
	if !out.OK {
		t.Fatalf("unexpected failure: %s at %d", out.Reason, out.Offset)
	}
	if out.Year != 2012 || out.Month != 3 || out.Day != 4 {
		t.Errorf("got Y=%d M=%d D=%d, want 2012/3/4", out.Year, out.Month, out.Day)
	}
}

func TestParseRejectsZeroDayMonth(t *testing.T) {
	d := mustCompile(t, "yyyy-MM-dd")
	out := d.Parse("2012-00-04", DefaultEnv())
	if out.OK || out.Reason != ReasonZeroDayMonth {
		t.Errorf("got OK=%v reason=%q, want failure with %q", out.OK, out.Reason, ReasonZeroDayMonth)
	}
}

func TestParseRejectsOutOfRangeMonth(t *testing.T) {
	d := mustCompile(t, "yyyy-MM-dd")
	out := d.Parse("2012-13-04", DefaultEnv())
	if out.OK || out.Reason != ReasonTooLargeDayMonth {
		t.Errorf("got OK=%v reason=%q, want failure with %q", out.OK, out.Reason, ReasonTooLargeDayMonth)
	}
}

func TestParseInsufficientDigitsDayMonthUseSpecificReason(t *testing.T) {
	d := mustCompile(t, "yyyy-MM-dd")
	out := d.Parse("2012-3-04", DefaultEnv())
	if out.OK || out.Reason != ReasonInsufficientDigitsM {
		t.Errorf("got OK=%v reason=%q, want failure with %q", out.OK, out.Reason, ReasonInsufficientDigitsM)
	}
}

func TestParseNonDayMonthFieldUsesGenericReason(t *testing.T) {
	// HH wants two digits; a short hour field is not a day/month field and
	// must not borrow the "(d)"/"(M)" reason strings.
	d := mustCompile(t, "HH:mm:ss")
	out := d.Parse("9:42:10", DefaultEnv())
	if out.OK || out.Reason != ReasonExpectDigit {
		t.Errorf("got OK=%v reason=%q, want failure with %q", out.OK, out.Reason, ReasonExpectDigit)
	}
}

func TestParseMissingDigitAtEndOfInput(t *testing.T) {
	d := mustCompile(t, "yyyy")
	out := d.Parse("201", DefaultEnv())
	if out.OK || out.Reason != ReasonExpectDigitEOI {
		t.Errorf("got OK=%v reason=%q, want failure with %q", out.OK, out.Reason, ReasonExpectDigitEOI)
	}
}

func TestParseMonthAbbreviation(t *testing.T) {
	d := mustCompile(t, "dd-MMM-yyyy")
	out := d.Parse("04-Mar-2012", DefaultEnv())
	if !out.OK {
		t.Fatalf("unexpected failure: %s at %d", out.Reason, out.Offset)
	}
	if out.Month != 3 {
		t.Errorf("Month = %d, want 3", out.Month)
	}

	bad := d.Parse("04-Xyz-2012", DefaultEnv())
	if bad.OK || bad.Reason != ReasonMonthAbbrIncorrect {
		t.Errorf("got OK=%v reason=%q, want failure with %q", bad.OK, bad.Reason, ReasonMonthAbbrIncorrect)
	}
}

func TestParseZonedTimestamp(t *testing.T) {
	d := mustCompile(t, "MM/dd/yyyy HH:mm:ss z")
	out := d.Parse("01/26/2012 10:42:23 GMT", DefaultEnv())
	if !out.OK {
		t.Fatalf("unexpected failure: %s at %d", out.Reason, out.Offset)
	}
	if out.Zone != "GMT" {
		t.Errorf("Zone = %q, want GMT", out.Zone)
	}

	bad := d.Parse("01/26/2012 10:42:23 XYZ", DefaultEnv())
	if bad.OK {
		t.Error("expected an unrecognized zone abbreviation to be rejected")
	}
}

func TestParseOffsetVariants(t *testing.T) {
	cases := []struct {
		format, input string
		wantOK        bool
		wantMinutes   int
	}{
		{"yyyy-MM-dd'T'HH:mm:ssx", "2012-03-04T19:22:10+08", true, 480},
		{"yyyy-MM-dd'T'HH:mm:ssxx", "2012-03-04T19:22:10+0800", true, 480},
		{"yyyy-MM-dd'T'HH:mm:ssxxx", "2012-03-04T19:22:10+08:00", true, 480},
		{"yyyy-MM-dd'T'HH:mm:ssxxxx", "2012-03-04T19:22:10+080030", true, 480*1 + 0},
		{"yyyy-MM-dd'T'HH:mm:ssxxxxx", "2012-03-04T19:22:10+08:00:30", true, 480},
		{"yyyy-MM-dd'T'HH:mm:ssxxx", "2012-03-04T19:22:10+08:0", false, 0},
		{"yyyy-MM-dd'T'HH:mm:ssxxx", "2012-03-04T19:22:10+20:00", false, 0},
	}
	for _, c := range cases {
		d := mustCompile(t, c.format)
		out := d.Parse(c.input, DefaultEnv())
		if out.OK != c.wantOK {
			t.Errorf("Parse(%q) with format %q: OK=%v reason=%q, want OK=%v", c.input, c.format, out.OK, out.Reason, c.wantOK)
			continue
		}
		if out.OK && out.OffsetMinutes != c.wantMinutes {
			t.Errorf("Parse(%q): OffsetMinutes=%d, want %d", c.input, out.OffsetMinutes, c.wantMinutes)
		}
	}
}

func TestParseExtraneousInput(t *testing.T) {
	d := mustCompile(t, "yyyy-MM-dd")
	out := d.Parse("2012-03-04extra", DefaultEnv())
	if out.OK || out.Reason != ReasonExtraneousInput {
		t.Errorf("got OK=%v reason=%q, want failure with %q", out.OK, out.Reason, ReasonExtraneousInput)
	}
}

func TestParseCacheReturnsEqualDescriptor(t *testing.T) {
	a := mustCompile(t, "yyyy-MM-dd")
	b := mustCompile(t, "yyyy-MM-dd")
	if a != b {
		t.Error("expected Compile to return the cached *Descriptor for a repeated format string")
	}
}

func TestParseAmbiguousFieldAcceptsOneOrTwoDigits(t *testing.T) {
	d := mustCompile(t, "?/??/yy")
	if out := d.Parse("2/12/98", DefaultEnv()); !out.OK {
		t.Errorf("unexpected failure: %s at %d", out.Reason, out.Offset)
	}
	if out := d.Parse("2/1/98", DefaultEnv()); out.OK {
		t.Error("expected the two-digit ambiguous field to require exactly two digits")
	}
}
