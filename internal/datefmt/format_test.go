package datefmt

import "testing"

func TestDetermineFormatBareTime(t *testing.T) {
	format, ok := DetermineFormat("9:57", Auto, DefaultEnv())
	if !ok {
		t.Fatal("expected a recognized format")
	}
	if format != "H:mm" {
		t.Errorf("format = %q, want H:mm", format)
	}
	d, err := Compile(format)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := d.Type().String(); got != "LocalTime" {
		t.Errorf("Type() = %s, want LocalTime", got)
	}
}

func TestDetermineFormatAmbiguousDayMonth(t *testing.T) {
	format, ok := DetermineFormat("2/12/98", Auto, DefaultEnv())
	if !ok {
		t.Fatal("expected a recognized format")
	}
	if format != "?/??/yy" {
		t.Errorf("format = %q, want ?/??/yy", format)
	}
	d, err := Compile(format)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := d.Type().String(); got != "LocalDate" {
		t.Errorf("Type() = %s, want LocalDate", got)
	}

	if got := ForceResolve(format, true); got != "d/MM/yy" {
		t.Errorf("ForceResolve(true) = %q, want d/MM/yy", got)
	}
	if got := ForceResolve(format, false); got != "M/dd/yy" {
		t.Errorf("ForceResolve(false) = %q, want M/dd/yy", got)
	}
}

func TestDetermineFormatOffsetDateTime(t *testing.T) {
	format, ok := DetermineFormat("2004-01-01T00:00:00+05:00", Auto, DefaultEnv())
	if !ok {
		t.Fatal("expected a recognized format")
	}
	if format != "yyyy-MM-dd'T'HH:mm:ssxxx" {
		t.Errorf("format = %q, want yyyy-MM-dd'T'HH:mm:ssxxx", format)
	}
	d, err := Compile(format)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := d.Type().String(); got != "OffsetDateTime" {
		t.Errorf("Type() = %s, want OffsetDateTime", got)
	}

	if out := d.Parse("2012-03-04T19:22:10+08:00", DefaultEnv()); !out.OK {
		t.Errorf("expected valid offset to parse, got reason %q at %d", out.Reason, out.Offset)
	}
	if out := d.Parse("2012-03-04T19:22:10+08:0", DefaultEnv()); out.OK {
		t.Error("expected truncated offset to be rejected")
	}
}

func TestDetermineFormatZonedDateTimeTraining(t *testing.T) {
	samples := []string{
		"01/26/2012 10:42:23 GMT",
		"01/30/2012 10:59:48 GMT",
		"01/25/2012 16:46:43 GMT",
		"01/25/2012 16:28:42 GMT",
		"01/24/2012 16:53:04 GMT",
	}
	var format string
	for _, s := range samples {
		f, ok := DetermineFormat(s, Auto, DefaultEnv())
		if !ok {
			t.Fatalf("sample %q did not match any format", s)
		}
		if format == "" {
			format = f
		} else if f != format {
			t.Fatalf("sample %q produced format %q, want %q", s, f, format)
		}
	}
	if format != "MM/dd/yyyy HH:mm:ss z" {
		t.Errorf("format = %q, want MM/dd/yyyy HH:mm:ss z", format)
	}
	d, err := Compile(format)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := d.Type().String(); got != "ZonedDateTime" {
		t.Errorf("Type() = %s, want ZonedDateTime", got)
	}
	for _, s := range samples {
		if out := d.Parse(s, DefaultEnv()); !out.OK {
			t.Errorf("Parse(%q) failed: %s at %d", s, out.Reason, out.Offset)
		}
	}
}

func TestDetermineFormatDayFirstNumericDate(t *testing.T) {
	samples := []string{
		"22-01-2010", "14-02-2009", "31-12-2011",
		"01-01-2001", "28-02-2008", "19-07-2015",
		"05-05-2005", "11-11-2011", "12-01-2008",
	}
	// The column's format is the one most samples produce (ties go to the
	// first seen); a sample whose fields are both <= 12 stays ambiguous.
	counts := map[string]int{}
	var format string
	for _, s := range samples {
		f, ok := DetermineFormat(s, Auto, DefaultEnv())
		if !ok {
			t.Fatalf("sample %q did not match any format", s)
		}
		counts[f]++
		if counts[f] > counts[format] {
			format = f
		}
	}
	if format != "dd-MM-yyyy" {
		t.Errorf("format = %q, want dd-MM-yyyy", format)
	}
	d, err := Compile(format)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := d.RegExp(); got != `\d{2}-\d{2}-\d{4}` {
		t.Errorf("RegExp() = %q, want \\d{2}-\\d{2}-\\d{4}", got)
	}
	if got := d.Type().String(); got != "LocalDate" {
		t.Errorf("Type() = %s, want LocalDate", got)
	}
}

func TestDetermineFormatRejectsJunk(t *testing.T) {
	if _, ok := DetermineFormat("not a date at all, really", Auto, DefaultEnv()); ok {
		t.Error("expected free text to be rejected")
	}
	if _, ok := DetermineFormat("", Auto, DefaultEnv()); ok {
		t.Error("expected empty input to be rejected")
	}
}

func TestDetermineFormatDayMonthOutOfRange(t *testing.T) {
	if _, ok := DetermineFormat("35/13/2020", Auto, DefaultEnv()); ok {
		t.Error("expected a day and month both out of range to be rejected")
	}
}
