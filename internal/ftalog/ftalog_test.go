package ftalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/crewjam/rfc5424"
)

type bufCloser struct {
	bytes.Buffer
}

func (bufCloser) Close() error { return nil }

func newTestLogger() (*Logger, *bufCloser) {
	b := &bufCloser{}
	return New(b), b
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newTestLogger()
	if err := l.SetLevel(WARN); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	l.Infof("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected INFO to be filtered out at WARN level, got %q", buf.String())
	}
	l.Warnf("should appear")
	if buf.Len() == 0 {
		t.Fatal("expected WARN log line to be written")
	}
}

func TestStructuredFieldsPresent(t *testing.T) {
	l, buf := newTestLogger()
	l.Info("column reclassified", rfc5424.SDParam{Name: "column", Value: "amount"}, rfc5424.SDParam{Name: "newType", Value: "Double"})
	out := buf.String()
	if !strings.Contains(out, "column reclassified") {
		t.Errorf("log line missing message: %q", out)
	}
	if !strings.Contains(out, "column=\"amount\"") {
		t.Errorf("log line missing structured field: %q", out)
	}
}

func TestLevelFromString(t *testing.T) {
	lvl, err := LevelFromString("warn")
	if err != nil || lvl != WARN {
		t.Fatalf("LevelFromString(warn) = %v, %v; want WARN, nil", lvl, err)
	}
	if _, err := LevelFromString("bogus"); err != ErrInvalidLevel {
		t.Fatalf("LevelFromString(bogus) = %v, want ErrInvalidLevel", err)
	}
}

func TestInvalidLevelRejected(t *testing.T) {
	l, _ := newTestLogger()
	if err := l.SetLevel(Level(99)); err != ErrInvalidLevel {
		t.Fatalf("SetLevel(99) = %v, want ErrInvalidLevel", err)
	}
}

func TestDiscardLoggerAcceptsWrites(t *testing.T) {
	l := Discard()
	if err := l.Infof("hello %s", "world"); err != nil {
		t.Fatalf("Infof on discard logger: %v", err)
	}
}

func TestKVStringifiesNonStrings(t *testing.T) {
	if p := KV("count", 42); p.Value != "42" {
		t.Fatalf("KV(count, 42).Value = %q, want 42", p.Value)
	}
	if p := KV("column", "amount"); p.Value != "amount" {
		t.Fatalf("KV(column, amount).Value = %q, want amount", p.Value)
	}
}

func TestKVErrWrapsError(t *testing.T) {
	p := KVErr(ErrInvalidLevel)
	if p.Name != "error" {
		t.Fatalf("KVErr name = %q, want error", p.Name)
	}
	if p.Value != ErrInvalidLevel.Error() {
		t.Fatalf("KVErr value = %q, want %q", p.Value, ErrInvalidLevel.Error())
	}
}

func TestNewRotatingFileAcceptsWrites(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/fta.log"
	l, err := NewRotatingFile(path, 1, 2)
	if err != nil {
		t.Fatalf("NewRotatingFile: %v", err)
	}
	defer l.Close()
	for i := 0; i < 5; i++ {
		if err := l.Info("profiling progress"); err != nil {
			t.Fatalf("Info: %v", err)
		}
	}
}
