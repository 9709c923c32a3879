package rotate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fta.log")
	fr, err := Open(path, 0660)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer fr.Close()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func TestWriteRotatesPastMaxSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fta.log")
	fr, err := OpenEx(path, 0660, 64, 3, false)
	if err != nil {
		t.Fatalf("OpenEx: %v", err)
	}
	defer fr.Close()

	line := strings.Repeat("x", 32) + "\n"
	for i := 0; i < 5; i++ {
		if _, err := fr.Write([]byte(line)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "fta.1.log")); err != nil {
		t.Fatalf("expected a rotated history file, got: %v", err)
	}
}

func TestWriteRotatesAndCompresses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fta.log")
	fr, err := OpenEx(path, 0660, 64, 2, true)
	if err != nil {
		t.Fatalf("OpenEx: %v", err)
	}
	defer fr.Close()

	line := strings.Repeat("y", 32) + "\n"
	for i := 0; i < 4; i++ {
		if _, err := fr.Write([]byte(line)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "fta.1.log.gz")); err != nil {
		t.Fatalf("expected a compressed rotated history file, got: %v", err)
	}
}

func TestOpenRejectsExtensionlessPath(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "noext"), 0660); err == nil {
		t.Fatal("expected an error for a path with no extension")
	}
}
