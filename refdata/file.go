package refdata

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// FileSource loads a Source from eight plain-UTF-8, one-entry-per-line
// files in a directory (spec §6): us_zips, us_states, ca_provinces,
// countries, address_markers, month_abbr, genders, zone_names. Each may
// carry a .csv or .csv.gz extension; gzip is detected by the .gz suffix
// and decoded with github.com/klauspost/compress/gzip, not by sniffing
// magic bytes, since these are trusted deployment-time files rather than
// untrusted network input. A file that doesn't exist leaves that
// qualifier empty rather than failing the whole load, so a partial
// reference-data directory degrades gracefully.
type FileSource struct {
	sets map[Qualifier]map[string]struct{}
}

var fileNames = map[Qualifier]string{
	Zip:           "us_zips",
	USState:       "us_states",
	CAProvince:    "ca_provinces",
	Country:       "countries",
	AddressMarker: "address_markers",
	MonthAbbr:     "month_abbr",
	Gender:        "genders",
	ZoneName:      "zone_names",
}

// NewFileSource loads every known reference file found under dir.
func NewFileSource(dir string) (*FileSource, error) {
	sets := make(map[Qualifier]map[string]struct{}, len(fileNames))
	for q, base := range fileNames {
		path, ok := resolveFile(dir, base)
		if !ok {
			sets[q] = map[string]struct{}{}
			continue
		}
		entries, err := readLines(path)
		if err != nil {
			return nil, err
		}
		m := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			m[normalize(e)] = struct{}{}
		}
		sets[q] = m
	}
	return &FileSource{sets: sets}, nil
}

func resolveFile(dir, base string) (string, bool) {
	for _, ext := range []string{".csv.gz", ".csv", ".gz", ""} {
		p := filepath.Join(dir, base+ext)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

func (f *FileSource) Contains(q Qualifier, key string) bool {
	m, ok := f.sets[q]
	if !ok {
		return false
	}
	_, ok = m[normalize(key)]
	return ok
}

func (f *FileSource) Len(q Qualifier) int {
	return len(f.sets[q])
}

// readLines returns one entry per non-blank line of path, transparently
// gunzipping when the name ends in .gz.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gzr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gzr.Close()
		r = gzr
	}

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
