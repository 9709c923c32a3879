// Package fta profiles a stream of textual values — typically one column
// from a tabular source — and infers its semantic type, a regular
// expression shape, numeric or lexicographic extremes, cardinality and
// outlier sets, a confidence score, and logical-type tags such as ZIP code,
// US state, email, or URL. It runs in-line with ingestion at streaming
// rates: every training call is synchronous and allocation-light.
package fta

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mosaicdata/fta/internal/datefmt"
	"github.com/mosaicdata/fta/internal/ftalog"
	"github.com/mosaicdata/fta/locale"
	"github.com/mosaicdata/fta/refdata"
)

// ResolutionMode controls how an ambiguous day/month date field is
// disambiguated. It is the same vocabulary internal/datefmt uses; Analyzer
// just forwards it to the detector.
type ResolutionMode = datefmt.ResolutionMode

const (
	Auto       = datefmt.Auto
	DayFirst   = datefmt.DayFirst
	MonthFirst = datefmt.MonthFirst
	NoResolve  = datefmt.None
)

const (
	defaultSampleSize      = 20
	defaultMaxCardinality  = 500
	defaultMaxOutliers     = 50
	minSampleSize          = 20
	reflectionSamplesBase  = 30
)

var (
	// ErrAlreadyTraining is returned by a Set* call made after the first
	// sample has been trained (spec §7 kind 2).
	ErrAlreadyTraining = errors.New("fta: cannot reconfigure analyzer after training has started")
	ErrNegativeLimit   = errors.New("fta: limit must be >= 0")
)

// Analyzer profiles one column. It is single-threaded: every Train call
// must come from one logical owner (spec §5). Multiple Analyzers may run
// concurrently with no shared mutable state — see ProfileSet.
type Analyzer struct {
	id   uuid.UUID
	name string
	mode ResolutionMode

	sampleSize        int
	maxCardinality    int
	maxOutliers       int
	collectStatistics bool
	reflectionSamples int

	loc     locale.Locale
	refData refdata.Source
	log     *ftalog.Logger

	started bool
	state   *profilerState
}

// NewAnalyzer creates a profiler for a column named name. mode governs how
// ambiguous day/month date fields are resolved when the window fills.
func NewAnalyzer(name string, mode ResolutionMode) *Analyzer {
	a := &Analyzer{
		id:                uuid.New(),
		name:              name,
		mode:              mode,
		sampleSize:        defaultSampleSize,
		maxCardinality:    defaultMaxCardinality,
		maxOutliers:       defaultMaxOutliers,
		collectStatistics: true,
		reflectionSamples: reflectionSamplesBase,
		loc:               locale.Default(),
		refData:           refdata.Default(),
		log:               ftalog.Discard(),
	}
	return a
}

func (a *Analyzer) Name() string    { return a.name }
func (a *Analyzer) ID() uuid.UUID   { return a.id }

func (a *Analyzer) checkNotStarted() error {
	if a.started {
		a.log.Warn("configuration change rejected: training already started")
		return ErrAlreadyTraining
	}
	return nil
}

// SetSampleSize sets the detection window size; must be >= 20.
func (a *Analyzer) SetSampleSize(n int) error {
	if err := a.checkNotStarted(); err != nil {
		return err
	}
	if n < minSampleSize {
		return fmt.Errorf("fta: sample size must be >= %d, got %d", minSampleSize, n)
	}
	a.sampleSize = n
	if a.sampleSize > reflectionSamplesBase {
		a.reflectionSamples = a.sampleSize + 1
	}
	return nil
}

// SetMaxCardinality sets the cardinality map cap; must be >= 0.
func (a *Analyzer) SetMaxCardinality(n int) error {
	if err := a.checkNotStarted(); err != nil {
		return err
	}
	if n < 0 {
		return ErrNegativeLimit
	}
	a.maxCardinality = n
	return nil
}

// SetMaxOutliers sets the outlier map cap; must be >= 0.
func (a *Analyzer) SetMaxOutliers(n int) error {
	if err := a.checkNotStarted(); err != nil {
		return err
	}
	if n < 0 {
		return ErrNegativeLimit
	}
	a.maxOutliers = n
	return nil
}

// SetCollectStatistics toggles min/max/sum tracking; disabling it skips
// that bookkeeping for columns where only the type and pattern matter.
func (a *Analyzer) SetCollectStatistics(b bool) error {
	if err := a.checkNotStarted(); err != nil {
		return err
	}
	a.collectStatistics = b
	return nil
}

// SetLocale installs the decimal/group/minus conventions and month
// abbreviations loc carries. Both are read out into a datefmt.Env on every
// date-detection call (see dateEnv) rather than written to shared state, so
// two Analyzers configured with different locales never interfere with
// each other even when ProfileSet.TrainRow runs their Train calls
// concurrently (spec §5).
func (a *Analyzer) SetLocale(loc locale.Locale) error {
	if err := a.checkNotStarted(); err != nil {
		return err
	}
	a.loc = loc
	return nil
}

// SetLogger installs the diagnostic logger. A nil logger is ignored in
// favor of the existing one (typically the discard default) rather than
// leaving the analyzer with no logger at all.
func (a *Analyzer) SetLogger(l *ftalog.Logger) {
	if l != nil {
		a.log = l
	}
}

// SetRefData installs the reference-data collaborator the logical-type
// matcher consults for ZIP/state/province/country/address/gender checks.
func (a *Analyzer) SetRefData(src refdata.Source) error {
	if err := a.checkNotStarted(); err != nil {
		return err
	}
	if src != nil {
		a.refData = src
	}
	return nil
}

type zoneSetAdapter struct{ src refdata.Source }

func (z zoneSetAdapter) Contains(name string) bool { return z.src.Contains(refdata.ZoneName, name) }

// dateEnv builds the datefmt.Env to pass into this call's date detection or
// validation, sourced from this Analyzer's own locale and reference data.
// Building it fresh per call (rather than installing it into a package
// global once) is what keeps concurrently-trained columns with different
// locales from clobbering each other's month-abbreviation/zone tables.
func (a *Analyzer) dateEnv() datefmt.Env {
	return datefmt.Env{
		MonthAbbr: a.loc.MonthAbbreviations(),
		Zones:     zoneSetAdapter{src: a.refData},
	}
}
