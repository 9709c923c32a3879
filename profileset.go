package fta

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ProfileSet profiles every column of a tabular source together, one
// Analyzer per column name. Training a row fans each column's sample out
// to its Analyzer concurrently — safe because, per spec §5, profilers
// share no mutable state once the process-wide caches are warm.
type ProfileSet struct {
	mode      ResolutionMode
	analyzers map[string]*Analyzer
	order     []string
	configure func(*Analyzer)
}

// NewProfileSet creates an empty set. configure, if non-nil, runs against
// every Analyzer the set creates (lazily, on first sight of a column name)
// so callers can apply shared locale/refdata/logger settings in one place.
func NewProfileSet(mode ResolutionMode, configure func(*Analyzer)) *ProfileSet {
	return &ProfileSet{
		mode:      mode,
		analyzers: make(map[string]*Analyzer),
		configure: configure,
	}
}

func (p *ProfileSet) analyzerFor(column string) *Analyzer {
	if a, ok := p.analyzers[column]; ok {
		return a
	}
	a := NewAnalyzer(column, p.mode)
	if p.configure != nil {
		p.configure(a)
	}
	p.analyzers[column] = a
	p.order = append(p.order, column)
	return a
}

// TrainRow feeds one row — column name to a possibly-nil sample pointer —
// into the set, training every column's Analyzer concurrently via
// errgroup. A nil pointer trains a null; a non-nil pointer trains its
// pointee, blank or not.
func (p *ProfileSet) TrainRow(row map[string]*string) error {
	for col := range row {
		p.analyzerFor(col)
	}
	g, _ := errgroup.WithContext(context.Background())
	for col, val := range row {
		a := p.analyzers[col]
		v := val
		g.Go(func() error {
			if v == nil {
				a.Train("", true)
			} else {
				a.Train(*v, false)
			}
			return nil
		})
	}
	return g.Wait()
}

// Results returns each column's ProfileResult, keyed by column name.
func (p *ProfileSet) Results() map[string]ProfileResult {
	out := make(map[string]ProfileResult, len(p.analyzers))
	for col, a := range p.analyzers {
		out[col] = a.GetResult()
	}
	return out
}

// Columns returns column names in first-seen order.
func (p *ProfileSet) Columns() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}
