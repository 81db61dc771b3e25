// Package classify decides whether reads carry adapter contamination and
// partitions read sets into kept and discarded records.
//
// Two strategies share the Classifier interface: scored local alignment and
// exact substring search. The strategy is always chosen explicitly by the
// caller through Mode.
package classify

import (
	"fmt"
	"strings"

	"github.com/aria-lang/barcode-trimmer/internal/adapter"
	"github.com/aria-lang/barcode-trimmer/internal/alignment"
	"github.com/aria-lang/barcode-trimmer/internal/sequence"
)

// Mode selects the classification strategy.
type Mode int

const (
	// Alignment scores every adapter with affine-gap local alignment.
	Alignment Mode = iota
	// Substring looks for exact adapter occurrences only.
	Substring
)

func (m Mode) String() string {
	switch m {
	case Substring:
		return "substring"
	default:
		return "alignment"
	}
}

// ParseMode maps a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "alignment", "sw", "smith-waterman":
		return Alignment, nil
	case "substring", "simple":
		return Substring, nil
	default:
		return Alignment, fmt.Errorf("unknown classification mode %q", name)
	}
}

// Result is the outcome for a single read. Adapter, Index and Score are
// only meaningful when Contaminated is true.
type Result struct {
	Contaminated bool
	Adapter      adapter.Adapter
	Index        int
	Score        int
}

// Classifier decides whether a read is contaminated. Sequences are compared
// case-insensitively. Adapters are
// tried in load order and the first one that qualifies wins, which is not
// necessarily the best scoring one.
//
// Implementations may keep scratch buffers and are not safe for concurrent
// use; build one per goroutine through a Factory.
type Classifier interface {
	Classify(rec *sequence.Record) Result
	Mode() Mode
}

// Factory returns a fresh Classifier. Classifiers built by the same factory
// share the read-only adapter set and scoring.
type Factory func() Classifier

// NewFactory builds a factory for the given strategy.
func NewFactory(mode Mode, adapters adapter.Set, scoring alignment.Scoring) (Factory, error) {
	switch mode {
	case Alignment:
		if err := scoring.Validate(); err != nil {
			return nil, err
		}
		return func() Classifier { return NewAligner(adapters, scoring) }, nil
	case Substring:
		return func() Classifier { return NewSubstring(adapters) }, nil
	default:
		return nil, fmt.Errorf("unsupported classification mode %d", mode)
	}
}

// AlignerClassifier flags reads whose local alignment score against an
// adapter reaches the scoring threshold.
type AlignerClassifier struct {
	adapters adapter.Set
	aligner  *alignment.Aligner
	minScore int
}

// NewAligner returns a scored alignment classifier.
func NewAligner(adapters adapter.Set, scoring alignment.Scoring) *AlignerClassifier {
	return &AlignerClassifier{
		adapters: adapters,
		aligner:  alignment.NewAligner(scoring),
		minScore: scoring.MinScore,
	}
}

// Mode implements Classifier.
func (c *AlignerClassifier) Mode() Mode {
	return Alignment
}

// Classify implements Classifier.
func (c *AlignerClassifier) Classify(rec *sequence.Record) Result {
	upper := rec.Upper()
	for i, a := range c.adapters {
		if hit, ok := c.aligner.Best(upper, a.Seq, c.minScore); ok {
			return Result{
				Contaminated: true,
				Adapter:      a,
				Index:        i,
				Score:        hit.Score,
			}
		}
	}
	return Result{}
}

// SubstringClassifier flags reads containing an adapter verbatim. It
// ignores all scoring parameters and only finds exact, ungapped matches.
type SubstringClassifier struct {
	adapters adapter.Set
}

// NewSubstring returns an exact-match classifier.
func NewSubstring(adapters adapter.Set) *SubstringClassifier {
	return &SubstringClassifier{adapters: adapters}
}

// Mode implements Classifier.
func (c *SubstringClassifier) Mode() Mode {
	return Substring
}

// Classify implements Classifier.
func (c *SubstringClassifier) Classify(rec *sequence.Record) Result {
	upper := rec.Upper()
	for i, a := range c.adapters {
		if strings.Contains(upper, a.Seq) {
			return Result{Contaminated: true, Adapter: a, Index: i}
		}
	}
	return Result{}
}
