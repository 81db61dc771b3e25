// Package adapter loads adapter/barcode panels searched for in reads.
package adapter

import (
	"fmt"

	"github.com/aria-lang/barcode-trimmer/internal/seqio"
	"github.com/aria-lang/barcode-trimmer/internal/sequence"
)

// Orientation tags which strand an adapter sequence represents.
type Orientation int

const (
	// Forward is the sequence as listed in the panel.
	Forward Orientation = iota
	// Reverse is the reverse complement of a panel sequence.
	Reverse
)

func (o Orientation) String() string {
	if o == Reverse {
		return "reverse-complement"
	}
	return "forward"
}

// Adapter is a single upper-cased search sequence.
type Adapter struct {
	Name        string
	Seq         string
	Orientation Orientation
}

func (a Adapter) String() string {
	return fmt.Sprintf("%s(%s)", a.Name, a.Orientation)
}

// Set is an ordered adapter panel. Every forward adapter is immediately
// followed by its reverse complement, so len(Set) is always even.
type Set []Adapter

// Pairs returns the number of panel records the set was built from.
func (s Set) Pairs() int {
	return len(s) / 2
}

// Load parses a FASTA panel. Records with an empty body are skipped; every
// remaining record contributes its upper-cased sequence followed by the
// reverse complement of it.
func Load(text string) (Set, error) {
	records, err := seqio.Parse(text, seqio.FASTA)
	if err != nil {
		return nil, fmt.Errorf("parsing adapter panel: %w", err)
	}
	return FromRecords(records), nil
}

// FromRecords expands already parsed panel records into a Set.
func FromRecords(records []*sequence.Record) Set {
	set := make(Set, 0, 2*len(records))
	for _, rec := range records {
		seq := rec.Upper()
		if seq == "" {
			continue
		}
		set = append(set,
			Adapter{Name: rec.ID, Seq: seq, Orientation: Forward},
			Adapter{Name: rec.ID, Seq: sequence.ReverseComplement(seq), Orientation: Reverse},
		)
	}
	return set
}
