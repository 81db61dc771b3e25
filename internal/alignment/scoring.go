// Package alignment provides the local alignment scorer used to detect
// adapter contamination.
//
// Scores follow Smith-Waterman semantics with affine gaps: an alignment may
// start and end anywhere in either sequence, substitutions score Match or
// Mismatch, and a gap of length L costs GapOpen + (L-1)*GapExtend.
package alignment

import (
	"errors"
	"fmt"
)

// ErrInvalidScoring is wrapped by every Scoring validation failure.
var ErrInvalidScoring = errors.New("invalid scoring parameters")

// Scoring holds the substitution, gap and threshold parameters of a run.
//
// GapOpen and GapExtend are costs and are subtracted from the running score;
// Mismatch is added as is and is normally negative.
type Scoring struct {
	Match     int `json:"match" mapstructure:"match"`
	Mismatch  int `json:"mismatch" mapstructure:"mismatch"`
	GapOpen   int `json:"gap_open" mapstructure:"gap_open"`
	GapExtend int `json:"gap_extend" mapstructure:"gap_extend"`
	MinScore  int `json:"min_score" mapstructure:"min_score"`
}

// NewScoring creates a scoring configuration with validation.
func NewScoring(match, mismatch, gapOpen, gapExtend, minScore int) (Scoring, error) {
	s := Scoring{
		Match:     match,
		Mismatch:  mismatch,
		GapOpen:   gapOpen,
		GapExtend: gapExtend,
		MinScore:  minScore,
	}
	if err := s.Validate(); err != nil {
		return Scoring{}, err
	}
	return s, nil
}

// Default returns the parameters recommended for Oxford Nanopore reads.
func Default() Scoring {
	return Scoring{
		Match:     2,
		Mismatch:  -1,
		GapOpen:   5,
		GapExtend: 1,
		MinScore:  30,
	}
}

// Validate checks that the parameters describe a usable local alignment.
func (s Scoring) Validate() error {
	if s.Match <= 0 {
		return fmt.Errorf("%w: match score must be positive, got %d", ErrInvalidScoring, s.Match)
	}
	if s.GapOpen < 0 {
		return fmt.Errorf("%w: gap open penalty must be >= 0, got %d", ErrInvalidScoring, s.GapOpen)
	}
	if s.GapExtend < 0 {
		return fmt.Errorf("%w: gap extend penalty must be >= 0, got %d", ErrInvalidScoring, s.GapExtend)
	}
	if s.MinScore < 1 {
		return fmt.Errorf("%w: min score must be >= 1, got %d", ErrInvalidScoring, s.MinScore)
	}
	return nil
}

// Substitute returns the score for aligning a against b. Only A, C, G and T
// (in either case) can match; any other symbol, N included, scores Mismatch
// against everything including itself.
func (s Scoring) Substitute(a, b byte) int {
	ca, cb := baseCode[a], baseCode[b]
	if ca == cb && ca != codeOther {
		return s.Match
	}
	return s.Mismatch
}

// GapCost returns the cost of a gap of the given length.
func (s Scoring) GapCost(length int) int {
	if length <= 0 {
		return 0
	}
	return s.GapOpen + (length-1)*s.GapExtend
}

// SelfScore returns the score of aligning seq against itself, the largest
// score any read can reach against it when it contains only A, C, G and T.
func (s Scoring) SelfScore(seq string) int {
	return Score(seq, seq, s)
}

func (s Scoring) String() string {
	return fmt.Sprintf("Scoring { match: %d, mismatch: %d, gap_open: %d, gap_extend: %d, min_score: %d }",
		s.Match, s.Mismatch, s.GapOpen, s.GapExtend, s.MinScore)
}

const codeOther = 4

// baseCode maps bytes to 0..3 for A, C, G, T and codeOther for the rest.
var baseCode = func() [256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = codeOther
	}
	for i, b := range []byte("ACGT") {
		t[b] = uint8(i)
		t[b+'a'-'A'] = uint8(i)
	}
	return t
}()
