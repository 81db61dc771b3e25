// Package quality decodes Phred+33 quality strings from FASTQ records.
//
// Phred quality scores are logarithmically related to base-calling error
// probabilities:
//
//	Q = -10 * log10(P_error)
//
// Quality is never used to classify reads; it only feeds the partition
// summaries written to the filtering log.
package quality

import (
	"fmt"
	"math"
)

// Phred+33 covers '!' (Q0) through '~' (Q93).
const (
	PhredMin    = 0
	PhredMax    = 93
	phredOffset = 33
)

// QualityError is the base error type for quality decoding.
type QualityError interface {
	error
	IsQualityError()
}

// EmptyScoresError is returned when a quality string is empty.
type EmptyScoresError struct{}

func (e *EmptyScoresError) Error() string {
	return "quality scores cannot be empty"
}

func (e *EmptyScoresError) IsQualityError() {}

// InvalidEncodingError is returned when a character lies outside Phred+33.
type InvalidEncodingError struct {
	Position int
	Char     byte
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("invalid Phred+33 character '%c' at position %d", e.Char, e.Position)
}

func (e *InvalidEncodingError) IsQualityError() {}

// Scores holds decoded per-base qualities.
type Scores struct {
	Values []int
}

// FromPhred33 decodes a Phred+33 string: Q = ord(char) - 33.
func FromPhred33(encoded string) (*Scores, error) {
	if len(encoded) == 0 {
		return nil, &EmptyScoresError{}
	}
	values := make([]int, len(encoded))
	for i := 0; i < len(encoded); i++ {
		q := int(encoded[i]) - phredOffset
		if q < PhredMin || q > PhredMax {
			return nil, &InvalidEncodingError{Position: i, Char: encoded[i]}
		}
		values[i] = q
	}
	return &Scores{Values: values}, nil
}

// Len returns the number of scores.
func (s *Scores) Len() int {
	return len(s.Values)
}

// Average returns the arithmetic mean of the scores.
func (s *Scores) Average() float64 {
	if len(s.Values) == 0 {
		return 0.0
	}
	sum := 0
	for _, q := range s.Values {
		sum += q
	}
	return float64(sum) / float64(len(s.Values))
}

// ExpectedErrors returns the expected number of base-call errors, the sum of
// per-base error probabilities.
func (s *Scores) ExpectedErrors() float64 {
	ee := 0.0
	for _, q := range s.Values {
		ee += ErrorProbability(q)
	}
	return ee
}

// ErrorProbability converts a Phred score to an error probability.
func ErrorProbability(q int) float64 {
	return math.Pow(10, -float64(q)/10)
}
