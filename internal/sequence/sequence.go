// Package sequence provides the read record model shared by the codec,
// the adapter loader and the classifiers.
//
// Records keep the sequence exactly as it was read so that serialized
// output preserves the original case. Comparison always goes through
// Upper, which is the only normalization the scoring code relies on.
package sequence

import (
	"fmt"
	"strings"
)

// Record represents a single FASTA or FASTQ entry.
//
// Qual is the raw Phred-encoded quality string and is empty for FASTA
// records. When present it must have the same length as Seq.
type Record struct {
	ID          string
	Description string
	Seq         string
	Qual        string
}

// NewRecord builds a record from a header line body (the text after '>' or
// '@'), splitting the identifier from the free-text description at the
// first run of whitespace.
func NewRecord(header, seq, qual string) *Record {
	id, desc := SplitHeader(header)
	return &Record{
		ID:          id,
		Description: desc,
		Seq:         seq,
		Qual:        qual,
	}
}

// SplitHeader separates an identifier from its description.
func SplitHeader(header string) (string, string) {
	header = strings.TrimSpace(header)
	i := strings.IndexAny(header, " \t")
	if i < 0 {
		return header, ""
	}
	return header[:i], strings.TrimSpace(header[i+1:])
}

// Header reassembles the header line body.
func (r *Record) Header() string {
	if r.Description == "" {
		return r.ID
	}
	return r.ID + " " + r.Description
}

// Len returns the length of the sequence.
func (r *Record) Len() int {
	return len(r.Seq)
}

// HasQuality reports whether the record carries per-base qualities.
func (r *Record) HasQuality() bool {
	return r.Qual != ""
}

// Upper returns the upper-cased sequence used for comparisons.
func (r *Record) Upper() string {
	return strings.ToUpper(r.Seq)
}

// Validate checks the FASTQ invariant that sequence and quality have the
// same length. Records without quality are always valid.
func (r *Record) Validate() error {
	if r.Qual == "" {
		return nil
	}
	if len(r.Qual) != len(r.Seq) {
		return &QualityLengthError{ID: r.ID, SeqLen: len(r.Seq), QualLen: len(r.Qual)}
	}
	return nil
}

func (r *Record) String() string {
	return fmt.Sprintf(">%s\n%s", r.Header(), r.Seq)
}

// complementBase returns the Watson-Crick partner of b. Symbols outside
// A, C, G and T are returned unchanged.
func complementBase(b byte) byte {
	switch b {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	case 'a':
		return 't'
	case 't':
		return 'a'
	case 'c':
		return 'g'
	case 'g':
		return 'c'
	default:
		return b
	}
}

// ReverseComplement returns the reverse complement of s. Case is preserved
// and ambiguity codes such as N pass through unchanged.
func ReverseComplement(s string) string {
	n := len(s)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = complementBase(s[i])
	}
	return string(out)
}

// BaseCounts holds per-symbol counts of a sequence.
type BaseCounts struct {
	A     int
	C     int
	G     int
	T     int
	Other int
}

// CountBases tallies the symbols of s, ignoring case.
func CountBases(s string) BaseCounts {
	var counts BaseCounts
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'a':
			counts.A++
		case 'C', 'c':
			counts.C++
		case 'G', 'g':
			counts.G++
		case 'T', 't':
			counts.T++
		default:
			counts.Other++
		}
	}
	return counts
}

// Total returns the total count of all symbols.
func (bc BaseCounts) Total() int {
	return bc.A + bc.C + bc.G + bc.T + bc.Other
}

// GCContent returns the proportion of G and C symbols in s.
func GCContent(s string) float64 {
	if len(s) == 0 {
		return 0.0
	}
	c := CountBases(s)
	return float64(c.G+c.C) / float64(len(s))
}
