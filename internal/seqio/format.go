// Package seqio reads and writes FASTA and FASTQ record streams.
//
// The format of a read file is inferred from its name only; content is never
// sniffed. Parsing is lazy and single pass. A few structural anomalies are
// recovered locally instead of failing the whole stream:
//
//   - FASTQ: a trailing group of fewer than four lines is dropped.
//   - FASTA: a header with no sequence lines is dropped.
//   - FASTA: any text before the first '>' header is discarded.
//
// These rules can silently lose data and are kept for compatibility with
// existing filtering logs.
package seqio

import (
	"path/filepath"
	"strings"
)

// Format identifies a sequence file format.
type Format int

const (
	// FASTQ is the four-line read format with qualities.
	FASTQ Format = iota
	// FASTA is the header plus sequence format.
	FASTA
)

func (f Format) String() string {
	switch f {
	case FASTA:
		return "fasta"
	default:
		return "fastq"
	}
}

// Ext returns the file extension used for packaged outputs, without dot.
func (f Format) Ext() string {
	return f.String()
}

// ParseFormat maps a format name back to a Format. Unknown names map to
// FASTQ, mirroring FormatFromName.
func ParseFormat(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fasta", "fa":
		return FASTA
	default:
		return FASTQ
	}
}

// FormatFromName infers the format from a file name extension. .fa and
// .fasta select FASTA, everything else (including .fq, .fastq and unknown
// extensions) selects FASTQ. A trailing .gz is ignored.
func FormatFromName(name string) Format {
	lower := strings.ToLower(name)
	lower = strings.TrimSuffix(lower, ".gz")
	switch filepath.Ext(lower) {
	case ".fa", ".fasta":
		return FASTA
	case ".fq", ".fastq":
		return FASTQ
	default:
		return FASTQ
	}
}
