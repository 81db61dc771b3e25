// Package stats summarizes read partitions for the filtering log.
package stats

import (
	"fmt"
	"sort"

	"github.com/aria-lang/barcode-trimmer/internal/quality"
	"github.com/aria-lang/barcode-trimmer/internal/sequence"
)

// Summary holds length, composition and quality statistics for a set of
// records. All fields are zero for an empty set.
type Summary struct {
	Count        int
	TotalBases   int
	MinLength    int
	MaxLength    int
	MeanLength   float64
	MedianLength int
	N50          int
	GCContent    float64
	// MeanQuality is the mean of per-read average Phred scores over reads
	// carrying qualities; HasQuality is false when none do.
	MeanQuality float64
	HasQuality  bool
}

// FromRecords calculates a Summary. Reads with undecodable quality strings
// are left out of MeanQuality but still counted everywhere else.
func FromRecords(records []*sequence.Record) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}

	lengths := make([]int, len(records))
	gcBases := 0.0
	qualSum, qualCount := 0.0, 0
	for i, rec := range records {
		lengths[i] = rec.Len()
		s.TotalBases += rec.Len()

		gcBases += sequence.GCContent(rec.Seq) * float64(rec.Len())

		if rec.HasQuality() {
			if q, err := quality.FromPhred33(rec.Qual); err == nil {
				qualSum += q.Average()
				qualCount++
			}
		}
	}

	sort.Ints(lengths)
	s.Count = len(records)
	s.MinLength = lengths[0]
	s.MaxLength = lengths[len(lengths)-1]
	s.MeanLength = float64(s.TotalBases) / float64(s.Count)
	s.MedianLength = median(lengths)
	s.N50 = n50(lengths, s.TotalBases)
	if s.TotalBases > 0 {
		s.GCContent = gcBases / float64(s.TotalBases)
	}
	if qualCount > 0 {
		s.MeanQuality = qualSum / float64(qualCount)
		s.HasQuality = true
	}
	return s
}

// median expects ascending lengths.
func median(sorted []int) int {
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// n50 is the length L such that reads of length >= L hold at least half of
// all bases. It expects ascending lengths.
func n50(sorted []int, total int) int {
	if total == 0 {
		return 0
	}
	running := 0
	for i := len(sorted) - 1; i >= 0; i-- {
		running += sorted[i]
		if 2*running >= total {
			return sorted[i]
		}
	}
	return sorted[0]
}

func (s Summary) String() string {
	if s.Count == 0 {
		return "none"
	}
	out := fmt.Sprintf("%d bp total, length %d-%d (mean %.1f, median %d, N50 %d), GC %.1f%%",
		s.TotalBases, s.MinLength, s.MaxLength, s.MeanLength, s.MedianLength, s.N50, s.GCContent*100)
	if s.HasQuality {
		out += fmt.Sprintf(", mean Q %.1f", s.MeanQuality)
	}
	return out
}
