package alignment

import "math"

// negInf is low enough to never win a max but far from overflow when a
// penalty is subtracted from it.
const negInf = math.MinInt32 / 2

// Hit is the best local alignment found between two sequences.
//
// EndA and EndB are exclusive end offsets of the best-scoring cell in a
// and b. They are zero when Score is zero.
type Hit struct {
	Score int
	EndA  int
	EndB  int
}

// Aligner computes affine-gap local alignment scores using the Gotoh
// recurrence in O(len(b)) memory. Row buffers are reused between calls, so
// an Aligner must not be shared between goroutines; create one per worker.
type Aligner struct {
	scoring Scoring
	h       []int
	hPrev   []int
	f       []int
}

// NewAligner returns an aligner for the given parameters.
func NewAligner(s Scoring) *Aligner {
	return &Aligner{scoring: s}
}

// Scoring returns the parameters the aligner was built with.
func (al *Aligner) Scoring() Scoring {
	return al.scoring
}

// Score returns the maximum local alignment score between a and b. The
// result is never negative and does not depend on argument order.
func (al *Aligner) Score(a, b string) int {
	return al.scan(a, b, math.MaxInt).Score
}

// Locate returns the best local alignment score together with the end
// coordinates of the first cell (in row-major order) reaching it.
func (al *Aligner) Locate(a, b string) Hit {
	return al.scan(a, b, math.MaxInt)
}

// Reaches reports whether the local alignment score of a and b is at least
// threshold. It stops filling the matrix as soon as the threshold is met and
// skips pairs whose best possible score cannot reach it.
func (al *Aligner) Reaches(a, b string, threshold int) bool {
	if threshold <= 0 {
		return true
	}
	if al.upperBound(len(a), len(b)) < threshold {
		return false
	}
	return al.scan(a, b, threshold).Score >= threshold
}

// Best returns the full best-scoring hit of a and b and whether it reaches
// threshold. Pairs that cannot reach threshold are rejected without
// filling the matrix, in which case the returned Hit is zero.
func (al *Aligner) Best(a, b string, threshold int) (Hit, bool) {
	if threshold > 0 && al.upperBound(len(a), len(b)) < threshold {
		return Hit{}, false
	}
	h := al.scan(a, b, math.MaxInt)
	return h, h.Score >= threshold
}

// upperBound is the score of a gapless run over the shorter sequence where
// every pair earns the larger of the match and mismatch scores; no local
// alignment can do better.
func (al *Aligner) upperBound(m, n int) int {
	return min(m, n) * max(al.scoring.Match, al.scoring.Mismatch)
}

// scan fills the dynamic-programming matrix row by row. It returns early
// once a cell reaches stopAt.
//
//	E[i][j] = max(H[i][j-1] - open, E[i][j-1] - extend)
//	F[i][j] = max(H[i-1][j] - open, F[i-1][j] - extend)
//	H[i][j] = max(0, H[i-1][j-1] + sub(a_i, b_j), E[i][j], F[i][j])
func (al *Aligner) scan(a, b string, stopAt int) Hit {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return Hit{}
	}
	al.reset(n)

	open, extend := al.scoring.GapOpen, al.scoring.GapExtend
	h, hPrev, f := al.h, al.hPrev, al.f
	best := Hit{}

	for i := 1; i <= m; i++ {
		ai := a[i-1]
		e := negInf
		h[0] = 0
		for j := 1; j <= n; j++ {
			fj := max(hPrev[j]-open, f[j]-extend)
			f[j] = fj
			e = max(h[j-1]-open, e-extend)

			score := hPrev[j-1] + al.scoring.Substitute(ai, b[j-1])
			score = max(score, e, fj, 0)
			h[j] = score

			if score > best.Score {
				best = Hit{Score: score, EndA: i, EndB: j}
				if score >= stopAt {
					return best
				}
			}
		}
		h, hPrev = hPrev, h
	}
	return best
}

// reset sizes the row buffers for a reference of length n and clears them.
func (al *Aligner) reset(n int) {
	if cap(al.h) < n+1 {
		al.h = make([]int, n+1)
		al.hPrev = make([]int, n+1)
		al.f = make([]int, n+1)
	}
	al.h = al.h[:n+1]
	al.hPrev = al.hPrev[:n+1]
	al.f = al.f[:n+1]
	for j := range al.hPrev {
		al.h[j] = 0
		al.hPrev[j] = 0
		al.f[j] = negInf
	}
}

// Score computes the local alignment score of a and b with a throwaway
// aligner.
func Score(a, b string, s Scoring) int {
	return NewAligner(s).Score(a, b)
}
