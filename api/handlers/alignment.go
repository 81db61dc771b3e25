package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aria-lang/barcode-trimmer/pkg/trimmer"
)

// AlignmentRequest asks for the best local alignment of one adapter within
// one read. Scoring fields left out fall back to the defaults.
type AlignmentRequest struct {
	Read    string           `json:"read"`
	Adapter string           `json:"adapter"`
	Scoring *trimmer.Scoring `json:"scoring,omitempty"`
}

// AlignmentResponse reports the best local alignment. The end offsets are
// exclusive and zero when Score is zero.
type AlignmentResponse struct {
	Score        int  `json:"score"`
	ReadEnd      int  `json:"read_end"`
	AdapterEnd   int  `json:"adapter_end"`
	MinScore     int  `json:"min_score"`
	Contaminated bool `json:"contaminated"`
}

// AlignmentScoreHandler scores a single read against a single adapter with
// the same engine used by the filter.
func AlignmentScoreHandler(w http.ResponseWriter, r *http.Request) {
	defaults := trimmer.DefaultScoring()
	req := AlignmentRequest{Scoring: &defaults}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Adapter == "" {
		writeError(w, http.StatusBadRequest, "adapter is required")
		return
	}

	scoring := trimmer.DefaultScoring()
	if req.Scoring != nil {
		// decoded on top of the defaults, so only sent fields differ
		scoring = *req.Scoring
	}
	hit, err := trimmer.Align(req.Read, req.Adapter, scoring)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AlignmentResponse{
		Score:        hit.Score,
		ReadEnd:      hit.EndA,
		AdapterEnd:   hit.EndB,
		MinScore:     scoring.MinScore,
		Contaminated: hit.Score >= scoring.MinScore,
	})
}
