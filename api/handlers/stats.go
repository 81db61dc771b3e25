package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aria-lang/barcode-trimmer/pkg/trimmer"
)

// StatsRequest carries read text and its format name.
type StatsRequest struct {
	Reads  string `json:"reads"`
	Format string `json:"format"`
}

// StatsResponse summarizes a read set.
type StatsResponse struct {
	Count        int      `json:"count"`
	TotalBases   int      `json:"total_bases"`
	MinLength    int      `json:"min_length"`
	MaxLength    int      `json:"max_length"`
	MeanLength   float64  `json:"mean_length"`
	MedianLength int      `json:"median_length"`
	N50          int      `json:"n50"`
	GCContent    float64  `json:"gc_content"`
	MeanQuality  *float64 `json:"mean_quality,omitempty"`
}

// ReadStatsHandler parses a read set and returns its summary.
func ReadStatsHandler(w http.ResponseWriter, r *http.Request) {
	var req StatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := trimmer.Summarize(req.Reads, trimmer.ParseFormat(req.Format))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, trimmer.ErrInvalidEncoding) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}

	resp := StatsResponse{
		Count:        s.Count,
		TotalBases:   s.TotalBases,
		MinLength:    s.MinLength,
		MaxLength:    s.MaxLength,
		MeanLength:   s.MeanLength,
		MedianLength: s.MedianLength,
		N50:          s.N50,
		GCContent:    s.GCContent,
	}
	if s.HasQuality {
		q := s.MeanQuality
		resp.MeanQuality = &q
	}
	writeJSON(w, http.StatusOK, resp)
}
