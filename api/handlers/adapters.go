package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aria-lang/barcode-trimmer/pkg/trimmer"
)

// AdaptersRequest carries an adapter panel as FASTA text.
type AdaptersRequest struct {
	FASTA string `json:"fasta"`
}

// AdapterInfo describes one adapter orientation.
type AdapterInfo struct {
	Name        string `json:"name"`
	Orientation string `json:"orientation"`
	Sequence    string `json:"sequence"`
	Length      int    `json:"length"`
}

// AdaptersResponse lists the panel as the filter will try it.
type AdaptersResponse struct {
	Loaded   int           `json:"loaded"`
	Adapters []AdapterInfo `json:"adapters"`
}

// AdaptersHandler expands a panel into both orientations so callers can
// check what a filter run will search for.
func AdaptersHandler(w http.ResponseWriter, r *http.Request) {
	var req AdaptersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	adapters, err := trimmer.LoadAdapters(req.FASTA)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := AdaptersResponse{
		Loaded:   len(adapters) / 2,
		Adapters: make([]AdapterInfo, len(adapters)),
	}
	for i, a := range adapters {
		resp.Adapters[i] = AdapterInfo{
			Name:        a.Name,
			Orientation: a.Orientation.String(),
			Sequence:    a.Seq,
			Length:      len(a.Seq),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
