package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"

	"github.com/aria-lang/barcode-trimmer/pkg/trimmer"
)

// multipart parts above this size are spooled to disk
const maxMemory = 32 << 20

// FilterConfig holds the server-side defaults of the filter endpoint.
type FilterConfig struct {
	// Defaults supplies scoring, mode and worker settings; form fields
	// override scoring and mode per request.
	Defaults trimmer.Options
	// MaxUploadBytes caps the request body; 0 means no cap.
	MaxUploadBytes int64
	Logger         *log.Logger
}

// FilterResponse is the JSON body of a successful filter run.
type FilterResponse struct {
	RunID          string `json:"run_id"`
	Mode           string `json:"mode"`
	Format         string `json:"format"`
	InputFile      string `json:"input_file"`
	Total          int    `json:"total"`
	AdaptersLoaded int    `json:"adapters_loaded"`
	Kept           int    `json:"kept"`
	Discarded      int    `json:"discarded"`
	KeptReads      string `json:"kept_reads"`
	DiscardedReads string `json:"discarded_reads"`
	Log            string `json:"log"`
}

// NewFilterHandler returns the handler for POST /api/filter.
//
// The request is multipart with a "reads" file and an "adapters" file.
// Optional form fields: mode, format, match, mismatch, gap_open, gap_extend
// and min_score. Read uploads ending in .gz are decompressed. With
// ?archive=1 the response is a zip of the three outputs instead of JSON.
func NewFilterHandler(cfg FilterConfig) http.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)
		}
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooBig.Limit))
				return
			}
			writeError(w, http.StatusBadRequest, "expected a multipart form: "+err.Error())
			return
		}
		defer r.MultipartForm.RemoveAll()

		reads, readsName, err := formFile(r, "reads")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		adapters, _, err := formFile(r, "adapters")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		opts, err := requestOptions(r, cfg.Defaults)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.Logger = logger.With("remote", r.RemoteAddr)

		res, err := trimmer.Filter(r.Context(), trimmer.Input{
			Adapters: adapters,
			Reads:    reads,
			Filename: readsName,
			Format:   r.FormValue("format"),
		}, opts)
		if err != nil {
			writeError(w, filterStatus(err), err.Error())
			return
		}

		if wantArchive(r) {
			var buf bytes.Buffer
			if err := trimmer.WriteArchive(&buf, res); err != nil {
				logger.Error("archive failed", "run", res.Report.RunID, "err", err)
				writeError(w, http.StatusInternalServerError, "could not build archive")
				return
			}
			w.Header().Set("Content-Type", "application/zip")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", trimmer.ArchiveName))
			w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
			w.WriteHeader(http.StatusOK)
			w.Write(buf.Bytes())
			return
		}

		rep := res.Report
		writeJSON(w, http.StatusOK, FilterResponse{
			RunID:          rep.RunID,
			Mode:           rep.Mode.String(),
			Format:         rep.Format.String(),
			InputFile:      rep.InputFile,
			Total:          rep.Total,
			AdaptersLoaded: rep.AdapterPairs,
			Kept:           rep.Kept,
			Discarded:      rep.Discarded,
			KeptReads:      res.Kept,
			DiscardedReads: res.Discarded,
			Log:            res.Log,
		})
	}
}

// formFile reads an uploaded file into memory, inflating it when the name
// ends in .gz. The returned name has the .gz suffix intact; format
// detection ignores it.
func formFile(r *http.Request, field string) (string, string, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", "", fmt.Errorf("missing %q file", field)
		}
		return "", "", fmt.Errorf("read %q: %w", field, err)
	}
	defer f.Close()

	text, err := readUpload(f, hdr)
	if err != nil {
		return "", "", fmt.Errorf("read %q: %w", field, err)
	}
	return text, hdr.Filename, nil
}

func readUpload(f multipart.File, hdr *multipart.FileHeader) (string, error) {
	var src io.Reader = f
	if strings.HasSuffix(strings.ToLower(hdr.Filename), ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return "", err
		}
		defer zr.Close()
		src = zr
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// requestOptions overlays the form fields on the server defaults.
func requestOptions(r *http.Request, defaults trimmer.Options) (trimmer.Options, error) {
	opts := defaults
	if opts.Scoring == (trimmer.Scoring{}) {
		opts.Scoring = trimmer.DefaultScoring()
	}

	if v := r.FormValue("mode"); v != "" {
		mode, err := trimmer.ParseMode(v)
		if err != nil {
			return opts, err
		}
		opts.Mode = mode
	}

	fields := []struct {
		name string
		dst  *int
	}{
		{"match", &opts.Scoring.Match},
		{"mismatch", &opts.Scoring.Mismatch},
		{"gap_open", &opts.Scoring.GapOpen},
		{"gap_extend", &opts.Scoring.GapExtend},
		{"min_score", &opts.Scoring.MinScore},
	}
	for _, f := range fields {
		v := strings.TrimSpace(r.FormValue(f.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("%s must be an integer, got %q", f.name, v)
		}
		*f.dst = n
	}
	return opts, nil
}

func wantArchive(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get("archive")) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func filterStatus(err error) int {
	switch {
	case errors.Is(err, trimmer.ErrInvalidEncoding):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
