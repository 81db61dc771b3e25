// Package api assembles the HTTP routes of the trimmer server.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aria-lang/barcode-trimmer/api/handlers"
	"github.com/aria-lang/barcode-trimmer/api/middleware"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	Filter handlers.FilterConfig
	// Timeout bounds each request; filtering large uploads can take minutes.
	Timeout time.Duration
	Logger  *log.Logger
}

// NewRouter returns the server's handler tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Filter.Logger == nil {
		cfg.Filter.Logger = cfg.Logger
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logger != nil {
		r.Use(middleware.Logger(cfg.Logger))
	}
	r.Use(chimiddleware.Recoverer)
	if cfg.Timeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.Timeout))
	}

	r.Get("/health", handlers.HealthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/filter", handlers.NewFilterHandler(cfg.Filter))
		r.Post("/adapters", handlers.AdaptersHandler)
		r.Post("/alignment/score", handlers.AlignmentScoreHandler)
		r.Post("/stats/reads", handlers.ReadStatsHandler)
	})

	r.Get("/", indexHandler)
	return r
}

func indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Barcode Trimmer API</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
        h1 { color: #2563eb; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 0.5rem; overflow-x: auto; }
        .endpoint { margin: 1rem 0; padding: 1rem; border: 1px solid #e5e7eb; border-radius: 0.5rem; }
        .method { display: inline-block; padding: 0.25rem 0.5rem; background: #10b981; color: white; border-radius: 0.25rem; font-size: 0.875rem; }
    </style>
</head>
<body>
    <h1>Barcode Trimmer API</h1>
    <p>Discards reads that carry adapter or barcode sequence anywhere along their length.</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/filter</code>
        <p>Multipart upload of a <code>reads</code> file (FASTA/FASTQ, optionally .gz) and an <code>adapters</code> FASTA.
        Optional fields: mode, format, match, mismatch, gap_open, gap_extend, min_score.
        Add <code>?archive=1</code> to download a zip.</p>
        <pre>curl -F reads=@reads.fastq -F adapters=@panel.fasta -F min_score=30 localhost:8080/api/filter</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/adapters</code>
        <p>Expand an adapter panel into both orientations.</p>
        <pre>{"fasta": "&gt;A1\nACGTACGT\n"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/score</code>
        <p>Score one read against one adapter.</p>
        <pre>{"read": "TTACGTACGTTT", "adapter": "ACGTACGT", "scoring": {"min_score": 16}}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/stats/reads</code>
        <p>Length, GC and quality summary of a read set.</p>
        <pre>{"reads": "@r1\nACGT\n+\nIIII\n", "format": "fastq"}</pre>
    </div>
</body>
</html>`))
}
