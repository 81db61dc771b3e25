// Package trimmer filters sequencing reads that carry adapter or barcode
// contamination anywhere along their length.
//
// The package takes raw adapter and read text and returns three text blobs:
// the kept reads, the discarded reads and a filtering log. It holds no
// state between calls.
//
// Example usage:
//
//	res, err := trimmer.Filter(ctx, trimmer.Input{
//	    Adapters: ">A1\nACGTACGT\n",
//	    Reads:    readsText,
//	    Filename: "reads.fastq",
//	}, trimmer.Options{Scoring: trimmer.DefaultScoring()})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(res.Log)
package trimmer

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/aria-lang/barcode-trimmer/internal/adapter"
	"github.com/aria-lang/barcode-trimmer/internal/alignment"
	"github.com/aria-lang/barcode-trimmer/internal/archive"
	"github.com/aria-lang/barcode-trimmer/internal/classify"
	"github.com/aria-lang/barcode-trimmer/internal/report"
	"github.com/aria-lang/barcode-trimmer/internal/seqio"
	"github.com/aria-lang/barcode-trimmer/internal/stats"
)

// Re-export types for convenience
type (
	Scoring      = alignment.Scoring
	Mode         = classify.Mode
	Format       = seqio.Format
	Counters     = classify.Counters
	ProgressFunc = classify.ProgressFunc
	Report       = report.Report
	Adapter      = adapter.Adapter
	Hit          = alignment.Hit
	Summary      = stats.Summary
)

// Constants
const (
	Alignment = classify.Alignment
	Substring = classify.Substring
	FASTA     = seqio.FASTA
	FASTQ     = seqio.FASTQ
)

// ArchiveName is the download name of a result archive.
const ArchiveName = archive.FileName

// ErrInvalidEncoding is returned when the read text is not valid UTF-8.
var ErrInvalidEncoding = seqio.ErrInvalidEncoding

// DefaultScoring returns the parameters tuned for Oxford Nanopore reads.
func DefaultScoring() Scoring {
	return alignment.Default()
}

// Input is the raw material of a run.
type Input struct {
	// Adapters is the adapter panel as FASTA text.
	Adapters string
	// Reads is the FASTA or FASTQ read text.
	Reads string
	// Filename is only used to infer the read format and for the log.
	Filename string
	// Format overrides the format inferred from Filename when set to
	// "fasta" or "fastq".
	Format string
}

// ReadFormat returns the format of the reads.
func (in Input) ReadFormat() Format {
	if in.Format != "" {
		return seqio.ParseFormat(in.Format)
	}
	return seqio.FormatFromName(in.Filename)
}

// Options controls a run. The zero value runs alignment mode with default
// scoring on one worker per CPU.
type Options struct {
	// Scoring is ignored in Substring mode. A zero Scoring means
	// DefaultScoring.
	Scoring Scoring
	Mode    Mode
	// Workers below 1 mean runtime.NumCPU.
	Workers int
	// Progress is called every ProgressEvery reads and once at the end.
	Progress      ProgressFunc
	ProgressEvery int
	// Counters, when set, can be polled while the run is in flight.
	Counters *Counters
	// Logger defaults to a discarding logger.
	Logger *log.Logger
}

// Result is everything a run produces. It belongs to the caller.
type Result struct {
	Kept      string
	Discarded string
	Log       string
	Report    *Report
}

// Filter parses the inputs, classifies every read and renders the outputs.
// On error nothing is returned, not even a partial result.
func Filter(ctx context.Context, in Input, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	scoring := opts.Scoring
	if scoring == (Scoring{}) {
		scoring = alignment.Default()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	started := time.Now()
	format := in.ReadFormat()

	adapters, err := adapter.Load(in.Adapters)
	if err != nil {
		return nil, fmt.Errorf("load adapters: %w", err)
	}
	reads, err := seqio.Parse(in.Reads, format)
	if err != nil {
		return nil, fmt.Errorf("parse reads: %w", err)
	}
	factory, err := classify.NewFactory(opts.Mode, adapters, scoring)
	if err != nil {
		return nil, err
	}

	runID := report.NewRunID()
	logger.Info("filtering reads",
		"run", runID,
		"mode", opts.Mode,
		"format", format,
		"reads", len(reads),
		"adapters", adapters.Pairs(),
		"workers", workers)
	if opts.Mode == classify.Substring {
		logger.Warn("substring mode only detects exact adapter occurrences", "run", runID)
	}

	part, err := classify.Run(ctx, reads, factory, classify.Options{
		Workers:       workers,
		ProgressEvery: opts.ProgressEvery,
		Progress:      opts.Progress,
		Counters:      opts.Counters,
	})
	if err != nil {
		logger.Error("filtering aborted", "run", runID, "err", err)
		return nil, err
	}

	rep := &report.Report{
		RunID:          runID,
		Mode:           opts.Mode,
		Params:         scoring,
		InputFile:      in.Filename,
		Format:         format,
		Total:          part.Total(),
		AdapterPairs:   adapters.Pairs(),
		Kept:           len(part.Kept),
		Discarded:      len(part.Discarded),
		Started:        started,
		Completed:      time.Now(),
		KeptStats:      stats.FromRecords(part.Kept),
		DiscardedStats: stats.FromRecords(part.Discarded),
	}
	logger.Info("filtering complete",
		"run", runID,
		"kept", rep.Kept,
		"discarded", rep.Discarded,
		"elapsed", rep.Completed.Sub(rep.Started))

	return &Result{
		Kept:      seqio.Serialize(part.Kept, format),
		Discarded: seqio.Serialize(part.Discarded, format),
		Log:       report.Build(rep),
		Report:    rep,
	}, nil
}

// WriteArchive writes res as a zip with the kept reads, discarded reads and
// log as members named after the read format.
func WriteArchive(w io.Writer, res *Result) error {
	return archive.Write(w, archive.Contents{
		Kept:      res.Kept,
		Discarded: res.Discarded,
		Log:       res.Log,
	}, res.Report.Format, res.Report.Completed)
}

// LoadAdapters parses an adapter panel and returns every adapter in both
// orientations, in the order they are tried.
func LoadAdapters(text string) ([]Adapter, error) {
	return adapter.Load(text)
}

// Align locates the best local alignment of adapterSeq within read.
func Align(read, adapterSeq string, s Scoring) (Hit, error) {
	if err := s.Validate(); err != nil {
		return Hit{}, err
	}
	return alignment.NewAligner(s).Locate(read, adapterSeq), nil
}

// Summarize parses read text and returns its length and quality summary.
func Summarize(text string, f Format) (Summary, error) {
	reads, err := seqio.Parse(text, f)
	if err != nil {
		return Summary{}, fmt.Errorf("parse reads: %w", err)
	}
	return stats.FromRecords(reads), nil
}

// ParseFormat maps "fasta" or "fastq" to a Format; anything else is FASTQ.
func ParseFormat(name string) Format {
	return seqio.ParseFormat(name)
}

// ParseMode maps a mode name such as "alignment" or "substring" to a Mode.
func ParseMode(name string) (Mode, error) {
	return classify.ParseMode(name)
}

// Version returns the trimmer version.
func Version() string {
	return "1.0.0"
}

// Info returns a short description of the tool.
func Info() string {
	return fmt.Sprintf(`barcode-trimmer v%s - mid-read adapter and barcode filter

Reads whose sequence aligns to any adapter, or its reverse complement, with a
local alignment score at or above the threshold are discarded.

Modes:
  alignment   affine-gap Smith-Waterman scoring (default)
  substring   exact adapter containment only
`, Version())
}
