// Package report renders the filtering log of a run and scrapes its summary
// counts back out.
//
// The log is plain text with one "Key: value" pair per line. Key names are
// stable so callers can grep for "Reads kept:" and friends.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/aria-lang/barcode-trimmer/internal/alignment"
	"github.com/aria-lang/barcode-trimmer/internal/classify"
	"github.com/aria-lang/barcode-trimmer/internal/seqio"
	"github.com/aria-lang/barcode-trimmer/internal/stats"
)

const (
	title         = "Mid-Read Barcode Trimming Log"
	alignmentTool = "Affine-gap Smith-Waterman filter"
	substringTool = "Exact substring filter"
	substringNote = "Note: substring mode only finds exact, ungapped occurrences of an adapter " +
		"or its reverse complement. Use alignment mode for error-tolerant detection."
)

// Report collects everything the filtering log shows about a run.
type Report struct {
	RunID     string
	Mode      classify.Mode
	Params    alignment.Scoring
	InputFile string
	Format    seqio.Format
	Total     int
	// AdapterPairs is the number of panel records, each loaded in both
	// orientations.
	AdapterPairs   int
	Kept           int
	Discarded      int
	Started        time.Time
	Completed      time.Time
	KeptStats      stats.Summary
	DiscardedStats stats.Summary
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// Build renders the log. The output depends only on r.
func Build(r *Report) string {
	var sb strings.Builder

	if r.Mode == classify.Substring {
		sb.WriteString(title + " (Simplified Mode)\n")
	} else {
		sb.WriteString(title + "\n")
	}
	if r.RunID != "" {
		fmt.Fprintf(&sb, "Run ID: %s\n", r.RunID)
	}
	fmt.Fprintf(&sb, "Started: %s\n", r.Started.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Tool: %s\n", tool(r.Mode))
	fmt.Fprintf(&sb, "Mode: %s\n", r.Mode)
	sb.WriteString("\nParameters:\n")
	sb.WriteString(params(r.Params))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Input File: %s\n", r.InputFile)
	fmt.Fprintf(&sb, "Format: %s\n", strings.ToUpper(r.Format.String()))
	fmt.Fprintf(&sb, "Total reads: %s\n", humanize.Comma(int64(r.Total)))
	fmt.Fprintf(&sb, "Adapters loaded: %s\n", humanize.Comma(int64(r.AdapterPairs)))

	sb.WriteString("\nResults:\n")
	fmt.Fprintf(&sb, "Reads kept: %s\n", humanize.Comma(int64(r.Kept)))
	fmt.Fprintf(&sb, "Reads discarded: %s\n", humanize.Comma(int64(r.Discarded)))
	fmt.Fprintf(&sb, "Kept summary: %s\n", r.KeptStats)
	fmt.Fprintf(&sb, "Discarded summary: %s\n", r.DiscardedStats)
	fmt.Fprintf(&sb, "Elapsed: %s\n", r.Completed.Sub(r.Started).Round(time.Millisecond))
	fmt.Fprintf(&sb, "Completed: %s\n", r.Completed.Format(time.RFC3339))

	if r.Mode == classify.Substring {
		sb.WriteString("\n" + substringNote + "\n")
	}
	return sb.String()
}

func tool(m classify.Mode) string {
	if m == classify.Substring {
		return substringTool
	}
	return alignmentTool
}

func params(s alignment.Scoring) string {
	// Scoring only holds ints, so marshalling cannot fail.
	b, _ := json.MarshalIndent(s, "", "  ")
	return string(b)
}

// Summary holds the counts scraped from a log.
type Summary struct {
	Total      int
	Kept       int
	Discarded  int
	Simplified bool
}

// Parse extracts the summary counts from a log produced by Build. Every count
// key must be present.
func Parse(text string) (Summary, error) {
	var s Summary
	seen := map[string]bool{}

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, title) && strings.Contains(line, "(Simplified Mode)") {
			s.Simplified = true
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		var dst *int
		switch key {
		case "Total reads":
			dst = &s.Total
		case "Reads kept":
			dst = &s.Kept
		case "Reads discarded":
			dst = &s.Discarded
		default:
			continue
		}
		n, err := parseCount(value)
		if err != nil {
			return Summary{}, fmt.Errorf("parse %q: %w", key, err)
		}
		*dst = n
		seen[key] = true
	}
	if err := sc.Err(); err != nil {
		return Summary{}, err
	}
	for _, key := range []string{"Total reads", "Reads kept", "Reads discarded"} {
		if !seen[key] {
			return Summary{}, fmt.Errorf("log has no %q line", key)
		}
	}
	return s, nil
}

func parseCount(value string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(value), ",", ""))
}
