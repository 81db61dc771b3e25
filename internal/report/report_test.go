package report

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/barcode-trimmer/internal/alignment"
	"github.com/aria-lang/barcode-trimmer/internal/classify"
	"github.com/aria-lang/barcode-trimmer/internal/seqio"
)

func sample(mode classify.Mode) *Report {
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Report{
		RunID:        "run-1",
		Mode:         mode,
		Params:       alignment.Default(),
		InputFile:    "reads.fastq.gz",
		Format:       seqio.FASTQ,
		Total:        1234567,
		AdapterPairs: 3,
		Kept:         1234000,
		Discarded:    567,
		Started:      started,
		Completed:    started.Add(90 * time.Second),
	}
}

func TestBuild(t *testing.T) {
	text := Build(sample(classify.Alignment))

	for _, want := range []string{
		"Mid-Read Barcode Trimming Log\n",
		"Run ID: run-1\n",
		"Started: 2024-03-01T12:00:00Z\n",
		"Tool: Affine-gap Smith-Waterman filter\n",
		"Mode: alignment\n",
		"  \"gap_open\": 5,\n",
		"  \"min_score\": 30\n",
		"Input File: reads.fastq.gz\n",
		"Format: FASTQ\n",
		"Total reads: 1,234,567\n",
		"Adapters loaded: 3\n",
		"Reads kept: 1,234,000\n",
		"Reads discarded: 567\n",
		"Kept summary: none\n",
		"Elapsed: 1m30s\n",
		"Completed: 2024-03-01T12:01:30Z\n",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "Simplified")
	assert.NotContains(t, text, "Note:")
}

func TestBuildKeysAppearOnce(t *testing.T) {
	text := Build(sample(classify.Alignment))
	for _, key := range []string{
		"Started:", "Tool:", "Mode:", "Parameters:", "Input File:", "Format:",
		"Total reads:", "Adapters loaded:", "Reads kept:", "Reads discarded:", "Completed:",
	} {
		assert.Equal(t, 1, strings.Count(text, "\n"+key), key)
	}
}

func TestBuildDeterministic(t *testing.T) {
	assert.Equal(t, Build(sample(classify.Alignment)), Build(sample(classify.Alignment)))
}

func TestBuildSubstringMode(t *testing.T) {
	text := Build(sample(classify.Substring))
	assert.True(t, strings.HasPrefix(text, "Mid-Read Barcode Trimming Log (Simplified Mode)\n"))
	assert.Contains(t, text, "Tool: Exact substring filter\n")
	assert.Contains(t, text, "Mode: substring\n")
	assert.Contains(t, text, "Note: substring mode")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		mode classify.Mode
	}{
		{"alignment", classify.Alignment},
		{"substring", classify.Substring},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse(Build(sample(tt.mode)))
			require.NoError(t, err)
			assert.Equal(t, 1234567, s.Total)
			assert.Equal(t, 1234000, s.Kept)
			assert.Equal(t, 567, s.Discarded)
			assert.Equal(t, tt.mode == classify.Substring, s.Simplified)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("Total reads: 3\nReads kept: 2\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Reads discarded")

	_, err = Parse("Total reads: lots\nReads kept: 2\nReads discarded: 1\n")
	require.Error(t, err)
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewRunID())
}
