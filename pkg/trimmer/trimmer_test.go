package trimmer

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/barcode-trimmer/internal/report"
)

var exampleScoring = Scoring{Match: 2, Mismatch: -1, GapOpen: 5, GapExtend: 1, MinScore: 10}

func TestFilterExampleScenario(t *testing.T) {
	res, err := Filter(context.Background(), Input{
		Adapters: ">A1\nACGTACGT",
		Reads:    ">r1\nACGTACGTTTTT\n>r2\nGGGGGGGGGG\n",
		Filename: "reads.fasta",
	}, Options{Scoring: exampleScoring, Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, ">r2\nGGGGGGGGGG\n", res.Kept)
	assert.Equal(t, ">r1\nACGTACGTTTTT\n", res.Discarded)

	s, err := report.Parse(res.Log)
	require.NoError(t, err)
	assert.Equal(t, report.Summary{Total: 2, Kept: 1, Discarded: 1}, s)
	assert.Contains(t, res.Log, "Adapters loaded: 1\n")
	assert.Contains(t, res.Log, "Format: FASTA\n")
	assert.Contains(t, res.Log, "Input File: reads.fasta\n")
	assert.NotEmpty(t, res.Report.RunID)
}

func TestFilterFASTQ(t *testing.T) {
	reads := "@r1 first\nACGTACGTTTTT\n+\nIIIIIIIIIIII\n" +
		"@r2\nGGGGGGGGGG\n+\n5555555555\n" +
		"@r3\nGG\n" // truncated trailing group
	res, err := Filter(context.Background(), Input{
		Adapters: ">A1\nACGTACGT",
		Reads:    reads,
		Filename: "run.fq.gz",
	}, Options{Scoring: exampleScoring})
	require.NoError(t, err)

	assert.Equal(t, "@r2\nGGGGGGGGGG\n+\n5555555555\n", res.Kept)
	assert.Equal(t, "@r1 first\nACGTACGTTTTT\n+\nIIIIIIIIIIII\n", res.Discarded)
	assert.Equal(t, 2, res.Report.Total)
	assert.True(t, res.Report.KeptStats.HasQuality)
	assert.InDelta(t, 20.0, res.Report.KeptStats.MeanQuality, 0.0001)
}

func TestFilterFormatOverride(t *testing.T) {
	res, err := Filter(context.Background(), Input{
		Adapters: ">A1\nACGTACGT",
		Reads:    ">r1\nGGGG\n",
		Filename: "-",
		Format:   "fasta",
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, FASTA, res.Report.Format)
	assert.Equal(t, ">r1\nGGGG\n", res.Kept)
}

func TestFilterEmptyPanel(t *testing.T) {
	res, err := Filter(context.Background(), Input{
		Reads:    ">r1\nACGT\n>r2\nTTTT\n",
		Filename: "reads.fa",
	}, Options{Scoring: exampleScoring})
	require.NoError(t, err)
	assert.Equal(t, ">r1\nACGT\n>r2\nTTTT\n", res.Kept)
	assert.Empty(t, res.Discarded)
	assert.Contains(t, res.Log, "Adapters loaded: 0\n")
}

func TestFilterErrorsReturnNoResult(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		opts Options
		is   error
	}{
		{
			name: "invalid encoding",
			in:   Input{Adapters: ">A\nACGT", Reads: ">r1\nAC\xffGT\n", Filename: "r.fasta"},
			is:   ErrInvalidEncoding,
		},
		{
			name: "malformed fastq",
			in:   Input{Adapters: ">A\nACGT", Reads: "r1\nACGT\n+\nIIII\n", Filename: "r.fastq"},
		},
		{
			name: "invalid scoring",
			in:   Input{Adapters: ">A\nACGT", Reads: ">r1\nACGT\n", Filename: "r.fasta"},
			opts: Options{Scoring: Scoring{Match: 1, GapOpen: 1, GapExtend: 1, MinScore: 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Filter(context.Background(), tt.in, tt.opts)
			require.Error(t, err)
			assert.Nil(t, res)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestFilterSubstringMode(t *testing.T) {
	var logs bytes.Buffer
	res, err := Filter(context.Background(), Input{
		Adapters: ">A1\nACGTACGT",
		Reads:    ">r1\nttACGTACGTtt\n>r2\nACGTACCT\n",
		Filename: "reads.fasta",
	}, Options{Mode: Substring, Logger: log.New(&logs)})
	require.NoError(t, err)

	assert.Equal(t, ">r2\nACGTACCT\n", res.Kept)
	assert.Contains(t, res.Log, "(Simplified Mode)")

	s, err := report.Parse(res.Log)
	require.NoError(t, err)
	assert.True(t, s.Simplified)
	assert.Contains(t, logs.String(), "substring mode")
	assert.Contains(t, logs.String(), "filtering complete")
}

func TestFilterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Filter(ctx, Input{Adapters: ">A\nACGT", Reads: ">r1\nACGT\n", Filename: "r.fa"}, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestFilterConservesReads(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	var sb strings.Builder
	for i := 0; i < 300; i++ {
		sb.WriteString(">r\n")
		for j := 0; j < 40; j++ {
			sb.WriteByte("ACGT"[rng.Intn(4)])
		}
		if i%5 == 0 {
			sb.WriteString("AGATCGGAAGAGC")
		}
		sb.WriteByte('\n')
	}

	counters := &Counters{}
	var last [2]int
	res, err := Filter(context.Background(), Input{
		Adapters: ">illumina\nAGATCGGAAGAGC\n",
		Reads:    sb.String(),
		Filename: "reads.fasta",
	}, Options{
		Scoring:  Scoring{Match: 2, Mismatch: -1, GapOpen: 5, GapExtend: 1, MinScore: 20},
		Workers:  4,
		Counters: counters,
		Progress: func(processed, total int) { last = [2]int{processed, total} },
	})
	require.NoError(t, err)

	assert.Equal(t, 300, res.Report.Kept+res.Report.Discarded)
	assert.GreaterOrEqual(t, res.Report.Discarded, 60)
	assert.Equal(t, [2]int{300, 300}, last)
	assert.Equal(t, 300, counters.Snapshot().Processed)
	assert.Equal(t, res.Report.Kept, strings.Count(res.Kept, ">"))
	assert.Equal(t, res.Report.Discarded, strings.Count(res.Discarded, ">"))
}

func TestWriteArchive(t *testing.T) {
	res, err := Filter(context.Background(), Input{
		Adapters: ">A1\nACGTACGT",
		Reads:    "@r1\nGGGG\n+\nIIII\n",
		Filename: "reads.fastq",
	}, Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, res))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"filtered_reads.fastq", "discarded_reads.fastq", "filtering_log.txt"}, names)
	assert.Equal(t, "barcode_trimmer_results.zip", ArchiveName)
}

func TestLoadAdapters(t *testing.T) {
	adapters, err := LoadAdapters(">A1\nAAAACC\n>A2\nGGGTT\n")
	require.NoError(t, err)
	require.Len(t, adapters, 4)
	assert.Equal(t, "GGTTTT", adapters[1].Seq)
	assert.Equal(t, "A2", adapters[2].Name)
}

func TestAlign(t *testing.T) {
	hit, err := Align("TTACGTACGTTT", "ACGTACGT", exampleScoring)
	require.NoError(t, err)
	assert.Equal(t, 16, hit.Score)
	assert.Equal(t, 10, hit.EndA)
	assert.Equal(t, 8, hit.EndB)

	_, err = Align("ACGT", "ACGT", Scoring{})
	require.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s, err := Summarize("@r1\nACGG\n+\nIIII\n@r2\nAC\n+\nII\n", FASTQ)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 6, s.TotalBases)
	assert.InDelta(t, 40.0, s.MeanQuality, 0.0001)

	_, err = Summarize("\xff", FASTA)
	require.ErrorIs(t, err, ErrInvalidEncoding)
}
