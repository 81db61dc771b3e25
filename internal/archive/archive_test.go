package archive

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/barcode-trimmer/internal/seqio"
)

func TestWrite(t *testing.T) {
	tests := []struct {
		name   string
		format seqio.Format
		want   []string
	}{
		{"fastq", seqio.FASTQ, []string{"filtered_reads.fastq", "discarded_reads.fastq", "filtering_log.txt"}},
		{"fasta", seqio.FASTA, []string{"filtered_reads.fasta", "discarded_reads.fasta", "filtering_log.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Contents{Kept: ">r2\nGGGG\n", Discarded: ">r1\nACGT\n", Log: "Reads kept: 1\n"}
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, c, tt.format, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))

			zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
			require.NoError(t, err)
			require.Len(t, zr.File, 3)

			bodies := map[string]string{}
			for i, f := range zr.File {
				assert.Equal(t, tt.want[i], f.Name)
				assert.Equal(t, zip.Deflate, f.Method)
				rc, err := f.Open()
				require.NoError(t, err)
				b, err := io.ReadAll(rc)
				require.NoError(t, err)
				require.NoError(t, rc.Close())
				bodies[f.Name] = string(b)
			}
			assert.Equal(t, c.Kept, bodies[KeptName(tt.format)])
			assert.Equal(t, c.Discarded, bodies[DiscardedName(tt.format)])
			assert.Equal(t, c.Log, bodies[LogName])
		})
	}
}

func TestWriteEmptyPartitions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Contents{Log: "x"}, seqio.FASTQ, time.Now()))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Len(t, zr.File, 3)
	assert.Zero(t, zr.File[0].UncompressedSize64)
}
