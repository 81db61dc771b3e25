package seqio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aria-lang/barcode-trimmer/internal/sequence"
)

// Writer serializes records in a fixed format.
type Writer struct {
	bw     *bufio.Writer
	format Format
}

// NewWriter returns a buffered record writer. Callers must call Flush.
func NewWriter(w io.Writer, f Format) *Writer {
	return &Writer{bw: bufio.NewWriter(w), format: f}
}

// Write emits a single record. FASTA sequences are written on one line;
// FASTQ records always use a bare '+' separator.
func (w *Writer) Write(rec *sequence.Record) error {
	var err error
	if w.format == FASTA {
		_, err = fmt.Fprintf(w.bw, ">%s\n%s\n", rec.Header(), rec.Seq)
	} else {
		_, err = fmt.Fprintf(w.bw, "@%s\n%s\n+\n%s\n", rec.Header(), rec.Seq, rec.Qual)
	}
	if err != nil {
		return fmt.Errorf("writing record %s: %w", rec.ID, err)
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Write serializes all records to w.
func Write(w io.Writer, records []*sequence.Record, f Format) error {
	sw := NewWriter(w, f)
	for _, rec := range records {
		if err := sw.Write(rec); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// Serialize returns the text form of records. An empty slice yields "".
func Serialize(records []*sequence.Record, f Format) string {
	var sb strings.Builder
	// strings.Builder never returns write errors.
	_ = Write(&sb, records, f)
	return sb.String()
}
