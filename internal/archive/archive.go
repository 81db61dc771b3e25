// Package archive bundles the outputs of a run into a single zip file.
package archive

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/aria-lang/barcode-trimmer/internal/seqio"
)

// Member names inside the archive. The read members take the extension of
// the input format.
const (
	keptPrefix      = "filtered_reads"
	discardedPrefix = "discarded_reads"
	LogName         = "filtering_log.txt"

	// FileName is the download name of the archive itself.
	FileName = "barcode_trimmer_results.zip"
)

// Contents are the three text outputs of a run.
type Contents struct {
	Kept      string
	Discarded string
	Log       string
}

// KeptName returns the archive member holding the kept reads.
func KeptName(f seqio.Format) string {
	return keptPrefix + "." + f.Ext()
}

// DiscardedName returns the archive member holding the discarded reads.
func DiscardedName(f seqio.Format) string {
	return discardedPrefix + "." + f.Ext()
}

// Write deflates c into a zip archive on w. Members are written in a fixed
// order: kept reads, discarded reads, log.
func Write(w io.Writer, c Contents, f seqio.Format, modified time.Time) error {
	zw := zip.NewWriter(w)
	members := []struct {
		name string
		body string
	}{
		{KeptName(f), c.Kept},
		{DiscardedName(f), c.Discarded},
		{LogName, c.Log},
	}
	for _, m := range members {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     m.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", m.name, err)
		}
		if _, err := io.WriteString(fw, m.body); err != nil {
			return fmt.Errorf("write %s: %w", m.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}
