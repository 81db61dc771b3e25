package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/aria-lang/barcode-trimmer/internal/archive"
	"github.com/aria-lang/barcode-trimmer/pkg/trimmer"
)

type filterFlags struct {
	reads     string
	adapters  string
	format    string
	outDir    string
	kept      string
	discarded string
	logFile   string
	zip       string
	progress  bool
}

func newFilterCmd(a *app) *cobra.Command {
	var f filterFlags

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Split reads into kept and discarded files",
		Long: `Score every read against every adapter, and its reverse complement, with
affine-gap local alignment. Reads scoring at or above --min-score are
discarded. Input and output files ending in .gz are (de)compressed and "-"
means stdin or stdout.

Unless individual paths are given, the outputs are written to --outdir as
filtered_reads.<ext>, discarded_reads.<ext> and filtering_log.txt.`,
		Example: `  trimmer filter -r reads.fastq.gz -a panel.fasta
  trimmer filter -r reads.fa -a panel.fasta --min-score 24 --zip results.zip
  zcat reads.fq.gz | trimmer filter -r - --format fastq -a panel.fasta --kept - --discarded /dev/null`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, a, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.reads, "reads", "r", "", `FASTA/FASTQ reads ("-" for stdin)`)
	flags.StringVarP(&f.adapters, "adapters", "a", "", "FASTA adapter/barcode panel")
	flags.StringVar(&f.format, "format", "", "read format (fasta or fastq); inferred from the file name by default")
	flags.StringVarP(&f.outDir, "outdir", "O", ".", "directory for the default output files")
	flags.StringVar(&f.kept, "kept", "", "output file for kept reads")
	flags.StringVar(&f.discarded, "discarded", "", "output file for discarded reads")
	flags.StringVar(&f.logFile, "log", "", "output file for the filtering log")
	flags.StringVar(&f.zip, "zip", "", "write all outputs into this zip archive instead")
	flags.BoolVar(&f.progress, "progress", false, "show a progress bar on stderr")
	cmd.MarkFlagRequired("reads")
	cmd.MarkFlagRequired("adapters")

	flags.String("mode", "alignment", "classification mode: alignment or substring")
	flags.Int("match", 2, "match score")
	flags.Int("mismatch", -1, "mismatch score")
	flags.Int("gap-open", 5, "gap open penalty")
	flags.Int("gap-extend", 1, "gap extension penalty")
	flags.Int("min-score", 30, "minimum alignment score to discard a read")
	flags.IntP("workers", "j", 0, "classification workers (0 = one per CPU)")
	a.v.BindPFlag("mode", flags.Lookup("mode"))
	a.v.BindPFlag("scoring.match", flags.Lookup("match"))
	a.v.BindPFlag("scoring.mismatch", flags.Lookup("mismatch"))
	a.v.BindPFlag("scoring.gap_open", flags.Lookup("gap-open"))
	a.v.BindPFlag("scoring.gap_extend", flags.Lookup("gap-extend"))
	a.v.BindPFlag("scoring.min_score", flags.Lookup("min-score"))
	a.v.BindPFlag("workers", flags.Lookup("workers"))

	return cmd
}

func runFilter(cmd *cobra.Command, a *app, f filterFlags) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	mode, err := cfg.ClassifyMode()
	if err != nil {
		return err
	}

	reads, err := readFile(f.reads)
	if err != nil {
		return err
	}
	adapters, err := readFile(f.adapters)
	if err != nil {
		return err
	}

	opts := trimmer.Options{
		Scoring:       cfg.Scoring,
		Mode:          mode,
		Workers:       cfg.Workers,
		ProgressEvery: cfg.ProgressEvery,
		Logger:        a.logger,
	}
	var bar *progressBar
	if f.progress {
		bar = newProgressBar(cmd.ErrOrStderr())
		opts.Progress = bar.update
	}

	res, err := trimmer.Filter(cmd.Context(), trimmer.Input{
		Adapters: adapters,
		Reads:    reads,
		Filename: filepath.Base(f.reads),
		Format:   f.format,
	}, opts)
	if bar != nil {
		bar.finish(err != nil)
	}
	if err != nil {
		return err
	}

	if f.zip != "" {
		return writeArchive(f.zip, res)
	}
	return writeOutputs(f, res)
}

func readFile(path string) (string, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	b, err := io.ReadAll(fh)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

func writeFile(path, content string) error {
	outfh, err := xopen.Wopen(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.WriteString(outfh, content); err != nil {
		outfh.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return outfh.Close()
}

func writeOutputs(f filterFlags, res *trimmer.Result) error {
	format := res.Report.Format
	outputs := []struct {
		path, fallback, content string
	}{
		{f.kept, archive.KeptName(format), res.Kept},
		{f.discarded, archive.DiscardedName(format), res.Discarded},
		{f.logFile, archive.LogName, res.Log},
	}
	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return err
	}
	for _, o := range outputs {
		path := o.path
		if path == "" {
			path = filepath.Join(f.outDir, o.fallback)
		}
		if err := writeFile(path, o.content); err != nil {
			return err
		}
	}
	return nil
}

func writeArchive(path string, res *trimmer.Result) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := trimmer.WriteArchive(fh, res); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// progressBar draws an mpb bar once the read total is known, which is only
// after the reads have been parsed.
type progressBar struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{p: mpb.New(mpb.WithWidth(40), mpb.WithOutput(w))}
}

// update is only ever called from one goroutine.
func (pb *progressBar) update(processed, total int) {
	if total == 0 {
		return
	}
	if pb.bar == nil {
		pb.bar = pb.p.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name("processed reads: ", decor.WC{W: len("processed reads: "), C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.AverageETA(decor.ET_STYLE_GO),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
	}
	pb.bar.SetCurrent(int64(processed))
}

func (pb *progressBar) finish(failed bool) {
	if pb.bar != nil && failed {
		pb.bar.Abort(false)
	}
	pb.p.Wait()
}
