// Command trimmer filters FASTA/FASTQ reads carrying adapter or barcode
// sequence anywhere along their length.
//
// Usage:
//
//	trimmer [command] [options]
//
// Commands:
//
//	filter      Split reads into kept and discarded files
//	version     Show version information
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if err := newRootCmd(logger).ExecuteContext(ctx); err != nil {
		logger.Error(err)
		stop()
		os.Exit(1)
	}
}
