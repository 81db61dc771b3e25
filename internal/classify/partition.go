package classify

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/aria-lang/barcode-trimmer/internal/sequence"
)

// DefaultProgressEvery is the progress callback granularity in reads.
const DefaultProgressEvery = 100

// ProgressFunc receives the number of processed reads and the total.
type ProgressFunc func(processed, total int)

// Counters tracks a running partition. All methods are safe for concurrent
// use and observed values never decrease.
type Counters struct {
	processed atomic.Int64
	kept      atomic.Int64
	discarded atomic.Int64
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Processed int
	Kept      int
	Discarded int
}

// Snapshot reads the counters. Each field is individually monotonic; the
// fields are not read atomically as a group.
func (c *Counters) Snapshot() Snapshot {
	kept := c.kept.Load()
	discarded := c.discarded.Load()
	return Snapshot{
		Kept:      int(kept),
		Discarded: int(discarded),
		Processed: int(c.processed.Load()),
	}
}

func (c *Counters) record(contaminated bool) {
	if contaminated {
		c.discarded.Add(1)
	} else {
		c.kept.Add(1)
	}
	c.processed.Add(1)
}

// Options controls Run.
type Options struct {
	// Workers is the number of classifier goroutines; values below 1 mean 1.
	Workers int
	// ProgressEvery is the callback interval in reads; 0 means 100.
	ProgressEvery int
	// Progress is called from a single goroutine every ProgressEvery reads
	// and once after the last read.
	Progress ProgressFunc
	// Counters, when set, is updated as reads are classified so callers can
	// poll it while Run is in flight.
	Counters *Counters
}

// Partition holds the kept and discarded reads in input order.
type Partition struct {
	Kept      []*sequence.Record
	Discarded []*sequence.Record
	// Results has one entry per input read, in input order.
	Results []Result
}

// Total returns the number of classified reads.
func (p *Partition) Total() int {
	return len(p.Kept) + len(p.Discarded)
}

type job struct {
	idx int
	rec *sequence.Record
}

type outcome struct {
	idx int
	res Result
}

// Run classifies every read and routes it to the kept or discarded side.
// Records are never modified. Each worker owns a classifier from factory;
// results land in index-addressed slots so both partitions keep input order
// regardless of scheduling. The context is checked between reads; on
// cancellation Run returns ctx.Err() and no partition.
func Run(ctx context.Context, reads []*sequence.Record, factory Factory, opts Options) (*Partition, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	every := opts.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}
	counters := opts.Counters
	if counters == nil {
		counters = &Counters{}
	}
	total := len(reads)
	results := make([]Result, total)

	jobs := make(chan job, workers*2)
	outcomes := make(chan outcome, workers*2)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			c := factory()
			for j := range jobs {
				if ctx.Err() != nil {
					continue
				}
				select {
				case outcomes <- outcome{idx: j.idx, res: c.Classify(j.rec)}:
				case <-ctx.Done():
				}
			}
		}()
	}

	// Collector: the only writer of results and the only caller of Progress.
	done := make(chan struct{})
	go func() {
		defer close(done)
		n := 0
		for o := range outcomes {
			results[o.idx] = o.res
			counters.record(o.res.Contaminated)
			n++
			if opts.Progress != nil && (n%every == 0 || n == total) {
				opts.Progress(n, total)
			}
		}
	}()

feed:
	for i, rec := range reads {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{idx: i, rec: rec}:
		}
	}
	close(jobs)
	wg.Wait()
	close(outcomes)
	<-done

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if total == 0 && opts.Progress != nil {
		opts.Progress(0, 0)
	}

	p := &Partition{
		Kept:      make([]*sequence.Record, 0, total),
		Discarded: make([]*sequence.Record, 0),
		Results:   results,
	}
	for i, rec := range reads {
		if results[i].Contaminated {
			p.Discarded = append(p.Discarded, rec)
		} else {
			p.Kept = append(p.Kept, rec)
		}
	}
	return p, nil
}
