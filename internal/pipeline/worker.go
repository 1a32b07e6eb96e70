package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/contactcsv/internal/source"
	"github.com/dgallion1/contactcsv/internal/vcf"
)

// Worker converts a single uploaded file.
type Worker struct {
	jobs       *JobStore
	stats      *Stats
	log        *slog.Logger
	collation  string
	sourceOpts source.Options
}

func NewWorker(jobs *JobStore, stats *Stats, log *slog.Logger, collation string, sourceOpts source.Options) *Worker {
	return &Worker{
		jobs:       jobs,
		stats:      stats,
		log:        log,
		collation:  collation,
		sourceOpts: sourceOpts,
	}
}

// Process runs decode, split, extract and serialize for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename, "mode", job.Mode)
	start := time.Now()

	// Phase 1: Decode
	job.SetStatus(StatusDecoding, "decoding")
	text, err := source.Decode(job.Filename, job.FileData(), w.sourceOpts)
	if err != nil {
		log.Error("decode failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "decoding")
		return
	}

	hash := ContentHashHex([]byte(text))
	job.SetContentHash(hash)
	key := resultKey(hash, job.Mode)
	if prev := w.jobs.Lookup(key); prev != nil && prev != job {
		if csv, ok := prev.Result(); ok {
			log.Info("identical upload, reusing result", "source_job_id", prev.ID)
			job.reuse(prev.Snapshot(), csv)
			return
		}
	}

	// Phase 2: Convert
	job.SetStatus(StatusConverting, "converting")
	conv, err := vcf.New(vcf.Options{Mode: job.Mode, Collation: w.collation})
	if err != nil {
		log.Error("converter setup failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "converting")
		return
	}

	blocks := vcf.Blocks(text)
	job.SetTotalCards(len(blocks))
	if len(blocks) == 0 {
		log.Warn("no vCard entries found")
	}

	records := make([]vcf.Record, 0, len(blocks))
	for i, block := range blocks {
		if err := ctx.Err(); err != nil {
			log.Warn("conversion cancelled", "card", i)
			job.AddError(fmt.Sprintf("cancelled at card %d: %s", i, err))
			job.SetStatus(StatusFailed, "converting")
			return
		}
		records = append(records, conv.Extract(block))
		job.IncrCardsProcessed()
	}

	table := vcf.NewTable(conv, records)
	job.SetResult(table.CSV(), len(table.Columns))
	w.jobs.Index(key, job)
	elapsed := time.Since(start)
	w.stats.Record(Conversion{Mode: job.Mode, Elapsed: elapsed, Cards: len(records), Columns: len(table.Columns)})

	job.SetStatus(StatusCompleted, "done")
	log.Info("conversion complete",
		"cards", len(records),
		"columns", len(table.Columns),
		"duration_ms", elapsed.Milliseconds(),
	)
}

// ConvertNow decodes and converts data synchronously, outside the queue.
func (w *Worker) ConvertNow(filename string, data []byte, mode vcf.Mode) (*vcf.Table, error) {
	start := time.Now()
	text, err := source.Decode(filename, data, w.sourceOpts)
	if err != nil {
		return nil, err
	}
	conv, err := vcf.New(vcf.Options{Mode: mode, Collation: w.collation})
	if err != nil {
		return nil, err
	}
	table := vcf.NewTable(conv, vcf.Parse(conv, text))
	w.stats.Record(Conversion{
		Mode:    mode,
		Elapsed: time.Since(start),
		Cards:   len(table.Records),
		Columns: len(table.Columns),
	})
	return table, nil
}
