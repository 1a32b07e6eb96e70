package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/contactcsv/internal/config"
	"github.com/dgallion1/contactcsv/internal/source"
	"github.com/dgallion1/contactcsv/internal/vcf"
)

// ErrStopped is returned by Submit once Stop has been called.
var ErrStopped = errors.New("pipeline stopped")

// Orchestrator manages the background conversion queue.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	stats  *Stats
	worker *Worker
	log    *slog.Logger
	cfg    config.Config

	mu      sync.Mutex
	stopped bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	jobs := NewJobStore(cfg.JobTTL)
	stats := NewStats(cfg.StatsWindow)
	return &Orchestrator{
		jobs:  jobs,
		queue: make(chan *Job, cfg.MaxQueueSize),
		stats: stats,
		worker: NewWorker(jobs, stats, log, cfg.Collation, source.Options{
			PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
		}),
		log: log,
		cfg: cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job := <-o.queue:
					if workerCtx.Err() != nil {
						o.abandon(job)
						return
					}
					o.worker.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(o.cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop cancels the workers and waits for them. Jobs still queued are marked
// failed with phase "shutdown". Submit returns ErrStopped afterwards.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()

	close(o.queue)
	for job := range o.queue {
		o.abandon(job)
	}
}

func (o *Orchestrator) abandon(job *Job) {
	o.log.Warn("job dropped at shutdown", "job_id", job.ID, "filename", job.Filename, "mode", job.Mode)
	job.AddError("pipeline stopped before the job ran")
	job.SetStatus(StatusFailed, "shutdown")
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.AddError(ErrStopped.Error())
		job.SetStatus(StatusFailed, "shutdown")
		return ErrStopped
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// Convert runs a conversion inline for synchronous API calls.
func (o *Orchestrator) Convert(filename string, data []byte, mode vcf.Mode) (*vcf.Table, error) {
	return o.worker.ConvertNow(filename, data, mode)
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the conversion latency tracker.
func (o *Orchestrator) Stats() *Stats {
	return o.stats
}
