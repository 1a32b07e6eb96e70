package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/contactcsv/internal/vcf"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusDecoding   JobStatus = "decoding"
	StatusConverting JobStatus = "converting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusCached     JobStatus = "cached"
)

// Done reports whether the job has reached a terminal state.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCached
}

// Job tracks the state of a single file conversion.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Mode     vcf.Mode  `json:"mode"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   string
	errors   []string
}

// Progress tracks conversion progress.
type Progress struct {
	TotalCards     int      `json:"total_cards"`
	CardsProcessed int      `json:"cards_processed"`
	Columns        int      `json:"columns"`
	Errors         []string `json:"errors"`
}

// NewJob creates a queued job for one uploaded file.
func NewJob(filename string, mode vcf.Mode, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        newJobID(),
		Mode:      mode,
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
}

func newJobID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// JobStore is a thread-safe in-memory job registry with TTL eviction. It also
// indexes finished jobs by content key so identical uploads can reuse a result.
type JobStore struct {
	mu    sync.Mutex
	jobs  map[string]*Job
	byKey map[string]string
	ttl   time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs:  make(map[string]*Job),
		byKey: make(map[string]string),
		ttl:   ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Index records job as the holder of the result for key.
func (s *JobStore) Index(key string, job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey[key] = job.ID
}

// Lookup returns the job indexed under key, if it is still stored.
func (s *JobStore) Lookup(key string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byKey[key]
	if !ok {
		return nil
	}
	return s.jobs[id]
}

// Len returns the number of stored jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs and their index entries.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
	for key, id := range s.byKey {
		if _, ok := s.jobs[id]; !ok {
			delete(s.byKey, key)
		}
	}
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalCards records the number of card blocks found.
func (j *Job) SetTotalCards(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalCards = n
	j.UpdatedAt = time.Now()
}

// IncrCardsProcessed atomically increments cards processed.
func (j *Job) IncrCardsProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.CardsProcessed++
	j.UpdatedAt = time.Now()
}

// SetResult stores the finished CSV and releases the uploaded bytes.
func (j *Job) SetResult(csv string, columns int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = csv
	j.Progress.Columns = columns
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Result returns the CSV once the job has finished successfully.
func (j *Job) Result() (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status != StatusCompleted && j.Status != StatusCached {
		return "", false
	}
	return j.result, true
}

// SetContentHash records the hash of the decoded text.
func (j *Job) SetContentHash(h string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = h
}

// reuse copies the result and counters of an earlier finished job.
func (j *Job) reuse(prev JobSnapshot, csv string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = csv
	j.fileData = nil
	j.Progress.TotalCards = prev.Progress.TotalCards
	j.Progress.CardsProcessed = prev.Progress.CardsProcessed
	j.Progress.Columns = prev.Progress.Columns
	j.Status = StatusCached
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Mode     vcf.Mode  `json:"mode"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		Mode:     j.Mode,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Progress: Progress{
			TotalCards:     j.Progress.TotalCards,
			CardsProcessed: j.Progress.CardsProcessed,
			Columns:        j.Progress.Columns,
			Errors:         append([]string{}, errs...),
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// resultKey identifies a conversion result by decoded text and mode.
func resultKey(contentHash string, mode vcf.Mode) string {
	return string(mode) + ":" + contentHash
}
