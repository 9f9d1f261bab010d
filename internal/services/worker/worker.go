// Package worker runs extraction jobs in the background.
//
// The pool is the usual Go shape: a buffered channel as the job queue, N
// goroutines ranging over it, and a cancellable context for shutdown. HTTP
// handlers create a pending record, submit its ID and return immediately;
// workers run the extraction pipeline and write the outcome back.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
)

// JobType identifies what kind of work a job represents.
type JobType string

const (
	JobExtraction JobType = "ingredient_extraction"
	JobThumbnail  JobType = "thumbnail_lookup"
)

// ErrQueueFull is returned by Submit when the queue has no free slot.
var ErrQueueFull = errors.New("job queue is full; try again later")

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("worker pool is stopped")

// Job represents a unit of work to be processed by a worker.
type Job struct {
	ID        string // the extraction record ID
	Type      JobType
	CreatedAt time.Time
}

// Store is the persistence the workers need.
type Store interface {
	GetExtraction(ctx context.Context, id string) (*models.Extraction, error)
	UpdateExtraction(ctx context.Context, e *models.Extraction) error
	SetThumbnail(ctx context.Context, id, thumbnailURL string) error
}

// Extractor runs the ingredient pipeline.
type Extractor interface {
	Extract(ctx context.Context, req models.ExtractionRequest) (*models.ExtractionResult, error)
}

// ThumbnailFetcher looks up a video's preview image.
type ThumbnailFetcher interface {
	FetchThumbnail(ctx context.Context, videoID string) (string, error)
}

// Pool manages a pool of worker goroutines.
type Pool struct {
	jobs       chan Job
	workers    int
	jobTimeout time.Duration

	store      Store
	extractor  Extractor
	thumbnails ThumbnailFetcher // optional

	wg sync.WaitGroup

	mu      sync.RWMutex
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a new worker pool. Each job gets its own jobTimeout.
func NewPool(workers, queueSize int, jobTimeout time.Duration, store Store, ext Extractor) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		jobs:       make(chan Job, queueSize),
		workers:    workers,
		jobTimeout: jobTimeout,
		store:      store,
		extractor:  ext,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetThumbnailFetcher enables thumbnail lookups after each extraction.
func (p *Pool) SetThumbnailFetcher(tf ThumbnailFetcher) {
	p.thumbnails = tf
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	log.Printf("🚀 Starting %d background workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop cancels in-flight jobs and waits for all workers to exit. Jobs still
// queued are dropped and keep their pending status.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	log.Println("⏹️  Stopping workers...")
	p.cancel()
	close(p.jobs)
	p.wg.Wait()
	log.Println("✅ All workers stopped")
}

// Submit adds a job to the queue without blocking.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}

	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	select {
	case p.jobs <- job:
		log.Printf("📥 Job queued: %s (type: %s)", job.ID, job.Type)
		return nil
	default:
		return ErrQueueFull
	}
}

// QueueSize returns the current number of jobs in the queue.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}

// WorkerCount returns the number of workers.
func (p *Pool) WorkerCount() int {
	return p.workers
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	log.Printf("👷 Worker %d started", id)

	for job := range p.jobs {
		select {
		case <-p.ctx.Done():
			log.Printf("👷 Worker %d shutting down", id)
			return
		default:
		}

		log.Printf("👷 Worker %d processing job: %s (type: %s)", id, job.ID, job.Type)

		var err error
		switch job.Type {
		case JobExtraction:
			err = p.processExtraction(job)
		case JobThumbnail:
			err = p.processThumbnail(job)
		default:
			err = fmt.Errorf("unknown job type: %s", job.Type)
		}

		if err != nil {
			log.Printf("❌ Worker %d: job %s failed: %v", id, job.ID, err)
		} else {
			log.Printf("✅ Worker %d: job %s completed in %s", id, job.ID, time.Since(job.CreatedAt).Round(time.Millisecond))
		}
	}

	log.Printf("👷 Worker %d stopped", id)
}

// processExtraction runs the pipeline for a pending extraction record.
func (p *Pool) processExtraction(job Job) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.jobTimeout)
	defer cancel()

	e, err := p.store.GetExtraction(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to get extraction: %w", err)
	}

	e.Status = models.StatusProcessing
	if err := p.store.UpdateExtraction(ctx, e); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	result, err := p.extractor.Extract(ctx, models.ExtractionRequest{
		VideoURL:        e.VideoURL,
		UserDescription: e.UserDescription,
	})
	if err != nil {
		e.Status = models.StatusFailed
		e.ErrorMessage = err.Error()
		// The job context may be the thing that failed.
		saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer saveCancel()
		if uerr := p.store.UpdateExtraction(saveCtx, e); uerr != nil {
			log.Printf("⚠️  Failed to record failure for %s: %v", e.ID, uerr)
		}
		return fmt.Errorf("extraction failed: %w", err)
	}

	ingredients, err := json.Marshal(result.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to encode ingredients: %w", err)
	}

	e.Status = models.StatusCompleted
	e.Source = string(result.Source)
	e.UsedModel = result.UsedModel
	e.Ingredients = ingredients
	e.ErrorMessage = ""
	if err := p.store.UpdateExtraction(ctx, e); err != nil {
		return fmt.Errorf("failed to save extraction: %w", err)
	}

	if p.thumbnails != nil && e.Platform == models.PlatformYouTube && e.ThumbnailURL == "" {
		if err := p.Submit(Job{ID: e.ID, Type: JobThumbnail}); err != nil {
			log.Printf("⚠️  Thumbnail lookup for %s not queued: %v", e.ID, err)
		}
	}

	return nil
}

// processThumbnail stores the preview image of a completed extraction.
// A missing thumbnail is not an error.
func (p *Pool) processThumbnail(job Job) error {
	if p.thumbnails == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(p.ctx, p.jobTimeout)
	defer cancel()

	e, err := p.store.GetExtraction(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to get extraction: %w", err)
	}
	if e.VideoID == "" {
		return nil
	}

	url, err := p.thumbnails.FetchThumbnail(ctx, e.VideoID)
	if err != nil {
		if errors.Is(err, models.ErrNoContentFound) {
			return nil
		}
		return fmt.Errorf("thumbnail lookup failed: %w", err)
	}

	return p.store.SetThumbnail(ctx, e.ID, url)
}
