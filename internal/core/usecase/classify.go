package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/documind/docrouter/internal/core/domain"
	"github.com/documind/docrouter/internal/core/ports"
)

// PipelineObserver receives pipeline outcomes for metrics. Implementations
// must be cheap and non-blocking.
type PipelineObserver interface {
	ClassificationFinished(theme domain.DocTheme, status string, duration time.Duration)
	ValidationFailure(reason string)
}

// maxFinishedJobs bounds the job registry: once this many jobs have
// reached a terminal status, the oldest terminal entries are evicted.
const maxFinishedJobs = 64

type jobEntry struct {
	job       domain.ClassificationJob
	blobRef   string
	mimeType  string
	cancel    context.CancelFunc
	cancelled bool
}

// ClassifyDocumentUseCase drives a single upload slot: Submit occupies
// it, Process (invoked by the queue subscriber) runs the pipeline, Cancel
// releases it and discards any late capability response. The record
// store is only ever touched by a successful, still-wanted job.
type ClassifyDocumentUseCase struct {
	inspector  ports.DocumentInspector
	storage    ports.ObjectStorage
	queue      ports.MessageQueue
	classifier ports.Classifier
	store      ports.DocumentStore
	observer   PipelineObserver

	mu       sync.Mutex
	jobs     map[string]*jobEntry
	finished []string
	inFlight string
}

func NewClassifyDocumentUseCase(
	inspector ports.DocumentInspector,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	classifier ports.Classifier,
	store ports.DocumentStore,
	observer PipelineObserver,
) *ClassifyDocumentUseCase {
	return &ClassifyDocumentUseCase{
		inspector:  inspector,
		storage:    storage,
		queue:      queue,
		classifier: classifier,
		store:      store,
		observer:   observer,
		jobs:       make(map[string]*jobEntry),
	}
}

// Submit validates the payload, stores the source blob and enqueues a
// classification job. Pre-flight failures never reach the network. While
// a job is pending the slot is occupied and further submissions fail
// with ErrBusy.
func (uc *ClassifyDocumentUseCase) Submit(
	ctx context.Context,
	fileName, mimeType string,
	payload []byte,
) (domain.ClassificationJob, error) {
	if err := uc.inspector.Inspect(fileName, mimeType, payload); err != nil {
		return domain.ClassificationJob{}, err
	}

	jobID := uuid.NewString()
	blobRef := fmt.Sprintf("%s_%s", jobID, sanitizeFileName(fileName))

	uc.mu.Lock()
	if uc.inFlight != "" {
		uc.mu.Unlock()
		return domain.ClassificationJob{}, domain.WrapError(domain.ErrBusy, "submit document",
			fmt.Errorf("job %s still pending", uc.inFlight))
	}
	entry := &jobEntry{
		job: domain.ClassificationJob{
			ID:        jobID,
			FileName:  fileName,
			Status:    domain.JobPending,
			CreatedAt: time.Now().UTC(),
		},
		blobRef:  blobRef,
		mimeType: mimeType,
	}
	uc.jobs[jobID] = entry
	uc.inFlight = jobID
	// Snapshot under the lock: once the job is published the subscriber
	// may mutate entry.job concurrently.
	job := entry.job
	uc.mu.Unlock()

	if err := uc.storage.Save(ctx, blobRef, bytes.NewReader(payload)); err != nil {
		uc.finishJob(jobID, domain.JobFailed, "", err)
		return domain.ClassificationJob{}, fmt.Errorf("save source blob: %w", err)
	}

	if err := uc.queue.PublishClassificationRequested(ctx, jobID); err != nil {
		uc.finishJob(jobID, domain.JobFailed, "", err)
		return domain.ClassificationJob{}, fmt.Errorf("publish classification job: %w", err)
	}

	return job, nil
}

// Process runs the pipeline for a queued job: load blob, call the
// capability, validate, append. A job cancelled before the response
// arrives is discarded without touching the store.
func (uc *ClassifyDocumentUseCase) Process(ctx context.Context, jobID string) error {
	started := time.Now()

	uc.mu.Lock()
	entry, ok := uc.jobs[jobID]
	if !ok {
		uc.mu.Unlock()
		return domain.WrapError(domain.ErrNotFound, "process job", fmt.Errorf("unknown job %s", jobID))
	}
	if entry.cancelled || entry.job.Status != domain.JobPending {
		uc.mu.Unlock()
		return nil
	}
	procCtx, cancel := context.WithCancel(ctx)
	entry.cancel = cancel
	fileName := entry.job.FileName
	blobRef := entry.blobRef
	uc.mu.Unlock()
	defer cancel()

	payload, err := uc.loadBlob(procCtx, blobRef)
	if err != nil {
		uc.finishJob(jobID, domain.JobFailed, "", err)
		return err
	}

	classification, err := uc.classifier.Classify(procCtx, fileName, payload)
	if err != nil {
		if uc.discardIfCancelled(jobID) {
			return nil
		}
		uc.observeFailure(classification.Theme, err, started)
		uc.finishJob(jobID, domain.JobFailed, "", err)
		return err
	}

	// Cancellation check and append happen under one lock so a late
	// response can never slip into the store after Cancel returned.
	uc.mu.Lock()
	if entry.cancelled {
		uc.mu.Unlock()
		return nil
	}
	record, err := uc.store.Append(domain.ClassifiedDocument{
		FileName:          fileName,
		CreatedAt:         time.Now().UTC(),
		Theme:             classification.Theme,
		Summary:           classification.Summary,
		Fields:            classification.Fields,
		SourceBlobRef:     blobRef,
		SuggestedFileName: classification.SuggestedFileName,
	})
	if err != nil {
		uc.mu.Unlock()
		uc.finishJob(jobID, domain.JobFailed, "", err)
		return fmt.Errorf("append record: %w", err)
	}
	entry.job.Status = domain.JobDone
	entry.job.DocumentID = record.ID
	uc.retireJob(jobID)
	if uc.inFlight == jobID {
		uc.inFlight = ""
	}
	uc.mu.Unlock()

	if uc.observer != nil {
		uc.observer.ClassificationFinished(record.Theme, "success", time.Since(started))
	}
	return nil
}

// Cancel releases the upload slot. A pending job is marked cancelled and
// its in-flight capability call aborted; the eventual result is dropped.
func (uc *ClassifyDocumentUseCase) Cancel(jobID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	entry, ok := uc.jobs[jobID]
	if !ok {
		return domain.WrapError(domain.ErrNotFound, "cancel job", fmt.Errorf("unknown job %s", jobID))
	}
	if entry.job.Status != domain.JobPending {
		return domain.WrapError(domain.ErrInvalidInput, "cancel job",
			fmt.Errorf("job %s already %s", jobID, entry.job.Status))
	}

	entry.cancelled = true
	entry.job.Status = domain.JobCancelled
	uc.retireJob(jobID)
	if entry.cancel != nil {
		entry.cancel()
	}
	if uc.inFlight == jobID {
		uc.inFlight = ""
	}
	return nil
}

func (uc *ClassifyDocumentUseCase) Job(jobID string) (domain.ClassificationJob, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	entry, ok := uc.jobs[jobID]
	if !ok {
		return domain.ClassificationJob{}, domain.WrapError(domain.ErrNotFound, "get job",
			fmt.Errorf("unknown job %s", jobID))
	}
	return entry.job, nil
}

func (uc *ClassifyDocumentUseCase) loadBlob(ctx context.Context, blobRef string) ([]byte, error) {
	reader, err := uc.storage.Open(ctx, blobRef)
	if err != nil {
		return nil, fmt.Errorf("open source blob: %w", err)
	}
	defer reader.Close()

	payload, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read source blob: %w", err)
	}
	return payload, nil
}

func (uc *ClassifyDocumentUseCase) discardIfCancelled(jobID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	entry, ok := uc.jobs[jobID]
	return ok && entry.cancelled
}

func (uc *ClassifyDocumentUseCase) finishJob(jobID string, status domain.JobStatus, documentID string, err error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	entry, ok := uc.jobs[jobID]
	if !ok {
		return
	}
	entry.job.Status = status
	entry.job.DocumentID = documentID
	if err != nil {
		entry.job.Error = err.Error()
	}
	uc.retireJob(jobID)
	if uc.inFlight == jobID {
		uc.inFlight = ""
	}
}

// retireJob records a job as terminal and evicts the oldest terminal
// entries past the retention window. Callers must hold mu.
func (uc *ClassifyDocumentUseCase) retireJob(jobID string) {
	uc.finished = append(uc.finished, jobID)
	for len(uc.finished) > maxFinishedJobs {
		delete(uc.jobs, uc.finished[0])
		uc.finished = uc.finished[1:]
	}
}

func (uc *ClassifyDocumentUseCase) observeFailure(theme domain.DocTheme, err error, started time.Time) {
	if uc.observer == nil {
		return
	}
	reason := "upstream"
	switch {
	case domain.IsKind(err, domain.ErrInvalidTheme):
		reason = "invalid_theme"
	case domain.IsKind(err, domain.ErrSchemaViolation):
		reason = "schema_violation"
	case domain.IsKind(err, domain.ErrMalformedResponse):
		reason = "malformed_response"
	}
	if reason != "upstream" {
		uc.observer.ValidationFailure(reason)
	}
	uc.observer.ClassificationFinished(theme, "failure", time.Since(started))
}

func sanitizeFileName(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.pdf"
	}
	return base
}
