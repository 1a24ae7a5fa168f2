package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/documind/docrouter/internal/core/domain"
)

type inspectorFake struct {
	err error
}

func (f *inspectorFake) Inspect(string, string, []byte) error { return f.err }

type storageFake struct {
	mu    sync.Mutex
	blobs map[string][]byte
	err   error
}

func newStorageFake() *storageFake {
	return &storageFake{blobs: map[string][]byte{}}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	payload, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[key] = payload
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.blobs[key]
	if !ok {
		return nil, fmt.Errorf("no blob %q", key)
	}
	return io.NopCloser(bytes.NewReader(payload)), nil
}

type queueFake struct {
	mu        sync.Mutex
	published []string
	err       error
	onPublish func(jobID string)
}

func (f *queueFake) PublishClassificationRequested(_ context.Context, jobID string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.published = append(f.published, jobID)
	f.mu.Unlock()
	if f.onPublish != nil {
		f.onPublish(jobID)
	}
	return nil
}

func (f *queueFake) SubscribeClassificationRequested(context.Context, func(context.Context, string) error) error {
	return nil
}

type classifierFake struct {
	cls     domain.Classification
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *classifierFake) Classify(ctx context.Context, _ string, _ []byte) (domain.Classification, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		select {
		case <-ctx.Done():
			return domain.Classification{}, ctx.Err()
		case <-f.release:
		}
	}
	if f.err != nil {
		return domain.Classification{}, f.err
	}
	return f.cls, nil
}

type docStoreFake struct {
	mu      sync.Mutex
	records []domain.ClassifiedDocument
	nextID  int
}

func (f *docStoreFake) Append(record domain.ClassifiedDocument) (domain.ClassifiedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	record.ID = fmt.Sprintf("doc-%d", f.nextID)
	f.records = append([]domain.ClassifiedDocument{record}, f.records...)
	return record, nil
}

func (f *docStoreFake) List() []domain.ClassifiedDocument {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ClassifiedDocument(nil), f.records...)
}

func (f *docStoreFake) Get(id string) (domain.ClassifiedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records {
		if record.ID == id {
			return record, nil
		}
	}
	return domain.ClassifiedDocument{}, domain.WrapError(domain.ErrNotFound, "get record", errors.New(id))
}

func (f *docStoreFake) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func newTestUseCase(classifier *classifierFake) (*ClassifyDocumentUseCase, *docStoreFake, *queueFake) {
	store := &docStoreFake{}
	queue := &queueFake{}
	uc := NewClassifyDocumentUseCase(
		&inspectorFake{},
		newStorageFake(),
		queue,
		classifier,
		store,
		nil,
	)
	return uc, store, queue
}

func TestSubmitRejectsPreFlightFailure(t *testing.T) {
	queue := &queueFake{}
	uc := NewClassifyDocumentUseCase(
		&inspectorFake{err: domain.WrapError(domain.ErrUnsupportedFormat, "inspect", errors.New("not a pdf"))},
		newStorageFake(),
		queue,
		&classifierFake{},
		&docStoreFake{},
		nil,
	)

	_, err := uc.Submit(context.Background(), "a.png", "image/png", []byte("png"))
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if len(queue.published) != 0 {
		t.Fatalf("pre-flight failure must not publish, got %v", queue.published)
	}
}

func TestSubmitOccupiesSlot(t *testing.T) {
	uc, _, queue := newTestUseCase(&classifierFake{})

	job, err := uc.Submit(context.Background(), "a.pdf", "application/pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if job.Status != domain.JobPending {
		t.Fatalf("job status = %q, want pending", job.Status)
	}
	if len(queue.published) != 1 || queue.published[0] != job.ID {
		t.Fatalf("expected published job %s, got %v", job.ID, queue.published)
	}

	if _, err := uc.Submit(context.Background(), "b.pdf", "application/pdf", []byte("%PDF-")); !domain.IsKind(err, domain.ErrBusy) {
		t.Fatalf("expected ErrBusy while slot occupied, got %v", err)
	}
}

func TestProcessSuccessAppendsRecordAndFreesSlot(t *testing.T) {
	classifier := &classifierFake{
		cls: domain.Classification{
			Theme:   domain.ThemeSanction,
			Summary: "Multa por exceso de velocidad",
			Fields: []domain.ExtractedField{
				{Label: "Importe", Value: "200€", Confidence: 0.95},
			},
		},
	}
	uc, store, _ := newTestUseCase(classifier)

	job, err := uc.Submit(context.Background(), "multa.pdf", "application/pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := uc.Process(context.Background(), job.ID); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if store.Len() != 1 {
		t.Fatalf("store len = %d, want 1", store.Len())
	}
	record := store.List()[0]
	if record.Theme != domain.ThemeSanction || record.FileName != "multa.pdf" {
		t.Fatalf("unexpected record %+v", record)
	}

	done, err := uc.Job(job.ID)
	if err != nil {
		t.Fatalf("Job() error = %v", err)
	}
	if done.Status != domain.JobDone || done.DocumentID != record.ID {
		t.Fatalf("job not completed: %+v", done)
	}

	if _, err := uc.Submit(context.Background(), "next.pdf", "application/pdf", []byte("%PDF-")); err != nil {
		t.Fatalf("slot should be free after success, got %v", err)
	}
}

func TestProcessValidationFailureLeavesStoreUntouched(t *testing.T) {
	classifier := &classifierFake{
		err: domain.WrapError(domain.ErrInvalidTheme, "parse theme", errors.New(`unknown theme "Unknown Category"`)),
	}
	uc, store, _ := newTestUseCase(classifier)

	job, err := uc.Submit(context.Background(), "a.pdf", "application/pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := uc.Process(context.Background(), job.ID); !domain.IsKind(err, domain.ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}

	if store.Len() != 0 {
		t.Fatalf("store must stay untouched on validation failure, len = %d", store.Len())
	}
	failed, _ := uc.Job(job.ID)
	if failed.Status != domain.JobFailed || failed.Error == "" {
		t.Fatalf("job should be failed with error, got %+v", failed)
	}

	if _, err := uc.Submit(context.Background(), "retry.pdf", "application/pdf", []byte("%PDF-")); err != nil {
		t.Fatalf("retry must be possible after failure, got %v", err)
	}
}

func TestCancelDiscardsLateResponse(t *testing.T) {
	classifier := &classifierFake{
		cls:     domain.Classification{Theme: domain.ThemeOther, Summary: "algo"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	uc, store, _ := newTestUseCase(classifier)

	job, err := uc.Submit(context.Background(), "a.pdf", "application/pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	processDone := make(chan error, 1)
	go func() {
		processDone <- uc.Process(context.Background(), job.ID)
	}()

	<-classifier.started
	if err := uc.Cancel(job.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	close(classifier.release)

	if err := <-processDone; err != nil {
		t.Fatalf("cancelled Process() should discard silently, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("late response must be discarded, store len = %d", store.Len())
	}

	cancelled, _ := uc.Job(job.ID)
	if cancelled.Status != domain.JobCancelled {
		t.Fatalf("job status = %q, want cancelled", cancelled.Status)
	}

	if _, err := uc.Submit(context.Background(), "next.pdf", "application/pdf", []byte("%PDF-")); err != nil {
		t.Fatalf("slot should be free after cancel, got %v", err)
	}
}

func TestSubmitReturnsSnapshotWhileSubscriberRuns(t *testing.T) {
	classifier := &classifierFake{cls: domain.Classification{Theme: domain.ThemeOther, Summary: "algo"}}
	uc, store, queue := newTestUseCase(classifier)

	// The queue hands the job to a subscriber goroutine the moment it is
	// published, as in the production topology.
	processed := make(chan error, 1)
	queue.onPublish = func(jobID string) {
		go func() {
			processed <- uc.Process(context.Background(), jobID)
		}()
	}

	job, err := uc.Submit(context.Background(), "a.pdf", "application/pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if job.Status != domain.JobPending {
		t.Fatalf("returned job must be the submission-time snapshot, got status %q", job.Status)
	}

	if err := <-processed; err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("store len = %d, want 1", store.Len())
	}
	current, err := uc.Job(job.ID)
	if err != nil {
		t.Fatalf("Job() error = %v", err)
	}
	if current.Status != domain.JobDone {
		t.Fatalf("job status = %q, want done", current.Status)
	}
}

func TestTerminalJobsEvictedOldestFirst(t *testing.T) {
	uc, _, _ := newTestUseCase(&classifierFake{})

	first, err := uc.Submit(context.Background(), "first.pdf", "application/pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := uc.Cancel(first.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	var last domain.ClassificationJob
	for range maxFinishedJobs {
		job, err := uc.Submit(context.Background(), "next.pdf", "application/pdf", []byte("%PDF-"))
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if err := uc.Cancel(job.ID); err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}
		last = job
	}

	if _, err := uc.Job(first.ID); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("oldest terminal job should be evicted, got %v", err)
	}
	if got, err := uc.Job(last.ID); err != nil || got.Status != domain.JobCancelled {
		t.Fatalf("recent terminal job must survive: %+v, %v", got, err)
	}
}

func TestProcessUnknownJob(t *testing.T) {
	uc, _, _ := newTestUseCase(&classifierFake{})

	if err := uc.Process(context.Background(), "ghost"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelCompletedJobRejected(t *testing.T) {
	classifier := &classifierFake{cls: domain.Classification{Theme: domain.ThemeOther, Summary: "algo"}}
	uc, _, _ := newTestUseCase(classifier)

	job, err := uc.Submit(context.Background(), "a.pdf", "application/pdf", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := uc.Process(context.Background(), job.ID); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if err := uc.Cancel(job.ID); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput cancelling a done job, got %v", err)
	}
}
