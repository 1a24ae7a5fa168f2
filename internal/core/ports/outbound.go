package ports

import (
	"context"
	"io"

	"github.com/documind/docrouter/internal/core/domain"
)

// DocumentStore keeps classified records, newest first. Records are
// immutable once appended; there is no update or delete.
type DocumentStore interface {
	Append(record domain.ClassifiedDocument) (domain.ClassifiedDocument, error)
	List() []domain.ClassifiedDocument
	Get(id string) (domain.ClassifiedDocument, error)
	Len() int
}

// RuleStore keeps the redistribution rule set.
type RuleStore interface {
	Add(rule domain.RedistributionRule) (domain.RedistributionRule, error)
	List() []domain.RedistributionRule
	Get(id string) (domain.RedistributionRule, error)
	Update(rule domain.RedistributionRule) error
	Delete(id string) error
}

// ObjectStorage stores source document bytes (sourceBlobRef).
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue carries classification job IDs from upload to processing.
type MessageQueue interface {
	PublishClassificationRequested(ctx context.Context, jobID string) error
	SubscribeClassificationRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// Classifier calls the external classification capability with the raw
// document payload and returns a validated classification. Cancellation
// of ctx must abort the call; a timeout surfaces as ErrUpstreamUnavailable.
type Classifier interface {
	Classify(ctx context.Context, fileName string, payload []byte) (domain.Classification, error)
}

// DocumentInspector gates the file input boundary: only structurally
// valid, non-empty PDF payloads may reach the request builder.
type DocumentInspector interface {
	Inspect(fileName, mimeType string, payload []byte) error
}
