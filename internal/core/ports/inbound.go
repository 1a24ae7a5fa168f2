package ports

import (
	"context"
	"io"

	"github.com/documind/docrouter/internal/core/domain"
)

// ClassificationService drives the upload slot: submit occupies it,
// cancel releases it, job state is observable by ID.
type ClassificationService interface {
	Submit(ctx context.Context, fileName, mimeType string, payload []byte) (domain.ClassificationJob, error)
	Process(ctx context.Context, jobID string) error
	Cancel(jobID string) error
	Job(jobID string) (domain.ClassificationJob, error)
}

// RuleService manages redistribution rules and answers match queries.
type RuleService interface {
	AddRule(rule domain.RedistributionRule) (domain.RedistributionRule, error)
	ListRules() []domain.RedistributionRule
	ToggleRule(id string) (domain.RedistributionRule, error)
	UpdateRule(id string, patch RulePatch) (domain.RedistributionRule, error)
	AddKeyword(id, keyword string) (domain.RedistributionRule, error)
	RemoveKeyword(id, keyword string) (domain.RedistributionRule, error)
	DeleteRule(id string) error
	MatchDocument(documentID string) ([]domain.RedistributionRule, error)
}

// RulePatch carries optional field updates for one rule.
type RulePatch struct {
	Name          *string
	Theme         *domain.DocTheme
	TargetAddress *string
	Enabled       *bool
}

// Exporter writes a projection of the document store.
type Exporter interface {
	ExportCSV(w io.Writer) error
	ExportXLSX(w io.Writer) error
}
