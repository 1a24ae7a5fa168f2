package domain

import (
	"fmt"
	"time"
)

// DocTheme is the closed classification taxonomy. The string values are
// the wire contract with the classification capability and must match the
// enum the request schema declares.
type DocTheme string

const (
	ThemeRRHHModelA  DocTheme = "RRHH - Modelo Tipo A"
	ThemeRRHHModelB  DocTheme = "RRHH - Modelo Tipo B"
	ThemeRequirement DocTheme = "Requerimiento Oficial"
	ThemeSanction    DocTheme = "Acuerdo de Sanción"
	ThemeCitation    DocTheme = "Citación / Notificación"
	ThemeOther       DocTheme = "Otros Documentos"
)

// AllThemes returns the taxonomy in declaration order.
func AllThemes() []DocTheme {
	return []DocTheme{
		ThemeRRHHModelA,
		ThemeRRHHModelB,
		ThemeRequirement,
		ThemeSanction,
		ThemeCitation,
		ThemeOther,
	}
}

// ParseTheme maps a capability-provided string onto the closed enum.
// Unknown values are rejected, never coerced to ThemeOther: a silent
// fallback would mask upstream misbehavior.
func ParseTheme(raw string) (DocTheme, error) {
	for _, theme := range AllThemes() {
		if string(theme) == raw {
			return theme, nil
		}
	}
	return "", WrapError(ErrInvalidTheme, "parse theme", fmt.Errorf("unknown theme %q", raw))
}

// ExtractedField is one key/value fact pulled from a document. Order of
// fields on a document is extraction order and is preserved for display.
type ExtractedField struct {
	Label      string  `json:"label"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ClassifiedDocument is the immutable record of one successful
// classification. It is created only after the capability response passed
// validation and is owned by the document store.
type ClassifiedDocument struct {
	ID                string           `json:"id"`
	FileName          string           `json:"file_name"`
	CreatedAt         time.Time        `json:"created_at"`
	Theme             DocTheme         `json:"theme"`
	Summary           string           `json:"summary"`
	Fields            []ExtractedField `json:"fields"`
	SourceBlobRef     string           `json:"source_blob_ref"`
	SuggestedFileName string           `json:"suggested_file_name,omitempty"`
}

// Classification is the validated payload of a capability response,
// before it is bound to a stored record.
type Classification struct {
	Theme             DocTheme         `json:"theme"`
	Summary           string           `json:"summary"`
	Fields            []ExtractedField `json:"fields"`
	SuggestedFileName string           `json:"suggested_file_name,omitempty"`
}

// JobStatus tracks one in-flight classification.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobDone      JobStatus = "done"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// ClassificationJob is the observable state of one upload slot occupant.
type ClassificationJob struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	Status     JobStatus `json:"status"`
	DocumentID string    `json:"document_id,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
