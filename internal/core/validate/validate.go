// Package validate turns the raw textual response of the classification
// capability into a typed Classification. The response is untrusted
// input: nothing enters application state without passing here first.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/documind/docrouter/internal/core/domain"
)

type wireResponse struct {
	Theme             string      `json:"theme"`
	Summary           string      `json:"summary"`
	Fields            []wireField `json:"fields"`
	SuggestedFileName string      `json:"suggestedFileName"`
}

type wireField struct {
	Label      string  `json:"label"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Classification parses and validates a raw capability response.
// Failure modes: ErrMalformedResponse (not a JSON object),
// ErrSchemaViolation (shape or bounds, including confidence outside
// [0,1] — rejected, never clamped), ErrInvalidTheme (theme outside the
// closed enum). No retries happen here; retry policy belongs to the
// caller of the capability.
func Classification(raw string) (domain.Classification, error) {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return domain.Classification{}, domain.WrapError(domain.ErrMalformedResponse, "decode capability response", err)
	}
	if _, ok := decoded.(map[string]any); !ok {
		return domain.Classification{}, domain.WrapError(domain.ErrMalformedResponse, "decode capability response",
			fmt.Errorf("expected JSON object, got %T", decoded))
	}

	if err := responseSchema().VisitJSON(decoded); err != nil {
		return domain.Classification{}, domain.WrapError(domain.ErrSchemaViolation, "validate capability response", err)
	}

	var wire wireResponse
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return domain.Classification{}, domain.WrapError(domain.ErrSchemaViolation, "bind capability response", err)
	}

	theme, err := domain.ParseTheme(wire.Theme)
	if err != nil {
		return domain.Classification{}, err
	}

	fields := make([]domain.ExtractedField, 0, len(wire.Fields))
	for i, field := range wire.Fields {
		if field.Confidence < 0 || field.Confidence > 1 {
			return domain.Classification{}, domain.WrapError(domain.ErrSchemaViolation, "validate capability response",
				fmt.Errorf("field %d confidence %v outside [0,1]", i, field.Confidence))
		}
		fields = append(fields, domain.ExtractedField{
			Label:      field.Label,
			Value:      field.Value,
			Confidence: field.Confidence,
		})
	}

	return domain.Classification{
		Theme:             theme,
		Summary:           wire.Summary,
		Fields:            fields,
		SuggestedFileName: wire.SuggestedFileName,
	}, nil
}
