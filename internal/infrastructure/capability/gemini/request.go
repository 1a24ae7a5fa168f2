package gemini

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/documind/docrouter/internal/core/domain"
)

const pdfMimeType = "application/pdf"

// generateContentRequest is the generateContent wire payload: one inline
// PDF part, one instruction part, and a strict JSON response schema.
type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   *responseSchema `json:"responseSchema"`
}

type responseSchema struct {
	Type        string                     `json:"type"`
	Description string                     `json:"description,omitempty"`
	Enum        []string                   `json:"enum,omitempty"`
	Items       *responseSchema            `json:"items,omitempty"`
	Properties  map[string]*responseSchema `json:"properties,omitempty"`
	Required    []string                   `json:"required,omitempty"`
}

// buildClassifyRequest constructs the capability request for one PDF
// payload. Pure: no side effects, no network. The payload must already
// have passed the input boundary; the empty check here is the builder's
// own pre-flight guard.
func buildClassifyRequest(tax Taxonomy, payload []byte) (generateContentRequest, error) {
	if len(payload) == 0 {
		return generateContentRequest{}, domain.WrapError(domain.ErrEmptyDocument, "build classify request",
			fmt.Errorf("zero-byte payload"))
	}

	return generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MimeType: pdfMimeType,
					Data:     base64.StdEncoding.EncodeToString(payload),
				}},
				{Text: buildInstruction(tax)},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   buildResponseSchema(),
		},
	}, nil
}

func buildInstruction(tax Taxonomy) string {
	var b strings.Builder
	b.WriteString("Analiza este documento PDF administrativo y clasifícalo estrictamente en una de estas categorías:\n\n")
	for i, spec := range tax.Themes {
		fmt.Fprintf(&b, "%d. %q: %s\n", i+1, spec.Theme, spec.Description)
	}

	b.WriteString("\nINSTRUCCIONES DE EXTRACCIÓN:\n")
	for _, instruction := range tax.GeneralInstructions {
		fmt.Fprintf(&b, "- %s\n", instruction)
	}
	for _, spec := range tax.Themes {
		if spec.Extraction == "" {
			continue
		}
		fmt.Fprintf(&b, "- Para %q: %s\n", spec.Theme, spec.Extraction)
	}

	b.WriteString("\nDevuelve únicamente un objeto JSON que cumpla el esquema declarado: " +
		"theme (una de las categorías literales), summary (resumen ejecutivo de 2 líneas), " +
		"fields (lista de {label, value, confidence}) y opcionalmente suggestedFileName.")
	return b.String()
}

func buildResponseSchema() *responseSchema {
	themes := make([]string, 0, len(domain.AllThemes()))
	for _, theme := range domain.AllThemes() {
		themes = append(themes, string(theme))
	}

	return &responseSchema{
		Type: "OBJECT",
		Properties: map[string]*responseSchema{
			"theme": {
				Type:        "STRING",
				Description: "Categoría temática detectada.",
				Enum:        themes,
			},
			"summary": {
				Type:        "STRING",
				Description: "Resumen ejecutivo de 2 líneas.",
			},
			"fields": {
				Type: "ARRAY",
				Items: &responseSchema{
					Type: "OBJECT",
					Properties: map[string]*responseSchema{
						"label":      {Type: "STRING", Description: "Nombre del campo (ej: DNI, Fecha de Cita)"},
						"value":      {Type: "STRING", Description: "Valor extraído"},
						"confidence": {Type: "NUMBER", Description: "Nivel de confianza 0-1"},
					},
					Required: []string{"label", "value", "confidence"},
				},
			},
			"suggestedFileName": {
				Type:        "STRING",
				Description: "Nombre de archivo sugerido.",
			},
		},
		Required: []string{"theme", "summary", "fields"},
	}
}
