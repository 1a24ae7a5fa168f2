package gemini

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/documind/docrouter/internal/core/domain"
)

//go:embed taxonomy.yaml
var taxonomyYAML []byte

// Taxonomy describes the classification categories and the per-theme
// extraction instructions embedded into the capability prompt.
type Taxonomy struct {
	Themes              []ThemeSpec `yaml:"themes"`
	GeneralInstructions []string    `yaml:"general_instructions"`
}

type ThemeSpec struct {
	Theme       string `yaml:"theme"`
	Description string `yaml:"description"`
	Extraction  string `yaml:"extraction"`
}

// LoadTaxonomy parses the embedded taxonomy and checks it covers the
// closed theme enum exactly. A taxonomy that drifts from the enum would
// desynchronize the request schema from the validator.
func LoadTaxonomy() (Taxonomy, error) {
	var tax Taxonomy
	if err := yaml.Unmarshal(taxonomyYAML, &tax); err != nil {
		return Taxonomy{}, fmt.Errorf("parse taxonomy: %w", err)
	}

	known := make(map[string]bool, len(tax.Themes))
	for _, spec := range tax.Themes {
		if _, err := domain.ParseTheme(spec.Theme); err != nil {
			return Taxonomy{}, fmt.Errorf("taxonomy theme %q outside enum: %w", spec.Theme, err)
		}
		if known[spec.Theme] {
			return Taxonomy{}, fmt.Errorf("taxonomy theme %q duplicated", spec.Theme)
		}
		known[spec.Theme] = true
	}
	for _, theme := range domain.AllThemes() {
		if !known[string(theme)] {
			return Taxonomy{}, fmt.Errorf("taxonomy missing theme %q", theme)
		}
	}
	return tax, nil
}
