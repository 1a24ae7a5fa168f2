package gemini

import (
	"testing"

	"github.com/documind/docrouter/internal/core/domain"
)

func TestLoadTaxonomyCoversEnum(t *testing.T) {
	tax, err := LoadTaxonomy()
	if err != nil {
		t.Fatalf("LoadTaxonomy() error = %v", err)
	}

	if len(tax.Themes) != len(domain.AllThemes()) {
		t.Fatalf("taxonomy has %d themes, enum has %d", len(tax.Themes), len(domain.AllThemes()))
	}
	for _, spec := range tax.Themes {
		if spec.Description == "" {
			t.Fatalf("theme %q has no description", spec.Theme)
		}
	}
	if len(tax.GeneralInstructions) == 0 {
		t.Fatalf("expected general extraction instructions")
	}
}
