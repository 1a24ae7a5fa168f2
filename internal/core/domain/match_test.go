package domain

import "testing"

func sanctionDoc() ClassifiedDocument {
	return ClassifiedDocument{
		ID:      "doc-1",
		Theme:   ThemeSanction,
		Summary: "MULTA de tráfico por exceso de velocidad",
		Fields: []ExtractedField{
			{Label: "Importe", Value: "200€", Confidence: 0.95},
			{Label: "Matrícula", Value: "1234-ABC", Confidence: 0.9},
		},
	}
}

func TestMatchThemeOnly(t *testing.T) {
	rule := RedistributionRule{ID: "r1", Theme: ThemeSanction, Enabled: true}
	doc := sanctionDoc()

	matches := Match(doc, []RedistributionRule{rule})
	if len(matches) != 1 || matches[0].ID != "r1" {
		t.Fatalf("expected rule r1 to match, got %+v", matches)
	}
}

func TestMatchDisabledRuleNeverMatches(t *testing.T) {
	rule := RedistributionRule{ID: "r1", Theme: ThemeSanction, Enabled: false}

	matches := Match(sanctionDoc(), []RedistributionRule{rule})
	if len(matches) != 0 {
		t.Fatalf("disabled rule must not match, got %+v", matches)
	}
}

func TestMatchThemeMismatch(t *testing.T) {
	rule := RedistributionRule{ID: "r1", Theme: ThemeCitation, Enabled: true}

	matches := Match(sanctionDoc(), []RedistributionRule{rule})
	if len(matches) != 0 {
		t.Fatalf("theme mismatch must not match, got %+v", matches)
	}
}

func TestMatchKeywordCaseInsensitiveInSummary(t *testing.T) {
	rule := RedistributionRule{
		ID:       "r1",
		Theme:    ThemeSanction,
		Keywords: []string{"multa"},
		Enabled:  true,
	}

	matches := Match(sanctionDoc(), []RedistributionRule{rule})
	if len(matches) != 1 {
		t.Fatalf("keyword 'multa' should match summary 'MULTA de tráfico', got %+v", matches)
	}
}

func TestMatchKeywordInFieldValue(t *testing.T) {
	rule := RedistributionRule{
		ID:       "r1",
		Theme:    ThemeSanction,
		Keywords: []string{"1234-abc"},
		Enabled:  true,
	}

	matches := Match(sanctionDoc(), []RedistributionRule{rule})
	if len(matches) != 1 {
		t.Fatalf("keyword should match field value case-insensitively, got %+v", matches)
	}
}

func TestMatchKeywordRefinementRejects(t *testing.T) {
	rule := RedistributionRule{
		ID:       "r1",
		Theme:    ThemeSanction,
		Keywords: []string{"embargo"},
		Enabled:  true,
	}

	matches := Match(sanctionDoc(), []RedistributionRule{rule})
	if len(matches) != 0 {
		t.Fatalf("keyword miss must reject despite theme match, got %+v", matches)
	}
}

func TestMatchReturnsAllSurvivors(t *testing.T) {
	rules := []RedistributionRule{
		{ID: "r1", Theme: ThemeSanction, Enabled: true},
		{ID: "r2", Theme: ThemeSanction, Keywords: []string{"multa"}, Enabled: true},
		{ID: "r3", Theme: ThemeSanction, Keywords: []string{"embargo"}, Enabled: true},
		{ID: "r4", Theme: ThemeOther, Enabled: true},
	}

	matches := Match(sanctionDoc(), rules)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(matches), matches)
	}
	if matches[0].ID != "r1" || matches[1].ID != "r2" {
		t.Fatalf("expected rule-set order r1,r2, got %+v", matches)
	}
}

func TestMatchIsPure(t *testing.T) {
	doc := sanctionDoc()
	rules := []RedistributionRule{
		{ID: "r1", Theme: ThemeSanction, Enabled: true},
	}

	first := Match(doc, rules)
	second := Match(doc, rules)
	if len(first) != len(second) || first[0].ID != second[0].ID {
		t.Fatalf("match is not idempotent: %+v vs %+v", first, second)
	}

	rules[0].Enabled = false
	if got := Match(doc, rules); len(got) != 0 {
		t.Fatalf("disabling the rule must remove it from results, got %+v", got)
	}
}

func TestMatchNoRulesIsEmptyNotNilError(t *testing.T) {
	matches := Match(sanctionDoc(), nil)
	if matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", matches)
	}
}

func TestParseThemeRejectsUnknown(t *testing.T) {
	if _, err := ParseTheme("Unknown Category"); !IsKind(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
	theme, err := ParseTheme("Acuerdo de Sanción")
	if err != nil || theme != ThemeSanction {
		t.Fatalf("expected ThemeSanction, got %v, %v", theme, err)
	}
}
