package usecase

import (
	"fmt"
	"strings"

	"github.com/documind/docrouter/internal/core/domain"
	"github.com/documind/docrouter/internal/core/ports"
)

// RuleUseCase manages the redistribution rule set and answers match
// queries against stored documents.
type RuleUseCase struct {
	rules ports.RuleStore
	docs  ports.DocumentStore
}

func NewRuleUseCase(rules ports.RuleStore, docs ports.DocumentStore) *RuleUseCase {
	return &RuleUseCase{rules: rules, docs: docs}
}

func (uc *RuleUseCase) AddRule(rule domain.RedistributionRule) (domain.RedistributionRule, error) {
	if _, err := domain.ParseTheme(string(rule.Theme)); err != nil {
		return domain.RedistributionRule{}, err
	}
	rule.Keywords = dedupeKeywords(rule.Keywords)
	return uc.rules.Add(rule)
}

func (uc *RuleUseCase) ListRules() []domain.RedistributionRule {
	return uc.rules.List()
}

func (uc *RuleUseCase) ToggleRule(id string) (domain.RedistributionRule, error) {
	rule, err := uc.rules.Get(id)
	if err != nil {
		return domain.RedistributionRule{}, err
	}
	rule.Enabled = !rule.Enabled
	if err := uc.rules.Update(rule); err != nil {
		return domain.RedistributionRule{}, err
	}
	return rule, nil
}

func (uc *RuleUseCase) UpdateRule(id string, patch ports.RulePatch) (domain.RedistributionRule, error) {
	rule, err := uc.rules.Get(id)
	if err != nil {
		return domain.RedistributionRule{}, err
	}
	if patch.Name != nil {
		rule.Name = *patch.Name
	}
	if patch.Theme != nil {
		if _, err := domain.ParseTheme(string(*patch.Theme)); err != nil {
			return domain.RedistributionRule{}, err
		}
		rule.Theme = *patch.Theme
	}
	if patch.TargetAddress != nil {
		rule.TargetAddress = *patch.TargetAddress
	}
	if patch.Enabled != nil {
		rule.Enabled = *patch.Enabled
	}
	if err := uc.rules.Update(rule); err != nil {
		return domain.RedistributionRule{}, err
	}
	return rule, nil
}

// AddKeyword appends a trigger keyword. A keyword the rule already
// carries (case-sensitively) makes this a no-op.
func (uc *RuleUseCase) AddKeyword(id, keyword string) (domain.RedistributionRule, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return domain.RedistributionRule{}, domain.WrapError(domain.ErrInvalidInput, "add keyword",
			fmt.Errorf("empty keyword"))
	}
	rule, err := uc.rules.Get(id)
	if err != nil {
		return domain.RedistributionRule{}, err
	}
	if rule.HasKeyword(keyword) {
		return rule, nil
	}
	rule.Keywords = append(rule.Keywords, keyword)
	if err := uc.rules.Update(rule); err != nil {
		return domain.RedistributionRule{}, err
	}
	return rule, nil
}

func (uc *RuleUseCase) RemoveKeyword(id, keyword string) (domain.RedistributionRule, error) {
	rule, err := uc.rules.Get(id)
	if err != nil {
		return domain.RedistributionRule{}, err
	}
	kept := rule.Keywords[:0]
	for _, existing := range rule.Keywords {
		if existing != keyword {
			kept = append(kept, existing)
		}
	}
	rule.Keywords = kept
	if err := uc.rules.Update(rule); err != nil {
		return domain.RedistributionRule{}, err
	}
	return rule, nil
}

func (uc *RuleUseCase) DeleteRule(id string) error {
	return uc.rules.Delete(id)
}

// MatchDocument returns every enabled rule that applies to the stored
// document, in rule-set order. An empty result is a normal outcome.
func (uc *RuleUseCase) MatchDocument(documentID string) ([]domain.RedistributionRule, error) {
	doc, err := uc.docs.Get(documentID)
	if err != nil {
		return nil, err
	}
	return domain.Match(doc, uc.rules.List()), nil
}

func dedupeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" || seen[keyword] {
			continue
		}
		seen[keyword] = true
		out = append(out, keyword)
	}
	return out
}
