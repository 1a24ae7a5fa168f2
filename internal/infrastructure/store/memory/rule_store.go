package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/documind/docrouter/internal/core/domain"
)

// RuleStore keeps the redistribution rule set in insertion order. Rule
// IDs are unique within the set; collisions on generated IDs are
// regenerated like record IDs.
type RuleStore struct {
	mu    sync.RWMutex
	rules []domain.RedistributionRule
	byID  map[string]int
	newID func() string
}

func NewRuleStore() *RuleStore {
	return &RuleStore{
		byID:  make(map[string]int),
		newID: uuid.NewString,
	}
}

func (s *RuleStore) Add(rule domain.RedistributionRule) (domain.RedistributionRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rule.ID == "" {
		for range maxIDAttempts {
			id := s.newID()
			if _, exists := s.byID[id]; !exists {
				rule.ID = id
				break
			}
		}
		if rule.ID == "" {
			return domain.RedistributionRule{}, domain.WrapError(domain.ErrInvalidInput, "generate rule id", errIDExhausted)
		}
	} else if _, exists := s.byID[rule.ID]; exists {
		return domain.RedistributionRule{}, domain.WrapError(domain.ErrInvalidInput, "add rule", errDuplicateID(rule.ID))
	}

	s.byID[rule.ID] = len(s.rules)
	s.rules = append(s.rules, cloneRule(rule))
	return cloneRule(rule), nil
}

func (s *RuleStore) List() []domain.RedistributionRule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RedistributionRule, 0, len(s.rules))
	for _, rule := range s.rules {
		out = append(out, cloneRule(rule))
	}
	return out
}

func (s *RuleStore) Get(id string) (domain.RedistributionRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return domain.RedistributionRule{}, domain.WrapError(domain.ErrNotFound, "get rule", errUnknownRuleID(id))
	}
	return cloneRule(s.rules[idx]), nil
}

func (s *RuleStore) Update(rule domain.RedistributionRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[rule.ID]
	if !ok {
		return domain.WrapError(domain.ErrNotFound, "update rule", errUnknownRuleID(rule.ID))
	}
	s.rules[idx] = cloneRule(rule)
	return nil
}

func (s *RuleStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return domain.WrapError(domain.ErrNotFound, "delete rule", errUnknownRuleID(id))
	}
	s.rules = append(s.rules[:idx], s.rules[idx+1:]...)
	delete(s.byID, id)
	for i := idx; i < len(s.rules); i++ {
		s.byID[s.rules[i].ID] = i
	}
	return nil
}

func cloneRule(rule domain.RedistributionRule) domain.RedistributionRule {
	out := rule
	out.Keywords = append([]string(nil), rule.Keywords...)
	return out
}
