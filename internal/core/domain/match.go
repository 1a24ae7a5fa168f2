package domain

import "strings"

// Match evaluates a classified document against a rule set and returns
// every rule that applies, in rule-set order. Routing is 1-to-N: a
// document may need delivery to several targets at once. An empty
// result is a normal outcome, not an error.
//
// A rule survives when it is enabled and its theme equals the document
// theme. Non-empty keywords are a refinement on top of the theme match:
// at least one keyword must occur, case-insensitively, in the document
// summary or in any extracted field value.
func Match(doc ClassifiedDocument, rules []RedistributionRule) []RedistributionRule {
	matched := make([]RedistributionRule, 0)
	for _, rule := range rules {
		if !rule.Enabled || rule.Theme != doc.Theme {
			continue
		}
		if len(rule.Keywords) > 0 && !anyKeywordHit(doc, rule.Keywords) {
			continue
		}
		matched = append(matched, rule)
	}
	return matched
}

func anyKeywordHit(doc ClassifiedDocument, keywords []string) bool {
	summary := strings.ToLower(doc.Summary)
	for _, keyword := range keywords {
		needle := strings.ToLower(keyword)
		if needle == "" {
			continue
		}
		if strings.Contains(summary, needle) {
			return true
		}
		for _, field := range doc.Fields {
			if strings.Contains(strings.ToLower(field.Value), needle) {
				return true
			}
		}
	}
	return false
}
