package domain

// RedistributionRule maps a theme (optionally refined by keyword
// triggers) to a routing target. Rules are session-scoped: they live and
// die with the process.
type RedistributionRule struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Theme         DocTheme `json:"theme"`
	TargetAddress string   `json:"target_address"`
	Keywords      []string `json:"keywords"`
	Enabled       bool     `json:"enabled"`
}

// HasKeyword reports whether the rule already carries the keyword.
// Comparison is case-sensitive; de-duplication of the rule's own keyword
// list is stricter than matching, which is case-insensitive.
func (r RedistributionRule) HasKeyword(keyword string) bool {
	for _, existing := range r.Keywords {
		if existing == keyword {
			return true
		}
	}
	return false
}
