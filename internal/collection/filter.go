package collection

import (
	"strings"

	"bookkeep/internal/entity"
)

// Filter keeps the summaries for which every term matches the name or one of
// the tags, ignoring case. Blank terms are ignored.
func Filter(items []entity.Summary, terms []string) []entity.Summary {
	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		if term = strings.TrimSpace(term); term != "" {
			normalized = append(normalized, strings.ToLower(term))
		}
	}
	if len(normalized) == 0 {
		return items
	}
	out := make([]entity.Summary, 0, len(items))
	for _, item := range items {
		if Matches(item, normalized) {
			out = append(out, item)
		}
	}
	return out
}

// Matches reports whether every lowercased term matches the summary name or
// one of its tags.
func Matches(item entity.Summary, lowerTerms []string) bool {
	name := strings.ToLower(item.Name)
	tags := item.Tags()
	for _, term := range lowerTerms {
		if strings.Contains(name, term) {
			continue
		}
		found := false
		for _, tag := range tags {
			if strings.Contains(strings.ToLower(tag), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ParseTerms splits a free-form query on commas and whitespace.
func ParseTerms(query string) []string {
	return strings.FieldsFunc(query, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
