package domain

import "strings"

// NormalizeSearch trims a search term. An empty result means "no constraint".
func NormalizeSearch(s string) string {
	return normalizeSearch(s)
}

func normalizeSearch(s string) string {
	return strings.TrimSpace(s)
}

func containsFold(s *string, term string) bool {
	if s == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*s), strings.ToLower(term))
}
