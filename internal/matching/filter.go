package matching

import "gamedex/internal/textutil"

// FilterCandidates narrows a reference name-set to those sharing the query's
// first character, case-insensitively. When the narrowed set is empty the
// full reference set is returned instead: the filter is a performance
// approximation and must never starve the resolver of candidates.
//
// Known false-negative source: names differing in their first letter only by
// an article or edition prefix ("The Witcher" vs "Witcher") are filtered out.
// Documented behavior, kept as-is.
func FilterCandidates(query string, refs []string) []string {
	first := textutil.FirstRuneFold(query)
	if first == 0 || len(refs) == 0 {
		return refs
	}

	filtered := make([]string, 0, len(refs)/8)
	for _, ref := range refs {
		if textutil.FirstRuneFold(ref) == first {
			filtered = append(filtered, ref)
		}
	}
	if len(filtered) == 0 {
		return refs
	}
	return filtered
}
