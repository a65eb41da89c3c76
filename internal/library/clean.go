package library

import (
	"strings"

	"gamedex/internal/textutil"
)

// platformSuffixes are storefront tags Playnite appends to duplicate entries.
var platformSuffixes = []string{
	" (Xbox)",
	" (Game Pass)",
	" (Switch)",
	" (PlayStation)",
}

// Clean applies the library cleaning rules to raw export rows and returns the
// records eligible for enrichment:
//   - platform suffixes stripped from names
//   - rows categorized "Apps" or "Ignore" removed
//   - rows without a completion status removed
//   - duplicates on (name, release date) removed, first occurrence kept
//   - name_no_punct and release year derived
func Clean(raw []Record) []Record {
	type dedupeKey struct {
		name string
		date string
	}
	seen := make(map[dedupeKey]struct{}, len(raw))

	cleaned := make([]Record, 0, len(raw))
	for _, rec := range raw {
		for _, suffix := range platformSuffixes {
			rec.Name = strings.ReplaceAll(rec.Name, suffix, "")
		}
		rec.Name = strings.TrimSpace(rec.Name)

		if rec.HasCategory("Apps") || rec.HasCategory("Ignore") {
			continue
		}
		if strings.TrimSpace(rec.CompletionStatus) == "" {
			continue
		}

		key := dedupeKey{name: rec.Name}
		if !rec.ReleaseDate.IsZero() {
			key.date = rec.ReleaseDate.Format("2006-01-02")
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rec.NameNoPunct = textutil.NormalizeName(rec.Name)
		if !rec.ReleaseDate.IsZero() {
			rec.ReleaseYear = rec.ReleaseDate.Year()
		}
		cleaned = append(cleaned, rec)
	}
	return cleaned
}
