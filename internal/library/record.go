package library

import (
	"strings"
	"time"
)

// Record is a single game entry from the personal library after cleaning.
// Immutable once cleaned for a given pipeline run; ID is the join key of
// record for both enrichment passes.
type Record struct {
	ID               string
	Name             string
	NameNoPunct      string
	Categories       []string
	CompletionStatus string
	ReleaseDate      time.Time // zero when the export had none
	ReleaseYear      int       // 0 when unknown
}

// HasCategory reports whether the record carries the named category tag,
// case-insensitively.
func (r Record) HasCategory(tag string) bool {
	for _, category := range r.Categories {
		if strings.EqualFold(strings.TrimSpace(category), tag) {
			return true
		}
	}
	return false
}

// SearchName is the name submitted to external lookups. Pokémon titles drop
// the word "Version" because the lookup service indexes them without it.
func (r Record) SearchName() string {
	name := r.NameNoPunct
	if name == "" {
		name = r.Name
	}
	if strings.HasPrefix(name, "Pokémon") {
		name = strings.TrimSpace(strings.ReplaceAll(name, "Version", ""))
	}
	return name
}
