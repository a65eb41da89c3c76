package hltb

import (
	"math"
	"sort"

	"gamedex/internal/library"
	"gamedex/internal/tabular"
)

// Resolution records how a candidate group was reduced to one row.
type Resolution string

const (
	ResolutionNoCandidates Resolution = "no_candidates"
	ResolutionSingle       Resolution = "single"
	ResolutionExactYear    Resolution = "exact_year"
	ResolutionNearestYear  Resolution = "nearest_year"
	ResolutionFirst        Resolution = "first"
)

// Match pairs the winning candidate for a library record with how it won.
type Match struct {
	Candidate  Candidate
	Resolution Resolution
}

// FilterBest groups raw candidates by library id and keeps, per group, only
// the rows at that group's maximum similarity. Duplicate rows within a group
// collapse to one.
func FilterBest(raw []Candidate) map[string][]Candidate {
	best := make(map[string][]Candidate)
	maxSim := make(map[string]float64)
	for _, cand := range raw {
		cur, seen := maxSim[cand.LibraryID]
		switch {
		case !seen || cand.Similarity > cur:
			maxSim[cand.LibraryID] = cand.Similarity
			best[cand.LibraryID] = []Candidate{cand}
		case cand.Similarity == cur:
			if !containsCandidate(best[cand.LibraryID], cand) {
				best[cand.LibraryID] = append(best[cand.LibraryID], cand)
			}
		}
	}
	return best
}

func containsCandidate(group []Candidate, cand Candidate) bool {
	for _, existing := range group {
		if existing.GameName == cand.GameName &&
			existing.ReleaseYear == cand.ReleaseYear &&
			existing.MainHours == cand.MainHours &&
			existing.ExtraHours == cand.ExtraHours &&
			existing.CompletionHours == cand.CompletionHours {
			return true
		}
	}
	return false
}

// BestByYear reduces a max-similarity group to one candidate using the
// library release year: an exact year match wins; otherwise the candidate
// with the smallest absolute year difference, first wins on a tie. A library
// record with no release year has no year signal to narrow on, so the first
// candidate in the group wins outright.
func BestByYear(group []Candidate, libraryYear int) (Candidate, Resolution) {
	switch len(group) {
	case 0:
		return Candidate{}, ResolutionNoCandidates
	case 1:
		return group[0], ResolutionSingle
	}

	if libraryYear == 0 {
		// Nearest-to-zero would favor the oldest release for no reason.
		return group[0], ResolutionFirst
	}

	for _, cand := range group {
		if cand.ReleaseYear == libraryYear {
			return cand, ResolutionExactYear
		}
	}

	winner := group[0]
	bestDiff := yearDiff(group[0].ReleaseYear, libraryYear)
	for _, cand := range group[1:] {
		if diff := yearDiff(cand.ReleaseYear, libraryYear); diff < bestDiff {
			winner, bestDiff = cand, diff
		}
	}
	return winner, ResolutionNearestYear
}

func yearDiff(a, b int) int {
	diff := a - b
	if diff < 0 {
		return -diff
	}
	return diff
}

// Transform reduces the raw candidate rows to at most one Match per queried
// library record. Records with no candidates are absent from the result; the
// reporter surfaces them from the records/matches delta.
func Transform(raw []Candidate, records []library.Record) map[string]Match {
	groups := FilterBest(raw)
	years := make(map[string]int, len(records))
	for _, rec := range records {
		years[rec.ID] = rec.ReleaseYear
	}

	matches := make(map[string]Match, len(groups))
	for id, group := range groups {
		winner, resolution := BestByYear(group, years[id])
		matches[id] = Match{Candidate: winner, Resolution: resolution}
	}
	return matches
}

// FreshPlaytimes converts matches into persisted playtime rows, in library
// order for stable output. Only matched records produce rows: a record that
// never matched keeps no row, so it stays eligible for the next incremental
// run's selection.
func FreshPlaytimes(matches map[string]Match, records []library.Record) []Playtime {
	fresh := make([]Playtime, 0, len(matches))
	for _, rec := range records {
		match, ok := matches[rec.ID]
		if !ok {
			continue
		}
		cand := match.Candidate
		fresh = append(fresh, Playtime{
			LibraryName:        rec.Name,
			LibraryID:          rec.ID,
			LibraryReleaseYear: rec.ReleaseYear,
			MainHours:          roundHours(cand.MainHours),
			ExtraHours:         roundHours(cand.ExtraHours),
			CompletionHours:    roundHours(cand.CompletionHours),
			ExtractDate:        cand.ExtractDate,
		})
	}
	return fresh
}

// MergePlaytimes upserts the fresh batch over the persisted table, keyed by
// library id, and returns the merged table sorted by library name.
func MergePlaytimes(persisted, fresh []Playtime) []Playtime {
	merged := tabular.Upsert(persisted, fresh, func(row Playtime) string { return row.LibraryID })
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].LibraryName != merged[j].LibraryName {
			return merged[i].LibraryName < merged[j].LibraryName
		}
		return merged[i].LibraryID < merged[j].LibraryID
	})
	return merged
}

func roundHours(hours float64) float64 {
	return math.Round(hours*100) / 100
}
