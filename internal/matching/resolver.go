package matching

import (
	"strings"

	"gamedex/internal/textutil"
)

// Result is one matching decision for a single source record. Unmatched
// records are kept, not dropped: MatchedName is empty and Score records the
// best score seen (0 when the source name was empty or no candidate existed),
// so reporting can distinguish "below threshold" from "nothing to score".
type Result struct {
	LibraryID   string
	LibraryName string
	MatchedName string
	Score       int
}

// Matched reports whether the resolver accepted a candidate.
func (r Result) Matched() bool {
	return r.MatchedName != ""
}

// Resolver picks the single best reference name for a source record, subject
// to an acceptance threshold on the 0-100 similarity scale.
type Resolver struct {
	// Threshold is the minimum score for a candidate to be accepted.
	Threshold int
}

// Resolve scores name against the filtered reference subset and returns the
// matching decision. Both sides are reduced with textutil.ScoreKey before
// scoring, so case and punctuation differences never count against a
// candidate; MatchedName keeps the reference spelling. Records with a missing
// or blank name score 0 and never invoke the scorer. Ties go to the first
// candidate in iteration order, which keeps the decision deterministic for a
// fixed reference ordering.
func (r Resolver) Resolve(libraryID, name string, refs []string) Result {
	result := Result{LibraryID: libraryID, LibraryName: name}
	if strings.TrimSpace(name) == "" {
		return result
	}

	candidates := FilterCandidates(name, refs)

	queryKey := textutil.ScoreKey(name)
	best := ""
	bestScore := -1
	for _, candidate := range candidates {
		score := textutil.Ratio(queryKey, textutil.ScoreKey(candidate))
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	if bestScore < 0 {
		return result
	}

	result.Score = bestScore
	if bestScore >= r.Threshold {
		result.MatchedName = best
	}
	return result
}
