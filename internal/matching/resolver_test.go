package matching_test

import (
	"testing"

	"gamedex/internal/matching"
)

func TestResolveEmptyNameNeverScores(t *testing.T) {
	resolver := matching.Resolver{Threshold: 50}
	result := resolver.Resolve("lib-1", "   ", []string{"Chrono Trigger"})

	if result.Matched() {
		t.Fatal("expected blank name to stay unmatched")
	}
	if result.Score != 0 {
		t.Fatalf("expected score 0 for blank name, got %d", result.Score)
	}
	if result.MatchedName != "" {
		t.Fatalf("expected empty matched name, got %q", result.MatchedName)
	}
}

func TestResolveThreshold(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		refs      []string
		threshold int
		wantMatch string
	}{
		{
			name:      "exact match accepted",
			query:     "Celeste",
			refs:      []string{"Celeste", "Cuphead"},
			threshold: 95,
			wantMatch: "Celeste",
		},
		{
			name:      "below threshold rejected",
			query:     "Celeste",
			refs:      []string{"Cuphead"},
			threshold: 95,
			wantMatch: "",
		},
		{
			name:      "loose threshold accepts near match",
			query:     "Dark Souls 2",
			refs:      []string{"Dark Souls II", "Demon's Souls"},
			threshold: 50,
			wantMatch: "Dark Souls II",
		},
		{
			name:      "case difference scores as identical",
			query:     "DOOM",
			refs:      []string{"Doom", "Dusk"},
			threshold: 95,
			wantMatch: "Doom",
		},
		{
			name:      "colon in reference ignored",
			query:     "Nier Automata",
			refs:      []string{"Nier: Automata"},
			threshold: 95,
			wantMatch: "Nier: Automata",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver := matching.Resolver{Threshold: tc.threshold}
			result := resolver.Resolve("id", tc.query, tc.refs)
			if result.MatchedName != tc.wantMatch {
				t.Fatalf("Resolve(%q) matched %q, want %q (score %d)",
					tc.query, result.MatchedName, tc.wantMatch, result.Score)
			}
		})
	}
}

func TestResolveAcceptanceMonotoneInThreshold(t *testing.T) {
	refs := []string{"Doom", "Dark Souls II", "Celeste", "Hollow Knight"}
	queries := []string{"DOOM", "Dark Souls 2", "Celest", "Silksong", "Hallow Knigt"}
	thresholds := []int{0, 25, 50, 75, 90, 100}

	// Raising the threshold over a fixed pool must only shrink the accepted
	// set: anything accepted at a strict threshold is accepted at every looser
	// one.
	prev := map[string]bool{}
	for i, threshold := range thresholds {
		resolver := matching.Resolver{Threshold: threshold}
		accepted := map[string]bool{}
		for _, query := range queries {
			accepted[query] = resolver.Resolve("id", query, refs).Matched()
		}
		if i > 0 {
			for query, ok := range accepted {
				if ok && !prev[query] {
					t.Fatalf("%q accepted at threshold %d but not at %d",
						query, threshold, thresholds[i-1])
				}
			}
		}
		prev = accepted
	}
	if !prev["DOOM"] {
		t.Fatal("exact caseless match must survive even the strictest threshold")
	}
}

func TestResolveTieGoesToFirstCandidate(t *testing.T) {
	resolver := matching.Resolver{Threshold: 10}
	// Both candidates are the same edit distance from the query; the first in
	// reference order must win, and must keep winning on repeat calls.
	refs := []string{"Game Alpha", "Game Aleha"}
	for i := 0; i < 5; i++ {
		result := resolver.Resolve("id", "Game Alpha", refs)
		if result.MatchedName != "Game Alpha" {
			t.Fatalf("run %d: matched %q, want first candidate", i, result.MatchedName)
		}
	}

	swapped := resolver.Resolve("id", "Game Alxha", []string{"Game Aleha", "Game Alpha"})
	if swapped.MatchedName != "Game Aleha" {
		t.Fatalf("expected first of equally scored candidates, got %q", swapped.MatchedName)
	}
}

func TestFilterCandidates(t *testing.T) {
	refs := []string{"Witcher", "Warcraft", "The Witcher", "Doom"}

	filtered := matching.FilterCandidates("Witcher 3", refs)
	want := []string{"Witcher", "Warcraft"}
	if len(filtered) != len(want) {
		t.Fatalf("filtered = %v, want %v", filtered, want)
	}
	for i := range want {
		if filtered[i] != want[i] {
			t.Fatalf("filtered = %v, want %v", filtered, want)
		}
	}
}

func TestFilterCandidatesFallsBackToFullSet(t *testing.T) {
	refs := []string{"The Witcher", "Doom"}
	filtered := matching.FilterCandidates("Zelda", refs)
	if len(filtered) != len(refs) {
		t.Fatalf("expected full-set fallback, got %v", filtered)
	}
}
