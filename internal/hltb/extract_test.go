package hltb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gamedex/internal/hltb"
	"gamedex/internal/library"
	"gamedex/internal/logging"
)

type scriptedSearcher struct {
	results  map[string][]hltb.SearchResult
	failures map[string]int
	calls    map[string]int
	lastDLC  map[string]bool
}

func newScriptedSearcher() *scriptedSearcher {
	return &scriptedSearcher{
		results:  map[string][]hltb.SearchResult{},
		failures: map[string]int{},
		calls:    map[string]int{},
		lastDLC:  map[string]bool{},
	}
}

func (s *scriptedSearcher) Search(_ context.Context, name string, hideDLC bool) ([]hltb.SearchResult, error) {
	s.calls[name]++
	s.lastDLC[name] = hideDLC
	if s.failures[name] > 0 {
		s.failures[name]--
		return nil, errors.New("scripted failure")
	}
	return s.results[name], nil
}

func TestSelectForRefresh(t *testing.T) {
	now := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	records := []library.Record{
		{ID: "1", Name: "Never Matched"},
		{ID: "2", Name: "Old Match", ReleaseDate: now.AddDate(-2, 0, 0)},
		{ID: "3", Name: "Recent Release", ReleaseDate: now.AddDate(0, -2, 0)},
		{ID: "4", Name: "Matched No Date"},
	}
	persisted := []hltb.Playtime{
		{LibraryID: "2"}, {LibraryID: "3"}, {LibraryID: "4"},
	}

	selected := hltb.SelectForRefresh(records, persisted, now, 6)
	ids := map[string]bool{}
	for _, rec := range selected {
		ids[rec.ID] = true
	}
	if !ids["1"] {
		t.Fatal("never-matched record must be selected")
	}
	if !ids["3"] {
		t.Fatal("recently released record must be re-selected")
	}
	if ids["2"] || ids["4"] {
		t.Fatalf("stale matched records must be skipped, got %v", ids)
	}
}

func TestSelectForRefreshEmptyPersistedSelectsAll(t *testing.T) {
	now := time.Now()
	records := []library.Record{{ID: "1"}, {ID: "2"}}
	selected := hltb.SelectForRefresh(records, nil, now, 6)
	if len(selected) != len(records) {
		t.Fatalf("selected %d records, want all %d", len(selected), len(records))
	}
}

func TestExtractRetriesThenSkips(t *testing.T) {
	searcher := newScriptedSearcher()
	searcher.results["Good Game"] = []hltb.SearchResult{
		{GameName: "Good Game", ReleaseYear: 2020, Similarity: 1, MainHours: 10, MainExtraHours: 15, CompletionistHours: 25},
	}
	searcher.failures["Flaky Game"] = 1
	searcher.results["Flaky Game"] = []hltb.SearchResult{
		{GameName: "Flaky Game", Similarity: 1, MainHours: 5, MainExtraHours: 7, CompletionistHours: 9},
	}
	searcher.failures["Broken Game"] = 99

	extractor := hltb.NewExtractor(searcher, nil, logging.NewNop(), 2)
	records := []library.Record{
		{ID: "1", Name: "Good Game", NameNoPunct: "Good Game"},
		{ID: "2", Name: "Flaky Game", NameNoPunct: "Flaky Game"},
		{ID: "3", Name: "Broken Game", NameNoPunct: "Broken Game"},
	}

	now := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	candidates, err := extractor.Extract(context.Background(), records, now)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	byID := map[string]int{}
	for _, cand := range candidates {
		byID[cand.LibraryID]++
	}
	if byID["1"] != 1 || byID["2"] != 1 {
		t.Fatalf("expected one candidate each for games 1 and 2, got %v", byID)
	}
	if byID["3"] != 0 {
		t.Fatal("record failing every attempt must be skipped")
	}
	if searcher.calls["Flaky Game"] != 2 {
		t.Fatalf("flaky game called %d times, want a retry", searcher.calls["Flaky Game"])
	}
	if searcher.calls["Broken Game"] != 2 {
		t.Fatalf("broken game called %d times, want the attempt cap", searcher.calls["Broken Game"])
	}
}

func TestExtractConvertsTiersToIncrements(t *testing.T) {
	searcher := newScriptedSearcher()
	searcher.results["Tiered"] = []hltb.SearchResult{
		{GameName: "Tiered", Similarity: 1, MainHours: 10, MainExtraHours: 16, CompletionistHours: 30},
	}

	extractor := hltb.NewExtractor(searcher, nil, logging.NewNop(), 1)
	records := []library.Record{{ID: "1", Name: "Tiered", NameNoPunct: "Tiered"}}

	candidates, err := extractor.Extract(context.Background(), records, time.Now())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("candidates = %d, want 1", len(candidates))
	}
	// Both upper tiers are increments over the main story: 16-10 and 30-10.
	cand := candidates[0]
	if cand.MainHours != 10 || cand.ExtraHours != 6 || cand.CompletionHours != 20 {
		t.Fatalf("unexpected tier increments %+v", cand)
	}
}

func TestExtractDLCCategoryKeepsDLCResults(t *testing.T) {
	searcher := newScriptedSearcher()
	searcher.results["Base Game"] = nil
	searcher.results["Some Expansion"] = nil

	extractor := hltb.NewExtractor(searcher, nil, logging.NewNop(), 1)
	records := []library.Record{
		{ID: "1", Name: "Base Game", NameNoPunct: "Base Game"},
		{ID: "2", Name: "Some Expansion", NameNoPunct: "Some Expansion", Categories: []string{"DLC"}},
	}

	if _, err := extractor.Extract(context.Background(), records, time.Now()); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !searcher.lastDLC["Base Game"] {
		t.Fatal("non-DLC record must hide DLC results")
	}
	if searcher.lastDLC["Some Expansion"] {
		t.Fatal("DLC-flagged record must include DLC results")
	}
}
