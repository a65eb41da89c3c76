package hltb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gamedex/internal/library"
	"gamedex/internal/logging"
	"gamedex/internal/searchcache"
)

// Extractor queries the lookup service for a batch of library records with
// bounded retries and an optional response cache.
type Extractor struct {
	searcher    Searcher
	cache       *searchcache.Cache
	logger      *slog.Logger
	maxAttempts int
}

// NewExtractor builds an Extractor. cache may be nil or disabled; logger may
// be nil.
func NewExtractor(searcher Searcher, cache *searchcache.Cache, logger *slog.Logger, maxAttempts int) *Extractor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Extractor{
		searcher:    searcher,
		cache:       cache,
		logger:      logging.NewComponentLogger(logger, "hltb"),
		maxAttempts: maxAttempts,
	}
}

// SelectForRefresh returns the library records eligible for (re-)querying on
// an incremental run: records with no persisted playtime row, plus records
// released within the trailing window (newly released titles may have had
// incomplete data on a previous run). All other records are skipped to bound
// per-run lookup cost.
func SelectForRefresh(records []library.Record, persisted []Playtime, now time.Time, windowMonths int) []library.Record {
	matched := make(map[string]struct{}, len(persisted))
	for _, row := range persisted {
		matched[row.LibraryID] = struct{}{}
	}
	cutoff := now.AddDate(0, -windowMonths, 0)

	selected := make([]library.Record, 0, len(records))
	for _, rec := range records {
		if _, ok := matched[rec.ID]; !ok {
			selected = append(selected, rec)
			continue
		}
		if !rec.ReleaseDate.IsZero() && !rec.ReleaseDate.Before(cutoff) {
			selected = append(selected, rec)
		}
	}
	return selected
}

// Extract queries the service for every record and returns the raw candidate
// rows. A record whose lookup fails on every attempt is skipped (it degrades
// to a no-match downstream); the run itself never fails on lookup errors.
func (e *Extractor) Extract(ctx context.Context, records []library.Record, now time.Time) ([]Candidate, error) {
	var candidates []Candidate
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return candidates, err
		}

		searchName := rec.SearchName()
		if searchName == "" {
			continue
		}
		// DLC-flagged library entries need DLC results; everything else
		// filters them out to reduce candidate noise.
		hideDLC := !rec.HasCategory("DLC")

		results, ok := e.search(ctx, searchName, hideDLC)
		if !ok {
			continue
		}

		for _, res := range results {
			candidates = append(candidates, Candidate{
				GameName:    res.GameName,
				ReleaseYear: res.ReleaseYear,
				Similarity:  res.Similarity,
				MainHours:   res.MainHours,
				// Store the upper tiers as increments over the main story.
				ExtraHours:      res.MainExtraHours - res.MainHours,
				CompletionHours: res.CompletionistHours - res.MainHours,
				LibraryName:     rec.Name,
				LibraryID:       rec.ID,
				ExtractDate:     now,
			})
		}
	}
	return candidates, nil
}

// search resolves one lookup through the cache and the bounded retry loop.
// The boolean is false when every attempt failed and the record should be
// skipped.
func (e *Extractor) search(ctx context.Context, searchName string, hideDLC bool) ([]SearchResult, bool) {
	if payload, hit, err := e.cache.Get(ctx, searchName, hideDLC); err != nil {
		e.logger.Warn("search cache read failed", logging.String("game", searchName), logging.Error(err))
	} else if hit {
		var results []SearchResult
		if err := json.Unmarshal(payload, &results); err == nil {
			return results, true
		}
		e.logger.Warn("discarding corrupt cache entry", logging.String("game", searchName))
	}

	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		results, err := e.searcher.Search(ctx, searchName, hideDLC)
		if err == nil {
			e.store(ctx, searchName, hideDLC, results)
			return results, true
		}
		lastErr = err
		if attempt < e.maxAttempts {
			e.logger.Warn("lookup attempt failed, retrying",
				logging.String("game", searchName),
				logging.Int("attempt", attempt),
				logging.Error(err))
		}
	}

	e.logger.Error("lookup failed, skipping game",
		logging.String("game", searchName),
		logging.Int("attempts", e.maxAttempts),
		logging.Error(lastErr))
	return nil, false
}

func (e *Extractor) store(ctx context.Context, searchName string, hideDLC bool, results []SearchResult) {
	payload, err := json.Marshal(results)
	if err != nil {
		e.logger.Warn("search cache encode failed", logging.String("game", searchName), logging.Error(err))
		return
	}
	if err := e.cache.Put(ctx, searchName, hideDLC, payload); err != nil {
		e.logger.Warn("search cache write failed", logging.String("game", searchName), logging.Error(err))
	}
}

// RawExtractFileName names a raw candidate snapshot after the extraction time
// and the run that produced it.
func RawExtractFileName(now time.Time, runID string) string {
	if len(runID) > 8 {
		runID = runID[:8]
	}
	if runID == "" {
		return fmt.Sprintf("hltb_raw_%s.csv", now.Format("2006-01-02_15-04-05"))
	}
	return fmt.Sprintf("hltb_raw_%s_%s.csv", now.Format("2006-01-02_15-04-05"), runID)
}
