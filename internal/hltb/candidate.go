package hltb

import "time"

// Candidate is one raw search result for a library game. Ephemeral: produced
// fresh per query, one-to-many against the library record it was fetched for.
type Candidate struct {
	GameName    string
	ReleaseYear int
	// Similarity is the lookup client's own 0-1 score, not the internal
	// 0-100 fuzzy scorer.
	Similarity float64
	// MainHours is the main-story estimate. ExtraHours and CompletionHours
	// are stored as increments over the main story.
	MainHours       float64
	ExtraHours      float64
	CompletionHours float64
	LibraryName     string
	LibraryID       string
	ExtractDate     time.Time
}

// Playtime is one row of the persisted playtime table: at most one per
// library id, replaced wholesale when its game is re-queried.
type Playtime struct {
	LibraryName        string
	LibraryID          string
	LibraryReleaseYear int
	MainHours          float64
	ExtraHours         float64
	CompletionHours    float64
	ExtractDate        time.Time
}
