package igdb_test

import (
	"testing"
	"time"

	"gamedex/internal/igdb"
	"gamedex/internal/library"
)

func unix(year int) int64 {
	return time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC).Unix()
}

func TestMatchAllPicksYearProximateDuplicate(t *testing.T) {
	// Two catalog entries share a fuzzy-close name; the 1995 original must win
	// over the 2008 remaster for a 1995 library record.
	records := []library.Record{
		{ID: "lib-1", Name: "Chrono Trigger", NameNoPunct: "Chrono Trigger", ReleaseYear: 1995},
	}
	games := []igdb.Game{
		{ID: 11, Name: "Chrono Trigger", GameType: igdb.MainGameTypeID, FirstReleaseDate: unix(1995), Genres: []int64{1}},
		{ID: 22, Name: "Chrono Trigger", GameType: 9, FirstReleaseDate: unix(2008), Genres: []int64{1}},
	}

	matches := igdb.MatchAll(records, games, 50, 1)
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
	match := matches[0]
	if !match.Matched() {
		t.Fatalf("expected a match, got %+v", match)
	}
	if match.Game.ID != 11 {
		t.Fatalf("matched game id = %d, want the 1995 entry", match.Game.ID)
	}
	if match.Resolution != igdb.ResolutionYearWindow {
		t.Fatalf("resolution = %q, want %q", match.Resolution, igdb.ResolutionYearWindow)
	}
	if match.Score != 100 {
		t.Fatalf("score = %d, want 100", match.Score)
	}
}

func TestMatchAllIgnoresCaseAndPunctuation(t *testing.T) {
	// Catalog names keep their original casing and colons; neither may count
	// against the score.
	records := []library.Record{
		{ID: "lib-1", Name: "DOOM", NameNoPunct: "DOOM", ReleaseYear: 2016},
		{ID: "lib-2", Name: "Nier Automata", NameNoPunct: "Nier Automata", ReleaseYear: 2017},
	}
	games := []igdb.Game{
		{ID: 7, Name: "Doom", FirstReleaseDate: unix(2016)},
		{ID: 8, Name: "NieR: Automata", FirstReleaseDate: unix(2017)},
	}

	matches := igdb.MatchAll(records, games, 50, 1)
	for i, want := range []int64{7, 8} {
		match := matches[i]
		if !match.Matched() || match.Game.ID != want {
			t.Fatalf("record %s matched %+v, want game %d", match.Record.ID, match.Game, want)
		}
		if match.Score != 100 {
			t.Fatalf("record %s score = %d, want 100", match.Record.ID, match.Score)
		}
	}
}

func TestMatchAllEmptyNameScoresZero(t *testing.T) {
	records := []library.Record{{ID: "lib-1", Name: "", NameNoPunct: ""}}
	games := []igdb.Game{{ID: 1, Name: "Anything"}}

	matches := igdb.MatchAll(records, games, 50, 1)
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want one row per record", len(matches))
	}
	match := matches[0]
	if match.Matched() {
		t.Fatal("empty name must not match")
	}
	if match.Score != 0 {
		t.Fatalf("score = %d, want 0", match.Score)
	}
	if match.Resolution != igdb.ResolutionUnmatched {
		t.Fatalf("resolution = %q, want %q", match.Resolution, igdb.ResolutionUnmatched)
	}
}

func TestMatchAllEveryRecordRepresented(t *testing.T) {
	records := []library.Record{
		{ID: "1", Name: "Hades", NameNoPunct: "Hades", ReleaseYear: 2020},
		{ID: "2", Name: "Nonexistent Obscurity", NameNoPunct: "Nonexistent Obscurity"},
	}
	games := []igdb.Game{{ID: 1, Name: "Hades", FirstReleaseDate: unix(2020)}}

	matches := igdb.MatchAll(records, games, 95, 1)
	if len(matches) != len(records) {
		t.Fatalf("matches = %d, want %d (unmatched records kept)", len(matches), len(records))
	}
	if !matches[0].Matched() || matches[1].Matched() {
		t.Fatalf("unexpected match states %+v", matches)
	}
}

func TestReconcileMainGamePreferred(t *testing.T) {
	group := []igdb.Game{
		{ID: 1, Name: "Same Name", GameType: 9, FirstReleaseDate: unix(2010)},
		{ID: 2, Name: "Same Name", GameType: igdb.MainGameTypeID, FirstReleaseDate: unix(2012)},
	}
	// Library year 0 skips the year window; the main game must win.
	game, resolution := igdb.Reconcile(group, 0, 1)
	if game.ID != 2 || resolution != igdb.ResolutionMainGame {
		t.Fatalf("got id=%d resolution=%q, want main game", game.ID, resolution)
	}
}

func TestReconcileCompletenessTieBreak(t *testing.T) {
	full := igdb.Game{
		ID: 1, Name: "Same", GameType: igdb.MainGameTypeID, FirstReleaseDate: unix(2010),
		Genres: []int64{1}, Themes: []int64{2}, Keywords: []int64{3},
	}
	sparse := igdb.Game{ID: 2, Name: "Same", GameType: igdb.MainGameTypeID, FirstReleaseDate: unix(2010)}

	game, resolution := igdb.Reconcile([]igdb.Game{sparse, full}, 2010, 1)
	if game.ID != 1 || resolution != igdb.ResolutionCompleteness {
		t.Fatalf("got id=%d resolution=%q, want the more complete row", game.ID, resolution)
	}
}

func TestReconcileFirstOnFullTie(t *testing.T) {
	a := igdb.Game{ID: 1, Name: "Same", GameType: igdb.MainGameTypeID, FirstReleaseDate: unix(2010), Genres: []int64{1}}
	b := igdb.Game{ID: 2, Name: "Same", GameType: igdb.MainGameTypeID, FirstReleaseDate: unix(2010), Genres: []int64{2}}

	game, resolution := igdb.Reconcile([]igdb.Game{a, b}, 2010, 1)
	if game.ID != 1 || resolution != igdb.ResolutionFirst {
		t.Fatalf("got id=%d resolution=%q, want first on full tie", game.ID, resolution)
	}
}

func TestReconcileSingle(t *testing.T) {
	only := igdb.Game{ID: 7, Name: "Lone"}
	game, resolution := igdb.Reconcile([]igdb.Game{only}, 1999, 1)
	if game.ID != 7 || resolution != igdb.ResolutionSingle {
		t.Fatalf("got id=%d resolution=%q", game.ID, resolution)
	}
}

func TestGameNullFieldCount(t *testing.T) {
	empty := igdb.Game{}
	if got := empty.NullFieldCount(); got != 6 {
		t.Fatalf("empty game null count = %d, want 6", got)
	}
	full := igdb.Game{
		FirstReleaseDate:   unix(2000),
		Franchises:         []int64{1},
		Genres:             []int64{1},
		Themes:             []int64{1},
		Keywords:           []int64{1},
		PlayerPerspectives: []int64{1},
	}
	if got := full.NullFieldCount(); got != 0 {
		t.Fatalf("full game null count = %d, want 0", got)
	}
}
