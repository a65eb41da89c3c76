package igdb

import (
	"sort"

	"gamedex/internal/library"
	"gamedex/internal/matching"
)

// Resolution records how a same-name duplicate group was reduced to one game.
type Resolution string

const (
	ResolutionUnmatched    Resolution = "unmatched"
	ResolutionSingle       Resolution = "single"
	ResolutionYearWindow   Resolution = "year_window"
	ResolutionMainGame     Resolution = "main_game"
	ResolutionCompleteness Resolution = "completeness"
	ResolutionFirst        Resolution = "first"
)

// CatalogMatch joins one library record to its reconciled catalog game. Game
// is the zero value when the record did not match.
type CatalogMatch struct {
	Record      library.Record
	MatchedName string
	Score       int
	Game        Game
	Resolution  Resolution
}

// Matched reports whether a catalog game was resolved for the record.
func (m CatalogMatch) Matched() bool {
	return m.Resolution != ResolutionUnmatched
}

// MatchAll matches every library record against the catalog: fuzzy-resolve
// the record's punctuation-normalized name against the unique catalog names,
// then reconcile the same-name duplicate group down to one game. Every input
// record yields exactly one CatalogMatch, in input order.
func MatchAll(records []library.Record, games []Game, threshold, yearTolerance int) []CatalogMatch {
	byName := make(map[string][]Game)
	for _, game := range games {
		if game.Name == "" {
			continue
		}
		byName[game.Name] = append(byName[game.Name], game)
	}
	uniqueNames := make([]string, 0, len(byName))
	for name := range byName {
		uniqueNames = append(uniqueNames, name)
	}
	sort.Strings(uniqueNames)
	for _, group := range byName {
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
	}

	resolver := matching.Resolver{Threshold: threshold}
	matches := make([]CatalogMatch, 0, len(records))
	for _, rec := range records {
		result := resolver.Resolve(rec.ID, rec.NameNoPunct, uniqueNames)
		if !result.Matched() {
			matches = append(matches, CatalogMatch{
				Record:     rec,
				Score:      result.Score,
				Resolution: ResolutionUnmatched,
			})
			continue
		}

		game, resolution := Reconcile(byName[result.MatchedName], rec.ReleaseYear, yearTolerance)
		matches = append(matches, CatalogMatch{
			Record:      rec,
			MatchedName: result.MatchedName,
			Score:       result.Score,
			Game:        game,
			Resolution:  resolution,
		})
	}
	return matches
}

// Reconcile reduces a same-name duplicate group to one game by successive
// narrowing: release year within the tolerance of the library year, then
// plain main games, then the row with the fewest unset fields, then first in
// id order. Each narrowing step that leaves one game decides the match and
// names the step in the resolution.
func Reconcile(group []Game, libraryYear, yearTolerance int) (Game, Resolution) {
	switch len(group) {
	case 0:
		return Game{}, ResolutionUnmatched
	case 1:
		return group[0], ResolutionSingle
	}

	if libraryYear != 0 {
		var inWindow []Game
		for _, game := range group {
			year := game.ReleaseYear()
			if year != 0 && yearDiff(year, libraryYear) <= yearTolerance {
				inWindow = append(inWindow, game)
			}
		}
		if len(inWindow) == 1 {
			return inWindow[0], ResolutionYearWindow
		}
		if len(inWindow) > 1 {
			group = inWindow
		}
	}

	var mainGames []Game
	for _, game := range group {
		if game.GameType == MainGameTypeID {
			mainGames = append(mainGames, game)
		}
	}
	if len(mainGames) == 1 {
		return mainGames[0], ResolutionMainGame
	}
	if len(mainGames) > 1 {
		group = mainGames
	}

	fewest := group[0].NullFieldCount()
	winner := group[0]
	decisive := true
	for _, game := range group[1:] {
		switch nulls := game.NullFieldCount(); {
		case nulls < fewest:
			fewest, winner = nulls, game
			decisive = true
		case nulls == fewest:
			decisive = false
		}
	}
	if decisive {
		return winner, ResolutionCompleteness
	}
	for _, game := range group {
		if game.NullFieldCount() == fewest {
			return game, ResolutionFirst
		}
	}
	return winner, ResolutionFirst
}

func yearDiff(a, b int) int {
	diff := a - b
	if diff < 0 {
		return -diff
	}
	return diff
}
