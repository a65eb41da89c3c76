package igdb

import (
	"strconv"
	"strings"

	"gamedex/internal/tabular"
)

// Lookups bundles the mirrored lookup tables used to resolve a game's
// reference ids to display names in the enriched output.
type Lookups struct {
	GameTypes          []GameType
	Franchises         []NamedEntity
	Genres             []NamedEntity
	Themes             []NamedEntity
	Keywords           []NamedEntity
	PlayerPerspectives []NamedEntity
}

// LoadLookups reads every lookup snapshot written by the Syncer.
func LoadLookups(s *Syncer) (Lookups, error) {
	var lookups Lookups
	var err error
	if lookups.GameTypes, err = ReadGameTypes(s.SnapshotPath("game_types")); err != nil {
		return Lookups{}, err
	}
	if lookups.Franchises, err = ReadNamed(s.SnapshotPath("franchises")); err != nil {
		return Lookups{}, err
	}
	if lookups.Genres, err = ReadNamed(s.SnapshotPath("genres")); err != nil {
		return Lookups{}, err
	}
	if lookups.Themes, err = ReadNamed(s.SnapshotPath("themes")); err != nil {
		return Lookups{}, err
	}
	if lookups.Keywords, err = ReadNamed(s.SnapshotPath("keywords")); err != nil {
		return Lookups{}, err
	}
	if lookups.PlayerPerspectives, err = ReadNamed(s.SnapshotPath("player_perspectives")); err != nil {
		return Lookups{}, err
	}
	return lookups, nil
}

var enrichedHeader = []string{
	"id", "name", "completion_status", "release_date", "library_release_year",
	"igdb_game_id", "igdb_name", "match_score", "igdb_game_type",
	"igdb_release_year", "franchises", "genres", "themes", "keywords",
	"player_perspectives", "resolution",
}

// WriteEnriched persists the catalog-annotated library table. Every library
// record appears once; unmatched records carry empty catalog columns.
func WriteEnriched(path string, matches []CatalogMatch, lookups Lookups) error {
	nameFor := map[string]map[int64]string{
		"franchises":          namedIndex(lookups.Franchises),
		"genres":              namedIndex(lookups.Genres),
		"themes":              namedIndex(lookups.Themes),
		"keywords":            namedIndex(lookups.Keywords),
		"player_perspectives": namedIndex(lookups.PlayerPerspectives),
	}

	rows := make([][]string, 0, len(matches))
	for _, match := range matches {
		rec := match.Record
		releaseDate := ""
		if !rec.ReleaseDate.IsZero() {
			releaseDate = rec.ReleaseDate.Format("2006-01-02")
		}
		releaseYear := ""
		if rec.ReleaseYear != 0 {
			releaseYear = strconv.Itoa(rec.ReleaseYear)
		}

		row := []string{
			rec.ID, rec.Name, rec.CompletionStatus, releaseDate, releaseYear,
		}
		if match.Matched() {
			game := match.Game
			gameYear := ""
			if year := game.ReleaseYear(); year != 0 {
				gameYear = strconv.Itoa(year)
			}
			row = append(row,
				strconv.FormatInt(game.ID, 10),
				game.Name,
				strconv.Itoa(match.Score),
				GameTypeName(game.GameType, lookups.GameTypes),
				gameYear,
				resolveNames(game.Franchises, nameFor["franchises"]),
				resolveNames(game.Genres, nameFor["genres"]),
				resolveNames(game.Themes, nameFor["themes"]),
				resolveNames(game.Keywords, nameFor["keywords"]),
				resolveNames(game.PlayerPerspectives, nameFor["player_perspectives"]),
				string(match.Resolution),
			)
		} else {
			row = append(row,
				"", "", strconv.Itoa(match.Score), "", "", "", "", "", "", "",
				string(match.Resolution),
			)
		}
		rows = append(rows, row)
	}
	return tabular.WriteCSV(path, enrichedHeader, rows)
}

func namedIndex(entities []NamedEntity) map[int64]string {
	index := make(map[int64]string, len(entities))
	for _, entity := range entities {
		index[entity.ID] = entity.Name
	}
	return index
}

func resolveNames(ids []int64, names map[int64]string) string {
	if len(ids) == 0 {
		return ""
	}
	resolved := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok && name != "" {
			resolved = append(resolved, name)
		}
	}
	return strings.Join(resolved, "; ")
}
