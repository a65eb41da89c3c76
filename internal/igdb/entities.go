package igdb

import (
	"strconv"
	"strings"
	"time"

	"gamedex/internal/tabular"
)

// Game is one row of the mirrored games catalog. Reference fields hold ids
// into the lookup tables mirrored alongside it.
type Game struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	GameType           int64   `json:"game_type"`
	FirstReleaseDate   int64   `json:"first_release_date"`
	Franchises         []int64 `json:"franchises"`
	Genres             []int64 `json:"genres"`
	Themes             []int64 `json:"themes"`
	Keywords           []int64 `json:"keywords"`
	PlayerPerspectives []int64 `json:"player_perspectives"`
	CreatedAt          int64   `json:"created_at"`
	UpdatedAt          int64   `json:"updated_at"`
}

// ReleaseYear derives the year from the first release timestamp, 0 when the
// catalog has no release date.
func (g Game) ReleaseYear() int {
	if g.FirstReleaseDate == 0 {
		return 0
	}
	return unixYear(g.FirstReleaseDate)
}

// NullFieldCount counts the unset enrichment fields, used as the completeness
// tie-break when several catalog rows share a name and year.
func (g Game) NullFieldCount() int {
	nulls := 0
	if g.FirstReleaseDate == 0 {
		nulls++
	}
	if len(g.Franchises) == 0 {
		nulls++
	}
	if len(g.Genres) == 0 {
		nulls++
	}
	if len(g.Themes) == 0 {
		nulls++
	}
	if len(g.Keywords) == 0 {
		nulls++
	}
	if len(g.PlayerPerspectives) == 0 {
		nulls++
	}
	return nulls
}

// NamedEntity is one row of a name-keyed lookup endpoint (franchises, genres,
// themes, keywords, player perspectives).
type NamedEntity struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// GameType is one row of the game_types endpoint; Type is the display label
// ("Main Game", "DLC", ...).
type GameType struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

var gameHeader = []string{
	"id", "name", "game_type", "first_release_date",
	"franchises", "genres", "themes", "keywords", "player_perspectives",
	"created_at", "updated_at",
}

var namedHeader = []string{"id", "name", "created_at", "updated_at"}

var gameTypeHeader = []string{"id", "type", "created_at", "updated_at"}

// WriteGames persists the games snapshot.
func WriteGames(path string, games []Game) error {
	rows := make([][]string, 0, len(games))
	for _, game := range games {
		rows = append(rows, []string{
			strconv.FormatInt(game.ID, 10),
			game.Name,
			formatID(game.GameType),
			formatID(game.FirstReleaseDate),
			joinIDs(game.Franchises),
			joinIDs(game.Genres),
			joinIDs(game.Themes),
			joinIDs(game.Keywords),
			joinIDs(game.PlayerPerspectives),
			strconv.FormatInt(game.CreatedAt, 10),
			strconv.FormatInt(game.UpdatedAt, 10),
		})
	}
	return tabular.WriteCSV(path, gameHeader, rows)
}

// ReadGames loads a games snapshot.
func ReadGames(path string) ([]Game, error) {
	header, rows, err := tabular.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	cols := indexHeader(header)

	games := make([]Game, 0, len(rows))
	for _, row := range rows {
		games = append(games, Game{
			ID:                 parseID(cell(row, cols, "id")),
			Name:               cell(row, cols, "name"),
			GameType:           parseID(cell(row, cols, "game_type")),
			FirstReleaseDate:   parseID(cell(row, cols, "first_release_date")),
			Franchises:         splitIDs(cell(row, cols, "franchises")),
			Genres:             splitIDs(cell(row, cols, "genres")),
			Themes:             splitIDs(cell(row, cols, "themes")),
			Keywords:           splitIDs(cell(row, cols, "keywords")),
			PlayerPerspectives: splitIDs(cell(row, cols, "player_perspectives")),
			CreatedAt:          parseID(cell(row, cols, "created_at")),
			UpdatedAt:          parseID(cell(row, cols, "updated_at")),
		})
	}
	return games, nil
}

// WriteNamed persists a lookup-endpoint snapshot.
func WriteNamed(path string, entities []NamedEntity) error {
	rows := make([][]string, 0, len(entities))
	for _, entity := range entities {
		rows = append(rows, []string{
			strconv.FormatInt(entity.ID, 10),
			entity.Name,
			strconv.FormatInt(entity.CreatedAt, 10),
			strconv.FormatInt(entity.UpdatedAt, 10),
		})
	}
	return tabular.WriteCSV(path, namedHeader, rows)
}

// ReadNamed loads a lookup-endpoint snapshot.
func ReadNamed(path string) ([]NamedEntity, error) {
	header, rows, err := tabular.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	cols := indexHeader(header)

	entities := make([]NamedEntity, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, NamedEntity{
			ID:        parseID(cell(row, cols, "id")),
			Name:      cell(row, cols, "name"),
			CreatedAt: parseID(cell(row, cols, "created_at")),
			UpdatedAt: parseID(cell(row, cols, "updated_at")),
		})
	}
	return entities, nil
}

// WriteGameTypes persists the game_types snapshot.
func WriteGameTypes(path string, types []GameType) error {
	rows := make([][]string, 0, len(types))
	for _, gt := range types {
		rows = append(rows, []string{
			strconv.FormatInt(gt.ID, 10),
			gt.Type,
			strconv.FormatInt(gt.CreatedAt, 10),
			strconv.FormatInt(gt.UpdatedAt, 10),
		})
	}
	return tabular.WriteCSV(path, gameTypeHeader, rows)
}

// ReadGameTypes loads the game_types snapshot.
func ReadGameTypes(path string) ([]GameType, error) {
	header, rows, err := tabular.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	cols := indexHeader(header)

	types := make([]GameType, 0, len(rows))
	for _, row := range rows {
		types = append(types, GameType{
			ID:        parseID(cell(row, cols, "id")),
			Type:      cell(row, cols, "type"),
			CreatedAt: parseID(cell(row, cols, "created_at")),
			UpdatedAt: parseID(cell(row, cols, "updated_at")),
		})
	}
	return types, nil
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func cell(row []string, cols map[string]int, name string) string {
	if idx, ok := cols[name]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func unixYear(ts int64) int {
	return time.Unix(ts, 0).UTC().Year()
}

func parseID(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func joinIDs(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ";")
}

func splitIDs(value string) []int64 {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ";")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		if id := parseID(strings.TrimSpace(part)); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
