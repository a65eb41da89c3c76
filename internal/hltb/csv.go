package hltb

import (
	"strconv"
	"strings"
	"time"

	"gamedex/internal/tabular"
)

var rawHeader = []string{
	"game", "release_year", "similarity",
	"hltb_main", "hltb_extra", "hltb_completion",
	"library_name", "library_id", "hltb_extract_date",
}

var playtimeHeader = []string{
	"library_name", "library_id", "library_release_year",
	"hltb_main", "hltb_extra", "hltb_completion", "hltb_extract_date",
}

const extractDateLayout = "2006-01-02"

// WriteRaw persists raw candidate rows as a dated extract snapshot.
func WriteRaw(path string, candidates []Candidate) error {
	rows := make([][]string, 0, len(candidates))
	for _, cand := range candidates {
		rows = append(rows, []string{
			cand.GameName,
			strconv.Itoa(cand.ReleaseYear),
			strconv.FormatFloat(cand.Similarity, 'f', -1, 64),
			formatHours(cand.MainHours),
			formatHours(cand.ExtraHours),
			formatHours(cand.CompletionHours),
			cand.LibraryName,
			cand.LibraryID,
			cand.ExtractDate.Format(extractDateLayout),
		})
	}
	return tabular.WriteCSV(path, rawHeader, rows)
}

// ReadRaw loads a raw extract snapshot.
func ReadRaw(path string) ([]Candidate, error) {
	header, rows, err := tabular.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	cols := columnIndex(header)

	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, Candidate{
			GameName:        column(row, cols, "game"),
			ReleaseYear:     parseInt(column(row, cols, "release_year")),
			Similarity:      parseFloat(column(row, cols, "similarity")),
			MainHours:       parseFloat(column(row, cols, "hltb_main")),
			ExtraHours:      parseFloat(column(row, cols, "hltb_extra")),
			CompletionHours: parseFloat(column(row, cols, "hltb_completion")),
			LibraryName:     column(row, cols, "library_name"),
			LibraryID:       column(row, cols, "library_id"),
			ExtractDate:     parseExtractDate(column(row, cols, "hltb_extract_date")),
		})
	}
	return candidates, nil
}

// LoadLatestRaw reads the most recent extract snapshot under dir.
func LoadLatestRaw(dir string) ([]Candidate, string, error) {
	path, err := tabular.LatestCSV(dir)
	if err != nil {
		return nil, "", err
	}
	candidates, err := ReadRaw(path)
	if err != nil {
		return nil, "", err
	}
	return candidates, path, nil
}

// WritePlaytimes persists the merged playtime table.
func WritePlaytimes(path string, playtimes []Playtime) error {
	rows := make([][]string, 0, len(playtimes))
	for _, row := range playtimes {
		releaseYear := ""
		if row.LibraryReleaseYear != 0 {
			releaseYear = strconv.Itoa(row.LibraryReleaseYear)
		}
		rows = append(rows, []string{
			row.LibraryName,
			row.LibraryID,
			releaseYear,
			formatHours(row.MainHours),
			formatHours(row.ExtraHours),
			formatHours(row.CompletionHours),
			row.ExtractDate.Format(extractDateLayout),
		})
	}
	return tabular.WriteCSV(path, playtimeHeader, rows)
}

// ReadPlaytimes loads the persisted playtime table. A missing file means no
// previous run; callers get an empty table.
func ReadPlaytimes(path string) ([]Playtime, error) {
	header, rows, err := tabular.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	cols := columnIndex(header)

	playtimes := make([]Playtime, 0, len(rows))
	for _, row := range rows {
		playtimes = append(playtimes, Playtime{
			LibraryName:        column(row, cols, "library_name"),
			LibraryID:          column(row, cols, "library_id"),
			LibraryReleaseYear: parseInt(column(row, cols, "library_release_year")),
			MainHours:          parseFloat(column(row, cols, "hltb_main")),
			ExtraHours:         parseFloat(column(row, cols, "hltb_extra")),
			CompletionHours:    parseFloat(column(row, cols, "hltb_completion")),
			ExtractDate:        parseExtractDate(column(row, cols, "hltb_extract_date")),
		})
	}
	return playtimes, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func column(row []string, cols map[string]int, name string) string {
	if idx, ok := cols[name]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseExtractDate(value string) time.Time {
	t, err := time.Parse(extractDateLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', 2, 64)
}
