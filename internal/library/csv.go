package library

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gamedex/internal/tabular"
)

// cleanedHeader is the column layout of the cleaned library table.
var cleanedHeader = []string{
	"id", "name", "name_no_punct", "categories", "completion_status",
	"release_date", "library_release_year",
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// ParseDate parses a release date in any of the export formats seen in
// Playnite exports. Returns the zero time for empty or unparseable values.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ReadSource reads the raw Playnite export. The export carries a one-line
// banner above the header row, which is skipped.
func ReadSource(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open library export: %w", err)
	}
	defer file.Close()

	buffered := bufio.NewReader(file)
	if _, err := buffered.ReadString('\n'); err != nil {
		return nil, fmt.Errorf("skip export banner: %w", err)
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read library export %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := headerIndex(records[0])
	rows := make([]Record, 0, len(records)-1)
	for _, row := range records[1:] {
		rows = append(rows, Record{
			ID:               field(row, cols, "id"),
			Name:             field(row, cols, "name"),
			Categories:       splitCategories(field(row, cols, "categories")),
			CompletionStatus: field(row, cols, "completionstatus", "completion status", "completion_status"),
			ReleaseDate:      ParseDate(field(row, cols, "releasedate", "release date", "release_date")),
		})
	}
	return rows, nil
}

// WriteCleaned persists cleaned records as the library table.
func WriteCleaned(path string, records []Record) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		releaseDate := ""
		if !rec.ReleaseDate.IsZero() {
			releaseDate = rec.ReleaseDate.Format("2006-01-02")
		}
		releaseYear := ""
		if rec.ReleaseYear != 0 {
			releaseYear = strconv.Itoa(rec.ReleaseYear)
		}
		rows = append(rows, []string{
			rec.ID, rec.Name, rec.NameNoPunct, strings.Join(rec.Categories, "; "),
			rec.CompletionStatus, releaseDate, releaseYear,
		})
	}
	return tabular.WriteCSV(path, cleanedHeader, rows)
}

// ReadCleaned loads a previously written cleaned library table.
func ReadCleaned(path string) ([]Record, error) {
	header, rows, err := tabular.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	cols := headerIndex(header)

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := Record{
			ID:               field(row, cols, "id"),
			Name:             field(row, cols, "name"),
			NameNoPunct:      field(row, cols, "name_no_punct"),
			Categories:       splitCategories(field(row, cols, "categories")),
			CompletionStatus: field(row, cols, "completion_status"),
			ReleaseDate:      ParseDate(field(row, cols, "release_date")),
		}
		if year, err := strconv.Atoi(field(row, cols, "library_release_year")); err == nil {
			rec.ReleaseYear = year
		}
		records = append(records, rec)
	}
	return records, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func field(row []string, cols map[string]int, names ...string) string {
	for _, name := range names {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
	}
	return ""
}

func splitCategories(value string) []string {
	if value == "" {
		return nil
	}
	split := strings.FieldsFunc(value, func(r rune) bool {
		return r == ';' || r == ','
	})
	categories := make([]string, 0, len(split))
	for _, category := range split {
		if trimmed := strings.TrimSpace(category); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}
	return categories
}
