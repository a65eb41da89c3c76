// Package report builds match-quality reports for the enrichment passes:
// which library games found no counterpart, which matched only weakly, and
// where release years disagree. Reporting is best-effort; a failed report is
// logged and never fails the run that produced it.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"gamedex/internal/hltb"
	"gamedex/internal/igdb"
	"gamedex/internal/library"
	"gamedex/internal/logging"
	"gamedex/internal/tabular"
)

// Section is one issue table of a report.
type Section struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Report is the full match-quality report for one pass.
type Report struct {
	Pass     string
	Matched  int
	Total    int
	Sections []Section
}

// CatalogReport inspects catalog matches for records that found no catalog
// game, matched below the quality threshold, or matched a game whose release
// year disagrees with the library beyond the tolerance.
func CatalogReport(matches []igdb.CatalogMatch, qualityThreshold, yearTolerance int) *Report {
	noMatch := Section{
		Name:   "no_match",
		Header: []string{"library_id", "library_name", "best_score"},
	}
	lowScore := Section{
		Name:   "low_score",
		Header: []string{"library_id", "library_name", "igdb_name", "match_score"},
	}
	yearMismatch := Section{
		Name:   "year_mismatch",
		Header: []string{"library_id", "library_name", "library_release_year", "igdb_name", "igdb_release_year"},
	}

	matched := 0
	typeCounts := map[int64]int{}
	for _, match := range matches {
		rec := match.Record
		if !match.Matched() {
			noMatch.Rows = append(noMatch.Rows, []string{
				rec.ID, rec.Name, strconv.Itoa(match.Score),
			})
			continue
		}
		matched++
		typeCounts[match.Game.GameType]++
		if match.Score < qualityThreshold {
			lowScore.Rows = append(lowScore.Rows, []string{
				rec.ID, rec.Name, match.Game.Name, strconv.Itoa(match.Score),
			})
		}
		gameYear := match.Game.ReleaseYear()
		if rec.ReleaseYear != 0 && gameYear != 0 && absDiff(rec.ReleaseYear, gameYear) > yearTolerance {
			yearMismatch.Rows = append(yearMismatch.Rows, []string{
				rec.ID, rec.Name, strconv.Itoa(rec.ReleaseYear),
				match.Game.Name, strconv.Itoa(gameYear),
			})
		}
	}

	return &Report{
		Pass:     "igdb",
		Matched:  matched,
		Total:    len(matches),
		Sections: []Section{noMatch, lowScore, yearMismatch, gameTypeDistribution(typeCounts)},
	}
}

// gameTypeDistribution summarizes how many matched games landed on each
// catalog game type. A skew toward remasters or DLC usually means the
// reconciler lost its year signal.
func gameTypeDistribution(counts map[int64]int) Section {
	section := Section{
		Name:   "game_type_distribution",
		Header: []string{"game_type", "count"},
	}
	ids := make([]int64, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		label := igdb.GameTypeName(id, nil)
		if label == "" {
			label = strconv.FormatInt(id, 10)
		}
		section.Rows = append(section.Rows, []string{label, strconv.Itoa(counts[id])})
	}
	return section
}

// PlaytimeReport inspects the playtime pass: queried records with no winning
// candidate, winners whose similarity fell below the threshold, and winners
// chosen by year proximity rather than an exact year.
func PlaytimeReport(queried []library.Record, matches map[string]hltb.Match, lowSimThreshold float64) *Report {
	noMatch := Section{
		Name:   "no_match",
		Header: []string{"library_id", "library_name"},
	}
	lowSimilarity := Section{
		Name:   "low_similarity",
		Header: []string{"library_id", "library_name", "hltb_name", "similarity"},
	}
	yearMismatch := Section{
		Name:   "year_mismatch",
		Header: []string{"library_id", "library_name", "library_release_year", "hltb_name", "hltb_release_year"},
	}

	matched := 0
	for _, rec := range queried {
		match, ok := matches[rec.ID]
		if !ok {
			noMatch.Rows = append(noMatch.Rows, []string{rec.ID, rec.Name})
			continue
		}
		matched++
		cand := match.Candidate
		if cand.Similarity < lowSimThreshold {
			lowSimilarity.Rows = append(lowSimilarity.Rows, []string{
				rec.ID, rec.Name, cand.GameName,
				strconv.FormatFloat(cand.Similarity, 'f', 2, 64),
			})
		}
		if match.Resolution == hltb.ResolutionNearestYear && rec.ReleaseYear != 0 && cand.ReleaseYear != rec.ReleaseYear {
			yearMismatch.Rows = append(yearMismatch.Rows, []string{
				rec.ID, rec.Name, strconv.Itoa(rec.ReleaseYear),
				cand.GameName, strconv.Itoa(cand.ReleaseYear),
			})
		}
	}

	sortSections := []*Section{&noMatch, &lowSimilarity, &yearMismatch}
	for _, section := range sortSections {
		sort.Slice(section.Rows, func(i, j int) bool {
			return section.Rows[i][1] < section.Rows[j][1]
		})
	}

	return &Report{
		Pass:     "hltb",
		Matched:  matched,
		Total:    len(queried),
		Sections: []Section{noMatch, lowSimilarity, yearMismatch},
	}
}

// Write persists each section with rows as a CSV under dir.
func (r *Report) Write(dir string) error {
	for _, section := range r.Sections {
		if len(section.Rows) == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", r.Pass, section.Name))
		if err := tabular.WriteCSV(path, section.Header, section.Rows); err != nil {
			return fmt.Errorf("write %s report: %w", section.Name, err)
		}
	}
	return nil
}

// RenderSummary writes a console summary table of the pass's match quality.
// A below-threshold winner counts as a match issue, not a success, so the
// success count is matched minus the low-quality rows. Totals cover the
// records this run queried; an incremental run's universe is its selection,
// not the whole library.
func (r *Report) RenderSummary(out io.Writer) {
	low := 0
	for _, section := range r.Sections {
		switch section.Name {
		case "low_similarity", "low_score":
			low = len(section.Rows)
		}
	}
	successful := r.Matched - low

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("%s match quality", r.Pass)
	t.AppendHeader(table.Row{"metric", "count"})
	t.AppendRow(table.Row{"games queried", r.Total})
	t.AppendRow(table.Row{"matched", r.Matched})
	t.AppendRow(table.Row{"unmatched", r.Total - r.Matched})
	for _, section := range r.Sections {
		switch section.Name {
		case "no_match", "game_type_distribution":
			continue
		}
		t.AppendRow(table.Row{section.Name, len(section.Rows)})
	}
	t.AppendRow(table.Row{"successful matches", successful})
	if r.Total > 0 {
		t.AppendFooter(table.Row{
			"match rate",
			fmt.Sprintf("%.1f%%", 100*float64(successful)/float64(r.Total)),
		})
	}
	t.Render()
}

// Emit writes and renders a report, logging failures instead of returning
// them. A broken report never fails the pass that produced the data.
func Emit(logger *slog.Logger, dir string, rep *Report, out io.Writer) {
	log := logging.NewComponentLogger(logger, "report")
	defer func() {
		if r := recover(); r != nil {
			log.Error("report generation panicked", logging.Any("panic", r))
		}
	}()

	if err := rep.Write(dir); err != nil {
		log.Error("report write failed", logging.String("pass", rep.Pass), logging.Error(err))
	}
	if out != nil {
		rep.RenderSummary(out)
	}
	for _, section := range rep.Sections {
		if len(section.Rows) > 0 {
			log.Info("match issues found",
				logging.String("pass", rep.Pass),
				logging.String("kind", section.Name),
				logging.Int("count", len(section.Rows)))
		}
	}
}

func absDiff(a, b int) int {
	diff := a - b
	if diff < 0 {
		return -diff
	}
	return diff
}
