// Package pipeline orchestrates the enrichment passes: library cleaning,
// playtime lookup, and catalog matching. Passes run in dependency order and
// are isolated from each other; a failing pass is reported but does not stop
// the passes after it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"gamedex/internal/config"
	"gamedex/internal/hltb"
	"gamedex/internal/igdb"
	"gamedex/internal/library"
	"gamedex/internal/logging"
	"gamedex/internal/report"
	"gamedex/internal/searchcache"
	"gamedex/internal/tabular"
)

// CleanedLibraryFile is the cleaned library table filename.
const CleanedLibraryFile = "library.csv"

// PlaytimesFile is the persisted playtime table filename.
const PlaytimesFile = "hltb_playtimes.csv"

// EnrichedLibraryFile is the catalog-annotated library table filename.
const EnrichedLibraryFile = "library_igdb.csv"

// Passes selects which enrichment passes a run executes.
type Passes struct {
	Library bool
	HLTB    bool
	IGDB    bool
	// Full discards incremental state: the playtime pass re-queries every
	// game and the catalog pass re-pulls every endpoint.
	Full bool
	// SkipIGDBFetch matches against the existing catalog snapshots without
	// refreshing them first.
	SkipIGDBFetch bool
}

// Any reports whether at least one pass is selected.
func (p Passes) Any() bool {
	return p.Library || p.HLTB || p.IGDB
}

// Pipeline runs enrichment passes against one configured installation.
type Pipeline struct {
	cfg    *config.Config
	base   *slog.Logger
	logger *slog.Logger
	out    io.Writer
	runID  string
}

// New builds a Pipeline. out receives console report tables and may be nil.
func New(cfg *config.Config, logger *slog.Logger, out io.Writer) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:    cfg,
		base:   logger,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		out:    out,
		runID:  uuid.NewString(),
	}
}

// Run executes the selected passes under the single-run lock. Each pass is
// isolated: its failure is collected and the remaining passes still run.
func (p *Pipeline) Run(ctx context.Context, passes Passes) error {
	if !passes.Any() {
		return errors.New("no passes selected")
	}

	if err := p.cfg.EnsureDirectories(); err != nil {
		return err
	}

	lock := flock.New(p.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another run holds the lock at %s", p.cfg.LockPath())
	}
	defer lock.Unlock()

	p.logger.Info("run starting",
		logging.String("run_id", p.runID),
		logging.Bool("full", passes.Full))
	runStart := time.Now()

	var failures []error
	run := func(name string, enabled bool, fn func(context.Context) error) {
		if !enabled {
			return
		}
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			return
		}
		passStart := time.Now()
		p.logger.Info("pass starting", logging.String("pass", name))
		if err := fn(ctx); err != nil {
			p.logger.Error("pass failed", logging.String("pass", name), logging.Error(err))
			failures = append(failures, fmt.Errorf("%s pass: %w", name, err))
			return
		}
		p.logger.Info("pass finished",
			logging.String("pass", name),
			logging.Duration("elapsed", time.Since(passStart)))
	}

	run("library", passes.Library, p.runLibrary)
	run("hltb", passes.HLTB, func(ctx context.Context) error {
		return p.runHLTB(ctx, passes.Full)
	})
	run("igdb", passes.IGDB, func(ctx context.Context) error {
		return p.runIGDB(ctx, passes.Full, passes.SkipIGDBFetch)
	})

	p.logger.Info("run finished",
		logging.String("run_id", p.runID),
		logging.Duration("elapsed", time.Since(runStart)),
		logging.Int("failed_passes", len(failures)))
	return errors.Join(failures...)
}

// runLibrary archives the source export, cleans it, and writes the cleaned
// library table the other passes read.
func (p *Pipeline) runLibrary(ctx context.Context) error {
	source := p.cfg.Paths.LibrarySourceFile
	if source == "" {
		return errors.New("library source file not configured")
	}

	raw, err := library.ReadSource(source)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := p.archiveSource(source, now); err != nil {
		// Archiving is provenance, not correctness; keep going.
		p.logger.Warn("source archive failed", logging.Error(err))
	}

	cleaned := library.Clean(raw)
	p.logger.Info("library cleaned",
		logging.Int("source_rows", len(raw)),
		logging.Int("kept", len(cleaned)))

	return library.WriteCleaned(p.cleanedLibraryPath(), cleaned)
}

func (p *Pipeline) archiveSource(source string, now time.Time) error {
	dir, err := tabular.DatedDir(p.cfg.LibraryRawDir(), now)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("read source export: %w", err)
	}
	name := fmt.Sprintf("library_export_%s.csv", now.Format("2006-01-02_15-04-05"))
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("archive source export: %w", err)
	}
	return nil
}

// runHLTB runs the playtime pass: select eligible games, query the lookup
// service, snapshot the raw candidates, reconcile, and upsert the playtime
// table. full discards the persisted table and the search cache first.
func (p *Pipeline) runHLTB(ctx context.Context, full bool) error {
	records, err := library.ReadCleaned(p.cleanedLibraryPath())
	if err != nil {
		return fmt.Errorf("read cleaned library: %w", err)
	}

	playtimesPath := filepath.Join(p.cfg.HLTBProcessedDir(), PlaytimesFile)
	var persisted []hltb.Playtime
	if full {
		p.logger.Info("full run, discarding persisted playtimes and cache")
	} else {
		loaded, err := hltb.ReadPlaytimes(playtimesPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("read playtime table: %w", err)
		default:
			persisted = loaded
		}
	}

	cache, err := searchcache.Open(p.cfg.HLTB.CachePath)
	if err != nil {
		return err
	}
	defer cache.Close()
	if full {
		if err := cache.Purge(ctx); err != nil {
			return err
		}
	}

	client, err := hltb.New(p.cfg.HLTB.BaseURL, time.Duration(p.cfg.HLTB.RequestTimeout)*time.Second)
	if err != nil {
		return err
	}

	now := time.Now()
	queried := hltb.SelectForRefresh(records, persisted, now, p.cfg.HLTB.RefreshWindowMonths)
	p.logger.Info("selected games for lookup",
		logging.Int("library", len(records)),
		logging.Int("selected", len(queried)))

	extractor := hltb.NewExtractor(client, cache, p.base, p.cfg.HLTB.MaxAttempts)
	candidates, err := extractor.Extract(ctx, queried, now)
	if err != nil {
		return err
	}

	rawDir, err := tabular.DatedDir(p.cfg.HLTBRawDir(), now)
	if err != nil {
		return err
	}
	rawPath := filepath.Join(rawDir, hltb.RawExtractFileName(now, p.runID))
	if err := hltb.WriteRaw(rawPath, candidates); err != nil {
		return err
	}

	// Transform from the latest snapshot on disk rather than the in-memory
	// batch, so a transform-only rerun after a crash sees the same input.
	latest, latestPath, err := hltb.LoadLatestRaw(p.cfg.HLTBRawDir())
	if err != nil {
		return err
	}
	p.logger.Info("transforming raw extract", logging.String("snapshot", filepath.Base(latestPath)))

	matches := hltb.Transform(latest, queried)
	report.Emit(p.base, p.cfg.ReportDir("hltb"),
		report.PlaytimeReport(queried, matches, p.cfg.HLTB.LowSimilarityThreshold), p.out)

	fresh := hltb.FreshPlaytimes(matches, queried)
	merged := hltb.MergePlaytimes(persisted, fresh)
	p.logger.Info("playtime table updated",
		logging.Int("fresh", len(fresh)),
		logging.Int("total", len(merged)))
	return hltb.WritePlaytimes(playtimesPath, merged)
}

// runIGDB runs the catalog pass: refresh the endpoint snapshots, match the
// library against the catalog, and write the annotated library table.
func (p *Pipeline) runIGDB(ctx context.Context, full, skipFetch bool) error {
	records, err := library.ReadCleaned(p.cleanedLibraryPath())
	if err != nil {
		return fmt.Errorf("read cleaned library: %w", err)
	}

	client, err := igdb.NewClient(
		p.cfg.IGDB.BaseURL, p.cfg.IGDB.TokenURL,
		p.cfg.IGDB.ClientID, p.cfg.IGDB.ClientSecret,
		igdb.WithPageSize(p.cfg.IGDB.PageSize),
		igdb.WithRequestDelay(time.Duration(p.cfg.IGDB.RequestDelayMS)*time.Millisecond),
	)
	if err != nil {
		return err
	}

	syncer := igdb.NewSyncer(client, p.base, p.cfg.IGDBRawDir())
	if skipFetch {
		p.logger.Info("skipping catalog fetch, matching against existing snapshots")
	} else if err := syncer.SyncAll(ctx, full); err != nil {
		return err
	}

	games, err := igdb.ReadGames(syncer.SnapshotPath("games"))
	if err != nil {
		return fmt.Errorf("read games snapshot: %w", err)
	}
	lookups, err := igdb.LoadLookups(syncer)
	if err != nil {
		return fmt.Errorf("read lookup snapshots: %w", err)
	}

	matches := igdb.MatchAll(records, games,
		p.cfg.Matching.AcceptThreshold, p.cfg.Matching.YearTolerance)
	report.Emit(p.base, p.cfg.ReportDir("igdb"),
		report.CatalogReport(matches, p.cfg.Matching.QualityThreshold, p.cfg.Matching.YearTolerance), p.out)

	enrichedPath := filepath.Join(p.cfg.LibraryProcessedDir(), EnrichedLibraryFile)
	p.logger.Info("writing enriched library",
		logging.Int("records", len(matches)),
		logging.Int("catalog_games", len(games)))
	return igdb.WriteEnriched(enrichedPath, matches, lookups)
}

func (p *Pipeline) cleanedLibraryPath() string {
	return filepath.Join(p.cfg.LibraryProcessedDir(), CleanedLibraryFile)
}
