package igdb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"gamedex/internal/logging"
	"gamedex/internal/tabular"
)

const gameFields = "id,name,game_type,first_release_date," +
	"franchises,genres,themes,keywords,player_perspectives,created_at,updated_at"

const namedFields = "id,name,created_at,updated_at"

// namedEndpoints are the lookup tables mirrored alongside the games catalog.
// Rows on these endpoints are effectively append-only, so incremental pulls
// filter on created_at.
var namedEndpoints = []string{
	"franchises", "genres", "themes", "keywords", "player_perspectives",
}

// Syncer mirrors the IGDB endpoints to local CSV snapshots under dir.
type Syncer struct {
	client *Client
	logger *slog.Logger
	dir    string
}

// NewSyncer builds a Syncer writing snapshots under dir.
func NewSyncer(client *Client, logger *slog.Logger, dir string) *Syncer {
	return &Syncer{
		client: client,
		logger: logging.NewComponentLogger(logger, "igdb-sync"),
		dir:    dir,
	}
}

// SnapshotPath returns the snapshot file for one endpoint.
func (s *Syncer) SnapshotPath(endpoint string) string {
	return filepath.Join(s.dir, endpoint+".csv")
}

// SyncAll refreshes every endpoint snapshot. full forces a complete re-pull;
// otherwise each endpoint is pulled incrementally from its snapshot's
// modification high-water mark. A missing snapshot always triggers a full
// pull for that endpoint.
func (s *Syncer) SyncAll(ctx context.Context, full bool) error {
	if err := s.syncGames(ctx, full); err != nil {
		return fmt.Errorf("sync games: %w", err)
	}
	for _, endpoint := range namedEndpoints {
		if err := s.syncNamed(ctx, endpoint, full); err != nil {
			return fmt.Errorf("sync %s: %w", endpoint, err)
		}
	}
	if err := s.syncGameTypes(ctx); err != nil {
		return fmt.Errorf("sync game_types: %w", err)
	}
	return nil
}

func (s *Syncer) syncGames(ctx context.Context, full bool) error {
	path := s.SnapshotPath("games")

	var existing []Game
	if !full {
		loaded, err := ReadGames(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// No snapshot yet; fall through to a full pull.
		case err != nil:
			return err
		default:
			existing = loaded
		}
	}

	filter := ""
	if len(existing) > 0 {
		var maxUpdated int64
		for _, game := range existing {
			if game.UpdatedAt > maxUpdated {
				maxUpdated = game.UpdatedAt
			}
		}
		filter = fmt.Sprintf("updated_at > %d", maxUpdated)
	}

	var fetched []Game
	err := queryPages(ctx, s.client, "games", gameFields, filter, func(page []Game) error {
		fetched = append(fetched, page...)
		s.logger.Info("fetched games page", logging.Int("rows", len(page)), logging.Int("total", len(fetched)))
		return nil
	})
	if err != nil {
		return err
	}

	merged := tabular.Upsert(existing, fetched, func(game Game) int64 { return game.ID })
	s.logger.Info("games snapshot updated",
		logging.Int("fetched", len(fetched)),
		logging.Int("total", len(merged)))
	return WriteGames(path, merged)
}

func (s *Syncer) syncNamed(ctx context.Context, endpoint string, full bool) error {
	path := s.SnapshotPath(endpoint)

	var existing []NamedEntity
	if !full {
		loaded, err := ReadNamed(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return err
		default:
			existing = loaded
		}
	}

	filter := ""
	if len(existing) > 0 {
		var maxCreated int64
		for _, entity := range existing {
			if entity.CreatedAt > maxCreated {
				maxCreated = entity.CreatedAt
			}
		}
		filter = fmt.Sprintf("created_at > %d", maxCreated)
	}

	var fetched []NamedEntity
	err := queryPages(ctx, s.client, endpoint, namedFields, filter, func(page []NamedEntity) error {
		fetched = append(fetched, page...)
		return nil
	})
	if err != nil {
		return err
	}

	merged := tabular.Upsert(existing, fetched, func(entity NamedEntity) int64 { return entity.ID })
	s.logger.Info("lookup snapshot updated",
		logging.String("endpoint", endpoint),
		logging.Int("fetched", len(fetched)),
		logging.Int("total", len(merged)))
	return WriteNamed(path, merged)
}

// syncGameTypes always pulls the full table; it is a handful of rows.
func (s *Syncer) syncGameTypes(ctx context.Context) error {
	var fetched []GameType
	err := queryPages(ctx, s.client, "game_types", "id,type,created_at,updated_at", "", func(page []GameType) error {
		fetched = append(fetched, page...)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("game types snapshot updated", logging.Int("total", len(fetched)))
	return WriteGameTypes(s.SnapshotPath("game_types"), fetched)
}
