package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the file and directory layout for a pipeline installation.
type Paths struct {
	LibrarySourceFile string `toml:"library_source_file"`
	DataDir           string `toml:"data_dir"`
	LogDir            string `toml:"log_dir"`
}

// HLTB contains configuration for the HowLongToBeat lookup service.
type HLTB struct {
	BaseURL string `toml:"base_url"`
	// RequestTimeout bounds a single search request, in seconds.
	RequestTimeout int `toml:"request_timeout"`
	// MaxAttempts is the bounded retry cap per record; a record that fails
	// every attempt is skipped, not fatal.
	MaxAttempts int `toml:"max_attempts"`
	// RefreshWindowMonths is the trailing release-date window inside which
	// already-matched games are re-queried on incremental runs.
	RefreshWindowMonths int `toml:"refresh_window_months"`
	// CachePath points at the SQLite search-response cache. Empty disables
	// caching.
	CachePath string `toml:"cache_path"`
	// LowSimilarityThreshold flags matches below this 0-1 service score as
	// suspicious in reports.
	LowSimilarityThreshold float64 `toml:"low_similarity_threshold"`
}

// IGDB contains configuration for the IGDB catalog API and its Twitch OAuth
// token endpoint.
type IGDB struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	BaseURL      string `toml:"base_url"`
	TokenURL     string `toml:"token_url"`
	// PageSize is the row limit per paginated pull (IGDB caps this at 500).
	PageSize int `toml:"page_size"`
	// RequestDelayMS is the pause between paginated requests.
	RequestDelayMS int `toml:"request_delay_ms"`
}

// Matching contains thresholds for the catalog fuzzy-match pass. Scores are
// on the internal 0-100 edit-distance scale.
type Matching struct {
	// AcceptThreshold is the minimum score for a candidate to count as a
	// match at all.
	AcceptThreshold int `toml:"accept_threshold"`
	// QualityThreshold is the (higher) score below which an accepted match is
	// reported as low-confidence.
	QualityThreshold int `toml:"quality_threshold"`
	// YearTolerance is the allowed release-year gap before a match is
	// reported as a year mismatch.
	YearTolerance int `toml:"year_tolerance"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for gamedex.
type Config struct {
	Paths    Paths    `toml:"paths"`
	HLTB     HLTB     `toml:"hltb"`
	IGDB     IGDB     `toml:"igdb"`
	Matching Matching `toml:"matching"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/gamedex/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("gamedex.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.LibrarySourceFile,
		&c.Paths.DataDir,
		&c.Paths.LogDir,
		&c.HLTB.CachePath,
	} {
		trimmed := strings.TrimSpace(*field)
		if trimmed == "" {
			*field = ""
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.HLTB.BaseURL = strings.TrimRight(strings.TrimSpace(c.HLTB.BaseURL), "/")
	c.IGDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.IGDB.BaseURL), "/")
	c.IGDB.TokenURL = strings.TrimSpace(c.IGDB.TokenURL)
	c.IGDB.ClientID = strings.TrimSpace(c.IGDB.ClientID)
	c.IGDB.ClientSecret = strings.TrimSpace(c.IGDB.ClientSecret)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// Derived data-directory layout. The pipeline writes raw extracts, processed
// tables, and issue reports under DataDir.

// LibraryRawDir holds unmodified copies of the library source export.
func (c *Config) LibraryRawDir() string { return filepath.Join(c.Paths.DataDir, "raw", "library") }

// LibraryProcessedDir holds the cleaned library table and its catalog-annotated variant.
func (c *Config) LibraryProcessedDir() string {
	return filepath.Join(c.Paths.DataDir, "processed", "library")
}

// HLTBRawDir holds dated raw playtime-candidate extracts.
func (c *Config) HLTBRawDir() string { return filepath.Join(c.Paths.DataDir, "raw", "hltb") }

// HLTBProcessedDir holds the persisted playtime table.
func (c *Config) HLTBProcessedDir() string {
	return filepath.Join(c.Paths.DataDir, "processed", "hltb")
}

// IGDBRawDir holds the per-endpoint catalog snapshots.
func (c *Config) IGDBRawDir() string { return filepath.Join(c.Paths.DataDir, "raw", "igdb") }

// ReportDir holds match-quality issue reports for the named pass.
func (c *Config) ReportDir(pass string) string {
	return filepath.Join(c.Paths.DataDir, "reports", pass)
}

// LockPath is the pipeline single-run lock file.
func (c *Config) LockPath() string { return filepath.Join(c.Paths.DataDir, "gamedex.lock") }

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.DataDir,
		c.Paths.LogDir,
		c.LibraryRawDir(),
		c.LibraryProcessedDir(),
		c.HLTBRawDir(),
		c.HLTBProcessedDir(),
		c.IGDBRawDir(),
		c.ReportDir("hltb"),
		c.ReportDir("igdb"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
