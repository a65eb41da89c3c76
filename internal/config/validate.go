package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values the pipeline cannot run with.
// IGDB credentials are validated lazily by the IGDB pass so that library and
// HLTB passes work without them.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		problems = append(problems, "paths.log_dir must be set")
	}
	if c.HLTB.MaxAttempts < 1 {
		problems = append(problems, "hltb.max_attempts must be at least 1")
	}
	if c.HLTB.RequestTimeout < 1 {
		problems = append(problems, "hltb.request_timeout must be at least 1 second")
	}
	if c.HLTB.RefreshWindowMonths < 0 {
		problems = append(problems, "hltb.refresh_window_months must not be negative")
	}
	if c.HLTB.LowSimilarityThreshold < 0 || c.HLTB.LowSimilarityThreshold > 1 {
		problems = append(problems, "hltb.low_similarity_threshold must be between 0 and 1")
	}
	if c.IGDB.PageSize < 1 || c.IGDB.PageSize > 500 {
		problems = append(problems, "igdb.page_size must be between 1 and 500")
	}
	if c.Matching.AcceptThreshold < 0 || c.Matching.AcceptThreshold > 100 {
		problems = append(problems, "matching.accept_threshold must be between 0 and 100")
	}
	if c.Matching.QualityThreshold < c.Matching.AcceptThreshold {
		problems = append(problems, "matching.quality_threshold must not be below matching.accept_threshold")
	}
	if c.Matching.QualityThreshold > 100 {
		problems = append(problems, "matching.quality_threshold must be between 0 and 100")
	}
	if c.Matching.YearTolerance < 0 {
		problems = append(problems, "matching.year_tolerance must not be negative")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not supported (console, json)", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
