package config

const (
	defaultLibrarySourceFile   = "~/playnite/library_export.csv"
	defaultDataDir             = "~/.local/share/gamedex/data"
	defaultLogDir              = "~/.local/share/gamedex/logs"
	defaultHLTBBaseURL         = "https://howlongtobeat.com"
	defaultHLTBRequestTimeout  = 15
	defaultHLTBMaxAttempts     = 2
	defaultHLTBRefreshMonths   = 6
	defaultHLTBLowSimilarity   = 0.75
	defaultIGDBBaseURL         = "https://api.igdb.com/v4"
	defaultIGDBTokenURL        = "https://id.twitch.tv/oauth2/token"
	defaultIGDBPageSize        = 500
	defaultIGDBRequestDelayMS  = 500
	defaultMatchingAccept      = 50
	defaultMatchingQuality     = 95
	defaultMatchingYearTol     = 1
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultHLTBSearchCachePath = "~/.cache/gamedex/hltb_cache.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibrarySourceFile: defaultLibrarySourceFile,
			DataDir:           defaultDataDir,
			LogDir:            defaultLogDir,
		},
		HLTB: HLTB{
			BaseURL:                defaultHLTBBaseURL,
			RequestTimeout:         defaultHLTBRequestTimeout,
			MaxAttempts:            defaultHLTBMaxAttempts,
			RefreshWindowMonths:    defaultHLTBRefreshMonths,
			CachePath:              defaultHLTBSearchCachePath,
			LowSimilarityThreshold: defaultHLTBLowSimilarity,
		},
		IGDB: IGDB{
			BaseURL:        defaultIGDBBaseURL,
			TokenURL:       defaultIGDBTokenURL,
			PageSize:       defaultIGDBPageSize,
			RequestDelayMS: defaultIGDBRequestDelayMS,
		},
		Matching: Matching{
			AcceptThreshold:  defaultMatchingAccept,
			QualityThreshold: defaultMatchingQuality,
			YearTolerance:    defaultMatchingYearTol,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
