package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/jiten/data/db/jiten.db"
	}
	if cfg.Storage.IndexDir == "" {
		cfg.Storage.IndexDir = "/usr/local/var/jiten/data/indices"
	}
	if cfg.Storage.SuggestionDir == "" {
		cfg.Storage.SuggestionDir = "/usr/local/var/jiten/data/suggestions"
	}
	if cfg.Search.Threshold == 0 {
		cfg.Search.Threshold = 0.2
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = 100
	}
	if cfg.Search.VectorLimit == 0 {
		cfg.Search.VectorLimit = 100000
	}
	if cfg.Search.PageSize == 0 {
		cfg.Search.PageSize = 10
	}
	if cfg.Search.PageSize > cfg.Search.Limit {
		cfg.Search.PageSize = cfg.Search.Limit
	}
	// Booleans default to true when unset (nil).
	if cfg.Search.AllowAlign == nil {
		t := true
		cfg.Search.AllowAlign = &t
	}
	if cfg.Search.ShowEnglish == nil {
		t := true
		cfg.Search.ShowEnglish = &t
	}
	if cfg.Suggestion.Timeout == 0 {
		cfg.Suggestion.Timeout = 500 * time.Millisecond
	}
	if cfg.Suggestion.MaxResults == 0 {
		cfg.Suggestion.MaxResults = 10
	}
	if cfg.Cache.KanjiCapacity == 0 {
		cfg.Cache.KanjiCapacity = 10000
	}
}
