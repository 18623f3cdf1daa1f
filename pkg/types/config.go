// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every client that talks to
// an external identity source.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "bib-explorer/0.1 (mailto:ops@example.org)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the suggest search flow.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MinQueryLength is the shortest query worth sending (default 2).
	MinQueryLength int `json:"min_query_length" yaml:"min_query_length"`

	// NameCount is the hit count requested from the name-authority
	// suggest endpoint (default 20).
	NameCount int `json:"name_count" yaml:"name_count"`

	// WorkCount is the hit count requested from the works suggest
	// endpoint (default 100).
	WorkCount int `json:"work_count" yaml:"work_count"`

	// RequestRate caps outbound requests per second against id.loc.gov
	// (default 10).
	RequestRate float64 `json:"request_rate" yaml:"request_rate"`
}

// ExploreConfig holds settings for the drill-down flows: contributor works,
// related works, and instance summaries.
type ExploreConfig struct {
	// ContributorPageCap bounds the relationship pages fetched when
	// listing everything a contributor worked on (default 49, so at most
	// 50 pages counting page 0).
	ContributorPageCap int `json:"contributor_page_cap" yaml:"contributor_page_cap"`

	// RelatedPageCap bounds the relationship pages fetched when
	// disambiguating a clicked work (default 29). Kept separate from
	// ContributorPageCap deliberately; the two flows are tuned apart.
	RelatedPageCap int `json:"related_page_cap" yaml:"related_page_cap"`

	// BestMatchLimit is how many scored related works survive ranking
	// before the good/poor split (default 20).
	BestMatchLimit int `json:"best_match_limit" yaml:"best_match_limit"`

	// SubjectDisplayLimit caps the subjects shown on a summary
	// (default 7).
	SubjectDisplayLimit int `json:"subject_display_limit" yaml:"subject_display_limit"`
}

// EnrichConfig holds settings for the best-effort knowledge-graph
// enrichment pass that runs after the primary results render.
type EnrichConfig struct {
	HTTPConfig `yaml:",inline"`

	// Enabled turns the enrichment pass on (default true).
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Config groups every flow's configuration.
type Config struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	Explore ExploreConfig `json:"explore" yaml:"explore"`
	Enrich  EnrichConfig  `json:"enrich" yaml:"enrich"`
}

// Defaults returns the configuration the CLI starts from before flags, the
// environment, and the config file are layered on top.
func Defaults() Config {
	return Config{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "bib-explorer/0.1",
			},
			MinQueryLength: 2,
			NameCount:      20,
			WorkCount:      100,
			RequestRate:    10,
		},
		Explore: ExploreConfig{
			ContributorPageCap:  49,
			RelatedPageCap:      29,
			BestMatchLimit:      20,
			SubjectDisplayLimit: 7,
		},
		Enrich: EnrichConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   20 * time.Second,
				UserAgent: "bib-explorer/0.1",
			},
			Enabled: true,
		},
	}
}
