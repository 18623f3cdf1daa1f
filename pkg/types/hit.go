// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures of the bib-explorer
// pipeline: raw suggest-API hits, relationship listings, and the
// denormalized summary view assembled for one work/instance pair.
package types

// SearchHit is one raw result row from a suggest2 endpoint. The uri
// uniquely identifies the bibliographic entity; two hits with the same uri
// are the same entity and the first occurrence is the one retained.
type SearchHit struct {
	// URI is the stable identifier of the entity.
	URI string `json:"uri" yaml:"uri"`

	// Token is an opaque identifier. For name-authority hits it follows
	// the LCCN pattern ("n" plus digits); for works it is numeric.
	Token string `json:"token" yaml:"token"`

	// SuggestLabel is the label the endpoint ranked the hit under.
	SuggestLabel string `json:"suggestLabel" yaml:"suggest_label"`

	// ALabel and VLabel are alternate display labels (authorized and
	// variant forms).
	ALabel string `json:"aLabel" yaml:"a_label"`
	VLabel string `json:"vLabel" yaml:"v_label"`

	// Contributions is the contribution count, present on contributor
	// hits only.
	Contributions int `json:"contributions" yaml:"contributions"`

	// More carries nested metadata the endpoint attaches to the hit.
	More HitMore `json:"more" yaml:"more"`
}

// HitMore is the nested metadata block of a suggest hit.
type HitMore struct {
	Contributors []string `json:"contributors" yaml:"contributors"`
	Languages    []string `json:"languages" yaml:"languages"`
	Birthdates   []string `json:"birthdates" yaml:"birthdates"`
	Occupations  []string `json:"occupations" yaml:"occupations"`
}

// SuggestResponse is the envelope of a suggest2 call.
type SuggestResponse struct {
	Count int         `json:"count" yaml:"count"`
	Hits  []SearchHit `json:"hits" yaml:"hits"`
}

// WorkRef is one row of a relationship listing: a work URI with the label
// the relationship index stored for it.
type WorkRef struct {
	URI   string `json:"uri" yaml:"uri"`
	Label string `json:"label" yaml:"label"`
}

// RelationshipPage is one page of a paginated relationship listing.
// Pagination is 0-indexed and Summary.TotalPages names the highest page
// number, so pages 0 through TotalPages inclusive exist.
type RelationshipPage struct {
	Summary RelationshipSummary `json:"summary" yaml:"summary"`
	Results []WorkRef           `json:"results" yaml:"results"`
}

// RelationshipSummary carries the pagination facts of a listing.
type RelationshipSummary struct {
	TotalPages int `json:"totalPages" yaml:"total_pages"`
}
