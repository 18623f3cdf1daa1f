// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Contributor is a resolved contributor of a work. URI is empty when the
// contributor came from a blank node and has no external identity.
type Contributor struct {
	Name string `json:"name" yaml:"name"`
	URI  string `json:"uri,omitempty" yaml:"uri,omitempty"`
}

// Subject is a resolved subject heading. URI is empty for blank-node
// subjects.
type Subject struct {
	Label string `json:"label" yaml:"label"`
	URI   string `json:"uri,omitempty" yaml:"uri,omitempty"`
}

// InstanceDetail is the lightweight per-instance annotation shown under a
// work row: who produced it and where/when it was published. NewestYear is
// the publication year to emphasize, exactly as written in the statement.
type InstanceDetail struct {
	ResponsibilityStatement string `json:"responsibility_statement,omitempty" yaml:"responsibility_statement,omitempty"`
	PublicationStatement    string `json:"publication_statement,omitempty" yaml:"publication_statement,omitempty"`
	NewestYear              string `json:"newest_year,omitempty" yaml:"newest_year,omitempty"`
}

// Summary is the denormalized view of one work/instance pair. It is built
// fresh per instance view and never cached.
type Summary struct {
	Title                string        `json:"title" yaml:"title"`
	Contributors         []Contributor `json:"contributors" yaml:"contributors"`
	PublicationStatement string        `json:"publication_statement,omitempty" yaml:"publication_statement,omitempty"`
	NewestYear           string        `json:"newest_year,omitempty" yaml:"newest_year,omitempty"`
	Extent               string        `json:"extent,omitempty" yaml:"extent,omitempty"`
	ISBN                 []string      `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Language             []string      `json:"language,omitempty" yaml:"language,omitempty"`
	Subjects             []Subject     `json:"subjects,omitempty" yaml:"subjects,omitempty"`
	WorkURI              string        `json:"work_uri" yaml:"work_uri"`
	InstanceURI          string        `json:"instance_uri" yaml:"instance_uri"`
}

// WikidataFact is one best-effort enrichment row for a contributor,
// resolved through the external knowledge graph by LCCN.
type WikidataFact struct {
	LCCN        string `json:"lccn" yaml:"lccn"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
	BirthDate   string `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
	DeathDate   string `json:"death_date,omitempty" yaml:"death_date,omitempty"`
	ItemURI     string `json:"item_uri,omitempty" yaml:"item_uri,omitempty"`
}
