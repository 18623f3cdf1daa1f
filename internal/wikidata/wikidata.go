// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wikidata enriches name-authority hits with facts from the
// Wikidata Query Service. One SPARQL query resolves a whole batch of
// LCCNs through the P244 (Library of Congress authority ID) property, so
// enrichment costs a single request per search.
package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/bib-explorer/internal/httputil"
	"github.com/pdiddy/bib-explorer/pkg/types"
)

// sparqlBase is the Wikidata Query Service endpoint. Declared as a var so
// tests can substitute an httptest server.
var sparqlBase = "https://query.wikidata.org/sparql"

// Client talks to the Wikidata Query Service.
type Client struct {
	HTTPClient *http.Client
	Cfg        types.EnrichConfig

	// Endpoint is the SPARQL endpoint, snapshotted from sparqlBase at
	// construction.
	Endpoint string
}

func NewClient(cfg types.EnrichConfig) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Cfg:        cfg,
		Endpoint:   sparqlBase,
	}
}

// FactsByLCCN resolves the given LCCNs to Wikidata items in one query and
// returns a map keyed by LCCN. Missing LCCNs simply have no entry. The
// result is best-effort decoration; callers should degrade gracefully on
// error.
func (c *Client) FactsByLCCN(ctx context.Context, lccns []string) (map[string]types.WikidataFact, error) {
	if len(lccns) == 0 {
		return map[string]types.WikidataFact{}, nil
	}

	values := make([]string, 0, len(lccns))
	for _, lccn := range lccns {
		values = append(values, fmt.Sprintf("%q", lccn))
	}

	query := fmt.Sprintf(`SELECT ?lccn ?item ?itemLabel ?itemDescription ?image ?birth ?death WHERE {
  VALUES ?lccn { %s }
  ?item wdt:P244 ?lccn.
  OPTIONAL { ?item wdt:P18 ?image. }
  OPTIONAL { ?item wdt:P569 ?birth. }
  OPTIONAL { ?item wdt:P570 ?death. }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}`, strings.Join(values, " "))

	params := url.Values{"query": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("wikidata request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikidata returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading wikidata response: %w", err)
	}

	var sr sparqlResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parsing wikidata response: %w", err)
	}

	facts := make(map[string]types.WikidataFact)
	for _, b := range sr.Results.Bindings {
		lccn := b.LCCN.Value
		if lccn == "" {
			continue
		}
		// First binding per LCCN wins; extra image statements produce
		// duplicate rows we don't need.
		if _, seen := facts[lccn]; seen {
			continue
		}
		facts[lccn] = types.WikidataFact{
			LCCN:        lccn,
			Label:       b.ItemLabel.Value,
			Description: b.ItemDescription.Value,
			Image:       b.Image.Value,
			BirthDate:   b.Birth.Value,
			DeathDate:   b.Death.Value,
			ItemURI:     b.Item.Value,
		}
	}
	return facts, nil
}

// SPARQL JSON results structures.
type sparqlResponse struct {
	Results sparqlResults `json:"results"`
}

type sparqlResults struct {
	Bindings []sparqlBinding `json:"bindings"`
}

type sparqlBinding struct {
	LCCN            sparqlValue `json:"lccn"`
	Item            sparqlValue `json:"item"`
	ItemLabel       sparqlValue `json:"itemLabel"`
	ItemDescription sparqlValue `json:"itemDescription"`
	Image           sparqlValue `json:"image"`
	Birth           sparqlValue `json:"birth"`
	Death           sparqlValue `json:"death"`
}

type sparqlValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
