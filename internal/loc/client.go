// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loc is the HTTP client for the id.loc.gov linked-data service:
// the suggest2 search endpoints, the BIBFRAME work/instance documents,
// the name-authority records, and the relationship listings.
package loc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"sync"

	"golang.org/x/time/rate"

	"github.com/pdiddy/bib-explorer/internal/graph"
	"github.com/pdiddy/bib-explorer/internal/httputil"
	"github.com/pdiddy/bib-explorer/pkg/types"
)

// idlocBase is the id.loc.gov service root. Declared as a var so tests can
// substitute an httptest server.
var idlocBase = "https://id.loc.gov"

// lccnRe matches a name-authority LCCN token ("n" plus digits, optionally
// with the no/nb/nr prefix variants the authority file uses).
var lccnRe = regexp.MustCompile(`^n[a-z]?\d+$`)

// hubRe matches a hub identifier, which is a UUID rather than a numeric
// resource id.
var hubRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// Client talks to id.loc.gov. All requests share one rate limiter so the
// fan-out over relationship pages stays polite.
type Client struct {
	HTTPClient *http.Client
	Cfg        types.SearchConfig
	Limiter    *rate.Limiter

	// Base is the service root, snapshotted from idlocBase at
	// construction.
	Base string
}

// NewClient builds a client from cfg, deriving the rate limiter from
// RequestRate.
func NewClient(cfg types.SearchConfig) *Client {
	rps := cfg.RequestRate
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Cfg:        cfg,
		Limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		Base:       idlocBase,
	}
}

// IsLCCN reports whether token looks like a name-authority LCCN.
func IsLCCN(token string) bool { return lccnRe.MatchString(token) }

// IsHubID reports whether the trailing segment of uri is a hub UUID.
func IsHubID(uri string) bool { return hubRe.MatchString(graph.TrailingSegment(uri)) }

// get performs one rate-limited GET with retry on 429 and returns the
// response body.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("id.loc.gov request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("id.loc.gov returned HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// SuggestNames searches the name-authority file for personal names
// matching query. The trailing wildcard makes the final word a prefix
// match, which keeps suggestions flowing while the user is mid-word.
func (c *Client) SuggestNames(ctx context.Context, query string) (*types.SuggestResponse, error) {
	params := url.Values{
		"q":          {query + "*"},
		"searchtype": {"keyword"},
		"rdftype":    {"PersonalName"},
		"usage":      {"true"},
		"count":      {fmt.Sprintf("%d", c.Cfg.NameCount)},
	}
	return c.suggest(ctx, c.Base+"/authorities/names/suggest2/?"+params.Encode())
}

// SuggestWorks searches the works suggest endpoint, restricted to
// monographs and text works.
func (c *Client) SuggestWorks(ctx context.Context, query string) (*types.SuggestResponse, error) {
	params := url.Values{
		"q":          {query + "*"},
		"searchtype": {"keyword"},
		"count":      {fmt.Sprintf("%d", c.Cfg.WorkCount)},
	}
	// The endpoint takes repeated rdftype keys for multiple filters.
	params["rdftype"] = []string{"Monograph", "Text"}
	return c.suggest(ctx, c.Base+"/resources/works/suggest2/?"+params.Encode())
}

// SuggestInstances searches the instances suggest endpoint. Used for
// all-digit queries, which are identifier lookups rather than titles.
func (c *Client) SuggestInstances(ctx context.Context, query string) (*types.SuggestResponse, error) {
	params := url.Values{
		"q":          {query + "*"},
		"searchtype": {"keyword"},
		"count":      {fmt.Sprintf("%d", c.Cfg.WorkCount)},
	}
	return c.suggest(ctx, c.Base+"/resources/instances/suggest2/?"+params.Encode())
}

func (c *Client) suggest(ctx context.Context, rawURL string) (*types.SuggestResponse, error) {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	var sr types.SuggestResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parsing suggest response: %w", err)
	}
	return &sr, nil
}

// WorkGraph fetches the processed BIBFRAME document for a work.
func (c *Client) WorkGraph(ctx context.Context, id string) (graph.Graph, error) {
	return c.graphDoc(ctx, c.Base+"/resources/works/"+id+".bibframe.json")
}

// WorkGraphRaw fetches the unprocessed BIBFRAME document for a work. The
// raw form keeps contribution agents as references into the same graph,
// which the processed form sometimes flattens away.
func (c *Client) WorkGraphRaw(ctx context.Context, id string) (graph.Graph, error) {
	return c.graphDoc(ctx, c.Base+"/resources/works/"+id+".bibframe_raw.json")
}

// InstanceGraph fetches the processed BIBFRAME document for an instance.
func (c *Client) InstanceGraph(ctx context.Context, id string) (graph.Graph, error) {
	return c.graphDoc(ctx, c.Base+"/resources/instances/"+id+".bibframe.json")
}

// HubGraph fetches the BIBFRAME document for a hub (UUID-identified).
func (c *Client) HubGraph(ctx context.Context, id string) (graph.Graph, error) {
	return c.graphDoc(ctx, c.Base+"/resources/hubs/"+id+".bibframe.json")
}

func (c *Client) graphDoc(ctx context.Context, rawURL string) (graph.Graph, error) {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	g, err := graph.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing BIBFRAME document: %w", err)
	}
	return g, nil
}

// AuthorityLabel resolves an LCCN to its authoritative label by fetching
// the name-authority record and reading the Authority node.
func (c *Client) AuthorityLabel(ctx context.Context, lccn string) (string, error) {
	g, err := c.graphDoc(ctx, c.Base+"/authorities/names/"+lccn+".json")
	if err != nil {
		return "", err
	}
	for i := range g {
		if !g[i].HasType(graph.ClassAuthority) {
			continue
		}
		if label := g[i].FirstLiteral(graph.PredAuthoritativeLabel); label != "" {
			return label, nil
		}
	}
	return "", fmt.Errorf("no authority node in record for %s", lccn)
}

// SubjectAuthorityLabel resolves a full subject-authority URI to its
// authoritative label.
func (c *Client) SubjectAuthorityLabel(ctx context.Context, uri string) (string, error) {
	g, err := c.graphDoc(ctx, uri+".json")
	if err != nil {
		return "", err
	}
	for i := range g {
		if label := g[i].FirstLiteral(graph.PredAuthoritativeLabel); label != "" {
			return label, nil
		}
	}
	return "", fmt.Errorf("no authoritative label in %s", uri)
}

// relationshipPage fetches one page of the contributor-to listing.
func (c *Client) relationshipPage(ctx context.Context, lccn string, page int) (*types.RelationshipPage, error) {
	params := url.Values{
		"label": {"http://id.loc.gov/authorities/names/" + lccn},
		"page":  {fmt.Sprintf("%d", page)},
	}
	body, err := c.get(ctx, c.Base+"/resources/works/relationships/contributorto/?"+params.Encode())
	if err != nil {
		return nil, err
	}
	var rp types.RelationshipPage
	if err := json.Unmarshal(body, &rp); err != nil {
		return nil, fmt.Errorf("parsing relationship page: %w", err)
	}
	return &rp, nil
}

// ContributorWorks lists every work the named contributor is recorded
// against, up to pageCap relationship pages. Page 0 is fetched first to
// learn the page count, then all pages through min(TotalPages, pageCap)
// are fetched concurrently; page 0 comes back twice and the caller's
// dedupe absorbs it. Pages that fail are skipped, the rest still count.
func (c *Client) ContributorWorks(ctx context.Context, lccn string, pageCap int) ([]types.WorkRef, error) {
	first, err := c.relationshipPage(ctx, lccn, 0)
	if err != nil {
		return nil, err
	}

	lastPage := first.Summary.TotalPages
	if pageCap > 0 && lastPage > pageCap {
		lastPage = pageCap
	}

	type pageResult struct {
		page int
		refs []types.WorkRef
	}
	results := make(chan pageResult, lastPage+1)

	var wg sync.WaitGroup
	for page := 0; page <= lastPage; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			rp, err := c.relationshipPage(ctx, lccn, page)
			if err != nil {
				return
			}
			results <- pageResult{page: page, refs: rp.Results}
		}(page)
	}
	wg.Wait()
	close(results)

	collected := make([]pageResult, 0, lastPage+1)
	for pr := range results {
		collected = append(collected, pr)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].page < collected[j].page })

	var refs []types.WorkRef
	for _, pr := range collected {
		refs = append(refs, pr.refs...)
	}
	return refs, nil
}
