// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package explore drives the interactive flows: searching contributors and
// titles, expanding a contributor into their grouped works, disambiguating
// a clicked work against its siblings, and assembling the summary view of
// one work/instance pair.
package explore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pdiddy/bib-explorer/internal/graph"
	"github.com/pdiddy/bib-explorer/internal/loc"
	"github.com/pdiddy/bib-explorer/internal/rank"
	"github.com/pdiddy/bib-explorer/internal/reconcile"
	"github.com/pdiddy/bib-explorer/internal/session"
	"github.com/pdiddy/bib-explorer/internal/titles"
	"github.com/pdiddy/bib-explorer/internal/wikidata"
	"github.com/pdiddy/bib-explorer/pkg/types"
)

// ErrWorkExcluded reports that a clicked work's record could not be
// fetched and the work has been marked broken for the rest of the session.
// The caller is expected to repeat the search once; the broken URI is
// filtered from the repeat automatically.
var ErrWorkExcluded = errors.New("work record unavailable, excluded for this session")

// ErrSuperseded reports that a newer action started while this one was in
// flight, so its results were discarded unseen.
var ErrSuperseded = errors.New("superseded by a newer action")

// Explorer holds the clients and session state shared by all flows.
type Explorer struct {
	LOC      *loc.Client
	Wikidata *wikidata.Client
	Session  *session.Session
	Cfg      types.Config

	// Warnings receives non-fatal complaints (failed enrichment, skipped
	// records). Defaults to io.Discard when nil.
	Warnings io.Writer
}

func New(cfg types.Config) *Explorer {
	return &Explorer{
		LOC:      loc.NewClient(cfg.Search),
		Wikidata: wikidata.NewClient(cfg.Enrich),
		Session:  session.New(),
		Cfg:      cfg,
	}
}

func (e *Explorer) warnf(format string, args ...any) {
	w := e.Warnings
	if w == nil {
		w = io.Discard
	}
	fmt.Fprintf(w, format, args...)
}

// ContributorHit is one name-authority hit with its resolved authoritative
// label and, when enrichment ran, the external facts for it.
type ContributorHit struct {
	Hit            types.SearchHit     `json:"hit" yaml:"hit"`
	AuthorityLabel string              `json:"authority_label" yaml:"authority_label"`
	Fact           *types.WikidataFact `json:"fact,omitempty" yaml:"fact,omitempty"`
}

// SearchResult is the combined answer to one search action.
type SearchResult struct {
	Query        string            `json:"query" yaml:"query"`
	Contributors []ContributorHit  `json:"contributors" yaml:"contributors"`
	Titles       []rank.Candidate  `json:"titles" yaml:"titles"`
	Instances    []types.SearchHit `json:"instances,omitempty" yaml:"instances,omitempty"`
}

// Search runs the two-sided search: contributors from the name-authority
// file and titles from the works index, fetched concurrently. An all-digit
// query is treated as an identifier and routed to the instances index
// instead. Results publish only if no newer action has started meanwhile.
func (e *Explorer) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < e.Cfg.Search.MinQueryLength {
		return nil, fmt.Errorf("query %q is shorter than %d characters", query, e.Cfg.Search.MinQueryLength)
	}

	epoch := e.Session.Begin()

	if isAllDigits(query) {
		return e.searchInstances(ctx, epoch, query)
	}

	var (
		wg                 sync.WaitGroup
		names, works       *types.SuggestResponse
		namesErr, worksErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		names, namesErr = e.LOC.SuggestNames(ctx, query)
	}()
	go func() {
		defer wg.Done()
		works, worksErr = e.LOC.SuggestWorks(ctx, query)
	}()
	wg.Wait()

	// One side failing still yields the other side's results.
	if namesErr != nil && worksErr != nil {
		return nil, fmt.Errorf("search failed: %v; %v", namesErr, worksErr)
	}
	if namesErr != nil {
		e.warnf("warning: contributor search failed: %v\n", namesErr)
		names = &types.SuggestResponse{}
	}
	if worksErr != nil {
		e.warnf("warning: title search failed: %v\n", worksErr)
		works = &types.SuggestResponse{}
	}

	contributors := e.resolveContributors(ctx, names.Hits)
	e.enrich(ctx, contributors)

	titleHits := make([]types.SearchHit, 0, len(works.Hits))
	for _, hit := range works.Hits {
		if e.Session.Excluded(hit.URI) {
			continue
		}
		titleHits = append(titleHits, hit)
	}

	result := &SearchResult{
		Query:        query,
		Contributors: contributors,
		Titles:       rank.Rank(titleHits, query),
	}

	var published *SearchResult
	e.Session.Apply(epoch, func() { published = result })
	if published == nil {
		return nil, ErrSuperseded
	}
	return published, nil
}

func (e *Explorer) searchInstances(ctx context.Context, epoch uint64, query string) (*SearchResult, error) {
	sr, err := e.LOC.SuggestInstances(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("instance search: %w", err)
	}

	hits := append([]types.SearchHit(nil), sr.Hits...)
	sort.SliceStable(hits, func(i, j int) bool {
		return numericToken(hits[i].Token) < numericToken(hits[j].Token)
	})

	result := &SearchResult{Query: query, Instances: hits}
	var published *SearchResult
	e.Session.Apply(epoch, func() { published = result })
	if published == nil {
		return nil, ErrSuperseded
	}
	return published, nil
}

// resolveContributors orders the name hits by contribution count and
// resolves each LCCN token to its authoritative label concurrently. A hit
// whose resolution fails keeps its suggest label.
func (e *Explorer) resolveContributors(ctx context.Context, hits []types.SearchHit) []ContributorHit {
	ordered := append([]types.SearchHit(nil), hits...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Contributions > ordered[j].Contributions
	})

	contributors := make([]ContributorHit, len(ordered))
	var wg sync.WaitGroup
	for i, hit := range ordered {
		contributors[i] = ContributorHit{Hit: hit, AuthorityLabel: bestLabel(hit)}
		if !loc.IsLCCN(hit.Token) {
			continue
		}
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			label, err := e.LOC.AuthorityLabel(ctx, token)
			if err != nil {
				e.warnf("warning: authority lookup %s: %v\n", token, err)
				return
			}
			contributors[i].AuthorityLabel = label
		}(i, hit.Token)
	}
	wg.Wait()
	return contributors
}

// enrich decorates contributors with external facts in one batched query.
// Failures only warn; the search result stands without them.
func (e *Explorer) enrich(ctx context.Context, contributors []ContributorHit) {
	if !e.Cfg.Enrich.Enabled || len(contributors) == 0 {
		return
	}
	var lccns []string
	for _, c := range contributors {
		if loc.IsLCCN(c.Hit.Token) {
			lccns = append(lccns, c.Hit.Token)
		}
	}
	facts, err := e.Wikidata.FactsByLCCN(ctx, lccns)
	if err != nil {
		e.warnf("warning: enrichment failed: %v\n", err)
		return
	}
	for i := range contributors {
		if fact, ok := facts[contributors[i].Hit.Token]; ok {
			f := fact
			contributors[i].Fact = &f
		}
	}
}

// ContributorWorks expands one contributor into their complete grouped
// catalog: every relationship page is fetched, every work record is pulled
// and classified concurrently, titles are extracted against the
// contributor's authoritative label, and the result is grouped by
// normalized title.
func (e *Explorer) ContributorWorks(ctx context.Context, lccn string) (*reconcile.Grouped, error) {
	contributor := ""
	if label, err := e.LOC.AuthorityLabel(ctx, lccn); err == nil {
		contributor = label
	} else {
		e.warnf("warning: authority lookup %s: %v\n", lccn, err)
	}

	refs, err := e.LOC.ContributorWorks(ctx, lccn, e.Cfg.Explore.ContributorPageCap)
	if err != nil {
		return nil, fmt.Errorf("listing works for %s: %w", lccn, err)
	}
	refs = reconcile.DedupeByURI(refs)

	works := make([]*reconcile.Work, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref types.WorkRef) {
			defer wg.Done()
			works[i] = e.buildWork(ctx, ref, contributor)
		}(i, ref)
	}
	wg.Wait()

	return reconcile.GroupWorks(works), nil
}

// buildWork assembles one enriched work from its relationship row. Record
// fetch failures degrade to a text-classified work with a label-derived
// title; the row is never dropped.
func (e *Explorer) buildWork(ctx context.Context, ref types.WorkRef, contributor string) *reconcile.Work {
	w := &reconcile.Work{Ref: ref, IsText: true}

	id := graph.TrailingSegment(ref.URI)
	g, err := e.LOC.WorkGraph(ctx, id)
	if err != nil {
		e.warnf("warning: work record %s: %v\n", id, err)
	} else {
		w.Bibframe = g
		c := g.Classify(ref.URI)
		w.IsText, w.IsNonText, w.WorkType = c.IsText, c.IsNonText, c.WorkType
		w.Details = instanceDetail(g, ref.URI)
	}

	w.DisplayTitle = e.displayTitle(ref, g, contributor, id)
	w.NormalizedTitle = reconcile.NormalizeKey(w.DisplayTitle)
	return w
}

// displayTitle runs the extraction ladder: the relationship label cleaned
// of the contributor citation, then the record's access point or title,
// then a generated placeholder.
func (e *Explorer) displayTitle(ref types.WorkRef, g graph.Graph, contributor, id string) string {
	if ref.Label != "" {
		if t := titles.Extract(ref.Label, contributor); t != "" {
			return t
		}
	}
	if g != nil {
		if aap := g.AAP(ref.URI); aap != "" {
			if t := titles.Extract(aap, contributor); t != "" {
				return t
			}
		}
		if t := g.Title(ref.URI); t != "" {
			return t
		}
	}
	return "Work " + id
}

// instanceDetail pulls the publication facts from the instance node
// inlined in a work document, when there is one.
func instanceDetail(g graph.Graph, workURI string) *types.InstanceDetail {
	refs := g.InstanceRefs(workURI)
	if len(refs) == 0 {
		return nil
	}
	d := &types.InstanceDetail{
		ResponsibilityStatement: g.ResponsibilityStatement(refs[0]),
		PublicationStatement:    g.PublicationStatement(refs[0]),
	}
	if year, ok := graph.NewestYear(d.PublicationStatement); ok {
		d.NewestYear = year
	}
	if d.ResponsibilityStatement == "" && d.PublicationStatement == "" {
		return nil
	}
	return d
}

// RelatedResult is the disambiguation view for one clicked work: its
// siblings by the same contributor, split at the match cutoff.
type RelatedResult struct {
	Contributor string           `json:"contributor" yaml:"contributor"`
	Good        []rank.ScoredRef `json:"good" yaml:"good"`
	Poor        []rank.ScoredRef `json:"poor" yaml:"poor"`
}

// RelatedWorks finds the other works by the clicked work's first
// contributor and ranks them against both the session query and the
// clicked label. A work whose record cannot be fetched is excluded for the
// session and ErrWorkExcluded is returned so the caller can re-search.
func (e *Explorer) RelatedWorks(ctx context.Context, workURI, clickedLabel, query string) (*RelatedResult, error) {
	id := graph.TrailingSegment(workURI)

	raw, err := e.LOC.WorkGraphRaw(ctx, id)
	if err != nil {
		e.Session.Exclude(workURI)
		return nil, fmt.Errorf("%w: %s", ErrWorkExcluded, workURI)
	}

	lccn, contributor := e.firstContributor(ctx, raw, workURI, id)
	if lccn == "" {
		return nil, fmt.Errorf("work %s has no resolvable contributor", id)
	}

	refs, err := e.LOC.ContributorWorks(ctx, lccn, e.Cfg.Explore.RelatedPageCap)
	if err != nil {
		return nil, fmt.Errorf("listing works for %s: %w", lccn, err)
	}
	refs = reconcile.DedupeByURI(refs)

	kept := refs[:0]
	for _, ref := range refs {
		if ref.URI == workURI || e.Session.Excluded(ref.URI) {
			continue
		}
		kept = append(kept, ref)
	}

	scored := rank.ScoreRefs(kept, query, clickedLabel)
	if limit := e.Cfg.Explore.BestMatchLimit; limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	good, poor := rank.Partition(scored)

	return &RelatedResult{Contributor: contributor, Good: good, Poor: poor}, nil
}

// firstContributor resolves the first contribution agent of a work to an
// LCCN and a display label. Blank-node agents carry no usable identifier
// in the raw document, so those fall back to the processed document where
// the agent is materialized with its label.
func (e *Explorer) firstContributor(ctx context.Context, raw graph.Graph, workURI, id string) (lccn, label string) {
	agents := raw.AgentRefs(workURI)

	if len(agents) == 0 || graph.IsBlankID(agents[0]) {
		processed, err := e.LOC.WorkGraph(ctx, id)
		if err != nil {
			return "", ""
		}
		if len(agents) > 0 && graph.IsBlankID(agents[0]) {
			label = raw.BlankNodeLabel(agents[0])
		}
		agents = processed.AgentRefs(workURI)
		if label == "" && len(agents) > 0 {
			label = processed.BlankNodeLabel(agents[0])
		}
	}
	if len(agents) == 0 {
		return "", ""
	}

	token := graph.TrailingSegment(agents[0])
	if !loc.IsLCCN(token) {
		return "", label
	}
	if label == "" {
		if l, err := e.LOC.AuthorityLabel(ctx, token); err == nil {
			label = l
		}
	}
	return token, label
}

// InstanceSummary assembles the full summary of one work/instance pair.
// Subject resolution is best-effort per heading; a heading that cannot be
// resolved is shown by its raw identifier rather than dropped.
func (e *Explorer) InstanceSummary(ctx context.Context, workURI, instanceURI string) (*types.Summary, error) {
	workID := graph.TrailingSegment(workURI)
	work, err := e.LOC.WorkGraph(ctx, workID)
	if err != nil {
		return nil, fmt.Errorf("work record %s: %w", workID, err)
	}

	s := &types.Summary{
		WorkURI:     workURI,
		InstanceURI: instanceURI,
		Title:       work.Title(workURI),
		Language:    work.Languages(workURI),
	}
	if s.Title == "" {
		s.Title = "Work " + workID
	}

	for _, agent := range work.AgentRefs(workURI) {
		s.Contributors = append(s.Contributors, e.resolveAgent(ctx, work, agent))
	}

	limit := e.Cfg.Explore.SubjectDisplayLimit
	for _, ref := range work.SubjectRefs(workURI) {
		if limit > 0 && len(s.Subjects) >= limit {
			break
		}
		s.Subjects = append(s.Subjects, e.resolveSubject(ctx, work, ref))
	}

	if instanceURI != "" {
		instID := graph.TrailingSegment(instanceURI)
		inst, err := e.LOC.InstanceGraph(ctx, instID)
		if err != nil {
			e.warnf("warning: instance record %s: %v\n", instID, err)
		} else {
			s.PublicationStatement = inst.PublicationStatement(instanceURI)
			s.Extent = inst.Extent(instanceURI)
			s.ISBN = inst.ISBNs(instanceURI)
			if year, ok := graph.NewestYear(s.PublicationStatement); ok {
				s.NewestYear = year
			}
		}
	}

	return s, nil
}

func (e *Explorer) resolveAgent(ctx context.Context, g graph.Graph, agent string) types.Contributor {
	if graph.IsBlankID(agent) {
		return types.Contributor{Name: g.BlankNodeLabel(agent)}
	}
	c := types.Contributor{URI: agent}
	if label := g.BlankNodeLabel(agent); label != "" {
		c.Name = label
		return c
	}
	token := graph.TrailingSegment(agent)
	if loc.IsLCCN(token) {
		if label, err := e.LOC.AuthorityLabel(ctx, token); err == nil {
			c.Name = label
			return c
		}
	}
	c.Name = token
	return c
}

// resolveSubject routes a subject reference by its shape: blank nodes
// resolve inside the work document, hub UUIDs resolve through the hub's
// access point, and everything else is a subject authority.
func (e *Explorer) resolveSubject(ctx context.Context, g graph.Graph, ref string) types.Subject {
	if graph.IsBlankID(ref) {
		if label := g.BlankNodeLabel(ref); label != "" {
			return types.Subject{Label: label}
		}
		return types.Subject{Label: ref}
	}
	if label := g.BlankNodeLabel(ref); label != "" {
		return types.Subject{Label: label, URI: ref}
	}
	if loc.IsHubID(ref) {
		if hub, err := e.LOC.HubGraph(ctx, graph.TrailingSegment(ref)); err == nil {
			if aap := hub.AAP(ref); aap != "" {
				return types.Subject{Label: aap, URI: ref}
			}
		}
		return types.Subject{Label: graph.TrailingSegment(ref), URI: ref}
	}
	if label, err := e.LOC.SubjectAuthorityLabel(ctx, ref); err == nil {
		return types.Subject{Label: label, URI: ref}
	}
	return types.Subject{Label: graph.TrailingSegment(ref), URI: ref}
}

// InstanceList lists the instances of a work in ascending identifier
// order, each with its best display label.
func (e *Explorer) InstanceList(ctx context.Context, workURI string) ([]types.WorkRef, error) {
	workID := graph.TrailingSegment(workURI)
	work, err := e.LOC.WorkGraph(ctx, workID)
	if err != nil {
		return nil, fmt.Errorf("work record %s: %w", workID, err)
	}

	refs := work.InstanceRefs(workURI)
	list := make([]types.WorkRef, 0, len(refs))
	for _, ref := range refs {
		label := work.InstanceLabel(ref)
		if label == "" {
			label = "Instance " + graph.TrailingSegment(ref)
		}
		list = append(list, types.WorkRef{URI: ref, Label: label})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return numericToken(graph.TrailingSegment(list[i].URI)) < numericToken(graph.TrailingSegment(list[j].URI))
	})
	return list, nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// numericToken parses leading digits, treating non-numeric tokens as zero
// so they sort first without disturbing the numeric order.
func numericToken(token string) int {
	end := 0
	for end < len(token) && token[end] >= '0' && token[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, _ := strconv.Atoi(token[:end])
	return n
}

func bestLabel(hit types.SearchHit) string {
	if hit.ALabel != "" {
		return hit.ALabel
	}
	return hit.SuggestLabel
}
