// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explore

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/pdiddy/bib-explorer/pkg/types"
)

// fakeLOC serves canned responses keyed by URL path. Relationship pages
// additionally key on the page parameter.
type fakeLOC struct {
	responses map[string]string
	pages     map[string]string
}

func (f *fakeLOC) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/resources/works/relationships/contributorto/" {
		if body, ok := f.pages[r.URL.Query().Get("page")]; ok {
			fmt.Fprint(w, body)
			return
		}
		http.NotFound(w, r)
		return
	}
	if body, ok := f.responses[r.URL.Path]; ok {
		fmt.Fprint(w, body)
		return
	}
	http.NotFound(w, r)
}

func authorityDoc(lccn, label string) string {
	return fmt.Sprintf(`[{"@id":"http://id.loc.gov/authorities/names/%s","@type":["http://www.loc.gov/mads/rdf/v1#Authority"],"http://www.loc.gov/mads/rdf/v1#authoritativeLabel":[{"@value":%q}]}]`, lccn, label)
}

func textWorkDoc(uri string) string {
	return fmt.Sprintf(`[{"@id":%q,"@type":["http://id.loc.gov/ontologies/bibframe/Work","http://id.loc.gov/ontologies/bibframe/Text"]}]`, uri)
}

func newExplorer(t *testing.T, f *fakeLOC, wikidataBody string) *Explorer {
	t.Helper()
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)

	wts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, wikidataBody)
	}))
	t.Cleanup(wts.Close)

	e := New(types.Defaults())
	e.LOC.Base = ts.URL
	e.LOC.HTTPClient = ts.Client()
	e.LOC.Limiter = rate.NewLimiter(rate.Inf, 1)
	e.Wikidata.Endpoint = wts.URL
	e.Wikidata.HTTPClient = wts.Client()
	e.Warnings = &bytes.Buffer{}
	return e
}

func TestSearchCombinesBothSides(t *testing.T) {
	f := &fakeLOC{responses: map[string]string{
		"/authorities/names/suggest2/": `{"count":2,"hits":[
			{"uri":"http://id.loc.gov/authorities/names/n1","token":"n1","suggestLabel":"Melville","aLabel":"Melville","contributions":12},
			{"uri":"http://id.loc.gov/authorities/names/n2","token":"n2","suggestLabel":"Melvin","aLabel":"Melvin","contributions":90}]}`,
		"/resources/works/suggest2/": `{"count":2,"hits":[
			{"uri":"http://id.loc.gov/resources/works/200","token":"200","aLabel":"Typee and other tales"},
			{"uri":"http://id.loc.gov/resources/works/100","token":"100","aLabel":"Melville"}]}`,
		"/authorities/names/n1.json": authorityDoc("n1", "Melville, Herman, 1819-1891"),
		"/authorities/names/n2.json": authorityDoc("n2", "Melvin, A. Gordon"),
	}}
	wikidata := `{"results":{"bindings":[{"lccn":{"value":"n1"},"itemLabel":{"value":"Herman Melville"},"itemDescription":{"value":"American novelist"}}]}}`

	e := newExplorer(t, f, wikidata)
	result, err := e.Search(context.Background(), "melville")
	require.NoError(t, err)

	require.Len(t, result.Contributors, 2)
	// Higher contribution count first, regardless of endpoint order.
	assert.Equal(t, "n2", result.Contributors[0].Hit.Token)
	assert.Equal(t, "Melvin, A. Gordon", result.Contributors[0].AuthorityLabel)
	assert.Equal(t, "Melville, Herman, 1819-1891", result.Contributors[1].AuthorityLabel)

	// Enrichment attached where the knowledge graph had a match.
	require.NotNil(t, result.Contributors[1].Fact)
	assert.Equal(t, "Herman Melville", result.Contributors[1].Fact.Label)
	assert.Nil(t, result.Contributors[0].Fact)

	require.Len(t, result.Titles, 2)
	assert.Equal(t, "100", result.Titles[0].Hit.Token)
}

func TestSearchOneSideFailingStillAnswers(t *testing.T) {
	f := &fakeLOC{responses: map[string]string{
		// Names endpoint missing entirely; works side answers.
		"/resources/works/suggest2/": `{"count":1,"hits":[{"uri":"u1","token":"1","aLabel":"Moby Dick"}]}`,
	}}
	e := newExplorer(t, f, `{"results":{"bindings":[]}}`)

	result, err := e.Search(context.Background(), "moby dick")
	require.NoError(t, err)
	assert.Empty(t, result.Contributors)
	require.Len(t, result.Titles, 1)
}

func TestSearchRejectsShortQuery(t *testing.T) {
	e := newExplorer(t, &fakeLOC{}, `{}`)
	_, err := e.Search(context.Background(), "a")
	assert.Error(t, err)
}

func TestSearchNumericQueryRoutesToInstances(t *testing.T) {
	f := &fakeLOC{responses: map[string]string{
		"/resources/instances/suggest2/": `{"count":2,"hits":[
			{"uri":"i2","token":"200","aLabel":"Second"},
			{"uri":"i1","token":"100","aLabel":"First"}]}`,
	}}
	e := newExplorer(t, f, `{}`)

	result, err := e.Search(context.Background(), "12345")
	require.NoError(t, err)
	require.Len(t, result.Instances, 2)
	assert.Equal(t, "100", result.Instances[0].Token)
	assert.Empty(t, result.Contributors)
}

func TestSearchFiltersExcludedWorks(t *testing.T) {
	f := &fakeLOC{responses: map[string]string{
		"/authorities/names/suggest2/": `{"count":0,"hits":[]}`,
		"/resources/works/suggest2/": `{"count":2,"hits":[
			{"uri":"http://id.loc.gov/resources/works/bad","token":"1","aLabel":"Broken"},
			{"uri":"http://id.loc.gov/resources/works/ok","token":"2","aLabel":"Fine"}]}`,
	}}
	e := newExplorer(t, f, `{"results":{"bindings":[]}}`)
	e.Session.Exclude("http://id.loc.gov/resources/works/bad")

	result, err := e.Search(context.Background(), "anything")
	require.NoError(t, err)
	require.Len(t, result.Titles, 1)
	assert.Equal(t, "Fine", result.Titles[0].Hit.ALabel)
}

func TestContributorWorksGroups(t *testing.T) {
	melville := "Melville, Herman, 1819-1891"
	f := &fakeLOC{
		responses: map[string]string{
			"/authorities/names/n1.json": authorityDoc("n1", melville),
			"/resources/works/100.bibframe.json": textWorkDoc("http://id.loc.gov/resources/works/100"),
			"/resources/works/101.bibframe.json": textWorkDoc("http://id.loc.gov/resources/works/101"),
			"/resources/works/102.bibframe.json": `[{"@id":"http://id.loc.gov/resources/works/102","@type":["http://id.loc.gov/ontologies/bibframe/Work","http://id.loc.gov/ontologies/bibframe/NotatedMusic"]}]`,
		},
		pages: map[string]string{
			"0": fmt.Sprintf(`{"summary":{"totalPages":0},"results":[
				{"uri":"http://id.loc.gov/resources/works/100","label":"%s. Moby Dick"},
				{"uri":"http://id.loc.gov/resources/works/101","label":"%s. Moby Dick."},
				{"uri":"http://id.loc.gov/resources/works/102","label":"%s. Sea pieces"}]}`,
				melville, melville, melville),
		},
	}
	e := newExplorer(t, f, `{}`)

	grouped, err := e.ContributorWorks(context.Background(), "n1")
	require.NoError(t, err)

	// The two text records share a normalized title and merge.
	require.Len(t, grouped.Multiple, 1)
	assert.Equal(t, "Moby Dick", grouped.Multiple[0].DisplayTitle)
	assert.Len(t, grouped.Multiple[0].Works, 2)
	assert.Empty(t, grouped.Single)

	require.Len(t, grouped.NonText, 1)
	assert.Equal(t, "Sea pieces", grouped.NonText[0].DisplayTitle)
	assert.Equal(t, "NotatedMusic", grouped.NonText[0].Works[0].WorkType)
}

func TestContributorWorksSurvivesRecordFailures(t *testing.T) {
	f := &fakeLOC{
		responses: map[string]string{
			"/authorities/names/n1.json": authorityDoc("n1", "Melville, Herman, 1819-1891"),
			// No bibframe document for the work; it still appears.
		},
		pages: map[string]string{
			"0": `{"summary":{"totalPages":0},"results":[{"uri":"http://id.loc.gov/resources/works/100","label":"Melville, Herman, 1819-1891. Moby Dick"}]}`,
		},
	}
	e := newExplorer(t, f, `{}`)

	grouped, err := e.ContributorWorks(context.Background(), "n1")
	require.NoError(t, err)
	require.Len(t, grouped.Single, 1)
	assert.Equal(t, "Moby Dick", grouped.Single[0].DisplayTitle)
	// Degraded records default to text.
	assert.True(t, grouped.Single[0].Works[0].IsText)
}

func TestRelatedWorksRanksSiblings(t *testing.T) {
	workURI := "http://id.loc.gov/resources/works/100"
	rawDoc := fmt.Sprintf(`[
		{"@id":%q,"@type":["http://id.loc.gov/ontologies/bibframe/Text"],"http://id.loc.gov/ontologies/bibframe/contribution":[{"@id":"_:c0"}]},
		{"@id":"_:c0","http://id.loc.gov/ontologies/bibframe/agent":[{"@id":"http://id.loc.gov/rwo/agents/n1"}]}
	]`, workURI)
	f := &fakeLOC{
		responses: map[string]string{
			"/resources/works/100.bibframe_raw.json": rawDoc,
			"/authorities/names/n1.json":             authorityDoc("n1", "Melville, Herman, 1819-1891"),
		},
		pages: map[string]string{
			"0": `{"summary":{"totalPages":0},"results":[
				{"uri":"http://id.loc.gov/resources/works/100","label":"Moby Dick"},
				{"uri":"http://id.loc.gov/resources/works/300","label":"Moby Dick, or the whale"},
				{"uri":"http://id.loc.gov/resources/works/200","label":"Moby Dick"},
				{"uri":"http://id.loc.gov/resources/works/400","label":"Omoo: a narrative of adventures"}]}`,
		},
	}
	e := newExplorer(t, f, `{}`)

	result, err := e.RelatedWorks(context.Background(), workURI, "Moby Dick", "moby dick")
	require.NoError(t, err)
	assert.Equal(t, "Melville, Herman, 1819-1891", result.Contributor)

	// The clicked work itself never appears.
	for _, s := range append(result.Good, result.Poor...) {
		assert.NotEqual(t, workURI, s.URI)
	}
	require.Len(t, result.Good, 1)
	assert.Equal(t, "http://id.loc.gov/resources/works/200", result.Good[0].URI)
	require.Len(t, result.Poor, 2)
}

func TestRelatedWorksExcludesBrokenRecord(t *testing.T) {
	workURI := "http://id.loc.gov/resources/works/gone"
	e := newExplorer(t, &fakeLOC{}, `{}`)

	_, err := e.RelatedWorks(context.Background(), workURI, "label", "query")
	require.ErrorIs(t, err, ErrWorkExcluded)
	assert.True(t, e.Session.Excluded(workURI))
}

func TestInstanceSummary(t *testing.T) {
	workURI := "http://id.loc.gov/resources/works/100"
	instURI := "http://id.loc.gov/resources/instances/500"
	workDoc := fmt.Sprintf(`[
		{"@id":%q,"@type":["http://id.loc.gov/ontologies/bibframe/Text"],
		 "http://id.loc.gov/ontologies/bibframe/title":[{"@id":"_:t0"}],
		 "http://id.loc.gov/ontologies/bibframe/contribution":[{"@id":"_:c0"}],
		 "http://id.loc.gov/ontologies/bibframe/language":[{"@id":"http://id.loc.gov/vocabulary/languages/eng"}],
		 "http://id.loc.gov/ontologies/bibframe/subject":[{"@id":"_:s0"},{"@id":"%s/authorities/subjects/sh1"}]},
		{"@id":"_:t0","http://id.loc.gov/ontologies/bibframe/mainTitle":[{"@value":"Moby Dick"}]},
		{"@id":"_:c0","http://id.loc.gov/ontologies/bibframe/agent":[{"@id":"_:a0"}]},
		{"@id":"_:a0","http://www.w3.org/2000/01/rdf-schema#label":[{"@value":"Melville, Herman"}]},
		{"@id":"_:s0","http://www.loc.gov/mads/rdf/v1#authoritativeLabel":[{"@value":"Whales--Fiction"}]}
	]`, workURI, "BASE")
	instDoc := fmt.Sprintf(`[
		{"@id":%q,"@type":["http://id.loc.gov/ontologies/bibframe/Instance"],
		 "http://id.loc.gov/ontologies/bibframe/publicationStatement":[{"@value":"New York : Harper, 1851, c1850"}],
		 "http://id.loc.gov/ontologies/bibframe/extent":[{"@id":"_:e0"}],
		 "http://id.loc.gov/ontologies/bibframe/identifiedBy":[{"@id":"_:i0"}]},
		{"@id":"_:e0","http://www.w3.org/2000/01/rdf-schema#label":[{"@value":"635 pages"}]},
		{"@id":"_:i0","@type":["http://id.loc.gov/ontologies/bibframe/Isbn"],"http://www.w3.org/1999/02/22-rdf-syntax-ns#value":[{"@value":"9780000000001"}]}
	]`, instURI)

	f := &fakeLOC{responses: map[string]string{
		"/resources/works/100.bibframe.json":      "",
		"/resources/instances/500.bibframe.json":  instDoc,
		"/authorities/subjects/sh1.json":          `[{"@id":"x","http://www.loc.gov/mads/rdf/v1#authoritativeLabel":[{"@value":"Whaling"}]}]`,
	}}
	e := newExplorer(t, f, `{}`)
	// The subject authority URI must point at the fake server.
	f.responses["/resources/works/100.bibframe.json"] =
		strings.ReplaceAll(workDoc, "BASE", e.LOC.Base)

	s, err := e.InstanceSummary(context.Background(), workURI, instURI)
	require.NoError(t, err)

	assert.Equal(t, "Moby Dick", s.Title)
	require.Len(t, s.Contributors, 1)
	assert.Equal(t, "Melville, Herman", s.Contributors[0].Name)
	assert.Equal(t, []string{"eng"}, s.Language)

	require.Len(t, s.Subjects, 2)
	assert.Equal(t, "Whales--Fiction", s.Subjects[0].Label)
	assert.Equal(t, "Whaling", s.Subjects[1].Label)

	assert.Equal(t, "New York : Harper, 1851, c1850", s.PublicationStatement)
	assert.Equal(t, "1851", s.NewestYear)
	assert.Equal(t, "635 pages", s.Extent)
	assert.Equal(t, []string{"9780000000001"}, s.ISBN)
}

func TestInstanceListSortedByIdentifier(t *testing.T) {
	workURI := "http://id.loc.gov/resources/works/100"
	workDoc := fmt.Sprintf(`[
		{"@id":%q,"@type":["http://id.loc.gov/ontologies/bibframe/Text"],
		 "http://id.loc.gov/ontologies/bibframe/hasInstance":[{"@id":"http://id.loc.gov/resources/instances/900"},{"@id":"http://id.loc.gov/resources/instances/200"}]},
		{"@id":"http://id.loc.gov/resources/instances/900","http://www.w3.org/2000/01/rdf-schema#label":[{"@value":"Ninth edition"}]},
		{"@id":"http://id.loc.gov/resources/instances/200","http://www.w3.org/2000/01/rdf-schema#label":[{"@value":"Second edition"}]}
	]`, workURI)
	f := &fakeLOC{responses: map[string]string{
		"/resources/works/100.bibframe.json": workDoc,
	}}
	e := newExplorer(t, f, `{}`)

	list, err := e.InstanceList(context.Background(), workURI)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second edition", list[0].Label)
	assert.Equal(t, "Ninth edition", list[1].Label)
}
