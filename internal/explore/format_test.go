// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explore

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bib-explorer/internal/rank"
	"github.com/pdiddy/bib-explorer/internal/reconcile"
	"github.com/pdiddy/bib-explorer/pkg/types"
)

func TestFormatSearchTableSections(t *testing.T) {
	result := &SearchResult{
		Query: "melville",
		Contributors: []ContributorHit{
			{
				Hit:            types.SearchHit{Token: "n1", Contributions: 12},
				AuthorityLabel: "Melville, Herman, 1819-1891",
				Fact:           &types.WikidataFact{Description: "American novelist"},
			},
		},
		Titles: []rank.Candidate{
			{Hit: types.SearchHit{Token: "100", ALabel: "Moby Dick"}},
		},
	}

	var buf bytes.Buffer
	FormatSearchTable(result, &buf)
	out := buf.String()
	assert.Contains(t, out, "Melville, Herman, 1819-1891")
	assert.Contains(t, out, "[HM]")
	assert.Contains(t, out, "12 works")
	assert.Contains(t, out, "American novelist")
	assert.Contains(t, out, "Moby Dick")
}

func TestFormatGroupedTable(t *testing.T) {
	grouped := &reconcile.Grouped{
		Multiple: []*reconcile.Group{{
			DisplayTitle: "Moby Dick",
			Works: []*reconcile.Work{
				{Ref: types.WorkRef{URI: "u1"}, Details: &types.InstanceDetail{NewestYear: "1851"}},
				{Ref: types.WorkRef{URI: "u2"}},
			},
		}},
		NonText: []*reconcile.Group{{
			DisplayTitle: "Sea pieces",
			Works:        []*reconcile.Work{{Ref: types.WorkRef{URI: "u3"}, WorkType: "NotatedMusic"}},
		}},
	}

	var buf bytes.Buffer
	FormatGroupedTable(grouped, &buf)
	out := buf.String()
	assert.Contains(t, out, "Moby Dick (2 records)")
	assert.Contains(t, out, "(1851)")
	assert.Contains(t, out, "[NotatedMusic]")
}

func TestFormatRelatedTableSeparator(t *testing.T) {
	result := &RelatedResult{
		Contributor: "Melville, Herman",
		Good:        []rank.ScoredRef{{WorkRef: types.WorkRef{URI: "g1", Label: "Close"}}},
		Poor:        []rank.ScoredRef{{WorkRef: types.WorkRef{URI: "p1", Label: "Far"}, Distance: 12}},
	}

	var buf bytes.Buffer
	FormatRelatedTable(result, &buf)
	out := buf.String()
	require.Contains(t, out, "----")
	assert.Less(t, indexOf(out, "Close"), indexOf(out, "----"))
	assert.Less(t, indexOf(out, "----"), indexOf(out, "Far"))
}

func TestFormatYAMLRoundTrips(t *testing.T) {
	s := &types.Summary{Title: "Moby Dick", WorkURI: "u1"}
	var buf bytes.Buffer
	require.NoError(t, FormatYAML(s, &buf))
	assert.Contains(t, buf.String(), "title: Moby Dick")
}

func indexOf(s, sub string) int {
	return bytes.Index([]byte(s), []byte(sub))
}
