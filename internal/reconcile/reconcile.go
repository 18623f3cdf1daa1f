// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile collapses the raw work listings of a contributor into
// display-ready title groups: duplicate records merge by URI, variant
// spellings of one title merge under a punctuation-insensitive key, and
// each group displays its most frequent literal form.
package reconcile

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pdiddy/bib-explorer/internal/graph"
	"github.com/pdiddy/bib-explorer/pkg/types"
)

// Work is one contributor work after enrichment: the relationship row plus
// the derived title, classification, and the raw graph retained for later
// field extraction. Immutable once the enrichment pass completes.
type Work struct {
	Ref             types.WorkRef
	DisplayTitle    string
	NormalizedTitle string
	IsText          bool
	IsNonText       bool
	WorkType        string
	Bibframe        graph.Graph
	Details         *types.InstanceDetail
}

// Group aggregates the works sharing one normalized title within a
// partition. DisplayTitle is the most frequent literal form among members,
// ties broken by first appearance.
type Group struct {
	Key          string
	DisplayTitle string
	Works        []*Work
}

// Grouped is the display ordering of a contributor's works: text groups
// with multiple instances first, single-instance text groups next, and
// non-text groups last. Each section is sorted by display title with a
// locale-aware collator.
type Grouped struct {
	Multiple []*Group
	Single   []*Group
	NonText  []*Group
}

// punctuation stripped by NormalizeKey.
const punctuation = ".,;:!?-–—'\"'“”[](){}‘’"

// NormalizeKey lowercases a title, strips punctuation, and collapses
// whitespace runs, so variants differing only in those ways share a key.
func NormalizeKey(title string) string {
	lowered := strings.ToLower(title)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if !strings.ContainsRune(punctuation, r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// DedupeByURI drops later records that repeat an earlier record's URI,
// preserving first-occurrence order.
func DedupeByURI(refs []types.WorkRef) []types.WorkRef {
	seen := make(map[string]struct{}, len(refs))
	deduped := refs[:0:0]
	for _, r := range refs {
		if _, ok := seen[r.URI]; ok {
			continue
		}
		seen[r.URI] = struct{}{}
		deduped = append(deduped, r)
	}
	return deduped
}

// DedupeWorks is DedupeByURI over enriched works.
func DedupeWorks(works []*Work) []*Work {
	seen := make(map[string]struct{}, len(works))
	deduped := works[:0:0]
	for _, w := range works {
		if _, ok := seen[w.Ref.URI]; ok {
			continue
		}
		seen[w.Ref.URI] = struct{}{}
		deduped = append(deduped, w)
	}
	return deduped
}

// GroupWorks partitions works by text/non-text, clusters each partition by
// normalized title, elects the canonical display form per cluster, and
// orders everything for display. Works must already carry their
// DisplayTitle; NormalizedTitle is derived here if unset.
func GroupWorks(works []*Work) *Grouped {
	works = DedupeWorks(works)

	// Count literal forms across all works first so the canonical form
	// reflects every record, dedup notwithstanding.
	counts := make(map[string]map[string]int)
	firstSeen := make(map[string]map[string]int)
	for i, w := range works {
		if w.NormalizedTitle == "" {
			w.NormalizedTitle = NormalizeKey(w.DisplayTitle)
		}
		key := w.NormalizedTitle
		if counts[key] == nil {
			counts[key] = map[string]int{}
			firstSeen[key] = map[string]int{}
		}
		if _, ok := firstSeen[key][w.DisplayTitle]; !ok {
			firstSeen[key][w.DisplayTitle] = i
		}
		counts[key][w.DisplayTitle]++
	}

	textGroups := map[string]*Group{}
	nonTextGroups := map[string]*Group{}
	var textOrder, nonTextOrder []string
	for _, w := range works {
		target := textGroups
		order := &textOrder
		if w.IsNonText {
			target = nonTextGroups
			order = &nonTextOrder
		}
		g, ok := target[w.NormalizedTitle]
		if !ok {
			g = &Group{
				Key:          w.NormalizedTitle,
				DisplayTitle: canonicalForm(counts[w.NormalizedTitle], firstSeen[w.NormalizedTitle]),
			}
			target[w.NormalizedTitle] = g
			*order = append(*order, w.NormalizedTitle)
		}
		g.Works = append(g.Works, w)
	}

	coll := collate.New(language.English)
	sortGroups := func(m map[string]*Group, keys []string) []*Group {
		groups := make([]*Group, 0, len(keys))
		for _, k := range keys {
			groups = append(groups, m[k])
		}
		sort.SliceStable(groups, func(i, j int) bool {
			return coll.CompareString(groups[i].DisplayTitle, groups[j].DisplayTitle) < 0
		})
		return groups
	}

	out := &Grouped{NonText: sortGroups(nonTextGroups, nonTextOrder)}
	for _, g := range sortGroups(textGroups, textOrder) {
		if len(g.Works) > 1 {
			out.Multiple = append(out.Multiple, g)
		} else {
			out.Single = append(out.Single, g)
		}
	}
	return out
}

// canonicalForm returns the most frequent literal form; among equally
// frequent forms the earliest-seen one wins.
func canonicalForm(counts map[string]int, firstSeen map[string]int) string {
	var best string
	bestCount := -1
	bestFirst := 0
	for form, count := range counts {
		first := firstSeen[form]
		if count > bestCount || (count == bestCount && first < bestFirst) {
			best = form
			bestCount = count
			bestFirst = first
		}
	}
	return best
}
