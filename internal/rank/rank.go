// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders search candidates against the user's query. The
// score is an edit distance over the label with contributor names removed,
// adjusted by domain bonuses, then broken by a fixed chain of tie-break
// flags so the ordering is total and deterministic.
package rank

import (
	"sort"
	"strings"

	"github.com/pdiddy/bib-explorer/internal/strmetrics"
	"github.com/pdiddy/bib-explorer/pkg/types"
)

const (
	// noQueryDistance is the sentinel used when there is no query to
	// score against; it sorts unscored candidates last.
	noQueryDistance = 999999

	// noTokenNumber stands in for a missing or non-numeric identifier
	// token in the final tie-break.
	noTokenNumber = 999999999

	// Distance reductions when the first contributor appears in the
	// label: strong when the query names that contributor, weak
	// otherwise.
	authorQueryBonus = 25
	contributorBonus = 8

	// goodMatchCutoff splits instance-disambiguation candidates into
	// good and poor matches.
	goodMatchCutoff = 5
)

// Candidate is a hit annotated with its adjusted distance and the
// tie-break flags derived for it. Transient: built for one ranking pass
// and discarded after display.
type Candidate struct {
	Hit types.SearchHit

	// Distance is the adjusted edit distance, floored at zero.
	Distance int

	// HasContributorInLabel is true when the hit's first contributor
	// appears verbatim in the original label.
	HasContributorInLabel bool

	// IsEnglish is true when any language tag reads as English.
	IsEnglish bool

	// TokenNum is the numeric form of the identifier token, or
	// noTokenNumber when it has none.
	TokenNum int
}

// Rank scores the hits against query and returns them best-first. With an
// empty query every candidate carries the sentinel distance and only the
// tie-break chain orders them.
func Rank(hits []types.SearchHit, query string) []Candidate {
	candidates := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, score(hit, query))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return less(candidates[i], candidates[j])
	})
	return candidates
}

func score(hit types.SearchHit, query string) Candidate {
	label := hit.ALabel
	if label == "" {
		label = hit.SuggestLabel
	}

	var firstContributor string
	if len(hit.More.Contributors) > 0 {
		firstContributor = hit.More.Contributors[0]
	}
	hasContributor := firstContributor != "" && hit.ALabel != "" &&
		strings.Contains(hit.ALabel, firstContributor)

	// Remove every contributor name before measuring distance so the
	// author citation does not drown out the title.
	stripped := label
	for _, contributor := range hit.More.Contributors {
		stripped = strings.ReplaceAll(stripped, contributor, "")
		stripped = strings.TrimSpace(strings.TrimPrefix(stripped, ". "))
		stripped = strings.TrimSpace(stripped)
	}

	distance := noQueryDistance
	if query != "" {
		distance = strmetrics.EditDistance(strings.ToLower(query), strings.ToLower(stripped))
		if hasContributor {
			bonus := contributorBonus
			if strings.Contains(strings.ToLower(firstContributor), strings.ToLower(query)) {
				bonus = authorQueryBonus
			}
			distance -= bonus
			if distance < 0 {
				distance = 0
			}
		}
	}

	return Candidate{
		Hit:                   hit,
		Distance:              distance,
		HasContributorInLabel: hasContributor,
		IsEnglish:             isEnglish(hit.More.Languages),
		TokenNum:              tokenNumber(hit.Token),
	}
}

// less implements the strict sort-key priority: adjusted distance, then
// contributor-in-label, then English preference, then identifier number.
func less(a, b Candidate) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	if a.HasContributorInLabel != b.HasContributorInLabel {
		return a.HasContributorInLabel
	}
	if a.IsEnglish != b.IsEnglish {
		return a.IsEnglish
	}
	return a.TokenNum < b.TokenNum
}

func isEnglish(languages []string) bool {
	for _, lang := range languages {
		if lang == "English" || lang == "mlang:eng" ||
			strings.Contains(strings.ToLower(lang), "eng") {
			return true
		}
	}
	return false
}

// tokenNumber parses the leading digits of a token; a token without any
// sorts as noTokenNumber.
func tokenNumber(token string) int {
	n := 0
	digits := 0
	for _, r := range token {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return noTokenNumber
	}
	return n
}

// ScoredRef is a relationship row scored for instance disambiguation.
type ScoredRef struct {
	types.WorkRef
	Distance int
}

// ScoreRefs measures each row against both the session query and the
// clicked label (lowercased) and keeps the smaller distance. Empty
// comparison strings contribute the sentinel, so rows are never penalized
// for a missing query.
func ScoreRefs(refs []types.WorkRef, query, clickedLabel string) []ScoredRef {
	scored := make([]ScoredRef, 0, len(refs))
	for _, ref := range refs {
		label := strings.ToLower(ref.Label)
		distance := noQueryDistance
		if query != "" {
			distance = strmetrics.EditDistance(strings.ToLower(query), label)
		}
		if clickedLabel != "" {
			if d := strmetrics.EditDistance(strings.ToLower(clickedLabel), label); d < distance {
				distance = d
			}
		}
		scored = append(scored, ScoredRef{WorkRef: ref, Distance: distance})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})
	return scored
}

// Partition splits ranked refs at the good-match cutoff. Good matches are
// re-sorted by the ascending numeric suffix of their URI; poor matches
// keep their ranked order for display after a separator.
func Partition(scored []ScoredRef) (good, poor []ScoredRef) {
	for _, s := range scored {
		if s.Distance <= goodMatchCutoff {
			good = append(good, s)
		} else {
			poor = append(poor, s)
		}
	}
	sort.SliceStable(good, func(i, j int) bool {
		return uriNumber(good[i].URI) < uriNumber(good[j].URI)
	})
	return good, poor
}

func uriNumber(uri string) int {
	seg := uri
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		seg = uri[i+1:]
	}
	if n := tokenNumber(seg); n != noTokenNumber {
		return n
	}
	return 0
}
