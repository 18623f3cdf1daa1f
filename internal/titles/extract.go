// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package titles recovers a work's title from catalog labels of the form
// "Lastname, Firstname, 1920-1999. Title". Labels arrive in many loosely
// consistent encodings, so extraction is an ordered cascade of strategies;
// the first one that produces a non-empty remainder wins, and a label no
// strategy understands is returned unchanged.
package titles

import (
	"regexp"
	"strings"
)

// authorCitationRe recognizes a leading author citation: "word, word" with
// the second word free of commas and periods. Labels that never match it
// are assumed to already be bare titles.
var authorCitationRe = regexp.MustCompile(`^[^,]+,\s*[^,.]+`)

// secondCitationRe is the looser form used to reject extraction results
// that still look like another author's name.
var secondCitationRe = regexp.MustCompile(`^[^,]+,\s*[^,]+`)

// leadingSepRe strips separator runs left behind after removing a name.
var leadingSepRe = regexp.MustCompile(`^[\s.,:\-–—]+`)

// Pattern strategies tried, in order, when the contributor name is unknown
// or did not anchor the label. Honorifics cover the noble and professional
// titles that catalog records interpose between name and dates.
var (
	honorificRe = regexp.MustCompile(`^[^,]+,\s*[^,]+(?:,\s*(?:Sir|Dr|Prof|Mr|Mrs|Ms|Miss|Lord|Lady|Baron|Count|Duke)[^,]*)?(?:,\s*\d{4}[-–](?:\d{4})?)?\s*\.\s+`)
	datesRe     = regexp.MustCompile(`^[^,]+,\s*[^,]+,\s*\d{4}[-–](?:\d{4})?\s*[-.]?\s*`)
	initialsRe  = regexp.MustCompile(`^[^,]+,\s*(?:[A-Z]\.?\s*)+(?:[A-Za-z]+\s*)?(?:\([^)]+\))?\s*\.\s+([A-Z])`)
	lastDotRe   = regexp.MustCompile(`^[^,]+,\s*[^.]+\.\s+`)
	yearRangeRe = regexp.MustCompile(`\d{4}[-–]\d{0,4}\s+`)
	delimRe     = regexp.MustCompile(`[\s,]`)
)

// Extract strips the author citation from rawLabel and returns the title
// that remains. knownContributor, when non-empty, is the authoritative
// display name of the contributor the label was listed under and anchors
// the two strongest strategies. Extract never fails: if nothing matches,
// rawLabel comes back unchanged.
func Extract(rawLabel, knownContributor string) string {
	if rawLabel == "" {
		return rawLabel
	}

	if knownContributor != "" {
		if strings.HasPrefix(rawLabel, knownContributor) {
			if out, ok := stripExactPrefix(rawLabel, knownContributor); ok {
				return out
			}
		} else if out, ok := stripPartialSurname(rawLabel, knownContributor); ok {
			return out
		}
	}

	// The remaining strategies only apply to labels that open with an
	// author citation.
	if !authorCitationRe.MatchString(rawLabel) {
		return rawLabel
	}

	if loc := honorificRe.FindStringIndex(rawLabel); loc != nil {
		return rawLabel[loc[1]:]
	}
	if loc := datesRe.FindStringIndex(rawLabel); loc != nil {
		return rawLabel[loc[1]:]
	}
	if idx := initialsRe.FindStringSubmatchIndex(rawLabel); idx != nil {
		// The capture marks the first capital of the title proper.
		return rawLabel[idx[2]:]
	}
	if loc := lastDotRe.FindStringIndex(rawLabel); loc != nil {
		return rawLabel[loc[1]:]
	}

	return secondaryPass(rawLabel)
}

// stripExactPrefix removes a verbatim contributor-name prefix plus any
// separator run that follows it.
func stripExactPrefix(label, contributor string) (string, bool) {
	remainder := label[len(contributor):]
	remainder = strings.TrimSpace(leadingSepRe.ReplaceAllString(remainder, ""))
	if remainder == "" {
		return "", false
	}
	return remainder, true
}

// stripPartialSurname anchors on the surname alone (the part of the
// contributor name before its first comma) and strips through the first
// period-plus-space or dash-plus-space that ends the citation. The two
// patterns are kept separate on purpose: their terminators differ and the
// behavior for odd surnames is calibrated against real catalog labels.
func stripPartialSurname(label, contributor string) (string, bool) {
	surname := contributor
	if i := strings.Index(contributor, ","); i >= 0 {
		surname = contributor[:i]
	}
	surname = strings.TrimSpace(surname)
	if surname == "" || !strings.HasPrefix(label, surname) {
		return "", false
	}

	quoted := regexp.QuoteMeta(surname)
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`^` + quoted + `[^.]*\.\s+`),
		regexp.MustCompile(`^` + quoted + `[^.]*[-–]\s+`),
	}
	for _, p := range patterns {
		if loc := p.FindStringIndex(label); loc != nil {
			return label[loc[1]:], true
		}
	}
	return "", false
}

// secondaryPass handles labels that look like an author citation but
// defeated every pattern: strip a trailing year range if one is present,
// and otherwise take everything after the second comma or the first
// whitespace following the first comma, provided the result does not look
// like yet another author citation.
func secondaryPass(label string) string {
	title := label
	if loc := yearRangeRe.FindStringIndex(title); loc != nil {
		title = title[loc[1]:]
	}
	if title != "" && !authorCitationRe.MatchString(title) {
		return title
	}

	firstComma := strings.Index(label, ",")
	if firstComma >= 0 {
		after := strings.TrimSpace(label[firstComma+1:])
		if loc := delimRe.FindStringIndex(after); loc != nil {
			candidate := strings.TrimSpace(after[loc[1]:])
			if candidate != "" && !secondCitationRe.MatchString(candidate) {
				return candidate
			}
		}
	}
	return title
}
