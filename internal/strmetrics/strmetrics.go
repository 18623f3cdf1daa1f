// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package strmetrics provides the string-distance and name utilities the
// ranking layer is built on.
package strmetrics

import (
	"regexp"
	"unicode"
)

// EditDistance returns the Levenshtein distance between a and b over their
// code points. Case folding is the caller's responsibility. The computation
// keeps a single DP row, so memory is O(len(b)).
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

var nameSep = regexp.MustCompile(`[,\s]+`)

// Initials derives display initials from an inverted personal name.
// "Smith, John" yields "JS" (given name first), a mononym yields its first
// letter, and an empty name yields "".
func Initials(name string) string {
	var parts []string
	for _, p := range nameSep.Split(name, -1) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	switch {
	case len(parts) >= 2:
		return upperFirst(parts[1]) + upperFirst(parts[0])
	case len(parts) == 1:
		return upperFirst(parts[0])
	default:
		return ""
	}
}

func upperFirst(s string) string {
	for _, r := range s {
		return string(unicode.ToUpper(r))
	}
	return ""
}
