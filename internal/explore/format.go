// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explore

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"github.com/pdiddy/bib-explorer/internal/reconcile"
	"github.com/pdiddy/bib-explorer/internal/strmetrics"
	"github.com/pdiddy/bib-explorer/pkg/types"
)

// FormatSearchTable writes a search result as two human-readable sections:
// contributors first, titles after.
func FormatSearchTable(result *SearchResult, w io.Writer) {
	if len(result.Instances) > 0 {
		fmt.Fprintf(w, "Instances matching %q:\n", result.Query)
		for _, hit := range result.Instances {
			fmt.Fprintf(w, "  %-12s  %s\n", hit.Token, bestLabel(hit))
		}
		return
	}

	fmt.Fprintln(w, "Contributors:")
	if len(result.Contributors) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, c := range result.Contributors {
		line := fmt.Sprintf("  [%-2s] %-12s  %-45s  %d works",
			strmetrics.Initials(c.AuthorityLabel), c.Hit.Token, truncate(c.AuthorityLabel, 45), c.Hit.Contributions)
		if c.Fact != nil && c.Fact.Description != "" {
			line += "  [" + truncate(c.Fact.Description, 40) + "]"
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w, "\nTitles:")
	if len(result.Titles) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, t := range result.Titles {
		fmt.Fprintf(w, "  %-12s  %s\n", t.Hit.Token, truncate(bestLabel(t.Hit), 70))
	}
}

// FormatGroupedTable writes a contributor's grouped works: shared titles
// with their member count, then standalone titles, then non-text works
// tagged with their type.
func FormatGroupedTable(grouped *reconcile.Grouped, w io.Writer) {
	total := len(grouped.Multiple) + len(grouped.Single) + len(grouped.NonText)
	if total == 0 {
		fmt.Fprintln(w, "No works found.")
		return
	}

	for _, g := range grouped.Multiple {
		fmt.Fprintf(w, "%s (%d records)\n", g.DisplayTitle, len(g.Works))
		for _, work := range g.Works {
			fmt.Fprintf(w, "    %s%s\n", work.Ref.URI, detailSuffix(work.Details))
		}
	}
	for _, g := range grouped.Single {
		work := g.Works[0]
		fmt.Fprintf(w, "%s\n    %s%s\n", g.DisplayTitle, work.Ref.URI, detailSuffix(work.Details))
	}
	if len(grouped.NonText) > 0 {
		fmt.Fprintln(w, "\nOther formats:")
		for _, g := range grouped.NonText {
			tag := ""
			if t := g.Works[0].WorkType; t != "" {
				tag = " [" + t + "]"
			}
			fmt.Fprintf(w, "%s%s\n    %s\n", g.DisplayTitle, tag, g.Works[0].Ref.URI)
		}
	}
}

func detailSuffix(d *types.InstanceDetail) string {
	if d == nil {
		return ""
	}
	var parts []string
	if d.ResponsibilityStatement != "" {
		parts = append(parts, d.ResponsibilityStatement)
	}
	if d.NewestYear != "" {
		parts = append(parts, d.NewestYear)
	} else if d.PublicationStatement != "" {
		parts = append(parts, d.PublicationStatement)
	}
	if len(parts) == 0 {
		return ""
	}
	return "  (" + strings.Join(parts, "; ") + ")"
}

// FormatRelatedTable writes a disambiguation result: close matches first,
// the rest under a separator.
func FormatRelatedTable(result *RelatedResult, w io.Writer) {
	if result.Contributor != "" {
		fmt.Fprintf(w, "Other works by %s:\n", result.Contributor)
	}
	if len(result.Good) == 0 && len(result.Poor) == 0 {
		fmt.Fprintln(w, "No related works found.")
		return
	}
	for _, s := range result.Good {
		fmt.Fprintf(w, "  %s\n    %s\n", truncate(s.Label, 70), s.URI)
	}
	if len(result.Poor) > 0 {
		fmt.Fprintln(w, "  ----")
		for _, s := range result.Poor {
			fmt.Fprintf(w, "  %s\n    %s\n", truncate(s.Label, 70), s.URI)
		}
	}
}

// FormatSummaryTable writes the field/value view of one summary.
func FormatSummaryTable(s *types.Summary, w io.Writer) {
	fmt.Fprintf(w, "%-14s %s\n", "Title:", s.Title)
	for i, c := range s.Contributors {
		key := ""
		if i == 0 {
			key = "Contributors:"
		}
		fmt.Fprintf(w, "%-14s %s\n", key, c.Name)
	}
	if s.PublicationStatement != "" {
		fmt.Fprintf(w, "%-14s %s\n", "Published:", s.PublicationStatement)
	}
	if s.NewestYear != "" {
		fmt.Fprintf(w, "%-14s %s\n", "Year:", s.NewestYear)
	}
	if s.Extent != "" {
		fmt.Fprintf(w, "%-14s %s\n", "Extent:", s.Extent)
	}
	if len(s.ISBN) > 0 {
		fmt.Fprintf(w, "%-14s %s\n", "ISBN:", strings.Join(s.ISBN, ", "))
	}
	if len(s.Language) > 0 {
		fmt.Fprintf(w, "%-14s %s\n", "Language:", strings.Join(s.Language, ", "))
	}
	for i, subj := range s.Subjects {
		key := ""
		if i == 0 {
			key = "Subjects:"
		}
		fmt.Fprintf(w, "%-14s %s\n", key, subj.Label)
	}
}

// FormatJSON writes v as indented JSON.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatYAML writes v as a YAML document.
func FormatYAML(v any, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
