// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"regexp"
	"strconv"
	"strings"
)

// Predicate and class URIs used by BIBFRAME work and instance documents.
const (
	bf     = "http://id.loc.gov/ontologies/bibframe/"
	bflc   = "http://id.loc.gov/ontologies/bflc/"
	mads   = "http://www.loc.gov/mads/rdf/v1#"
	rdfNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rdfsNS = "http://www.w3.org/2000/01/rdf-schema#"

	PredTitle                   = bf + "title"
	PredMainTitle               = bf + "mainTitle"
	PredSubtitle                = bf + "subtitle"
	PredContribution            = bf + "contribution"
	PredAgent                   = bf + "agent"
	PredLanguage                = bf + "language"
	PredSubject                 = bf + "subject"
	PredPublicationStatement    = bf + "publicationStatement"
	PredResponsibilityStatement = bf + "responsibilityStatement"
	PredExtent                  = bf + "extent"
	PredIdentifiedBy            = bf + "identifiedBy"
	PredHasInstance             = bf + "hasInstance"
	PredAAP                     = bflc + "aap"
	PredAuthoritativeLabel      = mads + "authoritativeLabel"
	PredRDFValue                = rdfNS + "value"
	PredRDFSLabel               = rdfsNS + "label"

	ClassText      = bf + "Text"
	ClassISBN      = bf + "Isbn"
	ClassInstance  = bf + "Instance"
	ClassAuthority = mads + "Authority"
)

// Classification is the text/non-text decision for a work, with the
// specific type name when the work is non-text.
type Classification struct {
	IsText    bool
	IsNonText bool
	WorkType  string
}

// Classify inspects the @type list of the work node identified by workURI.
// A work is text when it carries the BIBFRAME Text class; it is non-text
// when it carries more than the bare Work class and none of them is Text.
// Untyped or missing nodes default to text, as do fetch failures upstream.
func (g Graph) Classify(workURI string) Classification {
	node := g.FindNode(workURI)
	if node == nil || len(node.Types) == 0 {
		return Classification{IsText: true}
	}
	if node.HasType(ClassText) {
		return Classification{IsText: true}
	}
	if len(node.Types) <= 1 {
		return Classification{IsText: true}
	}

	c := Classification{IsNonText: true}
	for _, t := range node.Types {
		name := TrailingSegment(t)
		if name != "Work" && name != "Monograph" && name != "Text" {
			c.WorkType = name
			break
		}
	}
	return c
}

// Title resolves the node's title reference and assembles
// "mainTitle: subtitle". Returns "" when any link in the chain is absent.
func (g Graph) Title(nodeURI string) string {
	node := g.FindNode(nodeURI)
	ref := node.First(PredTitle)
	if ref == nil || ref.ID == "" {
		return ""
	}
	titleNode := g.FindNode(ref.ID)
	if titleNode == nil {
		return ""
	}
	title := titleNode.FirstLiteral(PredMainTitle)
	if title == "" {
		return ""
	}
	if sub := titleNode.FirstLiteral(PredSubtitle); sub != "" {
		title += ": " + sub
	}
	return title
}

// AAP returns the bflc authorized access point literal for the node, if any.
func (g Graph) AAP(nodeURI string) string {
	return g.FindNode(nodeURI).FirstLiteral(PredAAP)
}

// AgentRefs walks contribution → agent and returns the agent reference of
// each contribution, in document order. Blank-node agent ids are returned
// as-is for the caller to resolve or retry against a processed document.
func (g Graph) AgentRefs(workURI string) []string {
	work := g.FindNode(workURI)
	var agents []string
	for _, contrib := range work.All(PredContribution) {
		if contrib.ID == "" {
			continue
		}
		contribNode := g.FindNode(contrib.ID)
		if agent := contribNode.First(PredAgent); agent != nil && agent.ID != "" {
			agents = append(agents, agent.ID)
		}
	}
	return agents
}

// BlankNodeLabel resolves a blank node in this document and returns its
// authoritative label, falling back to rdfs:label. Returns "" when the node
// is missing or unlabeled.
func (g Graph) BlankNodeLabel(id string) string {
	node := g.FindNode(id)
	if node == nil {
		return ""
	}
	if label := node.FirstLiteral(PredAuthoritativeLabel); label != "" {
		return label
	}
	return node.FirstLiteral(PredRDFSLabel)
}

// Languages returns the trailing identifier segment of each language
// reference on the work node.
func (g Graph) Languages(workURI string) []string {
	var langs []string
	for _, v := range g.FindNode(workURI).All(PredLanguage) {
		if v.ID != "" {
			langs = append(langs, TrailingSegment(v.ID))
		}
	}
	return langs
}

// SubjectRefs returns the subject references of the work node, blank nodes
// included.
func (g Graph) SubjectRefs(workURI string) []string {
	var refs []string
	for _, v := range g.FindNode(workURI).All(PredSubject) {
		if v.ID != "" {
			refs = append(refs, v.ID)
		}
	}
	return refs
}

// InstanceLabel returns the best display label for an instance: rdfs:label
// when present, otherwise the resolved title. Returns "" when neither is
// available; callers substitute a generated placeholder.
func (g Graph) InstanceLabel(instanceURI string) string {
	if label := g.FindNode(instanceURI).FirstLiteral(PredRDFSLabel); label != "" {
		return label
	}
	return g.Title(instanceURI)
}

// PublicationStatement returns the instance's publication statement literal.
func (g Graph) PublicationStatement(instanceURI string) string {
	return g.FindNode(instanceURI).FirstLiteral(PredPublicationStatement)
}

// ResponsibilityStatement returns the instance's statement of responsibility.
func (g Graph) ResponsibilityStatement(instanceURI string) string {
	return g.FindNode(instanceURI).FirstLiteral(PredResponsibilityStatement)
}

// Extent resolves the instance's extent reference to its label.
func (g Graph) Extent(instanceURI string) string {
	ref := g.FindNode(instanceURI).First(PredExtent)
	if ref == nil || ref.ID == "" {
		return ""
	}
	return g.FindNode(ref.ID).FirstLiteral(PredRDFSLabel)
}

// ISBNs collects the rdf:value of every identifiedBy node typed as an ISBN.
func (g Graph) ISBNs(instanceURI string) []string {
	var isbns []string
	for _, ref := range g.FindNode(instanceURI).All(PredIdentifiedBy) {
		if ref.ID == "" {
			continue
		}
		idNode := g.FindNode(ref.ID)
		if idNode == nil || !idNode.HasType(ClassISBN) {
			continue
		}
		if v := idNode.FirstLiteral(PredRDFValue); v != "" {
			isbns = append(isbns, v)
		}
	}
	return isbns
}

// InstanceRefs returns the hasInstance references of the work node. When
// the work carries none, every node typed as an Instance elsewhere in the
// document is returned instead; work documents inline their instances
// either way.
func (g Graph) InstanceRefs(workURI string) []string {
	var refs []string
	for _, v := range g.FindNode(workURI).All(PredHasInstance) {
		if v.ID != "" {
			refs = append(refs, v.ID)
		}
	}
	if len(refs) > 0 {
		return refs
	}
	for i := range g {
		if g[i].ID != workURI && g[i].HasType(ClassInstance) {
			refs = append(refs, g[i].ID)
		}
	}
	return refs
}

// yearRe matches plausible publication years 1500-2029, with an optional
// lowercase "c" (circa) prefix that travels with the year.
var yearRe = regexp.MustCompile(`\b(c?)(1[5-9]\d{2}|20[0-2]\d)\b`)

// NewestYear scans a publication statement for year tokens and returns the
// numerically largest one exactly as written ("c" prefix included). The
// second result is false when the statement contains no year.
func NewestYear(statement string) (string, bool) {
	matches := yearRe.FindAllString(statement, -1)
	if len(matches) == 0 {
		return "", false
	}
	newest := matches[0]
	newestNum := yearNumber(newest)
	for _, m := range matches[1:] {
		if n := yearNumber(m); n > newestNum {
			newest = m
			newestNum = n
		}
	}
	return newest, true
}

func yearNumber(year string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(year, "c"))
	return n
}
