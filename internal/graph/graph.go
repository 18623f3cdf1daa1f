// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph gives typed access to the JSON-LD documents served by
// id.loc.gov. A document is an ordered list of nodes; each node maps
// predicate URIs to arrays of values that are either references ("@id") or
// literals ("@value"). All string-keyed traversal of these documents is
// centralized here so the business logic above never touches raw JSON.
package graph

import (
	"encoding/json"
	"fmt"
	"strings"
)

// blankPrefix marks node identifiers that only resolve within the document
// they appear in.
const blankPrefix = "_:"

// Value is one element of a predicate's value array.
type Value struct {
	ID      string
	Literal string
}

// IsRef reports whether the value is a node reference rather than a literal.
func (v Value) IsRef() bool { return v.ID != "" }

// UnmarshalJSON accepts the JSON-LD value object forms: {"@id": …},
// {"@value": …, "@language": …}, and a bare literal.
func (v *Value) UnmarshalJSON(data []byte) error {
	var obj struct {
		ID      string `json:"@id"`
		Literal any    `json:"@value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		var lit any
		if err2 := json.Unmarshal(data, &lit); err2 != nil {
			return err
		}
		v.Literal = literalString(lit)
		return nil
	}
	v.ID = obj.ID
	if obj.Literal != nil {
		v.Literal = literalString(obj.Literal)
	}
	return nil
}

func literalString(lit any) string {
	switch t := lit.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// Node is one resource in a document.
type Node struct {
	ID    string
	Types []string
	Props map[string][]Value
}

// UnmarshalJSON splits the JSON-LD keywords out of the predicate map.
// "@type" arrives as either a single string or an array.
func (n *Node) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Props = make(map[string][]Value, len(raw))
	for key, msg := range raw {
		switch key {
		case "@id":
			if err := json.Unmarshal(msg, &n.ID); err != nil {
				return fmt.Errorf("node @id: %w", err)
			}
		case "@type":
			var many []string
			if err := json.Unmarshal(msg, &many); err == nil {
				n.Types = many
				continue
			}
			var one string
			if err := json.Unmarshal(msg, &one); err != nil {
				return fmt.Errorf("node @type: %w", err)
			}
			n.Types = []string{one}
		default:
			var vals []Value
			if err := json.Unmarshal(msg, &vals); err != nil {
				// A single value object without the array wrapper.
				var v Value
				if err2 := json.Unmarshal(msg, &v); err2 != nil {
					return fmt.Errorf("node %s: %w", key, err)
				}
				vals = []Value{v}
			}
			n.Props[key] = vals
		}
	}
	return nil
}

// HasType reports whether the node carries the given rdf type.
func (n *Node) HasType(t string) bool {
	for _, nt := range n.Types {
		if nt == t {
			return true
		}
	}
	return false
}

// First returns the first value of the predicate, or nil when the predicate
// is absent or empty.
func (n *Node) First(predicate string) *Value {
	if n == nil {
		return nil
	}
	vals := n.Props[predicate]
	if len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

// All returns every value of the predicate; the slice is nil when absent.
func (n *Node) All(predicate string) []Value {
	if n == nil {
		return nil
	}
	return n.Props[predicate]
}

// FirstLiteral returns the first literal value of the predicate, or "".
func (n *Node) FirstLiteral(predicate string) string {
	if v := n.First(predicate); v != nil {
		return v.Literal
	}
	return ""
}

// Graph is one fetched linked-data document.
type Graph []Node

// Parse decodes a JSON-LD document body into a Graph.
func Parse(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing linked-data document: %w", err)
	}
	return g, nil
}

// FindNode returns the first node whose @id equals id, or nil. Malformed
// documents occasionally repeat an id; the first occurrence wins.
func (g Graph) FindNode(id string) *Node {
	for i := range g {
		if g[i].ID == id {
			return &g[i]
		}
	}
	return nil
}

// IsBlankID reports whether id names a blank node, resolvable only against
// the document it came from.
func IsBlankID(id string) bool {
	return strings.HasPrefix(id, blankPrefix)
}

// TrailingSegment returns the final path segment of a URI, the form LOC
// identifiers take inside agent, language, and subject references.
func TrailingSegment(uri string) string {
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
