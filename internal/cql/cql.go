// Package cql builds Confluence Query Language expressions from structured
// search intent. It is the only vendor-specific query builder in the core;
// other adapters pass structured parameters straight through.
package cql

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyQuery is returned when no usable search term was provided.
// Silently emitting a match-everything query would be a surprising and
// expensive behavior for a search tool, so the builder refuses instead.
var ErrEmptyQuery = errors.New("at least one search parameter must be provided")

// searchFields are the Confluence fields every term is matched against.
var searchFields = []string{"text", "title", "space.title"}

// Build constructs a CQL expression. Terms in mustAll are AND-combined,
// terms in anyOf are OR-combined, and the two groups are AND-combined when
// both are present. A single non-empty group is returned without redundant
// outer parentheses.
//
// When fuzzy is set, single-word terms get the CQL fuzzy suffix. Multi-word
// phrases never do: phrase search and fuzzy search are mutually exclusive in
// CQL, so the phrase form wins.
func Build(mustAll, anyOf []string, fuzzy bool) (string, error) {
	must := buildGroup(mustAll, " AND ", fuzzy)
	any := buildGroup(anyOf, " OR ", fuzzy)

	switch {
	case must != "" && any != "":
		return fmt.Sprintf("(%s) AND (%s)", must, any), nil
	case must != "":
		return must, nil
	case any != "":
		return any, nil
	default:
		return "", ErrEmptyQuery
	}
}

// buildGroup expands each term and joins the per-term expressions with op.
// Blank terms are dropped; a group of only blank terms produces "".
func buildGroup(terms []string, op string, fuzzy bool) string {
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		parts = append(parts, termExpr(term, fuzzy))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts, op)
}

// termExpr expands one term into an OR across the search fields.
func termExpr(term string, fuzzy bool) string {
	value := escape(term)
	if fuzzy && !strings.ContainsAny(term, " \t") {
		value += "~"
	}

	clauses := make([]string, 0, len(searchFields))
	for _, field := range searchFields {
		clauses = append(clauses, fmt.Sprintf(`%s ~ "%s"`, field, value))
	}
	return "(" + strings.Join(clauses, " OR ") + ")"
}

// escape neutralizes quote characters inside a term so user input cannot
// break out of the quoted CQL value.
func escape(term string) string {
	return strings.ReplaceAll(term, `"`, `\"`)
}
