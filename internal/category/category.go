// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package category holds the fixed threat-category vocabulary and turns a
// category plus a sector keyword into a provider search expression.
package category

import (
	"fmt"
	"strings"
)

// Op joins a term to the one before it.
type Op string

const (
	Or  Op = "OR"
	And Op = "AND"
)

// Term is one element of a category's boolean expression. The Op of the
// first term is ignored.
type Term struct {
	Op   Op
	Text string
}

// Category is one of the six threat types. Values are immutable after init.
type Category struct {
	// ID is the stable slug; it doubles as the export filename suffix.
	ID string

	// Label is the display name.
	Label string

	// Description explains the threat type to the user.
	Description string

	// Hint lists example sectors or entities for the keyword prompt.
	Hint string

	terms   []Term
	aliases []string
}

// Terms returns a copy of the category's ordered boolean terms.
func (c Category) Terms() []Term {
	out := make([]Term, len(c.terms))
	copy(out, c.terms)
	return out
}

// Expression renders the terms in order without adding grouping. Operator
// precedence is left to the provider.
func (c Category) Expression() string {
	var b strings.Builder
	for i, t := range c.terms {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(string(t.Op))
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

// BuildQuery conjoins the category expression with the keyword. The keyword
// is not escaped. Callers must not pass an empty keyword; see HasKeyword.
func BuildQuery(c Category, keyword string) string {
	return "(" + c.Expression() + ") " + strings.TrimSpace(keyword)
}

// HasKeyword reports whether keyword is usable for a search.
func HasKeyword(keyword string) bool {
	return strings.TrimSpace(keyword) != ""
}

// All returns the categories in menu order.
func All() []Category {
	out := make([]Category, len(catalog))
	copy(out, catalog)
	return out
}

// IDs returns the category IDs in menu order.
func IDs() []string {
	ids := make([]string, len(catalog))
	for i, c := range catalog {
		ids[i] = c.ID
	}
	return ids
}

// Lookup resolves a category by ID or short alias, case-insensitively.
func Lookup(name string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	for _, c := range catalog {
		if c.ID == key {
			return c, nil
		}
		for _, a := range c.aliases {
			if a == key {
				return c, nil
			}
		}
	}
	return Category{}, fmt.Errorf("unknown category %q: use one of %s", name, strings.Join(IDs(), ", "))
}

func or(text string) Term  { return Term{Op: Or, Text: text} }
func and(text string) Term { return Term{Op: And, Text: text} }
