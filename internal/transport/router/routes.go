// Package router resolves page paths against the view table and decides
// whether a navigation may proceed for the current authentication state.
package router

import (
	"errors"
	"path"
	"strings"
)

// View names.
const (
	ViewLogin   = "Login"
	ViewSignup  = "Signup"
	ViewUpload  = "Upload"
	ViewListing = "Listing"
)

const catchAll = "*"

// maxRedirects bounds redirect chains in Resolve.
const maxRedirects = 8

// ErrRedirectLoop is returned by Resolve when redirects do not settle.
var ErrRedirectLoop = errors.New("router: redirect loop")

// Meta holds the access flags of a route record.
type Meta struct {
	RequiresAuth  bool
	RequiresGuest bool
}

// Route is one record of the table. Child paths are relative to the parent.
type Route struct {
	Path     string
	Name     string
	Redirect string
	Meta     Meta
	Children []Route
}

// Match is the outcome of matching a path.
type Match struct {
	Path     string
	Name     string
	Redirect string
	Matched  []Route
	Meta     Meta
}

// Found reports whether any record matched.
func (m Match) Found() bool { return len(m.Matched) > 0 }

// Table is an ordered route table; the first matching record wins.
type Table struct {
	routes []Route
}

// NewTable creates a table from records.
func NewTable(routes ...Route) *Table {
	return &Table{routes: routes}
}

// DefaultTable returns the dashboard's page routes.
func DefaultTable() *Table {
	return NewTable(
		Route{Path: "/", Redirect: "/dashboard"},
		Route{Path: "/login", Name: ViewLogin, Meta: Meta{RequiresGuest: true}},
		Route{Path: "/signup", Name: ViewSignup, Meta: Meta{RequiresGuest: true}},
		Route{
			Path: "/dashboard",
			Meta: Meta{RequiresAuth: true},
			Children: []Route{
				{Path: "", Redirect: "/dashboard/upload"},
				{Path: "upload", Name: ViewUpload},
				{Path: "listing", Name: ViewListing},
			},
		},
		Route{Path: catchAll, Redirect: "/dashboard"},
	)
}

// Match finds the record chain for p. Meta flags are merged across the chain,
// so a parent's RequiresAuth covers its children.
func (t *Table) Match(p string) Match {
	p = normalize(p)
	for _, r := range t.routes {
		if chain, ok := matchRoute(r, "", p); ok {
			return newMatch(p, chain)
		}
	}
	return Match{Path: p}
}

// Resolve follows redirects from p until it reaches a terminal record.
func (t *Table) Resolve(p string) (Match, error) {
	m := t.Match(p)
	for range maxRedirects {
		if m.Redirect == "" {
			return m, nil
		}
		m = t.Match(m.Redirect)
	}
	return m, ErrRedirectLoop
}

func matchRoute(r Route, prefix, p string) ([]Route, bool) {
	if r.Path == catchAll {
		return []Route{r}, true
	}

	full := join(prefix, r.Path)
	if len(r.Children) > 0 && (p == full || strings.HasPrefix(p, strings.TrimSuffix(full, "/")+"/")) {
		for _, c := range r.Children {
			if chain, ok := matchRoute(c, full, p); ok {
				return append([]Route{r}, chain...), true
			}
		}
	}
	if p == full {
		return []Route{r}, true
	}
	return nil, false
}

func newMatch(p string, chain []Route) Match {
	m := Match{Path: p, Matched: chain}
	for _, r := range chain {
		m.Meta.RequiresAuth = m.Meta.RequiresAuth || r.Meta.RequiresAuth
		m.Meta.RequiresGuest = m.Meta.RequiresGuest || r.Meta.RequiresGuest
	}
	last := chain[len(chain)-1]
	m.Name = last.Name
	m.Redirect = last.Redirect
	return m
}

func join(prefix, p string) string {
	if prefix == "" {
		return p
	}
	if p == "" {
		return prefix
	}
	return strings.TrimSuffix(prefix, "/") + "/" + p
}

func normalize(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
