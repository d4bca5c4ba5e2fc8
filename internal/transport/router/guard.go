package router

import (
	"net/url"
	"strings"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// Navigation is a single navigation attempt.
type Navigation struct {
	To   Match
	From Match
}

// Decision is the guard's verdict. An empty Redirect means allow.
type Decision struct {
	Redirect string
}

// Allowed reports whether navigation may proceed.
func (d Decision) Allowed() bool { return d.Redirect == "" }

// Guard decides a navigation. RequiresAuth is checked first, so a record
// carrying both flags acts as auth-only for anonymous users and is otherwise
// allowed. Records without flags are always allowed.
func Guard(nav Navigation, authenticated bool) Decision {
	switch {
	case nav.To.Meta.RequiresAuth && !authenticated:
		return Decision{Redirect: LoginRedirect(nav.To.Path)}
	case nav.To.Meta.RequiresGuest && authenticated:
		return Decision{Redirect: dashboardPath}
	default:
		return Decision{}
	}
}

// LoginRedirect builds the login URL that returns to target after sign-in.
func LoginRedirect(target string) string {
	return loginPath + "?redirect=" + strings.ReplaceAll(url.QueryEscape(target), "%2F", "/")
}

// SafeRedirect returns target if it is a local path, otherwise fallback.
func SafeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return target
}
