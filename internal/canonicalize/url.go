// Package canonicalize rewrites relative and absolute-path URLs in HTML
// and CSS output against a profile-supplied root (spec §4.4), so the same
// source tree can be served from a dev server at one path and published
// at another.
package canonicalize

import (
	"net/url"
	"path"
	"strings"
)

// rewriteURL implements the three rewriting rules of spec §4.4. targetPath
// is the asset's current target_path, used as the base for resolving a
// relative reference.
//
// Scheme-bearing, fragment-only and protocol-relative URLs pass through
// untouched. An absolute-path URL becomes root+path with exactly one
// separator. A relative URL is resolved by joining it directly onto
// targetPath (not onto targetPath's parent directory) and cleaning the
// result — concretely, `../c.css` against target_path `a/b.html` yields
// `a/c.css`, matching spec §8 scenario 3 exactly; this is the deterministic
// rule chosen for the relative-resolution detail the design notes leave
// unspecified.
func rewriteURL(raw, root, targetPath string) string {
	if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "//") {
		return raw
	}
	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		return raw
	}

	var resolved string
	if strings.HasPrefix(raw, "/") {
		resolved = raw
	} else {
		resolved = path.Join(targetPath, raw)
	}
	return joinRoot(root, resolved)
}

func joinRoot(root, p string) string {
	return strings.TrimRight(root, "/") + "/" + strings.TrimLeft(p, "/")
}
