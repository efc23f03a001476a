// Package media turns opaque image references into URLs served by the media host.
// Storage of the images themselves is outside of this module.
package media

import (
	"net/url"
	"social-lab/domain"
	"strings"
)

type Resolver struct {
	baseURL string
}

// NewResolver builds URLs relative to baseURL. An empty baseURL keeps references as relative paths.
func NewResolver(baseURL string) *Resolver {
	return &Resolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns the public URL of ref. Absolute URLs are returned untouched.
func (r *Resolver) URL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	path := "/" + strings.TrimLeft(ref, "/")
	return r.baseURL + path
}

// AvatarURL falls back to the default avatar when the account has none.
func (r *Resolver) AvatarURL(ref string) string {
	if strings.TrimSpace(ref) == "" {
		return r.URL(domain.DefaultAvatar)
	}
	return r.URL(ref)
}

// URLs resolves refs position by position: out[i] is the URL of refs[i].
func (r *Resolver) URLs(refs []string) []string {
	if refs == nil {
		return nil
	}
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = r.URL(ref)
	}
	return out
}
