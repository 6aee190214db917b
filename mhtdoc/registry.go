package mhtdoc

import (
	"net/url"
	"path"
	"strings"
)

// Registry indexes the archive's resource parts by content location and
// content ID so references inside the root document can be resolved. It is
// built once per decoded archive and only read afterwards; it is never shared
// across decode invocations.
type Registry struct {
	entries map[string]*Part // normalized location or cid:<id> -> part
	paths   map[string]*Part // location path component -> part
	base    *url.URL         // root document location, for relative references
}

// NewRegistry builds a registry from parts in file order. Non-HTML parts with
// a content location or content ID are indexed; when two parts claim the same
// key the later occurrence wins, mirroring how archives supersede earlier
// copies. baseLocation is the root document's content location and may be
// empty.
func NewRegistry(parts []*Part, baseLocation string) *Registry {
	reg := &Registry{
		entries: make(map[string]*Part),
		paths:   make(map[string]*Part),
	}

	if baseLocation != "" {
		if u, err := url.Parse(normalizeKey(baseLocation)); err == nil {
			reg.base = u
		}
	}

	for _, p := range parts {
		if p.IsHTML() {
			continue
		}
		if loc := normalizeKey(p.ContentLocation); loc != "" {
			reg.entries[loc] = p
			if pk := pathOf(loc); usablePathKey(pk) {
				reg.paths[pk] = p
			}
		}
		if p.ContentID != "" {
			reg.entries["cid:"+p.ContentID] = p
		}
	}

	return reg
}

// Count returns the number of distinct keys in the registry.
func (reg *Registry) Count() int {
	return len(reg.entries)
}

// Lookup returns the part registered under exactly the given key.
// A miss is reported through the boolean, never as an error.
func (reg *Registry) Lookup(key string) (*Part, bool) {
	p, ok := reg.entries[normalizeKey(key)]
	return p, ok
}

// Resolve finds the part a document reference points at. It tries, in order:
// the exact normalized reference (which covers cid: references and absolute
// locations), the reference resolved against the root document's base
// location, and finally a match on the path component alone, which tolerates
// scheme or host mismatches between the saved location and the reference.
func (reg *Registry) Resolve(ref string) (*Part, bool) {
	key := normalizeKey(ref)
	if key == "" {
		return nil, false
	}

	if p, ok := reg.entries[key]; ok {
		return p, true
	}

	if reg.base != nil {
		if u, err := url.Parse(key); err == nil {
			abs := normalizeKey(reg.base.ResolveReference(u).String())
			if p, ok := reg.entries[abs]; ok {
				return p, true
			}
			if p, ok := reg.paths[pathOf(abs)]; ok {
				return p, true
			}
		}
	}

	if p, ok := reg.paths[pathOf(key)]; ok {
		return p, true
	}

	return nil, false
}

// normalizeKey canonicalizes a location or reference for map lookup:
// surrounding whitespace and angle brackets go, the fragment goes, and
// percent-escapes are unescaped so both spellings of a name coincide.
func normalizeKey(raw string) string {
	key := strings.TrimSpace(raw)
	key = strings.Trim(key, "<>")
	if i := strings.IndexByte(key, '#'); i >= 0 {
		key = key[:i]
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return key
}

// pathOf reduces a key to its path component for scheme-agnostic matching.
func pathOf(key string) string {
	if u, err := url.Parse(key); err == nil && u.Scheme != "" {
		if u.Opaque != "" {
			return u.Opaque
		}
		return path.Clean(u.Path)
	}
	return path.Clean(key)
}

// usablePathKey filters out path keys too generic to identify a resource.
func usablePathKey(p string) bool {
	return p != "" && p != "." && p != "/"
}
