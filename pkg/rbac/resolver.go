// Package rbac merges permission sources and evaluates route requirements.
package rbac

import "sort"

// Set is a set of permission names.
type Set map[string]struct{}

// Resolve returns the union of every source, ignoring blank names.
func Resolve(sources ...[]string) Set {
	out := make(Set)
	for _, src := range sources {
		for _, name := range src {
			if name != "" {
				out[name] = struct{}{}
			}
		}
	}
	return out
}

func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the set sorted.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// WithAdmin returns required plus ADMIN. The input slice is never modified.
func WithAdmin(required []string) []string {
	out := make([]string, 0, len(required)+1)
	hasAdmin := false
	for _, r := range required {
		if r == Admin {
			hasAdmin = true
		}
		out = append(out, r)
	}
	if !hasAdmin {
		out = append(out, Admin)
	}
	return out
}

// Allowed reports whether granted holds any of required or ADMIN.
func Allowed(granted Set, required []string) bool {
	for _, r := range WithAdmin(required) {
		if granted.Has(r) {
			return true
		}
	}
	return false
}
