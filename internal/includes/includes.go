// Package includes tracks the headers a generated C++ file depends on.
package includes

import (
	"strings"
)

// Include is one header dependency.
//
// Local headers render as #include "path"; external ones as #include <path>.
type Include struct {
	Path  string
	Local bool
}

// IsLocalPath reports whether a bare path should be treated as a local
// header. Anything with a directory separator or an extension is local;
// bare names such as "vector" are system headers.
func IsLocalPath(path string) bool {
	return strings.ContainsAny(path, "/.")
}

// Set is an insertion-ordered set of includes keyed by path.
//
// Re-adding a path keeps its original position and takes the new Local flag.
// The zero value is ready to use; a nil *Set behaves as empty for reads and
// merges.
type Set struct {
	order []string
	local map[string]bool
}

// New returns a set holding paths.
func New(paths ...string) *Set {
	return new(Set).Add(paths...)
}

// Add inserts bare paths, classifying each with IsLocalPath.
func (s *Set) Add(paths ...string) *Set {
	for _, p := range paths {
		s.put(Include{Path: p, Local: IsLocalPath(p)})
	}
	return s
}

// AddInclude inserts include records unchanged.
func (s *Set) AddInclude(incs ...Include) *Set {
	for _, inc := range incs {
		s.put(inc)
	}
	return s
}

func (s *Set) put(inc Include) {
	if s.local == nil {
		s.local = make(map[string]bool)
	}
	if _, ok := s.local[inc.Path]; !ok {
		s.order = append(s.order, inc.Path)
	}
	s.local[inc.Path] = inc.Local
}

// Remove deletes paths. Missing paths are ignored.
func (s *Set) Remove(paths ...string) *Set {
	for _, p := range paths {
		if _, ok := s.local[p]; !ok {
			continue
		}
		delete(s.local, p)
		for i, o := range s.order {
			if o == p {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	return s
}

// MergeWith adds every include from others. Nil sets are skipped.
func (s *Set) MergeWith(others ...*Set) *Set {
	for _, o := range others {
		if o == nil {
			continue
		}
		for _, p := range o.order {
			s.put(Include{Path: p, Local: o.local[p]})
		}
	}
	return s
}

// Contains reports whether path is present.
func (s *Set) Contains(path string) bool {
	if s == nil {
		return false
	}
	_, ok := s.local[path]
	return ok
}

// Len returns the number of includes.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IsEmpty reports whether the set has no includes.
func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// Includes returns the records in insertion order.
func (s *Set) Includes() []Include {
	if s == nil {
		return nil
	}
	out := make([]Include, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, Include{Path: p, Local: s.local[p]})
	}
	return out
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return new(Set).MergeWith(s)
}

// Render returns one #include line per entry, joined by newlines.
// Paths found in remap are replaced before rendering; the Local flag of the
// original entry is kept.
func (s *Set) Render(remap map[string]string) string {
	if s.IsEmpty() {
		return ""
	}
	lines := make([]string, 0, s.Len())
	for _, inc := range s.Includes() {
		path := inc.Path
		if r, ok := remap[path]; ok {
			path = r
		}
		if inc.Local {
			lines = append(lines, `#include "`+path+`"`)
		} else {
			lines = append(lines, "#include <"+path+">")
		}
	}
	return strings.Join(lines, "\n")
}
