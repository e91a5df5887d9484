package deps

import (
	"encoding/json"
	"slices"
)

// Set is an unordered collection of unique strings.
// It marshals to a sorted JSON array.
type Set map[string]struct{}

// NewSet returns a Set holding items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, v := range items {
		s.Add(v)
	}
	return s
}

// Add inserts v.
func (s Set) Add(v string) { s[v] = struct{}{} }

// Has reports whether v is a member.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string { return sortedKeys(s) }

// MarshalJSON writes the members as a sorted JSON array.
func (s Set) MarshalJSON() ([]byte, error) { return json.Marshal(s.Sorted()) }

// Union returns a new Set with the members of s and o.
func (s Set) Union(o Set) Set {
	out := make(Set, len(s)+len(o))
	for v := range s {
		out.Add(v)
	}
	for v := range o {
		out.Add(v)
	}
	return out
}

// UnmarshalJSON reads a JSON array of strings.
func (s *Set) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewSet(items...)
	return nil
}

// Pair is one (name, value) entry of a DemandSet or ResolvedSet.
type Pair struct {
	Name  string
	Value string
}

// DemandSet maps a dependency name to the specifiers requested for it.
// A name is only present with at least one specifier.
type DemandSet map[string]Set

// Add records specs for name. Calling Add without specifiers is a no-op.
func (d DemandSet) Add(name string, specs ...string) { addAll(d, name, specs) }

// Names returns the dependency names in sorted order.
func (d DemandSet) Names() []string { return sortedKeys(d) }

// Len returns the number of (name, specifier) pairs.
func (d DemandSet) Len() int { return countPairs(d) }

// Pairs returns every (name, specifier) pair sorted by name, then specifier.
func (d DemandSet) Pairs() []Pair { return pairs(d) }

// ResolvedSet maps a dependency name to its concrete versions. A version is
// an exact semantic version or a web/git URL passed through verbatim.
type ResolvedSet map[string]Set

// Add records versions for name. Calling Add without versions still
// registers the name.
func (r ResolvedSet) Add(name string, versions ...string) {
	if _, ok := r[name]; !ok {
		r[name] = make(Set, len(versions))
	}
	addAll(r, name, versions)
}

// Names returns the dependency names in sorted order.
func (r ResolvedSet) Names() []string { return sortedKeys(r) }

// Len returns the number of (name, version) pairs.
func (r ResolvedSet) Len() int { return countPairs(r) }

// Pairs returns every (name, version) pair sorted by name, then version.
func (r ResolvedSet) Pairs() []Pair { return pairs(r) }

func addAll[M ~map[string]Set](m M, name string, values []string) {
	if len(values) == 0 {
		return
	}
	s, ok := m[name]
	if !ok {
		s = make(Set, len(values))
		m[name] = s
	}
	for _, v := range values {
		s.Add(v)
	}
}

func countPairs[M ~map[string]Set](m M) int {
	n := 0
	for _, s := range m {
		n += len(s)
	}
	return n
}

func pairs[M ~map[string]Set](m M) []Pair {
	out := make([]Pair, 0, countPairs(m))
	for _, name := range sortedKeys(m) {
		for _, v := range m[name].Sorted() {
			out = append(out, Pair{Name: name, Value: v})
		}
	}
	return out
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
