package chains

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// Chain is an import path: each module directly imports the next one.
// The first element is the importer, the last the imported module, and no
// module appears twice.
type Chain []string

// String renders the chain as "a -> b -> c".
func (c Chain) String() string { return strings.Join(c, " -> ") }

// Hops returns the number of imports in the chain (one less than its length).
func (c Chain) Hops() int {
	if len(c) == 0 {
		return 0
	}
	return len(c) - 1
}

// key is the set identity of a chain. The separator cannot appear in
// identifiers accepted at the input boundaries.
func (c Chain) key() string { return strings.Join(c, "\x00") }

// Set is a collection of distinct chains. Two chains are equal when they
// hold the same modules in the same order.
//
// The zero value is an empty set ready to use. Set is not safe for
// concurrent modification.
type Set struct {
	chains map[string]Chain
}

// NewSet returns a set holding the given chains.
func NewSet(chains ...Chain) *Set {
	s := &Set{}
	for _, c := range chains {
		s.Add(c)
	}
	return s
}

// Add inserts a copy of c and reports whether it was not already present.
// Empty chains are ignored.
func (s *Set) Add(c Chain) bool {
	if len(c) == 0 {
		return false
	}
	if s.chains == nil {
		s.chains = make(map[string]Chain)
	}
	k := c.key()
	if _, ok := s.chains[k]; ok {
		return false
	}
	s.chains[k] = slices.Clone(c)
	return true
}

// Contains reports whether c is in the set.
func (s *Set) Contains(c Chain) bool {
	if s == nil {
		return false
	}
	_, ok := s.chains[c.key()]
	return ok
}

// Len returns the number of chains.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.chains)
}

// Empty reports whether the set holds no chains.
func (s *Set) Empty() bool { return s.Len() == 0 }

// Chains returns the chains in lexicographic order of their modules.
// The returned chains are copies.
func (s *Set) Chains() []Chain {
	if s.Len() == 0 {
		return nil
	}
	out := make([]Chain, 0, len(s.chains))
	for _, k := range slices.Sorted(maps.Keys(s.chains)) {
		out = append(out, slices.Clone(s.chains[k]))
	}
	return out
}

// Length returns the number of modules in the shortest chain, or 0 for an
// empty set. For finder results every chain has this length.
func (s *Set) Length() int {
	n := 0
	for _, c := range s.all() {
		if n == 0 || len(c) < n {
			n = len(c)
		}
	}
	return n
}

func (s *Set) all() map[string]Chain {
	if s == nil {
		return nil
	}
	return s.chains
}

// MarshalJSON encodes the set as a sorted array of module arrays.
func (s *Set) MarshalJSON() ([]byte, error) {
	out := make([][]string, 0, s.Len())
	for _, c := range s.Chains() {
		out = append(out, c)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an array of module arrays, dropping duplicates.
func (s *Set) UnmarshalJSON(data []byte) error {
	var in [][]string
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.chains = nil
	for _, c := range in {
		s.Add(c)
	}
	return nil
}
