package domain

import "unicode/utf8"

// StringSet is an order-preserving set of unique strings. Iteration order is
// first-insertion order.
type StringSet struct {
	items []string
	seen  map[string]struct{}
}

// NewStringSet returns an empty set, optionally seeded with values.
func NewStringSet(values ...string) *StringSet {
	s := &StringSet{seen: make(map[string]struct{})}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v unless it is already present. Reports whether v was added.
func (s *StringSet) Add(v string) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Contains reports whether v is in the set. Safe on a nil set.
func (s *StringSet) Contains(v string) bool {
	if s == nil {
		return false
	}
	_, ok := s.seen[v]
	return ok
}

// Values returns the elements in insertion order. The returned slice is a
// copy and safe to retain. Safe on a nil set.
func (s *StringSet) Values() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of elements. Safe on a nil set.
func (s *StringSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
