package state

import "math/bits"

// CandidateSet is a fixed-width bit-vector over the secret list. It is the
// key of the builder's memoization table: two sets are equal iff their
// bit-vectors are equal, and Hash mixes every word in order so equal sets
// hash equally.
type CandidateSet struct {
	words []uint64
	size  int
}

// New creates an empty set over n secrets.
func New(n int) *CandidateSet {
	return &CandidateSet{
		words: make([]uint64, (n+63)/64),
		size:  n,
	}
}

// Set marks secret index i as live.
func (s *CandidateSet) Set(i int) {
	if i >= 0 && i < s.size {
		s.words[i>>6] |= 1 << (uint(i) & 63)
	}
}

// Test reports whether secret index i is live.
func (s *CandidateSet) Test(i int) bool {
	if i < 0 || i >= s.size {
		return false
	}
	return s.words[i>>6]>>(uint(i)&63)&1 != 0
}

// Count returns the number of live secrets.
func (s *CandidateSet) Count() int {
	c := 0
	for _, w := range s.words {
		c += bits.OnesCount64(w)
	}
	return c
}

// ForEach visits every live index in ascending order. Cost is proportional
// to the number of set bits, not to the set width.
func (s *CandidateSet) ForEach(fn func(i int)) {
	for wi, w := range s.words {
		base := wi << 6
		for w != 0 {
			fn(base + bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
}

// First returns the lowest live index, or -1 for an empty set.
func (s *CandidateSet) First() int {
	for wi, w := range s.words {
		if w != 0 {
			return wi<<6 + bits.TrailingZeros64(w)
		}
	}
	return -1
}

// Hash is an FNV-1a style mix over the raw word array.
func (s *CandidateSet) Hash() uint64 {
	h := uint64(14695981039346656037)
	for _, w := range s.words {
		h ^= w
		h *= 1099511628211
	}
	return h
}

// Equal compares bit-vectors structurally.
func (s *CandidateSet) Equal(o *CandidateSet) bool {
	if s.size != o.size {
		return false
	}
	for i, w := range s.words {
		if w != o.words[i] {
			return false
		}
	}
	return true
}

// Size returns the set width (number of secrets it ranges over).
func (s *CandidateSet) Size() int { return s.size }

// Words exposes the raw backing array for word-at-a-time consumers.
func (s *CandidateSet) Words() []uint64 { return s.words }
