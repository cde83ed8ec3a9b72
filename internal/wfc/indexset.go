package wfc

import (
	"math/bits"
	"sort"
)

// wordBits is the width of one bitset word.
const wordBits = 64

// IndexSet is a bitset over TileIndex values, including index 0 (the
// wildcard sentinel), stored as 64-bit words that grow as larger indices
// are added. Membership is a single word-op; intersection and emptiness
// take one word-op per 64 indices. The zero value is the empty set.
type IndexSet struct {
	words []uint64
}

// NewIndexSet builds an IndexSet containing the given indices.
func NewIndexSet(indices ...TileIndex) IndexSet {
	var s IndexSet
	for _, i := range indices {
		s.Add(i)
	}
	return s
}

func wordFor(i TileIndex) (word int, bit uint) {
	return int(i) / wordBits, uint(i) % wordBits
}

func (s *IndexSet) grow(word int) {
	if word < len(s.words) {
		return
	}
	next := make([]uint64, word+1)
	copy(next, s.words)
	s.words = next
}

// Add inserts i into the set.
func (s *IndexSet) Add(i TileIndex) {
	if i < 0 {
		return
	}
	w, b := wordFor(i)
	s.grow(w)
	s.words[w] |= 1 << b
}

// Remove deletes i from the set, if present.
func (s *IndexSet) Remove(i TileIndex) {
	if i < 0 {
		return
	}
	w, b := wordFor(i)
	if w >= len(s.words) {
		return
	}
	s.words[w] &^= 1 << b
}

// Contains reports whether i is a member of the set.
func (s IndexSet) Contains(i TileIndex) bool {
	if i < 0 {
		return false
	}
	w, b := wordFor(i)
	if w >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<b) != 0
}

// IsEmpty reports whether the set has no members.
func (s IndexSet) IsEmpty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Len returns the number of members.
func (s IndexSet) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Single returns the sole member of the set when Len() == 1.
func (s IndexSet) Single() (TileIndex, bool) {
	found := TileIndex(-1)
	count := 0
	for wi, w := range s.words {
		for w != 0 {
			bit := w & -w
			idx := TileIndex(wi*wordBits) + TileIndex(bits.TrailingZeros64(bit))
			found = idx
			count++
			if count > 1 {
				return 0, false
			}
			w &= w - 1
		}
	}
	if count != 1 {
		return 0, false
	}
	return found, true
}

// Only reports whether the set is exactly {i}.
func (s IndexSet) Only(i TileIndex) bool {
	v, ok := s.Single()
	return ok && v == i
}

// Intersect returns the intersection of s and other.
func (s IndexSet) Intersect(other IndexSet) IndexSet {
	n := len(s.words)
	if len(other.words) < n {
		n = len(other.words)
	}
	out := IndexSet{words: make([]uint64, n)}
	for i := 0; i < n; i++ {
		out.words[i] = s.words[i] & other.words[i]
	}
	return out
}

// Equals reports whether s and other contain exactly the same members.
func (s IndexSet) Equals(other IndexSet) bool {
	n := len(s.words)
	if len(other.words) > n {
		n = len(other.words)
	}
	for i := 0; i < n; i++ {
		var a, b uint64
		if i < len(s.words) {
			a = s.words[i]
		}
		if i < len(other.words) {
			b = other.words[i]
		}
		if a != b {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of s.
func (s IndexSet) Clone() IndexSet {
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	return IndexSet{words: words}
}

// ToSlice returns the members of s in ascending order.
func (s IndexSet) ToSlice() []TileIndex {
	out := make([]TileIndex, 0, s.Len())
	for wi, w := range s.words {
		for w != 0 {
			bit := w & -w
			idx := TileIndex(wi*wordBits) + TileIndex(bits.TrailingZeros64(bit))
			out = append(out, idx)
			w &= w - 1
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

