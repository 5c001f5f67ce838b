package sets

import (
	"strconv"
	"strings"
)

// Set is one packed itemset: an opaque 32-bit id chosen by the producer
// and a strictly increasing run of 32-bit item ids.
type Set struct {
	ID    uint32
	Items []uint32
}

// New copies items into a compact allocation owned by the returned set.
func New(id uint32, items []uint32) *Set {
	owned := make([]uint32, len(items))
	copy(owned, items)
	return &Set{ID: id, Items: owned}
}

func (s *Set) Size() int {
	return len(s.Items)
}

// String renders the id_and_items output line: "id: i1 i2 ... iN".
func (s *Set) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(s.ID), 10))
	b.WriteByte(':')
	for _, item := range s.Items {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatUint(uint64(item), 10))
	}
	return b.String()
}

// IsStrictlyIncreasing reports whether items form a valid run: sorted
// ascending with no duplicates.
func IsStrictlyIncreasing(items []uint32) bool {
	for i := 1; i < len(items); i++ {
		if items[i-1] >= items[i] {
			return false
		}
	}
	return true
}

// Compare orders two item runs lexicographically; a proper prefix sorts
// before its extensions. Returns -1, 0 or 1.
func Compare(a, b []uint32) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Less is the lexicographic order the lex engine consumes, with ids
// breaking ties between duplicate item runs.
func Less(a, b *Set) bool {
	if c := Compare(a.Items, b.Items); c != 0 {
		return c < 0
	}
	return a.ID < b.ID
}

// CardinalityLess is the order the cardinality engine consumes:
// non-decreasing size, lexicographic within a size.
func CardinalityLess(a, b *Set) bool {
	if len(a.Items) != len(b.Items) {
		return len(a.Items) < len(b.Items)
	}
	return Less(a, b)
}
