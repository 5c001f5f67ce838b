package sets

import (
	"sort"
	"testing"
)

func Test_Subsumes(t *testing.T) {
	type tCase struct {
		name   string
		expect bool
		a      []uint32
		b      []uint32
	}
	tCases := []tCase{
		{name: "empty is contained by anything",
			expect: true, a: []uint32{1, 2}, b: nil},
		{name: "equal runs",
			expect: true, a: []uint32{1, 2, 3}, b: []uint32{1, 2, 3}},
		{name: "proper subset",
			expect: true, a: []uint32{1, 2, 3, 4}, b: []uint32{2, 4}},
		{name: "subset at both ends",
			expect: true, a: []uint32{1, 5, 9}, b: []uint32{1, 9}},
		{name: "missing element in the middle",
			expect: false, a: []uint32{1, 3, 5}, b: []uint32{1, 4}},
		{name: "element beyond the end",
			expect: false, a: []uint32{1, 3}, b: []uint32{1, 3, 7}},
		{name: "disjoint",
			expect: false, a: []uint32{2, 4, 6}, b: []uint32{1, 3}},
		{name: "superset cannot be contained",
			expect: false, a: []uint32{2, 4}, b: []uint32{2, 4, 6}},
	}
	for _, tc := range tCases {
		got := Subsumes(tc.a, tc.b)
		if got != tc.expect {
			t.Errorf("Test case %s failed. Expect: %v, got: %v", tc.name, tc.expect, got)
		}
	}
}

func Test_SubsumesWithOffsets(t *testing.T) {
	// The cardinality engine skips the shared first item on both sides.
	a := []uint32{3, 5, 8, 11}
	b := []uint32{3, 8}
	if !Subsumes(a, b[1:]) {
		t.Error("tail check after a shared first item should hold")
	}
	if !Subsumes(a[1:], b[1:]) {
		t.Error("offsets into both sides should hold")
	}
}

func Test_Compare(t *testing.T) {
	type tCase struct {
		name   string
		expect int
		a      []uint32
		b      []uint32
	}
	tCases := []tCase{
		{name: "equal", expect: 0, a: []uint32{1, 2}, b: []uint32{1, 2}},
		{name: "prefix sorts first", expect: -1, a: []uint32{1, 2}, b: []uint32{1, 2, 3}},
		{name: "extension sorts last", expect: 1, a: []uint32{1, 2, 3}, b: []uint32{1, 2}},
		{name: "first item decides", expect: -1, a: []uint32{1, 9, 10}, b: []uint32{2}},
		{name: "middle item decides", expect: 1, a: []uint32{1, 4}, b: []uint32{1, 3, 9}},
		{name: "both empty", expect: 0, a: nil, b: nil},
	}
	for _, tc := range tCases {
		got := Compare(tc.a, tc.b)
		if got != tc.expect {
			t.Errorf("Test case %s failed. Expect: %v, got: %v", tc.name, tc.expect, got)
		}
	}
}

func Test_SortOrders(t *testing.T) {
	ss := []*Set{
		New(1, []uint32{2, 3}),
		New(2, []uint32{1, 2, 3}),
		New(3, []uint32{1, 2}),
		New(4, []uint32{1, 2, 3, 4}),
		New(5, []uint32{3}),
	}

	lex := make([]*Set, len(ss))
	copy(lex, ss)
	sort.Slice(lex, func(i, j int) bool { return Less(lex[i], lex[j]) })
	expectLex := []uint32{3, 2, 4, 1, 5}
	for i, id := range expectLex {
		if lex[i].ID != id {
			t.Fatalf("lex order: position %v expect id %v, got %v", i, id, lex[i].ID)
		}
	}

	card := make([]*Set, len(ss))
	copy(card, ss)
	sort.Slice(card, func(i, j int) bool { return CardinalityLess(card[i], card[j]) })
	expectCard := []uint32{5, 3, 1, 2, 4}
	for i, id := range expectCard {
		if card[i].ID != id {
			t.Fatalf("cardinality order: position %v expect id %v, got %v", i, id, card[i].ID)
		}
	}
}

func Test_IsStrictlyIncreasing(t *testing.T) {
	type tCase struct {
		name   string
		expect bool
		items  []uint32
	}
	tCases := []tCase{
		{name: "empty", expect: true, items: nil},
		{name: "single", expect: true, items: []uint32{5}},
		{name: "increasing", expect: true, items: []uint32{1, 2, 9}},
		{name: "duplicate", expect: false, items: []uint32{1, 2, 2}},
		{name: "decreasing", expect: false, items: []uint32{3, 1}},
	}
	for _, tc := range tCases {
		got := IsStrictlyIncreasing(tc.items)
		if got != tc.expect {
			t.Errorf("Test case %s failed. Expect: %v, got: %v", tc.name, tc.expect, got)
		}
	}
}

func Test_NewCopiesItems(t *testing.T) {
	items := []uint32{1, 2, 3}
	s := New(9, items)
	items[0] = 100
	if s.Items[0] != 1 {
		t.Error("New must copy the item run")
	}
	if s.String() != "9: 1 2 3" {
		t.Errorf("String: got %q", s.String())
	}
}
