// pkg/physics/group_test.go
package physics

import (
	"math/rand/v2"
	"testing"
)

const groupSamples = 100_000

func randomGroups(seed uint64) func() Group {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func() Group { return Group(rng.Uint32()) }
}

func TestGroupFromID(t *testing.T) {
	tests := []struct {
		name     string
		id       int
		expected Group
	}{
		{name: "first", id: 0, expected: 1},
		{name: "middle", id: 5, expected: 32},
		{name: "last", id: 31, expected: 1 << 31},
		{name: "out_of_range", id: 32, expected: 0},
		{name: "negative", id: -1, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GroupFromID(tt.id); got != tt.expected {
				t.Errorf("GroupFromID(%d) = %v, expected %v", tt.id, got, tt.expected)
			}
		})
	}
}

func TestGroup_DisjointIDs(t *testing.T) {
	for i := range GroupCount {
		for j := range GroupCount {
			inter := GroupFromID(i).Intersection(GroupFromID(j))
			if i == j && inter.IsEmpty() {
				t.Fatalf("GroupFromID(%d) does not intersect itself", i)
			}
			if i != j && !inter.IsEmpty() {
				t.Fatalf("GroupFromID(%d) and GroupFromID(%d) intersect", i, j)
			}
		}
	}
}

func TestGroup_Algebra(t *testing.T) {
	next := randomGroups(1)
	empty := EmptyGroup()
	if !empty.IsEmpty() {
		t.Fatal("EmptyGroup() is not empty")
	}

	for range groupSamples {
		x, y := next(), next()

		if !x.Includes(x) {
			t.Fatalf("%v does not include itself", x)
		}
		if x.Union(x) != x {
			t.Fatalf("%v union itself = %v", x, x.Union(x))
		}
		if x.Intersection(x) != x {
			t.Fatalf("%v intersection itself = %v", x, x.Intersection(x))
		}
		if !x.Includes(empty) {
			t.Fatalf("%v does not include the empty group", x)
		}

		u := x.Union(y)
		if !u.Includes(x) || !u.Includes(y) {
			t.Fatalf("union %v does not include %v and %v", u, x, y)
		}
		i := x.Intersection(y)
		if !x.Includes(i) || !y.Includes(i) {
			t.Fatalf("intersection %v not included in %v and %v", i, x, y)
		}
	}
}

func TestGroup_DecomposeAndRebuild(t *testing.T) {
	next := randomGroups(2)
	for range groupSamples {
		g := next()
		rebuilt := EmptyGroup()
		for _, id := range g.IDs() {
			if !g.Contains(id) {
				t.Fatalf("%v does not contain its own id %d", g, id)
			}
			rebuilt = rebuilt.Union(GroupFromID(id))
		}
		if rebuilt != g {
			t.Fatalf("rebuilt %v from %v", rebuilt, g)
		}
		if g.Len() != len(g.IDs()) {
			t.Fatalf("Len() = %d but %d ids", g.Len(), len(g.IDs()))
		}
	}
}

func TestGroup_Contains(t *testing.T) {
	g := GroupFromIDs(1, 4)
	if !g.Contains(1) || !g.Contains(4) {
		t.Errorf("%v should contain 1 and 4", g)
	}
	if g.Contains(0) || g.Contains(32) || g.Contains(-3) {
		t.Errorf("%v contains an id it should not", g)
	}
}

func TestGroup_String(t *testing.T) {
	tests := []struct {
		group    Group
		expected string
	}{
		{EmptyGroup(), "{}"},
		{GroupFromID(3), "{3}"},
		{GroupFromIDs(0, 2, 31), "{0,2,31}"},
	}

	for _, tt := range tests {
		if got := tt.group.String(); got != tt.expected {
			t.Errorf("String() = %q, expected %q", got, tt.expected)
		}
	}
}
