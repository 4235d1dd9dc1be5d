// pkg/physics/solver_test.go
package physics

import (
	"iter"
	"math/rand/v2"
	"slices"
	"testing"
)

func collectHandles[H any](seq iter.Seq2[H, Collider]) []H {
	var out []H
	for h := range seq {
		out = append(out, h)
	}
	return out
}

// threeCircles places three small circles around the origin, one per group.
func threeCircles(groups [3]Group) []Collider {
	positions := []Vec2{{0, 1.5}, {1, -1}, {-1, -1}}
	colliders := make([]Collider, len(positions))
	for i, p := range positions {
		colliders[i] = NewCollider(NewCircle(2), FromTranslation(p), groups[i])
	}
	return colliders
}

func TestCollisionSolver_QueryOverlapsGroups(t *testing.T) {
	pair := GroupFromIDs(1, 2)

	tests := []struct {
		name     string
		groups   [3]Group
		query    Group
		filter   Group
		expected []int
	}{
		{
			name:     "singleton_groups",
			groups:   [3]Group{GroupFromID(0), GroupFromID(1), GroupFromID(2)},
			query:    pair,
			filter:   EmptyGroup(),
			expected: []int{1, 2},
		},
		{
			name:     "filter_requires_both",
			groups:   [3]Group{pair, GroupFromIDs(0, 2), GroupFromIDs(0, 1)},
			query:    pair,
			filter:   pair,
			expected: []int{0},
		},
		{
			name:     "multi_bucket_entries_yielded_once",
			groups:   [3]Group{pair, GroupFromIDs(0, 2), GroupFromIDs(0, 1)},
			query:    pair,
			filter:   EmptyGroup(),
			expected: []int{0, 1, 2},
		},
		{
			name:     "empty_query_group",
			groups:   [3]Group{GroupFromID(0), GroupFromID(1), GroupFromID(2)},
			query:    EmptyGroup(),
			filter:   EmptyGroup(),
			expected: nil,
		},
		{
			name:     "query_group_without_members",
			groups:   [3]Group{GroupFromID(0), GroupFromID(1), GroupFromID(2)},
			query:    GroupFromID(9),
			filter:   EmptyGroup(),
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			solver := NewCollisionSolver[int]()
			solver.Fill(slices.All(threeCircles(tt.groups)))

			query := NewCollider(NewCircle(10), IdentityTransform(), tt.query)
			got := collectHandles(solver.QueryOverlaps(query, tt.filter))
			slices.Sort(got)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("QueryOverlaps() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCollisionSolver_BucketDuplication(t *testing.T) {
	solver := NewCollisionSolver[string]()
	solver.Add("wide", NewCollider(NewRect(1, 1), IdentityTransform(), GroupFromIDs(0, 3, 31)))
	solver.Add("narrow", NewCollider(NewRect(1, 1), IdentityTransform(), GroupFromID(3)))
	solver.Add("nowhere", NewCollider(NewRect(1, 1), IdentityTransform(), EmptyGroup()))

	if solver.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", solver.Len())
	}
	for bit, expected := range map[int]int{0: 1, 3: 2, 31: 1, 5: 0} {
		if got := len(solver.buckets[bit]); got != expected {
			t.Errorf("bucket %d holds %d entries, expected %d", bit, got, expected)
		}
	}

	solver.Clear()
	if solver.Len() != 0 || len(solver.buckets[3]) != 0 {
		t.Error("Clear() left entries behind")
	}
}

func TestCollisionSolver_FillReplaces(t *testing.T) {
	solver := NewCollisionSolver[int]()
	solver.Fill(slices.All(threeCircles([3]Group{1, 1, 1})))
	solver.Fill(slices.All(threeCircles([3]Group{1, 1, 1})[:1]))

	query := NewCollider(NewCircle(10), IdentityTransform(), GroupFromID(0))
	if got := collectHandles(solver.QueryOverlaps(query, EmptyGroup())); !slices.Equal(got, []int{0}) {
		t.Errorf("after refill QueryOverlaps() = %v, expected [0]", got)
	}
}

func TestCollisionSolver_QueryOverlapsRestartable(t *testing.T) {
	solver := NewCollisionSolver[int]()
	solver.Fill(slices.All(threeCircles([3]Group{1, 1, 1})))

	seq := solver.QueryOverlaps(NewCollider(NewCircle(10), IdentityTransform(), 1), EmptyGroup())
	first := collectHandles(seq)
	second := collectHandles(seq)
	if len(first) != 3 || !slices.Equal(first, second) {
		t.Errorf("ranges differ: %v then %v", first, second)
	}

	count := 0
	for range seq {
		count++
		break
	}
	if count != 1 {
		t.Errorf("early break visited %d entries", count)
	}
}

func TestCollisionSolver_QueryShapeCast(t *testing.T) {
	walls := GroupFromID(0)
	solver := NewCollisionSolver[string]()
	solver.Add("far", NewCollider(NewRect(8, 64), FromTranslation(Vec2{60, 0}), walls))
	solver.Add("near", NewCollider(NewRect(8, 64), FromTranslation(Vec2{30, 0}), walls))
	solver.Add("ghost", NewCollider(NewRect(8, 64), FromTranslation(Vec2{20, 0}), GroupFromID(1)))

	mover := NewCollider(NewRect(8, 8), IdentityTransform(), walls)

	hit, ok := solver.QueryShapeCast(mover, Vec2{1, 0}, 100)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Handle != "near" || !approxEqual(hit.Time, 22, 1e-4) || hit.Normal != (Vec2{-1, 0}) {
		t.Errorf("QueryShapeCast() = %+v, expected near at 22", hit)
	}

	if _, ok := solver.QueryShapeCast(mover, Vec2{1, 0}, 20); ok {
		t.Error("expected no hit within a 20 unit budget")
	}
	if _, ok := solver.QueryShapeCast(mover, Vec2{-1, 0}, 100); ok {
		t.Error("expected no hit moving away")
	}

	mover.Group = GroupFromID(1)
	hit, ok = solver.QueryShapeCast(mover, Vec2{1, 0}, 100)
	if !ok || hit.Handle != "ghost" {
		t.Errorf("group 1 cast = %+v, %v; expected ghost", hit, ok)
	}
}

func TestCollisionSolver_QueryShapeCastTieFirstWins(t *testing.T) {
	solver := NewCollisionSolver[int]()
	solver.Add(1, NewCollider(NewRect(8, 8), FromTranslation(Vec2{32, 8}), 1))
	solver.Add(2, NewCollider(NewRect(8, 8), FromTranslation(Vec2{32, -8}), 1))

	hit, ok := solver.QueryShapeCast(NewCollider(NewRect(8, 8), IdentityTransform(), 1), Vec2{1, 0}, 100)
	if !ok || hit.Handle != 1 {
		t.Errorf("QueryShapeCast() = %+v, %v; expected handle 1", hit, ok)
	}
}

func randomScene(rng *rand.Rand, n int) []Collider {
	scene := make([]Collider, n)
	for i := range scene {
		scene[i] = randomCollider(rng)
	}
	return scene
}

func randomCollider(rng *rand.Rand) Collider {
	var shape Shape
	if rng.IntN(2) == 0 {
		shape = NewRect(4+rng.Float32()*36, 4+rng.Float32()*36)
	} else {
		shape = NewCircle(2 + rng.Float32()*18)
	}
	pos := Vec2{rng.Float32()*200 - 100, rng.Float32()*200 - 100}
	tf := FromAngleTranslation(rng.Float32()*6.3, pos)
	group := Group(rng.Uint32()&0xf) | GroupFromID(rng.IntN(4))
	return NewCollider(shape, tf, group)
}

// The bounding box reject must never change a narrow phase answer.
func TestCollisionSolver_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 99))
	for round := range 50 {
		scene := randomScene(rng, 40)
		solver := NewCollisionSolver[int]()
		solver.Fill(slices.All(scene))

		for range 20 {
			query := randomCollider(rng)
			filter := Group(rng.Uint32() & 0x3)

			var expected []int
			for i, c := range scene {
				if !c.Group.Intersection(query.Group).IsEmpty() && c.SatisfiesFilter(filter) && query.Collides(c) {
					expected = append(expected, i)
				}
			}
			got := collectHandles(solver.QueryOverlaps(query, filter))
			slices.Sort(got)
			if !slices.Equal(got, expected) {
				t.Fatalf("round %d: QueryOverlaps() = %v, brute force = %v", round, got, expected)
			}

			dir := unitAt(rng.Float32() * 6.3)
			tMax := rng.Float32() * 150
			bestTime, bestFound := float32(0), false
			for _, c := range scene {
				if c.Group.Intersection(query.Group).IsEmpty() {
					continue
				}
				if impact, ok := query.TimeOfImpact(c, dir, tMax); ok && (!bestFound || impact.Time < bestTime) {
					bestTime, bestFound = impact.Time, true
				}
			}
			hit, ok := solver.QueryShapeCast(query, dir, tMax)
			if ok != bestFound || (ok && hit.Time != bestTime) {
				t.Fatalf("round %d: QueryShapeCast() = %+v, %v; brute force = %v, %v", round, hit, ok, bestTime, bestFound)
			}
		}
	}
}

func BenchmarkCollisionSolver_Fill(b *testing.B) {
	scene := randomScene(rand.New(rand.NewPCG(1, 2)), 500)
	solver := NewCollisionSolver[int]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		solver.Fill(slices.All(scene))
	}
}

func BenchmarkCollisionSolver_QueryShapeCast(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	solver := NewCollisionSolver[int]()
	solver.Fill(slices.All(randomScene(rng, 500)))
	query := randomCollider(rng)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = solver.QueryShapeCast(query, Vec2{1, 0}, 50)
	}
}
