// pkg/physics/solver.go
package physics

import (
	"iter"
	"math/bits"
)

// CastHit is the nearest impact found by a shape cast.
type CastHit[H any] struct {
	Handle H
	Time   float32
	Normal Vec2
}

type solverEntry[H any] struct {
	handle   H
	collider Collider
	bounds   AABB
}

// CollisionSolver indexes a snapshot of colliders by group bit. A collider
// is stored once per bit of its group, so a query only walks the buckets
// of the groups it cares about. Handles are opaque to the solver.
//
// The solver is rebuilt with Fill once per tick and only read afterwards.
// It is not safe for concurrent mutation.
type CollisionSolver[H any] struct {
	buckets [GroupCount][]solverEntry[H]
	count   int
}

func NewCollisionSolver[H any]() *CollisionSolver[H] {
	return &CollisionSolver[H]{}
}

// Clear drops every entry but keeps bucket capacity for the next Fill.
func (s *CollisionSolver[H]) Clear() {
	for i := range s.buckets {
		clear(s.buckets[i])
		s.buckets[i] = s.buckets[i][:0]
	}
	s.count = 0
}

// Len returns the number of colliders stored, counting each once.
func (s *CollisionSolver[H]) Len() int {
	return s.count
}

// Add stores c under every bit of its group. Colliders with an empty group
// can never be queried and are ignored.
func (s *CollisionSolver[H]) Add(handle H, c Collider) {
	if c.Group.IsEmpty() {
		return
	}
	entry := solverEntry[H]{handle: handle, collider: c, bounds: c.Bounds()}
	for rest := uint32(c.Group); rest != 0; rest &= rest - 1 {
		bit := bits.TrailingZeros32(rest)
		s.buckets[bit] = append(s.buckets[bit], entry)
	}
	s.count++
}

// Fill clears the solver and stores every entry.
func (s *CollisionSolver[H]) Fill(entries iter.Seq2[H, Collider]) {
	s.Clear()
	for handle, c := range entries {
		s.Add(handle, c)
	}
}

// candidates yields the entries sharing a bit with group, each once.
// An entry is skipped in a bucket when it also sits in a lower bucket
// that group visits.
func (s *CollisionSolver[H]) candidates(group Group) iter.Seq[*solverEntry[H]] {
	return func(yield func(*solverEntry[H]) bool) {
		for rest := uint32(group); rest != 0; rest &= rest - 1 {
			bit := bits.TrailingZeros32(rest)
			visited := group & (GroupFromID(bit) - 1)
			bucket := s.buckets[bit]
			for i := range bucket {
				if bucket[i].collider.Group&visited != 0 {
					continue
				}
				if !yield(&bucket[i]) {
					return
				}
			}
		}
	}
}

// QueryOverlaps yields every stored collider in the buckets of query.Group
// whose group includes filter and which collides with query. The sequence
// is lazy and may be ranged over more than once.
func (s *CollisionSolver[H]) QueryOverlaps(query Collider, filter Group) iter.Seq2[H, Collider] {
	return func(yield func(H, Collider) bool) {
		box := query.Bounds()
		box = box.Expand(box.slack())
		for e := range s.candidates(query.Group) {
			if !e.collider.SatisfiesFilter(filter) {
				continue
			}
			if !box.Overlaps(e.bounds) {
				continue
			}
			if !query.Collides(e.collider) {
				continue
			}
			if !yield(e.handle, e.collider) {
				return
			}
		}
	}
}

// QueryShapeCast sweeps query along the unit vector dir for at most tMax
// and returns the nearest hit among the buckets of query.Group. On equal
// times the first hit found wins.
func (s *CollisionSolver[H]) QueryShapeCast(query Collider, dir Vec2, tMax float32) (CastHit[H], bool) {
	var (
		best  CastHit[H]
		found bool
	)
	box := query.Bounds()
	for e := range s.candidates(query.Group) {
		target := e.bounds.Expand(e.bounds.slack() + box.slack())
		if !target.CastRect(box, dir, tMax+10*ShapeTOIEpsilon) {
			continue
		}
		impact, ok := query.TimeOfImpact(e.collider, dir, tMax)
		if !ok {
			continue
		}
		if !found || impact.Time < best.Time {
			best = CastHit[H]{Handle: e.handle, Time: impact.Time, Normal: impact.Normal}
			found = true
		}
	}
	return best, found
}
