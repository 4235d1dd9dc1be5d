// pkg/physics/group.go
package physics

import (
	"math/bits"
	"strconv"
	"strings"
	"unsafe"
)

// Group is a bitset of collision categories. Bit i set means membership
// in category i.
type Group uint32

// GroupCount is the number of categories a Group can hold.
const GroupCount = 32

// GroupCount must match the width of Group; either array length goes
// negative and fails to compile otherwise.
var (
	_ [GroupCount - 8*unsafe.Sizeof(Group(0))]struct{}
	_ [8*unsafe.Sizeof(Group(0)) - GroupCount]struct{}
)

// EmptyGroup returns the group with no members.
func EmptyGroup() Group {
	return 0
}

// GroupFromID returns the singleton group for category id. Ids outside
// [0, GroupCount) yield the empty group.
func GroupFromID(id int) Group {
	if id < 0 || id >= GroupCount {
		return 0
	}
	return Group(1) << id
}

// GroupFromIDs unions the singleton groups of every id.
func GroupFromIDs(ids ...int) Group {
	var g Group
	for _, id := range ids {
		g |= GroupFromID(id)
	}
	return g
}

func (g Group) Union(other Group) Group {
	return g | other
}

func (g Group) Intersection(other Group) Group {
	return g & other
}

// Includes reports whether every member of target is also in g.
func (g Group) Includes(target Group) bool {
	return g&target == target
}

// Contains reports whether category id is a member of g.
func (g Group) Contains(id int) bool {
	single := GroupFromID(id)
	return single != 0 && g.Includes(single)
}

func (g Group) IsEmpty() bool {
	return g == 0
}

// Len returns the number of categories in g.
func (g Group) Len() int {
	return bits.OnesCount32(uint32(g))
}

// IDs decomposes g into its member category ids in ascending order.
func (g Group) IDs() []int {
	ids := make([]int, 0, g.Len())
	for rest := uint32(g); rest != 0; rest &= rest - 1 {
		ids = append(ids, bits.TrailingZeros32(rest))
	}
	return ids
}

// String renders g as a set of ids, e.g. "{0,3}".
func (g Group) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, id := range g.IDs() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}
	sb.WriteByte('}')
	return sb.String()
}
