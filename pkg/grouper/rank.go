package grouper

import "math"

// rank orders the entries competing for a path. Ranks compare
// lexicographically and a proper prefix sorts first.
//
//	manual pattern k            (0, k)
//	root config entry e         (1, e)
//	nested entry e2 of branch   branchRank ++ (alt, depth, e2)
//	branch remainder            branchRank ++ (alt, depth, remainderIndex)
//	default                     (2)
type rank []int

// remainderIndex sorts a branch's remainder after every entry of its subtree.
const remainderIndex = math.MaxInt

var (
	manualRank  = rank{0}
	configRank  = rank{1}
	defaultRank = rank{2}
)

func (r rank) extend(v ...int) rank {
	out := make(rank, len(r), len(r)+len(v))
	copy(out, r)
	return append(out, v...)
}

func (r rank) compare(o rank) int {
	for i := 0; i < len(r) && i < len(o); i++ {
		switch {
		case r[i] < o[i]:
			return -1
		case r[i] > o[i]:
			return 1
		}
	}
	switch {
	case len(r) < len(o):
		return -1
	case len(r) > len(o):
		return 1
	}
	return 0
}

func (r rank) less(o rank) bool  { return r.compare(o) < 0 }
func (r rank) equal(o rank) bool { return r.compare(o) == 0 }
