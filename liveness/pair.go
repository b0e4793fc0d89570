package liveness

import (
	"sort"

	"github.com/simkernel-go/simkernel/state"
)

// Pair is one node of the product graph the checker explores: an
// application state (represented by its Snapshot and the Move that
// produced it) paired with an automaton state and the
// propositions vector that licensed the move into it (§4.5, GLOSSARY
// "Pair").
type Pair struct {
	Num int // insertion sequence; also the visited-pair eviction key

	AutomatonState int
	Propositions   []bool
	Snapshot       state.Snapshot

	SearchCycle        bool
	Requests           int // enabled transitions not yet tried from this pair
	ExplorationStarted bool

	Parent *Pair
	Move   Move // the simcall-level move executed to reach this pair from Parent
	Depth  int

	pendingMoves []Move // this pair's interleave set, captured on first visit
}

func (p *Pair) equal(o *Pair) bool {
	if p.AutomatonState != o.AutomatonState || len(p.Propositions) != len(o.Propositions) {
		return false
	}
	for i := range p.Propositions {
		if p.Propositions[i] != o.Propositions[i] {
			return false
		}
	}
	return p.Snapshot.Equal(o.Snapshot)
}

// pairSet is the sorted visited/acceptance pair set §4.5 describes:
// kept ordered by state.Summary (actors_count, heap_bytes_used) so
// equality search only scans the equal-range agreeing on that summary,
// per §9's "Snapshot equality" design note.
type pairSet struct {
	items   []*Pair
	maxSize int // 0 = unbounded
}

func newPairSet(maxSize int) *pairSet {
	return &pairSet{maxSize: maxSize}
}

// find returns an existing pair equal to p, or nil.
func (s *pairSet) find(p *Pair) *Pair {
	lo, hi := s.equalRange(p.Snapshot.Summary)
	for _, c := range s.items[lo:hi] {
		if c.equal(p) {
			return c
		}
	}
	return nil
}

// insert adds p to the set in sorted position, evicting the
// oldest (smallest Num) entry if maxSize is exceeded. Returns the
// pre-existing equal pair if one was already present, in which case p
// is NOT inserted (matches the spec's "if an equivalent pair was
// visited previously" short-circuit).
func (s *pairSet) insert(p *Pair) (existing *Pair, found bool) {
	if existing := s.find(p); existing != nil {
		return existing, true
	}
	idx := sort.Search(len(s.items), func(i int) bool {
		return !s.items[i].Snapshot.Summary.Less(p.Snapshot.Summary)
	})
	s.items = append(s.items, nil)
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = p

	if s.maxSize > 0 && len(s.items) > s.maxSize {
		s.evictOldest()
	}
	return nil, false
}

// remove drops p from the set (used when backtracking out of an
// accepting pair, per §4.5 step 1 "if accepting remove from acceptance
// set").
func (s *pairSet) remove(p *Pair) {
	lo, hi := s.equalRange(p.Snapshot.Summary)
	for i := lo; i < hi; i++ {
		if s.items[i] == p {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *pairSet) equalRange(sum state.Summary) (lo, hi int) {
	lo = sort.Search(len(s.items), func(i int) bool {
		return !s.items[i].Snapshot.Summary.Less(sum)
	})
	hi = sort.Search(len(s.items), func(i int) bool {
		return sum.Less(s.items[i].Snapshot.Summary)
	})
	return lo, hi
}

// evictOldest drops the item with the smallest Num (§4.5 "Visited-pair
// bound"), scanning linearly since eviction is rare relative to insert/
// find traffic.
func (s *pairSet) evictOldest() {
	if len(s.items) == 0 {
		return
	}
	minIdx := 0
	for i, p := range s.items {
		if p.Num < s.items[minIdx].Num {
			minIdx = i
		}
	}
	s.items = append(s.items[:minIdx], s.items[minIdx+1:]...)
}

func (s *pairSet) len() int { return len(s.items) }
