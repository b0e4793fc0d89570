package liveness

import (
	"testing"

	"github.com/simkernel-go/simkernel/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapFor(actors int, content byte) state.Snapshot {
	return state.Capture(state.Summary{ActorsCount: actors}, []byte{content})
}

func TestPairSetInsertFindsEqualPair(t *testing.T) {
	s := newPairSet(0)

	p1 := &Pair{Num: 1, AutomatonState: 0, Propositions: []bool{true}, Snapshot: snapFor(2, 'a')}
	existing, found := s.insert(p1)
	assert.False(t, found)
	assert.Nil(t, existing)

	p2 := &Pair{Num: 2, AutomatonState: 0, Propositions: []bool{true}, Snapshot: snapFor(2, 'a')}
	existing, found = s.insert(p2)
	require.True(t, found)
	assert.Same(t, p1, existing)
	assert.Equal(t, 1, s.len(), "p2 must not be inserted alongside its equal p1")
}

func TestPairSetDistinguishesAutomatonStateAndSnapshot(t *testing.T) {
	s := newPairSet(0)

	base := &Pair{Num: 1, AutomatonState: 0, Propositions: []bool{false}, Snapshot: snapFor(1, 'x')}
	s.insert(base)

	diffAutomaton := &Pair{Num: 2, AutomatonState: 1, Propositions: []bool{false}, Snapshot: snapFor(1, 'x')}
	_, found := s.insert(diffAutomaton)
	assert.False(t, found)

	diffSnapshot := &Pair{Num: 3, AutomatonState: 0, Propositions: []bool{false}, Snapshot: snapFor(1, 'y')}
	_, found = s.insert(diffSnapshot)
	assert.False(t, found)

	assert.Equal(t, 3, s.len())
}

func TestPairSetEqualRangeScopesToMatchingSummary(t *testing.T) {
	s := newPairSet(0)
	for i, actors := range []int{3, 1, 2, 1, 3} {
		s.insert(&Pair{Num: i + 1, AutomatonState: i, Snapshot: snapFor(actors, byte('a'+i))})
	}

	lo, hi := s.equalRange(state.Summary{ActorsCount: 1})
	for _, p := range s.items[lo:hi] {
		assert.Equal(t, 1, p.Snapshot.Summary.ActorsCount)
	}
	assert.Equal(t, 2, hi-lo)
}

func TestPairSetRemove(t *testing.T) {
	s := newPairSet(0)
	p1 := &Pair{Num: 1, AutomatonState: 0, Snapshot: snapFor(1, 'a')}
	p2 := &Pair{Num: 2, AutomatonState: 1, Snapshot: snapFor(1, 'a')}
	s.insert(p1)
	s.insert(p2)
	require.Equal(t, 2, s.len())

	s.remove(p1)
	assert.Equal(t, 1, s.len())
	assert.Nil(t, s.find(p1))
	assert.NotNil(t, s.find(p2))
}

func TestPairSetEvictsOldestWhenOverMaxSize(t *testing.T) {
	s := newPairSet(2)

	s.insert(&Pair{Num: 1, AutomatonState: 0, Snapshot: snapFor(1, 'a')})
	s.insert(&Pair{Num: 2, AutomatonState: 1, Snapshot: snapFor(1, 'b')})
	require.Equal(t, 2, s.len())

	s.insert(&Pair{Num: 3, AutomatonState: 2, Snapshot: snapFor(1, 'c')})
	assert.Equal(t, 2, s.len(), "inserting past maxSize must evict, not grow unbounded")

	for _, p := range s.items {
		assert.NotEqual(t, 1, p.Num, "oldest (smallest Num) entry should have been evicted")
	}
}

func TestPairEqualComparesPropositionsElementwise(t *testing.T) {
	p1 := &Pair{AutomatonState: 0, Propositions: []bool{true, false}, Snapshot: snapFor(1, 'a')}
	p2 := &Pair{AutomatonState: 0, Propositions: []bool{true, true}, Snapshot: snapFor(1, 'a')}
	assert.False(t, p1.equal(p2))

	p3 := &Pair{AutomatonState: 0, Propositions: []bool{true, false}, Snapshot: snapFor(1, 'a')}
	assert.True(t, p1.equal(p3))
}
