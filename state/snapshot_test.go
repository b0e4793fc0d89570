package state_test

import (
	"testing"

	"github.com/simkernel-go/simkernel/state"
	"github.com/stretchr/testify/assert"
)

func TestSnapshotEqual(t *testing.T) {
	a := state.Capture(state.Summary{ActorsCount: 2, HeapBytesUsed: 128}, []byte("hello"))
	b := state.Capture(state.Summary{ActorsCount: 2, HeapBytesUsed: 128}, []byte("hello"))
	c := state.Capture(state.Summary{ActorsCount: 2, HeapBytesUsed: 128}, []byte("world"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestSnapshotEqualDiffersOnSummary(t *testing.T) {
	a := state.Capture(state.Summary{ActorsCount: 1, HeapBytesUsed: 0}, []byte("x"))
	b := state.Capture(state.Summary{ActorsCount: 2, HeapBytesUsed: 0}, []byte("x"))
	assert.False(t, a.Equal(b))
}

func TestSummaryLess(t *testing.T) {
	small := state.Summary{ActorsCount: 1, HeapBytesUsed: 100}
	big := state.Summary{ActorsCount: 1, HeapBytesUsed: 200}
	assert.True(t, small.Less(big))
	assert.False(t, big.Less(small))

	assert.True(t, state.Summary{ActorsCount: 1}.Less(state.Summary{ActorsCount: 2}))
}

func TestHasherMatchesCapture(t *testing.T) {
	summary := state.Summary{ActorsCount: 3, HeapBytesUsed: 64}
	direct := state.Capture(summary, []byte("abcdef"))

	h := state.NewHasher()
	_, _ = h.Write([]byte("abc"))
	_, _ = h.Write([]byte("def"))
	incremental := h.Sum(summary)

	assert.True(t, direct.Equal(incremental))

	h.Reset()
	_, _ = h.Write([]byte("zzz"))
	reused := h.Sum(summary)
	assert.False(t, incremental.Equal(reused))
}
