package mpi_test

import (
	"testing"

	"github.com/simkernel-go/simkernel/kernel"
	"github.com/simkernel-go/simkernel/mpi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(*kernel.Actor) {}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	r := mpi.NewRegistry()
	require.NoError(t, r.Register("world", noop, 4))
	err := r.Register("world", noop, 2)
	assert.Error(t, err)
}

func TestRegisterRejectsNonPositiveProcesses(t *testing.T) {
	r := mpi.NewRegistry()
	assert.Error(t, r.Register("world", noop, 0))
}

func TestRegisterProcessAndCommWorld(t *testing.T) {
	r := mpi.NewRegistry()
	require.NoError(t, r.Register("world", noop, 2))

	m := kernel.NewMaestro()
	a, err := m.Create(kernel.CreateArgs{Name: "rank0", Code: noop}, nil)
	require.NoError(t, err)

	require.NoError(t, r.RegisterProcess("world", 0, a))
	assert.Error(t, r.RegisterProcess("world", 0, a), "rank already occupied")
	assert.Error(t, r.RegisterProcess("world", 5, a), "rank out of range")

	comm := r.CommWorld("world")
	require.NotNil(t, comm)
	assert.Equal(t, 2, comm.Size())
	assert.Equal(t, a, comm.Rank(0))
	assert.Equal(t, []int{0}, comm.Ranks())
}

func TestUnregisterProcessDestroysCommWorldWhenAllFinalized(t *testing.T) {
	r := mpi.NewRegistry()
	require.NoError(t, r.Register("world", noop, 2))

	m := kernel.NewMaestro()
	a0, _ := m.Create(kernel.CreateArgs{Name: "rank0", Code: noop}, nil)
	a1, _ := m.Create(kernel.CreateArgs{Name: "rank1", Code: noop}, nil)
	require.NoError(t, r.RegisterProcess("world", 0, a0))
	require.NoError(t, r.RegisterProcess("world", 1, a1))

	require.NoError(t, r.UnregisterProcess("world", 0))
	assert.NotNil(t, r.CommWorld("world"), "comm_world survives until every rank finalizes")

	require.NoError(t, r.UnregisterProcess("world", 1))
	assert.Nil(t, r.CommWorld("world"), "comm_world is destroyed once finalized_ranks == size")
}

func TestUniverseSize(t *testing.T) {
	r := mpi.NewRegistry()
	require.NoError(t, r.Register("a", noop, 3))
	require.NoError(t, r.Register("b", noop, 5))
	assert.Equal(t, 8, r.UniverseSize())
}

func TestCommWorldAndEntryUnknownInstance(t *testing.T) {
	r := mpi.NewRegistry()
	assert.Nil(t, r.CommWorld("nope"))
	_, _, err := r.Entry("nope")
	assert.Error(t, err)
}
