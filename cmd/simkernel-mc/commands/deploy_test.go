package commands

import (
	"testing"

	"github.com/simkernel-go/simkernel/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const producerConsumerScenario = `
[[actors]]
name = "p"
entry = "producer"
host = "h1"

[[actors]]
name = "c"
entry = "consumer"
host = "h1"
daemon = true
`

func TestDeployWiresScenarioActors(t *testing.T) {
	s, err := config.LoadBytes([]byte(producerConsumerScenario))
	require.NoError(t, err)

	m, err := deploy(s)
	require.NoError(t, err)
	require.NotNil(t, m)

	require.NoError(t, m.Run())
	assert.Equal(t, 0, m.LiveActorCount(), "producer and daemon consumer should both exit at quiescence")
}

func TestDeployRejectsUnknownEntry(t *testing.T) {
	s, err := config.LoadBytes([]byte(`
[[actors]]
name = "x"
entry = "does-not-exist"
`))
	require.NoError(t, err)

	_, err = deploy(s)
	assert.Error(t, err)
}

func TestApplyOverridesLeavesScenarioAloneByDefault(t *testing.T) {
	s := &config.Scenario{MaxVisitedStates: 5, CheckpointInterval: 3, DotOutput: "a.dot"}
	maxVisitedOverride, checkpointIntervalOverride, dotOutputOverride = -1, -1, ""
	applyOverrides(s)
	assert.Equal(t, 5, s.MaxVisitedStates)
	assert.Equal(t, 3, s.CheckpointInterval)
	assert.Equal(t, "a.dot", s.DotOutput)
}

func TestApplyOverridesOverridesWhenSet(t *testing.T) {
	s := &config.Scenario{MaxVisitedStates: 5}
	maxVisitedOverride = 100
	defer func() { maxVisitedOverride = -1 }()
	applyOverrides(s)
	assert.Equal(t, 100, s.MaxVisitedStates)
}
