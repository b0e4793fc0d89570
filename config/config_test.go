package config_test

import (
	"testing"

	"github.com/simkernel-go/simkernel/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScenario = `
property_file = "always_eventually_p.yaml"
max_visited_states = 10000
checkpoint_interval = 50
dot_output = "run.dot"

[[actors]]
name = "producer"
entry = "producer"
host = "h1"

[[actors]]
name = "consumer"
entry = "consumer"
host = "h2"
daemon = true
properties = { role = "sink" }
`

func TestLoadBytes(t *testing.T) {
	s, err := config.LoadBytes([]byte(sampleScenario))
	require.NoError(t, err)

	assert.Equal(t, "always_eventually_p.yaml", s.PropertyFile)
	assert.Equal(t, 10000, s.MaxVisitedStates)
	assert.Equal(t, 50, s.CheckpointInterval)
	assert.Equal(t, "run.dot", s.DotOutput)
	assert.True(t, s.HasLivenessCheck())

	require.Len(t, s.Actors, 2)
	assert.Equal(t, "producer", s.Actors[0].Name)
	assert.False(t, s.Actors[0].Daemon)
	assert.True(t, s.Actors[1].Daemon)
	assert.Equal(t, "sink", s.Actors[1].Properties["role"])
}

func TestLoadBytesRejectsNegativeBounds(t *testing.T) {
	_, err := config.LoadBytes([]byte(`max_visited_states = -1`))
	assert.Error(t, err)
}

func TestLoadBytesRejectsDuplicateActorNames(t *testing.T) {
	_, err := config.LoadBytes([]byte(`
[[actors]]
name = "a"
entry = "a"

[[actors]]
name = "a"
entry = "b"
`))
	assert.Error(t, err)
}

func TestLoadBytesRejectsMissingEntry(t *testing.T) {
	_, err := config.LoadBytes([]byte(`
[[actors]]
name = "a"
`))
	assert.Error(t, err)
}

func TestLoadBytesNoLivenessCheckByDefault(t *testing.T) {
	s, err := config.LoadBytes([]byte(``))
	require.NoError(t, err)
	assert.False(t, s.HasLivenessCheck())
}
