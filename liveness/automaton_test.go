package liveness_test

import (
	"testing"

	"github.com/simkernel-go/simkernel/liveness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alwaysEventuallyPYAML = `
propositions: [p]
states:
  - {id: 0, kind: -1}
  - {id: 1, kind: 1}
transitions:
  - {from: 0, to: 0, label: "!p"}
  - {from: 0, to: 1, label: "p"}
  - {from: 1, to: 0, label: "!p"}
  - {from: 1, to: 1, label: "p"}
`

func TestLoadAutomatonYAML(t *testing.T) {
	a, err := liveness.LoadAutomatonYAML([]byte(alwaysEventuallyPYAML))
	require.NoError(t, err)
	assert.Equal(t, 0, a.Initial().ID)
	assert.Equal(t, []string{"p"}, a.Propositions)
}

func TestAutomatonEnabled(t *testing.T) {
	a, err := liveness.LoadAutomatonYAML([]byte(alwaysEventuallyPYAML))
	require.NoError(t, err)

	enabled, err := a.Enabled(0, map[string]bool{"p": true})
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, 1, enabled[0].To)

	enabled, err = a.Enabled(0, map[string]bool{"p": false})
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, 0, enabled[0].To)
}

func TestLoadAutomatonYAMLRejectsMissingInitial(t *testing.T) {
	_, err := liveness.LoadAutomatonYAML([]byte(`
propositions: [p]
states:
  - {id: 0, kind: 0}
transitions: []
`))
	assert.Error(t, err)
}

func TestLoadAutomatonYAMLRejectsBadLabel(t *testing.T) {
	_, err := liveness.LoadAutomatonYAML([]byte(`
propositions: [p]
states:
  - {id: 0, kind: -1}
transitions:
  - {from: 0, to: 0, label: "p && ("}
`))
	assert.Error(t, err)
}
