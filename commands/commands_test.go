package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "holoholo version "+Version)
}

func TestMigrateDownRejectsBadSteps(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"migrate", "down", "zero"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps must be a positive integer")
}

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range NewRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "seed", "images", "version"} {
		assert.True(t, names[want], want)
	}
}
