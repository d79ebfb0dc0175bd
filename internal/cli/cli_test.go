package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildParser_RegistersAllCommands(t *testing.T) {
	parser, globals, cmds := buildParser("test")
	require.NotNil(t, globals)
	require.NotNil(t, cmds)

	names := []string{
		"read", "status", "history", "stats", "todo",
		"achievements", "prefs", "prune", "reset", "serve",
	}
	for _, name := range names {
		assert.NotNil(t, parser.Find(name), "command %s should be registered", name)
	}
}

func TestRunWithArgs_Version(t *testing.T) {
	output, err := captureOutput(t, func() error {
		return RunWithArgs("1.2.3", []string{"--version"})
	})
	require.NoError(t, err)
	assert.Equal(t, "lectern 1.2.3\n", output)
}
