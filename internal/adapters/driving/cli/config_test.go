package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd_HasSubcommands(t *testing.T) {
	commands := configCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "set")
	assert.Contains(t, commandNames, "path")
}

func TestConfigSetAndGet(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute("config", "set", "chunking.max_size", "400")
	require.NoError(t, err)
	assert.Contains(t, out, "Set chunking.max_size = 400")

	out, err = execute("config", "get", "chunking.max_size")
	require.NoError(t, err)
	assert.Contains(t, out, "400")
}

func TestConfigGet_Unset(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute("config", "get", "missing.key")
	require.NoError(t, err)
	assert.Contains(t, out, "missing.key is not set")
}

func TestConfigPath(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute("config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "config.toml")
}
